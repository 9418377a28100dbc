package upcall

// Trampoline is the only function registered with the kernel. It recovers
// the pinned callback from the userdata handle and runs it synchronously.
// Handles that are zero or no longer pinned are ignored and logged.
func Trampoline(arg0, arg1, arg2, userdata uintptr) {
	cb := lookup(Handle(userdata))
	if cb == nil {
		log.Debug("upcall for released handle", "handle", userdata)
		return
	}
	cb.Upcall(arg0, arg1, arg2)
}
