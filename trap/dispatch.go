package trap

// dispatch maps the userdata word of every live registration to the Go
// function the kernel-visible entry must run. The SVC platform owns one; only
// the yielding context reads or writes it.
type dispatch map[uintptr]Upcall

// settle records the outcome of a subscribe trap. The table only changes
// when the kernel accepted the call: a nil upcall removes the registration.
func (d dispatch) settle(upcall Upcall, userdata uintptr, rc ReturnCode) {
	if rc < 0 {
		return
	}
	if upcall == nil {
		delete(d, userdata)
		return
	}
	d[userdata] = upcall
}

// run invokes the registration for userdata, if any.
func (d dispatch) run(arg0, arg1, arg2, userdata uintptr) {
	if fn := d[userdata]; fn != nil {
		fn(arg0, arg1, arg2, userdata)
	}
}
