//go:build tock && tinygo && cortexm

package trap

import (
	"device/arm"
	"unsafe"
)

// svc issues traps with the SVC instruction. arm.SVCallN binds the arguments
// to r0-r3, reads the status word from r0 and marks r1-r3 clobbered.
type svc struct{}

func native() Platform { return svc{} }

var upcalls = dispatch{}

// upcallEntry resolves to the address of tockUpcall.
//
//go:extern tock_upcall
var upcallEntry [0]byte

// tockUpcall is what the kernel jumps to after rewriting the stacked frame of
// a yielding process. It returns into the instruction after "svc 0".
//
//export tock_upcall
func tockUpcall(arg0, arg1, arg2, userdata uintptr) {
	upcalls.run(arg0, arg1, arg2, userdata)
}

// Yield must stay a real call with its own frame. The kernel points lr at
// the instruction after the svc when it injects an upcall, so lr is saved
// around the trap; r0-r3 and r12 are caller-saved across the call anyway.
//
//go:noinline
func (svc) Yield() {
	arm.Asm(`
		push {r4, lr}
		svc 0
		pop {r4, lr}
	`)
}

func (svc) Subscribe(driver DriverNum, slot SubscribeNum, upcall Upcall, userdata uintptr) ReturnCode {
	var entry uintptr
	if upcall != nil {
		entry = uintptr(unsafe.Pointer(&upcallEntry))
	}
	rc := ReturnCode(arm.SVCall4(1, uint32(driver), uint32(slot), entry, userdata))
	upcalls.settle(upcall, userdata, rc)
	return rc
}

func (svc) Command(driver DriverNum, cmd CommandNum, arg1, arg2 uintptr) ReturnCode {
	return ReturnCode(arm.SVCall4(2, uint32(driver), uint32(cmd), arg1, arg2))
}

// Allow passes the buffer address as a plain word; callers keep the buffer
// reachable for as long as the kernel holds it.
func (svc) Allow(driver DriverNum, slot AllowNum, buf []byte) ReturnCode {
	var ptr uintptr
	if len(buf) > 0 {
		ptr = uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	}
	return ReturnCode(arm.SVCall4(3, uint32(driver), uint32(slot), ptr, uint32(len(buf))))
}

func (svc) Memop(op MemopNum, arg uintptr) ReturnCode {
	return ReturnCode(arm.SVCall2(4, uint32(op), arg))
}
