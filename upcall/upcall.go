// Package upcall registers process callbacks with kernel drivers.
//
// A Subscription owns one (driver, subscribe slot) pair for as long as it is
// open. While it is open the callback is pinned in a process-wide table and
// the kernel only ever sees Trampoline plus an opaque handle; closing the
// subscription revokes the slot in the kernel and unpins the callback.
// Callbacks run on the goroutine that called Yield, never concurrently with
// it.
package upcall

import (
	"libtock-go/errcode"
	"libtock-go/trap"
	"libtock-go/x/logx"
)

var log = logx.New("upcall")

// Callback receives the three driver-defined argument words of an upcall.
type Callback interface {
	Upcall(arg0, arg1, arg2 uintptr)
}

// Func adapts an ordinary function to Callback.
type Func func(arg0, arg1, arg2 uintptr)

func (f Func) Upcall(arg0, arg1, arg2 uintptr) { f(arg0, arg1, arg2) }

// Subscription is a live callback registration. Close it on every exit path;
// `defer sub.Close()` straight after a successful Subscribe is the usual form.
type Subscription struct {
	key    slotKey
	handle Handle
}

// Subscribe registers cb for (driver, slot) on p.
//
// A slot already owned by a live Subscription on the same platform fails with
// errcode.Already and leaves the existing registration untouched. Kernel
// refusals are returned translated (commonly NoMem or NoSupport); in every
// failure case nothing stays registered.
func Subscribe(p trap.Platform, driver trap.DriverNum, slot trap.SubscribeNum, cb Callback) (*Subscription, error) {
	if cb == nil {
		return nil, &errcode.E{C: errcode.Invalid, Op: "subscribe", Msg: "nil callback"}
	}
	if !trap.Comparable(p) {
		return nil, &errcode.E{C: errcode.Invalid, Op: "subscribe", Msg: "platform is not comparable", Raw: errcode.Raw(errcode.Invalid)}
	}
	key := slotKey{p: p, driver: driver, slot: slot}
	h, ok := claim(key, cb)
	if !ok {
		return nil, &errcode.E{C: errcode.Already, Op: "subscribe", Raw: errcode.Raw(errcode.Already)}
	}
	if err := errcode.FromReturn(p.Subscribe(driver, slot, Trampoline, uintptr(h))); err != nil {
		release(key, h)
		return nil, errcode.Wrap("subscribe", err)
	}
	return &Subscription{key: key, handle: h}, nil
}

// Driver returns the subscribed driver number.
func (s *Subscription) Driver() trap.DriverNum { return s.key.driver }

// Slot returns the subscribed slot.
func (s *Subscription) Slot() trap.SubscribeNum { return s.key.slot }

// Active reports whether the subscription has not been closed.
func (s *Subscription) Active() bool { return s != nil && s.handle != 0 }

// Close revokes the registration and unpins the callback. It is idempotent
// and never fails: a kernel refusal to revoke is logged and the callback is
// unpinned regardless, so a late delivery finds no callback to run.
func (s *Subscription) Close() {
	if !s.Active() {
		return
	}
	h := s.handle
	s.handle = 0
	rc := s.key.p.Subscribe(s.key.driver, s.key.slot, nil, 0)
	if err := errcode.FromReturn(rc); err != nil {
		log.Warn("revoke failed", "driver", uint32(s.key.driver), "slot", uint32(s.key.slot), "err", err)
	}
	release(s.key, h)
}

// Unsubscribe is Close under the name the kernel ABI uses.
func (s *Subscription) Unsubscribe() { s.Close() }
