// Package syscalls holds the blocking primitive and the typed command and
// memop calls. Every status word is translated before it leaves the package.
package syscalls

import "libtock-go/trap"

// Yield suspends the process until the kernel has run one pending upcall.
// There is no timeout: if nothing is ever delivered Yield never returns.
func Yield(p trap.Platform) {
	p.Yield()
}

// YieldFor yields until cond reports true. It checks cond before every yield,
// so it issues no trap when cond already holds and exactly one per failed
// check otherwise. Calling it from inside an upcall is not supported.
func YieldFor(p trap.Platform, cond func() bool) {
	for !cond() {
		p.Yield()
	}
}

// Flag is a one-shot completion signal set from an upcall and waited on with
// YieldFor. The zero value is ready to use.
type Flag struct{ set bool }

func (f *Flag) Set()        { f.set = true }
func (f *Flag) IsSet() bool { return f.set }
func (f *Flag) Reset()      { f.set = false }
func (f *Flag) Wait(p trap.Platform) {
	YieldFor(p, f.IsSet)
}
