package sim

import (
	"sync"

	"libtock-go/errcode"
	"libtock-go/trap"
)

// DriverFunc adapts a function to Driver.
type DriverFunc func(k *Kernel, cmd trap.CommandNum, arg1, arg2 uintptr) trap.ReturnCode

func (f DriverFunc) Command(k *Kernel, cmd trap.CommandNum, arg1, arg2 uintptr) trap.ReturnCode {
	return f(k, cmd, arg1, arg2)
}

// Scripted answers each command with a fixed status word. Commands without
// a script return NoSupport, except command 0 which reports presence.
// It accepts Subs subscribe slots and Allows allow slots.
type Scripted struct {
	Subs, Allows int

	mu      sync.Mutex
	results map[trap.CommandNum]trap.ReturnCode
	calls   map[trap.CommandNum]int
}

// NewScripted returns a scripted driver with one subscribe and one allow slot.
func NewScripted() *Scripted {
	return &Scripted{
		Subs:    1,
		Allows:  1,
		results: map[trap.CommandNum]trap.ReturnCode{},
		calls:   map[trap.CommandNum]int{},
	}
}

// On sets the status word returned for cmd.
func (s *Scripted) On(cmd trap.CommandNum, rc trap.ReturnCode) *Scripted {
	s.mu.Lock()
	s.results[cmd] = rc
	s.mu.Unlock()
	return s
}

// CallCount returns how often cmd was issued.
func (s *Scripted) CallCount(cmd trap.CommandNum) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[cmd]
}

func (s *Scripted) Command(_ *Kernel, cmd trap.CommandNum, _, _ uintptr) trap.ReturnCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[cmd]++
	if rc, ok := s.results[cmd]; ok {
		return rc
	}
	if cmd == 0 {
		return 0
	}
	return errcode.Raw(errcode.NoSupport)
}

func (s *Scripted) SubscribeSlots() int { return s.Subs }
func (s *Scripted) AllowSlots() int     { return s.Allows }
