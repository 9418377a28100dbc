package errcode

import "libtock-go/x/conv"

// Code is a stable error identifier for a kernel status.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes, one per negative status word.
const (
	Fail        Code = "fail"        // generic failure condition
	Busy        Code = "busy"        // underlying system is busy; retry
	Already     Code = "already"     // the state requested is already set
	Off         Code = "off"         // the component is powered down
	Reserve     Code = "reserve"     // reservation required before use
	Invalid     Code = "invalid"     // an invalid parameter was passed
	Size        Code = "size"        // parameter passed was too large
	Cancel      Code = "cancel"      // operation cancelled by a call
	NoMem       Code = "nomem"       // memory required not available
	NoSupport   Code = "nosupport"   // operation or command is unsupported
	NoDevice    Code = "nodevice"    // device does not exist
	Uninstalled Code = "uninstalled" // device is not physically installed
	NoAck       Code = "noack"       // packet transmission not acknowledged

	Unknown Code = "unknown" // any other negative status

	OK Code = "ok" // not an error; returned by Of(nil)
)

// E keeps context and a cause alongside a Code. Raw holds the status word
// the kernel returned, which is the only way to recover an Unknown code.
type E struct {
	C   Code
	Op  string
	Msg string
	Raw int32
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.C == Unknown {
		var buf [12]byte
		s += " (" + string(conv.Itoa(buf[:], int64(e.Raw))) + ")"
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.Busy) match a wrapped code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Of extracts a Code from an error, defaulting to Fail.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		if inner := u.Unwrap(); inner != nil {
			return Of(inner)
		}
	}
	return Fail
}

// RawOf returns the kernel status word an error was translated from.
// ok is false when err did not originate from a status word.
func RawOf(err error) (raw int32, ok bool) {
	for err != nil {
		switch x := err.(type) {
		case Code:
			r := Raw(x)
			return r, r != 0
		case *E:
			if x.Raw != 0 {
				return x.Raw, true
			}
			if x.Err == nil {
				r := Raw(x.C)
				return r, r != 0
			}
			err = x.Err
			continue
		}
		u, isWrapper := err.(interface{ Unwrap() error })
		if !isWrapper {
			return 0, false
		}
		err = u.Unwrap()
	}
	return 0, false
}

// Wrap attaches an operation name to err, keeping its Code and status word.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	raw, _ := RawOf(err)
	return &E{C: Of(err), Op: op, Raw: raw, Err: err}
}
