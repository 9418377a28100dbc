package adc

import (
	"errors"

	"libtock-go/errcode"
)

// Kind classifies ADC failures.
type Kind uint8

const (
	Other Kind = iota
	NotSupported
	SubscriptionFailed
	Busy
	Invalid
	Fail
)

func (k Kind) String() string {
	switch k {
	case NotSupported:
		return "not_supported"
	case SubscriptionFailed:
		return "subscription_failed"
	case Busy:
		return "busy"
	case Invalid:
		return "invalid"
	case Fail:
		return "fail"
	default:
		return "other"
	}
}

// Error is the driver's error type. Err is the translated kernel error, nil
// when the failure is the driver's own (such as zero channels).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	s := "adc." + e.Op + ": " + e.Kind.String()
	if e.Kind == Other && e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same Kind, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Op == "" && t.Kind == e.Kind
}

// Raw returns the kernel status word behind an Other error.
func (e *Error) Raw() (int32, bool) { return errcode.RawOf(e.Err) }

var (
	ErrNotSupported       = &Error{Kind: NotSupported}
	ErrSubscriptionFailed = &Error{Kind: SubscriptionFailed}
	ErrBusy               = &Error{Kind: Busy}
	ErrInvalid            = &Error{Kind: Invalid}
	ErrFail               = &Error{Kind: Fail}
)

// fromTrap maps a translated kernel error into the driver's taxonomy. Codes
// the driver has no name for fall through to Other with the cause kept.
func fromTrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var k Kind
	switch {
	case errors.Is(err, errcode.Busy):
		k = Busy
	case errors.Is(err, errcode.Invalid):
		k = Invalid
	case errors.Is(err, errcode.Fail):
		k = Fail
	case errors.Is(err, errcode.NoSupport), errors.Is(err, errcode.NoDevice):
		k = NotSupported
	default:
		k = Other
	}
	return &Error{Kind: k, Op: op, Err: err}
}
