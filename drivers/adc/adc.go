// Package adc is the client for the kernel's analog sampling driver.
//
// The usual flow wraps a function with WithCallback, calls Init to get an
// *ADC that owns the driver's upcall slot, starts a conversion, and yields
// until the callback has fired:
//
//	cb := adc.WithCallback(func(ch, v uint32) { ... })
//	a, err := cb.Init(p)
//	if err != nil { ... }
//	defer a.Close()
//	_ = a.Sample(0)
//	syscalls.Yield(p)
package adc

import (
	"errors"

	"libtock-go/errcode"
	"libtock-go/sharedmem"
	"libtock-go/syscalls"
	"libtock-go/trap"
	"libtock-go/upcall"
	"libtock-go/x/logx"
)

var log = logx.New("adc")

const DriverNum trap.DriverNum = 0x0005

const (
	cmdCount          trap.CommandNum = 0
	cmdStart          trap.CommandNum = 1
	cmdStartRepeat    trap.CommandNum = 2
	cmdStartBuffer    trap.CommandNum = 3
	cmdStartBufferAlt trap.CommandNum = 4
	cmdStop           trap.CommandNum = 5
)

const subscribeCallback trap.SubscribeNum = 0

const (
	allowBuffer    trap.AllowNum = 0
	allowBufferAlt trap.AllowNum = 1
)

// Buffer geometry the driver expects for buffered sampling.
const (
	BufferSize  = 128
	BufferAlign = 32
)

// Mode is the first upcall word: which kind of operation produced it.
type Mode uint8

const (
	ModeSingle      Mode = 0
	ModeRepeat      Mode = 1
	ModeBuffered    Mode = 2
	ModeBufferedAlt Mode = 3
)

// Event is one decoded upcall. For buffered modes Value is the number of
// bytes written and Slot is the buffer that was filled (0 or 1).
type Event struct {
	Mode    Mode
	Channel uint32
	Value   uint32
	Slot    uint8
}

func decode(arg0, arg1, arg2 uintptr) Event {
	return Event{
		Mode:    Mode(arg0 & 0xFF),
		Slot:    uint8(arg0 >> 8 & 0xFF),
		Channel: uint32(arg1),
		Value:   uint32(arg2),
	}
}

// Callback binds a function to ADC upcalls. Init pins it for the lifetime
// of the *ADC it returns.
type Callback struct {
	fn      func(channel, value uint32)
	onEvent func(Event)
}

// WithCallback wraps fn, which receives the channel and the converted value.
func WithCallback(fn func(channel, value uint32)) *Callback {
	return &Callback{fn: fn}
}

// WithEvents wraps fn, which receives every upcall fully decoded.
func WithEvents(fn func(Event)) *Callback {
	return &Callback{onEvent: fn}
}

// Upcall implements upcall.Callback.
func (w *Callback) Upcall(arg0, arg1, arg2 uintptr) {
	ev := decode(arg0, arg1, arg2)
	if w.onEvent != nil {
		w.onEvent(ev)
		return
	}
	if w.fn != nil {
		w.fn(ev.Channel, ev.Value)
	}
}

// ADC owns the driver's upcall slot and any buffers lent to it.
type ADC struct {
	p     trap.Platform
	count uint32
	sub   *upcall.Subscription
	buf   *sharedmem.Lease
	alt   *sharedmem.Lease
}

// Init checks that the driver has channels and subscribes w. It returns a
// fully initialised *ADC or an error, never both.
func (w *Callback) Init(p trap.Platform) (*ADC, error) {
	count, err := syscalls.Command(p, DriverNum, cmdCount, 0, 0)
	if err != nil {
		return nil, fromTrap("init", err)
	}
	if count < 1 {
		return nil, &Error{Kind: NotSupported, Op: "init"}
	}
	sub, err := upcall.Subscribe(p, DriverNum, subscribeCallback, w)
	switch {
	case err == nil:
	case errors.Is(err, errcode.NoMem):
		return nil, &Error{Kind: SubscriptionFailed, Op: "init", Err: err}
	default:
		return nil, fromTrap("init", err)
	}
	return &ADC{p: p, count: count, sub: sub}, nil
}

// InitBuffer lends buf, and alt when non-nil, for buffered sampling. On
// failure no buffer stays lent by this call.
func (a *ADC) InitBuffer(buf, alt *Buffer) error {
	if buf == nil {
		return &Error{Kind: Invalid, Op: "init_buffer"}
	}
	if a.buf.Active() || a.alt.Active() {
		return &Error{Kind: Busy, Op: "init_buffer"}
	}
	l, err := sharedmem.Allow(a.p, DriverNum, allowBuffer, buf.Bytes())
	if err != nil {
		return fromTrap("init_buffer", err)
	}
	if alt != nil {
		la, err := sharedmem.Allow(a.p, DriverNum, allowBufferAlt, alt.Bytes())
		if err != nil {
			l.Close()
			return fromTrap("init_buffer", err)
		}
		a.alt = la
	}
	a.buf = l
	return nil
}

// ReleaseBuffers takes back any lent buffers. Stop sampling first.
func (a *ADC) ReleaseBuffers() {
	a.alt.Close()
	a.buf.Close()
	a.alt, a.buf = nil, nil
}

// Count returns the number of channels the driver reported at Init.
func (a *ADC) Count() uint32 { return a.count }

// Sample starts a single conversion of channel.
func (a *ADC) Sample(channel uint32) error {
	_, err := syscalls.Command(a.p, DriverNum, cmdStart, uintptr(channel), 0)
	return fromTrap("sample", err)
}

// SampleContinuous starts repeated conversions of channel at freqHz; every
// conversion produces one upcall.
func (a *ADC) SampleContinuous(channel, freqHz uint32) error {
	_, err := syscalls.Command(a.p, DriverNum, cmdStartRepeat, uintptr(channel), uintptr(freqHz))
	return fromTrap("sample_continuous", err)
}

// SampleBuffered fills the primary buffer with conversions of channel and
// signals each time it is full. InitBuffer must have succeeded first.
func (a *ADC) SampleBuffered(channel, freqHz uint32) error {
	if !a.buf.Active() {
		panic("adc: SampleBuffered without a buffer; call InitBuffer first")
	}
	_, err := syscalls.Command(a.p, DriverNum, cmdStartBuffer, uintptr(channel), uintptr(freqHz))
	return fromTrap("sample_buffered", err)
}

// SampleBufferedAlt alternates between the primary and alternate buffers.
// InitBuffer must have been given both.
func (a *ADC) SampleBufferedAlt(channel, freqHz uint32) error {
	if !a.buf.Active() || !a.alt.Active() {
		panic("adc: SampleBufferedAlt needs both buffers; call InitBuffer with alt")
	}
	_, err := syscalls.Command(a.p, DriverNum, cmdStartBufferAlt, uintptr(channel), uintptr(freqHz))
	return fromTrap("sample_buffered_alt", err)
}

// Stop ends any running sampling operation.
func (a *ADC) Stop() error {
	_, err := syscalls.Command(a.p, DriverNum, cmdStop, 0, 0)
	return fromTrap("stop", err)
}

// Close stops sampling, takes back lent buffers and revokes the upcall, in
// that order. It is safe to call more than once. A refused stop is logged and
// teardown carries on.
func (a *ADC) Close() {
	if !a.sub.Active() {
		return
	}
	if err := a.Stop(); err != nil {
		log.Warn("stop failed", "err", err)
	}
	a.ReleaseBuffers()
	a.sub.Close()
}

// Buffer is a BufferSize-byte, BufferAlign-aligned sample buffer.
type Buffer struct {
	b []byte
}

// NewBuffer allocates an aligned sample buffer.
func NewBuffer() *Buffer {
	return &Buffer{b: sharedmem.Aligned(BufferSize, BufferAlign)}
}

// Bytes returns the raw buffer. Samples are little-endian uint16.
func (b *Buffer) Bytes() []byte { return b.b }

// Samples decodes the first n bytes as little-endian uint16 samples into dst.
func (b *Buffer) Samples(dst []uint16, n int) []uint16 {
	if n > len(b.b) {
		n = len(b.b)
	}
	for i := 0; i+1 < n; i += 2 {
		dst = append(dst, uint16(b.b[i])|uint16(b.b[i+1])<<8)
	}
	return dst
}
