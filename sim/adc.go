package sim

import (
	"encoding/binary"
	"sync"

	"libtock-go/errcode"
	"libtock-go/trap"
	"libtock-go/x/mathx"
)

// Analog sampling driver numbering, as the kernel defines it.
const (
	ADCDriverNum trap.DriverNum = 0x0005

	adcCmdCount          trap.CommandNum   = 0
	adcCmdSingle         trap.CommandNum   = 1
	adcCmdRepeat         trap.CommandNum   = 2
	adcCmdBuffered       trap.CommandNum   = 3
	adcCmdBufferedAlt    trap.CommandNum   = 4
	adcCmdStop           trap.CommandNum   = 5
	adcSubscribeDone     trap.SubscribeNum = 0
	adcAllowBuffer       trap.AllowNum     = 0
	adcAllowBufferAlt    trap.AllowNum     = 1
	adcResolutionCounts  uint16            = 4095
	adcDefaultReferenceM uint16            = 3300
)

// Upcall arg0 values. For alternating buffers the filled buffer's allow slot
// is in bits 8..15.
const (
	ADCModeSingle      = 0
	ADCModeRepeat      = 1
	ADCModeBuffered    = 2
	ADCModeBufferedAlt = 3
)

type adcState uint8

const (
	adcIdle adcState = iota
	adcSingle
	adcRepeat
	adcBuffered
	adcBufferedAlt
)

// ADC is a simulated 12-bit analog sampling peripheral. Each channel reads a
// settable voltage. Single samples complete at once unless Deferred is set,
// in which case they complete on the next Tick; repeating and buffered modes
// produce one sample per Tick.
type ADC struct {
	Deferred bool

	mu        sync.Mutex
	k         *Kernel
	num       trap.DriverNum
	millivolt []uint16
	refMV     uint16
	state     adcState
	channel   uint32
	freq      uint32
	pos       int           // next byte in the active buffer
	active    trap.AllowNum // buffer being filled
}

// NewADC returns a peripheral with channels inputs, all at 0 mV.
func NewADC(channels int) *ADC {
	return &ADC{millivolt: make([]uint16, channels), refMV: adcDefaultReferenceM}
}

func (a *ADC) Attach(k *Kernel, num trap.DriverNum) {
	a.mu.Lock()
	a.k, a.num = k, num
	a.mu.Unlock()
}

func (a *ADC) SubscribeSlots() int { return 1 }
func (a *ADC) AllowSlots() int     { return 2 }

// SetMillivolts sets the input level of channel ch, clamped to the reference.
func (a *ADC) SetMillivolts(ch int, mv uint16) {
	a.mu.Lock()
	a.millivolt[ch] = mathx.Clamp(mv, 0, a.refMV)
	a.mu.Unlock()
}

// Counts returns what channel ch converts to right now.
func (a *ADC) Counts(ch int) uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts(uint32(ch))
}

func (a *ADC) counts(ch uint32) uint16 {
	return mathx.MapU16(a.millivolt[ch], 0, a.refMV, 0, adcResolutionCounts)
}

// Running reports whether a sampling operation is in progress.
func (a *ADC) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state != adcIdle
}

// Frequency is the rate requested by the last repeating or buffered start.
func (a *ADC) Frequency() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.freq
}

func (a *ADC) Command(k *Kernel, cmd trap.CommandNum, arg1, arg2 uintptr) trap.ReturnCode {
	a.mu.Lock()
	defer a.mu.Unlock()
	ch := uint32(arg1)
	switch cmd {
	case adcCmdCount:
		return trap.ReturnCode(len(a.millivolt))
	case adcCmdStop:
		a.state = adcIdle
		return 0
	}
	if cmd > adcCmdStop {
		return errcode.Raw(errcode.NoSupport)
	}
	if int(ch) >= len(a.millivolt) {
		return errcode.Raw(errcode.Invalid)
	}
	if a.state != adcIdle {
		return errcode.Raw(errcode.Busy)
	}
	switch cmd {
	case adcCmdSingle:
		if a.Deferred {
			a.state, a.channel = adcSingle, ch
			return 0
		}
		k.Schedule(a.num, adcSubscribeDone, ADCModeSingle, uintptr(ch), uintptr(a.counts(ch)))
		return 0
	case adcCmdRepeat:
		a.state = adcRepeat
	case adcCmdBuffered:
		if len(k.Allowed(a.num, adcAllowBuffer)) < 2 {
			return errcode.Raw(errcode.Reserve)
		}
		a.state = adcBuffered
	case adcCmdBufferedAlt:
		if len(k.Allowed(a.num, adcAllowBuffer)) < 2 || len(k.Allowed(a.num, adcAllowBufferAlt)) < 2 {
			return errcode.Raw(errcode.Reserve)
		}
		a.state = adcBufferedAlt
	}
	a.channel, a.freq, a.pos, a.active = ch, uint32(arg2), 0, adcAllowBuffer
	return 0
}

// Tick advances the sample clock by one conversion. It reports whether an
// upcall was queued.
func (a *ADC) Tick() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.k == nil {
		return false
	}
	v := a.counts(a.channel)
	switch a.state {
	case adcSingle:
		a.state = adcIdle
		return a.k.Schedule(a.num, adcSubscribeDone, ADCModeSingle, uintptr(a.channel), uintptr(v))
	case adcRepeat:
		return a.k.Schedule(a.num, adcSubscribeDone, ADCModeRepeat, uintptr(a.channel), uintptr(v))
	case adcBuffered, adcBufferedAlt:
		return a.fill(v)
	}
	return false
}

// fill stores one little-endian sample and signals when the buffer is full.
func (a *ADC) fill(v uint16) bool {
	buf := a.k.Allowed(a.num, a.active)
	if len(buf) < 2 {
		// The process revoked the buffer under a running conversion.
		a.state = adcIdle
		return false
	}
	if a.pos+2 > len(buf) {
		// A shorter buffer was allowed in its place; start it from the top.
		a.pos = 0
	}
	binary.LittleEndian.PutUint16(buf[a.pos:], v)
	a.pos += 2
	if a.pos+2 <= len(buf) {
		return false
	}
	n := a.pos
	filled := a.active
	a.pos = 0
	mode := uintptr(ADCModeBuffered)
	if a.state == adcBufferedAlt {
		mode = ADCModeBufferedAlt | uintptr(filled)<<8
		a.active ^= 1
	}
	return a.k.Schedule(a.num, adcSubscribeDone, mode, uintptr(a.channel), uintptr(n))
}

// Wire routes the sample clock interrupt for this ADC to Tick.
func (a *ADC) Wire(w *Interrupts) func() {
	return w.Handle(a.num, func(IRQ) { a.Tick() })
}
