// Package i2cmaster is the client for the kernel's I2C master driver. Bus
// implements tinygo.org/x/drivers.I2C, so existing sensor drivers run on top
// of it unchanged.
package i2cmaster

import (
	"errors"

	"tinygo.org/x/drivers"

	"libtock-go/errcode"
	"libtock-go/sharedmem"
	"libtock-go/syscalls"
	"libtock-go/trap"
	"libtock-go/upcall"
)

const DriverNum trap.DriverNum = 0x20003

const (
	cmdExists    trap.CommandNum = 0
	cmdWrite     trap.CommandNum = 1
	cmdRead      trap.CommandNum = 2
	cmdWriteRead trap.CommandNum = 3
)

const (
	subscribeDone trap.SubscribeNum = 0
	allowBuffer   trap.AllowNum     = 1
)

// MaxTransfer is the largest write or read half the driver accepts; the
// write_read command packs both lengths into one byte each.
const MaxTransfer = 255

var errTooLong = errors.New("transfer_too_long")

// Bus issues transfers on the kernel's I2C master. A Bus is not safe for
// concurrent use; transfers are serialised by the caller's single thread.
type Bus struct {
	p   trap.Platform
	buf []byte
}

var _ drivers.I2C = (*Bus)(nil)

// New returns a bus on p.
func New(p trap.Platform) *Bus { return &Bus{p: p} }

// Present reports whether the kernel has an I2C master driver.
func (b *Bus) Present() bool { return syscalls.Exists(b.p, DriverNum) }

// Tx writes w to addr and then reads len(r) bytes into r, as one transfer
// when both are non-empty. It yields until the driver signals completion.
// A target that does not acknowledge fails with errcode.NoAck.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if len(w) == 0 && len(r) == 0 {
		return nil
	}
	if len(w) > MaxTransfer || len(r) > MaxTransfer {
		return &errcode.E{C: errcode.Size, Op: "i2c.tx", Err: errTooLong}
	}

	var cmd trap.CommandNum
	var arg2 uintptr
	switch {
	case len(r) == 0:
		cmd, arg2 = cmdWrite, uintptr(len(w))
	case len(w) == 0:
		cmd, arg2 = cmdRead, uintptr(len(r))
	default:
		cmd, arg2 = cmdWriteRead, uintptr(len(w))|uintptr(len(r))<<8
	}

	n := max(len(w), len(r))
	if cap(b.buf) < n {
		b.buf = make([]byte, n)
	}
	buf := b.buf[:n]
	copy(buf, w)

	var (
		done   syscalls.Flag
		status error
	)
	sub, err := upcall.Subscribe(b.p, DriverNum, subscribeDone, upcall.Func(func(_, a1, _ uintptr) {
		status = errcode.FromReturn(int32(uint32(a1)))
		done.Set()
	}))
	if err != nil {
		return errcode.Wrap("i2c.subscribe", err)
	}
	defer sub.Close()

	lease, err := sharedmem.Allow(b.p, DriverNum, allowBuffer, buf)
	if err != nil {
		return errcode.Wrap("i2c.allow", err)
	}
	defer lease.Close()

	if _, err := syscalls.Command(b.p, DriverNum, cmd, uintptr(addr), arg2); err != nil {
		return errcode.Wrap("i2c.tx", err)
	}
	done.Wait(b.p)
	if status != nil {
		return errcode.Wrap("i2c.tx", status)
	}
	copy(r, buf)
	return nil
}

// Probe reports whether a target acknowledges addr, using a one-byte read.
func (b *Bus) Probe(addr uint16) bool {
	var one [1]byte
	return b.Tx(addr, nil, one[:]) == nil
}

// ReadRegister writes reg and reads len(buf) bytes from it.
func (b *Bus) ReadRegister(addr uint16, reg byte, buf []byte) error {
	return b.Tx(addr, []byte{reg}, buf)
}

// WriteRegister writes reg followed by data.
func (b *Bus) WriteRegister(addr uint16, reg byte, data []byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	return b.Tx(addr, w, nil)
}
