package sim

import (
	"sync"

	"libtock-go/errcode"
	"libtock-go/trap"
)

// I2C master driver numbering, as the kernel defines it.
const (
	I2CDriverNum trap.DriverNum = 0x20003

	i2cCmdExists    trap.CommandNum   = 0
	i2cCmdWrite     trap.CommandNum   = 1
	i2cCmdRead      trap.CommandNum   = 2
	i2cCmdWriteRead trap.CommandNum   = 3
	i2cSubscribe    trap.SubscribeNum = 0
	i2cAllowBuffer  trap.AllowNum     = 1
)

// I2CDevice is a target on the simulated bus.
type I2CDevice interface {
	Tx(w, r []byte) error
}

// I2CMaster is a simulated I2C controller. Transfers complete immediately;
// the completion upcall carries the command in arg0 and the status word in
// arg1 (0, or NoAck when no target answers the address).
type I2CMaster struct {
	mu      sync.Mutex
	k       *Kernel
	num     trap.DriverNum
	targets map[uint16]I2CDevice
}

func NewI2CMaster() *I2CMaster {
	return &I2CMaster{targets: map[uint16]I2CDevice{}}
}

func (m *I2CMaster) Attach(k *Kernel, num trap.DriverNum) {
	m.mu.Lock()
	m.k, m.num = k, num
	m.mu.Unlock()
}

func (m *I2CMaster) SubscribeSlots() int { return 1 }
func (m *I2CMaster) AllowSlots() int     { return 2 }

// Connect places dev at addr.
func (m *I2CMaster) Connect(addr uint16, dev I2CDevice) {
	m.mu.Lock()
	m.targets[addr] = dev
	m.mu.Unlock()
}

func (m *I2CMaster) Command(k *Kernel, cmd trap.CommandNum, arg1, arg2 uintptr) trap.ReturnCode {
	if cmd == i2cCmdExists {
		return 0
	}
	addr := uint16(arg1)
	var wlen, rlen int
	switch cmd {
	case i2cCmdWrite:
		wlen = int(arg2)
	case i2cCmdRead:
		rlen = int(arg2)
	case i2cCmdWriteRead:
		wlen, rlen = int(arg2&0xFF), int(arg2>>8&0xFF)
	default:
		return errcode.Raw(errcode.NoSupport)
	}

	buf := k.Allowed(m.num, i2cAllowBuffer)
	if buf == nil {
		return errcode.Raw(errcode.Reserve)
	}
	if wlen > len(buf) || rlen > len(buf) {
		return errcode.Raw(errcode.Size)
	}

	m.mu.Lock()
	dev := m.targets[addr]
	m.mu.Unlock()

	var status trap.ReturnCode
	if dev == nil {
		status = errcode.Raw(errcode.NoAck)
	} else {
		// Copy out the write half first: read data lands in the same buffer.
		w := append([]byte(nil), buf[:wlen]...)
		if err := dev.Tx(w, buf[:rlen]); err != nil {
			status = errcode.ToReturn(err)
		}
	}
	k.Schedule(m.num, i2cSubscribe, uintptr(cmd), uintptr(uint32(status)), uintptr(rlen))
	return 0
}

// Registers is a register-file target: the first written byte selects a
// register, further written bytes store from there, and reads return bytes
// from the selected register on, auto-incrementing.
type Registers struct {
	mu   sync.Mutex
	file [256]byte
	ptr  byte
}

func (r *Registers) Tx(w, rd []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(w) > 0 {
		r.ptr = w[0]
		for _, b := range w[1:] {
			r.file[r.ptr] = b
			r.ptr++
		}
		if len(w) > 1 {
			// Writes leave the pointer at the first written register.
			r.ptr = w[0]
		}
	}
	for i := range rd {
		rd[i] = r.file[r.ptr]
		r.ptr++
	}
	return nil
}

// Set stores v at register reg.
func (r *Registers) Set(reg byte, v ...byte) {
	r.mu.Lock()
	for i, b := range v {
		r.file[reg+byte(i)] = b
	}
	r.mu.Unlock()
}

// Get returns n bytes from reg on.
func (r *Registers) Get(reg byte, n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = r.file[reg+byte(i)]
	}
	return out
}
