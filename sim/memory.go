package sim

import (
	"libtock-go/errcode"
	"libtock-go/trap"
)

// Layout is the memory map the simulated kernel reports through memop.
type Layout struct {
	MemoryStart uint32 `yaml:"memory_start"`
	MemoryEnd   uint32 `yaml:"memory_end"`
	FlashStart  uint32 `yaml:"flash_start"`
	FlashEnd    uint32 `yaml:"flash_end"`
	GrantStart  uint32 `yaml:"grant_start"`
	StackStart  uint32 `yaml:"stack_start"`
	HeapStart   uint32 `yaml:"heap_start"`
	// FlashRegions are writeable [start, end) pairs.
	FlashRegions [][2]uint32 `yaml:"flash_regions"`
}

// DefaultLayout resembles a small Cortex-M4 process slot.
var DefaultLayout = Layout{
	MemoryStart:  0x2000_4000,
	MemoryEnd:    0x2000_8000,
	FlashStart:   0x0003_0000,
	FlashEnd:     0x0003_8000,
	GrantStart:   0x2000_7C00,
	StackStart:   0x2000_4800,
	HeapStart:    0x2000_4800,
	FlashRegions: [][2]uint32{{0x0003_7000, 0x0003_8000}},
}

// Memory answers memop traps and tracks the process break.
type Memory struct {
	l   Layout
	brk uint32
}

func NewMemory(l Layout) *Memory {
	return &Memory{l: l, brk: l.HeapStart}
}

// Break returns the current process break.
func (m *Memory) Break() uint32 { return m.brk }

func (m *Memory) op(op trap.MemopNum, arg uintptr) trap.ReturnCode {
	switch op {
	case 0: // brk
		return m.setBreak(uint32(arg))
	case 1: // sbrk
		prev := m.brk
		if rc := m.setBreak(uint32(int64(m.brk) + int64(int32(uint32(arg))))); rc < 0 {
			return rc
		}
		return trap.ReturnCode(prev)
	case 2:
		return trap.ReturnCode(m.l.MemoryStart)
	case 3:
		return trap.ReturnCode(m.l.MemoryEnd)
	case 4:
		return trap.ReturnCode(m.l.FlashStart)
	case 5:
		return trap.ReturnCode(m.l.FlashEnd)
	case 6:
		return trap.ReturnCode(m.l.GrantStart)
	case 7:
		return trap.ReturnCode(len(m.l.FlashRegions))
	case 8, 9:
		i := int(arg)
		if i < 0 || i >= len(m.l.FlashRegions) {
			return errcode.Raw(errcode.Invalid)
		}
		return trap.ReturnCode(m.l.FlashRegions[i][op-8])
	case 10:
		return trap.ReturnCode(m.l.StackStart)
	case 11:
		return trap.ReturnCode(m.l.HeapStart)
	default:
		return errcode.Raw(errcode.NoSupport)
	}
}

// setBreak accepts breaks between the heap start and the grant region.
func (m *Memory) setBreak(addr uint32) trap.ReturnCode {
	if addr < m.l.HeapStart || addr >= m.l.GrantStart {
		return errcode.Raw(errcode.NoMem)
	}
	m.brk = addr
	return 0
}
