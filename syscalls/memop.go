package syscalls

import (
	"libtock-go/errcode"
	"libtock-go/trap"
)

// Memop selectors.
const (
	MemopBrk                     trap.MemopNum = 0
	MemopSbrk                    trap.MemopNum = 1
	MemopMemoryStart             trap.MemopNum = 2
	MemopMemoryEnd               trap.MemopNum = 3
	MemopFlashStart              trap.MemopNum = 4
	MemopFlashEnd                trap.MemopNum = 5
	MemopGrantStart              trap.MemopNum = 6
	MemopWriteableFlashRegions   trap.MemopNum = 7
	MemopWriteableFlashRegionBeg trap.MemopNum = 8
	MemopWriteableFlashRegionEnd trap.MemopNum = 9
	MemopStackStart              trap.MemopNum = 10
	MemopHeapStart               trap.MemopNum = 11
)

// Memop issues a memory operation and translates its status word.
func Memop(p trap.Platform, op trap.MemopNum, arg uintptr) (uint32, error) {
	return errcode.Result(p.Memop(op, arg))
}

// Brk moves the process break to addr.
func Brk(p trap.Platform, addr uintptr) error {
	_, err := Memop(p, MemopBrk, addr)
	return err
}

// Sbrk moves the break by incr bytes and returns the previous break.
func Sbrk(p trap.Platform, incr int32) (uint32, error) {
	return Memop(p, MemopSbrk, uintptr(uint32(incr)))
}

func MemoryStart(p trap.Platform) (uint32, error) { return Memop(p, MemopMemoryStart, 0) }
func MemoryEnd(p trap.Platform) (uint32, error)   { return Memop(p, MemopMemoryEnd, 0) }
func FlashStart(p trap.Platform) (uint32, error)  { return Memop(p, MemopFlashStart, 0) }
func FlashEnd(p trap.Platform) (uint32, error)    { return Memop(p, MemopFlashEnd, 0) }
func GrantStart(p trap.Platform) (uint32, error)  { return Memop(p, MemopGrantStart, 0) }
func StackStart(p trap.Platform) (uint32, error)  { return Memop(p, MemopStackStart, 0) }
func HeapStart(p trap.Platform) (uint32, error)   { return Memop(p, MemopHeapStart, 0) }

// WriteableFlashRegions returns how many flash regions the process may write.
func WriteableFlashRegions(p trap.Platform) (uint32, error) {
	return Memop(p, MemopWriteableFlashRegions, 0)
}

// WriteableFlashRegion returns the [start, end) bounds of flash region i.
func WriteableFlashRegion(p trap.Platform, i uint32) (start, end uint32, err error) {
	if start, err = Memop(p, MemopWriteableFlashRegionBeg, uintptr(i)); err != nil {
		return 0, 0, err
	}
	if end, err = Memop(p, MemopWriteableFlashRegionEnd, uintptr(i)); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Layout is the process memory map as reported by the kernel.
type Layout struct {
	MemoryStart, MemoryEnd uint32
	FlashStart, FlashEnd   uint32
	GrantStart             uint32
}

// ReadLayout queries every layout memop, stopping at the first failure.
func ReadLayout(p trap.Platform) (Layout, error) {
	var l Layout
	steps := []struct {
		op  trap.MemopNum
		dst *uint32
	}{
		{MemopMemoryStart, &l.MemoryStart},
		{MemopMemoryEnd, &l.MemoryEnd},
		{MemopFlashStart, &l.FlashStart},
		{MemopFlashEnd, &l.FlashEnd},
		{MemopGrantStart, &l.GrantStart},
	}
	for _, s := range steps {
		v, err := Memop(p, s.op, 0)
		if err != nil {
			return Layout{}, errcode.Wrap("memop", err)
		}
		*s.dst = v
	}
	return l, nil
}
