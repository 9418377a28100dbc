package syscalls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"libtock-go/errcode"
	"libtock-go/sim"
	"libtock-go/trap"
	"libtock-go/trap/mocks"
)

func TestYieldForIssuesOneTrapPerFailedCheck(t *testing.T) {
	p := mocks.NewPlatform(t)
	ready := 0
	p.On("Yield").Run(func(mock.Arguments) { ready++ }).Times(3)

	checks := 0
	YieldFor(p, func() bool {
		checks++
		return ready >= 3
	})
	assert.Equal(t, 4, checks)
	p.AssertNumberOfCalls(t, "Yield", 3)
}

func TestYieldForAlreadyTrue(t *testing.T) {
	p := mocks.NewPlatform(t)
	YieldFor(p, func() bool { return true })
	p.AssertNotCalled(t, "Yield")
}

func TestFlagWait(t *testing.T) {
	p := mocks.NewPlatform(t)
	var f Flag
	p.On("Yield").Run(func(mock.Arguments) { f.Set() }).Once()

	f.Wait(p)
	assert.True(t, f.IsSet())
	f.Reset()
	assert.False(t, f.IsSet())
}

func TestYieldPassesThrough(t *testing.T) {
	k := sim.New()
	k.Close()
	Yield(k)
	assert.Equal(t, 1, k.Yields())
}

func TestCommandTranslates(t *testing.T) {
	p := mocks.NewPlatform(t)
	p.On("Command", trap.DriverNum(5), trap.CommandNum(0), uintptr(0), uintptr(0)).Return(int32(3)).Once()
	p.On("Command", trap.DriverNum(5), trap.CommandNum(0), uintptr(0), uintptr(0)).Return(int32(-9)).Once()
	p.On("Command", trap.DriverNum(5), trap.CommandNum(1), uintptr(0), uintptr(0)).Return(int32(0)).Once()
	p.On("Command", trap.DriverNum(5), trap.CommandNum(1), uintptr(0), uintptr(0)).Return(int32(-2)).Once()

	v, err := Command(p, 5, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), v)

	_, err = Command(p, 5, 0, 0, 0)
	assert.ErrorIs(t, err, errcode.NoMem)

	_, err = Command(p, 5, 1, 0, 0)
	assert.NoError(t, err)

	_, err = Command(p, 5, 1, 0, 0)
	assert.ErrorIs(t, err, errcode.Busy)
}

func TestExists(t *testing.T) {
	k := sim.New()
	k.Register(7, sim.NewScripted())
	assert.True(t, Exists(k, 7))
	assert.False(t, Exists(k, 8))
}

func TestReadLayout(t *testing.T) {
	k := sim.New()
	l, err := ReadLayout(k)
	require.NoError(t, err)
	d := sim.DefaultLayout
	assert.Equal(t, Layout{
		MemoryStart: d.MemoryStart,
		MemoryEnd:   d.MemoryEnd,
		FlashStart:  d.FlashStart,
		FlashEnd:    d.FlashEnd,
		GrantStart:  d.GrantStart,
	}, l)

	k.FailNext(trap.OpMemop, errcode.Raw(errcode.NoSupport))
	_, err = ReadLayout(k)
	assert.ErrorIs(t, err, errcode.NoSupport)
}

func TestBreak(t *testing.T) {
	k := sim.New()
	heap, err := HeapStart(k)
	require.NoError(t, err)

	prev, err := Sbrk(k, 256)
	require.NoError(t, err)
	assert.Equal(t, heap, prev)

	prev, err = Sbrk(k, -128)
	require.NoError(t, err)
	assert.Equal(t, heap+256, prev)

	require.NoError(t, Brk(k, uintptr(heap)))
	grant, err := GrantStart(k)
	require.NoError(t, err)
	assert.ErrorIs(t, Brk(k, uintptr(grant)), errcode.NoMem)
	_, err = Sbrk(k, -1)
	assert.ErrorIs(t, err, errcode.NoMem)
}

func TestFlashRegions(t *testing.T) {
	k := sim.New()
	n, err := WriteableFlashRegions(k)
	require.NoError(t, err)
	require.Equal(t, uint32(1), n)

	start, end, err := WriteableFlashRegion(k, 0)
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultLayout.FlashRegions[0], [2]uint32{start, end})

	_, _, err = WriteableFlashRegion(k, 1)
	assert.ErrorIs(t, err, errcode.Invalid)
}

func TestMemopUnknownSelector(t *testing.T) {
	_, err := Memop(sim.New(), 42, 0)
	assert.ErrorIs(t, err, errcode.NoSupport)
}
