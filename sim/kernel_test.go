package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libtock-go/errcode"
	"libtock-go/trap"
)

const drv trap.DriverNum = 0x42

func counter(n *int) trap.Upcall {
	return func(_, _, _, _ uintptr) { *n++ }
}

func TestUnknownDriver(t *testing.T) {
	k := New()
	assert.Equal(t, errcode.Raw(errcode.NoDevice), k.Command(drv, 0, 0, 0))
	assert.Equal(t, errcode.Raw(errcode.NoDevice), k.Subscribe(drv, 0, counter(new(int)), 1))
	assert.Equal(t, errcode.Raw(errcode.NoDevice), k.Allow(drv, 0, make([]byte, 1)))
}

func TestSlotBounds(t *testing.T) {
	k := New()
	k.Register(drv, NewScripted())
	assert.Equal(t, errcode.Raw(errcode.NoSupport), k.Subscribe(drv, 1, counter(new(int)), 1))
	assert.Equal(t, errcode.Raw(errcode.Invalid), k.Allow(drv, 1, make([]byte, 1)))
	assert.Zero(t, k.Subscribe(drv, 0, counter(new(int)), 1))
	assert.Zero(t, k.Allow(drv, 0, make([]byte, 1)))
}

func TestScheduleAndYield(t *testing.T) {
	k := New()
	k.Register(drv, NewScripted())

	var got [4]uintptr
	require.Zero(t, k.Subscribe(drv, 0, func(a0, a1, a2, ud uintptr) { got = [4]uintptr{a0, a1, a2, ud} }, 77))
	assert.True(t, k.Subscribed(drv, 0))
	require.True(t, k.Schedule(drv, 0, 1, 2, 3))
	assert.Equal(t, 1, k.Pending())

	k.Yield()
	assert.Equal(t, [4]uintptr{1, 2, 3, 77}, got)
	assert.Equal(t, 1, k.Delivered())
	assert.False(t, k.Step())
}

func TestScheduleWithoutSubscriber(t *testing.T) {
	k := New()
	k.Register(drv, NewScripted())
	assert.False(t, k.Schedule(drv, 0, 0, 0, 0))
	assert.Zero(t, k.Lost())
}

func TestQueueFull(t *testing.T) {
	k := New(WithQueueLen(1))
	k.Register(drv, NewScripted())
	n := 0
	require.Zero(t, k.Subscribe(drv, 0, counter(&n), 1))

	assert.True(t, k.Schedule(drv, 0, 0, 0, 0))
	assert.False(t, k.Schedule(drv, 0, 0, 0, 0))
	assert.Equal(t, uint32(1), k.Lost())
}

func TestRevokedAndReplacedUpcallsAreDropped(t *testing.T) {
	k := New()
	k.Register(drv, NewScripted())
	first, second := 0, 0

	require.Zero(t, k.Subscribe(drv, 0, counter(&first), 1))
	k.Schedule(drv, 0, 0, 0, 0)
	require.Zero(t, k.Subscribe(drv, 0, counter(&second), 2))
	assert.False(t, k.Step(), "queued for the previous registration")

	k.Schedule(drv, 0, 0, 0, 0)
	require.Zero(t, k.Subscribe(drv, 0, nil, 0))
	assert.False(t, k.Step())
	assert.False(t, k.Subscribed(drv, 0))

	assert.Zero(t, first)
	assert.Zero(t, second)
	assert.Equal(t, uint32(2), k.Dropped())
}

func TestCloseReleasesYield(t *testing.T) {
	k := New()
	done := make(chan struct{})
	go func() {
		k.Yield()
		close(done)
	}()
	k.Close()
	k.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Yield did not return after Close")
	}
}

func TestFailNextQueues(t *testing.T) {
	k := New()
	k.Register(drv, NewScripted())
	k.FailNext(trap.OpCommand, -2)
	k.FailNext(trap.OpCommand, -9)

	assert.Equal(t, int32(-2), k.Command(drv, 0, 0, 0))
	assert.Equal(t, int32(-9), k.Command(drv, 0, 0, 0))
	assert.Zero(t, k.Command(drv, 0, 0, 0))
}

func TestTrace(t *testing.T) {
	k := New()
	k.Register(drv, NewScripted())
	k.Subscribe(drv, 0, nil, 0)
	k.Allow(drv, 0, make([]byte, 8))
	k.Command(drv, 3, 10, 20)
	k.Memop(2, 0)

	tr := k.Trace()
	require.Len(t, tr, 4)
	assert.Equal(t, Call{Op: trap.OpSubscribe, Driver: drv, Null: true}, tr[0])
	assert.Equal(t, Call{Op: trap.OpAllow, Driver: drv, Len: 8}, tr[1])
	assert.Equal(t, Call{Op: trap.OpCommand, Driver: drv, Sel: 3, Arg1: 10, Arg2: 20, RC: errcode.Raw(errcode.NoSupport)}, tr[2])
	assert.Equal(t, trap.OpMemop, tr[3].Op)
	assert.Len(t, k.Calls(trap.OpAllow), 1)
}

func TestDriverFunc(t *testing.T) {
	k := New()
	k.Register(drv, DriverFunc(func(k *Kernel, cmd trap.CommandNum, a1, a2 uintptr) trap.ReturnCode {
		return trap.ReturnCode(a1 + a2)
	}))
	assert.Equal(t, int32(5), k.Command(drv, 9, 2, 3))
}

func TestInterruptsScheduleUpcalls(t *testing.T) {
	k := New()
	k.Register(drv, NewScripted())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewInterrupts(k, 4)
	w.Start(ctx)

	var got uintptr
	require.Zero(t, k.Subscribe(drv, 0, func(a0, _, _, _ uintptr) { got = a0 }, 1))
	require.True(t, w.Raise(IRQ{Driver: drv, Args: [3]uintptr{9}}))
	k.Yield()
	assert.Equal(t, uintptr(9), got)

	cancel()
	select {
	case <-w.Stopped():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestInterruptsDropWhenFull(t *testing.T) {
	w := NewInterrupts(New(), 1)
	assert.True(t, w.Raise(IRQ{}))
	assert.False(t, w.Raise(IRQ{}))
	assert.Equal(t, uint32(1), w.ISRDrops())
}

func TestInterruptHandlerRoute(t *testing.T) {
	k := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewInterrupts(k, 4)
	w.Start(ctx)

	seen := make(chan IRQ, 1)
	remove := w.Handle(drv, func(ev IRQ) { seen <- ev })
	w.Raise(IRQ{Driver: drv, Slot: 2})
	select {
	case ev := <-seen:
		assert.Equal(t, trap.SubscribeNum(2), ev.Slot)
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}
	remove()
}

func TestClockDrivesADC(t *testing.T) {
	k := New()
	a := NewADC(2)
	a.SetMillivolts(1, 3300)
	k.Register(ADCDriverNum, a)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewInterrupts(k, 8)
	w.Start(ctx)
	defer a.Wire(w)()
	w.Clock(ctx, time.Millisecond, IRQ{Driver: ADCDriverNum})

	var vals []uintptr
	require.Zero(t, k.Subscribe(ADCDriverNum, 0, func(mode, ch, v, _ uintptr) {
		if mode == ADCModeRepeat && ch == 1 {
			vals = append(vals, v)
		}
	}, 1))
	require.Zero(t, k.Command(ADCDriverNum, adcCmdRepeat, 1, 1000))
	for len(vals) < 3 {
		k.Yield()
	}
	assert.Equal(t, []uintptr{4095, 4095, 4095}, vals[:3])
}
