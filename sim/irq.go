package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"libtock-go/trap"
)

// IRQ is raised by a simulated peripheral. With no handler registered for
// its driver it becomes an upcall on (Driver, Slot) carrying Args.
type IRQ struct {
	Driver trap.DriverNum
	Slot   trap.SubscribeNum
	Args   [3]uintptr
}

// Interrupts moves peripheral interrupts into the kernel. Raise is the ISR
// half and never blocks; the worker goroutine runs driver handlers, which
// usually end in Kernel.Schedule.
type Interrupts struct {
	k *Kernel

	// Written by peripherals; MUST NOT block them.
	isrQ    chan IRQ
	stopped chan struct{}

	mu       sync.RWMutex
	handlers map[trap.DriverNum]func(IRQ)

	drops atomic.Uint32
}

func NewInterrupts(k *Kernel, isrBuf int) *Interrupts {
	if isrBuf <= 0 {
		isrBuf = 64
	}
	return &Interrupts{
		k:        k,
		isrQ:     make(chan IRQ, isrBuf),
		stopped:  make(chan struct{}),
		handlers: map[trap.DriverNum]func(IRQ){},
	}
}

// Start runs the worker until ctx is done.
func (w *Interrupts) Start(ctx context.Context) {
	go func() {
		defer close(w.stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-w.isrQ:
				w.handle(ev)
			}
		}
	}()
}

// Stopped is closed once the worker has exited.
func (w *Interrupts) Stopped() <-chan struct{} { return w.stopped }

// Raise queues ev. It reports false, and counts a drop, when the queue is full.
func (w *Interrupts) Raise(ev IRQ) bool {
	select {
	case w.isrQ <- ev:
		return true
	default:
		w.drops.Add(1)
		return false
	}
}

// Handle routes interrupts for driver to fn instead of scheduling them
// directly. The returned func removes the route.
func (w *Interrupts) Handle(driver trap.DriverNum, fn func(IRQ)) func() {
	w.mu.Lock()
	w.handlers[driver] = fn
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.handlers, driver)
		w.mu.Unlock()
	}
}

func (w *Interrupts) handle(ev IRQ) {
	w.mu.RLock()
	fn := w.handlers[ev.Driver]
	w.mu.RUnlock()
	if fn != nil {
		fn(ev)
		return
	}
	w.k.Schedule(ev.Driver, ev.Slot, ev.Args[0], ev.Args[1], ev.Args[2])
}

// ISRDrops is the number of interrupts refused by Raise.
func (w *Interrupts) ISRDrops() uint32 { return w.drops.Load() }

// Clock raises ev every period until ctx is done. It stands in for a
// peripheral's sample clock.
func (w *Interrupts) Clock(ctx context.Context, period time.Duration, ev IRQ) {
	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				w.Raise(ev)
			}
		}
	}()
}
