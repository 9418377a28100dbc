// Package sim is a kernel that runs in the same Go process as the code under
// test. It implements trap.Platform with the delivery model of the real
// kernel: upcalls are queued by drivers or peripheral goroutines and run one
// at a time on the goroutine that called Yield, before Yield returns.
package sim

import (
	"sync"
	"sync/atomic"

	"libtock-go/errcode"
	"libtock-go/trap"
	"libtock-go/x/logx"
)

var log = logx.New("sim")

const defaultQueueLen = 64

// Driver is a kernel-resident driver. Command returns a raw status word.
type Driver interface {
	Command(k *Kernel, cmd trap.CommandNum, arg1, arg2 uintptr) trap.ReturnCode
}

// SlotBounds limits which subscribe and allow slots a driver accepts.
// Drivers that do not implement it accept every slot.
type SlotBounds interface {
	SubscribeSlots() int
	AllowSlots() int
}

// Attacher is told its driver number when it is registered.
type Attacher interface {
	Attach(k *Kernel, num trap.DriverNum)
}

// Call is one trap as the kernel saw it.
type Call struct {
	Op     trap.Opcode
	Driver trap.DriverNum
	Sel    uint32 // command, subscribe, allow or memop selector
	Arg1   uintptr
	Arg2   uintptr
	Len    int  // allow length
	Null   bool // subscribe with a nil upcall
	RC     trap.ReturnCode
}

type subKey struct {
	driver trap.DriverNum
	slot   trap.SubscribeNum
}

type allowKey struct {
	driver trap.DriverNum
	slot   trap.AllowNum
}

type subscription struct {
	fn       trap.Upcall
	userdata uintptr
	gen      uint64
}

type pending struct {
	key        subKey
	gen        uint64
	a0, a1, a2 uintptr
}

// Kernel is a simulated kernel. All methods are safe for concurrent use;
// upcalls still only run inside Yield or Step.
type Kernel struct {
	mu      sync.Mutex
	drivers map[trap.DriverNum]Driver
	subs    map[subKey]subscription
	allows  map[allowKey][]byte
	gen     uint64
	faults  map[trap.Opcode][]trap.ReturnCode
	trace   []Call
	mem     *Memory

	queue chan pending
	done  chan struct{}
	once  sync.Once

	yields  atomic.Int64
	runs    atomic.Int64
	dropped atomic.Uint32
	lost    atomic.Uint32
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithQueueLen sets how many upcalls may be pending at once.
func WithQueueLen(n int) Option {
	return func(k *Kernel) {
		if n > 0 {
			k.queue = make(chan pending, n)
		}
	}
}

// WithMemory replaces the default process memory map.
func WithMemory(l Layout) Option {
	return func(k *Kernel) { k.mem = NewMemory(l) }
}

// New returns an empty kernel with no drivers.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		drivers: map[trap.DriverNum]Driver{},
		subs:    map[subKey]subscription{},
		allows:  map[allowKey][]byte{},
		faults:  map[trap.Opcode][]trap.ReturnCode{},
		queue:   make(chan pending, defaultQueueLen),
		done:    make(chan struct{}),
		mem:     NewMemory(DefaultLayout),
	}
	for _, o := range opts {
		o(k)
	}
	return k
}

// Register installs d under num, replacing any previous driver.
func (k *Kernel) Register(num trap.DriverNum, d Driver) {
	k.mu.Lock()
	k.drivers[num] = d
	k.mu.Unlock()
	if a, ok := d.(Attacher); ok {
		a.Attach(k, num)
	}
}

// FailNext makes the next trap of kind op return rc without any effect.
// Calls queue up: two FailNext calls fail the next two traps.
func (k *Kernel) FailNext(op trap.Opcode, rc trap.ReturnCode) {
	k.mu.Lock()
	k.faults[op] = append(k.faults[op], rc)
	k.mu.Unlock()
}

// fault pops an injected failure. Caller holds k.mu.
func (k *Kernel) fault(op trap.Opcode) (trap.ReturnCode, bool) {
	q := k.faults[op]
	if len(q) == 0 {
		return 0, false
	}
	k.faults[op] = q[1:]
	return q[0], true
}

func (k *Kernel) record(c Call) {
	k.trace = append(k.trace, c)
}

// ---- trap.Platform ----

// Yield blocks until one pending upcall has run. Upcalls whose slot was
// revoked or re-subscribed since they were queued are dropped without waking
// the caller. After Close, Yield returns immediately.
func (k *Kernel) Yield() {
	k.yields.Add(1)
	k.mu.Lock()
	k.record(Call{Op: trap.OpYield})
	k.mu.Unlock()
	for {
		select {
		case <-k.done:
			return
		case p := <-k.queue:
			if k.deliver(p) {
				return
			}
		}
	}
}

// Step runs one pending upcall if there is one, without blocking. It reports
// whether an upcall ran. Stale upcalls are dropped and skipped.
func (k *Kernel) Step() bool {
	for {
		select {
		case p := <-k.queue:
			if k.deliver(p) {
				return true
			}
		default:
			return false
		}
	}
}

func (k *Kernel) deliver(p pending) bool {
	k.mu.Lock()
	s, ok := k.subs[p.key]
	k.mu.Unlock()
	if !ok || s.gen != p.gen {
		k.dropped.Add(1)
		log.Debug("dropped stale upcall", "driver", uint32(p.key.driver), "slot", uint32(p.key.slot))
		return false
	}
	k.runs.Add(1)
	s.fn(p.a0, p.a1, p.a2, s.userdata)
	return true
}

func (k *Kernel) Subscribe(driver trap.DriverNum, slot trap.SubscribeNum, fn trap.Upcall, userdata uintptr) trap.ReturnCode {
	k.mu.Lock()
	defer k.mu.Unlock()
	c := Call{Op: trap.OpSubscribe, Driver: driver, Sel: uint32(slot), Arg2: userdata, Null: fn == nil}
	c.RC = k.subscribe(driver, slot, fn, userdata)
	k.record(c)
	return c.RC
}

func (k *Kernel) subscribe(driver trap.DriverNum, slot trap.SubscribeNum, fn trap.Upcall, userdata uintptr) trap.ReturnCode {
	if rc, ok := k.fault(trap.OpSubscribe); ok {
		return rc
	}
	d, ok := k.drivers[driver]
	if !ok {
		return errcode.Raw(errcode.NoDevice)
	}
	if b, ok := d.(SlotBounds); ok && int(slot) >= b.SubscribeSlots() {
		return errcode.Raw(errcode.NoSupport)
	}
	key := subKey{driver, slot}
	if fn == nil {
		delete(k.subs, key)
		return 0
	}
	k.gen++
	k.subs[key] = subscription{fn: fn, userdata: userdata, gen: k.gen}
	return 0
}

func (k *Kernel) Command(driver trap.DriverNum, cmd trap.CommandNum, arg1, arg2 uintptr) trap.ReturnCode {
	k.mu.Lock()
	c := Call{Op: trap.OpCommand, Driver: driver, Sel: uint32(cmd), Arg1: arg1, Arg2: arg2}
	rc, faulted := k.fault(trap.OpCommand)
	d, ok := k.drivers[driver]
	k.mu.Unlock()

	switch {
	case faulted:
		c.RC = rc
	case !ok:
		c.RC = errcode.Raw(errcode.NoDevice)
	default:
		// Drivers call back into the kernel (Schedule, Allowed), so the lock
		// is not held here.
		c.RC = d.Command(k, cmd, arg1, arg2)
	}

	k.mu.Lock()
	k.record(c)
	k.mu.Unlock()
	return c.RC
}

func (k *Kernel) Allow(driver trap.DriverNum, slot trap.AllowNum, buf []byte) trap.ReturnCode {
	k.mu.Lock()
	defer k.mu.Unlock()
	c := Call{Op: trap.OpAllow, Driver: driver, Sel: uint32(slot), Len: len(buf)}
	c.RC = k.allow(driver, slot, buf)
	k.record(c)
	return c.RC
}

func (k *Kernel) allow(driver trap.DriverNum, slot trap.AllowNum, buf []byte) trap.ReturnCode {
	if rc, ok := k.fault(trap.OpAllow); ok {
		return rc
	}
	d, ok := k.drivers[driver]
	if !ok {
		return errcode.Raw(errcode.NoDevice)
	}
	if b, ok := d.(SlotBounds); ok && int(slot) >= b.AllowSlots() {
		return errcode.Raw(errcode.Invalid)
	}
	key := allowKey{driver, slot}
	if len(buf) == 0 {
		delete(k.allows, key)
		return 0
	}
	k.allows[key] = buf
	return 0
}

func (k *Kernel) Memop(op trap.MemopNum, arg uintptr) trap.ReturnCode {
	k.mu.Lock()
	defer k.mu.Unlock()
	c := Call{Op: trap.OpMemop, Sel: uint32(op), Arg1: arg}
	if rc, ok := k.fault(trap.OpMemop); ok {
		c.RC = rc
	} else {
		c.RC = k.mem.op(op, arg)
	}
	k.record(c)
	return c.RC
}

// ---- driver side ----

// Schedule queues an upcall for (driver, slot). It never blocks, so it is
// safe from peripheral goroutines. It returns false when nothing is
// subscribed to the slot or the queue is full; the latter is counted.
func (k *Kernel) Schedule(driver trap.DriverNum, slot trap.SubscribeNum, a0, a1, a2 uintptr) bool {
	key := subKey{driver, slot}
	k.mu.Lock()
	s, ok := k.subs[key]
	k.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case k.queue <- pending{key: key, gen: s.gen, a0: a0, a1: a1, a2: a2}:
		return true
	default:
		k.lost.Add(1)
		return false
	}
}

// Allowed returns the buffer currently lent to (driver, slot), or nil.
// Drivers write through it; tests read it to inspect kernel-side state.
func (k *Kernel) Allowed(driver trap.DriverNum, slot trap.AllowNum) []byte {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.allows[allowKey{driver, slot}]
}

// AllowedLen is len(Allowed(driver, slot)); zero means nothing is lent.
func (k *Kernel) AllowedLen(driver trap.DriverNum, slot trap.AllowNum) int {
	return len(k.Allowed(driver, slot))
}

// Subscribed reports whether an upcall is registered for (driver, slot).
func (k *Kernel) Subscribed(driver trap.DriverNum, slot trap.SubscribeNum) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.subs[subKey{driver, slot}]
	return ok
}

// Close releases any goroutine blocked in Yield. It is idempotent.
func (k *Kernel) Close() {
	k.once.Do(func() { close(k.done) })
}

// ---- introspection ----

// Yields is the number of yield traps issued.
func (k *Kernel) Yields() int { return int(k.yields.Load()) }

// Delivered is the number of upcalls that ran.
func (k *Kernel) Delivered() int { return int(k.runs.Load()) }

// Dropped is the number of queued upcalls discarded because their slot was
// revoked or re-subscribed before delivery.
func (k *Kernel) Dropped() uint32 { return k.dropped.Load() }

// Lost is the number of upcalls refused because the queue was full.
func (k *Kernel) Lost() uint32 { return k.lost.Load() }

// Pending is the number of queued upcalls, stale ones included.
func (k *Kernel) Pending() int { return len(k.queue) }

// Trace returns a copy of every trap seen so far.
func (k *Kernel) Trace() []Call {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]Call, len(k.trace))
	copy(out, k.trace)
	return out
}

// Calls returns the traced calls of kind op.
func (k *Kernel) Calls(op trap.Opcode) []Call {
	var out []Call
	for _, c := range k.Trace() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

var _ trap.Platform = (*Kernel)(nil)
