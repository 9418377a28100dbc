// Package sharedmem lends process buffers to kernel drivers.
//
// A Lease owns one (driver, allow slot) pair and keeps its buffer pinned for
// as long as it is open. The kernel may read or write the buffer at any point
// while the lease is open, so contents are only meaningful after the driver
// has signalled completion through an upcall. Closing the lease re-allows the
// slot with an empty buffer, after which the memory is the process's again.
package sharedmem

import (
	"sync"
	"unsafe"

	"libtock-go/errcode"
	"libtock-go/trap"
	"libtock-go/x/logx"
	"libtock-go/x/mathx"
)

var log = logx.New("sharedmem")

type slotKey struct {
	p      trap.Platform
	driver trap.DriverNum
	slot   trap.AllowNum
}

// Leased buffers stay referenced here until revoked so they cannot be
// collected while the kernel holds their address. A buffer whose revoke the
// kernel refused moves to orphaned and stays there until a later allow on the
// same slot succeeds, since only then has the kernel let go of it.
var (
	mu       sync.Mutex
	leased   = map[slotKey][]byte{}
	orphaned = map[slotKey][][]byte{}
)

// Lease is a live buffer loan. The buffer must not be resliced, appended to,
// or written by the process while the lease is open.
type Lease struct {
	key  slotKey
	buf  []byte
	open bool
}

// Allow lends buf to (driver, slot) on p.
//
// Empty buffers are rejected with errcode.Invalid because the zero-length
// form is reserved for revocation. A slot already leased on the same platform
// fails with errcode.Already. On any failure nothing stays leased.
func Allow(p trap.Platform, driver trap.DriverNum, slot trap.AllowNum, buf []byte) (*Lease, error) {
	if len(buf) == 0 {
		return nil, &errcode.E{C: errcode.Invalid, Op: "allow", Msg: "empty buffer", Raw: errcode.Raw(errcode.Invalid)}
	}
	if !trap.Comparable(p) {
		return nil, &errcode.E{C: errcode.Invalid, Op: "allow", Msg: "platform is not comparable", Raw: errcode.Raw(errcode.Invalid)}
	}
	key := slotKey{p: p, driver: driver, slot: slot}

	mu.Lock()
	if _, taken := leased[key]; taken {
		mu.Unlock()
		return nil, &errcode.E{C: errcode.Already, Op: "allow", Raw: errcode.Raw(errcode.Already)}
	}
	leased[key] = buf
	mu.Unlock()

	if err := errcode.FromReturn(p.Allow(driver, slot, buf)); err != nil {
		mu.Lock()
		delete(leased, key)
		mu.Unlock()
		return nil, errcode.Wrap("allow", err)
	}
	mu.Lock()
	delete(orphaned, key)
	mu.Unlock()
	return &Lease{key: key, buf: buf, open: true}, nil
}

// Bytes returns the leased buffer. Read it only after the driver's completion
// upcall; before that a read may observe a transfer in progress.
func (l *Lease) Bytes() []byte { return l.buf }

// Len returns the leased length.
func (l *Lease) Len() int { return len(l.buf) }

func (l *Lease) Driver() trap.DriverNum { return l.key.driver }
func (l *Lease) Slot() trap.AllowNum    { return l.key.slot }

// Active reports whether the lease has not been closed.
func (l *Lease) Active() bool { return l != nil && l.open }

// Close revokes the loan with a zero-length allow. It is idempotent and never
// fails. The slot is free for a new lease afterwards either way; if the kernel
// refused the revoke the refusal is logged and the buffer stays pinned until
// the slot is successfully allowed again.
func (l *Lease) Close() {
	if !l.Active() {
		return
	}
	l.open = false
	rc := l.key.p.Allow(l.key.driver, l.key.slot, nil)
	err := errcode.FromReturn(rc)

	mu.Lock()
	delete(leased, l.key)
	if err != nil {
		orphaned[l.key] = append(orphaned[l.key], l.buf)
	} else {
		delete(orphaned, l.key)
	}
	mu.Unlock()

	if err != nil {
		log.Warn("revoke failed, buffer stays pinned", "driver", uint32(l.key.driver), "slot", uint32(l.key.slot), "len", len(l.buf), "err", err)
	}
}

// Pinned reports how many buffers are held for the kernel, open leases and
// buffers whose revoke was refused alike.
func Pinned() int {
	mu.Lock()
	defer mu.Unlock()
	n := len(leased)
	for _, bufs := range orphaned {
		n += len(bufs)
	}
	return n
}

// Aligned returns a size-byte slice whose first byte sits on an align-byte
// boundary. align must be a power of two.
func Aligned(size, align int) []byte {
	if align <= 1 {
		return make([]byte, size)
	}
	if !mathx.IsPow2(uint(align)) {
		panic("sharedmem: alignment must be a power of two")
	}
	raw := make([]byte, size+align-1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := int(mathx.AlignUp(base, uintptr(align)) - base)
	return raw[off : off+size : off+size]
}

// IsAligned reports whether buf starts on an align-byte boundary.
func IsAligned(buf []byte, align int) bool {
	if len(buf) == 0 || align <= 1 {
		return true
	}
	return mathx.IsAligned(uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(align))
}
