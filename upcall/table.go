package upcall

import (
	"sync"

	"libtock-go/trap"
)

// Handle is the opaque userdata word handed to the kernel.
// The zero handle is invalid.
type Handle uintptr

// slotKey names one subscribe slot on one platform.
type slotKey struct {
	p      trap.Platform
	driver trap.DriverNum
	slot   trap.SubscribeNum
}

// The table pins every subscribed callback so it stays reachable for as long
// as the kernel may hand its handle back, and records which slots are owned.
var (
	tabMu   sync.RWMutex
	entries        = map[Handle]Callback{}
	owners         = map[slotKey]Handle{}
	nextHdl Handle = 1
)

// claim reserves key for cb. It fails when the slot already has an owner.
func claim(key slotKey, cb Callback) (Handle, bool) {
	tabMu.Lock()
	defer tabMu.Unlock()
	if _, taken := owners[key]; taken {
		return 0, false
	}
	h := nextHdl
	nextHdl++
	entries[h] = cb
	owners[key] = h
	return h, true
}

// release drops h and, if it still owns key, the slot ownership.
func release(key slotKey, h Handle) {
	tabMu.Lock()
	delete(entries, h)
	if owners[key] == h {
		delete(owners, key)
	}
	tabMu.Unlock()
}

// lookup returns the callback for h, or nil if h is zero or released.
func lookup(h Handle) Callback {
	if h == 0 {
		return nil
	}
	tabMu.RLock()
	cb := entries[h]
	tabMu.RUnlock()
	return cb
}

// Live reports the number of subscriptions currently pinned.
func Live() int {
	tabMu.RLock()
	n := len(entries)
	tabMu.RUnlock()
	return n
}
