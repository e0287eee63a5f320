package application

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
)

// DefaultAutoClearDelay is the grace period before a fully processed selection is cleared
const DefaultAutoClearDelay = 2 * time.Second

// SelectionHash fingerprints selection content: member IDs in order and their assignment flags
func SelectionHash(pallets []domain.Pallet) uint64 {
	d := xxhash.New()
	var buf [9]byte
	for _, p := range pallets {
		binary.LittleEndian.PutUint64(buf[:8], uint64(p.RFIDID))
		buf[8] = 0
		if p.AssignedToDelivery {
			buf[8] = 1
		}
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// AutoClear runs one delayed task keyed to a selection hash. Scheduling again
// or canceling invalidates the previous task, so a stale task never fires.
type AutoClear struct {
	delay time.Duration
	fire  func(hash uint64)

	mu         sync.Mutex
	timer      *time.Timer
	hash       uint64
	scheduled  bool
	generation uint64
}

// NewAutoClear creates a scheduler that calls fire with the scheduled hash once delay elapses
func NewAutoClear(delay time.Duration, fire func(hash uint64)) *AutoClear {
	if delay <= 0 {
		delay = DefaultAutoClearDelay
	}
	return &AutoClear{delay: delay, fire: fire}
}

// Schedule arms the task for hash. Re-scheduling the same hash keeps the running timer.
func (a *AutoClear) Schedule(hash uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scheduled && a.hash == hash {
		return
	}
	a.stopLocked()

	a.generation++
	gen := a.generation
	a.hash = hash
	a.scheduled = true
	a.timer = time.AfterFunc(a.delay, func() {
		a.mu.Lock()
		if !a.scheduled || a.generation != gen {
			a.mu.Unlock()
			return
		}
		a.scheduled = false
		a.timer = nil
		a.mu.Unlock()

		a.fire(hash)
	})
}

// Cancel drops any pending task
func (a *AutoClear) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

// Pending returns the hash of the armed task, if any
func (a *AutoClear) Pending() (uint64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hash, a.scheduled
}

func (a *AutoClear) stopLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.scheduled = false
	a.generation++
}
