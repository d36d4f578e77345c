// Package buffer provides the native pixel-buffer arena.
//
// Render results are handed to the caller as raw memory addresses for
// zero-copy pixel access across a runtime boundary. The arena makes that
// safe: every allocation is pinned for its tracked lifetime, so the base
// address stays stable and legally readable until the caller releases it.
package buffer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"
)

// ErrInvalidSize is returned when an allocation size is not positive.
var ErrInvalidSize = errors.New("buffer: allocation size must be positive")

// region is one tracked allocation. The Pinner must not be copied after
// Pin, so regions are always handled by pointer.
type region struct {
	data []byte
	pin  runtime.Pinner
}

// Arena allocates pinned pixel buffers and tracks them by base address.
//
// Each allocation is a lease: the arena keeps the backing memory alive,
// pinned and address-stable until Release is called with that address.
// Two live allocations can never share a base address, so the address is
// a valid handle for the region's whole lifetime. Release of an unknown
// address is a no-op, so callers can retry cleanup freely.
//
// Arena is safe for concurrent use.
type Arena struct {
	mu      sync.Mutex
	regions map[uintptr]*region

	allocs    uint64
	releases  uint64
	liveBytes uint64
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		regions: make(map[uintptr]*region),
	}
}

// Alloc reserves a pinned buffer of size bytes and returns its stable base
// address together with the backing slice. The slice and the address refer
// to the same memory: writes through the slice are visible to a reader of
// the address. The address remains valid until Release(addr).
func (a *Arena) Alloc(size int) (uintptr, []byte, error) {
	if size <= 0 {
		return 0, nil, ErrInvalidSize
	}

	r := &region{data: make([]byte, size)}
	// Pinning the first byte pins the whole backing array; the map entry
	// keeps the region reachable until Release.
	r.pin.Pin(&r.data[0])
	addr := uintptr(unsafe.Pointer(&r.data[0]))

	a.mu.Lock()
	a.regions[addr] = r
	a.allocs++
	a.liveBytes += uint64(size)
	a.mu.Unlock()

	return addr, r.data, nil
}

// Release unpins and drops the buffer at addr.
// Unknown addresses are ignored.
func (a *Arena) Release(addr uintptr) {
	a.mu.Lock()
	r, ok := a.regions[addr]
	if ok {
		delete(a.regions, addr)
		a.releases++
		a.liveBytes -= uint64(len(r.data))
	}
	a.mu.Unlock()

	if ok {
		r.pin.Unpin()
	}
}

// Bytes returns the backing slice for a tracked address.
// The second return is false when addr is not tracked.
func (a *Arena) Bytes(addr uintptr) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.regions[addr]
	if !ok {
		return nil, false
	}
	return r.data, true
}

// Contains reports whether addr is a live tracked allocation.
func (a *Arena) Contains(addr uintptr) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, ok := a.regions[addr]
	return ok
}

// Len returns the number of live buffers.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.regions)
}

// Close releases every tracked buffer. The arena remains usable.
func (a *Arena) Close() {
	a.mu.Lock()
	regions := a.regions
	a.regions = make(map[uintptr]*region)
	a.releases += uint64(len(regions))
	a.liveBytes = 0
	a.mu.Unlock()

	for _, r := range regions {
		r.pin.Unpin()
	}
}

// ArenaStats contains arena usage statistics.
type ArenaStats struct {
	// Allocs is the total number of allocations.
	Allocs uint64

	// Releases is the total number of releases, Close included.
	Releases uint64

	// Live is the number of currently tracked buffers.
	Live int

	// LiveBytes is the total size of currently tracked buffers.
	LiveBytes uint64
}

// String returns a human-readable string of arena stats.
func (s ArenaStats) String() string {
	return fmt.Sprintf("Arena[%d live, %d KB, %d allocs, %d releases]",
		s.Live,
		s.LiveBytes/1024,
		s.Allocs,
		s.Releases)
}

// Stats returns current arena usage statistics.
func (a *Arena) Stats() ArenaStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return ArenaStats{
		Allocs:    a.allocs,
		Releases:  a.releases,
		Live:      len(a.regions),
		LiveBytes: a.liveBytes,
	}
}
