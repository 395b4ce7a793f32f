// Package alloc provides the caller-supplied allocator the appid GET
// codec draws a received icon buffer from, adapted from the bounded
// first-fit allocator tamago's dma package uses for DMA buffers
// (dma/alloc.go, dma/region.go) — rewritten as a plain byte-slice arena
// since this module allocates host memory for a received icon, not
// physical DMA memory for a hardware descriptor.
//
// https://github.com/wookey-project/libu2f2
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package alloc

import (
	"errors"
	"sync"
)

// ErrOutOfMemory is wrapped in ipcerr.NoMem by callers that need the
// closed error taxonomy; it is returned bare here so Allocator stays a
// minimal, dependency-free interface.
var ErrOutOfMemory = errors.New("alloc: out of memory")

// Allocator is the interface the GET requester (appid.RequestMetadata)
// draws a received icon buffer from. The caller owns the returned
// buffer until it passes it back to Free.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// GoHeap is an unbounded Allocator backed directly by the Go heap. It
// never fails, so it never exercises the NoMem path — use Arena in
// tests that need to.
type GoHeap struct{}

func (GoHeap) Alloc(size int) ([]byte, error) { return make([]byte, size), nil }
func (GoHeap) Free([]byte)                    {}

// Arena is a bounded Allocator: it fails once the sum of outstanding
// allocations would exceed its configured capacity. It exists so tests
// (and any caller on a genuinely memory-constrained task) can make
// icon-allocation failure deterministic instead of hypothetical.
type Arena struct {
	mu       sync.Mutex
	capacity int
	used     int
}

// NewArena returns an Arena with the given byte budget.
func NewArena(capacity int) *Arena {
	return &Arena{capacity: capacity}
}

func (a *Arena) Alloc(size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if size < 0 || a.used+size > a.capacity {
		return nil, ErrOutOfMemory
	}
	a.used += size
	return make([]byte, size), nil
}

func (a *Arena) Free(buf []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.used -= len(buf)
	if a.used < 0 {
		a.used = 0
	}
}
