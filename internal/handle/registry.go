// Package handle hands out opaque tokens that stand in for canonical images
// across the C boundary.
//
// A Handle is issued by Wrap and redeemed exactly once by Consume. Handles
// encode a slot index and a generation counter, so a handle that was already
// consumed, or that belongs to a slot since reused by another image, is
// reported as stale instead of silently resolving to the wrong image.
package handle

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

var (
	// ErrInvalidHandle is returned for the zero (sentinel) handle.
	ErrInvalidHandle = errors.New("invalid image handle")

	// ErrStaleHandle is returned for a handle that was already consumed or
	// was never issued by this registry.
	ErrStaleHandle = errors.New("stale image handle")

	// ErrNilImage is returned when Wrap is given no image.
	ErrNilImage = errors.New("nil image")
)

// Handle is an opaque token for one wrapped image. The zero value is the
// sentinel and never refers to an image.
type Handle uint64

// Sentinel is the "no image" handle returned to callers on failure.
const Sentinel Handle = 0

func makeHandle(slot int, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(slot+1))
}

func (h Handle) slot() int      { return int(uint32(h)) - 1 }
func (h Handle) gen() uint32    { return uint32(h >> 32) }
func (h Handle) String() string { return fmt.Sprintf("handle(%d:%d)", h.slot(), h.gen()) }

type entry struct {
	img *image.Gray
	gen uint32
}

// Registry owns every image that is currently held by a caller.
//
// Registry is safe for concurrent use. Calls on different handles are
// independent; the lock guarantees that at most one Consume of the same
// handle receives the image.
type Registry struct {
	mu      sync.Mutex
	entries []entry
	free    []int
	live    int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Wrap takes ownership of img and returns a handle for it.
//
// The caller must not use img after Wrap returns; the only way to get it
// back is Consume.
func (r *Registry) Wrap(img *image.Gray) (Handle, error) {
	if img == nil {
		return Sentinel, ErrNilImage
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var slot int
	if n := len(r.free); n > 0 {
		slot = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		if uint64(len(r.entries)) >= 1<<32-1 {
			return Sentinel, fmt.Errorf("registry full: %d handles", len(r.entries))
		}
		slot = len(r.entries)
		// Generation starts at 1 so no issued handle has a zero high word.
		r.entries = append(r.entries, entry{gen: 1})
	}

	e := &r.entries[slot]
	e.img = img
	r.live++
	return makeHandle(slot, e.gen), nil
}

// Consume destroys h and returns ownership of its image to the caller.
//
// After Consume, h is permanently stale: the slot's generation is advanced
// so the same value is rejected even once the slot holds another image.
func (r *Registry) Consume(h Handle) (*image.Gray, error) {
	if h == Sentinel {
		return nil, ErrInvalidHandle
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	slot := h.slot()
	if slot < 0 || slot >= len(r.entries) {
		return nil, fmt.Errorf("%v: %w", h, ErrStaleHandle)
	}
	e := &r.entries[slot]
	if e.img == nil || e.gen != h.gen() {
		return nil, fmt.Errorf("%v: %w", h, ErrStaleHandle)
	}

	img := e.img
	e.img = nil
	e.gen++
	if e.gen == 0 {
		e.gen = 1
	}
	r.free = append(r.free, slot)
	r.live--
	return img, nil
}

// Len returns the number of handles that have been wrapped but not consumed.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live
}
