package runtime

import (
	"fmt"
	"sort"
)

// defaultAlignment is sizeof(uint64), the size of the widest scalar type
// the tensor core currently supports (matches allocator.cc's rationale).
const defaultAlignment = 8

// freeBlock is one entry of the allocator's free-space map: offset -> size.
type freeBlock struct {
	offset int64
	size   int64
}

// Allocator is a first-fit, coalescing byte-offset planner. It never
// touches real memory itself: it hands out offsets into an abstract
// infinite region starting at 0, and only asks its Handle for a real
// buffer once, lazily, on the first GetPtr call.
type Allocator struct {
	handle    Handle
	alignment int64

	used int64
	peak int64

	// freeBlocks is kept sorted by offset, with no two adjacent entries
	// (they are always coalesced immediately). Conceptually seeded with a
	// single (0, +inf) block; that untouched tail is tracked by frontier and
	// never enters this slice, which holds only freed blocks below frontier
	// that have not been handed out again.
	freeBlocks []freeBlock

	ptr        RawPtr
	ptrReady   bool
	allocCount int   // not read by the allocator; the tail is tracked by frontier
	frontier   int64 // high-water mark of offsets handed out, for carving the untouched tail
}

// Option configures an Allocator at construction time.
type Option func(*Allocator)

// WithAlignment overrides the default alignment (sizeof(uint64) bytes).
func WithAlignment(bytes int64) Option {
	return func(a *Allocator) {
		if bytes > 0 {
			a.alignment = bytes
		}
	}
}

// New creates an Allocator bound to the given runtime Handle.
func New(handle Handle, opts ...Option) *Allocator {
	a := &Allocator{
		handle:    handle,
		alignment: defaultAlignment,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetAlignedSize rounds n up to a multiple of the allocator's alignment.
func (a *Allocator) GetAlignedSize(n int64) int64 {
	return (n + a.alignment - 1) / a.alignment * a.alignment
}

// Alloc reserves size bytes and returns the byte offset of the reservation.
// Fails with InvalidState if the real buffer has already been materialized.
// When no free block is large enough the reservation is carved from the
// untouched tail, which is unbounded, so Alloc never fails with OutOfBudget.
func (a *Allocator) Alloc(size int64) (int64, error) {
	if a.ptrReady {
		return 0, &Error{Kind: KindInvalidState, Details: "alloc after GetPtr"}
	}
	size = a.GetAlignedSize(size)

	for i, block := range a.freeBlocks {
		if block.size >= size {
			remainderOffset := block.offset + size
			remainderSize := block.size - size
			a.freeBlocks = append(a.freeBlocks[:i], a.freeBlocks[i+1:]...)
			if remainderSize > 0 {
				a.insertFreeBlock(freeBlock{offset: remainderOffset, size: remainderSize})
			}
			a.used += size
			if a.used > a.peak {
				a.peak = a.used
			}
			return block.offset, nil
		}
	}

	// Nothing in the free list fits; carve from the untouched infinite tail.
	offset := a.frontier
	a.frontier += size
	a.used += size
	if a.used > a.peak {
		a.peak = a.used
	}
	return offset, nil
}

// Free returns a previously allocated [offset, offset+size) region to the
// free list, coalescing with neighbors. Fails with InvalidState if the real
// buffer has already been materialized.
func (a *Allocator) Free(offset, size int64) error {
	if a.ptrReady {
		return &Error{Kind: KindInvalidState, Details: "free after GetPtr"}
	}
	size = a.GetAlignedSize(size)
	a.insertFreeBlock(freeBlock{offset: offset, size: size})
	a.used -= size
	return nil
}

// insertFreeBlock inserts a block in offset order and coalesces it with its
// immediate predecessor and/or successor.
func (a *Allocator) insertFreeBlock(b freeBlock) {
	idx := sort.Search(len(a.freeBlocks), func(i int) bool {
		return a.freeBlocks[i].offset >= b.offset
	})
	a.freeBlocks = append(a.freeBlocks, freeBlock{})
	copy(a.freeBlocks[idx+1:], a.freeBlocks[idx:])
	a.freeBlocks[idx] = b

	// Coalesce with successor first so index idx still refers to b.
	if idx+1 < len(a.freeBlocks) {
		next := a.freeBlocks[idx+1]
		if b.offset+b.size == next.offset {
			a.freeBlocks[idx].size += next.size
			a.freeBlocks = append(a.freeBlocks[:idx+1], a.freeBlocks[idx+2:]...)
		}
	}
	// Coalesce with predecessor.
	if idx > 0 {
		prev := a.freeBlocks[idx-1]
		if prev.offset+prev.size == a.freeBlocks[idx].offset {
			a.freeBlocks[idx-1].size += a.freeBlocks[idx].size
			a.freeBlocks = append(a.freeBlocks[:idx], a.freeBlocks[idx+1:]...)
		}
	}
}

// GetPtr lazily asks the runtime Handle for a buffer of Peak() bytes on the
// first call, then returns that same pointer on every subsequent call.
// After GetPtr, Alloc and Free are forbidden.
func (a *Allocator) GetPtr() (RawPtr, error) {
	if !a.ptrReady {
		ptr, err := a.handle.Alloc(a.peak)
		if err != nil {
			return nil, err
		}
		a.ptr = ptr
		a.ptrReady = true
		fmt.Printf("Allocator really alloc: %p %d bytes\n", a.ptr, a.peak)
	}
	return a.ptr, nil
}

// Used returns the number of bytes currently allocated.
func (a *Allocator) Used() int64 { return a.used }

// Peak returns the high-water mark of bytes allocated at once.
func (a *Allocator) Peak() int64 { return a.peak }

// Info prints the allocator's stable usage line (§6 Observable logs).
func (a *Allocator) Info() {
	fmt.Printf("Used memory: %d, peak memory: %d\n", a.used, a.peak)
}
