// Package runtime is the public API for borncore's runtime collaborator:
// the Handle a Graph's allocator materializes its single backing buffer
// through, plus the first-fit/coalescing Allocator itself.
//
// Example:
//
//	rt := runtime.NewHeap()
//	a := runtime.New(rt)
//	off, err := a.Alloc(64)
package runtime

import (
	internalruntime "github.com/born-ml/borncore/internal/runtime"
)

// RawPtr is an opaque handle to a runtime-owned buffer.
type RawPtr = internalruntime.RawPtr

// Handle is the runtime collaborator the allocator calls through.
type Handle = internalruntime.Handle

// Blob binds a Tensor to a region of a runtime-owned buffer.
type Blob = internalruntime.Blob

// Allocator is a first-fit, coalescing byte-offset planner.
type Allocator = internalruntime.Allocator

// Option configures an Allocator at construction time.
type Option = internalruntime.Option

// WithAlignment overrides the default alignment (sizeof(uint64) bytes).
func WithAlignment(bytes int64) Option { return internalruntime.WithAlignment(bytes) }

// New creates an Allocator bound to the given runtime Handle.
func New(handle Handle, opts ...Option) *Allocator { return internalruntime.New(handle, opts...) }

// HeapRuntime is the default Handle: one plain heap-allocated byte slice
// per graph.
type HeapRuntime = internalruntime.HeapRuntime

// NewHeap creates a HeapRuntime.
func NewHeap() *HeapRuntime { return internalruntime.NewHeap() }

// ResolveHeap recovers the []byte region a Blob describes.
func ResolveHeap(b Blob) []byte { return internalruntime.ResolveHeap(b) }

// Error carries allocator/runtime failures.
type Error = internalruntime.Error

// ErrorKind identifies which error category an Error belongs to.
type ErrorKind = internalruntime.ErrorKind

// Error kind constants.
const (
	KindOutOfBudget  = internalruntime.KindOutOfBudget
	KindInvalidState = internalruntime.KindInvalidState
)

// Sentinel errors for errors.Is checks against Error.Kind.
var (
	ErrOutOfBudget  = internalruntime.ErrOutOfBudget
	ErrInvalidState = internalruntime.ErrInvalidState
)
