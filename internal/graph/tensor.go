package graph

import (
	"fmt"

	"github.com/born-ml/borncore/internal/runtime"
)

// Tensor is a node in the computation graph: a typed, shaped value with at
// most one producing Operator and any number of consuming Operators.
//
// Edges to Operators (source, targets) are non-owning back-references —
// the Graph that created a Tensor is the only owner; removing it from
// Graph.tensors is its destruction event.
type Tensor struct {
	guid  uint64
	fuid  uint64
	shape Shape
	dtype DataType
	rt    runtime.Handle

	source  *Operator
	targets []*Operator

	blob    runtime.Blob
	hasBlob bool
}

func newTensor(gen *idGenerator, shape Shape, dtype DataType, rt runtime.Handle) *Tensor {
	return &Tensor{
		guid:  gen.guid(),
		fuid:  gen.fuid(),
		shape: shape.Clone(),
		dtype: dtype,
		rt:    rt,
	}
}

// GUID returns the tensor's global unique identifier.
func (t *Tensor) GUID() uint64 { return t.guid }

// FUID returns the tensor's functional unique identifier, stable across
// shape-only mutations (SetShape never changes it).
func (t *Tensor) FUID() uint64 { return t.fuid }

// Shape returns the tensor's current shape.
func (t *Tensor) Shape() Shape { return t.shape }

// Dims is an alias for Shape, matching the spec's naming.
func (t *Tensor) Dims() Shape { return t.shape }

// Rank returns the tensor's number of dimensions.
func (t *Tensor) Rank() int { return len(t.shape) }

// DType returns the tensor's scalar element type.
func (t *Tensor) DType() DataType { return t.dtype }

// Bytes returns product(shape) * dtype.SizeBytes().
func (t *Tensor) Bytes() int64 {
	return int64(t.shape.NumElements()) * int64(t.dtype.SizeBytes())
}

// Runtime returns the runtime handle this tensor was created against.
func (t *Tensor) Runtime() runtime.Handle { return t.rt }

// SetShape replaces the tensor's shape in place. FUID is unaffected: FUID
// identifies the tensor across shape-only mutations.
func (t *Tensor) SetShape(s Shape) {
	t.shape = s.Clone()
}

// Source returns the Operator that produces this tensor, or nil if none.
func (t *Tensor) Source() *Operator { return t.source }

// SetSource sets the producing Operator.
func (t *Tensor) SetSource(op *Operator) { t.source = op }

// Targets returns the Operators that consume this tensor.
func (t *Tensor) Targets() []*Operator { return t.targets }

// AddTarget registers op as a consumer of this tensor, if not already
// present.
func (t *Tensor) AddTarget(op *Operator) {
	for _, existing := range t.targets {
		if existing == op {
			return
		}
	}
	t.targets = append(t.targets, op)
}

// RemoveTarget deregisters op as a consumer of this tensor.
func (t *Tensor) RemoveTarget(op *Operator) {
	for i, existing := range t.targets {
		if existing == op {
			t.targets = append(t.targets[:i], t.targets[i+1:]...)
			return
		}
	}
}

// SetDataBlob binds this tensor to a region of a runtime buffer. It is a
// one-shot operation: a second call fails with InvalidState.
func (t *Tensor) SetDataBlob(b runtime.Blob) error {
	if t.hasBlob {
		return &Error{
			Kind:    KindInvalidState,
			Entity:  fmt.Sprintf("tensor#%d", t.guid),
			Details: "set_data_blob called twice",
		}
	}
	t.blob = b
	t.hasBlob = true
	return nil
}

// Blob returns the tensor's bound data blob and whether one has been set.
func (t *Tensor) Blob() (runtime.Blob, bool) {
	return t.blob, t.hasBlob
}

// String renders the tensor for debugging, in the style of the original
// engine's operator<<(ostream, Tensor) helpers.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor#%d(fuid=%d,shape=%v,dtype=%s)", t.guid, t.fuid, []int(t.shape), t.dtype)
}
