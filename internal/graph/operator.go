package graph

import "fmt"

// OpType tags the closed sum type of operator variants the core knows
// about. Additional variants plug in via the operator registry collaborator
// (§6); the optimizer treats any OpType it doesn't recognize as opaque and
// passes it through untouched.
type OpType string

// Operator variants implemented by this core.
const (
	OpTranspose OpType = "Transpose"
	OpMatMul    OpType = "MatMul"
	OpConcat    OpType = "Concat"
	// OpGeneric covers any operator the optimizer has no rewrite rules
	// for (e.g. Relu in the S1 scenario): shape inference only.
	OpGeneric OpType = "Generic"
)

// Variant is the per-OpType payload of an Operator: its attributes plus
// pure shape inference. Implementations must not mutate anything reachable
// from inputs — InferShape reads only input shapes and the variant's own
// attributes.
type Variant interface {
	OpType() OpType
	InferShape(inputs []*Tensor) ([]Shape, error)
}

// Operator is one node of the DAG: a typed variant plus its ordered
// input/output tensors and non-owning predecessor/successor back-references
// to other Operators.
type Operator struct {
	guid    uint64
	variant Variant

	inputs  []*Tensor
	outputs []*Tensor

	predecessors []*Operator
	successors   []*Operator
}

func newOperator(gen *idGenerator, variant Variant, inputs, outputs []*Tensor) *Operator {
	return &Operator{
		guid:    gen.guid(),
		variant: variant,
		inputs:  inputs,
		outputs: outputs,
	}
}

// GUID returns the operator's global unique identifier.
func (op *Operator) GUID() uint64 { return op.guid }

// OpType returns the operator's tagged variant.
func (op *Operator) OpType() OpType { return op.variant.OpType() }

// Variant returns the operator's variant-specific attributes. Callers
// type-assert to *Transpose, *MatMul, *Concat, or their own registered type.
func (op *Operator) Variant() Variant { return op.variant }

// Inputs returns the operator's ordered input tensors.
func (op *Operator) Inputs() []*Tensor { return op.inputs }

// Outputs returns the operator's ordered output tensors.
func (op *Operator) Outputs() []*Tensor { return op.outputs }

// Predecessors returns operators producing one of this operator's inputs.
func (op *Operator) Predecessors() []*Operator { return op.predecessors }

// Successors returns operators consuming one of this operator's outputs.
func (op *Operator) Successors() []*Operator { return op.successors }

// InferShape delegates to the variant's pure shape inference over this
// operator's current input tensors.
func (op *Operator) InferShape() ([]Shape, error) {
	return op.variant.InferShape(op.inputs)
}

// addPredecessor registers pred as a predecessor, if not already present.
func (op *Operator) addPredecessor(pred *Operator) {
	for _, existing := range op.predecessors {
		if existing == pred {
			return
		}
	}
	op.predecessors = append(op.predecessors, pred)
}

// addSuccessor registers succ as a successor, if not already present.
func (op *Operator) addSuccessor(succ *Operator) {
	for _, existing := range op.successors {
		if existing == succ {
			return
		}
	}
	op.successors = append(op.successors, succ)
}

// removePredecessor deregisters pred as a predecessor.
func (op *Operator) removePredecessor(pred *Operator) {
	for i, existing := range op.predecessors {
		if existing == pred {
			op.predecessors = append(op.predecessors[:i], op.predecessors[i+1:]...)
			return
		}
	}
}

// removeSuccessor deregisters succ as a successor.
func (op *Operator) removeSuccessor(succ *Operator) {
	for i, existing := range op.successors {
		if existing == succ {
			op.successors = append(op.successors[:i], op.successors[i+1:]...)
			return
		}
	}
}

// replaceInput swaps the first occurrence of oldT with newT in this
// operator's input list, without touching either tensor's target sets —
// callers are responsible for that bookkeeping (see Optimize).
func (op *Operator) replaceInput(oldT, newT *Tensor) {
	for i, in := range op.inputs {
		if in == oldT {
			op.inputs[i] = newT
			return
		}
	}
}

// String renders the operator for debugging, in the style of the original
// engine's OperatorObj::toString overrides.
func (op *Operator) String() string {
	return fmt.Sprintf("%s#%d(inputs=%v,outputs=%v)", op.OpType(), op.guid, guids(op.inputs), guids(op.outputs))
}

func guids(ts []*Tensor) []uint64 {
	out := make([]uint64, len(ts))
	for i, t := range ts {
		out[i] = t.GUID()
	}
	return out
}
