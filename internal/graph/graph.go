package graph

import (
	"fmt"
	"strings"

	"github.com/born-ml/borncore/internal/runtime"
)

// Graph owns a DAG of tensors and operators, links them as they're added,
// and provides topological ordering, shape propagation, memory planning,
// and invariant checking over the whole owned set.
type Graph struct {
	tensors []*Tensor
	ops     []*Operator
	sorted  bool

	gen *idGenerator
	rt  runtime.Handle

	allocator        *runtime.Allocator
	dataMallocCalled bool
}

// New creates an empty Graph bound to a single runtime Handle and
// allocator. opts configure the allocator (e.g. runtime.WithAlignment).
func New(rt runtime.Handle, opts ...runtime.Option) *Graph {
	return &Graph{
		gen:       newIDGenerator(),
		rt:        rt,
		allocator: runtime.New(rt, opts...),
	}
}

// Tensors returns the graph's owned tensors in insertion order.
func (g *Graph) Tensors() []*Tensor { return g.tensors }

// Ops returns the graph's owned operators in their current order (creation
// order until TopoSort succeeds, topological order afterward).
func (g *Graph) Ops() []*Operator { return g.ops }

// Sorted reports whether the graph is currently known to be topologically
// sorted. Any structural mutation (NewTensor is not structural; connecting
// an operator is) resets this to false.
func (g *Graph) Sorted() bool { return g.sorted }

// NewTensor creates a tensor owned by this graph, with no source and no
// targets yet.
func (g *Graph) NewTensor(shape Shape, dtype DataType) *Tensor {
	t := newTensor(g.gen, shape, dtype, g.rt)
	g.tensors = append(g.tensors, t)
	return t
}

// tensorByFUID finds the graph-owned tensor with the given fuid, or nil.
func (g *Graph) tensorByFUID(fuid uint64) *Tensor {
	for _, t := range g.tensors {
		if t.fuid == fuid {
			return t
		}
	}
	return nil
}

// AddOperatorAndConnect appends op to the graph and wires it into the DAG:
// registers it as a target of each non-nil input (and as a successor of
// that input's producer, if any), and as the source of each non-nil output
// (inheriting that output's existing consumers as its own successors).
func (g *Graph) AddOperatorAndConnect(variant Variant, inputs, outputs []*Tensor) *Operator {
	g.sorted = false
	op := newOperator(g.gen, variant, inputs, outputs)
	g.ops = append(g.ops, op)

	for _, in := range inputs {
		if in == nil {
			continue
		}
		in.AddTarget(op)
		if pred := in.Source(); pred != nil {
			pred.addSuccessor(op)
			op.addPredecessor(pred)
		}
	}
	for _, out := range outputs {
		if out == nil {
			continue
		}
		out.SetSource(op)
		for _, succ := range out.Targets() {
			succ.addPredecessor(op)
			op.addSuccessor(succ)
		}
	}
	return op
}

// AddTranspose builds a Transpose operator over input and a fresh output
// tensor, with the output shape computed immediately via InferShape.
func (g *Graph) AddTranspose(input *Tensor, permute []int) (*Operator, *Tensor, error) {
	t := &Transpose{Permute: append([]int(nil), permute...)}
	shapes, err := t.InferShape([]*Tensor{input})
	if err != nil {
		return nil, nil, err
	}
	out := g.NewTensor(shapes[0], input.DType())
	op := g.AddOperatorAndConnect(t, []*Tensor{input}, []*Tensor{out})
	return op, out, nil
}

// AddMatMul builds a MatMul operator over a, b and a fresh output tensor.
func (g *Graph) AddMatMul(a, b *Tensor, transA, transB bool) (*Operator, *Tensor, error) {
	mm, err := NewMatMul(transA, transB, a.Shape(), b.Shape())
	if err != nil {
		return nil, nil, err
	}
	shapes, err := mm.InferShape([]*Tensor{a, b})
	if err != nil {
		return nil, nil, err
	}
	out := g.NewTensor(shapes[0], a.DType())
	op := g.AddOperatorAndConnect(mm, []*Tensor{a, b}, []*Tensor{out})
	return op, out, nil
}

// AddConcat builds a Concat operator over inputs along axis and a fresh
// output tensor.
func (g *Graph) AddConcat(inputs []*Tensor, axis int) (*Operator, *Tensor, error) {
	c := &Concat{Axis: axis}
	shapes, err := c.InferShape(inputs)
	if err != nil {
		return nil, nil, err
	}
	out := g.NewTensor(shapes[0], inputs[0].DType())
	op := g.AddOperatorAndConnect(c, inputs, []*Tensor{out})
	return op, out, nil
}

// AddGeneric builds a pass-through operator (e.g. Relu) over inputs, using
// variant's InferShape (or shape-preserving default, if Infer is nil).
func (g *Graph) AddGeneric(variant *Generic, inputs []*Tensor) (*Operator, []*Tensor, error) {
	shapes, err := variant.InferShape(inputs)
	if err != nil {
		return nil, nil, err
	}
	outputs := make([]*Tensor, len(shapes))
	dtype := inputs[0].DType()
	for i, s := range shapes {
		outputs[i] = g.NewTensor(s, dtype)
	}
	op := g.AddOperatorAndConnect(variant, inputs, outputs)
	return op, outputs, nil
}

// TopoSort orders ops so every operator appears after all operators whose
// outputs it consumes. Uses Kahn-style repeated full passes: each pass
// emits every unflagged operator whose inputs are all either sourceless or
// already-flagged, and a pass that emits nothing means a cycle. Idempotent:
// returns true immediately if already sorted.
func (g *Graph) TopoSort() bool {
	if g.sorted {
		return true
	}
	flagged := make(map[*Operator]bool, len(g.ops))
	sorted := make([]*Operator, 0, len(g.ops))

	for len(sorted) < len(g.ops) {
		modified := false
		for _, op := range g.ops {
			if flagged[op] {
				continue
			}
			ready := true
			for _, in := range op.inputs {
				if in == nil {
					continue
				}
				if src := in.Source(); src != nil && !flagged[src] {
					ready = false
					break
				}
			}
			if ready {
				sorted = append(sorted, op)
				flagged[op] = true
				modified = true
			}
		}
		if !modified {
			return false
		}
	}
	g.ops = sorted
	g.sorted = true
	return true
}

// ShapeInfer requires a topologically sorted graph. It walks ops in order,
// infers each operator's output shapes from its current inputs, and
// updates any output tensor whose shape changed (looked up by fuid, since
// optimizer rewrites may have replaced the slice entry itself).
func (g *Graph) ShapeInfer() error {
	if !g.sorted {
		return &Error{Kind: KindInvariantViolation, Details: "shape_infer requires topo_sort to have succeeded"}
	}
	for _, op := range g.ops {
		shapes, err := op.InferShape()
		if err != nil {
			return err
		}
		outputs := op.Outputs()
		if len(shapes) != len(outputs) {
			return &Error{
				Kind:    KindShapeMismatch,
				Entity:  fmt.Sprintf("op#%d", op.guid),
				Details: fmt.Sprintf("infer_shape returned %d shapes for %d outputs", len(shapes), len(outputs)),
			}
		}
		for i, newShape := range shapes {
			out := outputs[i]
			if newShape.Equal(out.Shape()) {
				continue
			}
			target := g.tensorByFUID(out.FUID())
			if target == nil {
				return &Error{
					Kind:    KindInvariantViolation,
					Entity:  fmt.Sprintf("tensor#%d", out.GUID()),
					Details: "output tensor not found in graph by fuid",
				}
			}
			target.SetShape(newShape)
		}
	}
	return nil
}

// DataMalloc requires a topologically sorted graph and may run at most
// once. It assigns every owned tensor a byte offset via the allocator, then
// materializes the graph's single backing buffer and binds each tensor's
// blob to base+offset.
func (g *Graph) DataMalloc() error {
	if !g.sorted {
		return &Error{Kind: KindInvariantViolation, Details: "data_malloc requires topo_sort to have succeeded"}
	}
	if g.dataMallocCalled {
		return &Error{Kind: KindInvalidState, Details: "data_malloc called twice"}
	}

	offsets := make([]int64, len(g.tensors))
	for i, t := range g.tensors {
		off, err := g.allocator.Alloc(t.Bytes())
		if err != nil {
			return fmt.Errorf("data_malloc: %w", err)
		}
		offsets[i] = off
	}

	base, err := g.allocator.GetPtr()
	if err != nil {
		return fmt.Errorf("data_malloc: %w", err)
	}

	for i, t := range g.tensors {
		blob := runtime.Blob{Runtime: g.rt, Base: base, Offset: offsets[i], Size: t.Bytes()}
		if err := t.SetDataBlob(blob); err != nil {
			return err
		}
	}

	g.allocator.Info()
	g.dataMallocCalled = true
	return nil
}

// Allocator exposes the graph's byte-offset planner, mainly for tests that
// want to inspect Used/Peak directly.
func (g *Graph) Allocator() *runtime.Allocator { return g.allocator }

// CheckValid enforces the six cross-entity invariants of §3: every edge
// resolves inside the graph, fuids are pairwise distinct, no tensor is both
// sourceless and targetless, and predecessor/successor sets agree with
// input/output source relations.
func (g *Graph) CheckValid() error {
	tensorSet := make(map[*Tensor]bool, len(g.tensors))
	for _, t := range g.tensors {
		tensorSet[t] = true
	}
	opSet := make(map[*Operator]bool, len(g.ops))
	for _, op := range g.ops {
		opSet[op] = true
	}

	fuids := make(map[uint64]bool, len(g.tensors))
	for _, t := range g.tensors {
		if t.source == nil && len(t.targets) == 0 {
			return &Error{
				Kind:    KindInvariantViolation,
				Entity:  fmt.Sprintf("tensor#%d", t.guid),
				Details: "tensor has neither source nor targets",
			}
		}
		if t.source != nil && !opSet[t.source] {
			return &Error{
				Kind:    KindInvariantViolation,
				Entity:  fmt.Sprintf("tensor#%d", t.guid),
				Details: "source operator not owned by graph",
			}
		}
		for _, tgt := range t.targets {
			if !opSet[tgt] {
				return &Error{
					Kind:    KindInvariantViolation,
					Entity:  fmt.Sprintf("tensor#%d", t.guid),
					Details: "target operator not owned by graph",
				}
			}
		}
		if fuids[t.fuid] {
			return &Error{
				Kind:    KindInvariantViolation,
				Entity:  fmt.Sprintf("tensor#%d", t.guid),
				Details: fmt.Sprintf("duplicate fuid %d", t.fuid),
			}
		}
		fuids[t.fuid] = true
	}

	for _, op := range g.ops {
		for _, in := range op.inputs {
			if in != nil && !tensorSet[in] {
				return &Error{
					Kind:    KindInvariantViolation,
					Entity:  fmt.Sprintf("op#%d", op.guid),
					Details: "input tensor not owned by graph",
				}
			}
		}
		for _, out := range op.outputs {
			if out != nil && !tensorSet[out] {
				return &Error{
					Kind:    KindInvariantViolation,
					Entity:  fmt.Sprintf("op#%d", op.guid),
					Details: "output tensor not owned by graph",
				}
			}
		}
		for _, pred := range op.predecessors {
			if !opSet[pred] {
				return &Error{
					Kind:    KindInvariantViolation,
					Entity:  fmt.Sprintf("op#%d", op.guid),
					Details: "predecessor not owned by graph",
				}
			}
		}
		for _, succ := range op.successors {
			if !opSet[succ] {
				return &Error{
					Kind:    KindInvariantViolation,
					Entity:  fmt.Sprintf("op#%d", op.guid),
					Details: "successor not owned by graph",
				}
			}
		}

		expectedPred := make(map[*Operator]bool)
		for _, in := range op.inputs {
			if in != nil && in.source != nil {
				expectedPred[in.source] = true
			}
		}
		actualPred := make(map[*Operator]bool, len(op.predecessors))
		for _, p := range op.predecessors {
			actualPred[p] = true
		}
		if len(expectedPred) != len(actualPred) {
			return &Error{
				Kind:    KindInvariantViolation,
				Entity:  fmt.Sprintf("op#%d", op.guid),
				Details: "predecessor set inconsistent with input source relations",
			}
		}
		for p := range expectedPred {
			if !actualPred[p] {
				return &Error{
					Kind:    KindInvariantViolation,
					Entity:  fmt.Sprintf("op#%d", op.guid),
					Details: "predecessor set inconsistent with input source relations",
				}
			}
		}
	}
	return nil
}

// String renders the full graph for debugging, in the style of the
// original engine's GraphObj::toString.
func (g *Graph) String() string {
	var b strings.Builder
	b.WriteString("Graph Tensors:\n")
	for _, t := range g.tensors {
		fmt.Fprintf(&b, "%s\n", t)
	}
	b.WriteString("Graph operators:\n")
	for _, op := range g.ops {
		fmt.Fprintf(&b, "OP %d, pred %v, succ %v, %s\n", op.guid, opGUIDs(op.predecessors), opGUIDs(op.successors), op)
	}
	return b.String()
}

func opGUIDs(ops []*Operator) []uint64 {
	out := make([]uint64, len(ops))
	for i, o := range ops {
		out[i] = o.guid
	}
	return out
}
