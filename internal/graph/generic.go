package graph

// Generic is the operator registry collaborator's minimal built-in member:
// an operator with a caller-supplied name and a shape-preserving or
// caller-supplied inference function. It covers elementwise kernels like
// Relu that the core doesn't need to reason about structurally but that
// still need to appear in the DAG and participate in shape inference.
//
// Additional variants with richer attributes plug in the same way: provide
// a type implementing Variant and construct Operators with it directly.
type Generic struct {
	Name  string
	Infer func(inputs []*Tensor) ([]Shape, error)
}

// OpType implements Variant. Generic operators always report OpGeneric;
// the optimizer has no rewrite rules for OpGeneric and leaves them alone.
func (g *Generic) OpType() OpType { return OpGeneric }

// InferShape delegates to Infer if set, otherwise defaults to
// shape-preserving (the common case: elementwise activations like Relu).
func (g *Generic) InferShape(inputs []*Tensor) ([]Shape, error) {
	if g.Infer != nil {
		return g.Infer(inputs)
	}
	out := make([]Shape, len(inputs))
	for i, in := range inputs {
		out[i] = in.Shape().Clone()
	}
	return out, nil
}
