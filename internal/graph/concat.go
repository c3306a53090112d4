package graph

import "fmt"

// Concat joins inputs along Axis, which is normalized via GetRealAxis.
type Concat struct {
	Axis int
}

// OpType implements Variant.
func (c *Concat) OpType() OpType { return OpConcat }

// InferShape returns inputs[0].dims with the axis dimension replaced by the
// sum of that dimension across all inputs. Non-axis dimensions and dtypes
// must match across all inputs.
func (c *Concat) InferShape(inputs []*Tensor) ([]Shape, error) {
	if len(inputs) == 0 {
		return nil, &Error{Kind: KindShapeMismatch, Details: "concat requires at least 1 input"}
	}
	rank := inputs[0].Rank()
	axis, err := GetRealAxis(c.Axis, rank)
	if err != nil {
		return nil, err
	}

	dims := inputs[0].Shape().Clone()
	dtype := inputs[0].DType()
	for _, in := range inputs[1:] {
		if in.Rank() != rank {
			return nil, &Error{Kind: KindShapeMismatch, Details: fmt.Sprintf("concat: rank mismatch %d vs %d", rank, in.Rank())}
		}
		if in.DType() != dtype {
			return nil, &Error{Kind: KindShapeMismatch, Details: fmt.Sprintf("concat: dtype mismatch %s vs %s", dtype, in.DType())}
		}
		inDims := in.Shape()
		for i := 0; i < rank; i++ {
			if i == axis {
				continue
			}
			if inDims[i] != dims[i] {
				return nil, &Error{
					Kind:    KindShapeMismatch,
					Details: fmt.Sprintf("concat: non-axis dim %d mismatch %d vs %d", i, dims[i], inDims[i]),
				}
			}
		}
		dims[axis] += inDims[axis]
	}
	return []Shape{dims}, nil
}
