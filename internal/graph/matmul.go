package graph

import "fmt"

// MatMul computes A @ B (optionally transposing either operand's last two
// axes first), batched over any leading axes via broadcasting.
type MatMul struct {
	TransA bool
	TransB bool

	// M, N, K are cached from the shapes seen at construction time, for
	// diagnostics (String); shape inference itself never reads or writes
	// them, keeping InferShape pure.
	M, N, K int
}

// NewMatMul builds a MatMul attribute set and caches M, N, K from the given
// input shapes, mirroring MatmulObj's constructor in the original engine.
func NewMatMul(transA, transB bool, aShape, bShape Shape) (*MatMul, error) {
	mm := &MatMul{TransA: transA, TransB: transB}
	shapeA, shapeB, err := mm.transposedOperandShapes(aShape, bShape)
	if err != nil {
		return nil, err
	}
	mm.M = shapeA[len(shapeA)-2]
	mm.K = shapeA[len(shapeA)-1]
	mm.N = shapeB[len(shapeB)-1]
	return mm, nil
}

// OpType implements Variant.
func (mm *MatMul) OpType() OpType { return OpMatMul }

// transposedOperandShapes applies TransA/TransB to copies of the two input
// shapes, swapping their last two dimensions where requested.
func (mm *MatMul) transposedOperandShapes(aShape, bShape Shape) (Shape, Shape, error) {
	if len(aShape) < 2 || len(bShape) < 2 {
		return nil, nil, &Error{
			Kind:    KindShapeMismatch,
			Details: fmt.Sprintf("matmul operands need rank >= 2, got %v and %v", aShape, bShape),
		}
	}
	shapeA := aShape.Clone()
	shapeB := bShape.Clone()
	if mm.TransA {
		i, j := len(shapeA)-1, len(shapeA)-2
		shapeA[i], shapeA[j] = shapeA[j], shapeA[i]
	}
	if mm.TransB {
		i, j := len(shapeB)-1, len(shapeB)-2
		shapeB[i], shapeB[j] = shapeB[j], shapeB[i]
	}
	return shapeA, shapeB, nil
}

// InferShape implements the ONNX Gemm-style shape rule: transpose operands
// per TransA/TransB, mask the contracted dimension to 1 on both sides so
// InferBroadcast can resolve the leading (batch) axes, then splice in the
// real M and N as the last two output dimensions.
func (mm *MatMul) InferShape(inputs []*Tensor) ([]Shape, error) {
	if len(inputs) != 2 {
		return nil, &Error{Kind: KindShapeMismatch, Details: fmt.Sprintf("matmul takes 2 inputs, got %d", len(inputs))}
	}
	shapeA, shapeB, err := mm.transposedOperandShapes(inputs[0].Shape(), inputs[1].Shape())
	if err != nil {
		return nil, err
	}

	aLast, bLast := len(shapeA)-1, len(shapeB)-2
	m, n := shapeA[len(shapeA)-2], shapeB[len(shapeB)-1]
	shapeA[aLast] = 1
	shapeB[bLast] = 1

	broadcast, err := InferBroadcast(shapeA, shapeB)
	if err != nil {
		return nil, err
	}
	broadcast[len(broadcast)-2] = m
	broadcast[len(broadcast)-1] = n
	return []Shape{broadcast}, nil
}

// String renders the operator's transpose flags and cached dimensions.
func (mm *MatMul) String() string {
	return fmt.Sprintf("MatMul(transA=%t,transB=%t,mnk=[%d,%d,%d])", mm.TransA, mm.TransB, mm.M, mm.N, mm.K)
}
