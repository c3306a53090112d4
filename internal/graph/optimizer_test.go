package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/borncore/internal/runtime"
)

// TestOptimizeInverseTransposeElimination is scenario S1: x -> Transpose ->
// y -> Transpose -> z -> Relu -> out, with the two transposes mutually
// inverse. After Optimize, both transposes and y, z are gone; Relu's input
// is x; out's shape is unchanged.
func TestOptimizeInverseTransposeElimination(t *testing.T) {
	g := New(runtime.NewHeap())
	x := g.NewTensor(Shape{2, 3, 4}, Float32)

	_, y, err := g.AddTranspose(x, []int{0, 2, 1})
	require.NoError(t, err)
	_, z, err := g.AddTranspose(y, []int{0, 2, 1})
	require.NoError(t, err)
	relu, outs, err := g.AddGeneric(reluVariant(), []*Tensor{z})
	require.NoError(t, err)
	out := outs[0]

	require.True(t, g.TopoSort())
	require.NoError(t, Optimize(g))

	assert.Equal(t, []*Operator{relu}, g.Ops())
	assert.Equal(t, []*Tensor{x, out}, g.Tensors())
	assert.Equal(t, []*Tensor{x}, relu.Inputs())
	assert.Empty(t, relu.Predecessors())
	assert.Equal(t, []*Operator{relu}, x.Targets())

	require.True(t, g.TopoSort())
	require.NoError(t, g.ShapeInfer())
	assert.Equal(t, Shape{2, 3, 4}, out.Shape())

	require.NoError(t, g.CheckValid())
}

// TestOptimizeNonInverseTransposesNoOp is scenario S2: the second transpose
// is not the inverse of the first, so Optimize must be a no-op.
func TestOptimizeNonInverseTransposesNoOp(t *testing.T) {
	g := New(runtime.NewHeap())
	x := g.NewTensor(Shape{2, 3, 4}, Float32)

	_, y, err := g.AddTranspose(x, []int{0, 2, 1})
	require.NoError(t, err)
	_, z, err := g.AddTranspose(y, []int{1, 0, 2})
	require.NoError(t, err)
	_, _, err = g.AddGeneric(reluVariant(), []*Tensor{z})
	require.NoError(t, err)

	require.True(t, g.TopoSort())
	opsBefore := len(g.Ops())
	tensorsBefore := len(g.Tensors())

	require.NoError(t, Optimize(g))

	assert.Equal(t, opsBefore, len(g.Ops()))
	assert.Equal(t, tensorsBefore, len(g.Tensors()))
}

// TestOptimizeTransposeIntoMatMulFusionA is scenario S3: a -> Transpose ->
// a' ; MatMul(a', b) -> c. After Optimize, the transpose is gone, MatMul
// consumes (a, b) directly with trans_a flipped to true, and shape
// inference yields c = [8, 5].
func TestOptimizeTransposeIntoMatMulFusionA(t *testing.T) {
	g := New(runtime.NewHeap())
	a := g.NewTensor(Shape{4, 8}, Float32)
	b := g.NewTensor(Shape{8, 5}, Float32)

	_, aT, err := g.AddTranspose(a, []int{1, 0})
	require.NoError(t, err)
	mm, c, err := g.AddMatMul(aT, b, false, false)
	require.NoError(t, err)

	require.True(t, g.TopoSort())
	require.NoError(t, Optimize(g))

	assert.Equal(t, []*Operator{mm}, g.Ops())
	assert.Equal(t, []*Tensor{a, b}, mm.Inputs())
	assert.True(t, mm.Variant().(*MatMul).TransA)
	assert.False(t, mm.Variant().(*MatMul).TransB)

	require.True(t, g.TopoSort())
	require.NoError(t, g.ShapeInfer())
	assert.Equal(t, Shape{8, 5}, c.Shape())

	require.NoError(t, g.CheckValid())
}

// TestOptimizeFusionSkippedOnNonMatrixPermute is scenario S4: the
// transpose's permutation touches a non-matrix (leading) axis, so
// is_trans_mat returns -1 and no fusion happens.
func TestOptimizeFusionSkippedOnNonMatrixPermute(t *testing.T) {
	g := New(runtime.NewHeap())
	a := g.NewTensor(Shape{2, 4, 8}, Float32)

	transposeOp, aT, err := g.AddTranspose(a, []int{2, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, -1, IsTransMat(transposeOp.Variant().(*Transpose)))

	b := g.NewTensor(Shape{2, 5}, Float32)
	mm, _, err := g.AddMatMul(aT, b, false, false)
	require.NoError(t, err)

	require.True(t, g.TopoSort())
	require.NoError(t, Optimize(g))

	assert.Equal(t, []*Tensor{aT, b}, mm.Inputs())
	assert.Len(t, g.Ops(), 2)
}
