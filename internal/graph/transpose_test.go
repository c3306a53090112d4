package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransposeInferShape(t *testing.T) {
	g := New(nil)
	x := g.NewTensor(Shape{2, 3, 4}, Float32)

	tr := &Transpose{Permute: []int{0, 2, 1}}
	shapes, err := tr.InferShape([]*Tensor{x})
	require.NoError(t, err)
	assert.Equal(t, []Shape{{2, 4, 3}}, shapes)
}

func TestTransposeInferShapeBadPermute(t *testing.T) {
	g := New(nil)
	x := g.NewTensor(Shape{2, 3, 4}, Float32)

	tr := &Transpose{Permute: []int{0, 0, 1}}
	_, err := tr.InferShape([]*Tensor{x})
	require.Error(t, err)
}

func TestIsInverse(t *testing.T) {
	a := &Transpose{Permute: []int{0, 2, 1}}
	b := &Transpose{Permute: []int{0, 2, 1}}
	assert.True(t, IsInverse(a, b))

	c := &Transpose{Permute: []int{1, 0, 2}}
	assert.False(t, IsInverse(a, c))
}

func TestIsTransMat(t *testing.T) {
	assert.Equal(t, -1, IsTransMat(&Transpose{Permute: []int{0}}))
	assert.Equal(t, -1, IsTransMat(&Transpose{Permute: []int{2, 1, 0}}))
	assert.Equal(t, 0, IsTransMat(&Transpose{Permute: []int{0, 1, 2}}))
	assert.Equal(t, 1, IsTransMat(&Transpose{Permute: []int{1, 0}}))
	assert.Equal(t, 1, IsTransMat(&Transpose{Permute: []int{0, 2, 1}}))
}
