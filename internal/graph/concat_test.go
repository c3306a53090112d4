package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatInferShape(t *testing.T) {
	g := New(nil)
	a := g.NewTensor(Shape{2, 3, 4}, Float32)
	b := g.NewTensor(Shape{2, 5, 4}, Float32)
	c := g.NewTensor(Shape{2, 1, 4}, Float32)

	cc := &Concat{Axis: 1}
	shapes, err := cc.InferShape([]*Tensor{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, []Shape{{2, 9, 4}}, shapes)
}

func TestConcatInferShapeNegativeAxis(t *testing.T) {
	g := New(nil)
	a := g.NewTensor(Shape{2, 3, 4}, Float32)
	b := g.NewTensor(Shape{2, 3, 5}, Float32)

	cc := &Concat{Axis: -1}
	shapes, err := cc.InferShape([]*Tensor{a, b})
	require.NoError(t, err)
	assert.Equal(t, []Shape{{2, 3, 9}}, shapes)
}

func TestConcatInferShapeDimMismatch(t *testing.T) {
	g := New(nil)
	a := g.NewTensor(Shape{2, 3, 4}, Float32)
	b := g.NewTensor(Shape{3, 3, 4}, Float32)

	cc := &Concat{Axis: 1}
	_, err := cc.InferShape([]*Tensor{a, b})
	require.Error(t, err)
}

func TestConcatInferShapeDTypeMismatch(t *testing.T) {
	g := New(nil)
	a := g.NewTensor(Shape{2, 3}, Float32)
	b := g.NewTensor(Shape{2, 3}, Int32)

	cc := &Concat{Axis: 0}
	_, err := cc.InferShape([]*Tensor{a, b})
	require.Error(t, err)
}
