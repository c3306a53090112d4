package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/borncore/internal/runtime"
)

func TestTensorBytes(t *testing.T) {
	g := New(nil)
	tn := g.NewTensor(Shape{2, 3, 4}, Float32)
	assert.Equal(t, int64(2*3*4*4), tn.Bytes())
}

func TestTensorSetShapeKeepsFUID(t *testing.T) {
	g := New(nil)
	tn := g.NewTensor(Shape{2, 3}, Float32)
	fuid := tn.FUID()
	tn.SetShape(Shape{6})
	assert.Equal(t, fuid, tn.FUID())
	assert.Equal(t, Shape{6}, tn.Shape())
}

func TestTensorAddTargetDeduplicates(t *testing.T) {
	g := New(nil)
	a := g.NewTensor(Shape{2}, Float32)
	op := g.AddOperatorAndConnect(reluVariant(), []*Tensor{a}, []*Tensor{g.NewTensor(Shape{2}, Float32)})
	a.AddTarget(op)
	assert.Equal(t, []*Operator{op}, a.Targets())
}

func TestTensorSetDataBlobOneShot(t *testing.T) {
	g := New(runtime.NewHeap())
	a := g.NewTensor(Shape{2}, Float32)
	g.AddOperatorAndConnect(reluVariant(), nil, []*Tensor{a})

	blob := runtime.Blob{Size: 8}
	require.NoError(t, a.SetDataBlob(blob))

	err := a.SetDataBlob(blob)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestIDsAreUniqueAcrossGraph(t *testing.T) {
	g := New(nil)
	a := g.NewTensor(Shape{1}, Float32)
	b := g.NewTensor(Shape{1}, Float32)
	assert.NotEqual(t, a.GUID(), b.GUID())
	assert.NotEqual(t, a.FUID(), b.FUID())
}
