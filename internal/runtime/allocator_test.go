package runtime

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllocatorFirstFitAndCoalesce is scenario S5.
func TestAllocatorFirstFitAndCoalesce(t *testing.T) {
	a := New(NewHeap(), WithAlignment(1))

	off, err := a.Alloc(8)
	require.NoError(t, err)
	assert.Equal(t, int64(0), off)

	off, err = a.Alloc(16)
	require.NoError(t, err)
	assert.Equal(t, int64(8), off)

	off, err = a.Alloc(8)
	require.NoError(t, err)
	assert.Equal(t, int64(24), off)

	require.NoError(t, a.Free(8, 16))
	require.NoError(t, a.Free(24, 8))

	require.Equal(t, []freeBlock{{offset: 8, size: 24}}, a.freeBlocks)

	off, err = a.Alloc(24)
	require.NoError(t, err)
	assert.Equal(t, int64(8), off)

	assert.Equal(t, int64(32), a.Used())
	assert.Equal(t, int64(32), a.Peak())
}

func TestAllocatorAlignment(t *testing.T) {
	a := New(NewHeap())
	assert.Equal(t, int64(8), a.GetAlignedSize(1))
	assert.Equal(t, int64(8), a.GetAlignedSize(8))
	assert.Equal(t, int64(16), a.GetAlignedSize(9))
}

// TestAllocatorConservation covers testable property 4: free_blocks never
// overstate how much has been requested, and adjacent blocks stay merged.
func TestAllocatorConservation(t *testing.T) {
	a := New(NewHeap(), WithAlignment(1))

	o1, err := a.Alloc(10)
	require.NoError(t, err)
	o2, err := a.Alloc(20)
	require.NoError(t, err)
	o3, err := a.Alloc(30)
	require.NoError(t, err)

	require.NoError(t, a.Free(o2, 20))

	for i := 0; i+1 < len(a.freeBlocks); i++ {
		assert.NotEqual(t, a.freeBlocks[i].offset+a.freeBlocks[i].size, a.freeBlocks[i+1].offset,
			"adjacent free blocks were not coalesced")
	}

	var freeTotal int64
	for _, b := range a.freeBlocks {
		freeTotal += b.size
	}
	assert.Equal(t, int64(10+20+30), a.Used()+freeTotal,
		"free plus used bytes must equal the bytes requested")

	_ = o1
	_ = o3
}

// TestAllocatorFullFreeCycle covers testable property 5: once every
// allocation is freed, used is 0 and free_blocks has exactly one entry
// covering the full touched range.
func TestAllocatorFullFreeCycle(t *testing.T) {
	a := New(NewHeap(), WithAlignment(1))

	o1, err := a.Alloc(10)
	require.NoError(t, err)
	o2, err := a.Alloc(20)
	require.NoError(t, err)
	o3, err := a.Alloc(5)
	require.NoError(t, err)

	require.NoError(t, a.Free(o2, 20))
	require.NoError(t, a.Free(o1, 10))
	require.NoError(t, a.Free(o3, 5))

	assert.Equal(t, int64(0), a.Used())
	require.Len(t, a.freeBlocks, 1)
	assert.Equal(t, int64(0), a.freeBlocks[0].offset)
	assert.Equal(t, int64(35), a.freeBlocks[0].size)
}

func TestAllocatorGetPtrLazyAndStable(t *testing.T) {
	a := New(NewHeap(), WithAlignment(1))
	_, err := a.Alloc(10)
	require.NoError(t, err)

	p1, err := a.GetPtr()
	require.NoError(t, err)
	p2, err := a.GetPtr()
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%p", p1.([]byte)), fmt.Sprintf("%p", p2.([]byte)),
		"GetPtr must return the same buffer on repeat calls")

	_, err = a.Alloc(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidState)
}
