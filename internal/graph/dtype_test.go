package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataTypeSizeBytes(t *testing.T) {
	assert.Equal(t, 4, Float32.SizeBytes())
	assert.Equal(t, 2, Float16.SizeBytes())
	assert.Equal(t, 8, Int64.SizeBytes())
	assert.Equal(t, 1, Uint8.SizeBytes())
	assert.Equal(t, 1, Int8.SizeBytes())
}

func TestDataTypeString(t *testing.T) {
	assert.Equal(t, "f32", Float32.String())
	assert.Equal(t, "i64", Int64.String())
}
