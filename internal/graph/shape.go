package graph

import "fmt"

// Shape is an ordered sequence of non-negative dimension sizes. Its length
// is the tensor's rank.
type Shape []int

// NumElements returns the product of all dimensions (1 for a scalar shape).
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// Equal reports whether two shapes have the same rank and dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// InferBroadcast implements elementwise broadcasting: shapes are
// right-aligned, and in each column the result dimension is max(x, y) when
// x == y, x == 1, or y == 1. Rank of the result is max(rank(a), rank(b)).
func InferBroadcast(a, b Shape) (Shape, error) {
	rank := len(a)
	if len(b) > rank {
		rank = len(b)
	}
	result := make(Shape, rank)
	for i := 0; i < rank; i++ {
		ai, bi := 1, 1
		if idx := len(a) - rank + i; idx >= 0 {
			ai = a[idx]
		}
		if idx := len(b) - rank + i; idx >= 0 {
			bi = b[idx]
		}
		switch {
		case ai == bi:
			result[i] = ai
		case ai == 1:
			result[i] = bi
		case bi == 1:
			result[i] = ai
		default:
			return nil, &Error{
				Kind:    KindShapeMismatch,
				Details: fmt.Sprintf("broadcast %v vs %v: column %d has %d and %d", a, b, i, ai, bi),
			}
		}
	}
	return result, nil
}

// GetRealAxis folds a possibly-negative axis into [0, rank) and fails if it
// is still out of range.
func GetRealAxis(axis, rank int) (int, error) {
	real := axis
	if real < 0 {
		real += rank
	}
	if real < 0 || real >= rank {
		return 0, &Error{
			Kind:    KindBadAttribute,
			Details: fmt.Sprintf("axis %d out of range for rank %d", axis, rank),
		}
	}
	return real, nil
}
