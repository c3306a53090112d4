// Package graph is the public API for the borncore computation-graph IR:
// tensors, operators, the graph that owns and connects them, the peephole
// optimizer, and the byte-offset memory planner.
//
// Example:
//
//	rt := runtime.NewHeap()
//	g := graph.New(rt)
//	a := g.NewTensor(graph.Shape{4, 8}, graph.Float32)
//	b := g.NewTensor(graph.Shape{8, 5}, graph.Float32)
//	_, c, err := g.AddMatMul(a, b, false, false)
//	g.TopoSort()
//	graph.Optimize(g)
//	g.TopoSort()
//	g.ShapeInfer()
//	g.DataMalloc()
package graph

import (
	internalgraph "github.com/born-ml/borncore/internal/graph"
	internalruntime "github.com/born-ml/borncore/internal/runtime"
)

// Shape is an ordered sequence of non-negative dimension sizes.
type Shape = internalgraph.Shape

// DataType is the closed set of scalar element kinds a Tensor may hold.
type DataType = internalgraph.DataType

// Supported data types.
const (
	Float32 = internalgraph.Float32
	Float16 = internalgraph.Float16
	Int32   = internalgraph.Int32
	Int64   = internalgraph.Int64
	Uint8   = internalgraph.Uint8
	Int8    = internalgraph.Int8
)

// Tensor is a node in the computation graph.
type Tensor = internalgraph.Tensor

// Operator is one node of the DAG: a typed variant plus its ordered
// input/output tensors.
type Operator = internalgraph.Operator

// OpType tags the closed sum type of operator variants the core knows
// about.
type OpType = internalgraph.OpType

// Built-in operator types.
const (
	OpTranspose = internalgraph.OpTranspose
	OpMatMul    = internalgraph.OpMatMul
	OpConcat    = internalgraph.OpConcat
	OpGeneric   = internalgraph.OpGeneric
)

// Variant is the per-OpType payload of an Operator.
type Variant = internalgraph.Variant

// Transpose permutes a tensor's axes.
type Transpose = internalgraph.Transpose

// MatMul computes A @ B, optionally transposing either operand first.
type MatMul = internalgraph.MatMul

// Concat joins inputs along an axis.
type Concat = internalgraph.Concat

// Generic is a caller-defined operator with a shape-preserving default.
type Generic = internalgraph.Generic

// IsInverse reports whether applying b then a is the identity permutation.
func IsInverse(a, b *Transpose) bool { return internalgraph.IsInverse(a, b) }

// IsTransMat classifies a Transpose with respect to matmul fusion.
func IsTransMat(t *Transpose) int { return internalgraph.IsTransMat(t) }

// NewMatMul builds a MatMul attribute set and caches M, N, K.
func NewMatMul(transA, transB bool, aShape, bShape Shape) (*MatMul, error) {
	return internalgraph.NewMatMul(transA, transB, aShape, bShape)
}

// InferBroadcast implements NumPy-style elementwise broadcasting.
func InferBroadcast(a, b Shape) (Shape, error) { return internalgraph.InferBroadcast(a, b) }

// GetRealAxis folds a possibly-negative axis into [0, rank).
func GetRealAxis(axis, rank int) (int, error) { return internalgraph.GetRealAxis(axis, rank) }

// Graph owns a DAG of tensors and operators.
type Graph = internalgraph.Graph

// Error carries a broken invariant or failed operation.
type Error = internalgraph.Error

// ErrorKind identifies which error category an Error belongs to.
type ErrorKind = internalgraph.ErrorKind

// Error kind constants.
const (
	KindInvariantViolation = internalgraph.KindInvariantViolation
	KindCycleDetected      = internalgraph.KindCycleDetected
	KindShapeMismatch      = internalgraph.KindShapeMismatch
	KindInvalidState       = internalgraph.KindInvalidState
	KindBadAttribute       = internalgraph.KindBadAttribute
)

// Sentinel errors for errors.Is checks against Error.Kind.
var (
	ErrInvariantViolation = internalgraph.ErrInvariantViolation
	ErrCycleDetected      = internalgraph.ErrCycleDetected
	ErrShapeMismatch      = internalgraph.ErrShapeMismatch
	ErrInvalidState       = internalgraph.ErrInvalidState
	ErrBadAttribute       = internalgraph.ErrBadAttribute
)

// New creates an empty Graph bound to a runtime Handle and allocator.
func New(rt internalruntime.Handle, opts ...internalruntime.Option) *Graph {
	return internalgraph.New(rt, opts...)
}

// Optimize rewrites g's DAG in place: inverse-transpose elimination,
// transpose-into-matmul fusion, then a dead-node sweep.
func Optimize(g *Graph) error { return internalgraph.Optimize(g) }
