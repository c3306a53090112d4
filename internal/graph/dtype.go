// Package graph implements the computation-graph IR: tensors, operators,
// the graph that owns and connects them, the peephole optimizer, and the
// byte-offset memory planner.
package graph

// DataType is the closed set of scalar element kinds a Tensor may hold.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float16
	Int32
	Int64
	Uint8
	Int8
)

// SizeBytes returns the size in bytes of one element of this type.
func (dt DataType) SizeBytes() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float16:
		return 2
	case Int64:
		return 8
	case Uint8, Int8:
		return 1
	default:
		panic("graph: unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "f32"
	case Float16:
		return "f16"
	case Int32:
		return "i32"
	case Int64:
		return "i64"
	case Uint8:
		return "u8"
	case Int8:
		return "i8"
	default:
		return "unknown"
	}
}
