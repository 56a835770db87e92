package typing

import "strings"

// DataType is the parent interface for all Sable types reaching IR generation.
// Types arriving at this stage are fully resolved: no type variables or
// unfilled inference slots remain.
type DataType interface {
	// Repr returns a representative string of the type for purposes of error
	// reporting and lowering traces.
	Repr() string
}

// -----------------------------------------------------------------------------

// PrimType represents a primitive type.  It should be one of the enumerated
// primitive types.
type PrimType int

// Enumeration of different primitive types.
const (
	PrimI8 = iota
	PrimI16
	PrimI32
	PrimI64
	PrimF32
	PrimF64
	PrimBool
	PrimUnit
)

func (pt PrimType) Repr() string {
	switch pt {
	case PrimI8:
		return "i8"
	case PrimI16:
		return "i16"
	case PrimI32:
		return "i32"
	case PrimI64:
		return "i64"
	case PrimF32:
		return "f32"
	case PrimF64:
		return "f64"
	case PrimBool:
		return "bool"
	default:
		// PrimUnit
		return "unit"
	}
}

// -----------------------------------------------------------------------------

// RefType represents a reference to a value of another type.
type RefType struct {
	ElemType DataType
}

func (rt *RefType) Repr() string {
	return "&" + rt.ElemType.Repr()
}

// -----------------------------------------------------------------------------

// StructType represents a named structure type with value semantics: struct
// values are copied on assignment and have no independent heap identity.
type StructType struct {
	Name   string
	Fields []StructField
}

// StructField represents a single named field of a structure type.
type StructField struct {
	Name string
	Type DataType
}

func (st *StructType) Repr() string {
	return st.Name
}

// -----------------------------------------------------------------------------

// ClassType represents a named class type with reference semantics: class
// values are heap-allocated instances shared by reference and released by the
// runtime teardown protocol.
type ClassType struct {
	Name   string
	Fields []StructField
}

func (ct *ClassType) Repr() string {
	return ct.Name
}

// -----------------------------------------------------------------------------

// FuncType represents a function type.
type FuncType struct {
	ParamTypes []DataType
	ReturnType DataType
}

func (ft *FuncType) Repr() string {
	sb := strings.Builder{}

	sb.WriteRune('(')

	for i, pt := range ft.ParamTypes {
		sb.WriteString(pt.Repr())

		if i < len(ft.ParamTypes)-1 {
			sb.WriteString(", ")
		}
	}

	sb.WriteString(") -> ")
	sb.WriteString(ft.ReturnType.Repr())

	return sb.String()
}
