package typing

// IsUnit returns whether a type is the canonical empty type.  Functions whose
// declared result is unit are lowered with a void return.
func IsUnit(dt DataType) bool {
	if pt, ok := dt.(PrimType); ok {
		return pt == PrimUnit
	}

	return false
}

// HasReferenceSemantics returns whether values of a type are shared heap
// instances rather than copies.  Constructors of reference types are split
// into separate allocating and initializing functions; value types construct
// in a single function.
func HasReferenceSemantics(dt DataType) bool {
	switch dt.(type) {
	case *ClassType, *RefType:
		return true
	default:
		return false
	}
}
