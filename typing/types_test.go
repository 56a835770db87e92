package typing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnit(t *testing.T) {
	assert.True(t, IsUnit(PrimType(PrimUnit)))
	assert.False(t, IsUnit(PrimType(PrimI64)))
	assert.False(t, IsUnit(&StructType{Name: "S"}))
}

func TestHasReferenceSemantics(t *testing.T) {
	assert.True(t, HasReferenceSemantics(&ClassType{Name: "C"}))
	assert.True(t, HasReferenceSemantics(&RefType{ElemType: PrimType(PrimI64)}))

	assert.False(t, HasReferenceSemantics(PrimType(PrimI64)))
	assert.False(t, HasReferenceSemantics(&StructType{Name: "S"}))
	assert.False(t, HasReferenceSemantics(&FuncType{ReturnType: PrimType(PrimUnit)}))
}

func TestRepr(t *testing.T) {
	assert.Equal(t, "i64", PrimType(PrimI64).Repr())
	assert.Equal(t, "unit", PrimType(PrimUnit).Repr())
	assert.Equal(t, "&bool", (&RefType{ElemType: PrimType(PrimBool)}).Repr())

	ft := &FuncType{
		ParamTypes: []DataType{PrimType(PrimI64), PrimType(PrimBool)},
		ReturnType: PrimType(PrimUnit),
	}
	assert.Equal(t, "(i64, bool) -> unit", ft.Repr())
}
