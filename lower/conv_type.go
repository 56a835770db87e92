package lower

import (
	"sable/ast"
	"sable/report"
	"sable/typing"
	"sable/util"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// convType converts a Sable data type to its physical LLVM type.  Class types
// lower to pointers to their field struct; struct types lower to the struct
// itself (value semantics).
func (l *Lowerer) convType(dt typing.DataType) types.Type {
	switch v := dt.(type) {
	case typing.PrimType:
		return convPrimType(v)
	case *typing.RefType:
		return types.NewPointer(l.convType(v.ElemType))
	case *typing.StructType:
		return l.namedStruct(v.Name, v.Fields)
	case *typing.ClassType:
		return types.NewPointer(l.namedStruct(v.Name, v.Fields))
	case *typing.FuncType:
		return types.NewPointer(types.NewFunc(l.convType(v.ReturnType), l.paramTypes(v.ParamTypes)...))
	}

	report.ThrowICE("type %s has no physical lowering", dt.Repr())
	return nil
}

func convPrimType(pt typing.PrimType) types.Type {
	switch pt {
	case typing.PrimI8:
		return types.I8
	case typing.PrimI16:
		return types.I16
	case typing.PrimI32:
		return types.I32
	case typing.PrimI64:
		return types.I64
	case typing.PrimF32:
		return types.Float
	case typing.PrimF64:
		return types.Double
	case typing.PrimBool:
		return types.I1
	default:
		// PrimUnit
		return types.Void
	}
}

// namedStruct returns the LLVM type definition for a named aggregate, creating
// and registering it in the module on first use.
func (l *Lowerer) namedStruct(name string, fields []typing.StructField) types.Type {
	if td, ok := l.typeDefs[name]; ok {
		return td
	}

	var fieldTypes []types.Type
	for _, field := range fields {
		fieldTypes = append(fieldTypes, l.convType(field.Type))
	}

	td := l.ll.NewTypeDef(name, types.NewStruct(fieldTypes...))
	l.typeDefs[name] = td
	return td
}

// -----------------------------------------------------------------------------

// signature computes the physical function signature for a lowering target.
// Results are cached per target: repeated lookups return the identical
// signature value.
func (l *Lowerer) signature(key Target) *types.FuncType {
	if sig, ok := l.sigCache[key]; ok {
		return sig
	}

	sig := types.NewFunc(types.Void)

	switch key.Kind {
	case KindFunction:
		switch n := key.Node.(type) {
		case *ast.FuncDecl:
			sig = l.funcSig(n.Signature)
		case *ast.ConstructorDecl:
			// A value constructor allocates and initializes in one function:
			// constructor params in, the constructed value out.
			sig = types.NewFunc(l.convType(n.DefinedType), l.fpTypes(n.Params)...)
		default:
			report.ThrowICE("no signature rule for %s", key)
		}
	case KindAllocator:
		ctor := key.Node.(*ast.ConstructorDecl)
		sig = types.NewFunc(l.convType(ctor.DefinedType), l.fpTypes(ctor.Params)...)
	case KindInitializer:
		ctor := key.Node.(*ast.ConstructorDecl)
		params := append([]types.Type{l.convType(ctor.DefinedType)}, l.fpTypes(ctor.Params)...)
		sig = types.NewFunc(l.convType(ctor.DefinedType), params...)
	case KindDestructor:
		td := key.Node.(*ast.TypeDecl)
		sig = types.NewFunc(types.Void, l.convType(td.DefinedType))
	case KindClosure:
		ce := key.Node.(*ast.ClosureExpr)
		sig = l.funcSig(ce.Signature)
	case KindTopLevel:
		// () -> void
	}

	l.sigCache[key] = sig
	return sig
}

func (l *Lowerer) funcSig(ft *typing.FuncType) *types.FuncType {
	var ret types.Type = types.Void
	if !typing.IsUnit(ft.ReturnType) {
		ret = l.convType(ft.ReturnType)
	}

	return types.NewFunc(ret, l.paramTypes(ft.ParamTypes)...)
}

func (l *Lowerer) paramTypes(dts []typing.DataType) []types.Type {
	return util.Map(dts, l.convType)
}

func (l *Lowerer) fpTypes(fps []ast.FuncParam) []types.Type {
	return util.Map(fps, func(fp ast.FuncParam) types.Type {
		return l.convType(fp.Type)
	})
}

// paramsFor builds the named IR parameters for a target's function shell.
// Initializers and destructors receive the implicit `this` parameter first.
func (l *Lowerer) paramsFor(key Target) []*ir.Param {
	var params []*ir.Param

	addNamed := func(fps []ast.FuncParam) {
		for _, fp := range fps {
			params = append(params, ir.NewParam(fp.Name, l.convType(fp.Type)))
		}
	}

	switch key.Kind {
	case KindFunction:
		switch n := key.Node.(type) {
		case *ast.FuncDecl:
			addNamed(n.Params)
		case *ast.ConstructorDecl:
			addNamed(n.Params)
		}
	case KindAllocator:
		addNamed(key.Node.(*ast.ConstructorDecl).Params)
	case KindInitializer:
		ctor := key.Node.(*ast.ConstructorDecl)
		params = append(params, ir.NewParam("this", l.convType(ctor.DefinedType)))
		addNamed(ctor.Params)
	case KindDestructor:
		td := key.Node.(*ast.TypeDecl)
		params = append(params, ir.NewParam("this", l.convType(td.DefinedType)))
	case KindClosure:
		addNamed(key.Node.(*ast.ClosureExpr).Params)
	case KindTopLevel:
	}

	return params
}
