package lower

import (
	"sable/ast"
	"sable/typing"

	"github.com/llir/llvm/ir"
)

var (
	i64   = typing.PrimType(typing.PrimI64)
	boolT = typing.PrimType(typing.PrimBool)
	unitT = typing.PrimType(typing.PrimUnit)
)

func intLit(v int64) *ast.Literal {
	return &ast.Literal{ExprBase: ast.NewExprBase(i64), Kind: ast.LitInt, IntValue: v}
}

func identExpr(name string, typ typing.DataType) *ast.Identifier {
	return &ast.Identifier{ExprBase: ast.NewExprBase(typ), Name: name}
}

func retStmt(v ast.Expr) *ast.ReturnStmt {
	return &ast.ReturnStmt{Value: v}
}

func blockOf(stmts ...ast.Stmt) *ast.Block {
	return &ast.Block{Stmts: stmts}
}

func funcDecl(name string, params []ast.FuncParam, ret typing.DataType, body *ast.Block) *ast.FuncDecl {
	var paramTypes []typing.DataType
	for _, p := range params {
		paramTypes = append(paramTypes, p.Type)
	}

	return &ast.FuncDecl{
		Name:      name,
		Signature: &typing.FuncType{ParamTypes: paramTypes, ReturnType: ret},
		Params:    params,
		Body:      body,
	}
}

// classDecl builds a class type declaration with a single empty-bodied
// constructor and no destructor.
func classDecl(name string) *ast.TypeDecl {
	classType := &typing.ClassType{
		Name:   name,
		Fields: []typing.StructField{{Name: "x", Type: i64}},
	}

	return &ast.TypeDecl{
		Name:        name,
		DefinedType: classType,
		Ctors: []*ast.ConstructorDecl{
			{DefinedType: classType, Body: blockOf()},
		},
	}
}

// structDecl builds a value type declaration with a single empty-bodied
// constructor.
func structDecl(name string) *ast.TypeDecl {
	structType := &typing.StructType{
		Name:   name,
		Fields: []typing.StructField{{Name: "x", Type: i64}},
	}

	return &ast.TypeDecl{
		Name:        name,
		DefinedType: structType,
		Ctors: []*ast.ConstructorDecl{
			{DefinedType: structType, Body: blockOf()},
		},
	}
}

func newOf(td *ast.TypeDecl) *ast.NewExpr {
	return &ast.NewExpr{
		ExprBase: ast.NewExprBase(td.DefinedType),
		Ctor:     td.Ctors[0],
	}
}

func libProgram(decls ...ast.Decl) *ast.Program {
	return &ast.Program{Kind: ast.KindLibrary, Decls: decls}
}

// callsTo returns the calls to the given callee anywhere in f, in emission
// order.
func callsTo(f *ir.Func, callee *ir.Func) []*ir.InstCall {
	var calls []*ir.InstCall
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			if call, ok := inst.(*ir.InstCall); ok && call.Callee == callee {
				calls = append(calls, call)
			}
		}
	}

	return calls
}

// blockNamed returns the block of f with the given name, or nil.
func blockNamed(f *ir.Func, name string) *ir.Block {
	for _, b := range f.Blocks {
		if b.Name() == name {
			return b
		}
	}

	return nil
}
