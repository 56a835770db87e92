package lower

import (
	"testing"

	"sable/ast"
	"sable/typing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassConstructorSplitsIntoAllocatorAndInitializer(t *testing.T) {
	cd := classDecl("C")
	mod := lowerProgram(libProgram(cd), 0, nil)

	ctor := cd.Ctors[0]

	alloc, ok := mod.Lookup(Target{Node: ctor, Kind: KindAllocator})
	require.True(t, ok)
	initF, ok := mod.Lookup(Target{Node: ctor, Kind: KindInitializer})
	require.True(t, ok)

	assert.Equal(t, "C.__allocating_init", alloc.Name())
	assert.Equal(t, "C.__init", initF.Name())

	// The allocator allocates, then delegates to the initializer exactly once
	// and returns its result.
	require.Len(t, callsTo(alloc, initF), 1)

	_, ok = mod.Lookup(Target{Node: ctor, Kind: KindFunction})
	assert.False(t, ok, "a class constructor must not also emit under the plain function target")
}

func TestInitializerTakesInstanceAsFirstParam(t *testing.T) {
	cd := classDecl("C")
	cd.Ctors[0].Params = []ast.FuncParam{{Name: "x", Type: i64}}

	mod := lowerProgram(libProgram(cd), 0, nil)

	initF, ok := mod.Lookup(Target{Node: cd.Ctors[0], Kind: KindInitializer})
	require.True(t, ok)

	require.Len(t, initF.Params, 2)
	assert.Equal(t, "this", initF.Params[0].Name())
	assert.IsType(t, &types.PointerType{}, initF.Params[0].Typ)

	// Both entry points return the instance pointer.
	alloc, ok := mod.Lookup(Target{Node: cd.Ctors[0], Kind: KindAllocator})
	require.True(t, ok)
	assert.IsType(t, &types.PointerType{}, alloc.Sig.RetType)
	assert.IsType(t, &types.PointerType{}, initF.Sig.RetType)
}

func TestInitializerEarlyReturnReturnsInstance(t *testing.T) {
	cd := classDecl("C")
	cd.Ctors[0].Body = blockOf(retStmt(nil))

	mod := lowerProgram(libProgram(cd), 0, nil)

	initF, ok := mod.Lookup(Target{Node: cd.Ctors[0], Kind: KindInitializer})
	require.True(t, ok)

	// A bare return in the body still returns the instance: no exit path may
	// return void from a function whose signature returns the class pointer.
	for _, b := range initF.Blocks {
		if term, ok := b.Term.(*ir.TermRet); ok {
			assert.NotNil(t, term.X, "block %s returns void", b.Name())
		}
	}
}

func TestValueConstructorEarlyReturnReturnsValue(t *testing.T) {
	sd := structDecl("S")
	sd.Ctors[0].Body = blockOf(retStmt(nil))

	mod := lowerProgram(libProgram(sd), 0, nil)

	f, ok := mod.Lookup(Target{Node: sd.Ctors[0], Kind: KindFunction})
	require.True(t, ok)

	for _, b := range f.Blocks {
		if term, ok := b.Term.(*ir.TermRet); ok {
			assert.NotNil(t, term.X, "block %s returns void", b.Name())
		}
	}
}

func TestConstructorMixedReturnPathsShareEpilog(t *testing.T) {
	cd := classDecl("C")
	cd.Ctors[0].Params = []ast.FuncParam{{Name: "c", Type: boolT}}
	cd.Ctors[0].Body = blockOf(&ast.IfStmt{
		Cond: identExpr("c", boolT),
		Then: blockOf(retStmt(nil)),
	})

	mod := lowerProgram(libProgram(cd), 0, nil)

	initF, ok := mod.Lookup(Target{Node: cd.Ctors[0], Kind: KindInitializer})
	require.True(t, ok)

	epilog := blockNamed(initF, "epilog")
	require.NotNil(t, epilog)

	// One value-bearing return in the epilog, reached from both the early
	// return and the fallthrough path.
	retCount := 0
	branchesToEpilog := 0
	for _, b := range initF.Blocks {
		switch term := b.Term.(type) {
		case *ir.TermRet:
			retCount++
			assert.NotNil(t, term.X)
		case *ir.TermBr:
			if term.Target == epilog {
				branchesToEpilog++
			}
		}
	}

	assert.Equal(t, 1, retCount)
	assert.Equal(t, 2, branchesToEpilog)
}

func TestValueConstructorEmitsSingleFunction(t *testing.T) {
	sd := structDecl("S")
	mod := lowerProgram(libProgram(sd), 0, nil)

	ctor := sd.Ctors[0]

	f, ok := mod.Lookup(Target{Node: ctor, Kind: KindFunction})
	require.True(t, ok)
	assert.Equal(t, "S.init", f.Name())

	// The constructed value comes back by value, not by reference.
	assert.IsType(t, &types.StructType{}, f.Sig.RetType)

	_, ok = mod.Lookup(Target{Node: ctor, Kind: KindAllocator})
	assert.False(t, ok)
	_, ok = mod.Lookup(Target{Node: ctor, Kind: KindInitializer})
	assert.False(t, ok)
}

func TestOverloadedConstructorsGetDistinctSymbols(t *testing.T) {
	cd := classDecl("C")
	classType := cd.Ctors[0].DefinedType
	cd.Ctors = append(cd.Ctors, &ast.ConstructorDecl{
		DefinedType: classType,
		Params:      []ast.FuncParam{{Name: "x", Type: i64}},
		Body:        blockOf(),
	})

	mod := lowerProgram(libProgram(cd), 0, nil)

	init0, ok := mod.Lookup(Target{Node: cd.Ctors[0], Kind: KindInitializer})
	require.True(t, ok)
	init1, ok := mod.Lookup(Target{Node: cd.Ctors[1], Kind: KindInitializer})
	require.True(t, ok)

	assert.Equal(t, "C.__init", init0.Name())
	assert.Equal(t, "C.__init.i64", init1.Name())

	alloc0, ok := mod.Lookup(Target{Node: cd.Ctors[0], Kind: KindAllocator})
	require.True(t, ok)
	alloc1, ok := mod.Lookup(Target{Node: cd.Ctors[1], Kind: KindAllocator})
	require.True(t, ok)

	assert.NotEqual(t, alloc0.Name(), alloc1.Name())

	// Every symbol in the finished module is unique.
	seen := make(map[string]bool)
	for _, f := range mod.LL.Funcs {
		assert.False(t, seen[f.Name()], "duplicate symbol %q", f.Name())
		seen[f.Name()] = true
	}
}

func TestClassWithoutDestructorGetsSynthesizedOne(t *testing.T) {
	cd := classDecl("C")
	require.Nil(t, cd.Dtor)

	mod := lowerProgram(libProgram(cd), 0, nil)

	dtor, ok := mod.Lookup(Target{Node: cd, Kind: KindDestructor})
	require.True(t, ok)
	assert.Equal(t, "C.__deinit", dtor.Name())

	// Synthesized body: a single block that just returns.
	require.Len(t, dtor.Blocks, 1)
	assert.Empty(t, dtor.Blocks[0].Insts)

	term, ok := dtor.Blocks[0].Term.(*ir.TermRet)
	require.True(t, ok)
	assert.Nil(t, term.X)
}

func TestValueTypeGetsNoDestructor(t *testing.T) {
	sd := structDecl("S")
	mod := lowerProgram(libProgram(sd), 0, nil)

	_, ok := mod.Lookup(Target{Node: sd, Kind: KindDestructor})
	assert.False(t, ok)
}

func TestPrototypeProducesNoFunction(t *testing.T) {
	proto := funcDecl("ext", nil, i64, nil)
	mod := lowerProgram(libProgram(proto), 0, nil)

	_, ok := mod.Lookup(Target{Node: proto, Kind: KindFunction})
	assert.False(t, ok)
	assert.Empty(t, mod.Functions)
}

func TestClosureEmitsItsOwnFunction(t *testing.T) {
	closure := &ast.ClosureExpr{
		ExprBase:  ast.NewExprBase(&typing.FuncType{ReturnType: i64}),
		Signature: &typing.FuncType{ReturnType: i64},
		Body:      blockOf(retStmt(intLit(7))),
	}

	fn := funcDecl("f", nil, unitT, blockOf(&ast.ExprStmt{Expr: closure}))
	mod := lowerProgram(libProgram(fn), 0, nil)

	cf, ok := mod.Lookup(Target{Node: closure, Kind: KindClosure})
	require.True(t, ok)
	assert.Equal(t, "closure1", cf.Name())
	assert.Equal(t, types.I64, cf.Sig.RetType)
}

func TestSignatureIsCachedPerTarget(t *testing.T) {
	l := newLowerer(DefaultConfig())
	fn := funcDecl("f", []ast.FuncParam{{Name: "x", Type: i64}}, i64, blockOf())

	key := Target{Node: fn, Kind: KindFunction}
	require.Same(t, l.signature(key), l.signature(key))
}

func TestGlobalBindingRegistersZeroInitializedGlobals(t *testing.T) {
	vd := &ast.VarDecl{Names: []string{"a", "b"}, Type: i64, Initializer: intLit(3)}
	mod := lowerProgram(libProgram(vd), 0, nil)

	require.Contains(t, mod.Globals, "a")
	require.Contains(t, mod.Globals, "b")

	// In a library there is no top-level code, so the globals carry only
	// their zero initializers; the runtime entry is absent entirely.
	assert.Nil(t, mod.TopLevel)
	assert.NotNil(t, mod.Globals["a"].Init)
}

func TestSelfRecursiveFunctionResolves(t *testing.T) {
	// f() -> i64 { return f() }
	call := &ast.Call{
		ExprBase: ast.NewExprBase(i64),
		Fn:       identExpr("f", &typing.FuncType{ReturnType: i64}),
	}

	fn := funcDecl("f", nil, i64, blockOf(retStmt(call)))
	mod := lowerProgram(libProgram(fn), 0, nil)

	f, ok := mod.Lookup(Target{Node: fn, Kind: KindFunction})
	require.True(t, ok)
	assert.Len(t, callsTo(f, f), 1)
}

func TestStandaloneDestructorDeclPanics(t *testing.T) {
	dd := &ast.DestructorDecl{Body: blockOf()}
	require.Panics(t, func() { lowerProgram(libProgram(dd), 0, nil) })
}
