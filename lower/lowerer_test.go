package lower

import (
	"testing"

	"sable/ast"

	"github.com/llir/llvm/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storesIn collects the store instructions of f in emission order.
func storesIn(f *ir.Func) []*ir.InstStore {
	var stores []*ir.InstStore
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			if st, ok := inst.(*ir.InstStore); ok {
				stores = append(stores, st)
			}
		}
	}

	return stores
}

func TestLibraryProgramHasNoTopLevelFunction(t *testing.T) {
	fn := funcDecl("f", nil, unitT, blockOf())
	mod := lowerProgram(libProgram(fn), 0, nil)

	assert.Nil(t, mod.TopLevel)
}

func TestExecutableProgramRunsInitializersInOrder(t *testing.T) {
	a := &ast.VarDecl{Names: []string{"a"}, Type: i64, Initializer: intLit(1)}
	b := &ast.VarDecl{Names: []string{"b"}, Type: i64, Initializer: intLit(2)}

	prog := &ast.Program{Kind: ast.KindExecutable, Decls: []ast.Decl{a, b}}
	mod := lowerProgram(prog, 0, nil)

	require.NotNil(t, mod.TopLevel)
	assert.Equal(t, "main", mod.TopLevel.Name())

	stores := storesIn(mod.TopLevel)
	require.Len(t, stores, 2)
	assert.Same(t, mod.Globals["a"], stores[0].Dst)
	assert.Same(t, mod.Globals["b"], stores[1].Dst)

	// Finalization closed the top-level session with a void return.
	last := mod.TopLevel.Blocks[len(mod.TopLevel.Blocks)-1]
	assert.IsType(t, &ir.TermRet{}, last.Term)
}

func TestInteractiveProgramHasTopLevelFunction(t *testing.T) {
	prog := &ast.Program{Kind: ast.KindInteractive}
	mod := lowerProgram(prog, 0, nil)

	require.NotNil(t, mod.TopLevel)
}

func TestInitializersAfterDivergedTopLevelAreSkipped(t *testing.T) {
	cfg := DefaultConfig()
	l := newLowerer(cfg)

	f := l.ll.NewFunc("main", l.signature(Target{Kind: KindTopLevel}).RetType)
	l.topLevel = newFuncEmitter(l, f, true, nil)
	l.topLevel.pushScope()

	l.visitDecl(&ast.VarDecl{Names: []string{"a"}, Type: i64, Initializer: intLit(1)})

	// A permanently diverging top-level statement closes the session's path.
	l.topLevel.cursor().NewRet(nil)
	l.topLevel.block = nil

	l.visitDecl(&ast.VarDecl{Names: []string{"b"}, Type: i64, Initializer: intLit(2)})

	// The second binding still registers its global, but its initializer is
	// dropped rather than emitted onto the dead path.
	require.Contains(t, l.mod.Globals, "b")
	assert.Len(t, storesIn(f), 1)
}

func TestResumptionOffsetSkipsEarlierDeclarations(t *testing.T) {
	f1 := funcDecl("f1", nil, unitT, blockOf())
	f2 := funcDecl("f2", nil, unitT, blockOf())

	mod := lowerProgram(libProgram(f1, f2), 1, nil)

	_, ok := mod.Lookup(Target{Node: f1, Kind: KindFunction})
	assert.False(t, ok)
	_, ok = mod.Lookup(Target{Node: f2, Kind: KindFunction})
	assert.True(t, ok)
}

func TestResumptionOffsetAtEndLowersNothing(t *testing.T) {
	f1 := funcDecl("f1", nil, unitT, blockOf())
	mod := lowerProgram(libProgram(f1), 1, nil)

	assert.Empty(t, mod.Functions)
}

func TestResumptionOffsetOutOfRangePanics(t *testing.T) {
	require.Panics(t, func() { lowerProgram(libProgram(), -1, nil) })
	require.Panics(t, func() { lowerProgram(libProgram(), 1, nil) })
}

func TestForeignDeclarationMustBeTypeChecked(t *testing.T) {
	fn := funcDecl("imported", nil, unitT, blockOf())
	prog := &ast.Program{
		Kind:    ast.KindLibrary,
		Foreign: []ast.ForeignDecl{{Decl: fn, Stage: ast.StageNameBound}},
	}

	require.Panics(t, func() { lowerProgram(prog, 0, nil) })
}

func TestTypeCheckedForeignDeclarationIsLowered(t *testing.T) {
	fn := funcDecl("imported", nil, unitT, blockOf())
	prog := &ast.Program{
		Kind:    ast.KindLibrary,
		Foreign: []ast.ForeignDecl{{Decl: fn, Stage: ast.StageTypeChecked}},
	}

	mod := lowerProgram(prog, 0, nil)

	_, ok := mod.Lookup(Target{Node: fn, Kind: KindFunction})
	assert.True(t, ok)
}

func TestForeignDeclarationsLowerAfterLocalOnes(t *testing.T) {
	cd := classDecl("C")
	user := funcDecl("use", nil, unitT, blockOf(&ast.ExprStmt{Expr: newOf(cd)}))

	prog := &ast.Program{
		Kind:    ast.KindLibrary,
		Decls:   []ast.Decl{cd},
		Foreign: []ast.ForeignDecl{{Decl: user, Stage: ast.StageTypeChecked}},
	}

	mod := lowerProgram(prog, 0, nil)

	f, ok := mod.Lookup(Target{Node: user, Kind: KindFunction})
	require.True(t, ok)

	alloc, ok := mod.Lookup(Target{Node: cd.Ctors[0], Kind: KindAllocator})
	require.True(t, ok)
	assert.Len(t, callsTo(f, alloc), 1)
}
