package lower

import (
	"sable/ast"
	"sable/report"
	"sable/verify"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// Lowerer drives IR generation for one program.  It owns the module-level
// state shared by every emission session: the function table keyed by target,
// the type-lowering cache, the global scope and the single optional top-level
// session.  Lowering is strictly sequential; nothing here is safe for
// concurrent use.
type Lowerer struct {
	cfg *Config

	// ll is the LLVM module being generated.
	ll *ir.Module

	// mod is the result value under construction.
	mod *Module

	// sigCache caches physical signatures per target.
	sigCache map[Target]*types.FuncType

	// typeDefs is the table of named LLVM aggregate types already defined in
	// the module.
	typeDefs map[string]types.Type

	// globalScope maps global names to their values: functions and global
	// variables.
	globalScope map[string]localIdent

	// topLevel is the emission session for top-level code, or nil for library
	// programs.
	topLevel *FuncEmitter

	// closureCounter numbers the anonymous functions emitted for closures.
	closureCounter int

	// allocFn and releaseFn are the runtime entry points for instance
	// allocation and release, declared once per module.
	allocFn   *ir.Func
	releaseFn *ir.Func
}

// newLowerer creates a lowerer and its output module with the runtime
// declarations in place.
func newLowerer(cfg *Config) *Lowerer {
	llmod := ir.NewModule()

	l := &Lowerer{
		cfg:         cfg,
		ll:          llmod,
		sigCache:    make(map[Target]*types.FuncType),
		typeDefs:    make(map[string]types.Type),
		globalScope: make(map[string]localIdent),
	}

	l.mod = &Module{
		LL:        llmod,
		Functions: make(map[Target]*ir.Func),
		Globals:   make(map[string]*ir.Global),
	}

	l.allocFn = llmod.NewFunc("sable_alloc", types.I8Ptr, ir.NewParam("size", types.I64))
	l.allocFn.Linkage = enum.LinkageExternal
	l.releaseFn = llmod.NewFunc("sable_release", types.Void, ir.NewParam("obj", types.I8Ptr))
	l.releaseFn.Linkage = enum.LinkageExternal

	return l
}

// Lower lowers a type-checked program into a module of IR functions.  The
// iteration over top-level declarations starts at startDecl so that
// incremental and interactive hosts can resume where the previous lowering
// run stopped.  Internal consistency failures abort the run.
func Lower(prog *ast.Program, startDecl int, cfg *Config) *Module {
	defer report.CatchErrors()

	return lowerProgram(prog, startDecl, cfg)
}

// lowerProgram is the driver proper, separated from Lower so the abort
// boundary stays at the public entry point.
func lowerProgram(prog *ast.Program, startDecl int, cfg *Config) *Module {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	report.InitReporter(logLevels[cfg.LogLevel])

	if startDecl < 0 || startDecl > len(prog.Decls) {
		report.ThrowICE("resumption offset %d outside declaration list of length %d", startDecl, len(prog.Decls))
	}

	l := newLowerer(cfg)

	// Only executable and interactive programs have top-level code; a library
	// has nowhere to run it.
	if prog.Kind != ast.KindLibrary {
		f := l.ll.NewFunc("main", types.Void)
		f.Linkage = enum.LinkageExternal
		l.topLevel = newFuncEmitter(l, f, true, nil)
		l.topLevel.pushScope()
	}

	for _, decl := range prog.Decls[startDecl:] {
		l.visitDecl(decl)
	}

	// Integrate declarations imported from foreign program units.  Anything
	// that has not finished type-checking by now is a bug in the import
	// pipeline, not a user error.
	for _, fd := range prog.Foreign {
		switch fd.Stage {
		case ast.StageTypeChecked:
			l.visitDecl(fd.Decl)
		default:
			report.ThrowICE("foreign declaration reached lowering without completed type-checking")
		}
	}

	if l.topLevel != nil {
		l.topLevel.finalize()
		l.mod.TopLevel = l.topLevel.fn

		if cfg.Verify {
			if err := verify.Func(l.topLevel.fn); err != nil {
				report.ThrowICE("malformed top-level function: %s", err)
			}
		}
	}

	if cfg.Verify {
		if err := verify.Module(l.ll); err != nil {
			report.ThrowICE("malformed module: %s", err)
		}
	}

	return l.mod
}
