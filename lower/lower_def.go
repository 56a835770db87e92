package lower

import (
	"fmt"
	"strings"

	"sable/ast"
	"sable/report"
	"sable/typing"
	"sable/util"
	"sable/verify"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// visitDecl dispatches a declaration to the emission specialization for its
// kind.
func (l *Lowerer) visitDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		l.emitFunction(d)
	case *ast.TypeDecl:
		l.emitTypeDecl(d)
	case *ast.ConstructorDecl:
		l.emitConstructor(d)
	case *ast.DestructorDecl:
		// Destructors are emitted with their type declaration; a free-floating
		// destructor has no class to tear down.
		report.ThrowICE("destructor declaration outside a type declaration")
	case *ast.VarDecl:
		l.visitPatternBinding(d)
	default:
		report.ThrowICE("declaration of type %T cannot be lowered", decl)
	}
}

// -----------------------------------------------------------------------------

// spanned is the capability preEmit needs from a node: a diagnostic location.
type spanned interface {
	Span() *report.TextSpan
}

// preEmit allocates the function shell for a target: it guards against
// duplicate emission, fetches the physical signature and creates the empty
// function in the module.  It is bracketed with postEmit around every body
// emission, and the bracket for one target never interleaves with that of
// another target sharing the same declaration.
func preEmit[D spanned](l *Lowerer, key Target, node D) *ir.Func {
	if _, ok := l.mod.Functions[key]; ok {
		report.ThrowICE("function already emitted for target %s", key)
	}

	sig := l.signature(key)
	name := l.mangle(key)

	if span := node.Span(); span != nil {
		report.Trace("lowering %s : %s at %d:%d", name, sig.String(), span.StartLine+1, span.StartCol+1)
	} else {
		report.Trace("lowering %s : %s", name, sig.String())
	}

	f := l.ll.NewFunc(name, sig.RetType, l.paramsFor(key)...)
	f.Linkage = enum.LinkageExternal
	return f
}

// postEmit records a finished function into the module table and checks its
// well-formedness.
func (l *Lowerer) postEmit(key Target, f *ir.Func) {
	l.mod.Functions[key] = f

	if l.cfg.Verify {
		if err := verify.Func(f); err != nil {
			report.ThrowICE("malformed function %s: %s", f.Name(), err)
		}
	}
}

// mangle returns the physical symbol name for a target.
func (l *Lowerer) mangle(key Target) string {
	switch key.Kind {
	case KindFunction:
		switch n := key.Node.(type) {
		case *ast.FuncDecl:
			return n.Name
		case *ast.ConstructorDecl:
			return mangleCtor(n, "init")
		}
	case KindAllocator:
		return mangleCtor(key.Node.(*ast.ConstructorDecl), "__allocating_init")
	case KindInitializer:
		return mangleCtor(key.Node.(*ast.ConstructorDecl), "__init")
	case KindDestructor:
		return key.Node.(*ast.TypeDecl).Name + ".__deinit"
	case KindClosure:
		l.closureCounter++
		return fmt.Sprintf("closure%d", l.closureCounter)
	}

	return "main"
}

// mangleCtor builds a constructor symbol name.  The parameter types are part
// of the name so that overloaded constructors of one type get distinct
// symbols.
func mangleCtor(d *ast.ConstructorDecl, entry string) string {
	name := d.DefinedType.Repr() + "." + entry

	if len(d.Params) == 0 {
		return name
	}

	reprs := util.Map(d.Params, func(p ast.FuncParam) string { return p.Type.Repr() })
	return name + "." + strings.Join(reprs, ".")
}

// -----------------------------------------------------------------------------

// emitFunction emits the IR function for an ordinary function declaration.
// Prototypes produce nothing.
func (l *Lowerer) emitFunction(d *ast.FuncDecl) {
	if d.Body == nil {
		return
	}

	key := Target{Node: d, Kind: KindFunction}
	f := preEmit(l, key, d)

	// The function is visible to the bodies that follow, including its own.
	l.globalScope[d.Name] = localIdent{val: f, mutable: false}

	fe := newFuncEmitter(l, f, typing.IsUnit(d.Signature.ReturnType), d.Span())
	fe.emitFunction(d)

	l.postEmit(key, f)
}

func (fe *FuncEmitter) emitFunction(d *ast.FuncDecl) {
	defer fe.finalize()

	fe.pushScope()
	defer fe.popScope()

	for i, p := range d.Params {
		fe.defineLocal(p.Name, fe.fn.Params[i], false)
	}

	fe.lowerBlock(d.Body)
}

// -----------------------------------------------------------------------------

// emitTypeDecl emits every physical function a type declaration produces: its
// constructors and, for class types, its destructor.
func (l *Lowerer) emitTypeDecl(d *ast.TypeDecl) {
	for _, ctor := range d.Ctors {
		l.emitConstructor(ctor)
	}

	if typing.HasReferenceSemantics(d.DefinedType) {
		l.emitDestructor(d)
	}
}

// emitConstructor emits the function(s) for a constructor declaration.  Class
// constructors have separate entry points for allocation and initialization
// under two distinct targets; value type constructors do everything in a
// single function.  Prototypes produce nothing.
func (l *Lowerer) emitConstructor(d *ast.ConstructorDecl) {
	if d.Body == nil {
		return
	}

	if typing.HasReferenceSemantics(d.DefinedType) {
		// The allocating entry point calls the initializer, so the
		// initializer is emitted first; the two brackets stay disjoint.
		initKey := Target{Node: d, Kind: KindInitializer}
		initF := preEmit(l, initKey, d)
		newFuncEmitter(l, initF, true, d.Span()).emitClassConstructorInitializer(d)
		l.postEmit(initKey, initF)

		key := Target{Node: d, Kind: KindAllocator}
		f := preEmit(l, key, d)
		newFuncEmitter(l, f, true, d.Span()).emitClassConstructorAllocator(d, initF)
		l.postEmit(key, f)
	} else {
		key := Target{Node: d, Kind: KindFunction}
		f := preEmit(l, key, d)
		newFuncEmitter(l, f, true, d.Span()).emitValueConstructor(d)
		l.postEmit(key, f)
	}
}

// emitClassConstructorAllocator builds the allocating entry point of a class
// constructor: allocate storage for the instance, then delegate to the
// initializing entry point and return the initialized instance.
func (fe *FuncEmitter) emitClassConstructorAllocator(d *ast.ConstructorDecl, initF *ir.Func) {
	defer fe.finalize()

	classPtr := fe.l.convType(d.DefinedType).(*types.PointerType)

	// sizeof via the usual GEP-on-null constant trick.
	null := constant.NewNull(classPtr)
	one := constant.NewInt(types.I32, 1)
	size := constant.NewPtrToInt(constant.NewGetElementPtr(classPtr.ElemType, null, one), types.I64)

	raw := fe.cursor().NewCall(fe.l.allocFn, size)
	instance := fe.cursor().NewBitCast(raw, classPtr)

	args := []value.Value{instance}
	for _, p := range fe.fn.Params {
		args = append(args, p)
	}

	initialized := fe.cursor().NewCall(initF, args...)
	fe.cleanups.ReturnAndCleanups(fe, initialized)
}

// emitClassConstructorInitializer builds the initializing entry point of a
// class constructor: run the constructor body against the implicit `this`
// parameter and return the instance.  Bare returns in the body, like the
// fallthrough, return the instance.
func (fe *FuncEmitter) emitClassConstructorInitializer(d *ast.ConstructorDecl) {
	defer fe.finalize()

	fe.pushScope()
	defer fe.popScope()

	this := fe.fn.Params[0]
	fe.defineLocal("this", this, false)
	fe.result = func() value.Value { return this }

	for i, p := range d.Params {
		fe.defineLocal(p.Name, fe.fn.Params[i+1], false)
	}

	fe.lowerBlock(d.Body)
}

// emitValueConstructor builds the single constructor function of a value
// type: construct the value in a local slot, run the body and return the
// finished value.
func (fe *FuncEmitter) emitValueConstructor(d *ast.ConstructorDecl) {
	defer fe.finalize()

	fe.pushScope()
	defer fe.popScope()

	structType := fe.l.convType(d.DefinedType)
	slot := fe.cursor().NewAlloca(structType)
	fe.cursor().NewStore(constant.NewZeroInitializer(structType), slot)
	fe.defineLocal("this", slot, true)

	// Every exit path returns the value as constructed so far, loaded at the
	// exit site before the path's cleanups run.
	fe.result = func() value.Value { return fe.cursor().NewLoad(structType, slot) }

	for i, p := range d.Params {
		fe.defineLocal(p.Name, fe.fn.Params[i], false)
	}

	fe.lowerBlock(d.Body)
}

// emitDestructor emits the destructor function of a class declaration.  The
// runtime teardown protocol requires every class to have one, so a class
// without an explicit destructor still gets an emitted function; its body is
// left empty and finalization supplies the return.
func (l *Lowerer) emitDestructor(d *ast.TypeDecl) {
	key := Target{Node: d, Kind: KindDestructor}
	f := preEmit(l, key, d)

	fe := newFuncEmitter(l, f, true, d.Span())
	fe.emitDestructorBody(d.Dtor)

	l.postEmit(key, f)
}

func (fe *FuncEmitter) emitDestructorBody(dd *ast.DestructorDecl) {
	defer fe.finalize()

	if dd == nil {
		return
	}

	fe.pushScope()
	defer fe.popScope()

	fe.defineLocal("this", fe.fn.Params[0], false)
	fe.lowerBlock(dd.Body)
}

// -----------------------------------------------------------------------------

// emitClosure emits the IR function for a closure literal encountered while
// lowering an enclosing body, and returns it for use as a value.  Closures
// are non-void unless their result type was inferred to be the empty type.
func (l *Lowerer) emitClosure(ce *ast.ClosureExpr) *ir.Func {
	key := Target{Node: ce, Kind: KindClosure}
	f := preEmit(l, key, ce)

	fe := newFuncEmitter(l, f, typing.IsUnit(ce.Signature.ReturnType), ce.Span())
	fe.emitClosureBody(ce)

	l.postEmit(key, f)
	return f
}

func (fe *FuncEmitter) emitClosureBody(ce *ast.ClosureExpr) {
	defer fe.finalize()

	fe.pushScope()
	defer fe.popScope()

	for i, p := range ce.Params {
		fe.defineLocal(p.Name, fe.fn.Params[i], false)
	}

	fe.lowerBlock(ce.Body)
}

// -----------------------------------------------------------------------------

// visitPatternBinding registers the globals of a top-level variable
// declaration and, when the program has top-level code whose path is still
// live, appends the initializer to it.  Initializers after a permanently
// diverged top-level statement are skipped; that is policy, not an error.
func (l *Lowerer) visitPatternBinding(d *ast.VarDecl) {
	contentType := l.convType(d.Type)

	globals := make([]*ir.Global, len(d.Names))
	for i, name := range d.Names {
		glob := l.ll.NewGlobal(name, contentType)
		glob.Init = zeroValue(contentType)
		globals[i] = glob

		l.mod.Globals[name] = glob
		l.globalScope[name] = localIdent{val: glob, mutable: true}
	}

	if l.topLevel == nil || !l.topLevel.HasValidCursor() || d.Initializer == nil {
		return
	}

	init := l.topLevel.lowerExpr(d.Initializer)
	if !l.topLevel.HasValidCursor() {
		return
	}

	for _, glob := range globals {
		l.topLevel.cursor().NewStore(init, glob)
	}
}

// zeroValue returns the zero constant for a physical type.
func zeroValue(t types.Type) constant.Constant {
	if pt, ok := t.(*types.PointerType); ok {
		return constant.NewNull(pt)
	}

	return constant.NewZeroInitializer(t)
}
