package lower

import (
	"fmt"

	"sable/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// localIdent is a name bound in a local scope.  Mutable locals hold the
// address of their stack slot and must be loaded explicitly; immutable locals
// hold their value directly.
type localIdent struct {
	val     value.Value
	mutable bool
}

// localScope is one lexical scope of a function body.  It records the cleanup
// depth at entry so scope exit pops exactly the cleanups it registered.
type localScope struct {
	vars         map[string]localIdent
	cleanupDepth int
}

// FuncEmitter builds the body of exactly one IR function.  It owns the
// insertion cursor into the function's growing block graph and the cleanup
// stack for the function's scopes.  A FuncEmitter session exists only for the
// duration of lowering one target and is never reused.
type FuncEmitter struct {
	l *Lowerer

	// fn is the function shell being populated.
	fn *ir.Func

	// block is the insertion cursor: the currently open block new instructions
	// append to.  It is nil once the most recent path has closed its block
	// (after a return or unreachable), at which point no instruction may be
	// emitted until a new block is opened.
	block *ir.Block

	// cleanups is the stack of pending scope-exit actions.
	cleanups CleanupStack

	// epilog is the shared exit block created lazily by the first explicit
	// return.  All later returns branch to it rather than terminating
	// independently.
	epilog *ir.Block

	// retSlot holds the return value on the way into the epilog for non-void
	// functions.
	retSlot *ir.InstAlloca

	// voidReturn indicates bare returns in the body carry no operand: the
	// target's declared result is the canonical empty type, or the session
	// supplies the result itself.
	voidReturn bool

	// result produces the value every exit path returns for sessions whose
	// result is implicit rather than written by the body: constructors return
	// their instance even though their bodies use bare returns.  It is nil
	// for ordinary sessions.  The value is computed at each exit site before
	// that path's cleanups run.
	result func() value.Value

	// span is the source span of the node being lowered, used for
	// diagnostics.
	span *report.TextSpan

	// scopes is the stack of local scopes.
	scopes []*localScope

	finalized bool
}

// newFuncEmitter begins an emission session for the given function shell,
// opening its entry block.
func newFuncEmitter(l *Lowerer, fn *ir.Func, voidReturn bool, span *report.TextSpan) *FuncEmitter {
	fe := &FuncEmitter{
		l:          l,
		fn:         fn,
		voidReturn: voidReturn,
		span:       span,
	}

	fe.block = fn.NewBlock("entry")
	return fe
}

// HasValidCursor returns whether the current path is still open: instructions
// may only be appended while it is.
func (fe *FuncEmitter) HasValidCursor() bool {
	return fe.block != nil
}

// cursor returns the currently open block.  Requesting the cursor while it is
// invalid is an internal consistency failure: it means some visitor tried to
// emit code onto a path that has already been terminated.
func (fe *FuncEmitter) cursor() *ir.Block {
	if fe.block == nil {
		report.ThrowICE("instruction emitted with invalid insertion cursor in %s", fe.fn.Name())
	}

	return fe.block
}

// appendBlock adds a new basic block to the function.  It does *not* move the
// cursor to the new block.
func (fe *FuncEmitter) appendBlock() *ir.Block {
	return fe.fn.NewBlock(fmt.Sprintf("bb%d", len(fe.fn.Blocks)))
}

// -----------------------------------------------------------------------------

// emitReturn lowers an explicit return: the still-active cleanups run on this
// path, then control branches to the shared epilog block.  Cleanups are not
// popped: other paths that have not yet left their scopes still need them.
func (fe *FuncEmitter) emitReturn(v value.Value) {
	if !fe.HasValidCursor() {
		report.ThrowICE("return emitted with invalid insertion cursor in %s", fe.fn.Name())
	}

	if v == nil && fe.result != nil {
		v = fe.result()
	}

	fe.cleanups.emitAll(fe)
	fe.branchToEpilog(v)
}

// branchToEpilog routes the current path into the function's shared exit
// block, creating and terminating the epilog on first use.  Non-void returns
// pass their value through a slot in the entry block so that the epilog's
// single terminator serves every return site.
func (fe *FuncEmitter) branchToEpilog(v value.Value) {
	if fe.epilog == nil {
		fe.epilog = fe.fn.NewBlock("epilog")

		if v == nil {
			fe.epilog.NewRet(nil)
		} else {
			fe.retSlot = fe.fn.Blocks[0].NewAlloca(fe.fn.Sig.RetType)
			ret := fe.epilog.NewLoad(fe.fn.Sig.RetType, fe.retSlot)
			fe.epilog.NewRet(ret)
		}
	}

	if v != nil && fe.retSlot != nil {
		fe.block.NewStore(v, fe.retSlot)
	}

	fe.block.NewBr(fe.epilog)
	fe.block = nil
}

// finalize ends the emission session.  It handles falling off the end of the
// function: if the cursor is still valid once the body traversal completes, a
// void-declared target gets an implicit return of the empty value (or of the
// session's implicit result) preceded by every still-active cleanup, and any
// other target gets an unreachable marker since fabricating a result value
// would be unsound.  If every live path has already been closed, finalize
// does nothing further.
func (fe *FuncEmitter) finalize() {
	if fe.finalized {
		report.ThrowICE("duplicate finalize of %s", fe.fn.Name())
	}
	fe.finalized = true

	if !fe.HasValidCursor() {
		return
	}

	if fe.voidReturn {
		if fe.epilog != nil || fe.result != nil {
			// Earlier explicit returns already built the exit block, or the
			// session supplies an implicit result; either way the fallthrough
			// path goes through the epilog protocol.
			fe.emitReturn(nil)
			return
		}

		fe.cleanups.ReturnAndCleanups(fe, nil)
		return
	}

	if fe.l.cfg.WarnUnreachable {
		report.ReportWarning(fe.span, "control may fall off the end of %s without returning a value", fe.fn.Name())
	}

	fe.block.NewUnreachable()
	fe.block = nil
}

// -----------------------------------------------------------------------------

// pushScope pushes a new local scope onto the scope stack.
func (fe *FuncEmitter) pushScope() {
	fe.scopes = append(fe.scopes, &localScope{
		vars:         make(map[string]localIdent),
		cleanupDepth: fe.cleanups.Depth(),
	})
}

// popScope pops the current local scope, popping and emitting the cleanups it
// registered.  Cleanups emit only while the path is live; a scope left through
// a return emits nothing here since the return already ran them.
func (fe *FuncEmitter) popScope() {
	scope := fe.scopes[len(fe.scopes)-1]

	for fe.cleanups.Depth() > scope.cleanupDepth {
		fe.cleanups.Pop(fe)
	}

	fe.scopes = fe.scopes[:len(fe.scopes)-1]
}

// defineLocal defines a local variable in the current scope.
func (fe *FuncEmitter) defineLocal(name string, val value.Value, mutable bool) {
	fe.scopes[len(fe.scopes)-1].vars[name] = localIdent{val: val, mutable: mutable}
}

// lookup resolves a name against the local scopes innermost-first, falling
// back to the module's global scope.
func (fe *FuncEmitter) lookup(name string) localIdent {
	for i := len(fe.scopes) - 1; i >= 0; i-- {
		if ident, ok := fe.scopes[i].vars[name]; ok {
			return ident
		}
	}

	if ident, ok := fe.l.globalScope[name]; ok {
		return ident
	}

	report.ThrowICE("unresolved name `%s` reached IR generation in %s", name, fe.fn.Name())
	return localIdent{}
}
