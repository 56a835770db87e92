package lower

import (
	"sable/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Cleanup is a scope-exit action registered while lowering a function body.
// Cleanups run in strict reverse order of registration on every path leaving
// their scope: normal scope exit, explicit returns and the implicit return
// synthesized for fallthrough.
type Cleanup interface {
	// Emit emits the cleanup's code at the emitter's current cursor.
	Emit(fe *FuncEmitter)
}

// CleanupStack is the per-function stack of pending cleanups.  It is owned
// exclusively by one FuncEmitter session and discarded with it.
type CleanupStack struct {
	entries []Cleanup
}

// Push registers a cleanup to run when control leaves the current scope.
func (cs *CleanupStack) Push(c Cleanup) {
	cs.entries = append(cs.entries, c)
}

// Depth returns the number of pending cleanups.  Scopes record the depth on
// entry so they can pop exactly their own cleanups on exit.
func (cs *CleanupStack) Depth() int {
	return len(cs.entries)
}

// Pop removes the most recently pushed cleanup as its scope ends normally,
// emitting its code first if the current path is still live.
func (cs *CleanupStack) Pop(fe *FuncEmitter) {
	if len(cs.entries) == 0 {
		report.ThrowICE("cleanup stack popped while empty in %s", fe.fn.Name())
	}

	top := cs.entries[len(cs.entries)-1]
	if fe.HasValidCursor() {
		top.Emit(fe)
	}

	cs.entries = cs.entries[:len(cs.entries)-1]
}

// emitAll emits every pending cleanup in reverse registration order without
// popping any of them: the entries remain registered for the other control
// paths that have not yet left their scopes.
func (cs *CleanupStack) emitAll(fe *FuncEmitter) {
	for i := len(cs.entries) - 1; i >= 0; i-- {
		cs.entries[i].Emit(fe)
	}
}

// ReturnAndCleanups emits every pending cleanup in reverse registration order
// and then terminates the current block with a return of the given value (nil
// for a void return).  The cursor must be valid; calling this with a closed
// cursor is a logic error in the caller.
func (cs *CleanupStack) ReturnAndCleanups(fe *FuncEmitter, v value.Value) {
	if !fe.HasValidCursor() {
		report.ThrowICE("return emitted with invalid insertion cursor in %s", fe.fn.Name())
	}

	cs.emitAll(fe)

	fe.block.NewRet(v)
	fe.block = nil
}

// -----------------------------------------------------------------------------

// releaseCleanup releases a reference-typed local when its scope exits.
type releaseCleanup struct {
	// The reference value for immutable locals; unset for mutable locals.
	val value.Value

	// The alloca holding the reference for mutable locals; nil for immutable
	// locals whose val is the reference itself.
	slot *ir.InstAlloca
}

func (rc releaseCleanup) Emit(fe *FuncEmitter) {
	obj := rc.val
	if rc.slot != nil {
		obj = fe.cursor().NewLoad(rc.slot.ElemType, rc.slot)
	}

	raw := fe.cursor().NewBitCast(obj, types.I8Ptr)
	fe.cursor().NewCall(fe.l.releaseFn, raw)
}
