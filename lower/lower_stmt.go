package lower

import (
	"sable/ast"
	"sable/report"
	"sable/typing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// lowerBlock lowers a braced block in its own lexical scope.  Statements
// after the path has been closed are dead code and are dropped.
func (fe *FuncEmitter) lowerBlock(b *ast.Block) {
	fe.pushScope()
	defer fe.popScope()

	for _, stmt := range b.Stmts {
		if !fe.HasValidCursor() {
			break
		}

		fe.lowerStmt(stmt)
	}
}

func (fe *FuncEmitter) lowerStmt(stmt ast.Stmt) {
	switch v := stmt.(type) {
	case *ast.Block:
		fe.lowerBlock(v)
	case *ast.VarDecl:
		fe.lowerVarDecl(v)
	case *ast.Assign:
		fe.lowerAssign(v)
	case *ast.ReturnStmt:
		fe.lowerReturn(v)
	case *ast.IfStmt:
		fe.lowerIf(v)
	case *ast.WhileStmt:
		fe.lowerWhile(v)
	case *ast.ExprStmt:
		fe.lowerExpr(v.Expr)
	default:
		report.ThrowICE("statement of type %T cannot be lowered", stmt)
	}
}

// lowerVarDecl lowers a local variable declaration.  Mutable variables get a
// stack slot in the entry block; immutable variables bind their initializer
// value directly.  Reference-typed locals register a release cleanup for
// scope exit.
func (fe *FuncEmitter) lowerVarDecl(vd *ast.VarDecl) {
	contentType := fe.l.convType(vd.Type)

	var initVal value.Value
	if vd.Initializer != nil {
		initVal = fe.lowerExpr(vd.Initializer)
	} else {
		initVal = zeroValue(contentType)
	}

	for _, name := range vd.Names {
		if vd.Mutable {
			// The alloca always lands in the entry block to keep it out of
			// loop bodies.
			slot := fe.fn.Blocks[0].NewAlloca(contentType)
			fe.cursor().NewStore(initVal, slot)
			fe.defineLocal(name, slot, true)

			if typing.HasReferenceSemantics(vd.Type) {
				fe.cleanups.Push(releaseCleanup{slot: slot})
			}
		} else {
			fe.defineLocal(name, initVal, false)

			if typing.HasReferenceSemantics(vd.Type) {
				fe.cleanups.Push(releaseCleanup{val: initVal})
			}
		}
	}
}

// lowerAssign lowers an assignment to a mutable variable.
func (fe *FuncEmitter) lowerAssign(as *ast.Assign) {
	ident := fe.lookup(as.LHS.Name)
	if !ident.mutable {
		report.ThrowICE("assignment to immutable name `%s` reached IR generation", as.LHS.Name)
	}

	rhs := fe.lowerExpr(as.RHS)
	fe.cursor().NewStore(rhs, ident.val)
}

// lowerReturn lowers an explicit return statement through the epilog
// protocol.
func (fe *FuncEmitter) lowerReturn(rs *ast.ReturnStmt) {
	if rs.Value == nil {
		fe.emitReturn(nil)
		return
	}

	fe.emitReturn(fe.lowerExpr(rs.Value))
}

// lowerIf lowers an if statement.  The merge block is created lazily so that
// an if whose branches all close their paths leaves no dangling unterminated
// block behind.
func (fe *FuncEmitter) lowerIf(stmt *ast.IfStmt) {
	var merge *ir.Block
	ensureMerge := func() *ir.Block {
		if merge == nil {
			merge = fe.appendBlock()
		}

		return merge
	}

	cond := fe.lowerExpr(stmt.Cond)
	thenBlock := fe.appendBlock()

	var elseBlock *ir.Block
	if stmt.Else != nil {
		elseBlock = fe.appendBlock()
		fe.cursor().NewCondBr(cond, thenBlock, elseBlock)
	} else {
		fe.cursor().NewCondBr(cond, thenBlock, ensureMerge())
	}

	fe.block = thenBlock
	fe.lowerBlock(stmt.Then)
	if fe.HasValidCursor() {
		fe.cursor().NewBr(ensureMerge())
	}

	if stmt.Else != nil {
		fe.block = elseBlock
		fe.lowerStmt(stmt.Else)
		if fe.HasValidCursor() {
			fe.cursor().NewBr(ensureMerge())
		}
	}

	// Position the cursor at the merge point, or close the path when no
	// branch can reach one.
	fe.block = merge
}

// lowerWhile lowers a while loop: a header block re-evaluating the condition,
// the body looping back to the header, and an exit block.
func (fe *FuncEmitter) lowerWhile(stmt *ast.WhileStmt) {
	header := fe.appendBlock()
	fe.cursor().NewBr(header)

	fe.block = header
	cond := fe.lowerExpr(stmt.Cond)

	body := fe.appendBlock()
	exit := fe.appendBlock()
	fe.cursor().NewCondBr(cond, body, exit)

	fe.block = body
	fe.lowerBlock(stmt.Body)
	if fe.HasValidCursor() {
		fe.cursor().NewBr(header)
	}

	fe.block = exit
}
