package lower

import (
	"sable/ast"
	"sable/report"
	"sable/typing"
	"sable/util"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// lowerExpr lowers an expression and yields its value, or nil for unit-typed
// expressions.
func (fe *FuncEmitter) lowerExpr(expr ast.Expr) value.Value {
	switch v := expr.(type) {
	case *ast.Literal:
		return fe.lowerLiteral(v)
	case *ast.Identifier:
		return fe.lowerIdentifier(v)
	case *ast.Call:
		fn := fe.lowerExpr(v.Fn)
		args := util.Map(v.Args, fe.lowerExpr)

		call := fe.cursor().NewCall(fn, args...)
		if typing.IsUnit(v.Type()) {
			return nil
		}

		return call
	case *ast.BinaryOp:
		return fe.lowerBinaryOp(v)
	case *ast.NewExpr:
		return fe.lowerNewExpr(v)
	case *ast.ClosureExpr:
		return fe.l.emitClosure(v)
	default:
		report.ThrowICE("expression of type %T cannot be lowered", expr)
		return nil
	}
}

func (fe *FuncEmitter) lowerLiteral(lit *ast.Literal) value.Value {
	switch lit.Kind {
	case ast.LitInt:
		return constant.NewInt(fe.l.convType(lit.Type()).(*types.IntType), lit.IntValue)
	case ast.LitFloat:
		return constant.NewFloat(fe.l.convType(lit.Type()).(*types.FloatType), lit.FloatValue)
	case ast.LitBool:
		return constant.NewBool(lit.BoolValue)
	default:
		// LitUnit
		return nil
	}
}

func (fe *FuncEmitter) lowerIdentifier(id *ast.Identifier) value.Value {
	ident := fe.lookup(id.Name)

	// Mutable names hold addresses and must be loaded to be used as values.
	if ident.mutable {
		return fe.cursor().NewLoad(fe.l.convType(id.Type()), ident.val)
	}

	return ident.val
}

func (fe *FuncEmitter) lowerBinaryOp(bop *ast.BinaryOp) value.Value {
	lhs := fe.lowerExpr(bop.LHS)
	rhs := fe.lowerExpr(bop.RHS)

	_, isFloat := lhs.Type().(*types.FloatType)

	block := fe.cursor()
	switch bop.Op {
	case ast.OpAdd:
		if isFloat {
			return block.NewFAdd(lhs, rhs)
		}
		return block.NewAdd(lhs, rhs)
	case ast.OpSub:
		if isFloat {
			return block.NewFSub(lhs, rhs)
		}
		return block.NewSub(lhs, rhs)
	case ast.OpMul:
		if isFloat {
			return block.NewFMul(lhs, rhs)
		}
		return block.NewMul(lhs, rhs)
	case ast.OpDiv:
		if isFloat {
			return block.NewFDiv(lhs, rhs)
		}
		return block.NewSDiv(lhs, rhs)
	case ast.OpLess:
		if isFloat {
			return block.NewFCmp(enum.FPredOLT, lhs, rhs)
		}
		return block.NewICmp(enum.IPredSLT, lhs, rhs)
	case ast.OpGreater:
		if isFloat {
			return block.NewFCmp(enum.FPredOGT, lhs, rhs)
		}
		return block.NewICmp(enum.IPredSGT, lhs, rhs)
	case ast.OpEq:
		if isFloat {
			return block.NewFCmp(enum.FPredOEQ, lhs, rhs)
		}
		return block.NewICmp(enum.IPredEQ, lhs, rhs)
	default:
		report.ThrowICE("binary operator %d cannot be lowered", bop.Op)
		return nil
	}
}

// lowerNewExpr lowers a constructor application to a call of the constructor
// function: the allocating entry point for class types, the single
// constructor function for value types.  The resolver orders declarations so
// that constructors are lowered before their first use.
func (fe *FuncEmitter) lowerNewExpr(ne *ast.NewExpr) value.Value {
	key := Target{Node: ne.Ctor, Kind: KindFunction}
	if typing.HasReferenceSemantics(ne.Ctor.DefinedType) {
		key.Kind = KindAllocator
	}

	ctorFn, ok := fe.l.mod.Lookup(key)
	if !ok {
		report.ThrowICE("constructor of %s used before being lowered", ne.Ctor.DefinedType.Repr())
	}

	args := util.Map(ne.Args, fe.lowerExpr)
	return fe.cursor().NewCall(ctorFn, args...)
}
