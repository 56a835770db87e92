package ast

import "sable/typing"

// Expr represents an expression.  All expression nodes implement Expr.
type Expr interface {
	ASTNode

	// Type is the yielded type of the expression.
	Type() typing.DataType
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	ASTBase

	typ typing.DataType
}

// NewExprBase creates a new expression base with the given resolved type.
func NewExprBase(typ typing.DataType) ExprBase {
	return ExprBase{typ: typ}
}

func (eb *ExprBase) Type() typing.DataType {
	return eb.typ
}

// -----------------------------------------------------------------------------

// Enumeration of literal kinds.
const (
	LitInt = iota
	LitFloat
	LitBool
	LitUnit
)

// Literal represents a literal value.
type Literal struct {
	ExprBase

	// The literal kind: one of the enumerated kinds above.
	Kind int

	IntValue   int64
	FloatValue float64
	BoolValue  bool
}

// Identifier represents a resolved reference to a named value.
type Identifier struct {
	ExprBase

	Name string
}

// Call represents a function call.
type Call struct {
	ExprBase

	Fn   Expr
	Args []Expr
}

// BinaryOp represents an application of a binary operator.
type BinaryOp struct {
	ExprBase

	// The operator kind: one of the enumerated operators below.
	Op int

	LHS, RHS Expr
}

// Enumeration of binary operators surviving to IR generation.
const (
	OpAdd = iota
	OpSub
	OpMul
	OpDiv
	OpLess
	OpGreater
	OpEq
)

// NewExpr represents a constructor application: `new T(args...)`.  The
// constructor reference is resolved by the type checker.
type NewExpr struct {
	ExprBase

	Ctor *ConstructorDecl
	Args []Expr
}

// ClosureExpr represents a closure literal.  Its body is lowered as a distinct
// IR function; the expression itself yields a reference to that function.
type ClosureExpr struct {
	ExprBase

	Signature *typing.FuncType
	Params    []FuncParam
	Body      *Block
}
