package ast

// Stmt represents a statement inside a function body.
type Stmt interface {
	ASTNode

	stmtNode()
}

// StmtBase is the base struct for all statements.
type StmtBase struct {
	ASTBase
}

func (StmtBase) stmtNode() {}

// -----------------------------------------------------------------------------

// Block represents a braced sequence of statements with its own lexical scope.
type Block struct {
	StmtBase

	Stmts []Stmt
}

// Assign represents a simple assignment to a mutable variable.
type Assign struct {
	StmtBase

	// The variable being assigned to.
	LHS *Identifier

	// The value being assigned.
	RHS Expr
}

// ReturnStmt represents a return statement.  Value is nil when the enclosing
// function returns unit.
type ReturnStmt struct {
	StmtBase

	Value Expr
}

// IfStmt represents an if statement with an optional else branch.  The else
// branch is either a *Block or another *IfStmt.
type IfStmt struct {
	StmtBase

	Cond Expr
	Then *Block
	Else Stmt
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	StmtBase

	Cond Expr
	Body *Block
}

// ExprStmt represents an expression evaluated for its side effects.
type ExprStmt struct {
	StmtBase

	Expr Expr
}
