package ast

import "sable/typing"

// Decl represents a top level declaration.  The concrete variants are
// FuncDecl, TypeDecl, ConstructorDecl, DestructorDecl and VarDecl; IR
// generation dispatches over them with a single type switch.
type Decl interface {
	ASTNode

	declNode()
}

// DeclBase is the base struct for all declarations.
type DeclBase struct {
	ASTBase
}

func (DeclBase) declNode() {}

// -----------------------------------------------------------------------------

// FuncParam represents a single named function parameter.
type FuncParam struct {
	Name string
	Type typing.DataType
}

// FuncDecl represents a function declaration.  A declaration with a nil body
// is a prototype: it produces no IR function.
type FuncDecl struct {
	DeclBase

	Name      string
	Signature *typing.FuncType
	Params    []FuncParam
	Body      *Block
}

// -----------------------------------------------------------------------------

// TypeDecl represents a named type declaration together with its constructors
// and optional destructor.  Whether the defined type has reference semantics
// determines how its constructors are lowered.
type TypeDecl struct {
	DeclBase

	Name string

	// The type being defined: a *typing.ClassType or *typing.StructType.
	DefinedType typing.DataType

	Ctors []*ConstructorDecl

	// The destructor declaration.  May be nil: classes without an explicit
	// destructor still get a synthesized one during lowering.
	Dtor *DestructorDecl
}

// ConstructorDecl represents a single constructor of a type declaration.  A
// constructor with a nil body is a prototype and produces no IR function.
type ConstructorDecl struct {
	DeclBase

	// The type this constructor builds.
	DefinedType typing.DataType

	Params []FuncParam
	Body   *Block
}

// DestructorDecl represents the destructor of a class declaration.
type DestructorDecl struct {
	DeclBase

	// The class type this destructor tears down.
	DefinedType typing.DataType

	Body *Block
}

// -----------------------------------------------------------------------------

// VarDecl represents a variable declaration binding one or more names to an
// optional initializer.  It occurs both at top level (a pattern binding whose
// initializer runs in top-level code) and as a local statement.
type VarDecl struct {
	DeclBase

	Names   []string
	Type    typing.DataType
	Mutable bool

	// The initializer expression.  May be nil for locals, in which case the
	// variables are zero-initialized.
	Initializer Expr
}

func (*VarDecl) stmtNode() {}
