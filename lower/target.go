package lower

import (
	"fmt"

	"sable/ast"
)

// TargetKind identifies which physical function of a declaration a Target
// refers to.  Most declarations lower to a single function, but class
// constructors lower to two: a separately dispatchable allocating entry point
// and an initializing entry point.
type TargetKind int

// Enumeration of target kinds.
const (
	KindFunction TargetKind = iota
	KindInitializer
	KindAllocator
	KindDestructor
	KindClosure
	KindTopLevel
)

func (tk TargetKind) String() string {
	switch tk {
	case KindFunction:
		return "func"
	case KindInitializer:
		return "initializer"
	case KindAllocator:
		return "allocator"
	case KindDestructor:
		return "destructor"
	case KindClosure:
		return "closure"
	default:
		// KindTopLevel
		return "toplevel"
	}
}

// Target identifies one distinct lowering target: a source node paired with an
// emission kind.  Targets are the keys of the module function table; at most
// one IR function is ever produced per target.
type Target struct {
	// The node being lowered.  This is a declaration for all kinds except
	// KindClosure, whose node is the closure expression itself.
	Node ast.ASTNode

	Kind TargetKind
}

func (t Target) String() string {
	switch n := t.Node.(type) {
	case *ast.FuncDecl:
		return fmt.Sprintf("%s %s", t.Kind, n.Name)
	case *ast.ConstructorDecl:
		return fmt.Sprintf("%s %s", t.Kind, n.DefinedType.Repr())
	case *ast.TypeDecl:
		return fmt.Sprintf("%s %s", t.Kind, n.Name)
	default:
		return t.Kind.String()
	}
}
