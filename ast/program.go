package ast

// Enumeration of program kinds.  The kind decides whether the program has
// top-level executable code.
const (
	KindLibrary = iota // No top-level code.
	KindExecutable
	KindInteractive
)

// Enumeration of the compilation stages a foreign declaration may have
// reached.  Only fully type-checked declarations may be lowered.
const (
	StageNameBound = iota
	StageTypeChecked
)

// ForeignDecl represents a declaration imported from another program unit
// together with the compilation stage it has reached.
type ForeignDecl struct {
	Decl  Decl
	Stage int
}

// Program represents a fully type-checked program: the input to IR
// generation.
type Program struct {
	// The program kind: one of the enumerated kinds above.
	Kind int

	// The ordered list of top-level declarations.
	Decls []Decl

	// Declarations imported from foreign program units.
	Foreign []ForeignDecl
}
