package lower

import (
	"github.com/llir/llvm/ir"
)

// Module is the result of lowering one program: the LLVM module owning all
// generated IR plus the tables describing what was produced.  The module is
// the sole long-lived owner of every function and block for the remainder of
// compilation; lookups hand out non-owning handles.
type Module struct {
	// LL is the LLVM module all functions and globals are generated into.
	LL *ir.Module

	// Functions maps each lowering target to its finished IR function.
	Functions map[Target]*ir.Func

	// Globals is the table of registered global variable declarations by name.
	Globals map[string]*ir.Global

	// TopLevel is the function holding top-level code.  It is nil for library
	// programs.
	TopLevel *ir.Func
}

// Lookup returns the IR function lowered for the given target.
func (m *Module) Lookup(t Target) (*ir.Func, bool) {
	f, ok := m.Functions[t]
	return f, ok
}
