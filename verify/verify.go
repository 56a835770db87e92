// Package verify checks the structural well-formedness of generated IR:
// every basic block of every defined function must end in exactly one
// terminator whose branch targets stay inside the function, returns must
// agree with the function signature, and symbol names must be unique within
// the module.  Verification failures indicate bugs in IR generation, never
// in user input.
package verify

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Func checks the well-formedness of a single function.  Declarations (no
// blocks) are trivially well-formed.
func Func(f *ir.Func) error {
	if len(f.Params) != len(f.Sig.Params) {
		return fmt.Errorf("function %q has %d parameters but its signature declares %d",
			f.Name(), len(f.Params), len(f.Sig.Params))
	}

	if len(f.Blocks) == 0 {
		return nil
	}

	blocks := make(map[*ir.Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		blocks[b] = true
	}

	for _, b := range f.Blocks {
		if b.Term == nil {
			return fmt.Errorf("block %q of %q has no terminator", b.Name(), f.Name())
		}

		switch term := b.Term.(type) {
		case *ir.TermRet:
			void := f.Sig.RetType.Equal(types.Void)
			if void && term.X != nil {
				return fmt.Errorf("block %q of void function %q returns a value", b.Name(), f.Name())
			}
			if !void && term.X == nil {
				return fmt.Errorf("block %q of %q returns void but the signature declares %s",
					b.Name(), f.Name(), f.Sig.RetType)
			}
		case *ir.TermUnreachable:
		case *ir.TermBr:
			if err := checkTarget(f, b, blocks, term.Target); err != nil {
				return err
			}
		case *ir.TermCondBr:
			if err := checkTarget(f, b, blocks, term.TargetTrue); err != nil {
				return err
			}
			if err := checkTarget(f, b, blocks, term.TargetFalse); err != nil {
				return err
			}
		default:
			return fmt.Errorf("block %q of %q ends in unsupported terminator %T", b.Name(), f.Name(), term)
		}
	}

	return nil
}

// Module checks the well-formedness of every defined function in a module,
// and that no two functions share a symbol name.
func Module(m *ir.Module) error {
	names := make(map[string]bool, len(m.Funcs))
	for _, f := range m.Funcs {
		if names[f.Name()] {
			return fmt.Errorf("duplicate symbol %q in module", f.Name())
		}
		names[f.Name()] = true

		if err := Func(f); err != nil {
			return err
		}
	}

	return nil
}

func checkTarget(f *ir.Func, b *ir.Block, blocks map[*ir.Block]bool, target value.Value) error {
	tb, ok := target.(*ir.Block)
	if !ok {
		return fmt.Errorf("block %q of %q branches to a non-block value", b.Name(), f.Name())
	}

	if !blocks[tb] {
		return fmt.Errorf("block %q of %q branches outside the function", b.Name(), f.Name())
	}

	return nil
}
