// slots.go assigns each function's temporaries a stack slot (§4.4, "Stack slot assignment").
// Function records every LocalVar/AddressVar it allocates, in allocation order, so walking Locals
// then Addrs and numbering each one in turn yields an injective slot assignment without a second
// pass over the linearised instruction stream, however many times each temporary is written.

package x86

import (
	"fmt"

	"cruxc/src/ir"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// frame tracks one function's stack slot assignment.
type frame struct {
	slots map[ir.Value]int
	count int
}

// ---------------------
// ----- functions -----
// ---------------------

func newFrame(fn *ir.Function) *frame {
	f := &frame{slots: map[ir.Value]int{}}
	for _, lv := range fn.Locals {
		f.count++
		f.slots[lv] = f.count
	}
	for _, av := range fn.Addrs {
		f.count++
		f.slots[av] = f.count
	}
	return f
}

// frameBytes returns the enter-instruction frame size: 8 bytes per slot, rounded up to a 16-byte
// boundary.
func (f *frame) frameBytes() int {
	n := f.count
	if n%2 != 0 {
		n++
	}
	return 8 * n
}

// ref renders the home of a LocalVar or AddressVar as an %rbp-relative operand.
func (f *frame) ref(v ir.Value) string {
	return fmt.Sprintf("-%d(%%rbp)", 8*f.slots[v])
}

// operand renders any Value — constant or stack slot — as an assembly source operand.
func (f *frame) operand(v ir.Value) string {
	switch t := v.(type) {
	case *ir.IntegerConstant:
		return fmt.Sprintf("$%d", t.Val)
	case *ir.BooleanConstant:
		if t.Val {
			return "$1"
		}
		return "$0"
	default:
		return f.ref(v)
	}
}

// isConst reports whether v is a literal rather than a stack slot.
func isConst(v ir.Value) bool {
	switch v.(type) {
	case *ir.IntegerConstant, *ir.BooleanConstant:
		return true
	default:
		return false
	}
}
