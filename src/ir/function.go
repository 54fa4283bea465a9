// function.go defines the per-function lowering result: its entry instruction, its parameters in
// call order, and the local/address temporaries it allocated while lowering.

package ir

import "cruxc/src/ast"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Function is one lowered function: a CFG rooted at Entry plus the bookkeeping the code generator
// needs to assign stack slots (§4.4, "one 8-byte slot per Local/AddressVar id").
type Function struct {
	Sym    *ast.Symbol
	Params []*LocalVar
	Entry  Instr
	Locals []*LocalVar
	Addrs  []*AddressVar

	nextID int
}

// ---------------------
// ----- functions -----
// ---------------------

// newLocal allocates a fresh value temporary of type t, unique within f.
func (f *Function) newLocal(t *ast.Type) *LocalVar {
	v := &LocalVar{ID: f.nextID, Type: t}
	f.nextID++
	f.Locals = append(f.Locals, v)
	return v
}

// newAddr allocates a fresh address temporary pointing at a value of type t.
func (f *Function) newAddr(t *ast.Type) *AddressVar {
	v := &AddressVar{ID: f.nextID, Type: t}
	f.nextID++
	f.Addrs = append(f.Addrs, v)
	return v
}
