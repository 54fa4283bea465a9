// value.go defines the operand values instructions read and write (§3 "IR"). Constants are
// interned per Program so that two lowerings of the same literal share one Value by identity,
// matching "Constants are interned per-program (identity equality)".

package ir

import "cruxc/src/ast"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Value is an IR operand: a constant or a typed stack-slot temporary.
type Value interface {
	valueNode()
	ValueType() *ast.Type
}

// IntegerConstant is an interned i64 literal.
type IntegerConstant struct {
	Val int64
}

// BooleanConstant is an interned boolean literal.
type BooleanConstant struct {
	Val bool
}

// LocalVar is a value temporary: an 8-byte typed stack slot holding a value (as opposed to an
// address). ID is unique within the owning Function.
type LocalVar struct {
	ID   int
	Type *ast.Type
}

// AddressVar is a temporary holding a computed pointer to a global or array element. The code
// generator treats it identically to a LocalVar (both are 8-byte stack slots); Type records what
// it points to, used only to verify operand shapes (§4.4, "Address vs value temps").
type AddressVar struct {
	ID   int
	Type *ast.Type
}

// ---------------------
// ----- functions -----
// ---------------------

func (*IntegerConstant) valueNode() {}
func (*BooleanConstant) valueNode() {}
func (*LocalVar) valueNode()        {}
func (*AddressVar) valueNode()      {}

func (*IntegerConstant) ValueType() *ast.Type { return ast.Int }
func (*BooleanConstant) ValueType() *ast.Type { return ast.Bool }
func (v *LocalVar) ValueType() *ast.Type      { return v.Type }
func (v *AddressVar) ValueType() *ast.Type    { return v.Type }
