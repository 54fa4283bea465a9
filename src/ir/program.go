// program.go defines the lowered program: one Function per Crux function definition plus the
// declared globals, ready for the x86-64 backend.

package ir

import "cruxc/src/ast"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// GlobalDecl is a file-scope variable or array, carried into the backend so it can emit a .comm
// directive for each one.
type GlobalDecl struct {
	Sym *ast.Symbol
}

// Program is a whole lowered Crux compilation unit.
type Program struct {
	Globals []*GlobalDecl
	Funcs   []*Function

	ints  map[int64]*IntegerConstant
	bools [2]*BooleanConstant
}

// ---------------------
// ----- functions -----
// ---------------------

// intern returns the single IntegerConstant value for v within p, so that repeated occurrences of
// the same literal compare equal by identity.
func (p *Program) internInt(v int64) *IntegerConstant {
	if p.ints == nil {
		p.ints = map[int64]*IntegerConstant{}
	}
	if c, ok := p.ints[v]; ok {
		return c
	}
	c := &IntegerConstant{Val: v}
	p.ints[v] = c
	return c
}

// internBool returns the single BooleanConstant value for v within p.
func (p *Program) internBool(v bool) *BooleanConstant {
	idx := 0
	if v {
		idx = 1
	}
	if p.bools[idx] == nil {
		p.bools[idx] = &BooleanConstant{Val: v}
	}
	return p.bools[idx]
}
