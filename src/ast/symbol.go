// symbol.go implements the symbol and scope model of §3: an ordered stack of scopes, the bottom
// one pre-populated with the six runtime built-ins, searched innermost-to-outermost on lookup.
//
// The teacher keeps its scope chain on a util.Stack of map[string]*Symbol pushed and popped by the
// validator (see validate.go in the teacher's ir package). SymTab here reuses that same
// util.Stack, generalized to the richer Symbol/Type model of this compiler.

package ast

import "cruxc/src/util"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Symbol is a declared name: its type and the source line of its declaration. Two identifier uses
// that resolve to the same declaration share the same *Symbol value.
type Symbol struct {
	Name string
	Type *Type
	Line int
}

// SymTab is a lexically scoped symbol table: an ordered stack of scopes, innermost on top.
type SymTab struct {
	scopes util.Stack
}

// ---------------------
// ----- Constants -----
// ---------------------

// errSymbol is the sentinel returned by Lookup on an unresolved name, so that callers can keep
// building the AST and let later passes keep collecting diagnostics instead of aborting eagerly.
var errSymbol = &Symbol{Name: "<error>", Type: &Type{Kind: KindError, Message: "undeclared identifier"}}

// ---------------------
// ----- functions -----
// ---------------------

// NewSymTab returns a symbol table whose bottom scope holds the six built-in I/O functions.
func NewSymTab() *SymTab {
	st := &SymTab{}
	st.scopes.Push(builtins())
	return st
}

func builtins() map[string]*Symbol {
	return map[string]*Symbol{
		"readInt":   {Name: "readInt", Type: NewFunc(nil, Int)},
		"readChar":  {Name: "readChar", Type: NewFunc(nil, Int)},
		"printBool": {Name: "printBool", Type: NewFunc([]*Type{Bool}, Void)},
		"printInt":  {Name: "printInt", Type: NewFunc([]*Type{Int}, Void)},
		"printChar": {Name: "printChar", Type: NewFunc([]*Type{Int}, Void)},
		"println":   {Name: "println", Type: NewFunc(nil, Void)},
	}
}

// Push opens a new, empty innermost scope.
func (st *SymTab) Push() {
	st.scopes.Push(map[string]*Symbol{})
}

// Pop closes the innermost scope.
func (st *SymTab) Pop() {
	st.scopes.Pop()
}

// Depth returns the number of scopes currently open, used to verify scope pop fidelity.
func (st *SymTab) Depth() int {
	return st.scopes.Size()
}

// Declare inserts sym into the innermost scope under sym.Name. It reports false if a symbol with
// that name already exists in the innermost scope (a declaration error; the caller decides how to
// report it and whether to keep the existing or new symbol).
func (st *SymTab) Declare(sym *Symbol) bool {
	scope := st.scopes.Peek().(map[string]*Symbol)
	if _, exists := scope[sym.Name]; exists {
		return false
	}
	scope[sym.Name] = sym
	return true
}

// Lookup searches scopes from innermost to outermost for name, returning its symbol and true, or
// the sentinel error symbol and false if no scope declares it.
func (st *SymTab) Lookup(name string) (*Symbol, bool) {
	for i := 1; i <= st.scopes.Size(); i++ {
		scope := st.scopes.Get(i).(map[string]*Symbol)
		if sym, ok := scope[name]; ok {
			return sym, true
		}
	}
	return errSymbol, false
}

// IsError reports whether sym is the sentinel error symbol substituted on a failed Lookup.
func IsError(sym *Symbol) bool {
	return sym == errSymbol
}
