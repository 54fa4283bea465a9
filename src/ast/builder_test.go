package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cruxc/src/frontend"
	"cruxc/src/util"
)

func build(t *testing.T, src string) (*Program, *SymTab) {
	t.Helper()
	p, err := frontend.Parse(src)
	require.NoError(t, err)
	prog, sym, diag := Build(p)
	require.Equal(t, 0, diag.Len(), diag.Items())
	return prog, sym
}

func TestBuildResolvesRecursiveCall(t *testing.T) {
	prog, _ := build(t, `func int f(int x) { if x == 0 { return 1; } else { return x * f(x - 1); } } func void main() { printInt(f(5)); }`)
	require.Len(t, prog.Funcs, 2)
	f := prog.Funcs[0]
	assert.Equal(t, "f", f.Sym.Name)
	elseBranch := f.Body.Stmts[0].(*IfElse).Else
	ret := elseBranch.Stmts[0].(*Return)
	call := ret.Value.(*OpExpr).Rhs.(*CallExpr)
	assert.Same(t, f.Sym, call.Callee)
}

func TestBuildScopePopFidelity(t *testing.T) {
	_, sym := build(t, `func void main() { int i; for ( i = 0 ; i < 5 ; i = i + 1 ) { int j; } }`)
	assert.Equal(t, 1, sym.Depth())
}

func TestBuildReportsUndeclaredIdentifier(t *testing.T) {
	p, err := frontend.Parse(`func void main() { bool t; t = true || crash(); }`)
	require.NoError(t, err)
	_, _, diag := Build(p)
	require.Equal(t, 1, diag.Len())
	assert.Equal(t, util.ResolveSymbolError, diag.Items()[0].Kind)
}

func TestBuildReportsDuplicateDeclaration(t *testing.T) {
	p, err := frontend.Parse(`int g; int g;`)
	require.NoError(t, err)
	_, _, diag := Build(p)
	require.Equal(t, 1, diag.Len())
}
