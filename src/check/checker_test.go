package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cruxc/src/ast"
	"cruxc/src/frontend"
	"cruxc/src/util"
)

func checkSrc(t *testing.T, src string) *util.Diagnostics {
	t.Helper()
	p, err := frontend.Parse(src)
	require.NoError(t, err)
	prog, _, buildDiag := ast.Build(p)
	require.Equal(t, 0, buildDiag.Len(), buildDiag.Items())
	return Check(prog)
}

func TestCheckWellTypedProgram(t *testing.T) {
	diag := checkSrc(t, `int g; func int f(int x) { if x == 0 { return 1; } else { return x * f(x - 1); } } func void main() { g = f(5); printInt(g); }`)
	assert.Equal(t, 0, diag.Len(), diag.Items())
}

func TestCheckMainSignature(t *testing.T) {
	p, err := frontend.Parse(`func int main(int x) { return; }`)
	require.NoError(t, err)
	prog, _, buildDiag := ast.Build(p)
	require.Equal(t, 0, buildDiag.Len())
	diag := Check(prog)
	require.Len(t, diag.Items(), 3)
	for _, d := range diag.Items() {
		assert.Equal(t, util.TypeError, d.Kind)
	}
}

func TestCheckBreakOutsideLoop(t *testing.T) {
	diag := checkSrc(t, `func void main() { break; }`)
	require.Equal(t, 1, diag.Len())
	assert.Equal(t, util.TypeError, diag.Items()[0].Kind)
}

func TestCheckArithmeticTypeMismatch(t *testing.T) {
	diag := checkSrc(t, `func void main() { bool b; b = 1 + true; }`)
	require.Equal(t, 1, diag.Len())
}

func TestCheckArrayIndexing(t *testing.T) {
	diag := checkSrc(t, `int a[5]; func void main() { a[0] = 3; printInt(a[0]); }`)
	assert.Equal(t, 0, diag.Len(), diag.Items())
}
