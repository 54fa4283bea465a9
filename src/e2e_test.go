// e2e_test.go exercises the full parse -> build -> check -> lower -> generate pipeline against
// the six representative programs a reader would use to sanity-check this compiler end to end,
// checking the externally observable outcome (diagnostics raised, or assembly shape) at each
// stage boundary rather than executing the emitted assembly.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cruxc/src/ast"
	"cruxc/src/backend/x86"
	"cruxc/src/check"
	"cruxc/src/frontend"
	"cruxc/src/ir"
	"cruxc/src/util"
)

// pipeline runs every stage up to and including code generation, stopping early (with a nil
// assembly string) if building or checking recorded any diagnostic.
func pipeline(t *testing.T, src string) (asm string, build, chk *util.Diagnostics) {
	t.Helper()
	parsed, err := frontend.Parse(src)
	require.NoError(t, err)
	prog, _, buildDiag := ast.Build(parsed)
	checkDiag := check.Check(prog)
	if buildDiag.Len() > 0 || checkDiag.Len() > 0 {
		return "", buildDiag, checkDiag
	}
	return x86.Generate(ir.Lower(prog)), buildDiag, checkDiag
}

func TestEndToEndArithmeticPrint(t *testing.T) {
	asm, build, chk := pipeline(t, `func void main() { printInt(1 + 2 * 3); }`)
	require.Equal(t, 0, build.Len())
	require.Equal(t, 0, chk.Len())
	assert.Contains(t, asm, "call\tprintInt")
	assert.Contains(t, asm, "imulq")
	assert.Contains(t, asm, "addq")
}

func TestEndToEndGlobalAccumulate(t *testing.T) {
	asm, build, chk := pipeline(t, `int g; func void main() { g = 41; g = g + 1; printInt(g); }`)
	require.Equal(t, 0, build.Len())
	require.Equal(t, 0, chk.Len())
	assert.Contains(t, asm, ".comm g, 8, 8")
}

func TestEndToEndArrayLoop(t *testing.T) {
	src := `int a[5]; func void main() { int i; for ( i = 0 ; i < 5 ; i = i + 1 ) { a[i] = i * i; } printInt(a[3]); }`
	asm, build, chk := pipeline(t, src)
	require.Equal(t, 0, build.Len())
	require.Equal(t, 0, chk.Len())
	assert.Contains(t, asm, ".comm a, 40, 8")
}

func TestEndToEndRecursiveFactorialShapedCall(t *testing.T) {
	src := `func int f(int x) { if x == 0 { return 1; } else { return x * f(x - 1); } } func void main() { printInt(f(5)); }`
	asm, build, chk := pipeline(t, src)
	require.Equal(t, 0, build.Len())
	require.Equal(t, 0, chk.Len())
	assert.Contains(t, asm, "call\tf")
}

func TestEndToEndUndeclaredCallSkipsShortCircuitAndCodegen(t *testing.T) {
	src := `func void main() { bool t; t = true || crash(); }`
	asm, build, chk := pipeline(t, src)
	assert.Empty(t, asm)
	require.Equal(t, 1, build.Len())
	assert.Equal(t, util.ResolveSymbolError, build.Items()[0].Kind)
	assert.Equal(t, 0, chk.Len())
}

func TestEndToEndBadMainSignatureReportsThreeTypeErrors(t *testing.T) {
	asm, build, chk := pipeline(t, `func int main(int x) { return; }`)
	assert.Empty(t, asm)
	require.Equal(t, 0, build.Len())
	require.Equal(t, 3, chk.Len())
	for _, d := range chk.Items() {
		assert.Equal(t, util.TypeError, d.Kind)
	}
}
