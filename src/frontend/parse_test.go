package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArithmetic(t *testing.T) {
	prog, err := Parse(`func void main() { printInt(1 + 2 * 3); }`)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)
	fn := prog.Decls[0].FuncDefn
	require.NotNil(t, fn)
	assert.Equal(t, "main", fn.Name)
	assert.Equal(t, "void", fn.Type)
	require.Len(t, fn.Body.Stmts, 1)
	assert.NotNil(t, fn.Body.Stmts[0].CallStmt)
}

func TestParseGlobalsAndArrays(t *testing.T) {
	prog, err := Parse(`int g; int a[5]; func void main() { g = 1; }`)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 3)
	assert.NotNil(t, prog.Decls[0].VarDecl)
	assert.NotNil(t, prog.Decls[1].ArrayDecl)
	assert.EqualValues(t, 5, prog.Decls[1].ArrayDecl.Extent)
	assert.NotNil(t, prog.Decls[2].FuncDefn)
}

func TestParseForLoop(t *testing.T) {
	src := `int a[5];
func void main() {
	int i;
	for (i = 0; i < 5; i = i + 1) { a[i] = i * i; }
}`
	prog, err := Parse(src)
	require.NoError(t, err)
	fn := prog.Decls[1].FuncDefn
	require.NotNil(t, fn)
	require.Len(t, fn.Body.Stmts, 2)
	assert.NotNil(t, fn.Body.Stmts[1].ForStmt)
}

func TestParseBareReturn(t *testing.T) {
	// "return;" with no value must parse successfully; check.Check rejects it later.
	prog, err := Parse(`func int main(int x) { return; }`)
	require.NoError(t, err)
	fn := prog.Decls[0].FuncDefn
	require.NotNil(t, fn)
	ret := fn.Body.Stmts[0].ReturnStmt
	require.NotNil(t, ret)
	assert.Nil(t, ret.Value)
}

func TestParseShortCircuitAndCall(t *testing.T) {
	prog, err := Parse(`func void main() { bool t; t = true || crash(); }`)
	require.NoError(t, err)
	fn := prog.Decls[0].FuncDefn
	require.NotNil(t, fn)
	assign := fn.Body.Stmts[1].AssignStmt
	require.NotNil(t, assign)
	require.Len(t, assign.Value.Left.Ops, 1)
	assert.Equal(t, "||", assign.Value.Left.Ops[0].Op)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse(`func void main() { printInt(1 +; }`)
	assert.Error(t, err)
}
