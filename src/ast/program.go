package ast

// Program is the root of a built AST: the file-scope declarations in source order, split into
// globals and functions for the convenience of check.Check and ir.Lower, which process them
// separately.
type Program struct {
	Globals []Decl
	Funcs   []*FunctionDefn
}
