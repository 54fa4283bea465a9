// grammar.go declares the parse tree for Crux, following the grammar of §6: a program is a list
// of declarations, each either a scalar variable, a fixed-size array, or a function definition.
//
// Each type below is a participle grammar production: struct tags spread the EBNF alternatives
// and sequences across fields, and participle.MustBuild derives a recursive-descent parser from
// them directly, the same way the teacher's goyacc grammar file drives yacc. Positions are
// captured on every node so the AST builder (ast/builder.go) can stamp line numbers onto
// diagnostics without re-deriving them.

package frontend

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Program is the root of a Crux parse tree: a flat sequence of top-level declarations.
type Program struct {
	Pos   lexer.Position
	Decls []*Decl `@@*`
}

// Decl is one top-level declaration: a scalar variable, an array, or a function.
type Decl struct {
	Pos       lexer.Position
	VarDecl   *VarDecl   `  @@`
	ArrayDecl *ArrayDecl `| @@`
	FuncDefn  *FuncDefn  `| @@`
}

// VarDecl declares a single scalar variable: "type Ident ;".
type VarDecl struct {
	Pos  lexer.Position
	Type string `@Ident`
	Name string `@Ident ";"`
}

// ArrayDecl declares a fixed-extent array: "type Ident [ Integer ] ;".
type ArrayDecl struct {
	Pos    lexer.Position
	Type   string `@Ident`
	Name   string `@Ident "["`
	Extent int64  `@Int "]" ";"`
}

// FuncDefn declares a function: "func type Ident ( paramList ) stmtBlock", where the leading
// "func" keyword is optional.
type FuncDefn struct {
	Pos    lexer.Position
	Type   string     `"func"? @Ident`
	Name   string     `@Ident "("`
	Params []*Param   `( @@ ( "," @@ )* )? ")"`
	Body   *StmtBlock `@@`
}

// Param is one formal parameter: "type Ident".
type Param struct {
	Pos  lexer.Position
	Type string `@Ident`
	Name string `@Ident`
}

// StmtBlock is a brace-delimited list of statements.
type StmtBlock struct {
	Pos   lexer.Position
	Stmts []*Stmt `"{" @@* "}"`
}

// Stmt is one statement. VarDecl must be tried before CallStmt/AssignStmt since all three can
// start with an Ident; participle backtracks on a failed alternative and tries the next.
type Stmt struct {
	Pos        lexer.Position
	VarDecl    *VarDecl    `  @@`
	CallStmt   *CallStmt   `| @@`
	AssignStmt *AssignStmt `| @@`
	IfStmt     *IfStmt     `| @@`
	ForStmt    *ForStmt    `| @@`
	BreakStmt  *BreakStmt  `| @@`
	ReturnStmt *ReturnStmt `| @@`
}

// CallStmt is a bare call used as a statement: "Ident ( exprList ) ;".
type CallStmt struct {
	Pos  lexer.Position
	Name string   `@Ident "("`
	Args []*Expr0 `( @@ ( "," @@ )* )? ")" ";"`
}

// AssignStmt assigns to a designator: "designator = expr0 ;".
type AssignStmt struct {
	Pos        lexer.Position
	Designator *Designator `@@ "="`
	Value      *Expr0      `@@ ";"`
}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Pos  lexer.Position
	Cond *Expr0     `"if" @@`
	Then *StmtBlock `@@`
	Else *StmtBlock `( "else" @@ )?`
}

// ForStmt is a C-style counted loop: "for ( assignStmt expr0 ; designator = expr0 ) stmtBlock".
// The init clause is itself a full AssignStmt and so consumes its own trailing ';'.
type ForStmt struct {
	Pos     lexer.Position
	Init    *AssignStmt `"for" "(" @@`
	Cond    *Expr0      `@@ ";"`
	IncrLHS *Designator `@@ "="`
	IncrRHS *Expr0      `@@ ")"`
	Body    *StmtBlock  `@@`
}

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct {
	Pos   lexer.Position
	Break string `@"break" ";"`
}

// ReturnStmt returns from the enclosing function. Value is optional: the grammar of §6 requires
// an expression, but end-to-end scenario 6 requires "return;" with no value to parse successfully
// and fail in the type checker instead (a TypeError, not a parse error) — so Value is captured as
// optional here and its absence is judged by check.Check against the function's return type.
type ReturnStmt struct {
	Pos   lexer.Position
	Value *Expr0 `"return" @@? ";"`
}

// Designator is an lvalue: a bare identifier or an array element.
type Designator struct {
	Pos   lexer.Position
	Name  string `@Ident`
	Index *Expr0 `( "[" @@ "]" )?`
}

// Expr0 is a single, non-associative comparison: "expr1 (op0 expr1)?".
type Expr0 struct {
	Pos   lexer.Position
	Left  *Expr1 `@@`
	Op    string `( @( ">=" | "<=" | "!=" | "==" | ">" | "<" )`
	Right *Expr1 `  @@ )?`
}

// Expr1 is a left-associative chain of "+", "-" and "||" over Expr2 terms.
type Expr1 struct {
	Pos  lexer.Position
	Left *Expr2     `@@`
	Ops  []*Expr1Op `@@*`
}

// Expr1Op is one ("+"|"-"|"||") operator applied to the running Expr1 total.
type Expr1Op struct {
	Pos   lexer.Position
	Op    string `@( "+" | "-" | "||" )`
	Right *Expr2 `@@`
}

// Expr2 is a left-associative chain of "*", "/" and "&&" over Expr3 terms.
type Expr2 struct {
	Pos  lexer.Position
	Left *Expr3     `@@`
	Ops  []*Expr2Op `@@*`
}

// Expr2Op is one ("*"|"/"|"&&") operator applied to the running Expr2 total.
type Expr2Op struct {
	Pos   lexer.Position
	Op    string `@( "*" | "/" | "&&" )`
	Right *Expr3 `@@`
}

// Expr3 is a unary-not, a parenthesised Expr0, a call, a designator, or a literal. CallExpr is
// tried before Designator since both start with an Ident.
type Expr3 struct {
	Pos        lexer.Position
	Not        *Expr3      `(  "!" @@`
	Sub        *Expr0      ` | "(" @@ ")"`
	CallExpr   *CallExpr   ` | @@`
	Designator *Designator ` | @@`
	Literal    *Literal    ` | @@ )`
}

// CallExpr is a function call used as an expression: "Ident ( exprList )".
type CallExpr struct {
	Pos  lexer.Position
	Name string   `@Ident "("`
	Args []*Expr0 `( @@ ( "," @@ )* )? ")"`
}

// Literal is an integer or boolean constant.
type Literal struct {
	Pos  lexer.Position
	Int  *string `(  @Int`
	Bool *string ` | @( "true" | "false" ) )`
}

// ---------------------
// ----- functions -----
// ---------------------

// cruxParser is the participle-derived parser for an entire Crux program.
var cruxParser = participle.MustBuild[Program](
	participle.Lexer(cruxLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(1024),
)
