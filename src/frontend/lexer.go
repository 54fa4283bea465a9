// lexer.go defines the token set of Crux source text.
//
// The teacher hand-writes a Rob Pike style concurrent lexer (stateFunc, channels) paired with a
// goyacc-generated parser. Lexing and parsing are external collaborators here, delegated to
// participle (github.com/alecthomas/participle/v2), which derives both the tokenizer and the
// recursive-descent parser from the struct tags in grammar.go.

package frontend

import "github.com/alecthomas/participle/v2/lexer"

// cruxLexer tokenizes Crux source. Rules are tried in order at each input position; Comment and
// Whitespace are elided by the parser (see cruxParser in grammar.go) so grammar rules never see
// them. Keyword precedes Ident so that reserved words never match an @Ident capture.
var cruxLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Keyword", Pattern: `(?:func|if|else|for|return|break|true|false)\b`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_]*`},
	{Name: "Int", Pattern: `0|[1-9][0-9]*`},
	{Name: "Operator", Pattern: `>=|<=|!=|==|&&|\|\||[-+*/(){}\[\];,=<>!]`},
})
