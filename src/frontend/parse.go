// parse.go exposes the two entry points the driver needs from the external parser: Parse, which
// turns Crux source text into a Program parse tree, and TokenStream, which dumps the raw token
// sequence for the "--tokens" diagnostic flag (adapted from the teacher's own token-stream dump).

package frontend

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// Parse lexes and parses src, returning the root of the parse tree or a wrapped syntax error.
func Parse(src string) (*Program, error) {
	prog, err := cruxParser.ParseString("", src)
	if err != nil {
		return nil, errors.Wrap(err, "syntax error")
	}
	return prog, nil
}

// TokenStream lexes src and writes one "Type\tValue\tLine" row per token to w, mirroring the
// teacher's "-ts" flag behaviour for inspecting the lexer independently of the parser.
func TokenStream(src string, w io.Writer) error {
	lex, err := cruxLexer.Lex("", strings.NewReader(src))
	if err != nil {
		return errors.Wrap(err, "lex error")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	defer func() { _ = tw.Flush() }()
	symbols := cruxLexer.Symbols()
	names := make(map[lexer.TokenType]string, len(symbols))
	for name, typ := range symbols {
		names[typ] = name
	}
	for {
		tok, err := lex.Next()
		if err != nil {
			return errors.Wrap(err, "lex error")
		}
		if tok.EOF() {
			break
		}
		_, _ = fmt.Fprintf(tw, "%s\t%q\t%d\n", names[tok.Type], tok.Value, tok.Pos.Line)
	}
	return nil
}
