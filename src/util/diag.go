// diag.go collects and formats compiler diagnostics. Declaration, symbol resolution and type
// errors are gathered here instead of being returned eagerly, so that a single pass can keep
// working after the first mistake and report everything it finds in one compilation.

package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind differentiates the three diagnostic categories the spec defines.
type Kind int

// Diagnostic is a single compiler error tied to a source position.
type Diagnostic struct {
	Kind   Kind   // Declaration, resolution or type error.
	Line   int    // 1-based source line.
	Detail string // Human readable detail of the offending construct.
}

// Diagnostics accumulates Diagnostic values across a compiler stage. Unlike the teacher's
// perror, which fans errors in from parallel worker goroutines over a channel, this compiler
// runs one stage at a time on one goroutine (spec §5), so Diagnostics is just a plain slice
// behind a few convenience methods.
type Diagnostics struct {
	items []Diagnostic
}

// ---------------------
// ----- Constants -----
// ---------------------

const (
	DeclarationError Kind = iota
	ResolveSymbolError
	TypeError
)

var kindNames = [...]string{
	DeclarationError:   "DeclarationError",
	ResolveSymbolError: "ResolveSymbolError",
	TypeError:          "TypeError",
}

// ---------------------
// ----- functions -----
// ---------------------

// String renders the diagnostic in the format mandated by spec §6: <Kind>(line: L)[<detail>].
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s(line: %d)[%s]", kindNames[d.Kind], d.Line, d.Detail)
}

// Add records a new diagnostic.
func (ds *Diagnostics) Add(kind Kind, line int, format string, args ...interface{}) {
	ds.items = append(ds.items, Diagnostic{Kind: kind, Line: line, Detail: fmt.Sprintf(format, args...)})
}

// Len returns the number of diagnostics recorded so far.
func (ds *Diagnostics) Len() int {
	return len(ds.items)
}

// Items returns the accumulated diagnostics in the order they were recorded.
func (ds *Diagnostics) Items() []Diagnostic {
	return ds.items
}

// Print writes every diagnostic to stderr, colorized red when stderr is a terminal.
func (ds *Diagnostics) Print() {
	red := color.New(color.FgRed, color.Bold)
	sb := strings.Builder{}
	for _, e1 := range ds.items {
		sb.WriteString(e1.String())
		sb.WriteRune('\n')
	}
	_, _ = red.Fprint(os.Stderr, sb.String())
}
