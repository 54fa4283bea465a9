// main.go is the compiler driver: it wires the CLI surface of §6 to the pipeline of §4 — parse,
// build, check, lower, generate — aborting with diagnostics before lowering if building or
// checking found any error (§5, §7 "Propagation").

package main

import (
	"fmt"
	"os"

	"github.com/teris-io/cli"

	"cruxc/src/ast"
	"cruxc/src/backend/x86"
	"cruxc/src/check"
	"cruxc/src/frontend"
	"cruxc/src/ir"
	"cruxc/src/util"
)

var description = "Compiles a Crux source file into x86-64 AT&T assembly (System-V ABI, Linux)."

var cruxc = cli.New(description).
	WithArg(cli.NewArg("source", "Path to the Crux source file").WithType(cli.TypeString)).
	WithOption(cli.NewOption("out", "Path to the output assembly file (default a.s)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("verbose", "Dump the checked AST and the lowered IR to stderr before code generation").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("tokens", "Print the token stream and exit without compiling").
		WithType(cli.TypeBool)).
	WithAction(run)

func run(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: missing source file, use --help")
		return 1
	}
	opt := util.Options{Src: args[0], Out: util.DefaultOut}
	if out, ok := options["out"]; ok && out != "" {
		opt.Out = out
	}
	_, opt.Verbose = options["verbose"]
	_, opt.TokenStream = options["tokens"]

	if err := compile(opt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

// compile runs the full pipeline for one source file. On any diagnosed error it reports every
// diagnostic collected so far and returns before code generation ever opens the output file
// (§5: "on any uncaught error prior to code generation ... the file is not created").
func compile(opt util.Options) error {
	src, err := util.ReadSource(opt.Src)
	if err != nil {
		return fmt.Errorf("could not read source: %w", err)
	}

	if opt.TokenStream {
		return frontend.TokenStream(src, os.Stdout)
	}

	parsed, err := frontend.Parse(src)
	if err != nil {
		return err
	}

	prog, _, buildDiag := ast.Build(parsed)
	checkDiag := check.Check(prog)
	if total := buildDiag.Len() + checkDiag.Len(); total > 0 {
		buildDiag.Print()
		checkDiag.Print()
		return fmt.Errorf("compilation failed with %d error(s)", total)
	}

	if opt.Verbose {
		fmt.Fprint(os.Stderr, ast.Dump(prog))
	}

	lowered := ir.Lower(prog)
	if opt.Verbose {
		fmt.Fprint(os.Stderr, ir.Dump(lowered))
	}

	asm := x86.Generate(lowered)
	w := util.NewWriter()
	w.WriteString(asm)
	return w.Flush(opt.Out)
}

func main() {
	os.Exit(cruxc.Run(os.Args, os.Stdout))
}
