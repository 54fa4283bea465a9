// dump.go renders a built Program as readable indented text for the --verbose flag (§5),
// printed before lowering so a reader can see the tree check.Check just annotated with types,
// the same way ir.Dump (src/ir/print.go) renders the lowered CFG that follows it.

package ast

import (
	"fmt"
	"strings"
)

// Dump renders p's declarations as an indented tree, including each expression's inferred Type
// when present (nil before check.Check has run).
func Dump(p *Program) string {
	var sb strings.Builder
	for _, d := range p.Globals {
		dumpDecl(&sb, d, 0)
	}
	for _, fn := range p.Funcs {
		dumpFunc(&sb, fn)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func dumpDecl(sb *strings.Builder, d Decl, depth int) {
	indent(sb, depth)
	switch v := d.(type) {
	case *VariableDecl:
		fmt.Fprintf(sb, "var %s %s\n", v.Sym.Name, v.Sym.Type)
	case *ArrayDecl:
		fmt.Fprintf(sb, "array %s %s\n", v.Sym.Name, v.Sym.Type)
	case *FunctionDefn:
		dumpFunc(sb, v)
	}
}

func dumpFunc(sb *strings.Builder, fn *FunctionDefn) {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	fmt.Fprintf(sb, "func %s(%s) %s\n", fn.Sym.Name, strings.Join(names, ", "), fn.Sym.Type)
	dumpStmtList(sb, fn.Body, 1)
}

func dumpStmtList(sb *strings.Builder, list *StmtList, depth int) {
	for _, s := range list.Stmts {
		dumpStmt(sb, s, depth)
	}
}

func dumpStmt(sb *strings.Builder, s Stmt, depth int) {
	indent(sb, depth)
	switch v := s.(type) {
	case *VariableDecl:
		fmt.Fprintf(sb, "var %s %s\n", v.Sym.Name, v.Sym.Type)
	case *Assignment:
		fmt.Fprintf(sb, "assign %s = %s\n", dumpExpr(v.Target), dumpExpr(v.Value))
	case *Call:
		fmt.Fprintf(sb, "call %s(%s)\n", v.Callee.Name, dumpExprList(v.Args))
	case *IfElse:
		fmt.Fprintf(sb, "if %s\n", dumpExpr(v.Cond))
		dumpStmtList(sb, v.Then, depth+1)
		if v.Else != nil {
			indent(sb, depth)
			sb.WriteString("else\n")
			dumpStmtList(sb, v.Else, depth+1)
		}
	case *For:
		fmt.Fprintf(sb, "for %s; %s; %s\n", dumpStmtOneLine(v.Init), dumpExpr(v.Cond), dumpStmtOneLine(v.Incr))
		dumpStmtList(sb, v.Body, depth+1)
	case *Break:
		sb.WriteString("break\n")
	case *Return:
		if v.Value == nil {
			sb.WriteString("return\n")
		} else {
			fmt.Fprintf(sb, "return %s\n", dumpExpr(v.Value))
		}
	}
}

func dumpStmtOneLine(s Stmt) string {
	a, ok := s.(*Assignment)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s = %s", dumpExpr(a.Target), dumpExpr(a.Value))
}

func dumpExprList(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = dumpExpr(e)
	}
	return strings.Join(parts, ", ")
}

func dumpExpr(e Expr) string {
	switch v := e.(type) {
	case *LiteralInt:
		return fmt.Sprintf("%d:%s", v.Value, typeOrNil(v.Type))
	case *LiteralBool:
		return fmt.Sprintf("%t:%s", v.Value, typeOrNil(v.Type))
	case *VarAccess:
		return fmt.Sprintf("%s:%s", v.Sym.Name, typeOrNil(v.Type))
	case *ArrayAccess:
		return fmt.Sprintf("%s[%s]:%s", v.Sym.Name, dumpExpr(v.Index), typeOrNil(v.Type))
	case *CallExpr:
		return fmt.Sprintf("%s(%s):%s", v.Callee.Name, dumpExprList(v.Args), typeOrNil(v.Type))
	case *OpExpr:
		if v.Rhs == nil {
			return fmt.Sprintf("(!%s):%s", dumpExpr(v.Lhs), typeOrNil(v.Type))
		}
		return fmt.Sprintf("(%s %s %s):%s", dumpExpr(v.Lhs), opName(v.Op), dumpExpr(v.Rhs), typeOrNil(v.Type))
	default:
		return "?"
	}
}

func typeOrNil(t *Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

var opNames = [...]string{
	OpGE: ">=", OpLE: "<=", OpNE: "!=", OpEQ: "==", OpGT: ">", OpLT: "<",
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpAnd: "&&", OpOr: "||", OpNot: "!",
}

func opName(op Op) string {
	return opNames[op]
}
