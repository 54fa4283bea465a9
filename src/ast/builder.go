// builder.go implements §4.1: a recursive descent over the frontend parse tree that folds it into
// the typed AST of §3 while resolving every identifier use against a lexically scoped SymTab.
// Entering a function body, a for-body, or an if/else branch pushes a new scope; leaving it pops.
// Declaration collisions and unresolved identifiers are recorded on a shared Diagnostics and do
// not stop the walk, so a single pass reports every such error it finds.

package ast

import (
	"strconv"

	"cruxc/src/frontend"
	"cruxc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Builder holds the state threaded through one descent over a parse tree.
type Builder struct {
	sym  *SymTab
	diag *util.Diagnostics
}

// ---------------------
// ----- functions -----
// ---------------------

// Build converts a frontend parse tree into a Program, returning the symbol table it populated
// (discarded by the driver after type checking, per §3 "Lifecycle") and any diagnostics raised
// while resolving declarations and identifier uses.
func Build(prog *frontend.Program) (*Program, *SymTab, *util.Diagnostics) {
	b := &Builder{sym: NewSymTab(), diag: &util.Diagnostics{}}
	out := &Program{}
	for _, d := range prog.Decls {
		switch {
		case d.VarDecl != nil:
			line := int(d.VarDecl.Pos.Line)
			sym := b.declareScalar(d.VarDecl.Type, d.VarDecl.Name, line)
			out.Globals = append(out.Globals, &VariableDecl{Sym: sym, Line: line})
		case d.ArrayDecl != nil:
			line := int(d.ArrayDecl.Pos.Line)
			base := b.resolveType(d.ArrayDecl.Type)
			sym := &Symbol{Name: d.ArrayDecl.Name, Type: NewArray(base, d.ArrayDecl.Extent), Line: line}
			if !b.sym.Declare(sym) {
				b.diag.Add(util.DeclarationError, line, "%s already declared", sym.Name)
			}
			out.Globals = append(out.Globals, &ArrayDecl{Sym: sym, Line: line})
		case d.FuncDefn != nil:
			out.Funcs = append(out.Funcs, b.buildFunc(d.FuncDefn))
		}
	}
	return out, b.sym, b.diag
}

func (b *Builder) buildFunc(fd *frontend.FuncDefn) *FunctionDefn {
	line := int(fd.Pos.Line)
	ret := b.resolveType(fd.Type)
	paramTypes := make([]*Type, len(fd.Params))
	for i, p := range fd.Params {
		paramTypes[i] = b.resolveType(p.Type)
	}
	sym := &Symbol{Name: fd.Name, Type: NewFunc(paramTypes, ret), Line: line}
	if !b.sym.Declare(sym) {
		b.diag.Add(util.DeclarationError, line, "%s already declared", sym.Name)
	}

	// The function symbol is declared in the enclosing scope before the new scope for its
	// params and body is pushed, so a param sharing the function's own name shadows it inside
	// the body rather than colliding with it.
	b.sym.Push()
	params := make([]*Symbol, len(fd.Params))
	for i, p := range fd.Params {
		pline := int(p.Pos.Line)
		psym := &Symbol{Name: p.Name, Type: paramTypes[i], Line: pline}
		if !b.sym.Declare(psym) {
			b.diag.Add(util.DeclarationError, pline, "%s already declared", psym.Name)
		}
		params[i] = psym
	}
	body := b.buildStmtsInCurrentScope(fd.Body)
	b.sym.Pop()

	return &FunctionDefn{Sym: sym, Params: params, Body: body, Line: line}
}

// declareScalar resolves typeName and declares a scalar symbol named name in the innermost scope.
func (b *Builder) declareScalar(typeName, name string, line int) *Symbol {
	t := b.resolveType(typeName)
	sym := &Symbol{Name: name, Type: t, Line: line}
	if !b.sym.Declare(sym) {
		b.diag.Add(util.DeclarationError, line, "%s already declared", name)
	}
	return sym
}

// resolveType maps an identifier-form type name to its Type; anything other than int/bool/void is
// an Error per §4.1 "Type construction" — the checker, not the builder, is responsible for
// flagging its use.
func (b *Builder) resolveType(name string) *Type {
	switch name {
	case "int":
		return Int
	case "bool":
		return Bool
	case "void":
		return Void
	default:
		return Errorf("Invalid Type: %s", name)
	}
}

// lookupSym resolves name against the current scope chain, recording a ResolveSymbolError and
// returning the sentinel error symbol if it is undeclared.
func (b *Builder) lookupSym(name string, line int) *Symbol {
	sym, ok := b.sym.Lookup(name)
	if !ok {
		b.diag.Add(util.ResolveSymbolError, line, "undeclared identifier: %s", name)
	}
	return sym
}

// buildStmtsInCurrentScope builds a statement block's statements without pushing a new scope,
// used for a function's own body block since its scope was already pushed by buildFunc to hold
// the parameters alongside the locals.
func (b *Builder) buildStmtsInCurrentScope(sb *frontend.StmtBlock) *StmtList {
	stmts := make([]Stmt, 0, len(sb.Stmts))
	for _, s := range sb.Stmts {
		stmts = append(stmts, b.buildStmt(s))
	}
	return &StmtList{Stmts: stmts, Line: int(sb.Pos.Line)}
}

// buildBlockNewScope builds a nested block (if/else branch, for body), pushing and popping its
// own scope around it.
func (b *Builder) buildBlockNewScope(sb *frontend.StmtBlock) *StmtList {
	b.sym.Push()
	list := b.buildStmtsInCurrentScope(sb)
	b.sym.Pop()
	return list
}

func (b *Builder) buildStmt(s *frontend.Stmt) Stmt {
	line := int(s.Pos.Line)
	switch {
	case s.VarDecl != nil:
		sym := b.declareScalar(s.VarDecl.Type, s.VarDecl.Name, line)
		return &VariableDecl{Sym: sym, Line: line}
	case s.CallStmt != nil:
		return b.buildCallStmt(s.CallStmt)
	case s.AssignStmt != nil:
		return b.buildAssignStmt(s.AssignStmt)
	case s.IfStmt != nil:
		return b.buildIfStmt(s.IfStmt)
	case s.ForStmt != nil:
		return b.buildForStmt(s.ForStmt)
	case s.BreakStmt != nil:
		return &Break{Line: line}
	case s.ReturnStmt != nil:
		var val Expr
		if s.ReturnStmt.Value != nil {
			val = b.buildExpr0(s.ReturnStmt.Value)
		}
		return &Return{Value: val, Line: line}
	}
	return &StmtList{Line: line}
}

func (b *Builder) buildCallStmt(c *frontend.CallStmt) *Call {
	line := int(c.Pos.Line)
	callee := b.lookupSym(c.Name, line)
	args := make([]Expr, len(c.Args))
	for i, a := range c.Args {
		args[i] = b.buildExpr0(a)
	}
	return &Call{Callee: callee, Args: args, Line: line}
}

func (b *Builder) buildAssignStmt(a *frontend.AssignStmt) *Assignment {
	line := int(a.Pos.Line)
	target := b.buildDesignator(a.Designator)
	value := b.buildExpr0(a.Value)
	return &Assignment{Target: target, Value: value, Line: line}
}

func (b *Builder) buildIfStmt(s *frontend.IfStmt) *IfElse {
	line := int(s.Pos.Line)
	cond := b.buildExpr0(s.Cond)
	then := b.buildBlockNewScope(s.Then)
	var els *StmtList
	if s.Else != nil {
		els = b.buildBlockNewScope(s.Else)
	}
	return &IfElse{Cond: cond, Then: then, Else: els, Line: line}
}

func (b *Builder) buildForStmt(s *frontend.ForStmt) *For {
	line := int(s.Pos.Line)
	init := b.buildAssignStmt(s.Init)
	cond := b.buildExpr0(s.Cond)
	incr := &Assignment{
		Target: b.buildDesignator(s.IncrLHS),
		Value:  b.buildExpr0(s.IncrRHS),
		Line:   int(s.IncrLHS.Pos.Line),
	}
	body := b.buildBlockNewScope(s.Body)
	return &For{Init: init, Cond: cond, Incr: incr, Body: body, Line: line}
}

func (b *Builder) buildDesignator(d *frontend.Designator) Expr {
	line := int(d.Pos.Line)
	sym := b.lookupSym(d.Name, line)
	if d.Index == nil {
		return &VarAccess{exprBase: exprBase{LineNo: line}, Sym: sym}
	}
	idx := b.buildExpr0(d.Index)
	return &ArrayAccess{exprBase: exprBase{LineNo: line}, Sym: sym, Index: idx}
}

func (b *Builder) buildCallExpr(c *frontend.CallExpr) Expr {
	line := int(c.Pos.Line)
	callee := b.lookupSym(c.Name, line)
	args := make([]Expr, len(c.Args))
	for i, a := range c.Args {
		args[i] = b.buildExpr0(a)
	}
	return &CallExpr{exprBase: exprBase{LineNo: line}, Callee: callee, Args: args}
}

func (b *Builder) buildLiteral(l *frontend.Literal) Expr {
	line := int(l.Pos.Line)
	if l.Int != nil {
		v, _ := strconv.ParseInt(*l.Int, 10, 64)
		return &LiteralInt{exprBase: exprBase{LineNo: line}, Value: v}
	}
	return &LiteralBool{exprBase: exprBase{LineNo: line}, Value: *l.Bool == "true"}
}

func (b *Builder) buildExpr0(e *frontend.Expr0) Expr {
	left := b.buildExpr1(e.Left)
	if e.Op == "" {
		return left
	}
	right := b.buildExpr1(e.Right)
	return &OpExpr{exprBase: exprBase{LineNo: int(e.Pos.Line)}, Op: compareOp(e.Op), Lhs: left, Rhs: right}
}

func (b *Builder) buildExpr1(e *frontend.Expr1) Expr {
	result := b.buildExpr2(e.Left)
	for _, o := range e.Ops {
		rhs := b.buildExpr2(o.Right)
		result = &OpExpr{exprBase: exprBase{LineNo: int(o.Pos.Line)}, Op: addOp(o.Op), Lhs: result, Rhs: rhs}
	}
	return result
}

func (b *Builder) buildExpr2(e *frontend.Expr2) Expr {
	result := b.buildExpr3(e.Left)
	for _, o := range e.Ops {
		rhs := b.buildExpr3(o.Right)
		result = &OpExpr{exprBase: exprBase{LineNo: int(o.Pos.Line)}, Op: mulOp(o.Op), Lhs: result, Rhs: rhs}
	}
	return result
}

func (b *Builder) buildExpr3(e *frontend.Expr3) Expr {
	line := int(e.Pos.Line)
	switch {
	case e.Not != nil:
		operand := b.buildExpr3(e.Not)
		return &OpExpr{exprBase: exprBase{LineNo: line}, Op: OpNot, Lhs: operand}
	case e.Sub != nil:
		return b.buildExpr0(e.Sub)
	case e.CallExpr != nil:
		return b.buildCallExpr(e.CallExpr)
	case e.Designator != nil:
		return b.buildDesignator(e.Designator)
	default:
		return b.buildLiteral(e.Literal)
	}
}

func compareOp(s string) Op {
	switch s {
	case ">=":
		return OpGE
	case "<=":
		return OpLE
	case "!=":
		return OpNE
	case "==":
		return OpEQ
	case ">":
		return OpGT
	default:
		return OpLT
	}
}

func addOp(s string) Op {
	switch s {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	default:
		return OpOr
	}
}

func mulOp(s string) Op {
	switch s {
	case "*":
		return OpMul
	case "/":
		return OpDiv
	default:
		return OpAnd
	}
}
