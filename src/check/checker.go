// Package check implements §4.2: the type checking pass. It walks a built ast.Program, writing an
// inferred ast.Type onto every expression node via double dispatch on the operand types (see
// ast.Add, ast.Compare, ast.Assign, ... in ast/types.go), and records a TypeError for every
// mismatch, continuing so a single pass reports everything it finds.
//
// An Error type already carries its own explanation the first time it is produced — at an
// unresolved identifier (ast.Build already raised a ResolveSymbolError for that) or an invalid
// declared type name (raised here, at the declaration). Once a node's type is Error, operations
// built on top of it keep propagating Error but do not re-report: reporting only at the source
// keeps one mistake from flooding the diagnostic list with its consequences.
package check

import (
	"cruxc/src/ast"
	"cruxc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// checker threads the contextual state a checking pass needs: the enclosing function's declared
// return type and how many nested loops currently enclose the statement being checked.
type checker struct {
	diag      *util.Diagnostics
	fnRet     *ast.Type
	loopDepth int
}

// ---------------------
// ----- functions -----
// ---------------------

// Check type-checks prog in place and returns every diagnostic it recorded. An empty result means
// prog is well-typed and safe to lower to IR.
func Check(prog *ast.Program) *util.Diagnostics {
	c := &checker{diag: &util.Diagnostics{}}
	for _, d := range prog.Globals {
		c.checkGlobalDecl(d)
	}
	for _, fn := range prog.Funcs {
		c.checkFunc(fn)
	}
	return c.diag
}

func (c *checker) checkGlobalDecl(d ast.Decl) {
	switch v := d.(type) {
	case *ast.VariableDecl:
		c.checkVarType(v.Sym, v.Line)
	case *ast.ArrayDecl:
		base := v.Sym.Type.Base
		switch {
		case base.IsError():
			c.diag.Add(util.TypeError, v.Line, "%s", base.Message)
		case base.Kind != ast.KindInt && base.Kind != ast.KindBool:
			c.diag.Add(util.TypeError, v.Line, "array base type must be int or bool, got %s", base)
		}
	}
}

// checkVarType flags a scalar variable declared with an invalid type name or with void, which is
// legal only as a function return type.
func (c *checker) checkVarType(sym *ast.Symbol, line int) {
	switch sym.Type.Kind {
	case ast.KindError:
		c.diag.Add(util.TypeError, line, "%s", sym.Type.Message)
	case ast.KindVoid:
		c.diag.Add(util.TypeError, line, "variable %s cannot have type void", sym.Name)
	}
}

func (c *checker) checkFunc(fn *ast.FunctionDefn) {
	line := fn.Line
	if fn.Sym.Name == "main" {
		if len(fn.Params) > 0 {
			c.diag.Add(util.TypeError, line, "main must not declare parameters")
		}
		if fn.Sym.Type.Ret.Kind != ast.KindVoid {
			c.diag.Add(util.TypeError, line, "main must return void")
		}
	}
	for _, p := range fn.Params {
		if p.Type.Kind != ast.KindInt && p.Type.Kind != ast.KindBool {
			c.diag.Add(util.TypeError, p.Line, "parameter %s must be int or bool, got %s", p.Name, p.Type)
		}
	}

	saved := c.fnRet
	c.fnRet = fn.Sym.Type.Ret
	c.checkStmtList(fn.Body)
	c.fnRet = saved
}

func (c *checker) checkStmtList(list *ast.StmtList) {
	for _, s := range list.Stmts {
		c.checkStmt(s)
	}
}

func (c *checker) checkStmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.VariableDecl:
		c.checkVarType(v.Sym, v.Line)
	case *ast.Assignment:
		lt := c.checkExpr(v.Target)
		rt := c.checkExpr(v.Value)
		if result := ast.Assign(lt, rt); result.IsError() && !lt.IsError() && !rt.IsError() {
			c.diag.Add(util.TypeError, v.Line, "%s", result.Message)
		}
	case *ast.Call:
		args, anyErr := c.checkArgs(v.Args)
		if result := ast.Call(v.Callee.Type, args); result.IsError() && !v.Callee.Type.IsError() && !anyErr {
			c.diag.Add(util.TypeError, v.Line, "%s", result.Message)
		}
	case *ast.IfElse:
		c.checkCondition(v.Cond, v.Line)
		c.checkStmtList(v.Then)
		if v.Else != nil {
			c.checkStmtList(v.Else)
		}
	case *ast.For:
		c.checkStmt(v.Init)
		c.checkCondition(v.Cond, v.Line)
		c.checkStmt(v.Incr)
		c.loopDepth++
		c.checkStmtList(v.Body)
		c.loopDepth--
	case *ast.Break:
		if c.loopDepth == 0 {
			c.diag.Add(util.TypeError, v.Line, "break outside loop")
		}
	case *ast.Return:
		c.checkReturn(v)
	}
}

func (c *checker) checkArgs(exprs []ast.Expr) ([]*ast.Type, bool) {
	types := make([]*ast.Type, len(exprs))
	anyErr := false
	for i, a := range exprs {
		types[i] = c.checkExpr(a)
		if types[i].IsError() {
			anyErr = true
		}
	}
	return types, anyErr
}

// checkCondition validates that a branch predicate (if/for) is boolean; this is required by the
// x86-64 code generator's JumpInst lowering (§4.4: "cmp $1, pred") even though it is folded into
// the ordinary binary/relational dispatch table rather than listed as its own row in §4.2.
func (c *checker) checkCondition(cond ast.Expr, line int) {
	t := c.checkExpr(cond)
	if t.Kind != ast.KindBool && !t.IsError() {
		c.diag.Add(util.TypeError, line, "condition must be bool, got %s", t)
	}
}

func (c *checker) checkReturn(r *ast.Return) {
	if r.Value == nil {
		if c.fnRet.Kind != ast.KindVoid {
			c.diag.Add(util.TypeError, r.Line, "missing return value, expected %s", c.fnRet)
		}
		return
	}
	vt := c.checkExpr(r.Value)
	if result := ast.Assign(c.fnRet, vt); result.IsError() && !vt.IsError() {
		c.diag.Add(util.TypeError, r.Line, "return type mismatch: expected %s, got %s", c.fnRet, vt)
	}
}

// checkExpr sets and returns the inferred type of e, recursing into its subexpressions first. A
// node whose error stems entirely from an already-reported operand does not get its own entry.
func (c *checker) checkExpr(e ast.Expr) *ast.Type {
	var result *ast.Type
	suppress := false
	switch v := e.(type) {
	case *ast.LiteralInt:
		result = ast.Int
	case *ast.LiteralBool:
		result = ast.Bool
	case *ast.VarAccess:
		result = v.Sym.Type
		suppress = result.IsError()
	case *ast.ArrayAccess:
		idx := c.checkExpr(v.Index)
		result = ast.Index(v.Sym.Type, idx)
		suppress = v.Sym.Type.IsError() || idx.IsError()
	case *ast.CallExpr:
		args, anyErr := c.checkArgs(v.Args)
		result = ast.Call(v.Callee.Type, args)
		suppress = v.Callee.Type.IsError() || anyErr
	case *ast.OpExpr:
		result, suppress = c.checkOpExpr(v)
	default:
		result = ast.Errorf("unhandled expression")
	}
	if result.IsError() && !suppress {
		c.diag.Add(util.TypeError, e.Line(), "%s", result.Message)
	}
	e.SetType(result)
	return result
}

func (c *checker) checkOpExpr(v *ast.OpExpr) (*ast.Type, bool) {
	lt := c.checkExpr(v.Lhs)
	if v.Op == ast.OpNot {
		return ast.Not(lt), lt.IsError()
	}
	rt := c.checkExpr(v.Rhs)
	suppress := lt.IsError() || rt.IsError()
	var result *ast.Type
	switch v.Op {
	case ast.OpAdd:
		result = ast.Add(lt, rt)
	case ast.OpSub:
		result = ast.Sub(lt, rt)
	case ast.OpMul:
		result = ast.Mul(lt, rt)
	case ast.OpDiv:
		result = ast.Div(lt, rt)
	case ast.OpGE:
		result = ast.Relational(">=", lt, rt)
	case ast.OpLE:
		result = ast.Relational("<=", lt, rt)
	case ast.OpGT:
		result = ast.Relational(">", lt, rt)
	case ast.OpLT:
		result = ast.Relational("<", lt, rt)
	case ast.OpEQ, ast.OpNE:
		result = ast.Compare(lt, rt)
	case ast.OpAnd:
		result = ast.And(lt, rt)
	default:
		result = ast.Or(lt, rt)
	}
	return result, suppress
}
