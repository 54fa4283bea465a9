// lower.go implements §4.3: lowering a checked ast.Program into the CFG form of §3. Every AST
// expression and statement lowers to a pair: the instruction where control enters it and the
// instruction where control leaves it, composed with seq the way the teacher's code generator
// composes label-delimited assembly fragments, except the fragments here are linked instructions
// rather than text.
//
// Local scalars (parameters and function-local var declarations) live directly in a LocalVar
// temporary; nothing ever takes their address, so no AddressAt/Load/Store round-trip is needed
// for them. Globals and array elements are not addressable in registers, so every read or write
// of one goes through an AddressAt followed by a Load or Store.

package ir

import "cruxc/src/ast"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// pair is the composition primitive: start is where control enters the lowered fragment, end is
// where it leaves (its successor-0 is still unset), and value is the Value it computed, if any.
type pair struct {
	start Instr
	end   Instr
	value Value
}

// lowerer holds the per-function state a lowering pass threads: the owning Program (for constant
// interning), the Function being built (for temporary allocation), the local scalar symbol table,
// the set of file-scope symbols, and the stack of enclosing loop exit targets Break resolves
// against.
type lowerer struct {
	prog     *Program
	fn       *Function
	locals   map[*ast.Symbol]*LocalVar
	globals  map[*ast.Symbol]bool
	loopExit []Instr
}

// ---------------------
// ----- functions -----
// ---------------------

// Lower lowers a checked program into IR form. Callers must only pass a Program that check.Check
// reported zero diagnostics for; lowering does not re-validate types.
func Lower(prog *ast.Program) *Program {
	irProg := &Program{}
	globals := map[*ast.Symbol]bool{}
	for _, d := range prog.Globals {
		switch v := d.(type) {
		case *ast.VariableDecl:
			globals[v.Sym] = true
			irProg.Globals = append(irProg.Globals, &GlobalDecl{Sym: v.Sym})
		case *ast.ArrayDecl:
			globals[v.Sym] = true
			irProg.Globals = append(irProg.Globals, &GlobalDecl{Sym: v.Sym})
		}
	}
	for _, fn := range prog.Funcs {
		irProg.Funcs = append(irProg.Funcs, lowerFunc(irProg, globals, fn))
	}
	return irProg
}

func lowerFunc(irProg *Program, globals map[*ast.Symbol]bool, fn *ast.FunctionDefn) *Function {
	l := &lowerer{
		prog:    irProg,
		fn:      &Function{Sym: fn.Sym},
		locals:  map[*ast.Symbol]*LocalVar{},
		globals: globals,
	}
	for _, psym := range fn.Params {
		lv := l.fn.newLocal(psym.Type)
		l.locals[psym] = lv
		l.fn.Params = append(l.fn.Params, lv)
	}
	body := l.lowerStmtList(fn.Body)
	l.fn.Entry = body.start
	return l.fn
}

// single wraps an already-built instruction as a one-instruction fragment.
func single(i Instr) pair {
	return pair{start: i, end: i}
}

// seq composes a followed by b: a's unconditional edge is wired to b's entry, and the combined
// fragment exposes b's exit and value.
func seq(a, b pair) pair {
	setSucc0(a.end, b.start)
	return pair{start: a.start, end: b.end, value: b.value}
}

func (l *lowerer) isLocal(sym *ast.Symbol) (*LocalVar, bool) {
	lv, ok := l.locals[sym]
	return lv, ok
}

// ---- statements ----

func (l *lowerer) lowerStmtList(list *ast.StmtList) pair {
	if len(list.Stmts) == 0 {
		return single(&NopInst{})
	}
	acc := l.lowerStmt(list.Stmts[0])
	for _, s := range list.Stmts[1:] {
		acc = seq(acc, l.lowerStmt(s))
	}
	return acc
}

func (l *lowerer) lowerStmt(s ast.Stmt) pair {
	switch v := s.(type) {
	case *ast.VariableDecl:
		l.locals[v.Sym] = l.fn.newLocal(v.Sym.Type)
		return single(&NopInst{})
	case *ast.Assignment:
		return l.lowerAssignment(v)
	case *ast.Call:
		return l.lowerCallStmt(v)
	case *ast.IfElse:
		return l.lowerIfElse(v)
	case *ast.For:
		return l.lowerFor(v)
	case *ast.Break:
		// Control actually flows to the loop's exit Nop, but seq must not be allowed to
		// rewire that shared node's successor onto whatever dead code might follow break
		// in the same block, so the pair exposes a fresh, disconnected Nop as its end.
		exit := l.loopExit[len(l.loopExit)-1]
		dead := &NopInst{}
		return pair{start: exit, end: dead}
	case *ast.Return:
		return l.lowerReturn(v)
	default:
		return single(&NopInst{})
	}
}

func (l *lowerer) lowerAssignment(v *ast.Assignment) pair {
	val := l.lowerExpr(v.Value)
	switch target := v.Target.(type) {
	case *ast.VarAccess:
		if lv, ok := l.isLocal(target.Sym); ok {
			cp := &CopyInst{Dst: lv, Src: val.value}
			return seq(val, single(cp))
		}
		addr := l.fn.newAddr(target.Sym.Type)
		addrInst := &AddressAt{Dst: addr, Base: target.Sym}
		st := &StoreInst{Src: val.value, Dst: addr}
		return seq(val, seq(single(addrInst), single(st)))
	case *ast.ArrayAccess:
		idx := l.lowerExpr(target.Index)
		addr := l.fn.newAddr(target.Sym.Type.Base)
		addrInst := &AddressAt{Dst: addr, Base: target.Sym, Offset: idx.value}
		st := &StoreInst{Src: val.value, Dst: addr}
		return seq(val, seq(idx, seq(single(addrInst), single(st))))
	default:
		return val
	}
}

func (l *lowerer) lowerCallStmt(v *ast.Call) pair {
	args, frag := l.lowerArgs(v.Args)
	var dst *LocalVar
	if v.Callee.Type.Ret.Kind != ast.KindVoid {
		dst = l.fn.newLocal(v.Callee.Type.Ret)
	}
	call := &CallInst{Dst: dst, Callee: v.Callee, Args: args}
	return seq(frag, single(call))
}

func (l *lowerer) lowerIfElse(v *ast.IfElse) pair {
	cond := l.lowerExpr(v.Cond)
	jmp := &JumpInst{Pred: cond.value}
	setSucc0(cond.end, jmp)

	then := l.lowerStmtList(v.Then)
	setSucc1(jmp, then.start)
	join := &NopInst{}
	setSucc0(then.end, join)

	if v.Else != nil {
		els := l.lowerStmtList(v.Else)
		setSucc0(jmp, els.start)
		setSucc0(els.end, join)
	} else {
		setSucc0(jmp, join)
	}
	return pair{start: cond.start, end: join}
}

func (l *lowerer) lowerFor(v *ast.For) pair {
	init := l.lowerStmt(v.Init)
	cond := l.lowerExpr(v.Cond)
	setSucc0(init.end, cond.start)
	jmp := &JumpInst{Pred: cond.value}
	setSucc0(cond.end, jmp)

	exit := &NopInst{}
	l.loopExit = append(l.loopExit, exit)
	body := l.lowerStmtList(v.Body)
	l.loopExit = l.loopExit[:len(l.loopExit)-1]

	incr := l.lowerStmt(v.Incr)
	setSucc0(body.end, incr.start)
	setSucc0(incr.end, cond.start)

	setSucc1(jmp, body.start)
	setSucc0(jmp, exit)

	return pair{start: init.start, end: exit}
}

// lowerReturn lowers a return statement. Its exit is a fresh, disconnected Nop rather than the
// ReturnInst itself: the grammar does not forbid statements following a return in the same block,
// and seq would otherwise wire that dead code's entry onto the ReturnInst's successor-0, giving a
// terminal instruction a successor and defeating the zero-successor check the backend uses to emit
// the function epilogue.
func (l *lowerer) lowerReturn(v *ast.Return) pair {
	dead := &NopInst{}
	if v.Value == nil {
		ret := &ReturnInst{}
		return pair{start: ret, end: dead}
	}
	val := l.lowerExpr(v.Value)
	ret := &ReturnInst{Value: val.value}
	setSucc0(val.end, ret)
	return pair{start: val.start, end: dead}
}

// ---- expressions ----

// lowerArgs lowers exprs left-to-right into one sequenced fragment (start/end, value unused) and
// returns their values in argument order for the Call/CallExpr that consumes them.
func (l *lowerer) lowerArgs(exprs []ast.Expr) ([]Value, pair) {
	if len(exprs) == 0 {
		return nil, single(&NopInst{})
	}
	vals := make([]Value, len(exprs))
	first := l.lowerExpr(exprs[0])
	vals[0] = first.value
	acc := pair{start: first.start, end: first.end}
	for i := 1; i < len(exprs); i++ {
		p := l.lowerExpr(exprs[i])
		vals[i] = p.value
		acc = seq(acc, pair{start: p.start, end: p.end})
	}
	return vals, acc
}

func (l *lowerer) lowerExpr(e ast.Expr) pair {
	switch v := e.(type) {
	case *ast.LiteralInt:
		n := &NopInst{}
		return pair{start: n, end: n, value: l.prog.internInt(v.Value)}
	case *ast.LiteralBool:
		n := &NopInst{}
		return pair{start: n, end: n, value: l.prog.internBool(v.Value)}
	case *ast.VarAccess:
		return l.lowerVarAccess(v)
	case *ast.ArrayAccess:
		return l.lowerArrayAccess(v)
	case *ast.CallExpr:
		return l.lowerCallExpr(v)
	case *ast.OpExpr:
		return l.lowerOpExpr(v)
	default:
		n := &NopInst{}
		return pair{start: n, end: n}
	}
}

func (l *lowerer) lowerVarAccess(v *ast.VarAccess) pair {
	if lv, ok := l.isLocal(v.Sym); ok {
		n := &NopInst{}
		return pair{start: n, end: n, value: lv}
	}
	addr := l.fn.newAddr(v.Sym.Type)
	addrInst := &AddressAt{Dst: addr, Base: v.Sym}
	load := l.fn.newLocal(v.Sym.Type)
	ld := &LoadInst{Dst: load, Src: addr}
	p := seq(single(addrInst), single(ld))
	p.value = load
	return p
}

func (l *lowerer) lowerArrayAccess(v *ast.ArrayAccess) pair {
	idx := l.lowerExpr(v.Index)
	base := v.Sym.Type.Base
	addr := l.fn.newAddr(base)
	addrInst := &AddressAt{Dst: addr, Base: v.Sym, Offset: idx.value}
	load := l.fn.newLocal(base)
	ld := &LoadInst{Dst: load, Src: addr}
	p := seq(idx, seq(single(addrInst), single(ld)))
	p.value = load
	return p
}

func (l *lowerer) lowerCallExpr(v *ast.CallExpr) pair {
	args, frag := l.lowerArgs(v.Args)
	var dst *LocalVar
	if v.Callee.Type.Ret.Kind != ast.KindVoid {
		dst = l.fn.newLocal(v.Callee.Type.Ret)
	}
	call := &CallInst{Dst: dst, Callee: v.Callee, Args: args}
	p := seq(frag, single(call))
	p.value = dst
	return p
}

func (l *lowerer) lowerOpExpr(v *ast.OpExpr) pair {
	if v.Op == ast.OpNot {
		sub := l.lowerExpr(v.Lhs)
		dst := l.fn.newLocal(ast.Bool)
		not := &UnaryNotInst{Dst: dst, Src: sub.value}
		p := seq(sub, single(not))
		p.value = dst
		return p
	}
	if v.Op == ast.OpAnd {
		return l.lowerShortCircuit(v, false)
	}
	if v.Op == ast.OpOr {
		return l.lowerShortCircuit(v, true)
	}

	lhs := l.lowerExpr(v.Lhs)
	rhs := l.lowerExpr(v.Rhs)
	operands := seq(lhs, pair{start: rhs.start, end: rhs.end})

	var inst Instr
	var dst *LocalVar
	switch v.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		dst = l.fn.newLocal(ast.Int)
		inst = &BinaryOperator{Op: binOpOf(v.Op), Dst: dst, Lhs: lhs.value, Rhs: rhs.value}
	default:
		dst = l.fn.newLocal(ast.Bool)
		inst = &CompareInst{Pred: cmpPredOf(v.Op), Dst: dst, Lhs: lhs.value, Rhs: rhs.value}
	}
	p := seq(operands, single(inst))
	p.value = dst
	return p
}

func binOpOf(op ast.Op) BinOp {
	switch op {
	case ast.OpAdd:
		return BinAdd
	case ast.OpSub:
		return BinSub
	case ast.OpMul:
		return BinMul
	default:
		return BinDiv
	}
}

func cmpPredOf(op ast.Op) CmpPred {
	switch op {
	case ast.OpGE:
		return PredGE
	case ast.OpGT:
		return PredGT
	case ast.OpLE:
		return PredLE
	case ast.OpLT:
		return PredLT
	case ast.OpEQ:
		return PredEQ
	default:
		return PredNE
	}
}

// lowerShortCircuit lowers && (shortOn=false) and || (shortOn=true): lhs is always evaluated;
// rhs is evaluated only when lhs does not already settle the result, per §4.3's short-circuit
// plan. A JumpInst tests lhs, one branch copies the short-circuit constant straight into the
// result local, the other evaluates rhs and copies its value in, and both branches rejoin at a
// single Nop exit.
func (l *lowerer) lowerShortCircuit(v *ast.OpExpr, shortOn bool) pair {
	lhs := l.lowerExpr(v.Lhs)
	dst := l.fn.newLocal(ast.Bool)
	jmp := &JumpInst{Pred: lhs.value}
	setSucc0(lhs.end, jmp)

	short := &CopyInst{Dst: dst, Src: l.prog.internBool(shortOn)}
	rhs := l.lowerExpr(v.Rhs)
	long := &CopyInst{Dst: dst, Src: rhs.value}
	setSucc0(rhs.end, long)

	if shortOn {
		setSucc1(jmp, short)
		setSucc0(jmp, rhs.start)
	} else {
		setSucc0(jmp, short)
		setSucc1(jmp, rhs.start)
	}

	join := &NopInst{}
	setSucc0(short, join)
	setSucc0(long, join)

	return pair{start: lhs.start, end: join, value: dst}
}
