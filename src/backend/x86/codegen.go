// codegen.go implements §4.4: translating a lowered ir.Program into AT&T-syntax x86-64 assembly
// targeting the System-V AMD64 ABI. There is no optimisation pass and no register allocator
// (§9 Design Notes, "deliberately unoptimised x86-64 stack machine") — every instruction reads its
// operands out of memory into a scratch register, computes, and writes the result straight back.
//
// The open question on unwinding stack-passed call arguments (§9) is resolved here the way the
// note recommends: each CallInst balances its own pushes immediately after the call instruction,
// so ReturnInst never needs to know how many arguments some earlier call pushed.

package x86

import (
	"fmt"

	"cruxc/src/ast"
	"cruxc/src/ir"
	"cruxc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// generator holds the state threaded across one whole-program code generation pass: the output
// writer and the program-wide label counter. Per-function state (the stack frame and this
// function's branch-target labels) is rebuilt fresh for every function.
type generator struct {
	w      *util.Writer
	labels *util.Labels
	frame  *frame
	target map[ir.Instr]string
}

// ---------------------
// ----- functions -----
// ---------------------

// Generate renders prog as a complete assembly source file: global declarations followed by one
// function body per ir.Function.
func Generate(prog *ir.Program) string {
	g := &generator{w: util.NewWriter(), labels: util.NewLabels()}
	for _, gl := range prog.Globals {
		g.emitGlobal(gl)
	}
	for _, fn := range prog.Funcs {
		g.emitFunction(fn)
	}
	return g.w.String()
}

func (g *generator) emitGlobal(gl *ir.GlobalDecl) {
	g.w.Directive(".comm %s, %d, 8", gl.Sym.Name, 8*globalWords(gl.Sym.Type))
}

func globalWords(t *ast.Type) int64 {
	if t.Kind == ast.KindArray {
		return t.Extent
	}
	return 1
}

func (g *generator) emitFunction(fn *ir.Function) {
	g.frame = newFrame(fn)
	g.target = assignLabels(fn.Entry, g.labels)

	g.w.Directive(".globl %s", fn.Sym.Name)
	g.w.Label(fn.Sym.Name)
	g.w.Ins2("enter", fmt.Sprintf("$%d", g.frame.frameBytes()), "$0")
	g.emitPrologueMoves(fn)
	g.emitBody(fn.Entry)
}

// emitPrologueMoves copies incoming arguments out of the calling convention's registers (or the
// caller's stack frame, for a seventh argument or beyond) into this function's own slots.
func (g *generator) emitPrologueMoves(fn *ir.Function) {
	for i, p := range fn.Params {
		dst := g.frame.ref(p)
		if i < len(argRegs) {
			g.w.Ins2("movq", argRegs[i], dst)
			continue
		}
		callerOffset := 16 + 8*(i-len(argRegs))
		g.w.Ins2("movq", fmt.Sprintf("%d(%%rbp)", callerOffset), scratch1)
		g.w.Ins2("movq", scratch1, dst)
	}
}

// emitBody linearises the CFG from entry and emits one instruction at a time, printing a label
// before any instruction the label pass marked as a branch target, and an explicit jmp in place
// of re-inlining an instruction already emitted once (§4.4, "Linearisation").
func (g *generator) emitBody(entry ir.Instr) {
	visited := map[ir.Instr]bool{}
	stack := []ir.Instr{entry}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if i == nil {
			continue
		}
		if visited[i] {
			g.w.Ins1("jmp", g.target[i])
			continue
		}
		visited[i] = true
		if lbl, ok := g.target[i]; ok {
			g.w.Label(lbl)
		}
		g.emitInstr(i)
		succ := i.Successors()
		if succ[0] == nil && succ[1] == nil {
			g.w.Ins0("leave")
			g.w.Ins0("ret")
			continue
		}
		if succ[1] != nil {
			stack = append(stack, succ[1])
		}
		if succ[0] != nil {
			stack = append(stack, succ[0])
		}
	}
}

func (g *generator) emitInstr(i ir.Instr) {
	switch v := i.(type) {
	case *ir.CopyInst:
		g.emitCopy(v)
	case *ir.BinaryOperator:
		g.emitBinaryOperator(v)
	case *ir.CompareInst:
		g.emitCompare(v)
	case *ir.UnaryNotInst:
		g.emitUnaryNot(v)
	case *ir.JumpInst:
		g.emitJump(v)
	case *ir.AddressAt:
		g.emitAddressAt(v)
	case *ir.LoadInst:
		g.emitLoad(v)
	case *ir.StoreInst:
		g.emitStore(v)
	case *ir.CallInst:
		g.emitCall(v)
	case *ir.ReturnInst:
		g.emitReturn(v)
	case *ir.NopInst:
		// Structural glue only; its label, if any, was already printed by emitBody.
	}
}

func (g *generator) emitCopy(v *ir.CopyInst) {
	dst := g.frame.ref(v.Dst)
	if isConst(v.Src) {
		g.w.Ins2("movq", g.frame.operand(v.Src), dst)
		return
	}
	g.w.Ins2("movq", g.frame.operand(v.Src), scratch1)
	g.w.Ins2("movq", scratch1, dst)
}

func (g *generator) emitBinaryOperator(v *ir.BinaryOperator) {
	dst := g.frame.ref(v.Dst)
	if v.Op == ir.BinDiv {
		g.w.Ins2("movq", g.frame.operand(v.Lhs), accum)
		g.w.Ins0("cqto")
		g.emitDivisor(v.Rhs)
		g.w.Ins2("movq", accum, dst)
		return
	}
	g.w.Ins2("movq", g.frame.operand(v.Lhs), scratch1)
	op := map[ir.BinOp]string{ir.BinAdd: "addq", ir.BinSub: "subq", ir.BinMul: "imulq"}[v.Op]
	g.w.Ins2(op, g.frame.operand(v.Rhs), scratch1)
	g.w.Ins2("movq", scratch1, dst)
}

// emitDivisor stages the divisor for idivq, which rejects an immediate operand.
func (g *generator) emitDivisor(rhs ir.Value) {
	if isConst(rhs) {
		g.w.Ins2("movq", g.frame.operand(rhs), scratch2)
		g.w.Ins1("idivq", scratch2)
		return
	}
	g.w.Ins1("idivq", g.frame.operand(rhs))
}

var cmpSuffix = map[ir.CmpPred]string{
	ir.PredGE: "ge",
	ir.PredGT: "g",
	ir.PredLE: "le",
	ir.PredLT: "l",
	ir.PredEQ: "e",
	ir.PredNE: "ne",
}

func (g *generator) emitCompare(v *ir.CompareInst) {
	dst := g.frame.ref(v.Dst)
	g.w.Ins2("movq", g.frame.operand(v.Lhs), scratch2)
	g.w.Ins2("movq", "$1", scratch1)
	g.w.Ins2("movq", "$0", accum)
	g.w.Ins2("cmpq", g.frame.operand(v.Rhs), scratch2)
	g.w.Ins2("cmov"+cmpSuffix[v.Pred], scratch1, accum)
	g.w.Ins2("movq", accum, dst)
}

func (g *generator) emitUnaryNot(v *ir.UnaryNotInst) {
	dst := g.frame.ref(v.Dst)
	g.w.Ins2("movq", "$1", scratch2)
	g.w.Ins2("subq", g.frame.operand(v.Src), scratch2)
	g.w.Ins2("movq", scratch2, dst)
}

func (g *generator) emitJump(v *ir.JumpInst) {
	g.w.Ins2("movq", g.frame.operand(v.Pred), scratch1)
	g.w.Ins2("cmpq", "$1", scratch1)
	g.w.Ins1("je", g.target[v.Succ[1]])
}

func (g *generator) emitAddressAt(v *ir.AddressAt) {
	dst := g.frame.ref(v.Dst)
	g.w.Ins2("movq", v.Base.Name+"@GOTPCREL(%rip)", scratch2)
	if v.Offset != nil {
		g.w.Ins2("movq", g.frame.operand(v.Offset), scratch1)
		g.w.Ins2("imulq", "$8", scratch1)
		g.w.Ins2("addq", scratch1, scratch2)
	}
	g.w.Ins2("movq", scratch2, dst)
}

func (g *generator) emitLoad(v *ir.LoadInst) {
	dst := g.frame.ref(v.Dst)
	deref := fmt.Sprintf("(%s)", scratch2)
	g.w.Ins2("movq", g.frame.ref(v.Src), scratch2)
	g.w.Ins2("movq", deref, scratch1)
	g.w.Ins2("movq", scratch1, dst)
}

func (g *generator) emitStore(v *ir.StoreInst) {
	deref := fmt.Sprintf("(%s)", scratch2)
	g.w.Ins2("movq", g.frame.ref(v.Dst), scratch2)
	g.w.Ins2("movq", g.frame.operand(v.Src), scratch1)
	g.w.Ins2("movq", scratch1, deref)
}

// emitCall places the first six arguments in registers and pushes the rest right-to-left, padding
// with a bare $0 when the stack-passed count is odd so the call site keeps 16-byte alignment
// (§8, "Call alignment"), then balances its own pushes right after the call returns.
func (g *generator) emitCall(v *ir.CallInst) {
	regArgs := v.Args
	var stackArgs []ir.Value
	if len(v.Args) > len(argRegs) {
		regArgs = v.Args[:len(argRegs)]
		stackArgs = v.Args[len(argRegs):]
	}

	pushed := len(stackArgs)
	if pushed%2 != 0 {
		g.w.Ins1("pushq", "$0")
		pushed++
	}
	for i := len(stackArgs) - 1; i >= 0; i-- {
		g.w.Ins1("pushq", g.frame.operand(stackArgs[i]))
	}
	for i, a := range regArgs {
		g.w.Ins2("movq", g.frame.operand(a), argRegs[i])
	}

	g.w.Ins1("call", v.Callee.Name)

	if pushed > 0 {
		g.w.Ins2("addq", fmt.Sprintf("$%d", 8*pushed), "%rsp")
	}
	if v.Dst != nil {
		g.w.Ins2("movq", accum, g.frame.ref(v.Dst))
	}
}

func (g *generator) emitReturn(v *ir.ReturnInst) {
	if v.Value != nil {
		g.w.Ins2("movq", g.frame.operand(v.Value), accum)
	}
}
