// instr.go defines the instruction variants of §3 as a sum type, the same way ast.Stmt and
// ast.Expr are modelled: one interface plus one struct per variant, sealed with an unexported
// marker method. The source this compiler was modelled on gives instructions a cyclic arena of
// indices to side-step ownership across loop back-edges (§9 Design Notes); that concern is a
// borrow-checker problem the source's language has and Go does not, so successors here are plain
// pointers — the garbage collector is unbothered by the cycles a loop's CFG introduces.
//
// Every instruction embeds InstrBase, which holds its two successor slots. Successor 0 is the
// unconditional/false edge; successor 1 is used only by JumpInst, for the true edge. A nil
// successor means that edge does not exist — zero non-nil successors makes an instruction
// terminal.

package ir

import "cruxc/src/ast"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// BinOp is the operator of a BinaryOperator instruction.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
)

// CmpPred is the predicate of a CompareInst.
type CmpPred int

const (
	PredGE CmpPred = iota
	PredGT
	PredLE
	PredLT
	PredEQ
	PredNE
)

// Instr is one CFG instruction.
type Instr interface {
	instrNode()
	Successors() *[2]Instr
}

// InstrBase carries the two successor slots shared by every instruction variant.
type InstrBase struct {
	Succ [2]Instr
}

// CopyInst copies Src into Dst.
type CopyInst struct {
	InstrBase
	Dst *LocalVar
	Src Value
}

// BinaryOperator computes Dst = Lhs Op Rhs for one of Add/Sub/Mul/Div.
type BinaryOperator struct {
	InstrBase
	Op       BinOp
	Dst      *LocalVar
	Lhs, Rhs Value
}

// CompareInst computes Dst = (Lhs Pred Rhs) as a boolean.
type CompareInst struct {
	InstrBase
	Pred     CmpPred
	Dst      *LocalVar
	Lhs, Rhs Value
}

// UnaryNotInst computes Dst = !Src.
type UnaryNotInst struct {
	InstrBase
	Dst *LocalVar
	Src Value
}

// JumpInst branches on Pred: successor 0 is taken when Pred is false, successor 1 when true.
type JumpInst struct {
	InstrBase
	Pred Value
}

// AddressAt computes the effective address of a global variable (Offset nil) or an array element
// (Offset the index value) into Dst.
type AddressAt struct {
	InstrBase
	Dst    *AddressVar
	Base   *ast.Symbol
	Offset Value
}

// LoadInst loads the value at address Src into Dst.
type LoadInst struct {
	InstrBase
	Dst *LocalVar
	Src *AddressVar
}

// StoreInst stores Src to the address Dst.
type StoreInst struct {
	InstrBase
	Src Value
	Dst *AddressVar
}

// CallInst calls Callee with Args. Dst is nil when the callee returns void.
type CallInst struct {
	InstrBase
	Dst    *LocalVar
	Callee *ast.Symbol
	Args   []Value
}

// ReturnInst returns Value (nil for a void function) and terminates its function: it never has a
// successor.
type ReturnInst struct {
	InstrBase
	Value Value
}

// NopInst is structural glue: a join point, an empty loop/branch body, or a placeholder.
type NopInst struct {
	InstrBase
}

// ---------------------
// ----- functions -----
// ---------------------

func (i *InstrBase) Successors() *[2]Instr { return &i.Succ }

func (*CopyInst) instrNode()        {}
func (*BinaryOperator) instrNode()  {}
func (*CompareInst) instrNode()     {}
func (*UnaryNotInst) instrNode()    {}
func (*JumpInst) instrNode()        {}
func (*AddressAt) instrNode()       {}
func (*LoadInst) instrNode()        {}
func (*StoreInst) instrNode()       {}
func (*CallInst) instrNode()        {}
func (*ReturnInst) instrNode()      {}
func (*NopInst) instrNode()         {}

// setSucc0 wires i's unconditional/false edge to target.
func setSucc0(i Instr, target Instr) {
	i.Successors()[0] = target
}

// setSucc1 wires i's true edge to target (JumpInst only).
func setSucc1(i Instr, target Instr) {
	i.Successors()[1] = target
}
