// print.go renders a lowered Program as readable text for the --verbose flag (§5). It walks each
// function's CFG with an explicit stack rather than recursion, the same traversal shape the x86-64
// backend's linearizer reuses to pick an instruction order (see backend/x86/linearize.go).

package ir

import (
	"fmt"
	"strings"
)

// ---------------------
// ----- functions -----
// ---------------------

// Dump renders p's functions and globals as an indented instruction listing.
func Dump(p *Program) string {
	var sb strings.Builder
	for _, g := range p.Globals {
		fmt.Fprintf(&sb, ".comm %s, %s\n", g.Sym.Name, g.Sym.Type)
	}
	for _, fn := range p.Funcs {
		dumpFunc(&sb, fn)
	}
	return sb.String()
}

func dumpFunc(sb *strings.Builder, fn *Function) {
	fmt.Fprintf(sb, "func %s:\n", fn.Sym.Name)
	ids := map[Instr]int{}
	order := linearizeForDump(fn.Entry, ids)
	for _, i := range order {
		fmt.Fprintf(sb, "  %3d: %s\n", ids[i], describeInstr(i, ids))
	}
}

// linearizeForDump walks the CFG depth-first from entry, assigning each reachable instruction a
// stable print id the first time it is discovered.
func linearizeForDump(entry Instr, ids map[Instr]int) []Instr {
	if entry == nil {
		return nil
	}
	var order []Instr
	visited := map[Instr]bool{}
	stack := []Instr{entry}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if i == nil || visited[i] {
			continue
		}
		visited[i] = true
		ids[i] = len(order)
		order = append(order, i)
		succ := i.Successors()
		if succ[1] != nil {
			stack = append(stack, succ[1])
		}
		if succ[0] != nil {
			stack = append(stack, succ[0])
		}
	}
	return order
}

func describeInstr(i Instr, ids map[Instr]int) string {
	ref := func(t Instr) string {
		if t == nil {
			return "-"
		}
		return fmt.Sprintf("%d", ids[t])
	}
	switch v := i.(type) {
	case *CopyInst:
		return fmt.Sprintf("copy %s <- %v -> %s", describeValue(v.Dst), describeValue(v.Src), ref(v.Succ[0]))
	case *BinaryOperator:
		return fmt.Sprintf("binop %s <- %v, %v -> %s", describeValue(v.Dst), describeValue(v.Lhs), describeValue(v.Rhs), ref(v.Succ[0]))
	case *CompareInst:
		return fmt.Sprintf("cmp %s <- %v, %v -> %s", describeValue(v.Dst), describeValue(v.Lhs), describeValue(v.Rhs), ref(v.Succ[0]))
	case *UnaryNotInst:
		return fmt.Sprintf("not %s <- %v -> %s", describeValue(v.Dst), describeValue(v.Src), ref(v.Succ[0]))
	case *JumpInst:
		return fmt.Sprintf("jump %v -> false:%s true:%s", describeValue(v.Pred), ref(v.Succ[0]), ref(v.Succ[1]))
	case *AddressAt:
		return fmt.Sprintf("addr %s <- %s[%v] -> %s", describeValue(v.Dst), v.Base.Name, describeValue(v.Offset), ref(v.Succ[0]))
	case *LoadInst:
		return fmt.Sprintf("load %s <- *%s -> %s", describeValue(v.Dst), describeValue(v.Src), ref(v.Succ[0]))
	case *StoreInst:
		return fmt.Sprintf("store *%s <- %v -> %s", describeValue(v.Dst), describeValue(v.Src), ref(v.Succ[0]))
	case *CallInst:
		return fmt.Sprintf("call %s <- %s(...) -> %s", describeValue(v.Dst), v.Callee.Name, ref(v.Succ[0]))
	case *ReturnInst:
		return fmt.Sprintf("ret %v", describeValue(v.Value))
	case *NopInst:
		return fmt.Sprintf("nop -> %s", ref(v.Succ[0]))
	default:
		return "?"
	}
}

func describeValue(v Value) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case *IntegerConstant:
		return fmt.Sprintf("#%d", t.Val)
	case *BooleanConstant:
		return fmt.Sprintf("#%t", t.Val)
	case *LocalVar:
		return fmt.Sprintf("t%d", t.ID)
	case *AddressVar:
		return fmt.Sprintf("a%d", t.ID)
	default:
		return "?"
	}
}
