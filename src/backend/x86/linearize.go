// linearize.go implements §4.4's label assignment and linearisation: a depth-first walk from the
// function entry using an explicit stack and a visited set, exactly as the spec prescribes, so
// that recursion depth never tracks CFG size.

package x86

import (
	"cruxc/src/ir"
	"cruxc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// walkOrder is the order instructions were first discovered in a DFS from entry, pushing
// successor 1 before successor 0 so that successor 0 (the conventional fall-through) is popped
// first.
func walkOrder(entry ir.Instr) []ir.Instr {
	var order []ir.Instr
	visited := map[ir.Instr]bool{}
	stack := []ir.Instr{entry}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if i == nil || visited[i] {
			continue
		}
		visited[i] = true
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

// ---------------------
// ----- functions -----
// ---------------------

// assignLabels gives a label to every branch target: any instruction with in-degree greater than
// one, or the true-edge target of a JumpInst (§4.4, step 1). Labels come from a shared Labels
// counter so they are unique across the whole program, not just within one function.
func assignLabels(entry ir.Instr, labelGen *util.Labels) map[ir.Instr]string {
	order := walkOrder(entry)
	indeg := map[ir.Instr]int{}
	for _, i := range order {
		succ := i.Successors()
		for _, s := range succ {
			if s != nil {
				indeg[s]++
			}
		}
	}
	need := map[ir.Instr]bool{}
	for _, i := range order {
		if indeg[i] > 1 {
			need[i] = true
		}
		if j, ok := i.(*ir.JumpInst); ok {
			if t := j.Successors()[1]; t != nil {
				need[t] = true
			}
		}
	}
	labels := map[ir.Instr]string{}
	for _, i := range order {
		if need[i] {
			labels[i] = labelGen.New()
		}
	}
	return labels
}
