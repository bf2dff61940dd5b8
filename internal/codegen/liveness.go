package codegen

import (
	"github.com/tacc-project/tacc/internal/symtab"
	"github.com/tacc-project/tacc/internal/tac"
)

// sentinelNextUse stands in for "no known future use within this
// function" for a variable that is live on entry to a block (a named
// local or parameter) but whose next reference, if any, lies beyond
// what the backward pass can see from here.
const sentinelNextUse = 1000

// LiveUseInfo is the liveness/next-use status recorded for one operand
// slot of one quadruple, as it stood immediately before that quadruple
// executes.
type LiveUseInfo struct {
	Live    bool
	NextUse int // -1 means "no next use"
}

// QuadInfo carries the pre-quadruple LiveUseInfo for each of a
// quadruple's three operand slots, in the same order codegen needs
// them when deciding whether a source value can be dropped after use.
type QuadInfo struct {
	Result LiveUseInfo
	Arg1   LiveUseInfo
	Arg2   LiveUseInfo
}

// ResetLiveness seeds every variable reachable from scope (the
// function's parameter scope and all its descendants) to its starting
// liveness and register-residency state, run once at the start of each
// basic block: named variables are assumed live with no known next use
// within this analysis pass (the caller, or a later block, may still
// need them) and are marked as currently resident in memory — a
// variable carries its stack slot across block boundaries even when
// nothing inside this block has stored to it yet. Compiler-generated
// temporaries are assumed dead and hold no location at all, since
// nothing outside the expression that built them ever refers to them
// by name once that expression is done with them.
func ResetLiveness(scope *symtab.Scope) {
	scope.Walk(func(v *symtab.Variable) {
		v.ClearLocations()
		if v.IsTemporary() {
			v.Live = false
			v.NextUse = -1
		} else {
			v.Live = true
			v.NextUse = sentinelNextUse
			v.AddLocation(symtab.Location{Kind: symtab.MemoryLocation})
		}
	})
}

// AnalyzeBlock runs the backward liveness/next-use pass over a single
// basic block and returns one QuadInfo per quadruple, aligned with
// block.Quads. It mutates the Live/NextUse fields of every variable
// referenced in the block as it goes — callers must call ResetLiveness
// once per block, before calling AnalyzeBlock, exactly as the original
// resets the whole function's symbol table at each block boundary.
//
// For each quadruple, in reverse order, the pass first snapshots the
// current (pre-update) status of the result, arg1, and arg2 operands —
// that snapshot describes the state the variable is in when the
// quadruple executes — and only then applies the quadruple's effect:
// the result is killed (it's about to be overwritten), and arg1/arg2
// become live with a next use at this quadruple's position.
func AnalyzeBlock(block BasicBlock) []QuadInfo {
	n := len(block.Quads)
	info := make([]QuadInfo, n)

	for i := n - 1; i >= 0; i-- {
		q := block.Quads[i]
		info[i] = QuadInfo{
			Result: snapshot(q.Result),
			Arg1:   snapshot(q.Arg1),
			Arg2:   snapshot(q.Arg2),
		}

		// IfJump/IfFalseJump repurpose the Result slot to carry the
		// condition operand being tested, not a value being defined —
		// it must be treated as a use, like arg1/arg2, not a kill.
		if q.Result.Kind == tac.VarRef {
			if q.Instr == tac.IfJump || q.Instr == tac.IfFalseJump {
				q.Result.Var.Live = true
				q.Result.Var.NextUse = i
			} else {
				q.Result.Var.Live = false
				q.Result.Var.NextUse = -1
			}
		}
		if q.Arg1.Kind == tac.VarRef {
			q.Arg1.Var.Live = true
			q.Arg1.Var.NextUse = i
		}
		if q.Arg2.Kind == tac.VarRef {
			q.Arg2.Var.Live = true
			q.Arg2.Var.NextUse = i
		}
	}

	return info
}

func snapshot(a tac.Address) LiveUseInfo {
	if a.Kind != tac.VarRef {
		return LiveUseInfo{}
	}
	return LiveUseInfo{Live: a.Var.Live, NextUse: a.Var.NextUse}
}
