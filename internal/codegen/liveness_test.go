package codegen

import (
	"testing"

	"github.com/tacc-project/tacc/internal/symtab"
	"github.com/tacc-project/tacc/internal/tac"
)

func TestResetLivenessSeedsNamedAndTemporary(t *testing.T) {
	scope := symtab.NewScope(nil)
	a := scope.InsertVariable(&symtab.Variable{Name: "a"})
	tmp := scope.InsertVariable(&symtab.Variable{Name: "__temp0"})

	ResetLiveness(scope)

	if !a.Live || a.NextUse != sentinelNextUse {
		t.Errorf("expected named variable to start live with the sentinel next-use, got live=%v nextUse=%d", a.Live, a.NextUse)
	}
	if tmp.Live || tmp.NextUse != -1 {
		t.Errorf("expected temporary to start dead with no next use, got live=%v nextUse=%d", tmp.Live, tmp.NextUse)
	}
}

func TestAnalyzeBlockArithmeticChain(t *testing.T) {
	scope := symtab.NewScope(nil)
	a := scope.InsertVariable(&symtab.Variable{Name: "a"})
	b := scope.InsertVariable(&symtab.Variable{Name: "b"})
	tmp := scope.InsertVariable(&symtab.Variable{Name: "__temp0"})
	ResetLiveness(scope)

	block := BasicBlock{Quads: []tac.Quadruple{
		{Instr: tac.Add, Result: tac.VarAddr(tmp), Arg1: tac.VarAddr(a), Arg2: tac.VarAddr(b)},
		{Instr: tac.Return, Arg1: tac.VarAddr(tmp)},
	}}
	info := AnalyzeBlock(block)
	if len(info) != 2 {
		t.Fatalf("expected 2 QuadInfo entries, got %d", len(info))
	}

	if !info[0].Arg1.Live || info[0].Arg1.NextUse != sentinelNextUse {
		t.Errorf("expected a's snapshot at quad 0 to show live with the sentinel next-use (no earlier occurrence), got %+v", info[0].Arg1)
	}
	if !info[0].Result.Live {
		t.Errorf("expected __temp0's snapshot at quad 0 to show it will be used next at quad 1")
	}
	if info[0].Result.NextUse != 1 {
		t.Errorf("expected __temp0's recorded next use to be quad 1, got %d", info[0].Result.NextUse)
	}

	if tmp.Live {
		t.Errorf("expected __temp0 to be dead before quad 0 (the Add defines it there)")
	}
	if !a.Live || a.NextUse != 0 {
		t.Errorf("expected a to be live after the pass with its next use at quad 0 (the Add reads it), got live=%v nextUse=%d", a.Live, a.NextUse)
	}
}

func TestAnalyzeBlockIfFalseJumpTreatsConditionAsUse(t *testing.T) {
	scope := symtab.NewScope(nil)
	cond := scope.InsertVariable(&symtab.Variable{Name: "cond"})
	ResetLiveness(scope)

	block := BasicBlock{Quads: []tac.Quadruple{
		{Instr: tac.IfFalseJump, Result: tac.VarAddr(cond), Arg1: tac.LabelOperand("L1")},
	}}
	info := AnalyzeBlock(block)

	if !info[0].Result.Live {
		t.Fatalf("expected the condition operand to be reported live, not treated as a definition")
	}
	if !cond.Live {
		t.Errorf("expected cond to remain live after IfFalseJump reads it")
	}
}
