package codegen

import (
	"testing"

	"github.com/tacc-project/tacc/internal/tac"
)

func TestGetBasicBlocksSplitsOnLabelAndJump(t *testing.T) {
	quads := []tac.Quadruple{
		{Instr: tac.Add},
		{Instr: tac.Jump},
		{Label: "L1", Instr: tac.Sub},
		{Instr: tac.Mul},
		{Instr: tac.Return},
		{Label: "L2", Instr: tac.Add},
	}
	blocks := GetBasicBlocks(quads)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %+v", len(blocks), blocks)
	}
	if len(blocks[0].Quads) != 2 {
		t.Errorf("expected block 0 to hold the Add/Jump pair, got %d quads", len(blocks[0].Quads))
	}
	if len(blocks[1].Quads) != 3 {
		t.Errorf("expected block 1 to hold Sub/Mul/Return, got %d quads", len(blocks[1].Quads))
	}
	if len(blocks[2].Quads) != 1 {
		t.Errorf("expected block 2 to hold the trailing labeled Add, got %d quads", len(blocks[2].Quads))
	}
}

func TestGetBasicBlocksSingleBlockWhenNoSplits(t *testing.T) {
	quads := []tac.Quadruple{{Instr: tac.Add}, {Instr: tac.Sub}, {Instr: tac.Assign}}
	blocks := GetBasicBlocks(quads)
	if len(blocks) != 1 || len(blocks[0].Quads) != 3 {
		t.Fatalf("expected a single 3-quad block, got %+v", blocks)
	}
}

func TestGetBasicBlocksEmpty(t *testing.T) {
	if blocks := GetBasicBlocks(nil); blocks != nil {
		t.Fatalf("expected nil for an empty quad list, got %+v", blocks)
	}
}
