package codegen

import "github.com/tacc-project/tacc/internal/tac"

// BasicBlock is a contiguous run of quadruples with one entry (its first
// quadruple) and one exit: control only ever enters at Start and only
// ever leaves after Quads' last instruction.
type BasicBlock struct {
	Start int // index of the first quadruple in the owning function, for diagnostics
	Quads []tac.Quadruple
}

// GetBasicBlocks partitions quads into maximal basic blocks. A new block
// starts before any quadruple carrying a non-empty label (a jump target)
// and right after any quadruple whose instruction is a jump (IfJump,
// IfFalseJump, Jump, Call, or Return) — mirroring the two leader rules
// the original's GetBasicBlocks implements.
func GetBasicBlocks(quads []tac.Quadruple) []BasicBlock {
	if len(quads) == 0 {
		return nil
	}

	var blocks []BasicBlock
	start := 0
	for i := 1; i < len(quads); i++ {
		if quads[i].Label != "" || tac.IsJump(quads[i-1].Instr) {
			blocks = append(blocks, BasicBlock{Start: start, Quads: quads[start:i]})
			start = i
		}
	}
	blocks = append(blocks, BasicBlock{Start: start, Quads: quads[start:]})
	return blocks
}
