package codegen

import "github.com/tacc-project/tacc/internal/symtab"

// Frame accumulates the stack-slot layout for one function: parameters
// at fixed negative offsets from rbp assigned up front, and locals and
// temporaries at positive offsets assigned lazily, the first time each
// one is actually stored to memory.
//
// This module's parameter placement is a documented deviation from the
// platform's real calling convention — parameters are addressed below
// rbp rather than passed in registers/above rbp per the System V ABI —
// because this back end never calls into or is called from code outside
// programs it compiled itself, so the convention only has to be
// internally consistent. See the design ledger for the original's open
// question this resolves.
type Frame struct {
	nextLocalOffset int
}

// NewFrame starts a fresh layout with the local-offset cursor at its
// initial position (§4.F: offsets start at 8 and grow by each
// variable's size).
func NewFrame() *Frame {
	return &Frame{nextLocalOffset: 8}
}

// LayoutParameters assigns each parameter a negative offset from rbp,
// in declaration order, packed back-to-back by size with no padding:
// the first parameter sits at rbp-8-size(first), the second just below
// that, and so on.
func LayoutParameters(params []*symtab.Variable) {
	offset := 8
	for _, p := range params {
		offset += p.Type.Size()
		p.BasePointerOffset = -offset
	}
}

// Offset returns v's stack-slot offset from rbp, assigning one lazily
// from the positive side of the frame if v doesn't have one yet (it is
// a local or temporary, not a parameter — LayoutParameters already
// placed those before codegen runs).
func (f *Frame) Offset(v *symtab.Variable) int {
	if v.BasePointerOffset != 0 {
		return v.BasePointerOffset
	}
	v.BasePointerOffset = f.nextLocalOffset
	f.nextLocalOffset += v.Type.Size()
	return v.BasePointerOffset
}
