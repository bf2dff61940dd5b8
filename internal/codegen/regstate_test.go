package codegen

import (
	"testing"

	"github.com/tacc-project/tacc/internal/symtab"
)

func TestGetFreeRegisterReturnsEmptyWithoutSpilling(t *testing.T) {
	f := NewRegisterFile()
	var spilled bool
	d := f.GetFreeRegister(func(*RegisterDescriptor) { spilled = true })
	if spilled {
		t.Fatalf("did not expect a spill when a register is free")
	}
	if !d.Empty() {
		t.Fatalf("expected an empty descriptor")
	}
}

func TestGetFreeRegisterSpillsWhenAllOccupied(t *testing.T) {
	f := NewRegisterFile()
	vars := make([]*symtab.Variable, numRegisters)
	for i := range f.regs {
		v := &symtab.Variable{Name: "v"}
		vars[i] = v
		f.regs[i].bind(v, i)
	}

	var spilledDesc *RegisterDescriptor
	d := f.GetFreeRegister(func(rd *RegisterDescriptor) { spilledDesc = rd })
	if spilledDesc == nil {
		t.Fatalf("expected a spill callback to fire")
	}
	if d != spilledDesc {
		t.Fatalf("expected the returned descriptor to be the spilled one")
	}
	if !d.Empty() {
		t.Fatalf("expected the spilled descriptor to be cleared")
	}
}

func TestChooseVictimPrefersOccupantAlreadyInMemory(t *testing.T) {
	f := NewRegisterFile()
	inMemOnly := &symtab.Variable{Name: "mem", Locations: []symtab.Location{{Kind: symtab.MemoryLocation}}}
	inRegOnly := &symtab.Variable{Name: "reg"}
	f.regs[RAX].bind(inRegOnly, 100)
	f.regs[RBX].bind(inMemOnly, 1)

	victim := f.chooseVictim()
	if victim.Reg != RBX {
		t.Fatalf("expected RBX (already in memory) to be chosen over RAX (farther next-use only), got %v", victim.Reg)
	}
}

func TestChooseVictimFallsBackToFarthestNextUse(t *testing.T) {
	f := NewRegisterFile()
	near := &symtab.Variable{Name: "near"}
	far := &symtab.Variable{Name: "far"}
	f.regs[RAX].bind(near, 2)
	f.regs[RBX].bind(far, 50)

	victim := f.chooseVictim()
	if victim.Reg != RBX {
		t.Fatalf("expected RBX (farthest next-use) to be chosen, got %v", victim.Reg)
	}
}

func TestReservedRegistersAreNeverChosen(t *testing.T) {
	f := NewRegisterFile()
	for i := range f.regs {
		f.regs[i].bind(&symtab.Variable{Name: "v"}, 10)
	}
	f.reserved[RAX] = true

	victim := f.chooseVictim()
	if victim.Reg == RAX {
		t.Fatalf("did not expect the reserved register to be chosen as a victim")
	}
}

func TestClearEmptiesAllRegistersAndReservations(t *testing.T) {
	f := NewRegisterFile()
	f.regs[RAX].bind(&symtab.Variable{Name: "v"}, 1)
	f.reserved[RDX] = true

	f.Clear()

	for i := range f.regs {
		if !f.regs[i].Empty() {
			t.Fatalf("expected register %d to be empty after Clear", i)
		}
		if f.reserved[i] {
			t.Fatalf("expected register %d to be unreserved after Clear", i)
		}
	}
}
