package codegen

import "github.com/tacc-project/tacc/internal/symtab"

// occupant is one variable currently resident in a register, together
// with the next-use distance that was known at the moment it was bound
// there. The hint goes stale as the block progresses past it, but it is
// the only per-variable next-use signal available outside of the three
// operand slots of the instruction currently being emitted, and is
// exactly what spill victim-selection (§9.4) needs: a cheap proxy for
// "how soon will freeing this register hurt".
type occupant struct {
	variable *symtab.Variable
	nextUse  int
}

// RegisterDescriptor tracks which variables a register currently holds.
// Most of the time content holds exactly one variable; an Assign binds its
// result into the register already holding its source, so that register
// holds both until one of them is redefined or the register is spilled.
type RegisterDescriptor struct {
	Reg     Register
	content []occupant
}

// Content returns the variables currently bound to this register.
func (d *RegisterDescriptor) Content() []*symtab.Variable {
	out := make([]*symtab.Variable, len(d.content))
	for i, o := range d.content {
		out[i] = o.variable
	}
	return out
}

// Empty reports whether no variable is currently bound here.
func (d *RegisterDescriptor) Empty() bool { return len(d.content) == 0 }

func (d *RegisterDescriptor) bind(v *symtab.Variable, nextUse int) {
	d.content = append(d.content, occupant{variable: v, nextUse: nextUse})
}

func (d *RegisterDescriptor) clear() { d.content = nil }

// RegisterFile is the register state machine (§4.C): it tracks, per
// register, which variables it currently holds, and finds or frees a
// register on demand.
type RegisterFile struct {
	regs [numRegisters]RegisterDescriptor
	// reserved marks registers the current instruction has claimed for
	// a specific purpose (RAX for Return/Div, RDX for Div) and that
	// must not be handed out or chosen as a spill victim meanwhile.
	reserved [numRegisters]bool
}

// NewRegisterFile builds a RegisterFile with every register initialized
// to its identity and empty content.
func NewRegisterFile() *RegisterFile {
	f := &RegisterFile{}
	for i := range f.regs {
		f.regs[i].Reg = Register(i)
	}
	return f
}

// Clear empties every register's content set — run once per basic block.
func (f *RegisterFile) Clear() {
	for i := range f.regs {
		f.regs[i].clear()
		f.reserved[i] = false
	}
}

// Descriptor returns the descriptor for r.
func (f *RegisterFile) Descriptor(r Register) *RegisterDescriptor { return &f.regs[r] }

// Reserve marks r unavailable to GetFreeRegister, spilling its current
// occupants first via evict if it is occupied.
func (f *RegisterFile) Reserve(r Register, evict func(*RegisterDescriptor)) {
	if !f.regs[r].Empty() {
		evict(&f.regs[r])
	}
	f.reserved[r] = true
}

// Release un-reserves r.
func (f *RegisterFile) Release(r Register) { f.reserved[r] = false }

// GetFreeRegister returns a register with empty content, per the
// allocator contract (§8 property 2): its content is empty before the
// caller attaches anything. If none is free, it spills a victim chosen
// by spillVictim and returns that register instead (§9.4's redesign —
// the original throws NoFreeRegister here unconditionally).
//
// spill is called with the chosen descriptor so the caller (which alone
// knows how to emit a store instruction) can write back any occupant
// that isn't already safely in memory.
func (f *RegisterFile) GetFreeRegister(spill func(*RegisterDescriptor)) *RegisterDescriptor {
	for i := range f.regs {
		if !f.reserved[i] && f.regs[i].Empty() {
			return &f.regs[i]
		}
	}

	victim := f.chooseVictim()
	spill(victim)
	victim.clear()
	return victim
}

// chooseVictim implements the preference order the design notes
// describe: prefer a register whose occupant is already mirrored in
// memory (freeing it costs nothing), else the occupant with the
// farthest known next use, else whatever is first.
func (f *RegisterFile) chooseVictim() *RegisterDescriptor {
	var best *RegisterDescriptor
	bestHasMemoryCopy := false
	bestNextUse := -1

	for i := range f.regs {
		if f.reserved[i] || f.regs[i].Empty() {
			continue
		}
		d := &f.regs[i]
		hasMemoryCopy := allOccupantsInMemory(d)
		farthest := farthestNextUse(d)

		switch {
		case best == nil:
			best, bestHasMemoryCopy, bestNextUse = d, hasMemoryCopy, farthest
		case hasMemoryCopy && !bestHasMemoryCopy:
			best, bestHasMemoryCopy, bestNextUse = d, hasMemoryCopy, farthest
		case hasMemoryCopy == bestHasMemoryCopy && farthest > bestNextUse:
			best, bestHasMemoryCopy, bestNextUse = d, hasMemoryCopy, farthest
		}
	}
	return best
}

func allOccupantsInMemory(d *RegisterDescriptor) bool {
	for _, o := range d.content {
		if !o.variable.InMemory() {
			return false
		}
	}
	return true
}

func farthestNextUse(d *RegisterDescriptor) int {
	max := -1
	for _, o := range d.content {
		if o.nextUse > max {
			max = o.nextUse
		}
	}
	return max
}
