package codegen

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tacc-project/tacc/internal/errs"
	"github.com/tacc-project/tacc/internal/symtab"
	"github.com/tacc-project/tacc/internal/tac"
)

// arithmeticOpcodes maps a TAC arithmetic/boolean instruction onto the
// NASM mnemonic it lowers to.
var arithmeticOpcodes = map[tac.InstructionType]string{
	tac.Add: "add", tac.Sub: "sub", tac.Mul: "mul", tac.Div: "div",
	tac.And: "and", tac.Or: "or",
}

// comparisonOpcodes maps a TAC comparison onto the NASM set-byte
// mnemonic that materializes its boolean result.
var comparisonOpcodes = map[tac.InstructionType]string{
	tac.Less: "setl", tac.LessEqual: "setle",
	tac.Greater: "setg", tac.GreaterEqual: "setge",
	tac.Equal: "sete", tac.NotEqual: "setne",
}

// Emitter walks one function's basic blocks and writes NASM-style
// assembly to w, driving a RegisterFile and Frame as it goes.
type Emitter struct {
	w     io.Writer
	regs  *RegisterFile
	frame *Frame
}

// NewEmitter builds an Emitter that writes to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w, regs: NewRegisterFile(), frame: NewFrame()}
}

func (e *Emitter) emit(format string, args ...any) {
	fmt.Fprintf(e.w, format, args...)
}

// Generate writes the full program: the NASM section header, then one
// label and body per function.
func Generate(w io.Writer, functions []tac.Function) error {
	e := NewEmitter(w)
	e.emit("section .text\nglobal main\n")
	for _, fn := range functions {
		if err := e.function(fn); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) function(fn tac.Function) error {
	e.frame = NewFrame()
	LayoutParameters(fn.Sym.Parameters)

	e.emit("%s:\n", fn.Sym.Name)
	e.emit("push rbp\nmov rbp, rsp\n")

	scope := fn.Sym.ParameterScope
	for _, block := range GetBasicBlocks(fn.Quads) {
		ResetLiveness(scope)
		e.regs.Clear()
		info := AnalyzeBlock(block)

		for i, q := range block.Quads {
			if q.Label != "" {
				e.emit("%s: ", q.Label)
			}
			if err := e.quad(q, info[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Emitter) quad(q tac.Quadruple, info QuadInfo) error {
	if opcode, ok := arithmeticOpcodes[q.Instr]; ok {
		return e.arithmetic(opcode, q, info)
	}
	if opcode, ok := comparisonOpcodes[q.Instr]; ok {
		return e.comparison(opcode, q, info)
	}

	switch q.Instr {
	case tac.Assign:
		return e.assign(q, info)
	case tac.Param:
		return e.param(q)
	case tac.Return:
		return e.ret(q)
	case tac.IfFalseJump:
		return e.ifFalseJump(q)
	case tac.Jump:
		e.emit("jmp %s\n", q.Result.Label)
		return nil
	case tac.Call, tac.IfJump, tac.Not, tac.Negate:
		return errs.New(errs.NotImplemented, q.Instr.String()+" is not implemented by this back end")
	default:
		return errs.New(errs.UnsupportedOpcode, "unsupported three-address-code operation", "instr", q.Instr.String())
	}
}

// load ensures v's current value is available in some register,
// loading it from its stack slot if it isn't resident yet, and returns
// the descriptor for that register.
func (e *Emitter) load(v *symtab.Variable) (*RegisterDescriptor, error) {
	if reg, ok := v.InRegister(); ok {
		return e.regs.Descriptor(Register(reg)), nil
	}

	d := e.regs.GetFreeRegister(e.spill)
	d.bind(v, v.NextUse)
	v.AddLocation(symtab.Location{Kind: symtab.RegisterLocation, Reg: int(d.Reg)})

	mnemonic := "mov"
	if v.Type.Size() < 8 {
		mnemonic = "movsx"
	}
	e.emit("%s %s, %s [rbp + %d]\n", mnemonic, subRegister(d.Reg, v.Type.Size()), sizeSpecifier(v.Type.Size()), v.BasePointerOffset)
	return d, nil
}

// store writes v's register-resident value back to its stack slot, if
// it isn't already mirrored there.
func (e *Emitter) store(v *symtab.Variable) error {
	reg, ok := v.InRegister()
	if !ok {
		return errs.New(errs.NotInRegister, "store: variable is not resident in any register", "variable", v.Name)
	}
	if v.InMemory() {
		return nil
	}
	e.storeFromReg(v, Register(reg))
	return nil
}

func (e *Emitter) storeFromReg(v *symtab.Variable, reg Register) {
	off := e.frame.Offset(v)
	e.emit("mov %s [rbp + %d], %s\n", sizeSpecifier(v.Type.Size()), off, subRegister(reg, v.Type.Size()))
	v.AddLocation(symtab.Location{Kind: symtab.MemoryLocation})
}

// spill is handed to RegisterFile.GetFreeRegister/Reserve: it writes
// back any occupant of d that isn't already mirrored in memory, then
// drops the register location from each occupant's descriptor set.
func (e *Emitter) spill(d *RegisterDescriptor) {
	for _, v := range d.Content() {
		if !v.InMemory() {
			e.storeFromReg(v, d.Reg)
		}
		v.RemoveRegister(int(d.Reg))
	}
}

// copyOrDrop runs after a variable has been consumed as a source
// operand: if it's still needed later (info.NextUse != -1) and the only
// copy is register-resident, it is copied into a second register with a
// mov; if a memory copy already exists, a fresh register is recorded in
// both descriptor sets without emitting any move. If it isn't needed
// later it is written back to memory (unless it's a temporary, which
// nothing will ever read again).
func (e *Emitter) copyOrDrop(v *symtab.Variable, info LiveUseInfo) error {
	reg, ok := v.InRegister()
	if !ok {
		return errs.New(errs.NotInRegister, "copyOrDrop: variable is not resident in any register", "variable", v.Name)
	}

	if v.InMemory() {
		if info.NextUse != -1 {
			d := e.regs.GetFreeRegister(e.spill)
			d.bind(v, info.NextUse)
			v.AddLocation(symtab.Location{Kind: symtab.RegisterLocation, Reg: int(d.Reg)})
		}
		return nil
	}

	if info.NextUse != -1 {
		d := e.regs.GetFreeRegister(e.spill)
		e.emit("mov %s, %s\n", d.Reg, Register(reg))
		d.bind(v, info.NextUse)
		v.AddLocation(symtab.Location{Kind: symtab.RegisterLocation, Reg: int(d.Reg)})
		return nil
	}

	if !v.IsTemporary() {
		return e.store(v)
	}
	return nil
}

// overwriteWithResult binds result to d, evicting whatever else d was
// holding (their register location is dropped from their own
// descriptor set, but they keep any memory location they already had).
func (e *Emitter) overwriteWithResult(result *symtab.Variable, d *RegisterDescriptor, nextUse int) {
	for _, v := range d.Content() {
		if v != result {
			v.RemoveRegister(int(d.Reg))
		}
	}
	d.clear()
	result.ClearLocations()
	result.AddLocation(symtab.Location{Kind: symtab.RegisterLocation, Reg: int(d.Reg)})
	d.bind(result, nextUse)
}

func constOperand(a tac.Address) string {
	switch a.Kind {
	case tac.ConstBool:
		return strconv.Itoa(boolToInt(a.BoolVal))
	case tac.ConstFloat:
		return strconv.FormatFloat(a.FloatVal, 'g', -1, 64)
	default:
		return strconv.FormatInt(a.IntVal, 10)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (e *Emitter) arithmetic(opcode string, q tac.Quadruple, info QuadInfo) error {
	result := q.Result.Var

	// Real x86-64 division implicitly consumes and clobbers both RDX
	// and RAX; reserve them for the duration of this instruction so
	// neither gets handed out (or spilled) as an ordinary operand
	// register while Div is in progress.
	if q.Instr == tac.Div {
		e.regs.Reserve(RAX, e.spill)
		e.regs.Reserve(RDX, e.spill)
		defer e.regs.Release(RAX)
		defer e.regs.Release(RDX)
	}

	switch {
	case q.Arg1.Kind == tac.VarRef && q.Arg2.Kind == tac.VarRef:
		d1, err := e.load(q.Arg1.Var)
		if err != nil {
			return err
		}
		d2, err := e.load(q.Arg2.Var)
		if err != nil {
			return err
		}
		if err := e.copyOrDrop(q.Arg1.Var, info.Arg1); err != nil {
			return err
		}
		e.emit("%s %s, %s\n", opcode, d1.Reg, d2.Reg)
		e.overwriteWithResult(result, d1, info.Result.NextUse)

	case q.Arg1.Kind == tac.VarRef && q.Arg2.IsConstant():
		d1, err := e.load(q.Arg1.Var)
		if err != nil {
			return err
		}
		if err := e.copyOrDrop(q.Arg1.Var, info.Arg1); err != nil {
			return err
		}
		e.emit("%s %s, %s\n", opcode, d1.Reg, constOperand(q.Arg2))
		e.overwriteWithResult(result, d1, info.Result.NextUse)

	case q.Arg1.IsConstant() && q.Arg2.Kind == tac.VarRef:
		d2, err := e.load(q.Arg2.Var)
		if err != nil {
			return err
		}
		d1 := e.regs.GetFreeRegister(e.spill)
		e.emit("mov %s, %s\n", d1.Reg, constOperand(q.Arg1))
		e.emit("%s %s, %s\n", opcode, d1.Reg, d2.Reg)
		e.overwriteWithResult(result, d1, info.Result.NextUse)

	case q.Arg1.IsConstant() && q.Arg2.IsConstant():
		d := e.regs.GetFreeRegister(e.spill)
		e.emit("mov %s, %s\n", d.Reg, constOperand(q.Arg1))
		e.emit("%s %s, %s\n", opcode, d.Reg, constOperand(q.Arg2))
		e.overwriteWithResult(result, d, info.Result.NextUse)

	default:
		return errs.New(errs.UnsupportedOperand, "unsupported operand combination for arithmetic instruction")
	}
	return nil
}

func (e *Emitter) comparison(opcode string, q tac.Quadruple, info QuadInfo) error {
	result := q.Result.Var

	switch {
	case q.Arg1.Kind == tac.VarRef && q.Arg2.Kind == tac.VarRef:
		d1, err := e.load(q.Arg1.Var)
		if err != nil {
			return err
		}
		d2, err := e.load(q.Arg2.Var)
		if err != nil {
			return err
		}
		d := e.regs.GetFreeRegister(e.spill)
		e.emit("cmp %s, %s\n", d1.Reg, d2.Reg)
		e.emit("%s %s\n", opcode, d.Reg)
		e.overwriteWithResult(result, d, info.Result.NextUse)

	case q.Arg1.Kind == tac.VarRef && q.Arg2.IsConstant():
		d1, err := e.load(q.Arg1.Var)
		if err != nil {
			return err
		}
		d := e.regs.GetFreeRegister(e.spill)
		e.emit("cmp %s, %s\n", d1.Reg, constOperand(q.Arg2))
		e.emit("%s %s\n", opcode, d.Reg)
		e.overwriteWithResult(result, d, info.Result.NextUse)

	case q.Arg1.IsConstant() && q.Arg2.Kind == tac.VarRef:
		d2, err := e.load(q.Arg2.Var)
		if err != nil {
			return err
		}
		d1 := e.regs.GetFreeRegister(e.spill)
		e.emit("mov %s, %s\n", d1.Reg, constOperand(q.Arg1))
		e.emit("cmp %s, %s\n", d1.Reg, d2.Reg)
		e.emit("%s %s\n", opcode, d1.Reg)
		e.overwriteWithResult(result, d1, info.Result.NextUse)

	case q.Arg1.IsConstant() && q.Arg2.IsConstant():
		d := e.regs.GetFreeRegister(e.spill)
		e.emit("mov %s, %s\n", d.Reg, constOperand(q.Arg1))
		e.emit("cmp %s, %s\n", d.Reg, constOperand(q.Arg2))
		e.emit("%s %s\n", opcode, d.Reg)
		e.overwriteWithResult(result, d, info.Result.NextUse)

	default:
		return errs.New(errs.UnsupportedOperand, "unsupported operand combination for comparison instruction")
	}
	return nil
}

func (e *Emitter) assign(q tac.Quadruple, info QuadInfo) error {
	result := q.Result.Var

	switch {
	case q.Arg1.Kind == tac.VarRef:
		d, err := e.load(q.Arg1.Var)
		if err != nil {
			return err
		}
		d.bind(result, info.Result.NextUse)
		result.ClearLocations()
		result.AddLocation(symtab.Location{Kind: symtab.RegisterLocation, Reg: int(d.Reg)})

	case q.Arg1.IsConstant():
		d := e.regs.GetFreeRegister(e.spill)
		d.bind(result, info.Result.NextUse)
		result.ClearLocations()
		result.AddLocation(symtab.Location{Kind: symtab.RegisterLocation, Reg: int(d.Reg)})
		e.emit("mov %s, %s\n", d.Reg, constOperand(q.Arg1))

	default:
		return errs.New(errs.UnsupportedOperand, "unsupported operand for assignment")
	}
	return nil
}

func (e *Emitter) param(q tac.Quadruple) error {
	switch {
	case q.Arg1.Kind == tac.VarRef:
		d, err := e.load(q.Arg1.Var)
		if err != nil {
			return err
		}
		e.emit("push %s\n", subRegister(d.Reg, q.Arg1.Var.Type.Size()))
	case q.Arg1.IsConstant():
		e.emit("push %s\n", constOperand(q.Arg1))
	default:
		return errs.New(errs.UnsupportedOperand, "unsupported operand for Param")
	}
	return nil
}

// ret lowers a Return quadruple. RAX is reserved for the duration of
// the lowering so that loading the return value can't itself choose RAX
// as a spill victim out from under the value about to be placed there,
// and the epilogue restores the caller's stack frame before returning —
// the original omits both the rsp restore and the rbp pop that its own
// prologue's push rbp requires.
func (e *Emitter) ret(q tac.Quadruple) error {
	e.regs.Reserve(RAX, e.spill)
	defer e.regs.Release(RAX)

	switch {
	case q.Arg1.Kind == tac.Empty:
		// no value to return

	case q.Arg1.Kind == tac.VarRef:
		d, err := e.load(q.Arg1.Var)
		if err != nil {
			return err
		}
		if d.Reg != RAX {
			e.emit("mov RAX, %s\n", d.Reg)
		}

	case q.Arg1.IsConstant():
		e.emit("mov RAX, %s\n", constOperand(q.Arg1))

	default:
		return errs.New(errs.UnsupportedOperand, "unsupported operand for Return")
	}

	e.emit("mov rsp, rbp\npop rbp\nret\n")
	return nil
}

func (e *Emitter) ifFalseJump(q tac.Quadruple) error {
	label := q.Arg1.Label

	switch {
	case q.Result.Kind == tac.VarRef:
		d, err := e.load(q.Result.Var)
		if err != nil {
			return err
		}
		e.emit("cmp %s, 0\n", d.Reg)
		e.emit("jz %s\n", label)

	case q.Result.Kind == tac.ConstBool:
		if !q.Result.BoolVal {
			e.emit("jmp %s\n", label)
		}

	default:
		return errs.New(errs.UnsupportedOperand, "unsupported operand for IfFalseJump")
	}
	return nil
}
