// Package tac defines the three-address-code intermediate representation:
// the Address tagged union, the Quadruple instruction, and per-function
// quadruple lists — the sole input contract the back end (internal/codegen)
// consumes.
package tac

import (
	"fmt"
	"strconv"

	"github.com/tacc-project/tacc/internal/symtab"
)

// InstructionType enumerates every TAC opcode.
type InstructionType int

const (
	Add InstructionType = iota
	Sub
	Mul
	Div

	Less
	LessEqual
	Greater
	GreaterEqual

	Equal
	NotEqual

	IfJump
	IfFalseJump
	Jump

	Not
	Negate

	Call

	Assign
	Param
	Return

	And
	Or
)

var instructionNames = map[InstructionType]string{
	Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div",
	Less: "Less", LessEqual: "LessEqual", Greater: "Greater", GreaterEqual: "GreaterEqual",
	Equal: "Equal", NotEqual: "NotEqual",
	IfJump: "IfJump", IfFalseJump: "IfFalseJump", Jump: "Jump",
	Not: "Not", Negate: "Negate",
	Call:   "Call",
	Assign: "Assign", Param: "Param", Return: "Return",
	And: "And", Or: "Or",
}

func (i InstructionType) String() string {
	if s, ok := instructionNames[i]; ok {
		return s
	}
	return "Unknown"
}

// IsJump reports whether instr terminates a basic block.
func IsJump(instr InstructionType) bool {
	switch instr {
	case IfJump, IfFalseJump, Jump, Call, Return:
		return true
	default:
		return false
	}
}

// AddressKind tags the variant held by an Address.
type AddressKind int

const (
	Empty AddressKind = iota
	VarRef
	FuncRef
	ConstInt
	ConstFloat
	ConstBool
	LabelAddr
	CallArgCount
)

// Address is an operand slot in a Quadruple: exactly one of the kinds in
// AddressKind is meaningful at a time, selected by Kind.
type Address struct {
	Kind     AddressKind
	Var      *symtab.Variable
	Func     *symtab.Function
	IntVal   int64
	FloatVal float64
	BoolVal  bool
	Label    string
	ArgCount int
}

func EmptyAddr() Address                { return Address{Kind: Empty} }
func VarAddr(v *symtab.Variable) Address { return Address{Kind: VarRef, Var: v} }
func FuncAddr(f *symtab.Function) Address { return Address{Kind: FuncRef, Func: f} }
func IntConst(n int64) Address           { return Address{Kind: ConstInt, IntVal: n} }
func FloatConst(f float64) Address       { return Address{Kind: ConstFloat, FloatVal: f} }
func BoolConst(b bool) Address           { return Address{Kind: ConstBool, BoolVal: b} }
func LabelOperand(l string) Address      { return Address{Kind: LabelAddr, Label: l} }
func ArgCountAddr(n int) Address         { return Address{Kind: CallArgCount, ArgCount: n} }

// IsVariable reports whether a is a variable reference.
func (a Address) IsVariable() bool { return a.Kind == VarRef }

// IsConstant reports whether a holds an int, float, or bool constant.
func (a Address) IsConstant() bool {
	return a.Kind == ConstInt || a.Kind == ConstFloat || a.Kind == ConstBool
}

func (a Address) String() string {
	switch a.Kind {
	case Empty:
		return "Empty"
	case VarRef:
		return a.Var.Name
	case FuncRef:
		return a.Func.Name
	case ConstInt:
		return strconv.FormatInt(a.IntVal, 10)
	case ConstFloat:
		return strconv.FormatFloat(a.FloatVal, 'g', -1, 64)
	case ConstBool:
		return strconv.FormatBool(a.BoolVal)
	case LabelAddr:
		return a.Label
	case CallArgCount:
		return strconv.Itoa(a.ArgCount)
	default:
		return "?"
	}
}

// Quadruple is a single TAC instruction.
type Quadruple struct {
	Label  string
	Instr  InstructionType
	Result Address
	Arg1   Address
	Arg2   Address
}

func (q Quadruple) String() string {
	return fmt.Sprintf("[ %-15s%-15s%-15s%-15s%-15s ]", q.Label, q.Instr, q.Result, q.Arg1, q.Arg2)
}

// Function bundles a resolved Function symbol with its lowered
// quadruple list.
type Function struct {
	Sym   *symtab.Function
	Quads []Quadruple
}

func (f Function) String() string {
	s := fmt.Sprintf("Function %s:\n", f.Sym.Name)
	for i, q := range f.Quads {
		s += fmt.Sprintf("(%d) %s\n", i, q)
	}
	return s
}
