// Package codegen is the back end: it partitions each TAC function into
// basic blocks, runs a backward liveness/next-use analysis over each
// block, and emits x86-64 NASM-style assembly from a descriptor-driven
// local register allocator.
package codegen

// Register identifies one of the fourteen general-purpose registers the
// allocator may hand out. RBP/RSP are addressed directly by the emitter
// for frame access and are never allocated through the register file.
type Register int

const (
	RAX Register = iota
	RBX
	RCX
	RDX
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15

	numRegisters
)

// name64, name8 give the full (QWORD) and low-byte (BYTE) mnemonics for
// each register — the only two widths this language's types need (§4.A:
// Bool is 1 byte, Int/Float/Str are 8 bytes).
var name64 = [numRegisters]string{
	RAX: "RAX", RBX: "RBX", RCX: "RCX", RDX: "RDX", RSI: "RSI", RDI: "RDI",
	R8: "R8", R9: "R9", R10: "R10", R11: "R11", R12: "R12", R13: "R13", R14: "R14", R15: "R15",
}

var name8 = [numRegisters]string{
	RAX: "AL", RBX: "BL", RCX: "CL", RDX: "DL", RSI: "SIL", RDI: "DIL",
	R8: "R8B", R9: "R9B", R10: "R10B", R11: "R11B", R12: "R12B", R13: "R13B", R14: "R14B", R15: "R15B",
}

func (r Register) String() string { return name64[r] }

// subRegister returns the mnemonic for r at the given operand width in
// bytes. Only 1 and 8 are meaningful for this language's type set.
func subRegister(r Register, size int) string {
	if size == 1 {
		return name8[r]
	}
	return name64[r]
}

// sizeSpecifier returns the NASM size specifier for a memory operand of
// the given width — BYTE or QWORD are the only ones this language needs.
func sizeSpecifier(size int) string {
	if size == 1 {
		return "BYTE"
	}
	return "QWORD"
}
