// Package debug renders a Chunk's bytecode as human-readable disassembly.
// It is a pure observer: nothing in compiler or vm imports this package,
// since disassembly is a diagnostic extra, never something compilation or
// execution depend on.
package debug

import (
	"fmt"
	"io"

	"loxvm/vm"
)

// DisassembleChunk writes every instruction in chunk to w, labeled name.
func DisassembleChunk(w io.Writer, chunk *vm.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		offset = DisassembleInstruction(w, chunk, offset)
	}
}

// DisassembleInstruction writes the instruction at offset to w and returns
// the offset of the next instruction.
func DisassembleInstruction(w io.Writer, chunk *vm.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)

	if offset > 0 && chunk.GetLine(offset) == chunk.GetLine(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", chunk.GetLine(offset))
	}

	op := vm.Opcode(chunk.Code[offset])

	switch op {
	case vm.OpConstant:
		return constantInstruction(w, op, chunk, offset)
	case vm.OpConstantLong:
		return constantLongInstruction(w, op, chunk, offset)
	case vm.OpDefineGlobal, vm.OpGetGlobal, vm.OpSetGlobal:
		return constantInstruction(w, op, chunk, offset)
	default:
		return simpleInstruction(w, op, offset)
	}
}

// simpleInstruction and its constant-bearing siblings all advance past the
// instruction the same way: one opcode byte plus however many operand bytes
// op.OperandBytes() reports, which is also what tells the two constant forms
// apart from every argument-free opcode.
func simpleInstruction(w io.Writer, op vm.Opcode, offset int) int {
	fmt.Fprintf(w, "%s\n", op.String())
	return offset + 1 + op.OperandBytes()
}

func constantInstruction(w io.Writer, op vm.Opcode, chunk *vm.Chunk, offset int) int {
	index := int(chunk.Code[offset+1])
	printConstant(w, op, chunk, index)
	return offset + 1 + op.OperandBytes()
}

func constantLongInstruction(w io.Writer, op vm.Opcode, chunk *vm.Chunk, offset int) int {
	index := int(chunk.Code[offset+1])<<16 | int(chunk.Code[offset+2])<<8 | int(chunk.Code[offset+3])
	printConstant(w, op, chunk, index)
	return offset + 1 + op.OperandBytes()
}

func printConstant(w io.Writer, op vm.Opcode, chunk *vm.Chunk, index int) {
	fmt.Fprintf(w, "%-16s %4d '", op.String(), index)
	if index < len(chunk.Constants) {
		fmt.Fprint(w, chunk.Constants[index].String())
	}
	fmt.Fprint(w, "'\n")
}
