package debug_test

import (
	"bytes"
	"strings"
	"testing"

	"loxvm/debug"
	"loxvm/vm"
)

func TestDisassembleChunk_RendersConstantAndSimpleInstructions(t *testing.T) {
	chunk := vm.NewChunk()
	chunk.WriteConstant(vm.NumberVal(1), 1)
	chunk.WriteOpcode(vm.OpReturn, 1)

	var buf bytes.Buffer
	debug.DisassembleChunk(&buf, chunk, "test chunk")

	out := buf.String()
	if !strings.Contains(out, "== test chunk ==") {
		t.Fatalf("missing header, got %q", out)
	}
	if !strings.Contains(out, "OP_CONSTANT") || !strings.Contains(out, "'1'") {
		t.Fatalf("expected OP_CONSTANT rendering '1', got %q", out)
	}
	if !strings.Contains(out, "OP_RETURN") {
		t.Fatalf("expected OP_RETURN, got %q", out)
	}
}

func TestDisassembleInstruction_ConstantLongRendersFourByteWidth(t *testing.T) {
	chunk := vm.NewChunk()
	for i := 0; i < 256; i++ {
		chunk.AddConstant(vm.NumberVal(float64(i)))
	}
	chunk.WriteConstant(vm.NumberVal(256), 2)

	var buf bytes.Buffer
	next := debug.DisassembleInstruction(&buf, chunk, 0)

	if next != 4 {
		t.Fatalf("OP_CONSTANT_LONG should occupy 4 bytes, advanced to %d", next)
	}
	if !strings.Contains(buf.String(), "OP_CONSTANT_LONG") {
		t.Fatalf("expected OP_CONSTANT_LONG, got %q", buf.String())
	}
}

func TestDisassembleInstruction_RepeatedLineCollapsesToPipe(t *testing.T) {
	chunk := vm.NewChunk()
	chunk.WriteOpcode(vm.OpNil, 5)
	chunk.WriteOpcode(vm.OpPop, 5)

	var buf bytes.Buffer
	offset := debug.DisassembleInstruction(&buf, chunk, 0)
	debug.DisassembleInstruction(&buf, chunk, offset)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "   | ") {
		t.Fatalf("second instruction on the same line should show '   | ', got %q", lines[1])
	}
}
