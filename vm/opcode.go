package vm

// Opcode is a single bytecode instruction tag.
type Opcode byte

const (
	OpConstant Opcode = iota
	OpConstantLong
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpDefineGlobal
	OpGetGlobal
	OpSetGlobal
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpReturn
)

var opcodeNames = map[Opcode]string{
	OpConstant:     "OP_CONSTANT",
	OpConstantLong: "OP_CONSTANT_LONG",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpReturn:       "OP_RETURN",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "OP_UNKNOWN"
}

// OperandBytes reports how many operand bytes follow op in the code stream.
// CONSTANT takes a single constant-pool index byte, CONSTANT_LONG a 3-byte
// big-endian index, DEFINE/GET/SET_GLOBAL a single constant-pool index
// naming the variable; every other opcode is argument-free.
func (op Opcode) OperandBytes() int {
	switch op {
	case OpConstant, OpDefineGlobal, OpGetGlobal, OpSetGlobal:
		return 1
	case OpConstantLong:
		return 3
	default:
		return 0
	}
}
