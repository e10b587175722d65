package vm

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const stackMax = 256

// VM executes a single compiled Chunk at a time. Globals and the string
// intern table live here rather than on the Chunk, so a REPL session that
// compiles a fresh Chunk per line still shares one heap and one set of
// global bindings across lines.
type VM struct {
	chunk *Chunk
	ip    int

	stack    [stackMax]Value
	stackTop int

	globals Table
	strings Table
	objects *Obj

	Trace  bool
	Logger *logrus.Logger
}

// New returns a VM with empty globals and an empty heap.
func New() *VM {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	return &VM{Logger: logger}
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
}

func (vm *VM) push(value Value) {
	vm.stack[vm.stackTop] = value
	vm.stackTop++
}

func (vm *VM) pop() Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[vm.stackTop-1-distance]
}

// Run executes chunk from offset zero to completion or the first runtime
// error. The VM's globals and string table persist across calls to Run, so
// a caller driving a REPL can compile and run one line at a time.
func (vm *VM) Run(chunk *Chunk) (InterpretResult, error) {
	vm.chunk = chunk
	vm.ip = 0
	vm.resetStack()

	if vm.Trace {
		vm.Logger.SetLevel(logrus.DebugLevel)
	} else {
		vm.Logger.SetLevel(logrus.InfoLevel)
	}

	if err := vm.run(); err != nil {
		return InterpretRuntimeError, err
	}
	return InterpretOK, nil
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() Value {
	return vm.chunk.Constants[vm.readByte()]
}

func (vm *VM) readConstantLong() Value {
	index := int(vm.readByte())<<16 | int(vm.readByte())<<8 | int(vm.readByte())
	return vm.chunk.Constants[index]
}

func (vm *VM) run() error {
dispatch:
	for {
		if vm.Trace {
			vm.traceStep()
		}

		instruction := Opcode(vm.readByte())

		switch instruction {
		case OpConstant:
			vm.push(vm.readConstant())

		case OpConstantLong:
			vm.push(vm.readConstantLong())

		case OpNil:
			vm.push(NilVal)

		case OpTrue:
			vm.push(BoolVal(true))

		case OpFalse:
			vm.push(BoolVal(false))

		case OpPop:
			vm.pop()

		case OpDefineGlobal:
			name := vm.readConstant().AsString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case OpGetGlobal:
			name := vm.readConstant().AsString()
			value, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeErrorf("Undefined variable '%s'.", name.Chars)
			}
			vm.push(value)

		case OpSetGlobal:
			name := vm.readConstant().AsString()
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeErrorf("Undefined variable '%s'.", name.Chars)
			}

		case OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolVal(Equals(a, b)))

		case OpGreater:
			if err := vm.binaryNumberOp(func(a, b float64) Value { return BoolVal(a > b) }); err != nil {
				return err
			}

		case OpLess:
			if err := vm.binaryNumberOp(func(a, b float64) Value { return BoolVal(a < b) }); err != nil {
				return err
			}

		case OpAdd:
			if err := vm.add(); err != nil {
				return err
			}

		case OpSubtract:
			if err := vm.binaryNumberOp(func(a, b float64) Value { return NumberVal(a - b) }); err != nil {
				return err
			}

		case OpMultiply:
			if err := vm.binaryNumberOp(func(a, b float64) Value { return NumberVal(a * b) }); err != nil {
				return err
			}

		case OpDivide:
			if err := vm.binaryNumberOp(func(a, b float64) Value { return NumberVal(a / b) }); err != nil {
				return err
			}

		case OpNot:
			vm.push(BoolVal(vm.pop().IsFalsey()))

		case OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeErrorf("Operand must be a number. Got %s.", vm.peek(0).TypeName())
			}
			vm.push(NumberVal(-vm.pop().AsNumber()))

		case OpPrint:
			fmt.Println(vm.pop().String())

		case OpReturn:
			return nil

		default:
			return vm.runtimeErrorf("Unknown opcode %d.", instruction)
		}

		goto dispatch
	}
}

// binaryNumberOp implements the peek-before-pop contract every numeric
// binary opcode shares: operands are checked in place on the stack before
// either is popped, so a type error leaves the stack exactly as it was for
// diagnostics, and only a successful operation pops both and pushes one.
func (vm *VM) binaryNumberOp(op func(a, b float64) Value) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("Operands must be numbers. Got %s and %s.", vm.peek(1).TypeName(), vm.peek(0).TypeName())
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(op(a, b))
	return nil
}

// add is polymorphic: number + number adds, and string + string
// concatenates via the VM's own intern table so the result participates in
// identity equality like any other interned string.
func (vm *VM) add() error {
	if vm.peek(0).IsString() && vm.peek(1).IsString() {
		b := vm.pop().AsString()
		a := vm.pop().AsString()
		concatenated := vm.TakeString(a.Chars + b.Chars)
		vm.push(ObjVal(concatenated.Obj()))
		return nil
	}

	if vm.peek(0).IsNumber() && vm.peek(1).IsNumber() {
		b := vm.pop().AsNumber()
		a := vm.pop().AsNumber()
		vm.push(NumberVal(a + b))
		return nil
	}

	return vm.runtimeErrorf("Operands must be two numbers or two strings. Got %s and %s.", vm.peek(1).TypeName(), vm.peek(0).TypeName())
}

func (vm *VM) traceStep() {
	slots := make([]string, 0, vm.stackTop)
	for i := 0; i < vm.stackTop; i++ {
		slots = append(slots, vm.stack[i].String())
	}
	vm.Logger.WithFields(logrus.Fields{
		"ip":    vm.ip,
		"op":    Opcode(vm.chunk.Code[vm.ip]).String(),
		"line":  vm.chunk.GetLine(vm.ip),
		"stack": slots,
	}).Debug("dispatch")
}
