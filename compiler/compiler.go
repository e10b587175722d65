// Package compiler turns source text directly into bytecode. There is no
// intermediate AST: the parser is a single-pass Pratt parser that emits
// instructions into a Chunk as it recognizes each expression and statement,
// the same way the reference implementation this language borrows its
// grammar from does it.
package compiler

import (
	"fmt"
	"os"
	"strconv"

	"loxvm/lexer"
	"loxvm/token"
	"loxvm/vm"
)

// interner is the subset of *vm.VM the compiler needs: turning source
// lexemes into interned string objects that the running VM will later see
// as the same object identity.
type interner interface {
	CopyString(string) *vm.ObjString
}

// Compiler holds all parser state for a single compilation: the token
// stream, the chunk being built, and panic-mode bookkeeping.
type Compiler struct {
	lexer   *lexer.Lexer
	chunk   *vm.Chunk
	strings interner

	previous token.Token
	current  token.Token

	hadError  bool
	panicMode bool
}

// Compile compiles source into chunk, using strings to intern any string
// constants and global-variable names the source defines. It returns false
// if a syntax error was reported; chunk should be discarded in that case.
func Compile(source string, chunk *vm.Chunk, strings interner) bool {
	c := &Compiler{
		lexer:   lexer.New(source),
		chunk:   chunk,
		strings: strings,
	}

	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	c.endCompiler()

	return !c.hadError
}

// ============================================================================
// Token stream
// ============================================================================

func (c *Compiler) advance() {
	c.previous = c.current

	for {
		c.current = c.lexer.NextToken()
		if c.current.Type != token.ERROR {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(t token.Type) bool {
	return c.current.Type == t
}

func (c *Compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t token.Type, message string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// ============================================================================
// Error reporting
// ============================================================================

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}

func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true

	fmt.Fprintf(os.Stderr, "[line %d] Error", tok.Line)

	switch tok.Type {
	case token.EOF:
		fmt.Fprint(os.Stderr, " at end")
	case token.ERROR:
		// No location to show; the message already says what's wrong.
	default:
		fmt.Fprintf(os.Stderr, " at '%s'", tok.Lexeme)
	}

	fmt.Fprintf(os.Stderr, ": %s\n", message)
	c.hadError = true
}

// synchronize skips tokens after a syntax error until a likely statement
// boundary, so one mistake reports once instead of cascading into bogus
// follow-on errors.
func (c *Compiler) synchronize() {
	c.panicMode = false

	for c.current.Type != token.EOF {
		if c.previous.Type == token.SEMICOLON {
			return
		}

		switch c.current.Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}

		c.advance()
	}
}

// ============================================================================
// Bytecode emission
// ============================================================================

func (c *Compiler) emitByte(b byte) {
	c.chunk.WriteByte(b, c.previous.Line)
}

func (c *Compiler) emitOpcode(op vm.Opcode) {
	c.chunk.WriteOpcode(op, c.previous.Line)
}

func (c *Compiler) emitConstant(value vm.Value) {
	c.chunk.WriteConstant(value, c.previous.Line)
}

func (c *Compiler) endCompiler() {
	c.emitOpcode(vm.OpReturn)
}

// ============================================================================
// Declarations and statements
// ============================================================================

func (c *Compiler) declaration() {
	if c.match(token.VAR) {
		c.varDeclaration()
	} else {
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.emitOpcode(vm.OpNil)
	}
	c.consume(token.SEMICOLON, "Expect ';' after variable declaration.")

	c.defineVariable(global)
}

// parseVariable adds the declared name to the constant pool before the
// initializer is compiled, so the name gets the lower pool index.
func (c *Compiler) parseVariable(errorMessage string) byte {
	c.consume(token.IDENTIFIER, errorMessage)
	name := c.strings.CopyString(c.previous.Lexeme)
	return c.makeConstantOperand(vm.ObjVal(name.Obj()))
}

func (c *Compiler) defineVariable(global byte) {
	c.emitOpcode(vm.OpDefineGlobal)
	c.emitByte(global)
}

// emitConstantOperand writes the 1-byte constant-pool index for global, an
// already-interned name or value that must be addressed by its own
// dedicated index rather than going through WriteConstant's CONSTANT_LONG
// fallback path used for expression literals.
func (c *Compiler) emitConstantOperand(value vm.Value) {
	c.emitByte(c.makeConstantOperand(value))
}

// makeConstantOperand adds value to the constant pool and returns its index
// as a 1-byte operand, reporting an error if the index does not fit.
func (c *Compiler) makeConstantOperand(value vm.Value) byte {
	index := c.chunk.AddConstant(value)
	if index > 0xFF {
		c.error("Too many constants in one chunk.")
		index = 0
	}
	return byte(index)
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after value.")
	c.emitOpcode(vm.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitOpcode(vm.OpPop)
}

// ============================================================================
// Expressions
// ============================================================================

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()
	prefixRule := getRule(c.previous.Type).prefix
	if prefixRule == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := precedence <= PrecAssignment
	prefixRule(c, canAssign)

	for precedence <= getRule(c.current.Type).precedence {
		c.advance()
		infixRule := getRule(c.previous.Type).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) number(canAssign bool) {
	value, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(vm.NumberVal(value))
}

func (c *Compiler) string(canAssign bool) {
	raw := c.previous.Lexeme
	contents := raw[1 : len(raw)-1]
	str := c.strings.CopyString(contents)
	c.emitConstant(vm.ObjVal(str.Obj()))
}

func (c *Compiler) literal(canAssign bool) {
	switch c.previous.Type {
	case token.FALSE:
		c.emitOpcode(vm.OpFalse)
	case token.TRUE:
		c.emitOpcode(vm.OpTrue)
	case token.NIL:
		c.emitOpcode(vm.OpNil)
	}
}

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

func (c *Compiler) unary(canAssign bool) {
	operatorType := c.previous.Type

	c.parsePrecedence(PrecUnary)

	switch operatorType {
	case token.MINUS:
		c.emitOpcode(vm.OpNegate)
	case token.BANG:
		c.emitOpcode(vm.OpNot)
	}
}

func (c *Compiler) binary(canAssign bool) {
	operatorType := c.previous.Type
	rule := getRule(operatorType)
	c.parsePrecedence(rule.precedence + 1)

	switch operatorType {
	case token.BANG_EQUAL:
		c.emitOpcode(vm.OpEqual)
		c.emitOpcode(vm.OpNot)
	case token.EQUAL_EQUAL:
		c.emitOpcode(vm.OpEqual)
	case token.GREATER:
		c.emitOpcode(vm.OpGreater)
	case token.GREATER_EQUAL:
		c.emitOpcode(vm.OpLess)
		c.emitOpcode(vm.OpNot)
	case token.LESS:
		c.emitOpcode(vm.OpLess)
	case token.LESS_EQUAL:
		c.emitOpcode(vm.OpGreater)
		c.emitOpcode(vm.OpNot)
	case token.PLUS:
		c.emitOpcode(vm.OpAdd)
	case token.MINUS:
		c.emitOpcode(vm.OpSubtract)
	case token.STAR:
		c.emitOpcode(vm.OpMultiply)
	case token.SLASH:
		c.emitOpcode(vm.OpDivide)
	}
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	global := vm.ObjVal(c.strings.CopyString(name.Lexeme).Obj())

	if canAssign && c.match(token.EQUAL) {
		c.expression()
		c.emitOpcode(vm.OpSetGlobal)
		c.emitConstantOperand(global)
		return
	}

	c.emitOpcode(vm.OpGetGlobal)
	c.emitConstantOperand(global)
}
