package compiler

import "loxvm/token"

// parseFn is either a prefix or infix parse step. canAssign tells a prefix
// rule (only ever variable, in this grammar) whether a trailing '=' may be
// consumed as an assignment, so in `a + b = 1` the `b`, parsed at a higher
// precedence, leaves the '=' alone and it is rejected as an invalid target.
type parseFn func(c *Compiler, canAssign bool)

// ParseRule pairs a token kind with its prefix/infix parse steps and the
// precedence to use when that token appears as an infix operator.
type ParseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[token.Type]ParseRule

func init() {
	rules = map[token.Type]ParseRule{
		token.LEFT_PAREN:    {prefix: (*Compiler).grouping},
		token.MINUS:         {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.PLUS:          {infix: (*Compiler).binary, precedence: PrecTerm},
		token.SLASH:         {infix: (*Compiler).binary, precedence: PrecFactor},
		token.STAR:          {infix: (*Compiler).binary, precedence: PrecFactor},
		token.BANG:          {prefix: (*Compiler).unary},
		token.BANG_EQUAL:    {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EQUAL_EQUAL:   {infix: (*Compiler).binary, precedence: PrecEquality},
		token.GREATER:       {infix: (*Compiler).binary, precedence: PrecComparison},
		token.GREATER_EQUAL: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LESS:          {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LESS_EQUAL:    {infix: (*Compiler).binary, precedence: PrecComparison},
		token.IDENTIFIER:    {prefix: (*Compiler).variable},
		token.STRING:        {prefix: (*Compiler).string},
		token.NUMBER:        {prefix: (*Compiler).number},
		token.FALSE:         {prefix: (*Compiler).literal},
		token.TRUE:          {prefix: (*Compiler).literal},
		token.NIL:           {prefix: (*Compiler).literal},
	}
}

func getRule(t token.Type) ParseRule {
	return rules[t]
}
