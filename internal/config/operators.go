package config

import "github.com/angelobarone/minilang-compiler/internal/token"

// Operators Configuration
//
// This is the single source of truth for the expression precedence cascade.
// The parser's expression descent (pipe -> assign -> logical -> equality ->
// relational -> additive -> multiplicative -> unary -> primary) reads its
// tier boundaries from this table instead of hard-coding them inline.

// Associativity defines operator associativity.
type Associativity int

const (
	AssocLeft Associativity = iota
	AssocRight
)

// Precedence tiers, lowest to highest. Pipe binds loosest; multiplicative
// binds tightest among the binary operators (unary and call bind tighter
// still and are handled structurally by the parser, not through this table).
const (
	PrecLowest = iota
	PrecPipe
	PrecAssign
	PrecLogical
	PrecEquality
	PrecRelational
	PrecAdditive
	PrecMultiplicative
)

// OperatorInfo describes one binary operator's precedence tier and
// associativity.
type OperatorInfo struct {
	Type       token.TokenType
	Precedence int
	Assoc      Associativity
}

// AllOperators is the single source of truth for binary operator precedence.
// Logical && and || deliberately share one tier: the grammar does not
// distinguish them, so "a && b || c" parses left-associatively in whichever
// order they appear.
var AllOperators = []OperatorInfo{
	{Type: token.PIPE, Precedence: PrecPipe, Assoc: AssocRight},
	{Type: token.ASSIGN, Precedence: PrecAssign, Assoc: AssocRight},
	{Type: token.AND, Precedence: PrecLogical, Assoc: AssocLeft},
	{Type: token.OR, Precedence: PrecLogical, Assoc: AssocLeft},
	{Type: token.EQ, Precedence: PrecEquality, Assoc: AssocLeft},
	{Type: token.NE, Precedence: PrecEquality, Assoc: AssocLeft},
	{Type: token.LT, Precedence: PrecRelational, Assoc: AssocLeft},
	{Type: token.GT, Precedence: PrecRelational, Assoc: AssocLeft},
	{Type: token.LE, Precedence: PrecRelational, Assoc: AssocLeft},
	{Type: token.GE, Precedence: PrecRelational, Assoc: AssocLeft},
	{Type: token.PLUS, Precedence: PrecAdditive, Assoc: AssocLeft},
	{Type: token.MINUS, Precedence: PrecAdditive, Assoc: AssocLeft},
	{Type: token.MUL, Precedence: PrecMultiplicative, Assoc: AssocLeft},
	{Type: token.DIV, Precedence: PrecMultiplicative, Assoc: AssocLeft},
}

var operatorByType = func() map[token.TokenType]OperatorInfo {
	m := make(map[token.TokenType]OperatorInfo, len(AllOperators))
	for _, op := range AllOperators {
		m[op.Type] = op
	}
	return m
}()

// GetOperator looks up precedence/associativity metadata for a token type.
func GetOperator(t token.TokenType) (OperatorInfo, bool) {
	op, ok := operatorByType[t]
	return op, ok
}

// PrecedenceOf returns the binding precedence of t, or PrecLowest if t is
// not a binary operator.
func PrecedenceOf(t token.TokenType) int {
	if op, ok := operatorByType[t]; ok {
		return op.Precedence
	}
	return PrecLowest
}
