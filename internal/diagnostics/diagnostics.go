package diagnostics

import (
	"fmt"

	"github.com/angelobarone/minilang-compiler/internal/token"
)

// Phase identifies which pipeline stage raised an error.
type Phase string

const (
	PhaseLex      Phase = "lex"
	PhaseParse    Phase = "parse"
	PhaseSemantic Phase = "semantic"
	PhaseDesugar  Phase = "desugar"
	PhaseFold     Phase = "fold"
	PhaseCodeGen  Phase = "codegen"
)

type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // invalid character

	// Parser
	ErrP001 ErrorCode = "P001" // unexpected token / expected X found Y
	ErrP002 ErrorCode = "P002" // unexpected end of input
	ErrP003 ErrorCode = "P003" // no parse rule for token in expression position

	// Semantic analysis
	ErrA001 ErrorCode = "A001" // duplicate parameter
	ErrA002 ErrorCode = "A002" // reference to undefined variable
	ErrA003 ErrorCode = "A003" // assignment to undefined variable
	ErrA004 ErrorCode = "A004" // call to undefined function
	ErrA005 ErrorCode = "A005" // call arity mismatch
	ErrA006 ErrorCode = "A006" // duplicate top-level declaration

	// Desugarer
	ErrD001 ErrorCode = "D001" // invalid right-hand side of pipe

	// Constant folder
	ErrF001 ErrorCode = "F001" // division by zero at fold time

	// Code generator (should be unreachable once earlier stages hold)
	ErrC001 ErrorCode = "C001" // residual Pipe/Repeat/Lambda node
	ErrC002 ErrorCode = "C002" // call to unknown function
	ErrC003 ErrorCode = "C003" // reference to unbound slot
)

var errorTemplates = map[ErrorCode]string{
	ErrL001: "invalid character '%s'",
	ErrP001: "expected %s, found %s",
	ErrP002: "unexpected end of input",
	ErrP003: "unexpected token in expression: %s",
	ErrA001: "duplicate parameter '%s' in function '%s'",
	ErrA002: "undefined variable: '%s'",
	ErrA003: "cannot assign to undefined variable: '%s'",
	ErrA004: "call to undefined function: '%s'",
	ErrA005: "function '%s' expects %d argument(s), got %d",
	ErrA006: "duplicate declaration of '%s'",
	ErrD001: "right-hand side of '|>' must be a call or a bare identifier, found %s",
	ErrF001: "division by zero during constant folding",
	ErrC001: "internal error: %s node reached code generation",
	ErrC002: "internal error: call to unknown function '%s'",
	ErrC003: "internal error: reference to unbound slot '%s'",
}

// DiagnosticError is the single error type every pipeline stage raises.
// It carries enough context (phase, code, source position) to render a
// one-line, tool-friendly message without the caller needing to know the
// stage's internals.
type DiagnosticError struct {
	Phase Phase
	Code  ErrorCode
	Args  []interface{}
	Token token.Token
}

func (e *DiagnosticError) Error() string {
	template, ok := errorTemplates[e.Code]
	if !ok {
		return fmt.Sprintf("%s: unknown error code %s", e.Phase, e.Code)
	}
	message := fmt.Sprintf(template, e.Args...)
	if e.Token.Line > 0 {
		return fmt.Sprintf("%s: %d:%d: [%s] %s", e.Phase, e.Token.Line, e.Token.Column, e.Code, message)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Phase, e.Code, message)
}

func newError(phase Phase, code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Phase: phase, Code: code, Token: tok, Args: args}
}

func NewLexError(tok token.Token, args ...interface{}) *DiagnosticError {
	return newError(PhaseLex, ErrL001, tok, args...)
}

func NewSyntaxError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return newError(PhaseParse, code, tok, args...)
}

func NewSemanticError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return newError(PhaseSemantic, code, tok, args...)
}

func NewDesugarError(tok token.Token, args ...interface{}) *DiagnosticError {
	return newError(PhaseDesugar, ErrD001, tok, args...)
}

func NewFoldError(tok token.Token) *DiagnosticError {
	return newError(PhaseFold, ErrF001, tok)
}

// InternalError marks a condition that should be unreachable once earlier
// stages hold their invariants (a residual Pipe/Repeat/Lambda node reaching
// codegen, a call or variable reference that semantic analysis should have
// already rejected).
func InternalError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return newError(PhaseCodeGen, code, tok, args...)
}
