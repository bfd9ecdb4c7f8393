package pipeline

import (
	"github.com/angelobarone/minilang-compiler/internal/token"
)

// Processor is one pipeline stage: it consumes a PipelineContext and
// returns the context with its stage's output (and any diagnostics)
// applied. Lexer, Parser, SemanticAnalyzer, Desugarer, ConstantFolder, and
// CodeGen each implement this so Pipeline can drive any subset of them in
// sequence.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// TokenStream is a buffered view over a token sequence, letting the parser
// look ahead past the current token (needed to disambiguate a lambda
// parameter list from a parenthesized expression) without consuming it.
type TokenStream interface {
	// Next consumes and returns the next token from the stream.
	Next() token.Token

	// Peek returns up to n upcoming tokens without consuming them. If
	// fewer than n remain, it returns whatever is left.
	Peek(n int) []token.Token
}
