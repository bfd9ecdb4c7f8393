package lexer

import (
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
	"github.com/angelobarone/minilang-compiler/internal/token"
)

// tokenVector is a pipeline.TokenStream backed by a fully materialised slice
// of tokens. Unlike the teacher's lazily-filled buffer (built for an
// incremental REPL that may only ever consume a handful of tokens), this
// pipeline always needs the whole unit lexed before parsing starts — the
// parser's lambda lookahead can probe arbitrarily far ahead — so the
// LexerProcessor drains the Lexer to EOF once and Peek/Next become plain
// index arithmetic.
type tokenVector struct {
	tokens []token.Token
	pos    int
}

func (tv *tokenVector) Next() token.Token {
	if tv.pos >= len(tv.tokens) {
		return tv.tokens[len(tv.tokens)-1] // EOF, held past the end
	}
	tok := tv.tokens[tv.pos]
	tv.pos++
	return tok
}

func (tv *tokenVector) Peek(n int) []token.Token {
	start := tv.pos
	end := start + n
	if end > len(tv.tokens) {
		end = len(tv.tokens)
	}
	if start > end {
		start = end
	}
	return tv.tokens[start:end]
}

var _ pipeline.TokenStream = (*tokenVector)(nil)

// LexerProcessor is the pipeline stage that turns source text into a
// TokenStream. A lexical error (an unrecognised character, or a lone '|'
// or '&') aborts the stage immediately: no further tokens are produced and
// the context carries a single diagnostic.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			ctx.Errors = append(ctx.Errors, diagnostics.NewLexError(tok, tok.Lexeme))
			return ctx
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	ctx.TokenStream = &tokenVector{tokens: tokens}
	return ctx
}
