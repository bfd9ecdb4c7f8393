package parser

import (
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
	"github.com/angelobarone/minilang-compiler/internal/token"
)

// ParserProcessor is the pipeline stage that turns a TokenStream into an
// *ast.Program. A syntax error aborts the stage: no partial AST is kept.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.HasErrors() {
		return ctx
	}
	program, err := ParseProgram(ctx.TokenStream)
	if err != nil {
		ctx.Errors = append(ctx.Errors, asDiagnostic(err))
		return ctx
	}
	ctx.AstRoot = program
	return ctx
}

// asDiagnostic recovers the *diagnostics.DiagnosticError every parse
// function actually returns; the fallback only matters if a future parse
// helper forgets to use the diagnostics constructors.
func asDiagnostic(err error) *diagnostics.DiagnosticError {
	if de, ok := err.(*diagnostics.DiagnosticError); ok {
		return de
	}
	return diagnostics.NewSyntaxError(diagnostics.ErrP001, token.Token{}, err.Error(), "")
}
