package desugarer

import (
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
)

// DesugarerProcessor is the pipeline stage that eliminates Pipe, Repeat,
// and Lambda nodes from ctx.AstRoot.
type DesugarerProcessor struct{}

func (dp *DesugarerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.HasErrors() || ctx.AstRoot == nil {
		return ctx
	}
	rewritten, err := Desugar(ctx.AstRoot)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err.(*diagnostics.DiagnosticError))
		return ctx
	}
	ctx.AstRoot = rewritten
	return ctx
}
