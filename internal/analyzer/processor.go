package analyzer

import (
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
)

// SemanticAnalyzerProcessor is the pipeline stage that runs semantic
// analysis on ctx.AstRoot as parsed. The driver runs the second,
// post-desugar pass by calling Analyze directly on the desugared
// ctx.AstRoot (see cmd/minilangc) rather than through this processor.
type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.HasErrors() || ctx.AstRoot == nil {
		return ctx
	}
	arity, errs := Analyze(ctx.AstRoot)
	ctx.Arity = arity
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}
