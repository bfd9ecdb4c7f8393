package codegen

import (
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
)

// CodeGenProcessor is the terminal pipeline stage: it lowers ctx.AstRoot
// to LLVM IR text and stores it in ctx.IR. It assumes the tree has already
// passed semantic analysis, desugaring, and (optionally) folding — a
// residual Pipe, Repeat, or Lambda node reaching this stage is an internal
// compiler error, not a user-facing diagnostic.
type CodeGenProcessor struct{}

func (cgp *CodeGenProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.HasErrors() || ctx.AstRoot == nil {
		return ctx
	}
	ir, err := Generate(ctx.AstRoot)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err.(*diagnostics.DiagnosticError))
		return ctx
	}
	ctx.IR = ir
	return ctx
}
