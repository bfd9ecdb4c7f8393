package folder

import (
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
)

// FolderProcessor is the pipeline stage that constant-folds ctx.AstRoot.
// The driver omits this stage entirely when invoked with -no-fold.
type FolderProcessor struct{}

func (fp *FolderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.HasErrors() || ctx.AstRoot == nil {
		return ctx
	}
	folded, err := Fold(ctx.AstRoot)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err.(*diagnostics.DiagnosticError))
		return ctx
	}
	ctx.AstRoot = folded
	return ctx
}
