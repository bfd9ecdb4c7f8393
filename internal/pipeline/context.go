package pipeline

import (
	"github.com/angelobarone/minilang-compiler/internal/ast"
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
)

// PipelineContext holds all the data passed between pipeline stages. Each
// Processor reads the fields its stage needs and writes the ones it
// produces; nothing is removed between stages so a driver can stop after
// any stage and inspect intermediate state (used by tests and by the CLI's
// -emit-stage flag).
type PipelineContext struct {
	SourceCode  string
	FilePath    string // empty when source came from stdin
	TokenStream TokenStream
	AstRoot     *ast.Program

	// Arity is populated by SemanticAnalyzerProcessor with the name ->
	// parameter count map from the analyzer's first pass. Every call to
	// analyzer.Analyze, including the driver's post-desugar re-analysis,
	// collects its own map from the declarations rather than reading this
	// one.
	Arity map[string]int

	IR string // final LLVM IR text, set by the code generator

	Errors []*diagnostics.DiagnosticError
}

// NewPipelineContext creates and initializes a new PipelineContext for the
// given source text.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		Arity:      make(map[string]int),
		Errors:     []*diagnostics.DiagnosticError{},
	}
}

// HasErrors reports whether any stage has recorded a diagnostic.
func (c *PipelineContext) HasErrors() bool {
	return len(c.Errors) > 0
}
