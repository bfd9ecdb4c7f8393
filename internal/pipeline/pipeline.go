package pipeline

// Pipeline is an ordered list of Processors driven over one
// PipelineContext, each stage reading the fields the previous ones wrote.
type Pipeline struct {
	stages []Processor
}

// New builds a Pipeline from stages, run in the given order.
func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run feeds ctx through every stage in order and returns the final context.
// A stage that records a diagnostic does not stop the walk itself: every
// stage after the lexer checks ctx.HasErrors() on entry and passes the
// context through unchanged. The lexer and parser each stop at their first
// error; the semantic analyzer may record several. Callers check
// ctx.HasErrors() after Run, not mid-pipeline.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}
