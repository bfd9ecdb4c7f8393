package desugarer_test

import (
	"testing"

	"github.com/angelobarone/minilang-compiler/internal/ast"
	"github.com/angelobarone/minilang-compiler/internal/desugarer"
	"github.com/angelobarone/minilang-compiler/internal/lexer"
	"github.com/angelobarone/minilang-compiler/internal/parser"
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
)

func parseAndDesugar(t *testing.T, src string) *ast.Program {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("unexpected parse errors: %v", ctx.Errors)
	}
	prog, err := desugarer.Desugar(ctx.AstRoot)
	if err != nil {
		t.Fatalf("desugar failed: %v", err)
	}
	return prog
}

func TestPipeToCallWithBareFunction(t *testing.T) {
	prog := parseAndDesugar(t, `func f() { return x |> double; }`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	ret := fn.Body.Statements[0].(*ast.ReturnStmt)
	call, ok := ret.Value.(*ast.Call)
	if !ok {
		t.Fatalf("got %T, want *ast.Call", ret.Value)
	}
	if call.Callee != "double" || len(call.Args) != 1 {
		t.Fatalf("got callee=%s args=%v", call.Callee, call.Args)
	}
}

func TestPipeToCallPrependsArgument(t *testing.T) {
	prog := parseAndDesugar(t, `func f() { return x |> add(1); }`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	ret := fn.Body.Statements[0].(*ast.ReturnStmt)
	call := ret.Value.(*ast.Call)
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	if _, ok := call.Args[0].(*ast.Variable); !ok {
		t.Fatalf("first arg should be the piped variable, got %#v", call.Args[0])
	}
}

func TestPipeWithInvalidRHSIsAnError(t *testing.T) {
	ctx := pipeline.NewPipelineContext(`func f() { return x |> 5; }`)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("unexpected parse errors: %v", ctx.Errors)
	}
	if _, err := desugarer.Desugar(ctx.AstRoot); err == nil {
		t.Fatalf("expected a desugar error for a pipe into a literal")
	}
}

func TestRepeatLowersToCounterAndWhile(t *testing.T) {
	prog := parseAndDesugar(t, `func f() { repeat (3) { x = x + 1; } return 0; }`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	if len(fn.Body.Statements) != 3 {
		t.Fatalf("got %d statements, want 3 (counter decl, while, return)", len(fn.Body.Statements))
	}
	if _, ok := fn.Body.Statements[0].(*ast.VarDecl); !ok {
		t.Fatalf("first statement should be the counter VarDecl, got %T", fn.Body.Statements[0])
	}
	while, ok := fn.Body.Statements[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("second statement should be a WhileStmt, got %T", fn.Body.Statements[1])
	}
	// original body statement plus the synthesized increment
	if len(while.Body.Statements) != 2 {
		t.Fatalf("got %d statements in while body, want 2", len(while.Body.Statements))
	}
}

func TestNoRepeatOrPipeOrLambdaSurvives(t *testing.T) {
	prog := parseAndDesugar(t, `
		func f() {
			repeat (2) { let y = (x) => x |> double; }
			return 0;
		}
	`)

	for _, decl := range prog.Declarations {
		fn, ok := decl.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if blockHasResidualNode(fn.Body) {
			t.Fatalf("a RepeatStmt, Pipe, or Lambda survived desugaring in %s", fn.Name)
		}
	}
}

func blockHasResidualNode(b *ast.Block) bool {
	for _, s := range b.Statements {
		if stmtHasResidualNode(s) {
			return true
		}
	}
	return false
}

func stmtHasResidualNode(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.RepeatStmt:
		return true
	case *ast.VarDecl:
		return exprHasResidualNode(n.Init)
	case *ast.ReturnStmt:
		return exprHasResidualNode(n.Value)
	case *ast.ExprStmt:
		return exprHasResidualNode(n.Expr)
	case *ast.IfStmt:
		if exprHasResidualNode(n.Cond) || blockHasResidualNode(n.Then) {
			return true
		}
		return n.Else != nil && blockHasResidualNode(n.Else)
	case *ast.WhileStmt:
		return exprHasResidualNode(n.Cond) || blockHasResidualNode(n.Body)
	case *ast.Block:
		return blockHasResidualNode(n)
	}
	return false
}

func exprHasResidualNode(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Pipe, *ast.Lambda:
		return true
	case *ast.Binary:
		return exprHasResidualNode(n.Left) || exprHasResidualNode(n.Right)
	case *ast.Unary:
		return exprHasResidualNode(n.Operand)
	case *ast.Assign:
		return exprHasResidualNode(n.Value)
	case *ast.Call:
		for _, a := range n.Args {
			if exprHasResidualNode(a) {
				return true
			}
		}
	}
	return false
}

func TestLambdaIsLiftedToTopLevel(t *testing.T) {
	prog := parseAndDesugar(t, `func f() { return (x) => x; }`)
	if len(prog.Declarations) != 2 {
		t.Fatalf("got %d declarations, want 2 (f plus the lifted lambda)", len(prog.Declarations))
	}
	lifted, ok := prog.Declarations[1].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.FunctionDecl", prog.Declarations[1])
	}
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	ret := fn.Body.Statements[0].(*ast.ReturnStmt)
	v, ok := ret.Value.(*ast.Variable)
	if !ok || v.Name != lifted.Name {
		t.Fatalf("call site should reference the lifted function by name")
	}
}
