package folder_test

import (
	"testing"

	"github.com/angelobarone/minilang-compiler/internal/ast"
	"github.com/angelobarone/minilang-compiler/internal/desugarer"
	"github.com/angelobarone/minilang-compiler/internal/folder"
	"github.com/angelobarone/minilang-compiler/internal/lexer"
	"github.com/angelobarone/minilang-compiler/internal/parser"
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
)

func compileToAST(t *testing.T, src string) *ast.Program {
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

func foldReturnValue(t *testing.T, src string) ast.Expr {
	t.Helper()
	prog := compileToAST(t, src)
	folded, err := folder.Fold(prog)
	if err != nil {
		t.Fatalf("fold failed: %v", err)
	}
	fn := folded.Declarations[0].(*ast.FunctionDecl)
	ret := fn.Body.Statements[0].(*ast.ReturnStmt)
	return ret.Value
}

func TestFoldsAddition(t *testing.T) {
	lit := literal(t, foldReturnValue(t, `func f() { return 2 + 3; }`))
	if lit.Value != 5 {
		t.Fatalf("got %d, want 5", lit.Value)
	}
}

func TestFoldsNestedArithmetic(t *testing.T) {
	lit := literal(t, foldReturnValue(t, `func f() { return (2 + 3) * 4; }`))
	if lit.Value != 20 {
		t.Fatalf("got %d, want 20", lit.Value)
	}
}

func TestFoldsUnaryMinus(t *testing.T) {
	lit := literal(t, foldReturnValue(t, `func f() { return -5; }`))
	if lit.Value != -5 {
		t.Fatalf("got %d, want -5", lit.Value)
	}
}

func TestDivisionTruncatesTowardZero(t *testing.T) {
	lit := literal(t, foldReturnValue(t, `func f() { return 7 / 2; }`))
	if lit.Value != 3 {
		t.Fatalf("got %d, want 3", lit.Value)
	}
	lit = literal(t, foldReturnValue(t, `func f() { return -7 / 2; }`))
	if lit.Value != -3 {
		t.Fatalf("got %d, want -3", lit.Value)
	}
}

func TestDivisionByZeroIsAFoldError(t *testing.T) {
	prog := compileToAST(t, `func f() { return 1 / 0; }`)
	if _, err := folder.Fold(prog); err == nil {
		t.Fatalf("expected a fold error for division by zero")
	}
}

func TestDoesNotFoldAcrossAVariable(t *testing.T) {
	value := foldReturnValue(t, `func f(x) { return x + 1; }`)
	if _, ok := value.(*ast.Binary); !ok {
		t.Fatalf("got %T, want *ast.Binary (unfoldable)", value)
	}
}

func literal(t *testing.T, e ast.Expr) *ast.Literal {
	t.Helper()
	lit, ok := e.(*ast.Literal)
	if !ok {
		t.Fatalf("got %T, want *ast.Literal", e)
	}
	return lit
}
