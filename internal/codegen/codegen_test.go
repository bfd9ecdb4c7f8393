package codegen_test

import (
	"strings"
	"testing"

	"github.com/angelobarone/minilang-compiler/internal/ast"
	"github.com/angelobarone/minilang-compiler/internal/codegen"
	"github.com/angelobarone/minilang-compiler/internal/desugarer"
	"github.com/angelobarone/minilang-compiler/internal/folder"
	"github.com/angelobarone/minilang-compiler/internal/lexer"
	"github.com/angelobarone/minilang-compiler/internal/parser"
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("unexpected parse errors: %v", ctx.Errors)
	}
	rewritten, err := desugarer.Desugar(ctx.AstRoot)
	if err != nil {
		t.Fatalf("desugar failed: %v", err)
	}
	folded, err := folder.Fold(rewritten)
	if err != nil {
		t.Fatalf("fold failed: %v", err)
	}
	ir, err := codegen.Generate(folded)
	if err != nil {
		t.Fatalf("codegen failed: %v", err)
	}
	return ir
}

func TestGeneratesFunctionDefinition(t *testing.T) {
	ir := generate(t, `func add(a, b) { return a + b; }`)
	if !strings.Contains(ir, `define i64 @"add"(i64 %"a.arg", i64 %"b.arg")`) {
		t.Fatalf("missing function definition in:\n%s", ir)
	}
}

func TestExternIsForwardDeclared(t *testing.T) {
	ir := generate(t, `extern func puts(s); func f() { return puts(1); }`)
	if !strings.Contains(ir, `declare i64 @"puts"(i64 %".1")`) {
		t.Fatalf("missing extern declaration in:\n%s", ir)
	}
	if !strings.Contains(ir, `call i64 @"puts"(`) {
		t.Fatalf("missing call to puts in:\n%s", ir)
	}
}

func TestImplicitReturnZero(t *testing.T) {
	ir := generate(t, `func f() { let x = 1; }`)
	if !strings.Contains(ir, "ret i64 0") {
		t.Fatalf("missing implicit return in:\n%s", ir)
	}
}

func TestIfGeneratesThreeBlocks(t *testing.T) {
	ir := generate(t, `func f() { if (1) { return 1; } return 0; }`)
	for _, label := range []string{"then:", "if_cont:"} {
		if !strings.Contains(ir, label) {
			t.Fatalf("missing block %q in:\n%s", label, ir)
		}
	}
}

func TestWhileGeneratesLoopBlocks(t *testing.T) {
	ir := generate(t, `func f() { let i = 0; while (i) { i = 0; } return 0; }`)
	for _, label := range []string{"while_cond", "while_body", "while_after"} {
		if !strings.Contains(ir, label) {
			t.Fatalf("missing block %q in:\n%s", label, ir)
		}
	}
}

func TestComparisonZextsToI64(t *testing.T) {
	ir := generate(t, `func f(a, b) { return a < b; }`)
	if !strings.Contains(ir, "icmp slt i64") || !strings.Contains(ir, "zext i1") {
		t.Fatalf("missing comparison lowering in:\n%s", ir)
	}
}

func TestLogicalOperatorsAreBitwiseNotShortCircuited(t *testing.T) {
	ir := generate(t, `func f(a, b) { return a && b; }`)
	if !strings.Contains(ir, "and i64") {
		t.Fatalf("expected a bitwise 'and', got:\n%s", ir)
	}
}

func TestResidualRepeatIsAnInternalError(t *testing.T) {
	prog := &ast.Program{
		Declarations: []ast.Decl{
			&ast.FunctionDecl{
				Name: "f",
				Body: &ast.Block{
					Statements: []ast.Stmt{
						&ast.RepeatStmt{
							Count: &ast.Literal{Value: 1},
							Body:  &ast.Block{},
						},
					},
				},
			},
		},
	}
	if _, err := codegen.Generate(prog); err == nil {
		t.Fatalf("expected an internal error for a residual RepeatStmt")
	}
}
