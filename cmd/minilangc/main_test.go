package main

import (
	"strings"
	"testing"
)

// resetFlags restores the package-level flag variables to compile's default
// behavior (fold enabled, emit the final IR) between scenarios, since they
// are ordinarily only ever set once by flag.Parse in main.
func resetFlags() {
	stage := "ir"
	emitStage = &stage
	fold := false
	noFold = &fold
}

func mustCompile(t *testing.T, src string) string {
	t.Helper()
	resetFlags()
	ir, err := compile(src, "")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return ir
}

func TestScenarioEmptyMain(t *testing.T) {
	ir := mustCompile(t, `func main() {}`)
	for _, want := range []string{`define i64 @"main"()`, "ret i64 0"} {
		if !strings.Contains(ir, want) {
			t.Fatalf("missing %q in:\n%s", want, ir)
		}
	}
}

func TestScenarioArithmeticFolds(t *testing.T) {
	ir := mustCompile(t, `func f() { return 10 + 5; }`)
	if !strings.Contains(ir, "ret i64 15") {
		t.Fatalf("missing folded result in:\n%s", ir)
	}
}

func TestScenarioArithmeticUnfolded(t *testing.T) {
	resetFlags()
	fold := true
	noFold = &fold
	ir, err := compile(`func f() { return 10 + 5; }`, "")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !strings.Contains(ir, "add i64 10, 5") {
		t.Fatalf("missing unfolded addition in:\n%s", ir)
	}
}

func TestScenarioVariableRoundtrip(t *testing.T) {
	ir := mustCompile(t, `func f() { let x = 42; return x; }`)
	for _, want := range []string{"alloca i64", "store i64 42", "load i64"} {
		if !strings.Contains(ir, want) {
			t.Fatalf("missing %q in:\n%s", want, ir)
		}
	}
}

func TestScenarioExternCall(t *testing.T) {
	ir := mustCompile(t, `extern func print(n); func main() { print(10); }`)
	for _, want := range []string{`declare i64 @"print"(i64 %".1")`, `call i64 @"print"(i64 10)`} {
		if !strings.Contains(ir, want) {
			t.Fatalf("missing %q in:\n%s", want, ir)
		}
	}
}

func TestScenarioIfElse(t *testing.T) {
	ir := mustCompile(t, `func f() { if (1 < 2) { return 100; } else { return 200; } }`)
	for _, want := range []string{"icmp slt i64 1, 2", "br i1", "then", "else", "if_cont"} {
		if !strings.Contains(ir, want) {
			t.Fatalf("missing %q in:\n%s", want, ir)
		}
	}
}

func TestScenarioWhileLoop(t *testing.T) {
	ir := mustCompile(t, `func f() { let x = 10; while (x > 0) { x = x - 1; } return 0; }`)
	for _, want := range []string{"while_cond", "while_body", "while_after", `br label %"while_cond"`} {
		if !strings.Contains(ir, want) {
			t.Fatalf("missing %q in:\n%s", want, ir)
		}
	}
}

func TestScenarioPipeError(t *testing.T) {
	resetFlags()
	if _, err := compile(`func f(x) { return x |> 5; }`, ""); err == nil {
		t.Fatalf("expected a desugar error for a pipe into a literal")
	}
}

func TestScenarioArityError(t *testing.T) {
	resetFlags()
	src := `func add(a, b) { return a + b; } func main() { return add(1); }`
	if _, err := compile(src, ""); err == nil {
		t.Fatalf("expected a semantic error for an arity mismatch")
	}
}
