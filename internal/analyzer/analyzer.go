// Package analyzer performs semantic analysis over a parsed program: name
// resolution and call-arity checking. It runs twice in the driver — once
// before desugaring (to catch ordinary scoping/arity mistakes as early as
// possible) and once after (to catch free-variable references inside
// lifted lambda bodies, which desugaring only introduces after the first
// pass has already run; see spec §9 Open Question 2).
package analyzer

import (
	"github.com/angelobarone/minilang-compiler/internal/ast"
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
)

// Analyze walks prog in two passes and returns every semantic error found,
// plus the name -> arity map collected in the first pass (handed back so
// callers can inspect it; SemanticAnalyzerProcessor stores it in
// ctx.Arity).
func Analyze(prog *ast.Program) (map[string]int, []*diagnostics.DiagnosticError) {
	a := &analyzer{arity: make(map[string]int)}
	a.collectArity(prog)
	if len(a.errors) > 0 {
		return a.arity, a.errors
	}
	for _, decl := range prog.Declarations {
		if fn, ok := decl.(*ast.FunctionDecl); ok {
			a.analyzeFunction(fn)
		}
	}
	return a.arity, a.errors
}

type analyzer struct {
	arity  map[string]int
	scope  map[string]bool // flat per-function name set; reset per function
	errors []*diagnostics.DiagnosticError
}

func (a *analyzer) addError(err *diagnostics.DiagnosticError) {
	a.errors = append(a.errors, err)
}

// collectArity is the first pass: it gathers every FunctionDecl/ExternDecl
// name into a name -> arity map. Per spec §9 Open Question 1, a duplicate
// top-level name is rejected rather than silently overwritten.
func (a *analyzer) collectArity(prog *ast.Program) {
	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			a.declareName(d.Name, len(d.Params), d)
		case *ast.ExternDecl:
			a.declareName(d.Name, len(d.Params), d)
		}
	}
}

func (a *analyzer) declareName(name string, arity int, tok ast.Node) {
	if _, exists := a.arity[name]; exists {
		a.addError(diagnostics.NewSemanticError(diagnostics.ErrA006, tok.GetToken(), name))
		return
	}
	a.arity[name] = arity
}

// analyzeFunction is the second pass: it walks one function body with a
// flat, non-lexically-scoped name set seeded by the parameters. if/while/
// nested blocks introduce no new scope; every VarDecl extends the same set
// from that point on, including redeclarations (which silently rebind,
// matching the code generator's fresh-alloca-per-VarDecl behaviour).
func (a *analyzer) analyzeFunction(fn *ast.FunctionDecl) {
	a.scope = make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		if a.scope[p] {
			a.addError(diagnostics.NewSemanticError(diagnostics.ErrA001, fn.Tok, p, fn.Name))
			continue
		}
		a.scope[p] = true
	}
	a.analyzeBlock(fn.Body)
}

func (a *analyzer) analyzeBlock(b *ast.Block) {
	for _, stmt := range b.Statements {
		a.analyzeStmt(stmt)
	}
}

func (a *analyzer) analyzeStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		a.analyzeExpr(s.Init)
		a.scope[s.Name] = true
	case *ast.ReturnStmt:
		a.analyzeExpr(s.Value)
	case *ast.ExprStmt:
		a.analyzeExpr(s.Expr)
	case *ast.IfStmt:
		a.analyzeExpr(s.Cond)
		a.analyzeBlock(s.Then)
		if s.Else != nil {
			a.analyzeBlock(s.Else)
		}
	case *ast.WhileStmt:
		a.analyzeExpr(s.Cond)
		a.analyzeBlock(s.Body)
	case *ast.RepeatStmt:
		a.analyzeExpr(s.Count)
		a.analyzeBlock(s.Body)
	case *ast.Block:
		a.analyzeBlock(s)
	}
}

func (a *analyzer) analyzeExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		// nothing to check
	case *ast.Variable:
		if !a.scope[e.Name] {
			a.addError(diagnostics.NewSemanticError(diagnostics.ErrA002, e.Tok, e.Name))
		}
	case *ast.Binary:
		a.analyzeExpr(e.Left)
		a.analyzeExpr(e.Right)
	case *ast.Unary:
		a.analyzeExpr(e.Operand)
	case *ast.Pipe:
		a.analyzeExpr(e.Left)
		a.analyzeExpr(e.Right)
	case *ast.Assign:
		if !a.scope[e.Name] {
			a.addError(diagnostics.NewSemanticError(diagnostics.ErrA003, e.Tok, e.Name))
		}
		a.analyzeExpr(e.Value)
	case *ast.Call:
		arity, ok := a.arity[e.Callee]
		if !ok {
			a.addError(diagnostics.NewSemanticError(diagnostics.ErrA004, e.Tok, e.Callee))
		} else if arity != len(e.Args) {
			a.addError(diagnostics.NewSemanticError(diagnostics.ErrA005, e.Tok, e.Callee, arity, len(e.Args)))
		}
		for _, arg := range e.Args {
			a.analyzeExpr(arg)
		}
	case *ast.Lambda:
		// A lambda's body is analyzed in its own flat scope once it has
		// been lifted to a top-level FunctionDecl by the desugarer; before
		// that point its parameters are not yet bound to anything, so
		// there is nothing useful to check here.
	}
}
