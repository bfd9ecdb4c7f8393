// Package prettyprinter renders an *ast.Program as an indented tree, used
// by the CLI's -emit-stage flag instead of a raw Go struct dump. The shape
// (a buffer, an indent counter, one method per node kind) follows the
// reference tree printer; the dispatch itself is a type switch rather than
// a Visit* method per node, matching the rest of this compiler's AST
// handling.
package prettyprinter

import (
	"fmt"
	"strings"

	"github.com/angelobarone/minilang-compiler/internal/ast"
)

// Print renders prog as an indented tree.
func Print(prog *ast.Program) string {
	p := &printer{}
	for _, decl := range prog.Declarations {
		p.decl(decl)
	}
	return p.buf.String()
}

type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) line(format string, args ...interface{}) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteString("\n")
}

func (p *printer) nested(f func()) {
	p.indent++
	f()
	p.indent--
}

func (p *printer) decl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.FunctionDecl:
		p.line("FunctionDecl %s(%s)", n.Name, strings.Join(n.Params, ", "))
		p.nested(func() { p.block(n.Body) })
	case *ast.ExternDecl:
		p.line("ExternDecl %s(%s)", n.Name, strings.Join(n.Params, ", "))
	case *ast.VarDecl:
		p.line("VarDecl %s", n.Name)
		p.nested(func() { p.expr(n.Init) })
	default:
		p.line("<unknown decl %T>", d)
	}
}

func (p *printer) block(b *ast.Block) {
	p.line("Block")
	p.nested(func() {
		for _, s := range b.Statements {
			p.stmt(s)
		}
	})
}

func (p *printer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDecl:
		p.line("VarDecl %s", n.Name)
		p.nested(func() { p.expr(n.Init) })
	case *ast.ReturnStmt:
		p.line("Return")
		p.nested(func() { p.expr(n.Value) })
	case *ast.ExprStmt:
		p.line("ExprStmt")
		p.nested(func() { p.expr(n.Expr) })
	case *ast.IfStmt:
		p.line("If")
		p.nested(func() { p.expr(n.Cond) })
		p.nested(func() { p.block(n.Then) })
		if n.Else != nil {
			p.line("Else")
			p.nested(func() { p.block(n.Else) })
		}
	case *ast.WhileStmt:
		p.line("While")
		p.nested(func() { p.expr(n.Cond) })
		p.nested(func() { p.block(n.Body) })
	case *ast.RepeatStmt:
		p.line("Repeat")
		p.nested(func() { p.expr(n.Count) })
		p.nested(func() { p.block(n.Body) })
	case *ast.Block:
		p.block(n)
	default:
		p.line("<unknown stmt %T>", s)
	}
}

func (p *printer) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal:
		p.line("Literal %d", n.Value)
	case *ast.Variable:
		p.line("Variable %s", n.Name)
	case *ast.Binary:
		p.line("Binary %s", n.Op)
		p.nested(func() { p.expr(n.Left) })
		p.nested(func() { p.expr(n.Right) })
	case *ast.Unary:
		p.line("Unary %s", n.Op)
		p.nested(func() { p.expr(n.Operand) })
	case *ast.Pipe:
		p.line("Pipe")
		p.nested(func() { p.expr(n.Left) })
		p.nested(func() { p.expr(n.Right) })
	case *ast.Assign:
		p.line("Assign %s", n.Name)
		p.nested(func() { p.expr(n.Value) })
	case *ast.Call:
		p.line("Call %s", n.Callee)
		p.nested(func() {
			for _, a := range n.Args {
				p.expr(a)
			}
		})
	case *ast.Lambda:
		p.line("Lambda(%s)", strings.Join(n.Params, ", "))
		p.nested(func() { p.expr(n.Body) })
	default:
		p.line("<unknown expr %T>", e)
	}
}
