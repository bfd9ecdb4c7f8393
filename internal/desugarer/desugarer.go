// Package desugarer rewrites a parsed program into one that contains only
// primitive constructs the code generator understands: no Pipe, Repeat, or
// Lambda nodes. A single monotonically increasing counter supplies fresh
// names (the "__repeat_counter_" and "__lambda_" prefixes), guaranteed
// unique within the compilation unit and disjoint from any user-written
// identifier by convention.
package desugarer

import (
	"fmt"

	"github.com/angelobarone/minilang-compiler/internal/ast"
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/token"
)

// Desugar rewrites prog in place and returns the new root plus any pipe
// rewrite errors (the only desugaring failure mode: a pipe whose
// right-hand side is neither a call nor a bare identifier).
func Desugar(prog *ast.Program) (*ast.Program, error) {
	d := &desugarer{}
	var decls []ast.Decl
	for _, decl := range prog.Declarations {
		rewritten, err := d.decl(decl)
		if err != nil {
			return nil, err
		}
		decls = append(decls, rewritten)
	}
	decls = append(decls, d.lifted...)
	prog.Declarations = decls
	return prog, nil
}

type desugarer struct {
	counter int
	lifted  []ast.Decl // FunctionDecls produced by lambda lifting, in visit order
}

func (d *desugarer) freshName(prefix string) string {
	name := fmt.Sprintf("%s%d", prefix, d.counter)
	d.counter++
	return name
}

func (d *desugarer) decl(decl ast.Decl) (ast.Decl, error) {
	switch n := decl.(type) {
	case *ast.FunctionDecl:
		body, err := d.block(n.Body)
		if err != nil {
			return nil, err
		}
		n.Body = body
		return n, nil
	case *ast.ExternDecl:
		return n, nil
	case *ast.VarDecl:
		init, err := d.expr(n.Init)
		if err != nil {
			return nil, err
		}
		n.Init = init
		return n, nil
	}
	return decl, nil
}

// block visits every statement, splicing in list-valued rewrites (Repeat
// expands to two statements in place of one).
func (d *desugarer) block(b *ast.Block) (*ast.Block, error) {
	var stmts []ast.Stmt
	for _, stmt := range b.Statements {
		rewritten, err := d.stmt(stmt)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, rewritten...)
	}
	b.Statements = stmts
	return b, nil
}

func (d *desugarer) stmt(stmt ast.Stmt) ([]ast.Stmt, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		init, err := d.expr(s.Init)
		if err != nil {
			return nil, err
		}
		s.Init = init
		return []ast.Stmt{s}, nil

	case *ast.ReturnStmt:
		v, err := d.expr(s.Value)
		if err != nil {
			return nil, err
		}
		s.Value = v
		return []ast.Stmt{s}, nil

	case *ast.ExprStmt:
		e, err := d.expr(s.Expr)
		if err != nil {
			return nil, err
		}
		s.Expr = e
		return []ast.Stmt{s}, nil

	case *ast.IfStmt:
		cond, err := d.expr(s.Cond)
		if err != nil {
			return nil, err
		}
		s.Cond = cond
		then, err := d.block(s.Then)
		if err != nil {
			return nil, err
		}
		s.Then = then
		if s.Else != nil {
			elseBlock, err := d.block(s.Else)
			if err != nil {
				return nil, err
			}
			s.Else = elseBlock
		}
		return []ast.Stmt{s}, nil

	case *ast.WhileStmt:
		cond, err := d.expr(s.Cond)
		if err != nil {
			return nil, err
		}
		s.Cond = cond
		body, err := d.block(s.Body)
		if err != nil {
			return nil, err
		}
		s.Body = body
		return []ast.Stmt{s}, nil

	case *ast.RepeatStmt:
		return d.repeat(s)

	case *ast.Block:
		rewritten, err := d.block(s)
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{rewritten}, nil
	}
	return []ast.Stmt{stmt}, nil
}

// repeat lowers Repeat(count, body) to a counter VarDecl followed by a
// While whose condition re-evaluates count on every iteration (the count
// expression is embedded directly in the loop condition, not hoisted to a
// variable evaluated once — see spec §9 Open Question 3: this is the
// faithful, re-evaluating behaviour, not the evaluate-once alternative).
func (d *desugarer) repeat(s *ast.RepeatStmt) ([]ast.Stmt, error) {
	count, err := d.expr(s.Count)
	if err != nil {
		return nil, err
	}
	body, err := d.block(s.Body)
	if err != nil {
		return nil, err
	}

	counterName := d.freshName("__repeat_counter_")
	tok := s.Tok

	counterDecl := &ast.VarDecl{
		Name: counterName,
		Init: &ast.Literal{Value: 0, Tok: tok},
		Tok:  tok,
	}

	condition := &ast.Binary{
		Left:  &ast.Variable{Name: counterName, Tok: tok},
		Op:    token.LT,
		Right: count,
		Tok:   tok,
	}

	increment := &ast.ExprStmt{
		Expr: &ast.Assign{
			Name: counterName,
			Value: &ast.Binary{
				Left:  &ast.Variable{Name: counterName, Tok: tok},
				Op:    token.PLUS,
				Right: &ast.Literal{Value: 1, Tok: tok},
				Tok:   tok,
			},
			Tok: tok,
		},
		Tok: tok,
	}

	loopBody := &ast.Block{
		Statements: append(append([]ast.Stmt{}, body.Statements...), increment),
		Tok:        body.Tok,
	}

	whileStmt := &ast.WhileStmt{Cond: condition, Body: loopBody, Tok: tok}

	return []ast.Stmt{counterDecl, whileStmt}, nil
}

func (d *desugarer) expr(e ast.Expr) (ast.Expr, error) {
	switch n := e.(type) {
	case *ast.Literal, *ast.Variable:
		return n, nil

	case *ast.Binary:
		left, err := d.expr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.expr(n.Right)
		if err != nil {
			return nil, err
		}
		n.Left, n.Right = left, right
		return n, nil

	case *ast.Unary:
		operand, err := d.expr(n.Operand)
		if err != nil {
			return nil, err
		}
		n.Operand = operand
		return n, nil

	case *ast.Assign:
		v, err := d.expr(n.Value)
		if err != nil {
			return nil, err
		}
		n.Value = v
		return n, nil

	case *ast.Call:
		for i, arg := range n.Args {
			rewritten, err := d.expr(arg)
			if err != nil {
				return nil, err
			}
			n.Args[i] = rewritten
		}
		return n, nil

	case *ast.Pipe:
		return d.pipe(n)

	case *ast.Lambda:
		return d.lambda(n)
	}
	return e, nil
}

// pipe rewrites bottom-up: children are desugared first, then the pipe
// itself is collapsed into a Call.
//
//	Pipe(L, Call(f, args)) -> Call(f, [L, ...args])
//	Pipe(L, Variable(f))   -> Call(f, [L])
//	anything else          -> desugar error
func (d *desugarer) pipe(n *ast.Pipe) (ast.Expr, error) {
	left, err := d.expr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := d.expr(n.Right)
	if err != nil {
		return nil, err
	}

	switch r := right.(type) {
	case *ast.Call:
		r.Args = append([]ast.Expr{left}, r.Args...)
		return r, nil
	case *ast.Variable:
		return &ast.Call{Callee: r.Name, Args: []ast.Expr{left}, Tok: r.Tok}, nil
	default:
		return nil, diagnostics.NewDesugarError(n.Tok, describeShape(right))
	}
}

func describeShape(e ast.Expr) string {
	switch e.(type) {
	case *ast.Literal:
		return "a literal"
	case *ast.Binary:
		return "a binary expression"
	case *ast.Unary:
		return "a unary expression"
	case *ast.Assign:
		return "an assignment"
	case *ast.Pipe:
		return "a pipe expression"
	case *ast.Lambda:
		return "a lambda"
	default:
		return "an unsupported expression"
	}
}

// lambda lifts the body to a fresh top-level FunctionDecl and replaces the
// lambda site with a reference to it. Lambdas never capture enclosing
// variables; their body is desugared with no access to the surrounding
// expr's scope.
func (d *desugarer) lambda(n *ast.Lambda) (ast.Expr, error) {
	body, err := d.expr(n.Body)
	if err != nil {
		return nil, err
	}

	name := d.freshName("__lambda_")
	fn := &ast.FunctionDecl{
		Name:   name,
		Params: n.Params,
		Body: &ast.Block{
			Statements: []ast.Stmt{&ast.ReturnStmt{Value: body, Tok: n.Tok}},
			Tok:        n.Tok,
		},
		Tok: n.Tok,
	}
	d.lifted = append(d.lifted, fn)

	return &ast.Variable{Name: name, Tok: n.Tok}, nil
}
