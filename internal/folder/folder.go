// Package folder implements constant folding: a post-order rewrite that
// collapses arithmetic over literal operands into a single literal,
// mirroring the two's-complement wraparound semantics of LLVM's integer
// instructions. It runs after desugaring, so it never needs to handle
// Pipe, Repeat, or Lambda nodes.
package folder

import (
	"github.com/angelobarone/minilang-compiler/internal/ast"
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/token"
)

// Fold rewrites prog's declarations in place and returns the new root.
// The only failure mode is division by zero between two literal operands.
func Fold(prog *ast.Program) (*ast.Program, error) {
	for _, decl := range prog.Declarations {
		if err := foldDecl(decl); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

func foldDecl(decl ast.Decl) error {
	switch d := decl.(type) {
	case *ast.FunctionDecl:
		return foldBlock(d.Body)
	case *ast.VarDecl:
		folded, err := foldExpr(d.Init)
		if err != nil {
			return err
		}
		d.Init = folded
		return nil
	}
	return nil
}

func foldBlock(b *ast.Block) error {
	for i, stmt := range b.Statements {
		rewritten, err := foldStmt(stmt)
		if err != nil {
			return err
		}
		b.Statements[i] = rewritten
	}
	return nil
}

func foldStmt(stmt ast.Stmt) (ast.Stmt, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		v, err := foldExpr(s.Init)
		if err != nil {
			return nil, err
		}
		s.Init = v
		return s, nil
	case *ast.ReturnStmt:
		v, err := foldExpr(s.Value)
		if err != nil {
			return nil, err
		}
		s.Value = v
		return s, nil
	case *ast.ExprStmt:
		v, err := foldExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		s.Expr = v
		return s, nil
	case *ast.IfStmt:
		cond, err := foldExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		s.Cond = cond
		if err := foldBlock(s.Then); err != nil {
			return nil, err
		}
		if s.Else != nil {
			if err := foldBlock(s.Else); err != nil {
				return nil, err
			}
		}
		return s, nil
	case *ast.WhileStmt:
		cond, err := foldExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		s.Cond = cond
		if err := foldBlock(s.Body); err != nil {
			return nil, err
		}
		return s, nil
	case *ast.Block:
		if err := foldBlock(s); err != nil {
			return nil, err
		}
		return s, nil
	}
	return stmt, nil
}

func foldExpr(e ast.Expr) (ast.Expr, error) {
	switch n := e.(type) {
	case *ast.Literal, *ast.Variable:
		return n, nil

	case *ast.Binary:
		left, err := foldExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := foldExpr(n.Right)
		if err != nil {
			return nil, err
		}
		n.Left, n.Right = left, right

		ll, lok := left.(*ast.Literal)
		rl, rok := right.(*ast.Literal)
		if !lok || !rok {
			return n, nil
		}
		switch n.Op {
		case token.PLUS:
			return &ast.Literal{Value: ll.Value + rl.Value, Tok: n.Tok}, nil
		case token.MINUS:
			return &ast.Literal{Value: ll.Value - rl.Value, Tok: n.Tok}, nil
		case token.MUL:
			return &ast.Literal{Value: ll.Value * rl.Value, Tok: n.Tok}, nil
		case token.DIV:
			if rl.Value == 0 {
				return nil, diagnostics.NewFoldError(n.Tok)
			}
			return &ast.Literal{Value: ll.Value / rl.Value, Tok: n.Tok}, nil
		}
		// Comparisons and logical operators are deliberately never folded
		// (spec §4.5): constant booleans are rare and folding them would
		// complicate the value representation for no measurable benefit.
		return n, nil

	case *ast.Unary:
		operand, err := foldExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		n.Operand = operand
		if n.Op == token.MINUS {
			if lit, ok := operand.(*ast.Literal); ok {
				return &ast.Literal{Value: -lit.Value, Tok: n.Tok}, nil
			}
		}
		// Unary NOT is never folded (spec §4.5).
		return n, nil

	case *ast.Assign:
		v, err := foldExpr(n.Value)
		if err != nil {
			return nil, err
		}
		n.Value = v
		return n, nil

	case *ast.Call:
		for i, arg := range n.Args {
			folded, err := foldExpr(arg)
			if err != nil {
				return nil, err
			}
			n.Args[i] = folded
		}
		return n, nil
	}
	return e, nil
}
