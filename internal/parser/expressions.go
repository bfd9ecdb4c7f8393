package parser

import (
	"github.com/angelobarone/minilang-compiler/internal/ast"
	"github.com/angelobarone/minilang-compiler/internal/config"
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/token"
)

// atTier reports whether the current token is a binary operator belonging
// to the given precedence tier, per the config package's operator table
// (the single source of truth the parser's cascade reads instead of
// hard-coding token checks at every level).
func (p *Parser) atTier(tier int) bool {
	op, ok := config.GetOperator(p.cur.Type)
	return ok && op.Precedence == tier
}

// The expression cascade descends from lowest to highest precedence exactly
// as spec.md §4.2/§6 lays it out:
//
//	expr -> pipe -> assign -> logical -> equality -> relational
//	     -> additive -> multiplicative -> unary -> primary

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parsePipe()
}

// parsePipe is right-associative: "a |> b |> c" parses as
// Pipe(a, Pipe(b, c)).
func (p *Parser) parsePipe() (ast.Expr, error) {
	left, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if p.check(token.PIPE) {
		tok := p.advance()
		right, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		return &ast.Pipe{Left: left, Right: right, Tok: tok}, nil
	}
	return left, nil
}

// parseAssign recognises "ID = E" only when the current token is an
// identifier immediately followed by '='; otherwise it falls through to
// logical. This keeps assignment a statement-like expression without
// requiring the grammar to single out an lvalue production.
func (p *Parser) parseAssign() (ast.Expr, error) {
	if p.check(token.ID) && p.peek(1).Type == token.ASSIGN {
		name := p.advance()
		p.advance() // '='
		value, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Name: name.Lexeme, Value: value, Tok: name}, nil
	}
	return p.parseLogical()
}

// parseLogical treats && and || as a single left-associative tier: mixing
// them requires no inner precedence between the two.
func (p *Parser) parseLogical() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.atTier(config.PrecLogical) {
		op := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op.Type, Right: right, Tok: op}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.atTier(config.PrecEquality) {
		op := p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op.Type, Right: right, Tok: op}
	}
	return left, nil
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.atTier(config.PrecRelational) {
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op.Type, Right: right, Tok: op}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.atTier(config.PrecAdditive) {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op.Type, Right: right, Tok: op}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.atTier(config.PrecMultiplicative) {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op.Type, Right: right, Tok: op}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.check(token.MINUS) || p.check(token.NOT) {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op.Type, Operand: operand, Tok: op}, nil
	}
	return p.parsePrimary()
}

// isLambdaLookahead decides, without consuming any token, whether the
// parenthesised form starting at the current '(' is a lambda parameter
// list rather than a grouped expression: it is a lambda iff the contents
// are an empty list or a comma-separated list of bare identifiers, and the
// matching ')' is immediately followed by '=>'.
func (p *Parser) isLambdaLookahead() bool {
	offset := 1
	if p.peek(offset).Type == token.RPAREN {
		return p.peek(offset + 1).Type == token.ARROW
	}
	if p.peek(offset).Type == token.ID {
		offset++
		for {
			tok := p.peek(offset)
			switch tok.Type {
			case token.RPAREN:
				return p.peek(offset + 1).Type == token.ARROW
			case token.COMMA:
				offset++
				if p.peek(offset).Type != token.ID {
					return false
				}
				offset++
			default:
				return false
			}
		}
	}
	return false
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.check(token.INTEGER):
		tok := p.advance()
		return &ast.Literal{Value: tok.Literal.(int64), Tok: tok}, nil

	case p.check(token.ID):
		if p.peek(1).Type == token.LPAREN {
			return p.parseCall()
		}
		tok := p.advance()
		return &ast.Variable{Name: tok.Lexeme, Tok: tok}, nil

	case p.check(token.LPAREN):
		if p.isLambdaLookahead() {
			return p.parseLambda()
		}
		p.advance() // '('
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, diagnostics.NewSyntaxError(diagnostics.ErrP003, p.cur, p.cur.Lexeme)
}

func (p *Parser) parseLambda() (*ast.Lambda, error) {
	tok, err := p.expect(token.LPAREN)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Params: params, Body: body, Tok: tok}, nil
}

func (p *Parser) parseCall() (*ast.Call, error) {
	name, err := p.expect(token.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for p.match(token.COMMA) {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Call{Callee: name.Lexeme, Args: args, Tok: name}, nil
}
