// Package parser implements a recursive-descent parser over a
// pre-materialised token stream. Each grammar non-terminal in spec.md §6's
// EBNF is one method; there is no panic-mode recovery — the first syntax
// error aborts parsing and is returned to the caller.
package parser

import (
	"github.com/angelobarone/minilang-compiler/internal/ast"
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
	"github.com/angelobarone/minilang-compiler/internal/token"
)

type Parser struct {
	stream pipeline.TokenStream
	cur    token.Token
}

func New(stream pipeline.TokenStream) *Parser {
	p := &Parser{stream: stream}
	p.cur = stream.Next()
	return p
}

// peek returns the token offset positions ahead of the current one; peek(0)
// is the current token. It never consumes.
func (p *Parser) peek(offset int) token.Token {
	if offset == 0 {
		return p.cur
	}
	toks := p.stream.Peek(offset)
	if len(toks) < offset {
		return token.Token{Type: token.EOF}
	}
	return toks[offset-1]
}

// advance consumes and returns the current token.
func (p *Parser) advance() token.Token {
	t := p.cur
	p.cur = p.stream.Next()
	return t
}

func (p *Parser) check(t token.TokenType) bool {
	return p.cur.Type == t
}

// match consumes the current token and returns true if it has one of the
// given types; otherwise it leaves the position unchanged.
func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has the given type, otherwise
// returns a syntax error.
func (p *Parser) expect(t token.TokenType) (token.Token, error) {
	if p.cur.Type == token.EOF && t != token.EOF {
		return token.Token{}, diagnostics.NewSyntaxError(diagnostics.ErrP002, p.cur)
	}
	if p.cur.Type != t {
		return token.Token{}, diagnostics.NewSyntaxError(diagnostics.ErrP001, p.cur, t, p.cur.Type)
	}
	return p.advance(), nil
}

// ParseProgram parses a full compilation unit.
func ParseProgram(stream pipeline.TokenStream) (*ast.Program, error) {
	p := New(stream)
	var decls []ast.Decl
	for !p.check(token.EOF) {
		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return &ast.Program{Declarations: decls}, nil
}

func (p *Parser) parseDecl() (ast.Decl, error) {
	switch p.cur.Type {
	case token.EXTERN:
		return p.parseExternDecl()
	case token.FUNC:
		return p.parseFuncDecl()
	case token.LET:
		return p.parseVarDecl()
	default:
		return nil, diagnostics.NewSyntaxError(diagnostics.ErrP001, p.cur, "a declaration", p.cur.Type)
	}
}

func (p *Parser) parseExternDecl() (*ast.ExternDecl, error) {
	tok, err := p.expect(token.EXTERN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FUNC); err != nil {
		return nil, err
	}
	name, err := p.expect(token.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ExternDecl{Name: name.Lexeme, Params: params, Tok: tok}, nil
}

func (p *Parser) parseFuncDecl() (*ast.FunctionDecl, error) {
	tok, err := p.expect(token.FUNC)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{Name: name.Lexeme, Params: params, Body: body, Tok: tok}, nil
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	if _, err := p.expect(token.LET); err != nil {
		return nil, err
	}
	name, err := p.expect(token.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Name: name.Lexeme, Init: expr, Tok: name}, nil
}

func (p *Parser) parseParams() ([]string, error) {
	var params []string
	if p.check(token.ID) {
		first, _ := p.expect(token.ID)
		params = append(params, first.Lexeme)
		for p.match(token.COMMA) {
			next, err := p.expect(token.ID)
			if err != nil {
				return nil, err
			}
			params = append(params, next.Lexeme)
		}
	}
	return params, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	tok, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Block{Statements: stmts, Tok: tok}, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.cur.Type {
	case token.LET:
		return p.parseVarDecl()
	case token.RETURN:
		tok := p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Value: expr, Tok: tok}, nil
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.REPEAT:
		return p.parseRepeatStmt()
	default:
		tok := p.cur
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr, Tok: tok}, nil
	}
}

func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	tok, err := p.expect(token.IF)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBlock *ast.Block
	if p.match(token.ELSE) {
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseBlock, Tok: tok}, nil
}

func (p *Parser) parseWhileStmt() (*ast.WhileStmt, error) {
	tok, err := p.expect(token.WHILE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Tok: tok}, nil
}

func (p *Parser) parseRepeatStmt() (*ast.RepeatStmt, error) {
	tok, err := p.expect(token.REPEAT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	count, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.RepeatStmt{Count: count, Body: body, Tok: tok}, nil
}
