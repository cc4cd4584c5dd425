package kicadsexp

import (
	"io"
)

// MaxDepth bounds list nesting; KiCad files stay far below it.
const MaxDepth = 256

// Parser builds Sexp trees from a token stream.
type Parser struct {
	lexer *Lexer
	tok   Token
}

// NewParser creates a new parser from an io.Reader
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// ParseAll parses every top-level expression until end of input.
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Type == TokenEOF {
			return result, nil
		}
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
	}
}

// parseExpr parses the expression starting at the current token.
func (p *Parser) parseExpr(depth int) (Sexp, error) {
	switch p.tok.Type {
	case TokenLeftParen:
		return p.parseList(depth + 1)
	case TokenSymbol:
		return Symbol(p.tok.Value), nil
	case TokenString:
		return String(p.tok.Value), nil
	}
	return nil, &SyntaxError{Pos: p.tok.Pos, Msg: "unexpected " + p.tok.Type.String()}
}

// parseList consumes tokens up to the ')' matching the current '('.
func (p *Parser) parseList(depth int) (Sexp, error) {
	open := p.tok.Pos
	if depth > MaxDepth {
		return nil, &SyntaxError{Pos: open, Msg: "nesting too deep"}
	}

	list := &List{}
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.tok.Type {
		case TokenRightParen:
			return list, nil
		case TokenEOF:
			return nil, &SyntaxError{Pos: open, Msg: "unclosed '('"}
		}

		elem, err := p.parseExpr(depth)
		if err != nil {
			return nil, err
		}
		list.elements = append(list.elements, elem)
	}
}
