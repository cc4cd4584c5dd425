package kicadsexp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Pos is a 1-based line and column in the input.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Token represents a lexical token and where it starts.
type Token struct {
	Type  TokenType
	Value string
	Pos   Pos
}

// ErrSyntax is matched by every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("sexp: syntax error")

// SyntaxError reports malformed input at a position.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("sexp: %s: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// Lexer tokenizes S-expressions from an io.Reader. KiCad files carry no
// comments, so every non-delimiter rune belongs to a symbol.
type Lexer struct {
	reader *bufio.Reader
	pos    Pos // position of the next rune
	peeked bool
	next   rune
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		pos:    Pos{Line: 1, Col: 1},
	}
}

// Pos returns the position of the next unread rune.
func (l *Lexer) Pos() Pos { return l.pos }

// NextToken reads the next token from the input. At end of input it
// returns a TokenEOF token and a nil error.
func (l *Lexer) NextToken() (Token, error) {
	ch, err := l.skipSpace()
	if errors.Is(err, io.EOF) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}
	if err != nil {
		return Token{}, err
	}

	start := l.pos
	switch ch {
	case '(':
		l.read()
		return Token{Type: TokenLeftParen, Value: "(", Pos: start}, nil
	case ')':
		l.read()
		return Token{Type: TokenRightParen, Value: ")", Pos: start}, nil
	case '"':
		return l.readString(start)
	}
	return l.readSymbol(start)
}

func (l *Lexer) skipSpace() (rune, error) {
	for {
		ch, err := l.peek()
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(ch) {
			return ch, nil
		}
		l.read()
	}
}

func (l *Lexer) peek() (rune, error) {
	if l.peeked {
		return l.next, nil
	}
	ch, size, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	if ch == unicode.ReplacementChar && size == 1 {
		return 0, &SyntaxError{Pos: l.pos, Msg: "invalid UTF-8"}
	}
	l.next, l.peeked = ch, true
	return ch, nil
}

func (l *Lexer) read() (rune, error) {
	ch, err := l.peek()
	if err != nil {
		return 0, err
	}
	l.peeked = false
	if ch == '\n' {
		l.pos.Line++
		l.pos.Col = 1
	} else {
		l.pos.Col++
	}
	return ch, nil
}

// readString reads a double-quoted string with backslash escapes.
func (l *Lexer) readString(start Pos) (Token, error) {
	l.read() // opening quote

	var b strings.Builder
	for {
		ch, err := l.read()
		if errors.Is(err, io.EOF) {
			return Token{}, &SyntaxError{Pos: start, Msg: "unterminated string"}
		}
		if err != nil {
			return Token{}, err
		}

		switch ch {
		case '"':
			return Token{Type: TokenString, Value: b.String(), Pos: start}, nil
		case '\\':
			esc, err := l.read()
			if errors.Is(err, io.EOF) {
				return Token{}, &SyntaxError{Pos: start, Msg: "unterminated escape"}
			}
			if err != nil {
				return Token{}, err
			}
			b.WriteRune(unescape(esc))
		default:
			b.WriteRune(ch)
		}
	}
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	// \\, \" and unknown escapes stand for themselves
	return r
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == '"'
}

// readSymbol reads a bare atom: keyword, number or unquoted name.
func (l *Lexer) readSymbol(start Pos) (Token, error) {
	var b strings.Builder
	for {
		ch, err := l.peek()
		if errors.Is(err, io.EOF) || (err == nil && isDelimiter(ch)) {
			break
		}
		if err != nil {
			return Token{}, err
		}
		l.read()
		b.WriteRune(ch)
	}
	return Token{Type: TokenSymbol, Value: b.String(), Pos: start}, nil
}
