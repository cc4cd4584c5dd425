// Package kicadsexp provides a lightweight streaming S-expression parser and
// writer for KiCad files. Unlike general-purpose sexp libraries, it keeps
// quoted strings distinct from bare symbols so documents can be written back
// exactly as KiCad expects.
package kicadsexp

import (
	"io"
	"strings"
)

// Sexp represents an S-expression node.
// It can be either a leaf (atom) or a list (cons cell).
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// LeafCount returns the number of elements in a list (0 for atoms)
	LeafCount() int

	// Head returns the first element of a list (nil for atoms)
	Head() Sexp

	// Tail returns the rest of the list after the first element (nil for atoms)
	Tail() Sexp

	// String returns the string representation
	String() string
}

// Symbol represents a bare atom (keyword, number, identifier)
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// String represents a quoted atom. String() renders it quoted and escaped.
type String string

func (s String) IsLeaf() bool   { return true }
func (s String) LeafCount() int { return 1 }
func (s String) Head() Sexp     { return s }
func (s String) Tail() Sexp     { return nil }
func (s String) String() string { return quote(string(s)) }

// Value returns the unquoted content.
func (s String) Value() string { return string(s) }

// Atom returns the textual value of a leaf regardless of whether it was
// quoted. ok is false for lists.
func Atom(s Sexp) (string, bool) {
	switch v := s.(type) {
	case Symbol:
		return string(v), true
	case String:
		return string(v), true
	}
	return "", false
}

// List represents a list of S-expressions
type List struct {
	elements []Sexp
}

// NewList builds a list from its elements.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

// Node builds a keyword-headed list, e.g. Node("at", Symbol("0"), Symbol("1")).
func Node(key string, args ...Sexp) *List {
	elements := make([]Sexp, 0, len(args)+1)
	elements = append(elements, Symbol(key))
	elements = append(elements, args...)
	return &List{elements: elements}
}

// Append adds elements to the end of the list.
func (l *List) Append(elements ...Sexp) *List {
	l.elements = append(l.elements, elements...)
	return l
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return nil
	}
	return &List{elements: l.elements[1:]}
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Get returns the element at the given index
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.elements)
}

// Elements returns the list items.
func (l *List) Elements() []Sexp {
	return l.elements
}

// Parse parses S-expressions from an io.Reader.
func Parse(r io.Reader) ([]Sexp, error) {
	parser := NewParser(r)
	return parser.ParseAll()
}

// ParseString parses S-expressions from a string (convenience function)
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
