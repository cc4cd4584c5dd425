package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// Writer serializes S-expressions in KiCad's layout: lists holding only
// atoms stay on one line, lists with nested lists put each child on its own
// tab-indented line and close on a line of their own.
type Writer struct {
	w      *bufio.Writer
	indent string
}

// NewWriter creates a writer using a tab per nesting level.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), indent: "\t"}
}

// Write emits one top-level expression followed by a newline.
func (wr *Writer) Write(s Sexp) error {
	wr.write(s, 0)
	if err := wr.w.WriteByte('\n'); err != nil {
		return err
	}
	return wr.w.Flush()
}

func (wr *Writer) write(s Sexp, depth int) {
	l, ok := s.(*List)
	if !ok {
		wr.w.WriteString(s.String())
		return
	}

	if !hasNestedList(l) {
		wr.w.WriteString(l.String())
		return
	}

	wr.w.WriteByte('(')
	i := 0
	for ; i < len(l.elements); i++ {
		if !l.elements[i].IsLeaf() {
			break
		}
		if i > 0 {
			wr.w.WriteByte(' ')
		}
		wr.w.WriteString(l.elements[i].String())
	}

	for ; i < len(l.elements); i++ {
		wr.w.WriteByte('\n')
		wr.w.WriteString(strings.Repeat(wr.indent, depth+1))
		wr.write(l.elements[i], depth+1)
	}

	wr.w.WriteByte('\n')
	wr.w.WriteString(strings.Repeat(wr.indent, depth))
	wr.w.WriteByte(')')
}

// Format renders s with the Writer layout.
func Format(s Sexp) string {
	var b strings.Builder
	// strings.Builder never fails
	_ = NewWriter(&b).Write(s)
	return b.String()
}

func hasNestedList(l *List) bool {
	for _, e := range l.elements {
		if !e.IsLeaf() {
			return true
		}
	}
	return false
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
