package value

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ValueLexer splits component values such as "100nF", "4k7" or "2R2"
// into numbers and unit/multiplier words.
var ValueLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Zµμ\x{03A9}\x{2126}]+`},
})
