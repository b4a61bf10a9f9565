package parser

import (
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer splits a console line into tokens. Card codes are tried before
// integers so "10H" is a single card and not the number 10.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(?:bet|hit|stand|double|use|target|cancel|continue|reroll|choose|equip|sell|tag|new|stack|help|class)\b`},
	{Name: "Card", Pattern: `(?i)\b(?:10|[2-9ajqk])[hdcs]\b`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Build creates our parser based on the struct tags in `ast.go`
func Build() *participle.Parser[Line] {
	return participle.MustBuild[Line](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Keyword"),
	)
}

var console = sync.OnceValue(Build)
