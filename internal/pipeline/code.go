package pipeline

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrHighlight indicates chroma failed to tokenise or format the code.
var ErrHighlight = errors.New("syntax highlighting failed")

const tabWidth = 4

// LexerFor picks the lexer for a language tag, guessing from the code when
// the tag is unknown and falling back to plain text.
func LexerFor(language, code string) chroma.Lexer {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// HighlightCode renders code as a <pre> block with inline colours from the
// chroma style named theme.
func HighlightCode(code, language, theme string, lineNumbers bool) (template.HTML, error) {
	it, err := LexerFor(language, code).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(false),
		chromahtml.WithLineNumbers(lineNumbers),
		chromahtml.TabWidth(tabWidth),
	)

	var b strings.Builder
	if err := formatter.Format(&b, styles.Get(theme), it); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return template.HTML(b.String()), nil // #nosec G203 -- chroma escapes token text
}
