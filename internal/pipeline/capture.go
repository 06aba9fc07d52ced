package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/alnah/go-code2doc/internal/assets"
)

// ErrPageBuild indicates the capture page could not be produced.
var ErrPageBuild = errors.New("capture page build failed")

// CSS classes on the #capture element of the capture template.
const (
	classCode   = "code"
	classMarkup = "markup"
)

// PageOptions configures a PageBuilder.
type PageOptions struct {
	Theme       string  // alias or chroma style; empty = DefaultTheme
	LineNumbers bool    // code pages only
	FontSize    float64 // CSS pixels; <= 0 keeps the stylesheet default
}

// Markup is a region of HTML or Markdown to capture as rendered output.
type Markup struct {
	Source   string
	Markdown bool
	BaseDir  string // resolves relative resource paths; empty = no rewrite
}

type pageData struct {
	Title string
	Style template.CSS
	Class string
	Body  template.HTML
}

// PageBuilder renders capture pages from the capture template. It is safe
// for concurrent use.
type PageBuilder struct {
	tmpl        *template.Template
	style       string
	theme       string
	lineNumbers bool
	markdown    MarkdownConverter
	injector    CSSInjector
}

// NewPageBuilder parses the capture asset and resolves the theme.
func NewPageBuilder(a assets.Asset, opts PageOptions) (*PageBuilder, error) {
	theme, err := ResolveTheme(opts.Theme)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(assets.CaptureName).Parse(a.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing template: %v", ErrPageBuild, err)
	}

	style := a.Style
	if opts.FontSize > 0 {
		style += fmt.Sprintf("\n#capture { --code-font-size: %gpx; }\n", opts.FontSize)
	}

	return &PageBuilder{
		tmpl:        tmpl,
		style:       sanitizeCSS(style),
		theme:       theme,
		lineNumbers: opts.LineNumbers,
		markdown:    NewGoldmarkConverter(theme),
		injector:    &CSSInjection{},
	}, nil
}

// Theme is the resolved chroma style name.
func (b *PageBuilder) Theme() string { return b.theme }

// CodePage returns a page showing code highlighted for language.
func (b *PageBuilder) CodePage(title, code, language string) (string, error) {
	body, err := HighlightCode(code, language, b.theme, b.lineNumbers)
	if err != nil {
		return "", err
	}
	return b.render(pageData{Title: title, Class: classCode, Body: body})
}

// MarkupPage returns a page rendering m. Complete HTML documents keep their
// own structure and only receive the capture stylesheet.
func (b *PageBuilder) MarkupPage(ctx context.Context, title string, m Markup) (string, error) {
	src := m.Source
	if m.Markdown {
		converted, err := b.markdown.ToHTML(ctx, src)
		if err != nil {
			return "", err
		}
		src = converted
	}

	cleaned, err := CleanMarkup(src, m.BaseDir)
	if err != nil {
		return "", fmt.Errorf("%w: parsing markup: %v", ErrPageBuild, err)
	}
	if IsFullDocument(cleaned) {
		return b.injector.InjectCSS(ctx, cleaned, b.style), nil
	}

	// #nosec G203 -- active content removed by CleanMarkup
	return b.render(pageData{Title: title, Class: classMarkup, Body: template.HTML(cleaned)})
}

func (b *PageBuilder) render(d pageData) (string, error) {
	d.Style = template.CSS(b.style) // #nosec G203 -- trusted asset
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageBuild, err)
	}
	return buf.String(), nil
}
