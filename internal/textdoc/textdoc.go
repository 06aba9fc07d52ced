// Package textdoc renders source text as plain text, standalone HTML or
// Word-compatible HTML documents.
package textdoc

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/alnah/go-code2doc/internal/assets"
)

// Sentinel errors for document rendering.
var (
	ErrRender            = errors.New("document rendering failed")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Text document kinds accepted by Format.
const (
	KindText = "txt"
	KindHTML = "html"
	KindWord = "docx"
)

// MIME types of the produced documents.
const (
	MIMEPlainText = "text/plain;charset=utf-8"
	MIMEHTML      = "text/html;charset=utf-8"
	MIMEWord      = "application/vnd.ms-word;charset=utf-8"
)

// DefaultFooter closes every HTML and Word document.
const DefaultFooter = "Generated by code2doc"

// officeSettings opens Word in print layout at 100% zoom. html/template
// drops comments from templates, so the block is injected as trusted HTML.
const officeSettings = template.HTML(`<!--[if gte mso 9]>
<xml>
<w:WordDocument>
<w:View>Print</w:View>
<w:Zoom>100</w:Zoom>
<w:DoNotOptimizeForBrowser/>
</w:WordDocument>
</xml>
<![endif]-->`)

// Document is the input of every formatter.
type Document struct {
	Title    string
	Author   string // empty = no author line
	Date     string // already formatted
	Language string
	Text     string
}

// Output is a finished file.
type Output struct {
	Content  []byte
	FileName string
	MIMEType string
}

type view struct {
	Document
	Style          template.CSS
	Footer         string
	OfficeSettings template.HTML
}

// Formatter renders documents from parsed templates. It is safe for
// concurrent use.
type Formatter struct {
	html      *template.Template
	htmlStyle template.CSS
	word      *template.Template
	wordStyle template.CSS
	footer    string
}

// NewFormatter parses the document and word assets of b.
func NewFormatter(b *assets.Bundle) (*Formatter, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil asset bundle", ErrRender)
	}
	htmlTmpl, err := template.New(assets.DocumentName).Parse(b.Document.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s template: %v", ErrRender, assets.DocumentName, err)
	}
	wordTmpl, err := template.New(assets.WordName).Parse(b.Word.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s template: %v", ErrRender, assets.WordName, err)
	}
	return &Formatter{
		html:      htmlTmpl,
		htmlStyle: template.CSS(b.Document.Style), // #nosec G203 -- trusted asset
		word:      wordTmpl,
		wordStyle: template.CSS(b.Word.Style), // #nosec G203 -- trusted asset
		footer:    DefaultFooter,
	}, nil
}

// PlainText returns the text verbatim.
func (f *Formatter) PlainText(doc Document) *Output {
	return &Output{
		Content:  []byte(doc.Text),
		FileName: doc.Title + ".txt",
		MIMEType: MIMEPlainText,
	}
}

// HTMLDocument renders a self-contained styled page.
func (f *Formatter) HTMLDocument(doc Document) (*Output, error) {
	content, err := execute(f.html, view{Document: doc, Style: f.htmlStyle, Footer: f.footer})
	if err != nil {
		return nil, err
	}
	return &Output{Content: content, FileName: doc.Title + ".html", MIMEType: MIMEHTML}, nil
}

// WordDocument renders HTML that Word opens as a document. The result is
// not an OOXML package.
func (f *Formatter) WordDocument(doc Document) (*Output, error) {
	content, err := execute(f.word, view{
		Document:       doc,
		Style:          f.wordStyle,
		Footer:         f.footer,
		OfficeSettings: officeSettings,
	})
	if err != nil {
		return nil, err
	}
	return &Output{Content: content, FileName: doc.Title + ".docx", MIMEType: MIMEWord}, nil
}

// Format dispatches on kind. Any other kind, including "pdf", yields
// ErrUnsupportedFormat.
func (f *Formatter) Format(kind string, doc Document) (*Output, error) {
	switch kind {
	case KindText:
		return f.PlainText(doc), nil
	case KindHTML:
		return f.HTMLDocument(doc)
	case KindWord:
		return f.WordDocument(doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}
}

func execute(t *template.Template, v view) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRender, t.Name(), err)
	}
	return buf.Bytes(), nil
}
