package code2doc

import (
	"fmt"
	"strings"

	"github.com/alnah/go-code2doc/internal/textdoc"
)

// Format is the kind of document an export produces.
type Format string

// Export formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
)

// MIME types of exported blobs.
const (
	MIMEPDF       = "application/pdf"
	MIMEPlainText = textdoc.MIMEPlainText
	MIMEHTML      = textdoc.MIMEHTML
	MIMEWord      = textdoc.MIMEWord
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatTXT, FormatHTML}
}

// ParseFormat matches s case-insensitively against the supported formats.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatTXT, FormatHTML:
		return true
	}
	return false
}

// Label is the upper-case name used in user messages.
func (f Format) Label() string { return strings.ToUpper(string(f)) }

// MarkupSyntax identifies the language of a rendered region.
type MarkupSyntax int

// Markup syntaxes.
const (
	MarkupHTML MarkupSyntax = iota
	MarkupMarkdown
)

// MarkupRegion marks content to be captured as rendered output rather than
// as a highlighted listing.
type MarkupRegion struct {
	Source  string // empty = the request's RawText
	Syntax  MarkupSyntax
	BaseDir string // resolves relative image and link paths; empty = none
}

// ExportRequest describes one export.
type ExportRequest struct {
	RawText  string
	FileName string // may be empty
	Language string // empty = detect from FileName
	Title    string // empty = derived from FileName
	Author   string // empty = no author line; PDF metadata uses DefaultAuthor
	Format   Format
	Markup   *MarkupRegion // nil = capture RawText as code
}

// OutputBlob is a finished document.
type OutputBlob struct {
	Content  []byte
	FileName string
	MIMEType string
}

// Defaults applied while resolving a request.
const (
	DefaultTitle    = "untitled"
	DefaultLanguage = "text"
	DefaultAuthor   = "Generated by code2doc"
	Creator         = "code2doc"

	pastedMarkupFileName = "pasted-html.html"
	pastedMarkupTitle    = "HTML Document"
	pastedMarkdownName   = "pasted-markdown.md"
	pastedMarkdownTitle  = "Markdown Document"
)
