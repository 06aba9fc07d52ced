// Package pdfdoc writes image-based PDF documents with gofpdf.
//
// A document holds one bitmap tiled over A4 pages according to a layout.Plan,
// optionally preceded by a text header on the first page.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-code2doc/internal/layout"
)

// ErrAssemble indicates the PDF writer failed.
var ErrAssemble = errors.New("PDF assembly failed")

// Header block positions, in millimeters from the page's top-left corner.
const (
	headerTitleY  = 20.0
	headerAuthorY = 30.0
	headerDateY   = 40.0
	headerLangY   = 45.0
	headerRuleY   = 50.0

	headerTitleSize  = 20.0
	headerAuthorSize = 12.0
	headerMetaSize   = 10.0

	headerFont = "Helvetica"
	imageName  = "capture"
)

// Metadata is written to the PDF info dictionary.
type Metadata struct {
	Title   string
	Author  string
	Subject string
	Creator string
	Created time.Time
}

// Header is drawn on the first page of code captures.
type Header struct {
	Title    string
	Author   string
	Date     string
	Language string
}

// Document describes one PDF to assemble.
type Document struct {
	Meta     Metadata
	Header   *Header // nil = no header block
	Geometry layout.Geometry
	Plan     layout.Plan
	PNG      []byte // encoded bitmap
}

// Assemble renders doc and returns the PDF bytes.
// Nothing is returned unless the whole document was written.
func Assemble(doc Document) ([]byte, error) {
	if len(doc.PNG) == 0 {
		return nil, fmt.Errorf("%w: no image data", ErrAssemble)
	}
	if doc.Plan.Pages() == 0 {
		return nil, fmt.Errorf("%w: empty page plan", ErrAssemble)
	}

	g := doc.Geometry
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	writeMetadata(pdf, doc.Meta)

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(doc.PNG))
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: registering image: %v", ErrAssemble, err)
	}

	x := g.HorizontalMargin
	for _, p := range doc.Plan.Placements {
		pdf.AddPage()
		if p.PageIndex == 0 && doc.Header != nil {
			writeHeader(pdf, g, *doc.Header)
		}
		pdf.ClipRect(x, g.TopMargin, doc.Plan.ImageWidth, p.Slice, false)
		pdf.ImageOptions(imageName, x, p.Offset, doc.Plan.ImageWidth, doc.Plan.ImageHeight, false, opts, 0, "")
		pdf.ClipEnd()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssemble, err)
	}
	return buf.Bytes(), nil
}

func writeMetadata(pdf *gofpdf.Fpdf, m Metadata) {
	pdf.SetTitle(m.Title, true)
	pdf.SetAuthor(m.Author, true)
	pdf.SetSubject(m.Subject, true)
	pdf.SetCreator(m.Creator, true)
	if !m.Created.IsZero() {
		pdf.SetCreationDate(m.Created)
	}
}

// writeHeader draws title, author, date, language and a separator rule.
// Core fonts are cp1252, so text goes through the unicode translator.
func writeHeader(pdf *gofpdf.Fpdf, g layout.Geometry, h Header) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	x := g.HorizontalMargin

	pdf.SetFont(headerFont, "", headerTitleSize)
	pdf.Text(x, headerTitleY, tr(h.Title))

	if h.Author != "" {
		pdf.SetFont(headerFont, "", headerAuthorSize)
		pdf.Text(x, headerAuthorY, tr("Author: "+h.Author))
	}

	pdf.SetFont(headerFont, "", headerMetaSize)
	pdf.Text(x, headerDateY, tr("Generated on: "+h.Date))
	pdf.Text(x, headerLangY, tr("Language: "+h.Language))

	pdf.Line(x, headerRuleY, g.PageWidth-x, headerRuleY)
}
