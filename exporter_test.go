package code2doc

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-code2doc/internal/raster"
)

// Mock implementations for testing.

type mockRasterizer struct {
	mu       sync.Mutex
	calls    []Region
	scales   []float64
	fail     map[RegionKind]error
	width    int
	height   int
	panicMsg string
	closed   bool
}

func newMockRasterizer() *mockRasterizer {
	return &mockRasterizer{width: 1000, height: 3000}
}

func (m *mockRasterizer) Rasterize(ctx context.Context, region Region, scale float64) (*raster.Bitmap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, region)
	m.scales = append(m.scales, scale)
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.fail[region.Kind]; err != nil {
		return nil, err
	}
	return raster.NewBitmap(image.NewRGBA(image.Rect(0, 0, m.width, m.height)), scale), nil
}

func (m *mockRasterizer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockRasterizer) kinds() []RegionKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RegionKind, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.Kind
	}
	return out
}

var fixedNow = time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)

func newTestExporter(t *testing.T, r Rasterizer, opts ...Option) *Exporter {
	t.Helper()

	opts = append([]Option{WithRasterizer(r), WithNow(func() time.Time { return fixedNow })}, opts...)
	e, err := NewExporter(opts...)
	if err != nil {
		t.Fatalf("NewExporter() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestExport_PlainText(t *testing.T) {
	t.Parallel()

	mock := newMockRasterizer()
	e := newTestExporter(t, mock)

	blob, err := e.Export(context.Background(), ExportRequest{
		RawText:  "print('hi')",
		FileName: "script.py",
		Format:   FormatTXT,
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if string(blob.Content) != "print('hi')" {
		t.Errorf("Content = %q, want %q", blob.Content, "print('hi')")
	}
	if blob.FileName != "script.txt" {
		t.Errorf("FileName = %q, want script.txt", blob.FileName)
	}
	if blob.MIMEType != "text/plain;charset=utf-8" {
		t.Errorf("MIMEType = %q", blob.MIMEType)
	}
	if len(mock.kinds()) != 0 {
		t.Error("text export should not rasterize")
	}
}

func TestExport_HTMLWithoutAuthor(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t, newMockRasterizer(), WithDateFormat("iso"))

	blob, err := e.Export(context.Background(), ExportRequest{
		RawText: "<b>hi</b>",
		Title:   "snippet",
		Author:  "",
		Format:  FormatHTML,
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	got := string(blob.Content)

	if strings.Contains(got, "Author:") {
		t.Error("HTML output has an Author line for an empty author")
	}
	if !strings.Contains(got, "&lt;b&gt;hi&lt;/b&gt;</code></pre>") {
		t.Errorf("HTML output missing escaped code block: %s", got)
	}
	if strings.Contains(got, "<b>hi</b>") {
		t.Error("HTML output contains live markup")
	}
	if !strings.Contains(got, "Generated on: 2026-03-05") {
		t.Error("HTML output missing generation date")
	}
	if blob.FileName != "snippet.html" || blob.MIMEType != MIMEHTML {
		t.Errorf("blob = %q %q", blob.FileName, blob.MIMEType)
	}
}

func TestExport_WordDocument(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t, newMockRasterizer())

	blob, err := e.Export(context.Background(), ExportRequest{
		RawText:  "<script>alert(1)</script>",
		FileName: "page.html",
		Author:   "Ada",
		Format:   FormatDOCX,
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	got := string(blob.Content)

	for _, want := range []string{
		`xmlns:w="urn:schemas-microsoft-com:office:word"`,
		"<w:View>Print</w:View>",
		"Author: Ada",
		"Language: html",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Word output missing %q", want)
		}
	}
	if strings.Contains(got, "&amp;lt;") {
		t.Error("Word output escaped twice")
	}
	if blob.FileName != "page.docx" || blob.MIMEType != MIMEWord {
		t.Errorf("blob = %q %q", blob.FileName, blob.MIMEType)
	}
}

func TestExport_MissingContentComesFirst(t *testing.T) {
	t.Parallel()

	mock := newMockRasterizer()
	e := newTestExporter(t, mock)

	for _, f := range []Format{FormatPDF, FormatDOCX, FormatTXT, FormatHTML, "rtf", ""} {
		t.Run(string(f), func(t *testing.T) {
			t.Parallel()

			blob, err := e.Export(context.Background(), ExportRequest{FileName: "a.go", Format: f})
			if !errors.Is(err, ErrMissingContent) {
				t.Errorf("Export() error = %v, want ErrMissingContent", err)
			}
			if blob != nil {
				t.Error("Export() returned a blob for missing content")
			}
		})
	}

	t.Cleanup(func() {
		if n := len(mock.kinds()); n != 0 {
			t.Errorf("rasterizer called %d times for missing content", n)
		}
	})
}

func TestExport_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t, newMockRasterizer())

	blob, err := e.Export(context.Background(), ExportRequest{RawText: "x", Format: "rtf"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Export() error = %v, want ErrUnsupportedFormat", err)
	}
	if blob != nil {
		t.Error("Export() returned a blob")
	}
}

func TestExport_PDFCode(t *testing.T) {
	t.Parallel()

	mock := newMockRasterizer()
	e := newTestExporter(t, mock)

	blob, err := e.Export(context.Background(), ExportRequest{
		RawText:  "fn main() {}",
		FileName: "main.rs",
		Format:   FormatPDF,
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !bytes.HasPrefix(blob.Content, []byte("%PDF-")) {
		t.Errorf("Content does not start with a PDF header: %.8q", blob.Content)
	}
	if blob.FileName != "main.pdf" || blob.MIMEType != MIMEPDF {
		t.Errorf("blob = %q %q", blob.FileName, blob.MIMEType)
	}

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if len(mock.calls) != 1 {
		t.Fatalf("rasterizer calls = %d, want 1", len(mock.calls))
	}
	call := mock.calls[0]
	if call.Kind != RegionCode || call.Code != "fn main() {}" || call.Language != "rust" {
		t.Errorf("region = %+v", call)
	}
	if !strings.Contains(call.Page, `class="code"`) {
		t.Error("capture page is not a code page")
	}
	if mock.scales[0] != 2 {
		t.Errorf("scale = %v, want 2", mock.scales[0])
	}
}

func TestExport_PDFMarkup(t *testing.T) {
	t.Parallel()

	mock := newMockRasterizer()
	e := newTestExporter(t, mock)

	blob, err := e.Export(context.Background(), ExportRequest{
		RawText: "<h1>Hello</h1>",
		Format:  FormatPDF,
		Markup:  &MarkupRegion{},
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if blob.FileName != "HTML Document.pdf" {
		t.Errorf("FileName = %q, want pasted markup title", blob.FileName)
	}
	if got := mock.kinds(); len(got) != 1 || got[0] != RegionMarkup {
		t.Errorf("captured kinds = %v, want [markup]", got)
	}
	if !strings.Contains(mock.calls[0].Page, "<h1>Hello</h1>") {
		t.Error("markup page does not hold the source")
	}
}

func TestExport_MarkupFallsBackToCode(t *testing.T) {
	t.Parallel()

	mock := newMockRasterizer()
	mock.fail = map[RegionKind]error{RegionMarkup: errors.New("cross-origin frame")}
	e := newTestExporter(t, mock)

	blob, err := e.Export(context.Background(), ExportRequest{
		RawText:  "# Notes",
		FileName: "notes.md",
		Format:   FormatPDF,
		Markup:   &MarkupRegion{Syntax: MarkupMarkdown},
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if blob == nil || len(blob.Content) == 0 {
		t.Fatal("Export() produced no content")
	}

	got := mock.kinds()
	if len(got) != 2 || got[0] != RegionMarkup || got[1] != RegionCode {
		t.Errorf("captured kinds = %v, want [markup code]", got)
	}
	if mock.calls[1].Language != "markdown" {
		t.Errorf("fallback language = %q, want markdown", mock.calls[1].Language)
	}
}

func TestExport_CaptureFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("surface gone")
	mock := newMockRasterizer()
	mock.fail = map[RegionKind]error{RegionMarkup: boom, RegionCode: boom}
	e := newTestExporter(t, mock)

	blob, err := e.Export(context.Background(), ExportRequest{
		RawText: "<p>x</p>",
		Format:  FormatPDF,
		Markup:  &MarkupRegion{},
	})
	if !errors.Is(err, ErrCaptureFailure) {
		t.Errorf("Export() error = %v, want ErrCaptureFailure", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Export() error = %v, want cause kept", err)
	}
	if blob != nil {
		t.Error("Export() returned a partial blob")
	}
}

func TestExport_DimensionError(t *testing.T) {
	t.Parallel()

	mock := newMockRasterizer()
	mock.width = 0
	e := newTestExporter(t, mock)

	blob, err := e.Export(context.Background(), ExportRequest{RawText: "x", Format: FormatPDF})
	if !errors.Is(err, ErrDimension) {
		t.Errorf("Export() error = %v, want ErrDimension", err)
	}
	if blob != nil {
		t.Error("Export() returned a blob")
	}
}

func TestExport_Cancelled(t *testing.T) {
	t.Parallel()

	mock := newMockRasterizer()
	e := newTestExporter(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Export(ctx, ExportRequest{RawText: "x", Format: FormatPDF, Markup: &MarkupRegion{}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Export() error = %v, want context.Canceled", err)
	}
	if n := len(mock.kinds()); n != 1 {
		t.Errorf("rasterizer calls = %d, want no fallback after cancellation", n)
	}
}

func TestExport_RecoversPanic(t *testing.T) {
	t.Parallel()

	mock := newMockRasterizer()
	mock.panicMsg = "renderer exploded"
	e := newTestExporter(t, mock)

	blob, err := e.Export(context.Background(), ExportRequest{RawText: "x", Format: FormatPDF})
	if err == nil || !strings.Contains(err.Error(), "renderer exploded") {
		t.Errorf("Export() error = %v, want recovered panic", err)
	}
	if blob != nil {
		t.Error("Export() returned a blob after panic")
	}
}

func TestExport_TextBackendPDF(t *testing.T) {
	t.Parallel()

	e, err := NewExporter(WithBackend(BackendText), WithLineNumbers(true))
	if err != nil {
		t.Fatalf("NewExporter() error = %v", err)
	}
	defer e.Close()

	blob, err := e.Export(context.Background(), ExportRequest{
		RawText:  strings.Repeat("print('hi')\n", 20),
		FileName: "script.py",
		Format:   FormatPDF,
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !bytes.HasPrefix(blob.Content, []byte("%PDF-")) {
		t.Error("text backend did not produce a PDF")
	}
}

func TestExporter_Resolve(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t, newMockRasterizer(), WithDefaultLanguage("go"))

	tests := []struct {
		name      string
		req       ExportRequest
		wantTitle string
		wantLang  string
		wantFile  string
	}{
		{"stem before first dot", ExportRequest{FileName: "app.test.js"}, "app", "javascript", "app.test.js"},
		{"explicit title and language", ExportRequest{FileName: "a.py", Title: " Report ", Language: "ruby"}, "Report", "ruby", "a.py"},
		{"unknown extension uses default language", ExportRequest{FileName: "notes.xyz"}, "notes", "go", "notes.xyz"},
		{"no file name", ExportRequest{}, DefaultTitle, "go", ""},
		{"pasted html", ExportRequest{Markup: &MarkupRegion{}}, "HTML Document", "html", "pasted-html.html"},
		{"pasted markdown", ExportRequest{Markup: &MarkupRegion{Syntax: MarkupMarkdown}}, "Markdown Document", "markdown", "pasted-markdown.md"},
		{"named markup file", ExportRequest{FileName: "index.html", Markup: &MarkupRegion{}}, "index", "html", "index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.req.RawText = "x"
			r, err := e.resolve(tt.req, FormatTXT)
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}
			if r.title != tt.wantTitle || r.language != tt.wantLang || r.fileName != tt.wantFile {
				t.Errorf("resolve() = title %q lang %q file %q, want %q %q %q",
					r.title, r.language, r.fileName, tt.wantTitle, tt.wantLang, tt.wantFile)
			}
		})
	}
}

func TestExporter_DefaultLanguageFallback(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t, newMockRasterizer())
	r, err := e.resolve(ExportRequest{RawText: "x", FileName: "Makefile"}, FormatTXT)
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if r.language != DefaultLanguage {
		t.Errorf("language = %q, want %q", r.language, DefaultLanguage)
	}
	if r.authorOrDefault() != DefaultAuthor {
		t.Errorf("authorOrDefault() = %q, want %q", r.authorOrDefault(), DefaultAuthor)
	}
}

func TestNewExporter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"unknown theme", []Option{WithTheme("neon")}, ErrInvalidTheme},
		{"font size too small", []Option{WithFontSize(2)}, ErrInvalidFontSize},
		{"font size too large", []Option{WithFontSize(100)}, ErrInvalidFontSize},
		{"bad date format", []Option{WithDateFormat("[YYYY")}, ErrInvalidDateFormat},
		{"unknown backend", []Option{WithBackend("phantomjs")}, ErrInvalidRasterizer},
		{"missing asset dir", []Option{WithAssetPath("/no/such/dir/code2doc")}, ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, err := NewExporter(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewExporter() error = %v, want %v", err, tt.wantErr)
			}
			if e != nil {
				t.Error("NewExporter() returned an exporter on error")
			}
		})
	}
}

func TestNewExporter_Backends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		backend string
		check   func(Rasterizer) bool
	}{
		{BackendRod, func(r Rasterizer) bool { _, ok := r.(*RodRasterizer); return ok }},
		{"CHROMEDP", func(r Rasterizer) bool { _, ok := r.(*ChromedpRasterizer); return ok }},
		{BackendText, func(r Rasterizer) bool { _, ok := r.(*TextRasterizer); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			t.Parallel()

			e, err := NewExporter(WithBackend(tt.backend))
			if err != nil {
				t.Fatalf("NewExporter() error = %v", err)
			}
			defer e.Close()
			if !tt.check(e.rasterizer) {
				t.Errorf("rasterizer = %T", e.rasterizer)
			}
		})
	}
}

func TestExporter_Close(t *testing.T) {
	t.Parallel()

	mock := newMockRasterizer()
	e, err := NewExporter(WithRasterizer(mock))
	if err != nil {
		t.Fatalf("NewExporter() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !mock.closed {
		t.Error("Close() did not close the rasterizer")
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) did not panic")
		}
	}()
	WithTimeout(0)
}
