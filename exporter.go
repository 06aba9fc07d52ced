package code2doc

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnah/go-code2doc/internal/assets"
	"github.com/alnah/go-code2doc/internal/dateutil"
	"github.com/alnah/go-code2doc/internal/fileutil"
	"github.com/alnah/go-code2doc/internal/pipeline"
	"github.com/alnah/go-code2doc/internal/raster"
	"github.com/alnah/go-code2doc/internal/textdoc"
)

// Exporter turns export requests into finished documents.
// Create with NewExporter, call Export as often as needed and Close when done.
// Captures are serialised; text formats run concurrently.
type Exporter struct {
	cfg        exporterConfig
	logger     *zap.Logger
	now        func() time.Time
	rasterizer Rasterizer
	pages      *pipeline.PageBuilder
	formatter  *textdoc.Formatter

	mu sync.Mutex // guards the capture surface
}

// NewExporter builds an Exporter. Browser backends start lazily on the
// first PDF export, so construction is cheap.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{
			timeout:     defaultTimeout,
			loadTimeout: defaultLoadTimeout,
			backend:     BackendRod,
		},
		logger: zap.NewNop(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	theme, err := pipeline.ResolveTheme(e.cfg.theme)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}
	if e.cfg.fontSize != 0 && (e.cfg.fontSize < MinFontSize || e.cfg.fontSize > MaxFontSize) {
		return nil, fmt.Errorf("%w: %g (must be %d-%d)", ErrInvalidFontSize, e.cfg.fontSize, MinFontSize, MaxFontSize)
	}
	if err := dateutil.Validate(e.cfg.dateFormat); err != nil {
		return nil, err
	}

	var loader assets.AssetLoader = assets.NewEmbeddedLoader()
	if e.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(e.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		loader = resolver
	}
	bundle, err := assets.LoadBundle(loader)
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}

	e.pages, err = pipeline.NewPageBuilder(bundle.Capture, pipeline.PageOptions{
		Theme:       theme,
		LineNumbers: e.cfg.lineNumbers,
		FontSize:    e.cfg.fontSize,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing capture pages: %w", err)
	}
	e.formatter, err = textdoc.NewFormatter(bundle)
	if err != nil {
		return nil, fmt.Errorf("initializing formatter: %w", err)
	}

	// Injected by WithRasterizer (e.g., by tests) or built from the backend name.
	if e.rasterizer == nil {
		e.rasterizer, err = newBackend(e.cfg, theme)
		if err != nil {
			return nil, err
		}
	}

	return e, nil
}

// newBackend builds the named rasterizer.
func newBackend(cfg exporterConfig, theme string) (Rasterizer, error) {
	switch strings.ToLower(cfg.backend) {
	case BackendRod:
		return NewRodRasterizer(cfg.loadTimeout), nil
	case BackendChromedp:
		return NewChromedpRasterizer(cfg.loadTimeout), nil
	case BackendText:
		return NewTextRasterizer(raster.TextOptions{
			Theme:       theme,
			FontSize:    cfg.fontSize,
			LineNumbers: cfg.lineNumbers,
		})
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrInvalidRasterizer, cfg.backend, strings.Join(Backends(), ", "))
	}
}

// resolvedRequest is an ExportRequest with every default applied.
type resolvedRequest struct {
	text     string
	fileName string
	title    string
	author   string
	language string
	date     string
	created  time.Time
	format   Format
	markup   *MarkupRegion
}

func (r *resolvedRequest) authorOrDefault() string {
	if r.author == "" {
		return DefaultAuthor
	}
	return r.author
}

// Export produces the document described by req.
//
// Checks run in a fixed order: empty RawText fails with ErrMissingContent
// whatever the format, then an unknown format fails with
// ErrUnsupportedFormat. Either the whole blob is returned or nothing is.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (blob *OutputBlob, err error) {
	id := uuid.NewString()
	log := e.logger.With(zap.String("export_id", id), zap.String("format", string(req.Format)))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			blob = nil
			err = fmt.Errorf("internal error: %v", r)
		}
		if err != nil {
			log.Error("export failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
			return
		}
		log.Info("export done",
			zap.String("file", blob.FileName),
			zap.Int("bytes", len(blob.Content)),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	if req.RawText == "" {
		return nil, ErrMissingContent
	}
	format, err := ParseFormat(string(req.Format))
	if err != nil {
		return nil, err
	}

	r, err := e.resolve(req, format)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("title", r.title), zap.String("language", r.language))

	ctx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
	defer cancel()

	if format == FormatPDF {
		return e.exportPDF(ctx, r, log)
	}
	return e.exportText(r)
}

// resolve applies the request defaults.
func (e *Exporter) resolve(req ExportRequest, format Format) (*resolvedRequest, error) {
	now := e.now()
	date, err := dateutil.Format(e.cfg.dateFormat, now)
	if err != nil {
		return nil, err
	}

	r := &resolvedRequest{
		text:     req.RawText,
		fileName: strings.TrimSpace(req.FileName),
		title:    strings.TrimSpace(req.Title),
		author:   strings.TrimSpace(req.Author),
		language: strings.TrimSpace(req.Language),
		date:     date,
		created:  now,
		format:   format,
		markup:   req.Markup,
	}

	if r.markup != nil && r.fileName == "" {
		name, title, lang := pastedMarkupFileName, pastedMarkupTitle, "html"
		if r.markup.Syntax == MarkupMarkdown {
			name, title, lang = pastedMarkdownName, pastedMarkdownTitle, "markdown"
		}
		r.fileName = name
		if r.title == "" {
			r.title = title
		}
		if r.language == "" {
			r.language = lang
		}
	}

	if r.title == "" {
		r.title = fileutil.Stem(r.fileName)
	}
	if r.title == "" {
		r.title = DefaultTitle
	}

	if r.language == "" {
		if tag, ok := DetectLanguage(r.fileName); ok {
			r.language = tag
		}
	}
	if r.language == "" {
		r.language = strings.TrimSpace(e.cfg.defaultLanguage)
	}
	if r.language == "" {
		r.language = DefaultLanguage
	}

	return r, nil
}

// exportText renders the txt, html and docx formats.
func (e *Exporter) exportText(r *resolvedRequest) (*OutputBlob, error) {
	out, err := e.formatter.Format(string(r.format), textdoc.Document{
		Title:    r.title,
		Author:   r.author,
		Date:     r.date,
		Language: r.language,
		Text:     r.text,
	})
	if err != nil {
		return nil, err
	}
	return &OutputBlob{Content: out.Content, FileName: out.FileName, MIMEType: out.MIMEType}, nil
}

// Close releases the rasterizer (and its browser, if one was started).
func (e *Exporter) Close() error {
	if e.rasterizer != nil {
		return e.rasterizer.Close()
	}
	return nil
}
