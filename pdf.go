package code2doc

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-code2doc/internal/layout"
	"github.com/alnah/go-code2doc/internal/pdfdoc"
	"github.com/alnah/go-code2doc/internal/pipeline"
	"github.com/alnah/go-code2doc/internal/raster"
)

// PDF subjects by capture kind.
const (
	subjectCode   = "Source code"
	subjectMarkup = "HTML Document"
)

// exportPDF captures the request, tiles the bitmap over A4 pages and
// assembles the document.
func (e *Exporter) exportPDF(ctx context.Context, r *resolvedRequest, log *zap.Logger) (*OutputBlob, error) {
	bm, kind, err := e.capture(ctx, r, log)
	if err != nil {
		return nil, err
	}

	doc := pdfdoc.Document{
		Meta: pdfdoc.Metadata{
			Title:   r.title,
			Author:  r.authorOrDefault(),
			Subject: subjectCode,
			Creator: Creator,
			Created: r.created,
		},
		Geometry: layout.CodeGeometry(),
	}
	if kind == RegionMarkup {
		doc.Meta.Subject = subjectMarkup
		doc.Geometry = layout.MarkupGeometry()
	} else {
		doc.Header = &pdfdoc.Header{
			Title:    r.title,
			Author:   r.authorOrDefault(),
			Date:     r.date,
			Language: r.language,
		}
	}

	doc.Plan, err = layout.Split(bm, doc.Geometry)
	if err != nil {
		return nil, err
	}
	doc.PNG, err = bm.PNG()
	if err != nil {
		return nil, fmt.Errorf("%w: encoding capture: %v", ErrPDFGeneration, err)
	}

	data, err := pdfdoc.Assemble(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	log.Debug("pdf assembled",
		zap.Stringer("region", kind),
		zap.Int("pages", doc.Plan.Pages()),
		zap.Int("pixel_width", bm.PixelWidth()),
		zap.Int("pixel_height", bm.PixelHeight()),
	)

	return &OutputBlob{
		Content:  data,
		FileName: r.title + ".pdf",
		MIMEType: MIMEPDF,
	}, nil
}

// capture rasterizes the markup region when there is one and falls back to
// the code listing if that fails. It reports which kind was captured.
func (e *Exporter) capture(ctx context.Context, r *resolvedRequest, log *zap.Logger) (*raster.Bitmap, RegionKind, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r.markup != nil {
		bm, err := e.captureMarkup(ctx, r)
		if err == nil {
			return bm, RegionMarkup, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, RegionMarkup, ctxErr
		}
		log.Warn("markup capture failed, capturing source instead", zap.Error(err))
	}

	bm, err := e.captureCode(ctx, r)
	if err != nil {
		return nil, RegionCode, err
	}
	return bm, RegionCode, nil
}

func (e *Exporter) captureCode(ctx context.Context, r *resolvedRequest) (*raster.Bitmap, error) {
	page, err := e.pages.CodePage(r.title, r.text, r.language)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailure, err)
	}
	return e.rasterize(ctx, Region{Kind: RegionCode, Page: page, Code: r.text, Language: r.language})
}

func (e *Exporter) captureMarkup(ctx context.Context, r *resolvedRequest) (*raster.Bitmap, error) {
	src := r.markup.Source
	if src == "" {
		src = r.text
	}
	page, err := e.pages.MarkupPage(ctx, r.title, pipeline.Markup{
		Source:   src,
		Markdown: r.markup.Syntax == MarkupMarkdown,
		BaseDir:  r.markup.BaseDir,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailure, err)
	}
	return e.rasterize(ctx, Region{Kind: RegionMarkup, Page: page})
}

// rasterize calls the backend at captureScale. Every failure other than
// cancellation and browser startup carries ErrCaptureFailure.
func (e *Exporter) rasterize(ctx context.Context, region Region) (*raster.Bitmap, error) {
	bm, err := e.rasterizer.Rasterize(ctx, region, captureScale)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, ErrCaptureFailure), errors.Is(err, ErrBrowserConnect):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %w", ErrCaptureFailure, err)
		}
	}
	if bm == nil {
		return nil, fmt.Errorf("%w: empty bitmap", ErrCaptureFailure)
	}
	return bm, nil
}
