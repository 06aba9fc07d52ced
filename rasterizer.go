package code2doc

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-code2doc/internal/raster"
)

// RegionKind tells a rasterizer what the region holds.
type RegionKind int

// Region kinds.
const (
	RegionCode   RegionKind = iota // highlighted listing of source text
	RegionMarkup                   // rendered HTML
)

func (k RegionKind) String() string {
	if k == RegionMarkup {
		return "markup"
	}
	return "code"
}

// Region is the content handed to a Rasterizer. Browser backends render
// Page; the text backend draws Code directly.
type Region struct {
	Kind     RegionKind
	Page     string // complete HTML capture page
	Code     string
	Language string
}

// Rasterizer turns a region into a bitmap at the given oversampling scale.
// Implementations release every per-capture resource before returning.
type Rasterizer interface {
	Rasterize(ctx context.Context, region Region, scale float64) (*raster.Bitmap, error)
	Close() error
}

// Rasterizer backend names.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
	BackendText     = "text"
)

// Backends lists the rasterizer names accepted by WithBackend.
func Backends() []string {
	return []string{BackendRod, BackendChromedp, BackendText}
}

// captureScale is the device scale factor of every capture.
const captureScale = 2.0

// Browser viewport in CSS pixels. The height only sets the first paint;
// screenshots cover the full content.
const (
	viewportWidth  = 800
	viewportHeight = 600
)

// TextRasterizer draws code regions without a browser. Markup regions are
// refused with ErrCaptureFailure.
type TextRasterizer struct {
	r *raster.TextRasterizer
}

// NewTextRasterizer builds the browserless backend.
func NewTextRasterizer(opts raster.TextOptions) (*TextRasterizer, error) {
	r, err := raster.NewTextRasterizer(opts)
	if err != nil {
		return nil, err
	}
	return &TextRasterizer{r: r}, nil
}

// Rasterize implements Rasterizer.
func (t *TextRasterizer) Rasterize(ctx context.Context, region Region, scale float64) (*raster.Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if region.Kind != RegionCode {
		return nil, fmt.Errorf("%w: text backend cannot render %s regions", ErrCaptureFailure, region.Kind)
	}
	bm, err := t.r.Render(region.Code, region.Language, scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailure, err)
	}
	return bm, nil
}

// Close implements Rasterizer.
func (t *TextRasterizer) Close() error { return nil }

// browserSettings reads the browser binary and sandbox switches shared by
// the rod and chromedp backends.
func browserSettings() (bin string, noSandbox bool) {
	bin = os.Getenv("ROD_BROWSER_BIN")
	noSandbox = os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" || bin != ""
	return bin, noSandbox
}

// fileURL converts an absolute path to a file:// URL.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// loadWait bounds the load wait by the remaining context deadline.
func loadWait(ctx context.Context, d time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			return left
		}
	}
	return d
}
