package code2doc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-code2doc/internal/fileutil"
	"github.com/alnah/go-code2doc/internal/process"
	"github.com/alnah/go-code2doc/internal/raster"
)

// RodRasterizer captures regions with headless Chrome driven by go-rod.
// Rod downloads Chromium on first run when no browser is found.
type RodRasterizer struct {
	mu          sync.Mutex
	launcher    *launcher.Launcher
	browser     *rod.Browser
	loadTimeout time.Duration
}

// NewRodRasterizer returns a backend whose browser starts on first capture.
func NewRodRasterizer(loadTimeout time.Duration) *RodRasterizer {
	if loadTimeout <= 0 {
		loadTimeout = defaultLoadTimeout
	}
	return &RodRasterizer{loadTimeout: loadTimeout}
}

// ensureBrowser lazily launches and connects. Callers hold r.mu.
func (r *RodRasterizer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	bin, noSandbox := browserSettings()
	if bin != "" {
		l = l.Bin(bin)
	}
	if noSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// Rasterize writes region.Page to a temporary file, loads it in a fresh
// page and takes a full-content screenshot. The page and the file are
// removed on every path.
func (r *RodRasterizer) Rasterize(ctx context.Context, region Region, scale float64) (*raster.Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if region.Page == "" {
		return nil, fmt.Errorf("%w: empty capture page", ErrCaptureFailure)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(region.Page, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailure, err)
	}
	defer cleanup()

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	// Closed through the browser context so a cancelled ctx still tears it down.
	defer func() { _ = page.Close() }()

	p := page.Context(ctx)
	err = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: scale,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := p.Navigate(fileURL(path)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	// A slow load is captured as far as it got.
	if err := p.Timeout(loadWait(ctx, r.loadTimeout)).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
		}
	}

	data, err := p.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %v", ErrCaptureFailure, err)
	}

	bm, err := raster.Decode(data, scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailure, err)
	}
	return bm, nil
}

// Close shuts the browser down and kills its process group.
func (r *RodRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	process.KillProcessGroup(r.launcher.PID())
	r.launcher.Kill()
	r.browser = nil
	r.launcher = nil
	return err
}

// Compile-time interface check.
var _ Rasterizer = (*RodRasterizer)(nil)
