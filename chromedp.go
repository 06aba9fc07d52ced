package code2doc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/alnah/go-code2doc/internal/fileutil"
	"github.com/alnah/go-code2doc/internal/raster"
)

// ChromedpRasterizer captures regions through the Chrome DevTools Protocol
// using chromedp. It needs a locally installed Chrome or Chromium.
type ChromedpRasterizer struct {
	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	loadTimeout   time.Duration
}

// NewChromedpRasterizer returns a backend whose browser starts on first capture.
func NewChromedpRasterizer(loadTimeout time.Duration) *ChromedpRasterizer {
	if loadTimeout <= 0 {
		loadTimeout = defaultLoadTimeout
	}
	return &ChromedpRasterizer{loadTimeout: loadTimeout}
}

// ensureBrowser starts Chrome once. Callers hold c.mu.
func (c *ChromedpRasterizer) ensureBrowser() error {
	if c.browserCtx != nil {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	bin, noSandbox := browserSettings()
	if bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}
	if noSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.allocCancel = allocCancel
	c.browserCtx = browserCtx
	c.browserCancel = browserCancel
	return nil
}

// Rasterize opens region.Page in a new tab and screenshots its full extent.
// The tab closes when Rasterize returns or ctx is done.
func (c *ChromedpRasterizer) Rasterize(ctx context.Context, region Region, scale float64) (*raster.Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if region.Page == "" {
		return nil, fmt.Errorf("%w: empty capture page", ErrCaptureFailure)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureBrowser(); err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(region.Page, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailure, err)
	}
	defer cleanup()

	tabCtx, closeTab := chromedp.NewContext(c.browserCtx)
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	err = chromedp.Run(tabCtx, chromedp.EmulateViewport(viewportWidth, viewportHeight,
		chromedp.EmulateScale(scale),
		func(p *emulation.SetDeviceMetricsOverrideParams, _ *emulation.SetTouchEmulationEnabledParams) {
			p.Mobile = false
		},
	))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	loadCtx, cancelLoad := context.WithTimeout(tabCtx, loadWait(ctx, c.loadTimeout))
	err = chromedp.Run(loadCtx, chromedp.Navigate(fileURL(path)))
	cancelLoad()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
		}
	}

	var data []byte
	if err := chromedp.Run(tabCtx, chromedp.FullScreenshot(&data, 100)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: screenshot: %v", ErrCaptureFailure, err)
	}

	bm, err := raster.Decode(data, scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailure, err)
	}
	return bm, nil
}

// Close stops the browser. It is safe to call more than once.
func (c *ChromedpRasterizer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browserCtx == nil {
		return nil
	}
	c.browserCancel()
	c.allocCancel()
	c.browserCtx = nil
	c.browserCancel = nil
	c.allocCancel = nil
	return nil
}

var _ Rasterizer = (*ChromedpRasterizer)(nil)
