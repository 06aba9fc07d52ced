package code2doc

import (
	"errors"

	"github.com/alnah/go-code2doc/internal/dateutil"
	"github.com/alnah/go-code2doc/internal/layout"
	"github.com/alnah/go-code2doc/internal/textdoc"
)

// Sentinel errors for library operations.
var (
	ErrMissingContent = errors.New("no content to export")
	ErrCaptureFailure = errors.New("content capture failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPoolClosed     = errors.New("exporter pool closed")

	// Configuration errors.
	ErrInvalidTheme      = errors.New("invalid syntax theme")
	ErrInvalidRasterizer = errors.New("invalid rasterizer")
	ErrInvalidAssetPath  = errors.New("invalid asset path")
	ErrInvalidFontSize   = errors.New("invalid font size")

	// Shared with internal packages so callers can match them with errors.Is.
	ErrDimension         = layout.ErrDimension
	ErrUnsupportedFormat = textdoc.ErrUnsupportedFormat
	ErrInvalidDateFormat = dateutil.ErrInvalidDateFormat
)
