package main

import (
	"context"
	"errors"
	"os"

	code2doc "github.com/alnah/go-code2doc"
	"github.com/alnah/go-code2doc/internal/config"
)

// Exit codes for the code2doc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every export succeeded
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or input
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser or capture errors
)

// exitCodeFor returns the exit code for err.
// It uses errors.Is, so joined and wrapped errors are classified by their causes.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, code2doc.ErrBrowserConnect) ||
		errors.Is(err, code2doc.ErrPageCreate) ||
		errors.Is(err, code2doc.ErrPageLoad) ||
		errors.Is(err, code2doc.ErrCaptureFailure) ||
		errors.Is(err, code2doc.ErrPDFGeneration) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, code2doc.ErrMissingContent) ||
		errors.Is(err, code2doc.ErrUnsupportedFormat) ||
		errors.Is(err, code2doc.ErrInvalidTheme) ||
		errors.Is(err, code2doc.ErrInvalidRasterizer) ||
		errors.Is(err, code2doc.ErrInvalidFontSize) ||
		errors.Is(err, code2doc.ErrInvalidDateFormat) ||
		errors.Is(err, code2doc.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
