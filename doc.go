// Package code2doc exports source code, or pasted HTML and Markdown, as
// downloadable documents.
//
// # Quick Start
//
// Create an exporter, export, and close when done:
//
//	exp, err := code2doc.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	blob, err := exp.Export(ctx, code2doc.ExportRequest{
//	    RawText:  "print('hi')",
//	    FileName: "script.py",
//	    Format:   code2doc.FormatPDF,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(blob.FileName, blob.Content, 0o644)
//
// # Formats
//
// PDF output is image-based: the content is rasterized at twice its CSS
// size and tiled over A4 pages. Code captures get a header block on the
// first page; rendered markup fills the page with 10mm margins.
//
// The txt, html and docx formats are built from the raw text without any
// rendering. The docx output is HTML that Word opens as a document, not an
// OOXML package.
//
// # Rasterizers
//
// Three backends are available through WithBackend:
//
//   - "rod" (default): headless Chrome driven by go-rod
//   - "chromedp": headless Chrome driven by chromedp
//   - "text": pure Go drawing of highlighted code; cannot render markup
//
// When a markup capture fails, the exporter captures the source listing
// instead. Only if that also fails does Export return ErrCaptureFailure.
//
// # Configuration
//
//	exp, err := code2doc.NewExporter(
//	    code2doc.WithTheme("atomDark"),
//	    code2doc.WithLineNumbers(true),
//	    code2doc.WithDateFormat("long"),
//	    code2doc.WithLogger(logger),
//	)
//
// # Parallel Processing
//
// For batch exports, use ExporterPool to manage several browser instances:
//
//	pool := code2doc.NewExporterPool(code2doc.ResolvePoolSize(0))
//	defer pool.Close()
//
//	exp, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(exp)
//
// # Browser Requirements
//
// The rod backend downloads a managed Chromium on first run when none is
// found. The chromedp backend needs Chrome installed. For containers and CI
// set ROD_NO_SANDBOX=1; ROD_BROWSER_BIN selects a Chrome binary for both.
package code2doc
