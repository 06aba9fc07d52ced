package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing and command-line errors.
var ErrUsage = errors.New("usage error")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds header and metadata flags.
type documentFlags struct {
	title      string
	author     string
	language   string
	dateFormat string
}

// styleFlags holds capture appearance flags.
type styleFlags struct {
	theme       string
	lineNumbers bool
	fontSize    int
}

// inputFlags describe how content is read.
type inputFlags struct {
	markup string // "", "html" or "markdown"
	name   string // file name for stdin content
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common      commonFlags
	output      string
	format      string
	rasterizer  string
	timeout     string
	loadTimeout string
	workers     int
	assetPath   string
	document    documentFlags
	style       styleFlags
	input       inputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addDocumentFlags adds header and metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (\"\" = file name stem)")
	fs.StringVarP(&f.author, "author", "a", "", "author name")
	fs.StringVarP(&f.language, "language", "l", "", "source language (\"\" = from extension)")
	fs.StringVar(&f.dateFormat, "date-format", "", "generation date format or preset")
}

// addStyleFlags adds capture appearance flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.theme, "theme", "", "syntax theme")
	fs.BoolVarP(&f.lineNumbers, "line-numbers", "n", false, "show line numbers")
	fs.IntVar(&f.fontSize, "font-size", 0, "code font size in pixels (6-72)")
}

// addInputFlags adds content flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVarP(&f.markup, "markup", "m", "", "render input as markup: html, markdown")
	fs.StringVar(&f.name, "name", "", "file name for content read from stdin")
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &exportFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.format, "format", "f", "", "export format: pdf, docx, txt, html")
	fs.StringVarP(&f.rasterizer, "rasterizer", "r", "", "capture backend: rod, chromedp, text")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.loadTimeout, "load-timeout", "", "page load wait before capture (e.g., 1s)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")

	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addStyleFlags(fs, &f.style)
	addInputFlags(fs, &f.input)

	fs.Usage = func() { printExportUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return f, fs.Args(), nil
}
