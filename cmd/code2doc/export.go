package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	code2doc "github.com/alnah/go-code2doc"
	"github.com/alnah/go-code2doc/internal/config"
	"github.com/alnah/go-code2doc/internal/hints"
	"github.com/alnah/go-code2doc/internal/pipeline"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdinArg reads content from standard input.
const stdinArg = "-"

// Values accepted by --markup.
const (
	markupNone     = ""
	markupHTML     = "html"
	markupMarkdown = "markdown"
	markupAuto     = "auto"
)

// exportJob is one input to export.
type exportJob struct {
	InputPath string // stdinArg for standard input
	Name      string // file name handed to the exporter
	OutputDir string
	Content   []byte // preloaded content; nil = read InputPath
	Markup    *code2doc.MarkupRegion
}

// exportParams groups values shared by every job of a run.
type exportParams struct {
	format   code2doc.Format
	title    string
	author   string
	language string
	paths    *outputPaths
}

// runExport orchestrates the export command.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())
	envCfg := loadEnvConfig(env.Getenv)

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return withHint(err)
	}

	format, err := code2doc.ParseFormat(cfg.Export.Format)
	if err != nil {
		return withHint(err)
	}
	markup, err := parseMarkupMode(flags.input.markup)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	defer func() { _ = logger.Sync() }()

	opts, err := buildOptions(flags, cfg, logger, env.Now)
	if err != nil {
		return err
	}
	// Fail fast on options every pooled exporter would reject.
	probe, err := code2doc.NewExporter(opts...)
	if err != nil {
		return withHint(err)
	}
	_ = probe.Close()

	jobs, err := discoverJobs(positional, cfg.Output.Dir, markup, flags.input.name, env.Stdin)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no supported source files in %s", ErrNoInput, strings.Join(positional, ", "))
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := min(code2doc.ResolvePoolSize(workers), len(jobs))
	logger.Debug("starting export", zap.Int("files", len(jobs)), zap.Int("workers", poolSize), zap.String("format", string(format)))

	pool := env.NewPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	params := &exportParams{
		format:   format,
		title:    flags.document.title,
		author:   cfg.Author,
		language: flags.document.language,
		paths:    newOutputPaths(),
	}
	results := exportBatch(ctx, pool, jobs, params)

	return reportResults(results, flags.common.quiet, flags.common.verbose, env)
}

// loadConfig loads the config named by flag or env; neither yields defaults.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *exportFlags, cfg *config.Config) {
	if flags.document.author != "" {
		cfg.Author = flags.document.author
	}
	if flags.document.dateFormat != "" {
		cfg.Document.DateFormat = flags.document.dateFormat
	}

	if flags.format != "" {
		cfg.Export.Format = strings.ToLower(flags.format)
	}
	if flags.rasterizer != "" {
		cfg.Export.Rasterizer = strings.ToLower(flags.rasterizer)
	}
	if flags.timeout != "" {
		cfg.Export.Timeout = flags.timeout
	}
	if flags.style.theme != "" {
		cfg.Export.Theme = flags.style.theme
	}
	if flags.style.lineNumbers {
		cfg.Export.LineNumbers = true
	}
	if flags.style.fontSize != 0 {
		cfg.Export.FontSize = flags.style.fontSize
	}

	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
}

// buildOptions turns the merged configuration into exporter options.
func buildOptions(flags *exportFlags, cfg *config.Config, logger *zap.Logger, now func() time.Time) ([]code2doc.Option, error) {
	opts := []code2doc.Option{
		code2doc.WithBackend(cfg.Export.Rasterizer),
		code2doc.WithTheme(cfg.Export.Theme),
		code2doc.WithLineNumbers(cfg.Export.LineNumbers),
		code2doc.WithLogger(logger),
		code2doc.WithNow(now),
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, code2doc.WithTimeout(timeout))
	}
	if flags.loadTimeout != "" {
		d, err := time.ParseDuration(flags.loadTimeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: --load-timeout %q (want a positive duration like 1s)", ErrUsage, flags.loadTimeout)
		}
		opts = append(opts, code2doc.WithLoadTimeout(d))
	}

	if cfg.Export.FontSize > 0 {
		opts = append(opts, code2doc.WithFontSize(float64(cfg.Export.FontSize)))
	}
	if cfg.Document.DateFormat != "" {
		opts = append(opts, code2doc.WithDateFormat(cfg.Document.DateFormat))
	}
	if cfg.Document.DefaultLanguage != "" {
		opts = append(opts, code2doc.WithDefaultLanguage(cfg.Document.DefaultLanguage))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, code2doc.WithAssetPath(cfg.Assets.BasePath))
	}

	return opts, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > code2doc.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, code2doc.MaxPoolSize)
	}
	return nil
}

// parseMarkupMode validates --markup.
func parseMarkupMode(mode string) (string, error) {
	switch m := strings.ToLower(mode); m {
	case markupNone, markupHTML, markupMarkdown, markupAuto:
		return m, nil
	case "md":
		return markupMarkdown, nil
	default:
		return "", fmt.Errorf("%w: --markup %q (want html, markdown or auto)", ErrUsage, mode)
	}
}

// withHint appends advice for errors a user can fix from the command line.
func withHint(err error) error {
	switch {
	case errors.Is(err, code2doc.ErrInvalidTheme):
		return fmt.Errorf("%w%s", err, hints.ForUnknownTheme(pipeline.ThemeNames()))
	case errors.Is(err, code2doc.ErrUnsupportedFormat):
		return fmt.Errorf("%w%s", err, hints.ForUnsupportedFormat(config.Formats))
	case errors.Is(err, config.ErrInvalidValue) && strings.Contains(err.Error(), "export.theme"):
		return fmt.Errorf("%w%s", err, hints.ForUnknownTheme(pipeline.ThemeNames()))
	default:
		return err
	}
}

// discoverJobs expands the positional arguments into export jobs.
// Directories are walked for files with a known source extension; hidden
// directories are skipped.
func discoverJobs(args []string, outputDir, markup, stdinName string, stdin io.Reader) ([]exportJob, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	var jobs []exportJob
	for _, arg := range args {
		if arg == stdinArg {
			job, err := stdinJob(stdin, stdinName, outputDir, markup)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		if !info.IsDir() {
			jobs = append(jobs, fileJob(arg, outputDir, "", markup))
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := code2doc.DetectLanguage(d.Name()); !ok {
				return nil
			}
			jobs = append(jobs, fileJob(path, outputDir, arg, markup))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: walking %s: %v", ErrReadInput, arg, err)
		}
	}
	return jobs, nil
}

// fileJob builds the job for path. With an output directory, files found
// under baseDir keep their relative location.
func fileJob(path, outputDir, baseDir, markup string) exportJob {
	job := exportJob{
		InputPath: path,
		Name:      filepath.Base(path),
		OutputDir: filepath.Dir(path),
		Markup:    markupRegion(markup, path, filepath.Dir(path)),
	}
	if outputDir == "" {
		return job
	}

	job.OutputDir = outputDir
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, filepath.Dir(path)); err == nil {
			job.OutputDir = filepath.Join(outputDir, rel)
		}
	}
	return job
}

// stdinJob reads standard input into a job written to outputDir or the
// current directory.
func stdinJob(stdin io.Reader, name, outputDir, markup string) (exportJob, error) {
	if stdin == nil {
		return exportJob{}, fmt.Errorf("%w: stdin unavailable", ErrReadInput)
	}
	content, err := io.ReadAll(stdin)
	if err != nil {
		return exportJob{}, fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
	}
	if outputDir == "" {
		outputDir = "."
	}
	return exportJob{
		InputPath: stdinArg,
		Name:      name,
		OutputDir: outputDir,
		Content:   content,
		Markup:    markupRegion(markup, name, ""),
	}, nil
}

// markupRegion resolves the --markup mode for one file. Auto mode renders
// HTML and Markdown files and lists everything else.
func markupRegion(mode, name, baseDir string) *code2doc.MarkupRegion {
	switch mode {
	case markupHTML:
		return &code2doc.MarkupRegion{Syntax: code2doc.MarkupHTML, BaseDir: baseDir}
	case markupMarkdown:
		return &code2doc.MarkupRegion{Syntax: code2doc.MarkupMarkdown, BaseDir: baseDir}
	case markupAuto:
		switch lang, _ := code2doc.DetectLanguage(name); lang {
		case "html":
			return &code2doc.MarkupRegion{Syntax: code2doc.MarkupHTML, BaseDir: baseDir}
		case "markdown":
			return &code2doc.MarkupRegion{Syntax: code2doc.MarkupMarkdown, BaseDir: baseDir}
		}
	}
	return nil
}
