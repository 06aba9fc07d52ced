package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	code2doc "github.com/alnah/go-code2doc"
	"github.com/alnah/go-code2doc/internal/fileutil"
	"github.com/alnah/go-code2doc/internal/hints"
)

// exportResult holds the outcome of a single export.
type exportResult struct {
	InputPath  string
	OutputPath string
	Format     code2doc.Format
	Err        error
	Duration   time.Duration
}

// exportBatch processes jobs concurrently using the exporter pool.
// Results keep the order of jobs.
func exportBatch(ctx context.Context, pool Pool, jobs []exportJob, params *exportParams) []exportResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))
	results := make([]exportResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp, err := pool.Acquire()
			if err != nil {
				// Exporter creation failed, mark the jobs this worker takes as failed
				for idx := range queue {
					results[idx] = exportResult{InputPath: jobs[idx].InputPath, Format: params.format, Err: err}
				}
				return
			}
			defer pool.Release(exp)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = exportResult{InputPath: jobs[idx].InputPath, Format: params.format, Err: ctx.Err()}
					continue
				}
				results[idx] = exportFile(ctx, exp, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// exportFile exports one job and writes the document to disk.
func exportFile(ctx context.Context, exp Exporter, job exportJob, params *exportParams) exportResult {
	start := time.Now()
	result := exportResult{InputPath: job.InputPath, Format: params.format}
	done := func(err error) exportResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content := job.Content
	if content == nil {
		data, err := os.ReadFile(job.InputPath) // #nosec G304 -- discovered path
		if err != nil {
			return done(fmt.Errorf("%w: %v", ErrReadInput, err))
		}
		content = data
	}

	blob, err := exp.Export(ctx, code2doc.ExportRequest{
		RawText:  string(content),
		FileName: job.Name,
		Language: params.language,
		Title:    params.title,
		Author:   params.author,
		Format:   params.format,
		Markup:   job.Markup,
	})
	if err != nil {
		return done(err)
	}

	if err := os.MkdirAll(job.OutputDir, dirPermissions); err != nil {
		return done(fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory()))
	}

	fallback := code2doc.DefaultTitle + "." + string(params.format)
	outPath := params.paths.claim(filepath.Join(job.OutputDir, fileutil.SafeFileName(blob.FileName, fallback)))
	result.OutputPath = outPath

	// #nosec G306 -- exported documents are meant to be readable
	if err := os.WriteFile(outPath, blob.Content, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	return done(nil)
}

// outputPaths hands out distinct output paths within one run, so two
// inputs with the same stem do not overwrite each other.
type outputPaths struct {
	mu   sync.Mutex
	used map[string]bool
}

func newOutputPaths() *outputPaths {
	return &outputPaths{used: make(map[string]bool)}
}

// claim returns path, or path with a "-N" suffix before the extension
// when path was already claimed.
func (p *outputPaths) claim(path string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	candidate := path
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; p.used[candidate]; n++ {
		candidate = base + "-" + strconv.Itoa(n) + ext
	}
	p.used[candidate] = true
	return candidate
}

// resultSummary holds the count of succeeded and failed exports.
type resultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed exports.
func countResults(results []exportResult) resultSummary {
	var summary resultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// reportResults prints one notification per result and returns a
// *batchError when any export failed.
func reportResults(results []exportResult, quiet, verbose bool, env *Environment) error {
	summary := countResults(results)
	var errs []error

	for _, r := range results {
		note := code2doc.NotificationFor(r.Format, r.Err)
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "%s: %s: %v%s\n", note, r.InputPath, r.Err, hintFor(r.Err))
			errs = append(errs, fmt.Errorf("%s: %w", r.InputPath, r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s: %s -> %s (%v)\n", note, r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "%s: %s\n", note, r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if summary.Failed > 0 {
		return &batchError{errs: errs}
	}
	return nil
}

// batchError reports failed exports. Details were already printed per file,
// so Error stays short; Unwrap keeps the causes visible to errors.Is.
type batchError struct {
	errs []error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d export(s) failed", len(e.errs))
}

func (e *batchError) Unwrap() []error { return e.errs }

// hintFor returns advice for per-file failures.
func hintFor(err error) string {
	switch {
	case errors.Is(err, code2doc.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	default:
		return ""
	}
}
