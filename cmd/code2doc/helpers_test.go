package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	code2doc "github.com/alnah/go-code2doc"
	"github.com/alnah/go-code2doc/internal/fileutil"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - fake exporter and pool
// ---------------------------------------------------------------------------

// fakeExporter records requests and returns a blob named like the real one.
type fakeExporter struct {
	mu   sync.Mutex
	reqs []code2doc.ExportRequest
	err  error
}

func (f *fakeExporter) Export(_ context.Context, req code2doc.ExportRequest) (*code2doc.OutputBlob, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if req.RawText == "" {
		return nil, code2doc.ErrMissingContent
	}
	title := req.Title
	if title == "" {
		title = fileutil.Stem(req.FileName)
	}
	if title == "" {
		title = code2doc.DefaultTitle
	}
	return &code2doc.OutputBlob{
		Content:  []byte("doc:" + req.RawText),
		FileName: title + "." + string(req.Format),
		MIMEType: "application/octet-stream",
	}, nil
}

func (f *fakeExporter) requests() []code2doc.ExportRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]code2doc.ExportRequest(nil), f.reqs...)
}

// fakePool hands out a single shared fakeExporter.
type fakePool struct {
	exp        *fakeExporter
	size       int
	acquireErr error

	mu     sync.Mutex
	closed bool
	opts   int
}

func (p *fakePool) Acquire() (Exporter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.exp, nil
}

func (p *fakePool) Release(Exporter) {}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	pool   *fakePool
}

// newTestEnv builds an Environment backed by buffers, vars and a fake pool.
func newTestEnv(vars map[string]string) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		pool:   &fakePool{exp: &fakeExporter{}, size: 2},
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC) },
		Stdin:  &bytes.Buffer{},
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewPool: func(size int, opts ...code2doc.Option) Pool {
			te.pool.mu.Lock()
			te.pool.opts = len(opts)
			te.pool.mu.Unlock()
			return te.pool
		},
	}
	return te
}

var errFake = errors.New("fake failure")
