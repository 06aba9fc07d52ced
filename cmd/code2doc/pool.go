package main

import (
	"context"
	"fmt"

	code2doc "github.com/alnah/go-code2doc"
)

// Exporter is the part of code2doc.Exporter the CLI uses.
type Exporter interface {
	Export(ctx context.Context, req code2doc.ExportRequest) (*code2doc.OutputBlob, error)
}

// Compile-time interface implementation check.
var _ Exporter = (*code2doc.Exporter)(nil)

// Pool abstracts exporter pool operations for testability.
type Pool interface {
	Acquire() (Exporter, error)
	Release(Exporter)
	Size() int
	Close() error
}

// poolAdapter exposes a code2doc.ExporterPool as a Pool.
type poolAdapter struct {
	pool *code2doc.ExporterPool
}

var _ Pool = (*poolAdapter)(nil)

// newExporterPool is the production Environment.NewPool.
func newExporterPool(size int, opts ...code2doc.Option) Pool {
	return &poolAdapter{pool: code2doc.NewExporterPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (Exporter, error) {
	return a.pool.Acquire()
}

// Release panics when e did not come from this adapter (programmer error).
func (a *poolAdapter) Release(e Exporter) {
	exp, ok := e.(*code2doc.Exporter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", e))
	}
	a.pool.Release(exp)
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

func (a *poolAdapter) Close() error { return a.pool.Close() }
