//go:build bench

package code2doc

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// BenchmarkResolvePoolSize benchmarks pool size calculation.
func BenchmarkResolvePoolSize(b *testing.B) {
	for _, w := range []int{0, 1, 2, 4, 8} {
		b.Run(workerName(w), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ResolvePoolSize(w)
			}
		})
	}
}

func workerName(w int) string {
	if w == 0 {
		return "auto"
	}
	return fmt.Sprintf("%d", w)
}

// BenchmarkExporterPoolAcquireRelease benchmarks the acquire/release cycle
// on a warm pool.
func BenchmarkExporterPoolAcquireRelease(b *testing.B) {
	for _, size := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			pool := NewExporterPool(size, WithBackend(BackendText))
			defer pool.Close()

			warm := make([]*Exporter, size)
			for i := range warm {
				e, err := pool.Acquire()
				if err != nil {
					b.Fatal(err)
				}
				warm[i] = e
			}
			for _, e := range warm {
				pool.Release(e)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e, err := pool.Acquire()
				if err != nil {
					b.Fatal(err)
				}
				pool.Release(e)
			}
		})
	}
}

// BenchmarkExporterPoolContention runs text exports from more goroutines
// than the pool has exporters.
func BenchmarkExporterPoolContention(b *testing.B) {
	const poolSize = 4
	req := ExportRequest{RawText: "package main\n\nfunc main() {}\n", FileName: "main.go", Format: FormatHTML}

	for _, g := range []int{4, 8, 16, 32} {
		b.Run(fmt.Sprintf("goroutines_%d", g), func(b *testing.B) {
			pool := NewExporterPool(poolSize, WithBackend(BackendText))
			defer pool.Close()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var wg sync.WaitGroup
				for j := 0; j < g; j++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						e, err := pool.Acquire()
						if err != nil {
							b.Error(err)
							return
						}
						defer pool.Release(e)
						if _, err := e.Export(context.Background(), req); err != nil {
							b.Error(err)
						}
					}()
				}
				wg.Wait()
			}
		})
	}
}
