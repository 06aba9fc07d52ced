package code2doc

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire() (*Exporter, error)
	Release(*Exporter)
	Size() int
	Close() error
} = (*ExporterPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit takes priority", 4, 4},
		{"explicit=1 for sequential", 1, 1},
		{"explicit can exceed max", 16, 16},
		{"zero uses auto calculation", 0, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{"negative uses auto calculation", -3, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestResolvePoolSize_Bounds(t *testing.T) {
	t.Parallel()

	got := ResolvePoolSize(0)
	if got < MinPoolSize || got > MaxPoolSize {
		t.Errorf("ResolvePoolSize(0) = %d, want within [%d, %d]", got, MinPoolSize, MaxPoolSize)
	}
}

func newTestPool(n int) *ExporterPool {
	return NewExporterPool(n, WithBackend(BackendText))
}

func TestExporterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := newTestPool(2)
	defer pool.Close()

	e1, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	e2, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if e1 == e2 {
		t.Error("expected different exporter instances")
	}

	pool.Release(e1)
	e3, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if e3 != e1 {
		t.Error("expected to get back the released exporter")
	}

	pool.Release(e2)
	pool.Release(e3)
}

func TestExporterPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := newTestPool(tt.size)
			defer pool.Close()

			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExporterPool_ConcurrentExports(t *testing.T) {
	t.Parallel()

	pool := newTestPool(3)
	defer pool.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 12)

	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := pool.Acquire()
			if err != nil {
				errs <- err
				return
			}
			defer pool.Release(e)
			_, err = e.Export(context.Background(), ExportRequest{RawText: "x := 1", FileName: "a.go", Format: FormatTXT})
			if err != nil {
				errs <- err
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(5 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		t.Fatal("concurrent exports timed out - possible deadlock")
	}

	close(errs)
	for err := range errs {
		t.Errorf("export error = %v", err)
	}
}

func TestExporterPool_CreateError(t *testing.T) {
	t.Parallel()

	pool := NewExporterPool(1, WithTheme("neon"))
	defer pool.Close()

	if _, err := pool.Acquire(); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("Acquire() error = %v, want ErrInvalidTheme", err)
	}
	// The failed slot is returned, so the next attempt fails the same way
	// instead of blocking.
	if _, err := pool.Acquire(); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("second Acquire() error = %v, want ErrInvalidTheme", err)
	}
}

func TestExporterPool_Closed(t *testing.T) {
	t.Parallel()

	pool := newTestPool(2)

	e, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Release after close is a no-op.
	pool.Release(e)

	if _, err := pool.Acquire(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
