package code2doc

import (
	"time"

	"go.uber.org/zap"
)

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds the settings applied by options.
type exporterConfig struct {
	timeout         time.Duration
	loadTimeout     time.Duration
	theme           string
	lineNumbers     bool
	fontSize        float64
	backend         string
	dateFormat      string
	assetPath       string
	defaultLanguage string
}

const (
	// defaultTimeout bounds a whole export.
	defaultTimeout = 30 * time.Second

	// defaultLoadTimeout bounds the wait for a capture page to load.
	defaultLoadTimeout = time.Second
)

// Font size bounds in CSS pixels.
const (
	MinFontSize = 6
	MaxFontSize = 72
)

// WithTimeout sets the export timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("code2doc: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithLoadTimeout sets how long a capture waits for its page to load
// before taking the screenshot anyway.
// Panics if d <= 0.
func WithLoadTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("code2doc: WithLoadTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.loadTimeout = d
	}
}

// WithTheme selects the syntax theme: an alias such as "atomDark" or any
// chroma style name.
func WithTheme(name string) Option {
	return func(e *Exporter) {
		e.cfg.theme = name
	}
}

// WithLineNumbers toggles line numbers in code captures.
func WithLineNumbers(on bool) Option {
	return func(e *Exporter) {
		e.cfg.lineNumbers = on
	}
}

// WithFontSize sets the code font size in CSS pixels.
func WithFontSize(px float64) Option {
	return func(e *Exporter) {
		e.cfg.fontSize = px
	}
}

// WithBackend selects a built-in rasterizer by name (see Backends).
func WithBackend(name string) Option {
	return func(e *Exporter) {
		e.cfg.backend = name
	}
}

// WithRasterizer injects a rasterizer, overriding WithBackend.
// The Exporter closes it on Close.
func WithRasterizer(r Rasterizer) Option {
	return func(e *Exporter) {
		e.rasterizer = r
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) {
		if l == nil {
			l = zap.NewNop()
		}
		e.logger = l
	}
}

// WithNow replaces the clock used for generation dates.
func WithNow(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithDateFormat sets the generation date format: a preset name
// ("iso", "long", ...) or a token pattern such as "DD/MM/YYYY".
func WithDateFormat(format string) Option {
	return func(e *Exporter) {
		e.cfg.dateFormat = format
	}
}

// WithAssetPath loads templates and styles from dir, falling back to the
// embedded assets for anything missing there.
func WithAssetPath(dir string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = dir
	}
}

// WithDefaultLanguage sets the language used when a request carries none
// and its file name has no known extension.
func WithDefaultLanguage(tag string) Option {
	return func(e *Exporter) {
		e.cfg.defaultLanguage = tag
	}
}
