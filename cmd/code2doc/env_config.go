package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-code2doc/internal/config"
)

// envPrefix starts every recognized environment variable.
const envPrefix = "CODE2DOC_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // CODE2DOC_CONFIG: config file name or path
	Format     string        // CODE2DOC_FORMAT: pdf, docx, txt, html
	Theme      string        // CODE2DOC_THEME: syntax theme
	Rasterizer string        // CODE2DOC_RASTERIZER: rod, chromedp, text
	Timeout    time.Duration // CODE2DOC_TIMEOUT: export timeout
	OutputDir  string        // CODE2DOC_OUTPUT_DIR: output directory
	Author     string        // CODE2DOC_AUTHOR: author name
	Workers    int           // CODE2DOC_WORKERS: parallel workers
}

// knownEnvVars lists valid CODE2DOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CODE2DOC_CONFIG":     true,
	"CODE2DOC_FORMAT":     true,
	"CODE2DOC_THEME":      true,
	"CODE2DOC_RASTERIZER": true,
	"CODE2DOC_TIMEOUT":    true,
	"CODE2DOC_OUTPUT_DIR": true,
	"CODE2DOC_AUTHOR":     true,
	"CODE2DOC_WORKERS":    true,
	"CODE2DOC_CONTAINER":  true,
}

// loadEnvConfig reads every recognized variable through getenv.
// Invalid durations and counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("CODE2DOC_CONFIG"),
		Format:     getenv("CODE2DOC_FORMAT"),
		Theme:      getenv("CODE2DOC_THEME"),
		Rasterizer: getenv("CODE2DOC_RASTERIZER"),
		OutputDir:  getenv("CODE2DOC_OUTPUT_DIR"),
		Author:     getenv("CODE2DOC_AUTHOR"),
	}

	if timeout := getenv("CODE2DOC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := getenv("CODE2DOC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars reports unrecognized CODE2DOC_* variables.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config values with the variables that are set.
// Precedence: CLI flags > env vars > config file > defaults
// (flags are applied later by mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Format != "" {
		cfg.Export.Format = env.Format
	}
	if env.Theme != "" {
		cfg.Export.Theme = env.Theme
	}
	if env.Rasterizer != "" {
		cfg.Export.Rasterizer = env.Rasterizer
	}
	if env.Timeout > 0 {
		cfg.Export.Timeout = env.Timeout.String()
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Author != "" {
		cfg.Author = env.Author
	}
}
