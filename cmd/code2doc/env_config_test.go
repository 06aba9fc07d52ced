package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-code2doc/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"CODE2DOC_CONFIG":     "team",
		"CODE2DOC_FORMAT":     "txt",
		"CODE2DOC_THEME":      "dracula",
		"CODE2DOC_RASTERIZER": "text",
		"CODE2DOC_TIMEOUT":    "45s",
		"CODE2DOC_OUTPUT_DIR": "dist",
		"CODE2DOC_AUTHOR":     "Ada",
		"CODE2DOC_WORKERS":    "3",
	}
	got := loadEnvConfig(func(k string) string { return vars[k] })

	want := envConfig{
		ConfigPath: "team",
		Format:     "txt",
		Theme:      "dracula",
		Rasterizer: "text",
		Timeout:    45 * time.Second,
		OutputDir:  "dist",
		Author:     "Ada",
		Workers:    3,
	}
	if *got != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *got, want)
	}
}

func TestLoadEnvConfig_InvalidNumbersIgnored(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"CODE2DOC_TIMEOUT": "soon", "CODE2DOC_WORKERS": "-2"}
	got := loadEnvConfig(func(k string) string { return vars[k] })
	if got.Timeout != 0 || got.Workers != 0 {
		t.Errorf("timeout = %v, workers = %d, want zero values", got.Timeout, got.Workers)
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"PATH=/usr/bin",
		"CODE2DOC_FORMAT=pdf",
		"CODE2DOC_FROMAT=pdf",
	})

	out := buf.String()
	if !strings.Contains(out, "CODE2DOC_FROMAT") {
		t.Errorf("output = %q, want warning for CODE2DOC_FROMAT", out)
	}
	if strings.Contains(out, "CODE2DOC_FORMAT ") || strings.Contains(out, "PATH") {
		t.Errorf("output = %q, warned about a known variable", out)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Author = "From File"

	applyEnvConfig(&envConfig{Format: "html", Timeout: 2 * time.Minute, OutputDir: "dist"}, cfg)

	if cfg.Export.Format != "html" || cfg.Export.Timeout != "2m0s" || cfg.Output.Dir != "dist" {
		t.Errorf("export = %+v, output = %+v", cfg.Export, cfg.Output)
	}
	if cfg.Author != "From File" {
		t.Errorf("Author = %q, unset env must keep the file value", cfg.Author)
	}
	if cfg.Export.Rasterizer != "rod" {
		t.Errorf("Rasterizer = %q, want default rod", cfg.Export.Rasterizer)
	}
}
