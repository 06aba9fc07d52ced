package main

import (
	"bytes"
	"errors"
	"testing"

	flag "github.com/spf13/pflag"
)

func TestParseExportFlags(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	f, args, err := parseExportFlags([]string{
		"-f", "docx", "-o", "out", "-r", "text", "-w", "3",
		"--theme", "atomDark", "-n", "--font-size", "14",
		"-a", "Ada", "--title", "Report", "-l", "go",
		"-m", "auto", "-q", "main.go", "lib",
	}, &stderr)
	if err != nil {
		t.Fatalf("parseExportFlags() error = %v", err)
	}

	if f.format != "docx" || f.output != "out" || f.rasterizer != "text" || f.workers != 3 {
		t.Errorf("io flags = %+v", f)
	}
	if f.style.theme != "atomDark" || !f.style.lineNumbers || f.style.fontSize != 14 {
		t.Errorf("style flags = %+v", f.style)
	}
	if f.document.author != "Ada" || f.document.title != "Report" || f.document.language != "go" {
		t.Errorf("document flags = %+v", f.document)
	}
	if f.input.markup != "auto" || !f.common.quiet {
		t.Errorf("input = %+v, quiet = %v", f.input, f.common.quiet)
	}
	if len(args) != 2 || args[0] != "main.go" || args[1] != "lib" {
		t.Errorf("args = %v", args)
	}
}

func TestParseExportFlags_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown flag is a usage error", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		if _, _, err := parseExportFlags([]string{"--nope"}, &stderr); !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("help is returned unwrapped", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		_, _, err := parseExportFlags([]string{"--help"}, &stderr)
		if !errors.Is(err, flag.ErrHelp) || errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want bare ErrHelp", err)
		}
		if !bytes.Contains(stderr.Bytes(), []byte("Usage: code2doc export")) {
			t.Errorf("stderr = %q, want export usage", stderr.String())
		}
	})
}
