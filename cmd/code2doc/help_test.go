package main

import (
	"strings"
	"testing"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, "Commands:", ""},
		{"export", []string{"export"}, "--rasterizer", ""},
		{"themes", []string{"themes"}, "Usage: code2doc themes", ""},
		{"doctor", []string{"doctor"}, "--json", ""},
		{"version", []string{"version"}, "Usage: code2doc version", ""},
		{"help", []string{"help"}, "Usage: code2doc help", ""},
		{"unknown", []string{"convert"}, "", "Unknown command: convert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(nil)
			runHelp(tt.args, te.Environment)

			if tt.wantStdout != "" && !strings.Contains(te.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", te.stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(te.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", te.stderr, tt.wantStderr)
			}
		})
	}
}

func TestPrintThemes(t *testing.T) {
	t.Parallel()

	te := newTestEnv(nil)
	printThemes(te.stdout)

	out := te.stdout.String()
	for _, want := range []string{"atomdark\n", "dracula (default)\n", "solarizedlight\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("themes output = %q, missing %q", out, want)
		}
	}
}
