package code2doc

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr error
	}{
		{"pdf", FormatPDF, nil},
		{"PDF", FormatPDF, nil},
		{" docx ", FormatDOCX, nil},
		{"Txt", FormatTXT, nil},
		{"html", FormatHTML, nil},
		{"rtf", "", ErrUnsupportedFormat},
		{"", "", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseFormat(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormat_Valid(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		if !f.Valid() {
			t.Errorf("%q.Valid() = false", f)
		}
	}
	if Format("PDF").Valid() {
		t.Error(`Format("PDF").Valid() = true, want false for unnormalised value`)
	}
}

func TestFormat_Label(t *testing.T) {
	t.Parallel()

	if got := FormatDOCX.Label(); got != "DOCX" {
		t.Errorf("Label() = %q, want DOCX", got)
	}
}
