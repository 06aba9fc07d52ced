// Package hints appends actionable advice to CLI error messages.
// Every hint reads "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-code2doc/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect suggests sandbox and binary settings for browser start
// failures, and the browserless backend as a last resort.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use a custom Chrome")
	}
	hints = append(hints, "or use --rasterizer text to skip the browser")

	return formatHints(hints)
}

// ForTimeout suggests a longer export timeout.
func ForTimeout() string {
	return format("for long listings, raise --timeout")
}

// ForConfigNotFound suggests --config or the first user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-code2doc") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory is shown when the output directory cannot be created.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnknownTheme lists the theme names accepted by --theme.
func ForUnknownTheme(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + " (or any chroma style)")
}

// ForUnsupportedFormat lists the export formats.
func ForUnsupportedFormat(formats []string) string {
	if len(formats) == 0 {
		return ""
	}
	return format("supported formats: " + strings.Join(formats, ", "))
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
