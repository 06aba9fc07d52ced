package code2doc

import "strings"

// extensionLanguages maps lower-case file extensions to language tags.
var extensionLanguages = map[string]string{
	"js":    "javascript",
	"jsx":   "jsx",
	"ts":    "typescript",
	"tsx":   "tsx",
	"py":    "python",
	"java":  "java",
	"c":     "c",
	"cpp":   "cpp",
	"cs":    "csharp",
	"html":  "html",
	"css":   "css",
	"php":   "php",
	"rb":    "ruby",
	"go":    "go",
	"rs":    "rust",
	"swift": "swift",
	"kt":    "kotlin",
	"sh":    "bash",
	"json":  "json",
	"xml":   "xml",
	"yml":   "yaml",
	"yaml":  "yaml",
	"md":    "markdown",
	"sql":   "sql",
}

// DetectLanguage returns the language tag for the text after the last dot
// of filename, compared case-insensitively. Names without a dot or with an
// unknown extension report false.
func DetectLanguage(filename string) (string, bool) {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return "", false
	}
	lang, ok := extensionLanguages[strings.ToLower(filename[i+1:])]
	return lang, ok
}
