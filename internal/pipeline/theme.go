package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnknownTheme indicates the theme is neither an alias nor a chroma style.
var ErrUnknownTheme = errors.New("unknown syntax theme")

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "dracula"

// themeAliases maps the theme names offered in the editor to chroma styles.
var themeAliases = map[string]string{
	"atomdark":       "monokai",
	"materiallight":  "github",
	"dracula":        "dracula",
	"solarizedlight": "solarized-light",
	"tomorrow":       "friendly",
}

// ResolveTheme returns the chroma style name for theme. Aliases match
// case-insensitively; chroma style names are accepted as is.
func ResolveTheme(theme string) (string, error) {
	if theme == "" {
		return DefaultTheme, nil
	}
	if name, ok := themeAliases[strings.ToLower(theme)]; ok {
		return name, nil
	}
	if _, ok := styles.Registry[theme]; ok {
		return theme, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
}

// ThemeNames lists the aliases, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themeAliases))
	for alias := range themeAliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}
