// Package config loads the YAML configuration of the code2doc CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-code2doc/internal/dateutil"
	"github.com/alnah/go-code2doc/internal/fileutil"
	"github.com/alnah/go-code2doc/internal/pipeline"
	"github.com/alnah/go-code2doc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAuthorLength     = 100
	MaxDateFormatLength = dateutil.MaxDateFormatLength
	MaxLanguageLength   = 32
	MaxThemeLength      = 50
	MaxPathLength       = 4096
)

// Font size bounds in CSS pixels.
const (
	MinFontSize = 6
	MaxFontSize = 72
)

// AppDirName is the per-user config directory name.
const AppDirName = "go-code2doc"

// Valid enumerated values.
var (
	Formats     = []string{"pdf", "docx", "txt", "html"}
	Rasterizers = []string{"rod", "chromedp", "text"}
)

// Config holds all CLI configuration.
type Config struct {
	Author   string         `yaml:"author"`
	Document DocumentConfig `yaml:"document"`
	Export   ExportConfig   `yaml:"export"`
	Output   OutputConfig   `yaml:"output"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// DocumentConfig defines header content defaults.
type DocumentConfig struct {
	DateFormat      string `yaml:"dateFormat"`      // token format or preset; empty = dateutil default
	DefaultLanguage string `yaml:"defaultLanguage"` // used when detection fails; empty = "text"
}

// ExportConfig defines how documents are produced.
type ExportConfig struct {
	Format      string `yaml:"format"`      // pdf, docx, txt, html (default pdf)
	Theme       string `yaml:"theme"`       // alias or chroma style
	LineNumbers bool   `yaml:"lineNumbers"` // gutter on code captures
	FontSize    int    `yaml:"fontSize"`    // 0 = stylesheet default
	Rasterizer  string `yaml:"rasterizer"`  // rod, chromedp, text (default rod)
	Timeout     string `yaml:"timeout"`     // Go duration, e.g. "30s"
}

// OutputConfig defines where files are written.
type OutputConfig struct {
	Dir string `yaml:"dir"` // empty = next to the source file
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{
			Format:     "pdf",
			Theme:      pipeline.DefaultTheme,
			Rasterizer: "rod",
		},
	}
}

// applyDefaults fills the enumerated fields left empty by the file.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Export.Format == "" {
		c.Export.Format = d.Export.Format
	}
	if c.Export.Theme == "" {
		c.Export.Theme = d.Export.Theme
	}
	if c.Export.Rasterizer == "" {
		c.Export.Rasterizer = d.Export.Rasterizer
	}
}

// TimeoutDuration parses Export.Timeout; empty yields zero.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Export.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Export.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: export.timeout %q (want a positive duration like 30s)", ErrInvalidValue, c.Export.Timeout)
	}
	return d, nil
}

// Validate checks field lengths and enumerated values.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"author", c.Author, MaxAuthorLength},
		{"document.dateFormat", c.Document.DateFormat, MaxDateFormatLength},
		{"document.defaultLanguage", c.Document.DefaultLanguage, MaxLanguageLength},
		{"export.theme", c.Export.Theme, MaxThemeLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := validateOneOf("export.format", c.Export.Format, Formats); err != nil {
		return err
	}
	if err := validateOneOf("export.rasterizer", c.Export.Rasterizer, Rasterizers); err != nil {
		return err
	}
	if c.Export.Theme != "" {
		if _, err := pipeline.ResolveTheme(c.Export.Theme); err != nil {
			return fmt.Errorf("%w: export.theme: %v", ErrInvalidValue, err)
		}
	}
	if c.Export.FontSize != 0 && (c.Export.FontSize < MinFontSize || c.Export.FontSize > MaxFontSize) {
		return fmt.Errorf("%w: export.fontSize must be between %d and %d, got %d",
			ErrInvalidValue, MinFontSize, MaxFontSize, c.Export.FontSize)
	}
	if c.Document.DateFormat != "" {
		if err := dateutil.Validate(c.Document.DateFormat); err != nil {
			return fmt.Errorf("%w: document.dateFormat: %v", ErrInvalidValue, err)
		}
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateOneOf accepts empty values; defaults are applied by the caller.
func validateOneOf(fieldName, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is read as is; a bare name is looked
// up with SearchPaths. A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !strings.ContainsAny(nameOrPath, "/\\") {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}
	if !fileutil.FileExists(configPath) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	var cfg Config
	if err := yamlutil.ReadFileStrict(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// SearchPaths lists the candidates for a config name, in lookup order:
// the current directory, then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, 2*len(extensions))
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDirName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
