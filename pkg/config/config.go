// Package config defines the configuration of the gomdhtml command.
// The types are plain data with yaml tags; loading, merging and validation
// live in internal/configloader.
package config

import (
	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/mdhtml"
	"github.com/yaklabco/gomdhtml/pkg/render"
)

// OutputFormat selects how diagnostics are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid reports whether f is a known format.
func (f OutputFormat) IsValid() bool {
	return f == FormatText || f == FormatJSON
}

// DefaultExtension is the file extension of converted files.
const DefaultExtension = ".html"

// RenderConfig mirrors render.Options. Pointer fields distinguish "not
// set" from false so that a later layer can turn a feature off.
type RenderConfig struct {
	Standalone     *bool  `yaml:"standalone,omitempty"`
	HeadingIDs     *bool  `yaml:"heading_ids,omitempty"`
	Highlight      *bool  `yaml:"highlight,omitempty"`
	HighlightStyle string `yaml:"highlight_style,omitempty"`
	DetectLanguage *bool  `yaml:"detect_language,omitempty"`
}

// Config is the root configuration.
type Config struct {
	// Render controls the HTML output.
	Render RenderConfig `yaml:"render"`

	// MaxInputBytes rejects larger files. Zero disables the limit.
	MaxInputBytes int `yaml:"max_input_bytes"`

	// FailOn is the lowest diagnostic severity that makes the command
	// exit with a failure code. Empty never fails on diagnostics.
	FailOn string `yaml:"fail_on"`

	// Format is the diagnostics output format.
	Format OutputFormat `yaml:"format"`

	// OutDir receives converted files. Empty writes next to each source.
	OutDir string `yaml:"out_dir"`

	// Extension replaces the source extension of converted files.
	Extension string `yaml:"extension"`

	// Jobs is the number of parallel workers; 0 means GOMAXPROCS.
	Jobs int `yaml:"jobs"`

	// Ignore holds glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Stdout writes HTML to standard output instead of files.
	Stdout bool `yaml:"-"`

	// Watch re-converts files when they change.
	Watch bool `yaml:"-"`

	// NoColor disables styled output.
	NoColor bool `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Standalone:     Bool(true),
			HeadingIDs:     Bool(false),
			Highlight:      Bool(false),
			HighlightStyle: render.DefaultHighlightStyle,
			DetectLanguage: Bool(false),
		},
		MaxInputBytes: mdhtml.DefaultMaxInputBytes,
		FailOn:        string(diag.SeverityError),
		Format:        FormatText,
		Extension:     DefaultExtension,
		Jobs:          0,
	}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

func boolValue(p *bool) bool {
	return p != nil && *p
}

// RenderOptions converts the render section to renderer options.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Standalone:     boolValue(c.Render.Standalone),
		HeadingIDs:     boolValue(c.Render.HeadingIDs),
		Highlight:      boolValue(c.Render.Highlight),
		HighlightStyle: c.Render.HighlightStyle,
		DetectLanguage: boolValue(c.Render.DetectLanguage),
	}
}

// EngineOptions returns the conversion engine options for c.
func (c *Config) EngineOptions() []mdhtml.Option {
	return []mdhtml.Option{
		mdhtml.WithRenderOptions(c.RenderOptions()),
		mdhtml.WithMaxInputBytes(c.MaxInputBytes),
	}
}

// FailOnSeverity returns the parsed fail_on severity. ok is false when
// diagnostics never cause a failure.
func (c *Config) FailOnSeverity() (diag.Severity, bool) {
	if c.FailOn == "" || c.FailOn == "none" {
		return "", false
	}
	sev, err := diag.ParseSeverity(c.FailOn)
	if err != nil {
		return "", false
	}
	return sev, true
}
