package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every option with its default value uncommented.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// optionDoc describes one configuration key for the full template.
type optionDoc struct {
	key         string
	description string
}

// optionDocs lists the documented keys in template order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var optionDocs = []optionDoc{
	{"render.standalone", "Wrap output in a complete HTML5 document with a title taken from the first heading."},
	{"render.heading_ids", "Add an id attribute to every heading, derived from its text and unique within the document."},
	{"render.highlight", "Color fenced code blocks with a known language using CSS classes."},
	{"render.highlight_style", "Color scheme embedded in standalone documents when highlighting is enabled."},
	{"render.detect_language", "Guess the language of code blocks that have no info string."},
	{"max_input_bytes", "Reject files larger than this many bytes. 0 disables the limit."},
	{"fail_on", "Exit with status 1 when a diagnostic of this severity or higher is reported: error, warning, info, or none."},
	{"format", "Diagnostics output format: text or json."},
	{"out_dir", "Directory for converted files. Empty writes each file next to its source."},
	{"extension", "Extension of converted files."},
	{"jobs", "Number of parallel workers. 0 uses one per CPU."},
	{"ignore", "Glob patterns of files to skip."},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# HTML output
render:
  standalone: true
  # heading_ids: false
  # highlight: false
  # highlight_style: github
  # detect_language: false

# Exit with status 1 on diagnostics at or above this severity
# fail_on: error

# Number of parallel workers (0 = auto)
# jobs: 0

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`)

	return buf.Bytes()
}

func generateFullTemplate() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n#\n# Every option is listed with its default value.\n#\n")
	for _, doc := range optionDocs {
		buf.WriteString(fmt.Sprintf("# %s: %s\n", doc.key, wrapComment(doc.description, commentWrapWidth)))
	}
	buf.WriteByte('\n')

	cfg := NewConfig()
	cfg.Ignore = []string{"vendor/**", "node_modules/**"}
	body, err := cfg.ToYAML()
	if err != nil {
		return nil, err
	}
	buf.Write(body)

	return buf.Bytes(), nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""
	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n#   ")
}

// templateToJSON renders the defaults as JSON. JSON has no comments, so
// the minimal and full variants are the same.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	doc := map[string]any{
		"render": map[string]any{
			"standalone":      *cfg.Render.Standalone,
			"heading_ids":     *cfg.Render.HeadingIDs,
			"highlight":       *cfg.Render.Highlight,
			"highlight_style": cfg.Render.HighlightStyle,
			"detect_language": *cfg.Render.DetectLanguage,
		},
		"max_input_bytes": cfg.MaxInputBytes,
		"fail_on":         cfg.FailOn,
		"format":          string(cfg.Format),
		"extension":       cfg.Extension,
		"jobs":            cfg.Jobs,
		"ignore":          []string{"vendor/**", "node_modules/**"},
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gomdhtml configuration
# See: https://github.com/yaklabco/gomdhtml`
}
