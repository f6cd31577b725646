package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdhtml/pkg/config"
)

// envVarPrefix is the prefix for all gomdhtml environment variables.
const envVarPrefix = "GOMDHTML_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping ties a variable to a config field and documents it.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"STANDALONE":      {"render.standalone", envTypeBool, "Wrap output in an HTML5 document: true or false"},
	"HEADING_IDS":     {"render.heading_ids", envTypeBool, "Add id attributes to headings: true or false"},
	"HIGHLIGHT":       {"render.highlight", envTypeBool, "Highlight fenced code: true or false"},
	"HIGHLIGHT_STYLE": {"render.highlight_style", envTypeString, "Highlight color scheme name"},
	"DETECT_LANGUAGE": {"render.detect_language", envTypeBool, "Guess code block languages: true or false"},
	"MAX_INPUT_BYTES": {"max_input_bytes", envTypeInt, "Largest accepted input in bytes (0 = unlimited)"},
	"FAIL_ON":         {"fail_on", envTypeString, "Failing severity: error, warning, info, or none"},
	"FORMAT":          {"format", envTypeString, "Diagnostics format: text or json"},
	"OUT_DIR":         {"out_dir", envTypeString, "Directory for converted files"},
	"EXTENSION":       {"extension", envTypeString, "Extension of converted files"},
	"JOBS":            {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"IGNORE":          {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
}

// LoadFromEnv applies GOMDHTML_* environment variables to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromEnv(cfg, os.LookupEnv)
}

func loadFromEnv(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range slices.Sorted(maps.Keys(envMappings)) {
		envVar := envVarPrefix + suffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}
		if err := applyEnvValue(cfg, envMappings[suffix], value, envVar); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue splits a comma-separated value, dropping empty elements.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "render.highlight_style":
		cfg.Render.HighlightStyle = value
	case "fail_on":
		cfg.FailOn = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "out_dir":
		cfg.OutDir = value
	case "extension":
		cfg.Extension = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "render.standalone":
		cfg.Render.Standalone = config.Bool(value)
	case "render.heading_ids":
		cfg.Render.HeadingIDs = config.Bool(value)
	case "render.highlight":
		cfg.Render.Highlight = config.Bool(value)
	case "render.detect_language":
		cfg.Render.DetectLanguage = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "max_input_bytes":
		cfg.MaxInputBytes = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the environment variable for a config field path,
// or "" if the field has none.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns the supported environment variables with descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
