package configloader

import "github.com/yaklabco/gomdhtml/pkg/config"

// merge combines two configurations, with override taking precedence over base.
//   - Scalars: override wins when it is non-zero
//   - Pointer flags: override wins when it is non-nil, so false can be set
//   - Slices: override replaces base entirely when non-nil
//   - CLI-only booleans: override can only switch them on
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base
	result.Render = mergeRender(base.Render, override.Render)

	if override.MaxInputBytes != 0 {
		result.MaxInputBytes = override.MaxInputBytes
	}
	if override.FailOn != "" {
		result.FailOn = override.FailOn
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.OutDir != "" {
		result.OutDir = override.OutDir
	}
	if override.Extension != "" {
		result.Extension = override.Extension
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	result.Stdout = base.Stdout || override.Stdout
	result.Watch = base.Watch || override.Watch
	result.NoColor = base.NoColor || override.NoColor

	return &result
}

func mergeRender(base, override config.RenderConfig) config.RenderConfig {
	result := base

	if override.Standalone != nil {
		result.Standalone = override.Standalone
	}
	if override.HeadingIDs != nil {
		result.HeadingIDs = override.HeadingIDs
	}
	if override.Highlight != nil {
		result.Highlight = override.Highlight
	}
	if override.HighlightStyle != "" {
		result.HighlightStyle = override.HighlightStyle
	}
	if override.DetectLanguage != nil {
		result.DetectLanguage = override.DetectLanguage
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
