// Package runner converts many documents concurrently.
package runner

import (
	"github.com/yaklabco/gomdhtml/pkg/config"
)

// Options controls a multi-file conversion.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// to mirror the source layout below OutDir.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered markup. Defaults to [".md", ".markdown"].
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories,
	// relative to WorkingDir. "**" crosses directory boundaries.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.GOMAXPROCS(0)).
	Jobs int

	// OutDir receives converted files. Empty writes next to each source.
	OutDir string

	// OutExtension replaces the source extension. Defaults to ".html".
	OutExtension string

	// NoWrite keeps the HTML in FileOutcome.Result instead of writing files.
	NoWrite bool

	// Check compares the HTML with the existing output instead of writing
	// it. Differing or missing outputs are marked stale with a diff.
	Check bool
}

// OptionsFromConfig builds runner options from the resolved configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	return Options{
		Paths:        paths,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		OutDir:       cfg.OutDir,
		OutExtension: cfg.Extension,
	}
}

// DefaultExtensions returns the default set of markup file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveOutExtension() string {
	if o.OutExtension == "" {
		return config.DefaultExtension
	}
	return o.OutExtension
}
