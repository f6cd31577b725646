package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ErrNoFiles is returned by Runner.Run when discovery finds nothing to convert.
var ErrNoFiles = errors.New("no markup files found")

// Discover finds markup files under opts.Paths. It returns a sorted,
// duplicate-free list of absolute paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	exclude, err := CompileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	walker := &walker{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		exclude:    exclude,
		follow:     opts.FollowSymlinks,
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := walker.walk(absPath); err != nil {
				return nil, err
			}
			continue
		}

		// Files named explicitly only need a matching extension.
		if hasMatchingExtension(absPath, walker.extensions) {
			walker.files = append(walker.files, absPath)
		}
	}

	slices.Sort(walker.files)
	return slices.Compact(walker.files), nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type walker struct {
	ctx        context.Context
	workDir    string
	extensions []string
	exclude    Globs
	follow     bool
	files      []string
}

func (w *walker) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel := w.relative(path)

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if path != root && w.exclude.MatchDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !w.follow || w.exclude.MatchDir(rel) {
					return nil
				}
				// Walk the target; WalkDir does not descend into a symlinked root.
				return w.walk(target)
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if hasMatchingExtension(path, w.extensions) && !w.exclude.Match(rel) {
			w.files = append(w.files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (w *walker) relative(path string) string {
	return relativeTo(w.workDir, path)
}

// relativeTo returns path relative to dir with forward slashes, the form
// ignore globs match against.
func relativeTo(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func hasMatchingExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Globs is a compiled set of ignore patterns. Paths use forward slashes.
type Globs struct {
	full []glob.Glob
	base []glob.Glob
}

// CompileGlobs compiles patterns with "/" as the separator, so "*" stays
// within one path segment and "**" spans any number. A pattern without a
// slash also matches against the file name alone.
func CompileGlobs(patterns []string) (Globs, error) {
	var globs Globs
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return Globs{}, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if strings.Contains(pattern, "/") {
			globs.full = append(globs.full, g)
		} else {
			globs.base = append(globs.base, g)
		}
	}
	return globs, nil
}

// Match reports whether the slash-separated relative path is excluded.
func (g Globs) Match(rel string) bool {
	for _, p := range g.full {
		if p.Match(rel) {
			return true
		}
	}
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, p := range g.base {
		if p.Match(base) || p.Match(rel) {
			return true
		}
	}
	return false
}

// MatchDir reports whether a directory and everything below it is
// excluded. "vendor/**" excludes the directory vendor itself.
func (g Globs) MatchDir(rel string) bool {
	return g.Match(rel) || g.Match(rel+"/")
}
