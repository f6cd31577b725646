package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/gomdhtml/internal/logging"
	"github.com/yaklabco/gomdhtml/pkg/fsutil"
)

// DefaultDebounce is how long Watch waits for events to settle before
// converting.
const DefaultDebounce = 200 * time.Millisecond

// Watch converts the files selected by opts, then re-converts files whose
// content changes until ctx is done. Every batch is passed to report,
// the initial one included. Files created later under a watched
// directory are picked up as well.
func (r *Runner) Watch(ctx context.Context, opts Options, debounce time.Duration, report func(*Result)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir

	exclude, err := CompileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return err
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()

	w := &watchState{
		ctx:        ctx,
		watcher:    watcher,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		exclude:    exclude,
		snapshots:  make(map[string]*fsutil.FileInfo),
		pending:    make(map[string]struct{}),
	}
	for _, root := range opts.effectivePaths() {
		w.addRoot(root)
	}
	// Discovery already selected the initial files.
	clear(w.pending)

	if len(files) > 0 {
		w.remember(files)
		res, err := r.Convert(ctx, files, opts)
		if err != nil {
			return ignoreCancel(ctx, err)
		}
		report(res)
	}

	logger := logging.FromContext(ctx)
	logger.Info("watching for changes", logging.FieldFilesDiscovered, len(files))

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.handle(ev) {
				settle = time.After(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.FieldError, err)

		case <-settle:
			settle = nil
			batch := w.changed()
			if len(batch) == 0 {
				continue
			}
			logger.Debug("change detected", logging.FieldPaths, batch)

			w.remember(batch)
			res, err := r.Convert(ctx, batch, opts)
			if err != nil {
				return ignoreCancel(ctx, err)
			}
			report(res)
		}
	}
}

func ignoreCancel(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}

type watchState struct {
	ctx        context.Context
	watcher    *fsnotify.Watcher
	workDir    string
	extensions []string
	exclude    Globs

	// snapshots holds the content hash of every converted file, so that
	// events which leave the content unchanged do not trigger work.
	snapshots map[string]*fsutil.FileInfo
	pending   map[string]struct{}
}

func (w *watchState) addRoot(root string) {
	if !filepath.IsAbs(root) {
		root = filepath.Join(w.workDir, root)
	}
	info, err := os.Stat(root)
	if err != nil {
		return
	}
	if info.IsDir() {
		w.addDirs(root)
		return
	}
	w.add(filepath.Dir(root))
}

// addDirs watches root and its subdirectories. Markup files found on the
// way are queued; it reports whether there were any.
func (w *watchState) addDirs(root string) bool {
	queued := false
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable entries are not watched.
		}
		if !entry.IsDir() {
			if w.accepts(path) {
				w.pending[path] = struct{}{}
				queued = true
			}
			return nil
		}
		if path != root && (strings.HasPrefix(entry.Name(), ".") || w.exclude.MatchDir(w.relative(path))) {
			return filepath.SkipDir
		}
		w.add(path)
		return nil
	})
	return queued
}

func (w *watchState) add(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		logging.FromContext(w.ctx).Warn("watch failed", logging.FieldPath, dir, logging.FieldError, err)
	}
}

// handle records ev and reports whether it concerns a markup file.
func (w *watchState) handle(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") || w.exclude.MatchDir(w.relative(ev.Name)) {
				return false
			}
			// Files written before the watch was added produce no events.
			return w.addDirs(ev.Name)
		}
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if !w.accepts(ev.Name) {
		return false
	}
	w.pending[ev.Name] = struct{}{}
	return true
}

func (w *watchState) accepts(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return hasMatchingExtension(path, w.extensions) && !w.exclude.Match(w.relative(path))
}

// changed drains the pending set and returns the files that still exist
// and differ from their last converted content, sorted.
func (w *watchState) changed() []string {
	var batch []string
	for path := range w.pending {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if snap, ok := w.snapshots[path]; ok {
			if changed, err := fsutil.Changed(w.ctx, snap); err == nil && !changed {
				continue
			}
		}
		batch = append(batch, path)
	}
	clear(w.pending)
	slices.Sort(batch)
	return batch
}

// remember snapshots paths before they are converted. A change racing the
// conversion is then seen as a difference on the next event.
func (w *watchState) remember(paths []string) {
	for _, path := range paths {
		if _, info, err := fsutil.ReadFile(w.ctx, path); err == nil {
			w.snapshots[path] = info
		}
	}
}

func (w *watchState) relative(path string) string {
	return relativeTo(w.workDir, path)
}
