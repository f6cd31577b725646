package runner

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/yaklabco/gomdhtml/internal/logging"
	"github.com/yaklabco/gomdhtml/pkg/diff"
	"github.com/yaklabco/gomdhtml/pkg/fsutil"
	"github.com/yaklabco/gomdhtml/pkg/mdhtml"
)

// Runner converts files with a shared Engine.
type Runner struct {
	Engine *mdhtml.Engine
}

// New creates a Runner.
func New(engine *mdhtml.Engine) *Runner {
	return &Runner{Engine: engine}
}

// Run discovers files under opts.Paths and converts them concurrently.
// Outcomes are returned in path order regardless of completion order.
// A failure to convert one file is recorded in its outcome and does not
// stop the others.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	return r.Convert(ctx, files, opts)
}

// Convert converts an already discovered list of files.
func (r *Runner) Convert(ctx context.Context, files []string, opts Options) (*Result, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(files))

	logging.FromContext(ctx).Debug("converting files",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, workDir, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	workDir string,
	opts Options,
) {
	for path := range workCh {
		outcome := r.convertFile(ctx, path, workDir, opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

func (r *Runner) convertFile(ctx context.Context, path, workDir string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	src, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Source = src

	res, err := r.Engine.Convert(logging.WithLogger(ctx, logger), src)
	if err != nil {
		outcome.Error = fmt.Errorf("convert %s: %w", path, err)
		return outcome
	}
	outcome.Result = res

	if opts.NoWrite {
		return outcome
	}

	out, err := fsutil.OutputPath(path, workDir, opts.OutDir, opts.effectiveOutExtension())
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Output = out

	if opts.Check {
		existing, _, err := fsutil.ReadExisting(out)
		if err != nil {
			outcome.Error = fmt.Errorf("check %s: %w", out, err)
			return outcome
		}
		outcome.Diff = diff.Compute(out, out, existing, []byte(res.HTML), diff.DefaultContext)
		outcome.Stale = outcome.Diff != nil
		if outcome.Stale {
			logger.Debug("stale output", logging.FieldOutput, out)
		}
		return outcome
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, out, []byte(res.HTML), fsutil.DefaultFileMode)
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", out, err)
		return outcome
	}
	outcome.Written = written

	logger.Debug("converted",
		logging.FieldOutput, out,
		logging.FieldDiagnostics, res.Diagnostics.Len())
	return outcome
}

// ConvertReader converts a single document read from r. name labels the
// outcome in reports. Nothing is written; the HTML is in the outcome's
// Result.
func (r *Runner) ConvertReader(ctx context.Context, name string, src io.Reader) (*Result, error) {
	limit := r.Engine.Options().MaxInputBytes
	if limit > 0 {
		// One byte past the limit is enough for the engine to reject it.
		src = io.LimitReader(src, int64(limit)+1)
	}

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	result := &Result{Stats: newStats()}
	result.Stats.FilesDiscovered = 1

	outcome := FileOutcome{Path: name, Source: content}
	res, err := r.Engine.Convert(ctx, content)
	if err != nil {
		outcome.Error = fmt.Errorf("convert %s: %w", name, err)
	} else {
		outcome.Result = res
	}
	result.accumulate(outcome)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("convert cancelled: %w", err)
	}
	return result, nil
}
