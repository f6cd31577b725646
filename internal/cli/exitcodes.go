package cli

import (
	"errors"
	"fmt"

	"github.com/yaklabco/gomdhtml/pkg/config"
	"github.com/yaklabco/gomdhtml/pkg/runner"
)

// Exit codes for gomdhtml.
const (
	// ExitSuccess indicates every file converted below the fail_on threshold.
	ExitSuccess = 0

	// ExitDiagnostics indicates a diagnostic at or above fail_on, or a
	// stale output in check mode.
	ExitDiagnostics = 1

	// ExitUsage indicates invalid command-line usage or configuration.
	ExitUsage = 2

	// ExitInternal indicates a file could not be read, converted or written.
	ExitInternal = 3
)

// Errors that signal ExitDiagnostics. They are not printed; the report
// already explains them.
var (
	ErrDiagnosticsFound = errors.New("diagnostics at or above the fail_on severity")
	ErrStaleOutput      = errors.New("outputs are out of date")
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

func internalError(format string, args ...any) error {
	return &ExitError{Code: ExitInternal, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by the root command to an exit code.
// Errors raised by cobra itself, such as unknown commands or bad
// arguments, are usage errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

// ExitCodeFromResult determines the exit code of a finished run. File
// failures take precedence over stale outputs and diagnostics.
func ExitCodeFromResult(result *runner.Result, cfg *config.Config) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasErrors() {
		return ExitInternal
	}
	if result.HasStale() {
		return ExitDiagnostics
	}
	if sev, ok := cfg.FailOnSeverity(); ok && result.HasAtLeast(sev) {
		return ExitDiagnostics
	}
	return ExitSuccess
}

// resultError converts the exit code of result into the error returned
// from a command.
func resultError(result *runner.Result, cfg *config.Config) error {
	switch ExitCodeFromResult(result, cfg) {
	case ExitInternal:
		return &ExitError{Code: ExitInternal, Err: fmt.Errorf("%d file(s) failed to convert", result.Stats.FilesErrored)}
	case ExitDiagnostics:
		if result.HasStale() {
			return &ExitError{Code: ExitDiagnostics, Err: ErrStaleOutput}
		}
		return &ExitError{Code: ExitDiagnostics, Err: ErrDiagnosticsFound}
	default:
		return nil
	}
}
