package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomdhtml/internal/configloader"
	"github.com/yaklabco/gomdhtml/internal/logging"
	"github.com/yaklabco/gomdhtml/pkg/config"
	"github.com/yaklabco/gomdhtml/pkg/mdhtml"
	"github.com/yaklabco/gomdhtml/pkg/reporter"
	"github.com/yaklabco/gomdhtml/pkg/runner"
)

// stdinName labels standard input in diagnostics.
const stdinName = "<stdin>"

type convertFlags struct {
	outDir         string
	extension      string
	format         string
	failOn         string
	highlightStyle string
	ignore         []string
	jobs           int
	maxInputBytes  int

	standalone     bool
	headingIDs     bool
	highlight      bool
	detectLanguage bool

	stdout         bool
	check          bool
	diff           bool
	watch          bool
	followSymlinks bool
	noContext      bool
	compact        bool
	verbose        bool
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert markup files to HTML",
		Long:  convertLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	addConvertFlags(cmd, flags)

	return cmd
}

const convertLongDescription = `Convert markup files to HTML.

Each .md or .markdown file is written as an .html file next to its source,
or below --out-dir with the same relative path. Directories are searched
recursively. Files whose HTML did not change are not rewritten.

Without paths, standard input is converted to standard output when it is
not a terminal; otherwise the current directory is converted.

Examples:
  gomdhtml convert                       # Convert the current directory
  gomdhtml convert docs/ -o site/        # Write site/docs/**/*.html
  gomdhtml convert README.md --stdout    # Print the HTML
  cat notes.md | gomdhtml convert        # Filter standard input
  gomdhtml convert --watch docs/         # Re-convert on change
  gomdhtml convert --check docs/         # Fail if any HTML is out of date
  gomdhtml convert --format json         # Diagnostics as JSON for CI`

func addConvertFlags(cmd *cobra.Command, flags *convertFlags) {
	f := cmd.Flags()
	f.StringVarP(&flags.outDir, "out-dir", "o", "", "directory for converted files (default: next to each source)")
	f.StringVar(&flags.extension, "ext", "", "extension of converted files (default: .html)")
	f.StringVar(&flags.format, "format", "", "diagnostics format: text or json")
	f.StringVar(&flags.failOn, "fail-on", "", "exit 1 on diagnostics at or above: error, warning, info, none")
	f.StringVar(&flags.highlightStyle, "highlight-style", "", "color scheme for highlighted code (see 'gomdhtml styles')")
	f.StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns of files to skip")
	f.IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	f.IntVar(&flags.maxInputBytes, "max-input-bytes", 0, "reject inputs larger than this many bytes")

	f.BoolVar(&flags.standalone, "standalone", true, "wrap output in a complete HTML document")
	f.BoolVar(&flags.headingIDs, "heading-ids", false, "add id attributes to headings")
	f.BoolVar(&flags.highlight, "highlight", false, "color fenced code blocks")
	f.BoolVar(&flags.detectLanguage, "detect-language", false, "guess the language of unlabeled code blocks")

	f.BoolVar(&flags.stdout, "stdout", false, "write HTML to standard output instead of files")
	f.BoolVar(&flags.check, "check", false, "report outputs that are missing or out of date instead of writing them")
	f.BoolVar(&flags.diff, "diff", false, "like --check, and print a diff for every stale output")
	f.BoolVarP(&flags.watch, "watch", "w", false, "re-convert files when they change")
	f.BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	f.BoolVar(&flags.noContext, "no-context", false, "hide source lines under diagnostics")
	f.BoolVar(&flags.compact, "compact", false, "print JSON diagnostics on one line")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "print a detailed summary")
}

// cliConfig builds the highest-precedence configuration layer from the
// flags the user actually set.
func cliConfig(cmd *cobra.Command, flags *convertFlags) *config.Config {
	changed := cmd.Flags().Changed
	cfg := &config.Config{
		OutDir:        flags.outDir,
		Extension:     flags.extension,
		Format:        config.OutputFormat(flags.format),
		FailOn:        flags.failOn,
		Jobs:          flags.jobs,
		MaxInputBytes: flags.maxInputBytes,
		Stdout:        flags.stdout,
		Watch:         flags.watch,
	}
	cfg.Render.HighlightStyle = flags.highlightStyle

	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("standalone") {
		cfg.Render.Standalone = config.Bool(flags.standalone)
	}
	if changed("heading-ids") {
		cfg.Render.HeadingIDs = config.Bool(flags.headingIDs)
	}
	if changed("highlight") {
		cfg.Render.Highlight = config.Bool(flags.highlight)
	}
	if changed("detect-language") {
		cfg.Render.DetectLanguage = config.Bool(flags.detectLanguage)
	}

	if color, err := cmd.Flags().GetString("color"); err == nil && color == "never" {
		cfg.NoColor = true
	}

	return cfg
}

func runConvert(cmd *cobra.Command, args []string, flags *convertFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	workDir, err := os.Getwd()
	if err != nil {
		return internalError("get working directory: %w", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return internalError("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliConfig(cmd, flags),
	})
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("load configuration: %w", err)}
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	conv := runner.New(mdhtml.NewEngine(cfg.EngineOptions()...))

	readStdin := len(args) == 0 && !isTerminal(cmd.InOrStdin())
	htmlToStdout := readStdin || cfg.Stdout

	report, err := newReporter(cmd, cfg, flags, workDir, htmlToStdout)
	if err != nil {
		return err
	}

	check := flags.check || flags.diff
	if check && (readStdin || cfg.Stdout || cfg.Watch) {
		return usageError("--check cannot be combined with --stdout, --watch or standard input")
	}

	if readStdin {
		if cfg.Watch {
			return usageError("--watch needs file or directory paths")
		}
		return convertStdin(ctx, cmd, conv, cfg, report)
	}

	opts := runner.OptionsFromConfig(cfg, args)
	opts.WorkingDir = workDir
	opts.FollowSymlinks = flags.followSymlinks
	opts.NoWrite = cfg.Stdout
	opts.Check = check

	if cfg.Watch {
		return watch(ctx, cmd, conv, opts, report)
	}

	logger.Debug("starting conversion",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, workDir,
		logging.FieldJobs, opts.Jobs)

	result, err := conv.Run(ctx, opts)
	if err != nil {
		if errors.Is(err, runner.ErrNoFiles) || errors.Is(err, os.ErrNotExist) {
			return &ExitError{Code: ExitUsage, Err: err}
		}
		return internalError("convert: %w", err)
	}

	if cfg.Stdout {
		if err := writeHTML(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	}

	if _, err := report.Report(ctx, result); err != nil {
		return internalError("report results: %w", err)
	}

	logger.Debug("conversion finished",
		logging.FieldFilesConverted, result.Stats.FilesConverted,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal)

	return resultError(result, cfg)
}

// newReporter writes diagnostics to stdout unless stdout carries HTML.
func newReporter(cmd *cobra.Command, cfg *config.Config, flags *convertFlags, workDir string, htmlToStdout bool) (reporter.Reporter, error) {
	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, usageError("invalid format: %w", err)
	}

	color, err := cmd.Flags().GetString("color")
	if err != nil || cfg.NoColor {
		color = "never"
	}

	writer := cmd.OutOrStdout()
	if htmlToStdout {
		writer = cmd.ErrOrStderr()
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      writer,
		Format:      format,
		Color:       color,
		ShowContext: !flags.noContext,
		ShowSummary: !htmlToStdout || flags.verbose,
		ShowDiff:    flags.diff,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return nil, usageError("create reporter: %w", err)
	}
	return rep, nil
}

func convertStdin(ctx context.Context, cmd *cobra.Command, conv *runner.Runner, cfg *config.Config, report reporter.Reporter) error {
	result, err := conv.ConvertReader(ctx, stdinName, cmd.InOrStdin())
	if err != nil {
		return internalError("convert standard input: %w", err)
	}

	if err := writeHTML(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if _, err := report.Report(ctx, result); err != nil {
		return internalError("report results: %w", err)
	}
	return resultError(result, cfg)
}

// writeHTML prints the HTML of every converted file in result order.
func writeHTML(w io.Writer, result *runner.Result) error {
	for _, file := range result.Files {
		if file.Result == nil {
			continue
		}
		if _, err := io.WriteString(w, file.Result.HTML); err != nil {
			return internalError("write html: %w", err)
		}
	}
	return nil
}

func watch(ctx context.Context, cmd *cobra.Command, conv *runner.Runner, opts runner.Options, report reporter.Reporter) error {
	logger := logging.FromContext(ctx)

	err := conv.Watch(ctx, opts, runner.DefaultDebounce, func(result *runner.Result) {
		if opts.NoWrite {
			if err := writeHTML(cmd.OutOrStdout(), result); err != nil {
				logger.Error("write failed", logging.FieldError, err)
			}
		}
		if _, err := report.Report(ctx, result); err != nil {
			logger.Error("report failed", logging.FieldError, err)
		}
	})
	if err != nil {
		return internalError("watch: %w", err)
	}
	return nil
}

// isTerminal reports whether r is a terminal. Readers other than files,
// such as test input, are never terminals.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
