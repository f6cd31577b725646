// Package mdhtml converts lightweight markup to HTML.
//
// A conversion runs four stages over one input buffer: the scanner splits
// lines, the block parser builds the document tree and collects reference
// definitions, the inline parser expands paragraph and heading text, and
// the renderer serializes the tree. Block parsing completes, and the
// reference table is frozen, before any inline parsing starts.
//
// Convert is total: malformed input never fails, it produces diagnostics.
// Engine adds an input size limit, cancellation between stages and debug
// logging, and reports those conditions as errors.
package mdhtml

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/yaklabco/gomdhtml/internal/logging"
	"github.com/yaklabco/gomdhtml/pkg/block"
	"github.com/yaklabco/gomdhtml/pkg/diag"
	"github.com/yaklabco/gomdhtml/pkg/inline"
	"github.com/yaklabco/gomdhtml/pkg/mdast"
	"github.com/yaklabco/gomdhtml/pkg/refs"
	"github.com/yaklabco/gomdhtml/pkg/render"
	"github.com/yaklabco/gomdhtml/pkg/scanner"
)

// DefaultMaxInputBytes is the input size limit of an Engine created
// without WithMaxInputBytes.
const DefaultMaxInputBytes = 64 << 20

// ErrInputTooLarge is returned by Engine.Convert when the input exceeds the
// engine's size limit.
var ErrInputTooLarge = errors.New("input too large")

// Convert converts src to an HTML fragment. It never fails; anomalies in
// the input are reported in the returned diagnostics, sorted by offset
// with line and column filled in.
func Convert(src []byte) (string, *diag.List) {
	res := convert(context.Background(), src, render.Options{})
	return res.HTML, res.Diagnostics
}

// ConvertString is Convert for string input.
func ConvertString(src string) (string, *diag.List) {
	return Convert([]byte(src))
}

// Stats describes one conversion.
type Stats struct {
	Bytes       int
	Lines       int
	Nodes       int
	Definitions int

	Parse  time.Duration
	Inline time.Duration
	Render time.Duration
}

// Total returns the time spent in all stages.
func (s Stats) Total() time.Duration {
	return s.Parse + s.Inline + s.Render
}

// Result is the output of Engine.Convert.
type Result struct {
	HTML        string
	Diagnostics *diag.List

	// Meta holds the author and copyright given in metadata blocks.
	Meta mdast.Metadata

	Stats Stats
}

// Options configures an Engine.
type Options struct {
	Render render.Options

	// MaxInputBytes bounds the input size. Zero or less disables the check.
	MaxInputBytes int
}

// Option modifies Options.
type Option func(*Options)

// WithRenderOptions sets the renderer options.
func WithRenderOptions(opts render.Options) Option {
	return func(o *Options) {
		o.Render = opts
	}
}

// WithMaxInputBytes sets the input size limit. Zero or less disables it.
func WithMaxInputBytes(n int) Option {
	return func(o *Options) {
		o.MaxInputBytes = n
	}
}

// Engine converts documents with fixed options. It holds no per-document
// state and may be used from multiple goroutines.
type Engine struct {
	opts Options
}

// NewEngine creates an engine. Without options it renders plain fragments
// and enforces DefaultMaxInputBytes.
func NewEngine(opts ...Option) *Engine {
	options := Options{MaxInputBytes: DefaultMaxInputBytes}
	for _, opt := range opts {
		opt(&options)
	}
	return &Engine{opts: options}
}

// Options returns the engine's configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Convert converts src. It fails only when src exceeds the size limit or
// ctx is done before the conversion completes.
func (e *Engine) Convert(ctx context.Context, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit := e.opts.MaxInputBytes; limit > 0 && len(src) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(src), limit)
	}

	res := convert(ctx, src, e.opts.Render)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// convert runs the pipeline. Once ctx is done the remaining stages are
// skipped; the caller discards the partial result.
func convert(ctx context.Context, src []byte, opts render.Options) *Result {
	logger := logging.FromContext(ctx)
	diags := diag.NewList()
	res := &Result{Diagnostics: diags}
	res.Stats.Bytes = len(src)

	start := time.Now()
	lines := scanner.Scan(src, diags)
	table := refs.NewTable()
	tree := block.Parse(slices.Values(lines), table, diags)
	table.Freeze()
	res.Stats.Parse = time.Since(start)
	res.Stats.Lines = len(lines)
	res.Stats.Definitions = table.Len()
	res.Meta = tree.Meta

	logger.Debug("parsed blocks",
		logging.FieldDuration, res.Stats.Parse,
		logging.FieldLines, res.Stats.Lines,
		logging.FieldDefinitions, res.Stats.Definitions)
	if ctx.Err() != nil {
		return res
	}

	start = time.Now()
	inline.ParseAll(tree, table, diags)
	res.Stats.Inline = time.Since(start)
	res.Stats.Nodes = tree.Len()

	logger.Debug("parsed inlines",
		logging.FieldDuration, res.Stats.Inline,
		logging.FieldNodes, res.Stats.Nodes)
	if ctx.Err() != nil {
		return res
	}

	start = time.Now()
	res.HTML = render.RenderString(tree, opts)
	res.Stats.Render = time.Since(start)

	diags.Sort()
	diags.Resolve(mdast.NewLineIndex(src))

	logger.Debug("rendered html",
		logging.FieldDuration, res.Stats.Render,
		logging.FieldBytes, len(res.HTML),
		logging.FieldDiagnostics, diags.Len())

	return res
}
