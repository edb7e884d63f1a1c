package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/extrasrequire/pkg/errors"
	"github.com/matzehuels/extrasrequire/pkg/extras"
	"github.com/matzehuels/extrasrequire/pkg/observability"
	"github.com/matzehuels/extrasrequire/pkg/rst"
)

// DirectiveFunc renders one directive invocation. extras.Run is the default.
type DirectiveFunc func(ctx context.Context, b *extras.Build, inv extras.Invocation) ([]rst.Node, error)

// Runner executes documentation builds.
//
// The Runner holds no build state; every Execute call creates a fresh
// extras.Build, so serial numbers and accumulated entries never leak between
// builds.
type Runner struct {
	Directive DirectiveFunc
	Logger    *log.Logger
}

// NewRunner creates a runner that renders directives with extras.Run.
// If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Directive: extras.Run, Logger: logger}
}

// Execute runs the complete scan → resolve → write pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	hooks := observability.Build()
	hooks.OnBuildStart(ctx, opts.SrcDir)
	result = &Result{}
	defer func() {
		result.Stats.Duration = time.Since(start)
		hooks.OnBuildComplete(ctx, result.Stats.DocCount, result.Stats.NoticeCount, result.Stats.Duration, err)
	}()

	paths, err := r.Discover(ctx, opts)
	if err != nil {
		return result, fmt.Errorf("scan: %w", err)
	}

	build := extras.NewBuild(opts.Env(), opts.Logger)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		doc, warnings, err := r.processDoc(ctx, build, opts, path)
		if err != nil {
			return result, fmt.Errorf("resolve: %w", err)
		}
		result.Docs = append(result.Docs, doc)
		result.Warnings = append(result.Warnings, warnings...)
		result.Stats.BlockCount += doc.Blocks
	}

	result.Entries = build.Entries()
	result.Stats.DocCount = len(result.Docs)
	result.Stats.NoticeCount = len(result.Entries)
	result.Stats.WarningCount = len(result.Warnings)

	if !opts.NoSummary && len(result.Entries) > 0 {
		var buf bytes.Buffer
		if err := extras.RenderSummary(&buf, DefaultSummaryTitle, result.Entries); err != nil {
			return result, fmt.Errorf("summary: %w", err)
		}
		result.Summary = buf.Bytes()
		if !opts.DryRun {
			if err := writeFile(filepath.Join(opts.OutDir, opts.Summary), result.Summary); err != nil {
				return result, fmt.Errorf("summary: %w", err)
			}
		}
	}

	opts.Logger.Info("built documentation",
		"docs", result.Stats.DocCount,
		"notices", result.Stats.NoticeCount,
		"warnings", result.Stats.WarningCount,
		"duration", time.Since(start))

	return result, nil
}

// Discover returns the source documents below opts.SrcDir in sorted order.
// Hidden directories and directories starting with an underscore are skipped.
func (r *Runner) Discover(ctx context.Context, opts Options) ([]string, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	var paths []string
	err := filepath.WalkDir(opts.SrcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != opts.SrcDir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, opts.Suffix) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// processDoc expands every directive block of one document.
func (r *Runner) processDoc(ctx context.Context, build *extras.Build, opts Options, path string) (DocResult, []string, error) {
	docname, err := opts.DocName(path)
	if err != nil {
		return DocResult{}, nil, err
	}
	doc := DocResult{DocName: docname, Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, nil, fmt.Errorf("read %s: %w", docname, err)
	}
	lines := rst.SplitLines(string(data))
	blocks := rst.Scan(lines, extras.Name)
	doc.Blocks = len(blocks)

	// The document is read into its own build and merged only once it has
	// been written, replacing whatever it contributed before.
	docBuild := build.Fork()

	var warnings []string
	rendered := make([][]string, len(blocks))
	for i, b := range blocks {
		nodes, err := r.Directive(ctx, docBuild, extras.InvocationFromBlock(docname, b))
		if err != nil {
			if !opts.KeepGoing {
				return doc, nil, err
			}
			opts.Logger.Error("directive failed", "doc", docname, "line", b.LineNo, "err", err)
			warnings = append(warnings, errors.Describe(err))
			rendered[i] = unindent(lines[b.Start:b.End], b.Indent)
			continue
		}
		out, err := rst.Lines(nodes)
		if err != nil {
			return doc, nil, errors.At(docname, b.LineNo, err)
		}
		rendered[i] = out
	}
	if len(blocks) > 0 {
		opts.Logger.Debug("expanded document", "doc", docname, "blocks", len(blocks))
	}

	if !opts.DryRun {
		doc.OutPath = filepath.Join(opts.OutDir, filepath.FromSlash(docname)+opts.Suffix)
		expanded := strings.Join(rst.Splice(lines, blocks, rendered), "\n") + "\n"
		if err := writeFile(doc.OutPath, []byte(expanded)); err != nil {
			return doc, nil, err
		}
	}

	build.PurgeDoc(docname)
	build.MergeFrom(docBuild, []string{docname})
	return doc, warnings, nil
}

// unindent strips n leading spaces so that Splice can indent the lines
// back to their original position.
func unindent(lines []string, n int) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		trimmed := strings.TrimLeft(l, " ")
		if cut := len(l) - len(trimmed); cut > n {
			trimmed = l[n:]
		}
		out[i] = trimmed
	}
	return out
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// applyLogger falls back to the runner's logger when opts carries none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
