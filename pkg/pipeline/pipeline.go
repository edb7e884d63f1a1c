// Package pipeline runs the extras-require directive over a documentation tree.
//
// This package implements the scan → resolve → write pipeline shared by the
// build and list commands. By centralizing the walk here, every entry point
// expands documents and accumulates notices the same way.
//
// # Architecture
//
// A build proceeds in three stages:
//
//  1. Scan: Walk the source directory and find every extras-require block
//  2. Resolve: Run the directive for each block against one shared build
//  3. Write: Splice the rendered notices into the documents and write the
//     expanded tree plus a summary of all extras to the output directory
//
// Documents are processed one at a time in sorted path order, so target ids
// and summary order are reproducible across runs.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    SrcDir:      "doc-source",
//	    OutDir:      "build/rst",
//	    PackageRoot: "foobar",
//	    Project:     "FooBar",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Entries), "notices")
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/extrasrequire/pkg/errors"
	"github.com/matzehuels/extrasrequire/pkg/extras"
	"github.com/matzehuels/extrasrequire/pkg/sources"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSuffix is the file extension of source documents.
	DefaultSuffix = ".rst"

	// DefaultSummary is the file the summary of all extras is written to,
	// relative to the output directory.
	DefaultSummary = "extras-require-summary.rst"

	// DefaultSummaryTitle is the heading of the summary document.
	DefaultSummaryTitle = "Additional requirements"
)

// =============================================================================
// Options - Build Configuration
// =============================================================================

// Options contains all configuration for a documentation build.
type Options struct {
	SrcDir      string `json:"src_dir"`                // Documentation source directory
	OutDir      string `json:"out_dir,omitempty"`      // Where expanded documents are written
	PackageRoot string `json:"package_root,omitempty"` // Package directory relative to the parent of SrcDir
	Project     string `json:"project,omitempty"`      // Display name used in notices
	Suffix      string `json:"suffix,omitempty"`       // Source document extension
	Summary     string `json:"summary,omitempty"`      // Summary file name relative to OutDir
	NoSummary   bool   `json:"no_summary,omitempty"`   // Skip writing the summary
	DryRun      bool   `json:"dry_run,omitempty"`      // Resolve everything but write nothing
	KeepGoing   bool   `json:"keep_going,omitempty"`   // Record directive errors as warnings

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a build.
type Result struct {
	// Docs lists every processed document in build order.
	Docs []DocResult

	// Entries are the notices accumulated over the whole build.
	Entries []extras.Entry

	// Warnings collects directive errors when KeepGoing is set.
	Warnings []string

	// Summary is the rendered summary document, empty when there are no entries.
	Summary []byte

	// Stats contains timing and size information.
	Stats Stats
}

// DocResult describes one processed document.
type DocResult struct {
	DocName string // Path relative to SrcDir without suffix, slash separated
	Path    string // Source file
	OutPath string // Written file; empty on dry runs
	Blocks  int    // Number of directive blocks found
}

// Stats contains build statistics.
type Stats struct {
	DocCount     int
	BlockCount   int
	NoticeCount  int
	WarningCount int
	Duration     time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.SrcDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "source directory is required")
	}
	src, err := filepath.Abs(o.SrcDir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid source directory %q", o.SrcDir)
	}
	o.SrcDir = src

	if o.OutDir == "" && !o.DryRun {
		return errors.New(errors.ErrCodeInvalidConfig, "output directory is required")
	}
	if o.OutDir != "" {
		out, err := filepath.Abs(o.OutDir)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid output directory %q", o.OutDir)
		}
		if within(src, out) {
			return errors.New(errors.ErrCodeInvalidConfig,
				"output directory %q must not be inside the source directory", o.OutDir)
		}
		o.OutDir = out
	}

	if o.PackageRoot != "" {
		if err := errors.ValidatePath(o.PackageRoot); err != nil {
			return err
		}
	}
	if o.Project == "" {
		o.Project = filepath.Base(filepath.Dir(src))
	}
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	if !strings.HasPrefix(o.Suffix, ".") {
		o.Suffix = "." + o.Suffix
	}
	if o.Summary == "" {
		o.Summary = DefaultSummary
	}
	if err := errors.ValidatePath(o.Summary); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Env returns the source environment the directive resolves against.
func (o *Options) Env() *sources.Env {
	return &sources.Env{
		SrcDir:      o.SrcDir,
		PackageRoot: o.PackageRoot,
		Project:     o.Project,
	}
}

// DocName converts a source path to its document name.
func (o *Options) DocName(path string) (string, error) {
	rel, err := filepath.Rel(o.SrcDir, path)
	if err != nil {
		return "", fmt.Errorf("document %q: %w", path, err)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, o.Suffix)), nil
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
