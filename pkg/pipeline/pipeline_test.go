package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/extrasrequire/pkg/observability"
)

const pyprojectFixture = `[tool.flit.metadata]
module = "foobar"

[tool.flit.metadata.requires-extra]
test = ["pytest >=2.7.3", "pytest-cov"]
empty = []
`

const indexDoc = `FooBar
======

.. extras-require:: test
    :flit:

Text after.
`

const apiDoc = `API
===

.. automodule:: foobar

  .. extras-require:: docs

      sphinx>=3.0
`

// newTree writes a repository with a documentation source directory and
// returns the options for building it.
func newTree(t *testing.T, docs map[string]string) Options {
	t.Helper()
	root := t.TempDir()
	write(t, filepath.Join(root, "pyproject.toml"), pyprojectFixture)
	for name, body := range docs {
		write(t, filepath.Join(root, "doc-source", filepath.FromSlash(name)), body)
	}
	return Options{
		SrcDir:      filepath.Join(root, "doc-source"),
		OutDir:      filepath.Join(root, "build"),
		PackageRoot: "foobar",
		Project:     "FooBar",
	}
}

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestExecute(t *testing.T) {
	opts := newTree(t, map[string]string{
		"index.rst":      indexDoc,
		"api/foobar.rst": apiDoc,
		"notes.txt":      ".. extras-require:: ignored\n",
		"_static/x.rst":  ".. extras-require:: ignored\n",
	})

	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if len(result.Docs) != 2 {
		t.Fatalf("Docs = %d, want 2", len(result.Docs))
	}
	if result.Docs[0].DocName != "api/foobar" || result.Docs[1].DocName != "index" {
		t.Errorf("doc order = %s, %s", result.Docs[0].DocName, result.Docs[1].DocName)
	}
	if result.Stats.NoticeCount != 2 || result.Stats.BlockCount != 2 {
		t.Errorf("Stats = %+v", result.Stats)
	}

	// Documents are processed in sorted order, so api/foobar takes serial 0.
	api := read(t, filepath.Join(opts.OutDir, "api", "foobar.rst"))
	for _, want := range []string{
		".. automodule:: foobar\n\n  .. _extras_require-0:\n\n  .. attention::\n",
		"     This module has the following additional requirement:\n",
		"         sphinx>=3.0\n",
		"             $ python -m pip install FooBar[docs]\n",
	} {
		if !strings.Contains(api, want) {
			t.Errorf("api/foobar.rst missing %q:\n%s", want, api)
		}
	}

	index := read(t, filepath.Join(opts.OutDir, "index.rst"))
	if !strings.HasPrefix(index, "FooBar\n======\n\n.. _extras_require-1:\n") {
		t.Errorf("index.rst header:\n%s", index)
	}
	if !strings.Contains(index, "       pytest-cov\n") || !strings.HasSuffix(index, "\nText after.\n") {
		t.Errorf("index.rst body:\n%s", index)
	}

	summary := read(t, filepath.Join(opts.OutDir, DefaultSummary))
	if summary != string(result.Summary) {
		t.Error("written summary differs from Result.Summary")
	}
	if strings.Index(summary, "api/foobar\n---") > strings.Index(summary, "index\n---") {
		t.Errorf("summary not ordered by document:\n%s", summary)
	}

	if _, err := os.Stat(filepath.Join(opts.OutDir, "notes.txt")); !os.IsNotExist(err) {
		t.Error("non-document file was copied")
	}
	if _, err := os.Stat(filepath.Join(opts.OutDir, "_static")); !os.IsNotExist(err) {
		t.Error("underscore directory was processed")
	}
}

func TestExecute_DryRun(t *testing.T) {
	opts := newTree(t, map[string]string{"index.rst": indexDoc})
	opts.DryRun = true
	opts.OutDir = ""

	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(result.Entries) != 1 || len(result.Summary) == 0 {
		t.Errorf("Entries = %d, Summary = %d bytes", len(result.Entries), len(result.Summary))
	}
	if result.Docs[0].OutPath != "" {
		t.Errorf("OutPath = %q, want empty", result.Docs[0].OutPath)
	}
}

func TestExecute_EmptyExtraSkipsSummary(t *testing.T) {
	opts := newTree(t, map[string]string{"index.rst": ".. extras-require:: empty\n    :flit:\n"})

	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(result.Entries) != 0 || result.Summary != nil {
		t.Errorf("Entries = %d, Summary = %q", len(result.Entries), result.Summary)
	}
	if got := read(t, filepath.Join(opts.OutDir, "index.rst")); got != ".. _extras_require-0:\n" {
		t.Errorf("index.rst = %q", got)
	}
	if _, err := os.Stat(filepath.Join(opts.OutDir, DefaultSummary)); !os.IsNotExist(err) {
		t.Error("summary written without entries")
	}
}

func TestExecute_DirectiveError(t *testing.T) {
	bad := ".. extras-require:: missing\n    :flit:\n"
	opts := newTree(t, map[string]string{"index.rst": bad})

	_, err := NewRunner(nil).Execute(context.Background(), opts)
	if err == nil {
		t.Fatal("Execute succeeded, want error")
	}
	if !strings.Contains(err.Error(), "index:1:") {
		t.Errorf("error %q lacks location", err)
	}

	opts.KeepGoing = true
	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute with KeepGoing error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v", result.Warnings)
	}
	if got := read(t, filepath.Join(opts.OutDir, "index.rst")); got != bad {
		t.Errorf("failed block was not kept:\n%s", got)
	}
}

func TestExecute_UsageExamplesKept(t *testing.T) {
	usage := `Usage
=====

.. code-block:: rst

    .. extras-require:: missing
        :flit:

.. extras-require:: test
    :flit:
`
	opts := newTree(t, map[string]string{"usage.rst": usage})

	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Stats.BlockCount != 1 || len(result.Entries) != 1 || result.Entries[0].LineNo != 9 {
		t.Fatalf("Stats = %+v, Entries = %+v", result.Stats, result.Entries)
	}

	got := read(t, filepath.Join(opts.OutDir, "usage.rst"))
	if !strings.HasPrefix(got, usage[:strings.Index(usage, "\n.. extras-require:: test")]) {
		t.Errorf("code-block example was rewritten:\n%s", got)
	}
	if !strings.Contains(got, ".. _extras_require-0:\n") {
		t.Errorf("directive not expanded:\n%s", got)
	}
}

func TestExecute_Canceled(t *testing.T) {
	opts := newTree(t, map[string]string{"index.rst": indexDoc})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Execute(ctx, opts)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute error = %v, want context.Canceled", err)
	}
}

type recordingBuildHooks struct {
	started  string
	docs     int
	notices  int
	finished bool
}

func (h *recordingBuildHooks) OnBuildStart(_ context.Context, srcDir string) { h.started = srcDir }

func (h *recordingBuildHooks) OnBuildComplete(_ context.Context, docs, notices int, _ time.Duration, _ error) {
	h.docs, h.notices, h.finished = docs, notices, true
}

func TestExecute_Hooks(t *testing.T) {
	hooks := &recordingBuildHooks{}
	observability.SetBuildHooks(hooks)
	t.Cleanup(observability.Reset)

	opts := newTree(t, map[string]string{"index.rst": indexDoc, "other.rst": "Nothing here.\n"})
	if _, err := NewRunner(nil).Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if hooks.started != opts.SrcDir || !hooks.finished || hooks.docs != 2 || hooks.notices != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "doc-source")

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"missing src", Options{OutDir: "out"}, true},
		{"missing out", Options{SrcDir: src}, true},
		{"dry run without out", Options{SrcDir: src, DryRun: true}, false},
		{"out inside src", Options{SrcDir: src, OutDir: filepath.Join(src, "_build")}, true},
		{"out equals src", Options{SrcDir: src, OutDir: src}, true},
		{"sibling out", Options{SrcDir: src, OutDir: filepath.Join(root, "doc-sourcex")}, false},
		{"escaping package root", Options{SrcDir: src, DryRun: true, PackageRoot: "../elsewhere"}, true},
		{"absolute summary", Options{SrcDir: src, DryRun: true, Summary: "/tmp/summary.rst"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAndSetDefaults_Defaults(t *testing.T) {
	root := t.TempDir()
	opts := Options{SrcDir: filepath.Join(root, "doc-source"), DryRun: true, Suffix: "txt"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Suffix != ".txt" {
		t.Errorf("Suffix = %q, want .txt", opts.Suffix)
	}
	if opts.Summary != DefaultSummary {
		t.Errorf("Summary = %q", opts.Summary)
	}
	if opts.Project != filepath.Base(root) {
		t.Errorf("Project = %q, want %q", opts.Project, filepath.Base(root))
	}
	if opts.Logger == nil {
		t.Error("Logger not set")
	}

	name, err := opts.DocName(filepath.Join(opts.SrcDir, "api", "foo.txt"))
	if err != nil || name != "api/foo" {
		t.Errorf("DocName = %q, %v", name, err)
	}
}
