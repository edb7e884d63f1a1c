package extras

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/extrasrequire/pkg/errors"
	"github.com/matzehuels/extrasrequire/pkg/rst"
	"github.com/matzehuels/extrasrequire/pkg/sources"
)

const flitPyproject = `[tool.flit.metadata]
author = "Joe Bloggs"
module = "FooBar"

[tool.flit.metadata.requires-extra]
test = [
    "pytest-cov",
    "pytest >=2.7.3",
]
doc = ["sphinx"]
none = []
`

// newTestBuild creates a repository holding pyproject.toml and a build
// whose log output is captured in the returned buffer.
func newTestBuild(t *testing.T) (*Build, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "pyproject.toml"), []byte(flitPyproject), 0644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	env := &sources.Env{SrcDir: filepath.Join(root, "doc-source"), PackageRoot: "foobar", Project: "FooBar"}
	return NewBuild(env, log.New(&buf)), &buf
}

func render(t *testing.T, nodes []rst.Node) string {
	t.Helper()
	var sb strings.Builder
	if err := rst.Write(&sb, nodes); err != nil {
		t.Fatal(err)
	}
	return sb.String()
}

func TestRun_Flit(t *testing.T) {
	b, _ := newTestBuild(t)
	nodes, err := Run(context.Background(), b, Invocation{
		DocName:   "api/foobar",
		LineNo:    12,
		Arguments: []string{"test"},
		Options:   []rst.Option{{Name: "flit"}},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Run returned %d nodes, want 2", len(nodes))
	}

	want := `.. _extras_require-0:

.. attention::

   This module has the following additional requirements:

   .. code-block:: text

       pytest>=2.7.3
       pytest-cov

   These can be installed as follows:

       .. code-block:: bash

           $ python -m pip install FooBar[test]
`
	if got := render(t, nodes); got != want {
		t.Errorf("rendered =\n%s\nwant\n%s", got, want)
	}

	entries := b.Entries()
	if len(entries) != 1 {
		t.Fatalf("Entries() = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.DocName != "api/foobar" || e.LineNo != 12 || e.Extra != "test" {
		t.Errorf("entry = %+v", e)
	}
	if e.Target != nodes[0] {
		t.Error("entry target is not the emitted target")
	}
	if e.ExtrasRequire == nodes[1] {
		t.Error("entry notice should be a copy")
	}
	if !reflect.DeepEqual(e.ExtrasRequire, nodes[1]) {
		t.Error("entry notice differs from emitted notice")
	}
	if !reflect.DeepEqual(e.Requirements, []string{"pytest>=2.7.3", "pytest-cov"}) {
		t.Errorf("entry requirements = %q", e.Requirements)
	}
}

func TestRun_ContentAndScope(t *testing.T) {
	b, _ := newTestBuild(t)
	nodes, err := Run(context.Background(), b, Invocation{
		DocName:   "index",
		Arguments: []string{"extra_c"},
		Options:   []rst.Option{{Name: "scope", Value: "class"}},
		Content:   []string{"faker"},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	out := render(t, nodes)
	if !strings.Contains(out, "This class has the following additional requirement:") {
		t.Errorf("singular class header missing:\n%s", out)
	}
	if !strings.Contains(out, "FooBar[extra_c]") {
		t.Errorf("install line missing:\n%s", out)
	}
}

func TestRun_TargetSerials(t *testing.T) {
	b, _ := newTestBuild(t)
	var ids []string
	for i := 0; i < 3; i++ {
		nodes, err := Run(context.Background(), b, Invocation{
			DocName:   "index",
			Arguments: []string{"doc"},
			Options:   []rst.Option{{Name: "flit"}},
		})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, nodes[0].(*rst.Target).IDs[0])
	}
	want := []string{"extras_require-0", "extras_require-1", "extras_require-2"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("target ids = %v, want %v", ids, want)
	}
}

func TestRun_EmptyWarns(t *testing.T) {
	b, logs := newTestBuild(t)
	nodes, err := Run(context.Background(), b, Invocation{
		DocName:   "index",
		Arguments: []string{"none"},
		Options:   []rst.Option{{Name: "flit"}},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Run returned %d nodes, want only the target", len(nodes))
	}
	if _, ok := nodes[0].(*rst.Target); !ok {
		t.Errorf("node = %T, want *rst.Target", nodes[0])
	}
	if !strings.Contains(logs.String(), "No requirements specified! No notice will be shown in the documentation.") {
		t.Errorf("warning not logged: %q", logs.String())
	}
	if len(b.Entries()) != 0 {
		t.Error("empty notice should not be recorded")
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		inv  Invocation
		code errors.Code
		msg  string
	}{
		{
			name: "no source",
			inv:  Invocation{Arguments: []string{"test"}},
			code: errors.ErrCodeInvalidConfig,
			msg:  "Please specify a source for the extra requirements test",
		},
		{
			name: "content and option",
			inv: Invocation{
				Arguments: []string{"test"},
				Options:   []rst.Option{{Name: "flit"}},
				Content:   []string{"pytest"},
			},
			code: errors.ErrCodeInvalidConfig,
			msg:  "Please specify only one source for the extra requirements",
		},
		{
			name: "two options",
			inv: Invocation{
				Arguments: []string{"test"},
				Options:   []rst.Option{{Name: "pyproject"}, {Name: "setup.cfg"}},
			},
			code: errors.ErrCodeInvalidConfig,
			msg:  "Please specify only one source for the extra requirements",
		},
		{
			name: "missing argument",
			inv:  Invocation{Content: []string{"pytest"}},
			code: errors.ErrCodeInvalidArgument,
		},
		{
			name: "invalid extra name",
			inv: Invocation{
				Arguments: []string{"foo-"},
				Options:   []rst.Option{{Name: "flit"}},
			},
			code: errors.ErrCodeInvalidArgument,
		},
		{
			name: "unknown option",
			inv: Invocation{
				Arguments: []string{"test"},
				Options:   []rst.Option{{Name: "poetry"}},
			},
			code: errors.ErrCodeInvalidOption,
		},
		{
			name: "flag with value",
			inv: Invocation{
				Arguments: []string{"test"},
				Options:   []rst.Option{{Name: "flit", Value: "yes"}},
			},
			code: errors.ErrCodeInvalidOption,
		},
		{
			name: "missing extra",
			inv: Invocation{
				Arguments: []string{"testing"},
				Options:   []rst.Option{{Name: "flit"}},
			},
			code: errors.ErrCodeKeyNotFound,
			msg:  "'testing' not found in '[tool.flit.metadata.requires-extra]'",
		},
		{
			name: "missing file",
			inv: Invocation{
				Arguments: []string{"test"},
				Options:   []rst.Option{{Name: "setup.cfg"}},
			},
			code: errors.ErrCodeFileNotFound,
		},
		{
			name: "invalid requirement",
			inv: Invocation{
				Arguments: []string{"test"},
				Content:   []string{"pytest", "not a requirement"},
			},
			code: errors.ErrCodeInvalidRequirement,
			msg:  "Invalid requirement 'not a requirement'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBuild(t)
			tt.inv.DocName = "index"
			_, err := Run(context.Background(), b, tt.inv)
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if tt.msg != "" && errors.UserMessage(err) != tt.msg {
				t.Errorf("message = %q, want %q", errors.UserMessage(err), tt.msg)
			}
			if !strings.HasPrefix(err.Error(), "index:0: ") {
				t.Errorf("error %q lacks location prefix", err)
			}
			if len(b.Entries()) != 0 {
				t.Error("failed directive recorded an entry")
			}
		})
	}
}

func TestGetRequirements_TableOrder(t *testing.T) {
	b, _ := newTestBuild(t)
	// An option given with an empty value is not counted as a source, but it
	// is still selected by the table scan ahead of the body.
	opts := sources.Options{"file": ""}
	_, err := GetRequirements(context.Background(), b.Env, "test", opts, []string{"pytest"})
	if !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Fatalf("error = %v, want the file resolver to run", err)
	}

	got, err := GetRequirements(context.Background(), b.Env, "test", sources.Options{"scope": "package"}, []string{"pytest-cov", "pytest"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"pytest", "pytest-cov"}) {
		t.Errorf("GetRequirements = %q", got)
	}
}

func TestBuild_PurgeAndMerge(t *testing.T) {
	a, _ := newTestBuild(t)
	for _, doc := range []string{"index", "api", "index"} {
		if _, err := Run(context.Background(), a, Invocation{
			DocName:   doc,
			Arguments: []string{"doc"},
			Options:   []rst.Option{{Name: "flit"}},
		}); err != nil {
			t.Fatal(err)
		}
	}

	a.PurgeDoc("index")
	if got := a.Entries(); len(got) != 1 || got[0].DocName != "api" {
		t.Fatalf("after PurgeDoc entries = %+v", got)
	}

	b := NewBuild(a.Env, nil)
	b.MergeFrom(a, []string{"api"})
	b.MergeFrom(a, []string{"missing"})
	if got := b.Entries(); len(got) != 1 || got[0].DocName != "api" {
		t.Errorf("after MergeFrom entries = %+v", got)
	}
}

func TestBuild_Fork(t *testing.T) {
	parent, _ := newTestBuild(t)
	inv := Invocation{DocName: "index", Arguments: []string{"doc"}, Options: []rst.Option{{Name: "flit"}}}
	if _, err := Run(context.Background(), parent, inv); err != nil {
		t.Fatal(err)
	}

	child := parent.Fork()
	inv.DocName = "api"
	nodes, err := Run(context.Background(), child, inv)
	if err != nil {
		t.Fatal(err)
	}
	if got := nodes[0].(*rst.Target).IDs[0]; got != "extras_require-1" {
		t.Errorf("forked target id = %q, want extras_require-1", got)
	}
	if n := len(parent.Entries()); n != 1 {
		t.Errorf("parent has %d entries before merge, want 1", n)
	}

	parent.MergeFrom(child, []string{"api"})
	if got := parent.Entries(); len(got) != 2 || got[1].DocName != "api" {
		t.Errorf("after merge entries = %+v", got)
	}
}
