package sources

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/extrasrequire/pkg/errors"
)

func TestTableOrder(t *testing.T) {
	want := []string{"file", "setup.cfg", "flit", "pyproject"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	for _, name := range want {
		s, ok := Lookup(name)
		if !ok || s.Option != name || s.Resolve == nil || s.Validate == nil {
			t.Errorf("Lookup(%q) = %+v, %v", name, s, ok)
		}
	}
	if _, ok := Lookup("scope"); ok {
		t.Error("Lookup(scope) should not find a source")
	}
}

func TestValidators(t *testing.T) {
	if v, err := Flag(""); err != nil || v != "true" {
		t.Errorf("Flag(\"\") = %q, %v", v, err)
	}
	if _, err := Flag("yes"); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("Flag(yes) error = %v", err)
	}
	if v, err := Path(" requirements.txt "); err != nil || v != "requirements.txt" {
		t.Errorf("Path = %q, %v", v, err)
	}
	if _, err := Path(""); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Path(\"\") error = %v", err)
	}
	if v, _ := Unchanged("package"); v != "package" {
		t.Errorf("Unchanged = %q", v)
	}
}

func TestEnvPaths(t *testing.T) {
	env := &Env{SrcDir: filepath.Join("repo", "doc-source") + string(filepath.Separator), PackageRoot: "foobar"}
	if got := env.RepoRoot(); got != "repo" {
		t.Errorf("RepoRoot() = %q, want repo", got)
	}
	if got, want := env.PackageDir(), filepath.Join("repo", "foobar"); got != want {
		t.Errorf("PackageDir() = %q, want %q", got, want)
	}
}

func TestOptions(t *testing.T) {
	opts := Options{"flit": "true", "file": ""}
	if !opts.Has("file") || opts.Truthy("file") {
		t.Error("empty option should be present but not truthy")
	}
	if !opts.Truthy("flit") {
		t.Error("flag option should be truthy")
	}
	if opts.Has("pyproject") {
		t.Error("absent option reported present")
	}
}

func TestExtras(t *testing.T) {
	setupCfg := "[options.extras_require]\ntest =\n    pytest >=2.7.3\n    pytest-cov\nwin = pywin32\n"
	pyproject := `[project.optional-dependencies]
docs = ["sphinx>=3.0"]
test = ["pytest"]

[tool.flit.metadata.requires-extra]
all = []
`
	env := newRepo(t, map[string]string{"setup.cfg": setupCfg, "pyproject.toml": pyproject})

	want := []string{"all", "docs", "test", "win"}
	if got := Extras(env); !reflect.DeepEqual(got, want) {
		t.Errorf("Extras() = %v, want %v", got, want)
	}

	empty := &Env{SrcDir: filepath.Join(t.TempDir(), "docs")}
	if got := Extras(empty); len(got) != 0 {
		t.Errorf("Extras() without metadata = %v, want none", got)
	}
}
