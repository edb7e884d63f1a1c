package sources

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/extrasrequire/pkg/errors"
)

// Env describes the documentation build a resolver runs in.
type Env struct {
	SrcDir      string // Documentation source directory (e.g. "repo/doc-source")
	PackageRoot string // Package directory relative to the parent of SrcDir
	Project     string // Distribution name shown in the install command
}

// RepoRoot returns the parent of the documentation source directory, where
// project-level metadata such as pyproject.toml and setup.cfg live.
func (e *Env) RepoRoot() string {
	return filepath.Dir(filepath.Clean(e.SrcDir))
}

// PackageDir returns the package root resolved against RepoRoot.
func (e *Env) PackageDir() string {
	return filepath.Join(e.RepoRoot(), e.PackageRoot)
}

// Options holds validated directive options keyed by option name.
type Options map[string]string

// Has reports whether the option was given.
func (o Options) Has(name string) bool {
	_, ok := o[name]
	return ok
}

// Truthy reports whether the option was given with a non-empty value.
// Flag options are stored as "true" once validated.
func (o Options) Truthy(name string) bool {
	return o[name] != ""
}

// Resolver returns the raw requirement strings for extra.
type Resolver func(packageRoot string, opts Options, env *Env, extra string) ([]string, error)

// Validator checks and normalizes the raw value of a directive option.
type Validator func(value string) (string, error)

// Source binds a directive option to the resolver it selects.
type Source struct {
	Option   string
	Resolve  Resolver
	Validate Validator
}

// Table lists the named sources in the order the directive scans them.
var Table = []Source{
	{Option: "file", Resolve: FromFile, Validate: Path},
	{Option: "setup.cfg", Resolve: FromSetupCfg, Validate: Flag},
	{Option: "flit", Resolve: FromFlit, Validate: Flag},
	{Option: "pyproject", Resolve: FromPyproject, Validate: Flag},
}

// Lookup returns the source registered for option.
func Lookup(option string) (Source, bool) {
	for _, s := range Table {
		if s.Option == option {
			return s, true
		}
	}
	return Source{}, false
}

// Names returns the option names of all sources in table order.
func Names() []string {
	names := make([]string, len(Table))
	for i, s := range Table {
		names[i] = s.Option
	}
	return names
}

// Flag accepts an option given without an argument.
func Flag(value string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return "", errors.New(errors.ErrCodeInvalidOption, "no argument is allowed; %q supplied", value)
	}
	return "true", nil
}

// Unchanged accepts any value, including an empty one.
func Unchanged(value string) (string, error) {
	return value, nil
}

// Path accepts a relative file path.
func Path(value string) (string, error) {
	value = strings.TrimSpace(value)
	if err := errors.ValidatePath(value); err != nil {
		return "", err
	}
	return value, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "cannot read %s", path)
	}
	return data, nil
}
