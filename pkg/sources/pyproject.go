package sources

import (
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/extrasrequire/pkg/errors"
)

// pyproject mirrors the parts of pyproject.toml that declare extras.
type pyproject struct {
	Project struct {
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Flit struct {
			Metadata struct {
				RequiresExtra map[string][]string `toml:"requires-extra"`
			} `toml:"metadata"`
		} `toml:"flit"`
	} `toml:"tool"`
}

// FromFlit reads the extra from the [tool.flit.metadata.requires-extra]
// table of pyproject.toml in the repository root.
func FromFlit(_ string, _ Options, env *Env, extra string) ([]string, error) {
	p, err := loadPyproject(env)
	if err != nil {
		return nil, err
	}
	return lookupExtra(p.Tool.Flit.Metadata.RequiresExtra, extra, "tool.flit.metadata.requires-extra")
}

// FromPyproject reads the extra from the PEP 621 [project.optional-dependencies]
// table of pyproject.toml in the repository root.
func FromPyproject(_ string, _ Options, env *Env, extra string) ([]string, error) {
	p, err := loadPyproject(env)
	if err != nil {
		return nil, err
	}
	return lookupExtra(p.Project.OptionalDependencies, extra, "project.optional-dependencies")
}

func loadPyproject(env *Env) (*pyproject, error) {
	dir := env.RepoRoot()
	path := filepath.Join(dir, "pyproject.toml")
	if !fileExists(path) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "Cannot find pyproject.toml in '%s'", dir)
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var p pyproject
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "cannot parse %s", path)
	}
	return &p, nil
}

func lookupExtra(table map[string][]string, extra, section string) ([]string, error) {
	reqs, ok := table[extra]
	if !ok {
		return nil, errors.New(errors.ErrCodeKeyNotFound, "'%s' not found in '[%s]'", extra, section)
	}
	if reqs == nil {
		reqs = []string{}
	}
	return reqs, nil
}
