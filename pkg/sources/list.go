package sources

import (
	"path/filepath"
	"sort"

	"github.com/go-ini/ini"
)

// Extras returns the sorted names of all extras declared in setup.cfg and
// pyproject.toml (Flit and PEP 621 tables) in the repository root. Missing
// or unreadable files contribute nothing.
func Extras(env *Env) []string {
	seen := make(map[string]bool)
	if p, err := loadPyproject(env); err == nil {
		for name := range p.Tool.Flit.Metadata.RequiresExtra {
			seen[name] = true
		}
		for name := range p.Project.OptionalDependencies {
			seen[name] = true
		}
	}
	if cfg, err := ini.LoadSources(setupCfgLoadOptions, filepath.Join(env.RepoRoot(), "setup.cfg")); err == nil {
		if section, err := cfg.GetSection(setupCfgSection); err == nil {
			for _, name := range section.KeyStrings() {
				seen[name] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
