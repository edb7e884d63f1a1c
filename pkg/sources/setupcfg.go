package sources

import (
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"

	"github.com/matzehuels/extrasrequire/pkg/errors"
)

const setupCfgSection = "options.extras_require"

// setupCfgLoadOptions reads setup.cfg the way Python's configparser does:
// indented lines continue the previous value.
var setupCfgLoadOptions = ini.LoadOptions{
	AllowPythonMultilineValues: true,
	IgnoreInlineComment:        true,
	SkipUnrecognizableLines:    true,
}

// FromSetupCfg reads the extra from the [options.extras_require] section of
// setup.cfg in the repository root. Values may span several indented lines.
func FromSetupCfg(_ string, _ Options, env *Env, extra string) ([]string, error) {
	dir := env.RepoRoot()
	path := filepath.Join(dir, "setup.cfg")
	if !fileExists(path) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "Cannot find setup.cfg in '%s'", dir)
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := ini.LoadSources(setupCfgLoadOptions, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "cannot parse %s", path)
	}

	if !cfg.HasSection(setupCfgSection) {
		return nil, errors.New(errors.ErrCodeKeyNotFound, "'%s' section not found in 'setup.cfg'", setupCfgSection)
	}
	section := cfg.Section(setupCfgSection)
	if !section.HasKey(extra) {
		return nil, errors.New(errors.ErrCodeKeyNotFound, "'%s' not found in '[%s]'", extra, setupCfgSection)
	}

	var result []string
	for _, line := range strings.Split(section.Key(extra).Value(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result, nil
}
