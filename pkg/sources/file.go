package sources

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/matzehuels/extrasrequire/pkg/errors"
)

// FromFile reads the requirements file named by the "file" option, relative
// to packageRoot. The extra name is not used for lookup.
func FromFile(packageRoot string, opts Options, _ *Env, _ string) ([]string, error) {
	name := opts["file"]
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidOption, "the 'file' option requires a path")
	}
	path := filepath.Join(packageRoot, name)
	if !fileExists(path) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "Cannot find requirements file '%s'", path)
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseRequirementsFile(data)
}

// parseRequirementsFile returns the specifier lines of a requirements file.
// Comments, blank lines and pip option lines (-r, --index-url, ...) are skipped.
func parseRequirementsFile(data []byte) ([]string, error) {
	var result []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		result = append(result, line)
	}
	return result, scanner.Err()
}
