package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// extraNameRegex matches valid extra names (PEP 685 allows the same
// characters as a distribution name).
var extraNameRegex = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// ValidateExtraName validates the name of an optional dependency group.
func ValidateExtraName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidArgument, "extra name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidArgument, "extra name too long (max 256 characters)")
	}

	if !extraNameRegex.MatchString(name) {
		return New(ErrCodeInvalidArgument, "invalid extra name: %q", name)
	}

	return nil
}

// ValidatePath validates a file path given in a directive option.
// Paths are resolved against the package root, so they must be relative
// and must not escape it.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths
//   - No parent directory components after cleaning
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative to the package root: %q", path)
	}

	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return New(ErrCodeInvalidPath, "path escapes the package root: %q", path)
	}

	return nil
}
