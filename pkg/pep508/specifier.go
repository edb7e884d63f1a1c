package pep508

import (
	"errors"
	"regexp"
	"strings"
)

// operators ordered so that longer operators match first.
var operators = []string{"===", "~=", "==", "!=", "<=", ">=", "<", ">"}

// versionRegex is the PEP 440 version scheme, including local versions.
var versionRegex = regexp.MustCompile(`(?i)^v?` +
	`(?:[0-9]+!)?` +
	`[0-9]+(?:\.[0-9]+)*` +
	`(?:[-_.]?(?:alpha|a|beta|b|preview|pre|c|rc)[-_.]?[0-9]*)?` +
	`(?:-[0-9]+|[-_.]?(?:post|rev|r)[-_.]?[0-9]*)?` +
	`(?:[-_.]?dev[-_.]?[0-9]*)?` +
	`(?:\+[a-z0-9]+(?:[-_.][a-z0-9]+)*)?$`)

// prefixRegex matches the release part accepted before a ".*" wildcard.
var prefixRegex = regexp.MustCompile(`(?i)^v?(?:[0-9]+!)?[0-9]+(?:\.[0-9]+)*$`)

// Specifier is a single version clause such as ">=2.7.3".
type Specifier struct {
	Operator string
	Version  string
}

// String returns the clause without internal whitespace.
func (s Specifier) String() string {
	return s.Operator + s.Version
}

// SpecifierSet is a comma separated list of version clauses.
type SpecifierSet []Specifier

// String joins the distinct clauses sorted by their string form.
func (ss SpecifierSet) String() string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.String()
	}
	return strings.Join(uniqueSorted(parts), ",")
}

func isOperatorStart(c byte) bool {
	return c == '<' || c == '>' || c == '=' || c == '!' || c == '~'
}

func matchOperator(s string) string {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}

func validateVersion(op, version string) error {
	if op == "===" {
		return nil
	}

	if prefix, ok := strings.CutSuffix(version, ".*"); ok {
		if op != "==" && op != "!=" {
			return errors.New("wildcards are only allowed with == and !=")
		}
		if !prefixRegex.MatchString(prefix) {
			return errors.New("wildcard must follow a release segment")
		}
		return nil
	}

	if !versionRegex.MatchString(version) {
		return errors.New("not a valid PEP 440 version")
	}

	switch op {
	case "~=":
		if strings.Contains(version, "+") {
			return errors.New("local versions are not allowed")
		}
		release := version
		if i := strings.Index(release, "!"); i >= 0 {
			release = release[i+1:]
		}
		if strings.Count(releaseSegment(release), ".") < 1 {
			return errors.New("compatible release needs at least two release segments")
		}
	case "<", ">", "<=", ">=":
		if strings.Contains(version, "+") {
			return errors.New("local versions are not allowed")
		}
	}
	return nil
}

// releaseSegment returns the leading dotted numeric part of a version.
func releaseSegment(v string) string {
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	end := 0
	for end < len(v) && (v[end] >= '0' && v[end] <= '9' || v[end] == '.') {
		end++
	}
	return strings.TrimRight(v[:end], ".")
}
