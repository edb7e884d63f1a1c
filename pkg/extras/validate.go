package extras

import (
	"sort"

	"github.com/matzehuels/extrasrequire/pkg/errors"
	"github.com/matzehuels/extrasrequire/pkg/pep508"
)

// ValidateRequirements parses each non-empty entry as a PEP 508 specifier
// and returns the canonical forms sorted by distribution name. Parsing stops
// at the first invalid entry. Duplicates are kept.
func ValidateRequirements(requirements []string) ([]string, error) {
	valid := make([]*pep508.Requirement, 0, len(requirements))
	for _, req := range requirements {
		if req == "" {
			continue
		}
		r, err := pep508.Parse(req)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequirement, err, "Invalid requirement '%s'", req)
		}
		valid = append(valid, r)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Name < valid[j].Name
	})

	out := make([]string, len(valid))
	for i, r := range valid {
		out[i] = r.String()
	}
	return out, nil
}
