package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/extrasrequire/pkg/errors"
	"github.com/matzehuels/extrasrequire/pkg/extras"
	"github.com/matzehuels/extrasrequire/pkg/sources"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "validate [requirement...]",
		Short: "Check dependency specifiers and print their normalized form",
		Long: `Parse each dependency specifier, failing on the first invalid one, and print
the normalized specifiers sorted by name.

Examples:
  extrasrequire validate "pytest >=2.7.3" "pytest-cov"
  extrasrequire validate -f requirements.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			requirements := append([]string(nil), args...)
			for _, path := range files {
				lines, err := readRequirementsFile(path)
				if err != nil {
					return err
				}
				requirements = append(requirements, lines...)
			}
			if len(requirements) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no requirements given")
			}

			valid, err := extras.ValidateRequirements(requirements)
			if err != nil {
				return err
			}
			for _, r := range valid {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			printSuccess(cmd.ErrOrStderr(), "%d valid requirements", len(valid))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "requirements file to validate (repeatable)")

	return cmd
}

// readRequirementsFile reads path with the same rules as the file source.
func readRequirementsFile(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid path %q", path)
	}
	opts := sources.Options{"file": filepath.Base(abs)}
	return sources.FromFile(filepath.Dir(abs), opts, nil, "")
}
