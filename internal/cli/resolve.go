package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/extrasrequire/pkg/errors"
	"github.com/matzehuels/extrasrequire/pkg/extras"
	"github.com/matzehuels/extrasrequire/pkg/observability"
	"github.com/matzehuels/extrasrequire/pkg/sources"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		src sourceFlags
		raw bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <extra>",
		Short: "Print the requirements of an extra",
		Long: `Read the requirements of an extra from exactly one metadata source and print
them one per line, sorted and normalized as they appear in notices.

With --raw the strings are printed exactly as the source lists them.

Examples:
  extrasrequire resolve test --flit
  extrasrequire resolve docs --file requirements-docs.txt --package-root foobar`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeExtras,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra := args[0]
			if err := errors.ValidateExtraName(extra); err != nil {
				return err
			}
			env, err := c.sourceEnv(cmd)
			if err != nil {
				return err
			}
			opts, err := src.sourceOptions()
			if err != nil {
				return err
			}

			var requirements []string
			if raw {
				requirements, err = resolveRaw(cmd, env, extra, opts)
			} else {
				requirements, err = extras.GetRequirements(cmd.Context(), env, extra, opts, nil)
			}
			if err != nil {
				return err
			}

			loggerFromContext(cmd.Context()).Debug("resolved extra", "extra", extra, "requirements", len(requirements))
			for _, r := range requirements {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "print requirements without validation or sorting")

	return cmd
}

// resolveRaw runs the single selected source without validating its output.
func resolveRaw(cmd *cobra.Command, env *sources.Env, extra string, opts sources.Options) ([]string, error) {
	if len(opts) != 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "--raw needs exactly one source, got %d", len(opts))
	}
	var src sources.Source
	for _, s := range sources.Table {
		if opts.Has(s.Option) {
			src = s
		}
	}
	start := time.Now()
	requirements, err := src.Resolve(env.PackageDir(), opts, env, extra)
	observability.Directive().OnResolve(cmd.Context(), src.Option, extra, len(requirements), time.Since(start), err)
	return requirements, err
}
