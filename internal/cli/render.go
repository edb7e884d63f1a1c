package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/extrasrequire/pkg/extras"
	"github.com/matzehuels/extrasrequire/pkg/rst"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		src   sourceFlags
		scope string
	)

	cmd := &cobra.Command{
		Use:   "render <extra> [requirement...]",
		Short: "Print the notice an extras-require directive produces",
		Long: `Run a single extras-require directive and print the resulting
reStructuredText. Requirements given after the extra name act as the
directive body.

Examples:
  extrasrequire render test --flit --project FooBar
  extrasrequire render docs "sphinx>=3.0" sphinx-toolbox --scope package`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeExtras,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.sourceEnv(cmd)
			if err != nil {
				return err
			}

			options := src.directiveOptions()
			if cmd.Flags().Changed("scope") {
				options = append(options, rst.Option{Name: "scope", Value: scope})
			}

			b := extras.NewBuild(env, loggerFromContext(cmd.Context()))
			nodes, err := extras.Run(cmd.Context(), b, extras.Invocation{
				DocName:   "<command line>",
				LineNo:    1,
				Arguments: args[:1],
				Options:   options,
				Content:   args[1:],
			})
			if err != nil {
				return err
			}
			return rst.Write(cmd.OutOrStdout(), nodes)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&scope, "scope", extras.DefaultScope, "documented unit named in the notice")

	return cmd
}
