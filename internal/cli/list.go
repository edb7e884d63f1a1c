package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/extrasrequire/pkg/extras"
	"github.com/matzehuels/extrasrequire/pkg/pipeline"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var asRST bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every extra documented in the source tree",
		Long: `Resolve all extras-require directives without writing anything and list
them by document. With --rst the summary document is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			opts := pipelineOptions(cfg, loggerFromContext(cmd.Context()))
			opts.DryRun = true
			opts.OutDir = ""

			result, err := pipeline.NewRunner(opts.Logger).Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asRST {
				_, err := out.Write(result.Summary)
				return err
			}
			if len(result.Entries) == 0 {
				printInfo(out, "No extras-require directives found")
				return nil
			}

			fmt.Fprintln(out, StyleTitle.Render(pipeline.DefaultSummaryTitle))
			var rows [][]string
			for _, doc := range extras.Summarize(result.Entries) {
				for _, e := range doc.Entries {
					rows = append(rows, []string{
						doc.DocName,
						fmt.Sprint(e.LineNo),
						e.Extra,
						strings.Join(e.Requirements, ", "),
					})
				}
			}
			printTable(out, []string{"Document", "Line", "Extra", "Requirements"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asRST, "rst", false, "print the summary as reStructuredText")

	return cmd
}
