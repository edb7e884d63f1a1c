package cli

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/extrasrequire/pkg/observability"
	"github.com/matzehuels/extrasrequire/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	outDir    string
	suffix    string
	summary   string
	noSummary bool
	dryRun    bool
	keepGoing bool
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Expand extras-require directives across the documentation tree",
		Long: `Expand every extras-require directive below the source directory and write
the resulting documents, together with a summary of all extras, to the output
directory.

Examples:
  extrasrequire build --src-dir doc-source --out-dir build/rst --package-root foobar
  extrasrequire build --dry-run -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("out-dir") {
				cfg.OutDir = opts.outDir
			}
			if flags.Changed("suffix") {
				cfg.Suffix = opts.suffix
			}
			if flags.Changed("summary") {
				cfg.Summary = opts.summary
			}

			popts := pipelineOptions(cfg, logger)
			popts.NoSummary = opts.noSummary
			popts.DryRun = opts.dryRun
			popts.KeepGoing = opts.keepGoing

			st := startStage(logger, "expanded documentation")
			var spinner *buildSpinner
			if logger.GetLevel() > log.DebugLevel {
				spinner = newBuildSpinner(cmd.ErrOrStderr(), "Expanding extras-require directives...")
				prev := observability.Directive()
				observability.SetDirectiveHooks(spinner)
				defer observability.SetDirectiveHooks(prev)
				spinner.Start(ctx)
			}
			result, err := pipeline.NewRunner(logger).Execute(ctx, popts)
			if spinner != nil {
				spinner.Stop()
			}
			if err != nil {
				return err
			}
			st.done("docs", result.Stats.DocCount, "notices", result.Stats.NoticeCount)

			printBuildResult(cmd, result, popts)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "output directory for expanded documents")
	cmd.Flags().StringVar(&opts.suffix, "suffix", pipeline.DefaultSuffix, "source document suffix")
	cmd.Flags().StringVar(&opts.summary, "summary", pipeline.DefaultSummary, "summary file name relative to the output directory")
	cmd.Flags().BoolVar(&opts.noSummary, "no-summary", false, "do not write the summary of all extras")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "resolve all directives but write nothing")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "report failing directives and continue")

	return cmd
}

func printBuildResult(cmd *cobra.Command, result *pipeline.Result, opts pipeline.Options) {
	out := cmd.OutOrStdout()
	printSuccess(out, "Expanded %d extras-require directives", result.Stats.BlockCount)
	printStats(out, result.Stats.DocCount, result.Stats.NoticeCount, result.Stats.WarningCount)

	if opts.DryRun {
		printInfo(out, "Dry run: no files written")
	} else {
		for _, doc := range result.Docs {
			if doc.Blocks > 0 && doc.OutPath != "" {
				printFile(out, doc.OutPath)
			}
		}
		if len(result.Summary) > 0 {
			printFile(out, filepath.Join(opts.OutDir, opts.Summary))
		}
	}

	for _, w := range result.Warnings {
		printWarning(out, "%s", w)
	}
}
