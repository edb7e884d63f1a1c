// Package cli implements the extrasrequire command-line interface.
//
// The CLI expands extras-require directives across a documentation tree and
// exposes the individual steps for scripting:
//   - build: Expand every directive and write the documentation tree
//   - list: Show all extras found in the tree
//   - resolve: Print the requirements of one extra from a metadata source
//   - validate: Check and normalize dependency specifiers
//   - render: Print the notice a directive would produce
//
// All commands support --verbose (-v) and --log-level. The logger is
// attached to the command context and retrieved with loggerFromContext.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/extrasrequire/internal/config"
	"github.com/matzehuels/extrasrequire/pkg/buildinfo"
	"github.com/matzehuels/extrasrequire/pkg/errors"
	"github.com/matzehuels/extrasrequire/pkg/pipeline"
	"github.com/matzehuels/extrasrequire/pkg/rst"
	"github.com/matzehuels/extrasrequire/pkg/sources"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "extrasrequire"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	global globalFlags
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose     bool
	logLevel    string
	configPath  string
	envFile     string
	srcDir      string
	packageRoot string
	project     string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Extrasrequire documents the optional dependencies of Python packages",
		Long: `Extrasrequire expands extras-require directives in reStructuredText
documentation into notices listing the additional requirements of an extra,
read from setup.cfg, pyproject.toml, a requirements file or the directive body.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyLogLevel(cmd); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.global.verbose, "verbose", "v", false, "enable verbose logging (same as --log-level debug)")
	pf.StringVar(&c.global.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&c.global.configPath, "config", "", "config file (default: ./extrasrequire.{toml,yaml,json})")
	pf.StringVar(&c.global.envFile, "env-file", "", "dotenv file (default: ./.env)")
	pf.StringVar(&c.global.srcDir, "src-dir", "", "documentation source directory")
	pf.StringVar(&c.global.packageRoot, "package-root", "", "package directory relative to the repository root")
	pf.StringVar(&c.global.project, "project", "", "project name shown in install commands")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// applyLogLevel sets the logger level from --verbose or --log-level.
func (c *CLI) applyLogLevel(cmd *cobra.Command) error {
	if c.global.verbose {
		c.SetLogLevel(LogDebug)
		return nil
	}
	if !cmd.Flags().Changed("log-level") {
		return nil
	}
	level, err := parseLogLevel(c.global.logLevel)
	if err != nil {
		return err
	}
	c.SetLogLevel(level)
	return nil
}

// ExitCode maps a command error to a process exit status: 0 on success,
// 130 when interrupted, 2 for invalid command-line input and 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, errors.ErrCodeInvalidArgument), errors.Is(err, errors.ErrCodeInvalidInput):
		return 2
	default:
		return 1
	}
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the configuration and applies the global flags that were
// set explicitly on the command line.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, used, err := config.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: c.global.configPath,
		EnvFilePath:    c.global.envFile,
	})
	if err != nil {
		return nil, err
	}
	if used != "" {
		loggerFromContext(cmd.Context()).Debug("loaded config", "file", used)
	}

	flags := cmd.Flags()
	if flags.Changed("src-dir") {
		cfg.SrcDir = c.global.srcDir
	}
	if flags.Changed("package-root") {
		cfg.PackageRoot = c.global.packageRoot
	}
	if flags.Changed("project") {
		cfg.Project = c.global.project
	}
	return cfg, cfg.Validate()
}

// sourceEnv returns the environment that sources resolve against.
func (c *CLI) sourceEnv(cmd *cobra.Command) (*sources.Env, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts := cfg.PipelineOptions()
	opts.DryRun = true
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return opts.Env(), nil
}

// =============================================================================
// Source Flags
// =============================================================================

// sourceFlags select a requirement source the way directive options do.
type sourceFlags struct {
	file      string
	setupCfg  bool
	flit      bool
	pyproject bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "requirements file relative to the package root")
	cmd.Flags().BoolVar(&f.setupCfg, "setup-cfg", false, "read [options.extras_require] from setup.cfg")
	cmd.Flags().BoolVar(&f.flit, "flit", false, "read [tool.flit.metadata.requires-extra] from pyproject.toml")
	cmd.Flags().BoolVar(&f.pyproject, "pyproject", false, "read [project.optional-dependencies] from pyproject.toml")
	if err := cmd.RegisterFlagCompletionFunc("file", completeRequirementsFile); err != nil {
		panic(err)
	}
}

// directiveOptions returns the selected sources as directive options in
// table order.
func (f *sourceFlags) directiveOptions() []rst.Option {
	var opts []rst.Option
	if f.file != "" {
		opts = append(opts, rst.Option{Name: "file", Value: filepath.ToSlash(f.file)})
	}
	if f.setupCfg {
		opts = append(opts, rst.Option{Name: "setup.cfg"})
	}
	if f.flit {
		opts = append(opts, rst.Option{Name: "flit"})
	}
	if f.pyproject {
		opts = append(opts, rst.Option{Name: "pyproject"})
	}
	return opts
}

// sourceOptions validates the selected sources like the directive does.
func (f *sourceFlags) sourceOptions() (sources.Options, error) {
	opts := sources.Options{}
	for _, o := range f.directiveOptions() {
		src, _ := sources.Lookup(o.Name)
		v, err := src.Validate(o.Value)
		if err != nil {
			return nil, err
		}
		opts[o.Name] = v
	}
	return opts, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds runner options from the loaded config.
func pipelineOptions(cfg *config.Config, logger *log.Logger) pipeline.Options {
	opts := cfg.PipelineOptions()
	opts.Logger = logger
	return opts
}
