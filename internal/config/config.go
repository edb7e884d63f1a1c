// Package config loads build settings for the extrasrequire CLI using Viper.
//
// Settings are merged in increasing precedence: built-in defaults, an
// extrasrequire.toml (or .yaml/.json) file, a .env file and EXTRASREQUIRE_*
// environment variables. Command-line flags are applied on top by the CLI.
package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/matzehuels/extrasrequire/pkg/errors"
	"github.com/matzehuels/extrasrequire/pkg/pipeline"
)

const (
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "extrasrequire"

	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "EXTRASREQUIRE"

	// EnvFileName is the dotenv file read from the working directory.
	EnvFileName = ".env"
)

// Keys understood in config files and environment variables.
const (
	KeyProject     = "project"
	KeyPackageRoot = "package_root"
	KeySrcDir      = "src_dir"
	KeyOutDir      = "out_dir"
	KeySuffix      = "suffix"
	KeySummary     = "summary"
)

// Config holds the settings of a documentation build.
type Config struct {
	Project     string `mapstructure:"project"`
	PackageRoot string `mapstructure:"package_root"`
	SrcDir      string `mapstructure:"src_dir"`
	OutDir      string `mapstructure:"out_dir"`
	Suffix      string `mapstructure:"suffix"`
	Summary     string `mapstructure:"summary"`
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFilePath selects a config file explicitly. It must exist.
	ConfigFilePath string

	// Dir is searched for the config file and the .env file.
	// Defaults to the working directory.
	Dir string

	// EnvFilePath selects a dotenv file explicitly. It must exist.
	EnvFilePath string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		SrcDir:  "doc-source",
		OutDir:  "build/rst",
		Suffix:  pipeline.DefaultSuffix,
		Summary: pipeline.DefaultSummary,
	}
}

// Load merges defaults, config file, dotenv file and environment. It returns
// the config together with the path of the config file used, if any.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault(KeyProject, defaults.Project)
	v.SetDefault(KeyPackageRoot, defaults.PackageRoot)
	v.SetDefault(KeySrcDir, defaults.SrcDir)
	v.SetDefault(KeyOutDir, defaults.OutDir)
	v.SetDefault(KeySuffix, defaults.Suffix)
	v.SetDefault(KeySummary, defaults.Summary)

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", opts.ConfigFilePath)
		}
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot read config file %s", opts.ConfigFilePath)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot read config file")
			}
			// No config file: defaults and environment only.
		}
	}

	if err := applyDotenv(v, dir, opts.EnvFilePath); err != nil {
		return nil, "", err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, v.ConfigFileUsed(), nil
}

// applyDotenv merges EXTRASREQUIRE_* entries of a dotenv file into v. The
// file is read without touching the process environment, and variables
// already set in the environment keep precedence.
func applyDotenv(v *viper.Viper, dir, path string) error {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, EnvFileName)
	}
	if !fileExists(path) {
		if explicit {
			return errors.New(errors.ErrCodeFileNotFound, "env file not found: %s", path)
		}
		return nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot read env file %s", path)
	}
	for name, value := range values {
		key, ok := strings.CutPrefix(name, EnvPrefix+"_")
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(strings.ToLower(key), value)
	}
	return nil
}

// Validate checks settings that cannot be checked by type alone.
func (c *Config) Validate() error {
	if c.PackageRoot != "" {
		if err := errors.ValidatePath(c.PackageRoot); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", KeyPackageRoot)
		}
	}
	if c.Summary != "" {
		if err := errors.ValidatePath(c.Summary); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", KeySummary)
		}
	}
	return nil
}

// PipelineOptions converts the settings to build options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		SrcDir:      c.SrcDir,
		OutDir:      c.OutDir,
		PackageRoot: c.PackageRoot,
		Project:     c.Project,
		Suffix:      c.Suffix,
		Summary:     c.Summary,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
