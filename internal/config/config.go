// Package config loads exmerge settings from defaults, a YAML file,
// EXMERGE_* environment variables and command-line flags.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ukaji3/exmerge-go/pkg/exmerge"
)

// EnvPrefix is the prefix of environment overrides, e.g. EXMERGE_BATCH_SIZE.
const EnvPrefix = "EXMERGE"

// Config is the full exmerge configuration.
type Config struct {
	// BatchSize is the number of split files merged per batch.
	BatchSize int `mapstructure:"batch_size"`
	// OutputDir receives split, batch and final files. Empty means the
	// directory of the first input.
	OutputDir string `mapstructure:"output_dir"`
	// Extension of written files: xlsx or xlsm.
	Extension string `mapstructure:"extension"`
	// Jobs is the number of inputs partitioned concurrently.
	Jobs int `mapstructure:"jobs"`
	// StrictWidths rejects sheets whose files contribute unequal column counts.
	StrictWidths bool          `mapstructure:"strict_widths"`
	Logging      LoggingConfig `mapstructure:"logging"`
	Output       OutputConfig  `mapstructure:"output"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format is console or json
	Format string `mapstructure:"format"`
	// File additionally receives logs when set
	File string `mapstructure:"file"`
}

// OutputConfig controls how command results are printed.
type OutputConfig struct {
	// Format is json or yaml
	Format string `mapstructure:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BatchSize: exmerge.DefaultBatchSize,
		Extension: exmerge.DefaultExtension,
		Jobs:      1,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// SetDefaults registers Default() values on v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("batch_size", defaults.BatchSize)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("extension", defaults.Extension)
	v.SetDefault("jobs", defaults.Jobs)
	v.SetDefault("strict_widths", defaults.StrictWidths)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.file", defaults.Logging.File)

	v.SetDefault("output.format", defaults.Output.Format)
}

// New returns a viper instance with defaults, env binding and, when found,
// the config file applied. An explicit cfgFile must exist.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("exmerge")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	// EXMERGE_LOGGING_LEVEL for logging.level
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Extension = strings.ToLower(strings.TrimPrefix(cfg.Extension, "."))
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Options converts the configuration into pipeline options.
func (c *Config) Options() exmerge.Options {
	return exmerge.Options{
		BatchSize:    c.BatchSize,
		Extension:    c.Extension,
		Jobs:         c.Jobs,
		StrictWidths: c.StrictWidths,
	}
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "exmerge")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".exmerge"
	}
	return filepath.Join(home, ".config", "exmerge")
}
