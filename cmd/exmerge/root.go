package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ukaji3/exmerge-go/internal/config"
	"github.com/ukaji3/exmerge-go/internal/logging"
	"github.com/ukaji3/exmerge-go/pkg/exmerge"
)

// app carries state shared by subcommands once flags are parsed.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
	log     *logging.Logger
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exmerge",
		Short: "Split wide workbooks into labeled blocks and merge them back",
		Long: `exmerge splits each sheet of a workbook into two-column blocks named
after their header labels, then merges many split workbooks in
memory-bounded batches into a single ALL_MERGED workbook.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/exmerge/exmerge.yaml)")
	flags.StringP("output-dir", "o", "", "directory for split, batch and merged files (default: directory of the first input)")
	flags.Int("batch-size", exmerge.DefaultBatchSize, "number of split files merged per batch")
	flags.String("ext", exmerge.DefaultExtension, "extension of written files: xlsx or xlsm")
	flags.Int("jobs", 1, "number of inputs split concurrently")
	flags.Bool("strict-widths", false, "fail when files contribute unequal column counts to a sheet")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console, json")
	flags.String("log-file", "", "also write logs to this file")
	flags.String("format", "json", "result format: json, yaml")

	rootCmd.AddCommand(
		newSplitCmd(a),
		newMergeCmd(a),
		newReduceCmd(a),
		newRunCmd(a),
		newDiscoverCmd(a),
	)
	return rootCmd
}

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"output-dir":    "output_dir",
	"batch-size":    "batch_size",
	"ext":           "extension",
	"jobs":          "jobs",
	"strict-widths": "strict_widths",
	"log-level":     "logging.level",
	"log-format":    "logging.format",
	"log-file":      "logging.file",
	"format":        "output.format",
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := config.New(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	a.v, a.cfg, a.log = v, cfg, log
	return nil
}

// close releases the log file. Callers run it after Execute, whether or not
// the command failed.
func (a *app) close() {
	if a.log != nil {
		_ = a.log.Close()
		a.log = nil
	}
}

// options returns pipeline options whose callbacks feed the logger.
func (a *app) options() exmerge.Options {
	opts := a.cfg.Options()
	opts.Logger = &a.log.Logger
	opts.OnStatus = func(msg string) {
		a.log.Info().Msg(msg)
	}
	opts.OnProgress = func(done, total int) {
		a.log.Info().Int("done", done).Int("total", total).Msg("progress")
	}
	return opts
}

// outputDir resolves the configured output directory, defaulting to the
// directory of the first input.
func (a *app) outputDir(inputs []string) string {
	if a.cfg.OutputDir != "" {
		return filepath.Clean(a.cfg.OutputDir)
	}
	if len(inputs) > 0 {
		return filepath.Dir(inputs[0])
	}
	return "."
}
