package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ukaji3/exmerge-go/pkg/exmerge"
)

// errFailed marks a run whose failure was already reported in the result.
var errFailed = errors.New("one or more steps failed")

func newSplitCmd(a *app) *cobra.Command {
	var inputDir string

	cmd := &cobra.Command{
		Use:   "split [input.xlsx...]",
		Short: "Split each workbook into {name}_SPLIT files",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			inputs, err := resolveInputs(args, inputDir)
			if err != nil {
				return err
			}
			outDir := a.outputDir(inputs)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			results, err := exmerge.PartitionAll(cmd.Context(), inputs, outDir, a.options())
			if err != nil {
				return err
			}

			out := partitionOutput(results)
			out.Duration = time.Since(start).String()
			return a.emit(cmd, out)
		},
	}
	cmd.Flags().StringVar(&inputDir, "input-dir", "", "split every .xlsx/.xlsm file in this directory")
	return cmd
}

func newMergeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge [file_SPLIT.xlsx...]",
		Short: "Merge split files in batches and reduce them into ALL_MERGED",
		Long: `merge groups split files into batches of --batch-size, writes one
MERGE_BATCH_{n} workbook per batch and folds those into ALL_MERGED.
Without arguments every *_SPLIT file in the output directory is merged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			outDir := a.outputDir(args)

			files := args
			if len(files) == 0 {
				var err error
				if files, err = exmerge.DiscoverSplitFiles(outDir, a.cfg.Extension); err != nil {
					return err
				}
				if len(files) == 0 {
					return fmt.Errorf("no *%s.%s files found in %s", exmerge.SplitSuffix, a.cfg.Extension, outDir)
				}
			}

			out := mergeOutput(exmerge.BatchMerge(files, outDir, a.options()))
			out.Duration = time.Since(start).String()
			return a.emit(cmd, out)
		},
	}
}

func newReduceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reduce MERGE_BATCH_1.xlsx [MERGE_BATCH_2.xlsx...]",
		Short: "Fold batch workbooks into ALL_MERGED",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			out := mergeOutput(exmerge.Reduce(args, a.outputDir(args), a.options()))
			out.Duration = time.Since(start).String()
			return a.emit(cmd, out)
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var inputDir string

	cmd := &cobra.Command{
		Use:   "run [input.xlsx...]",
		Short: "Split the inputs, then merge the split files",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			inputs, err := resolveInputs(args, inputDir)
			if err != nil {
				return err
			}
			outDir := a.outputDir(inputs)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			res, err := exmerge.Run(cmd.Context(), inputs, outDir, a.options())
			if err != nil {
				return err
			}

			out := partitionOutput(res.Partitions)
			merged := mergeOutput(res.Merge)
			out.Success = out.Success && merged.Success
			out.OutputFiles = append(out.OutputFiles, merged.OutputFiles...)
			out.Errors = append(out.Errors, merged.Errors...)
			out.Duration = time.Since(start).String()
			return a.emit(cmd, out)
		},
	}
	cmd.Flags().StringVar(&inputDir, "input-dir", "", "process every .xlsx/.xlsm file in this directory")
	return cmd
}

func newDiscoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "discover DIR",
		Short: "List the workbooks split and run would pick up from DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := exmerge.DiscoverInputs(args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, Output{Success: true, OutputFiles: files})
		},
	}
}

// resolveInputs returns explicit inputs, or discovers them in dir.
func resolveInputs(args []string, dir string) ([]string, error) {
	if len(args) > 0 && dir != "" {
		return nil, errors.New("pass input files or --input-dir, not both")
	}
	if len(args) > 0 {
		for _, path := range args {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return nil, fmt.Errorf("file not found: %s", path)
			}
		}
		return args, nil
	}
	if dir == "" {
		return nil, errors.New("no input files given")
	}

	inputs, err := exmerge.DiscoverInputs(dir)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no .xlsx or .xlsm files found in %s", dir)
	}
	return inputs, nil
}
