package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/exmerge-go/pkg/exmerge"
)

// Output is the result printed on stdout after every command.
type Output struct {
	Success     bool     `json:"success" yaml:"success"`
	OutputFiles []string `json:"output_files,omitempty" yaml:"output_files,omitempty"`
	Errors      []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Duration    string   `json:"duration,omitempty" yaml:"duration,omitempty"`
}

func partitionOutput(results []exmerge.PartitionResult) Output {
	out := Output{Success: true}
	for _, r := range results {
		if r.Err != nil {
			out.Success = false
			out.Errors = append(out.Errors, r.Err.Error())
			continue
		}
		out.OutputFiles = append(out.OutputFiles, r.Output)
	}
	return out
}

func mergeOutput(res exmerge.MergeResult) Output {
	if !res.OK {
		return Output{Errors: []string{res.Error()}}
	}
	return Output{Success: true, OutputFiles: []string{res.Path}}
}

// emit prints out in the configured format and turns failures into a
// non-zero exit.
func (a *app) emit(cmd *cobra.Command, out Output) error {
	if err := writeOutput(cmd.OutOrStdout(), a.cfg.Output.Format, out); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	if !out.Success {
		return errFailed
	}
	return nil
}

func writeOutput(w io.Writer, format string, out Output) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
