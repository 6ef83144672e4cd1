package exmerge

import (
	"context"
	"fmt"
)

// RunResult is the outcome of a full split-then-merge run.
type RunResult struct {
	// Partitions holds one entry per input, in input order.
	Partitions []PartitionResult
	// Merge is the batch merge and reduce outcome.
	Merge MergeResult
}

// Run partitions every input, then merges the successful split files.
// Inputs that fail to partition are reported in Partitions and left out
// of the merge.
func Run(ctx context.Context, inputs []string, outputDir string, opts Options) (RunResult, error) {
	results, err := PartitionAll(ctx, inputs, outputDir, opts)
	if err != nil {
		return RunResult{Partitions: results}, err
	}

	split := Succeeded(results)
	if len(split) == 0 {
		res := RunResult{Partitions: results}
		res.Merge = failed(fmt.Errorf("%w: every input failed to partition", ErrNoInputs))
		return res, nil
	}

	return RunResult{
		Partitions: results,
		Merge:      BatchMerge(split, outputDir, opts),
	}, nil
}
