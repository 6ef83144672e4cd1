// Package exmerge splits wide workbooks into labeled two-column blocks and
// merges many split workbooks back together in memory-bounded batches.
package exmerge

import (
	"strings"

	"github.com/rs/zerolog"
)

// DefaultBatchSize is the number of split files merged per batch.
const DefaultBatchSize = 25

// DefaultExtension is the extension of every file the pipeline writes.
const DefaultExtension = "xlsx"

// ProgressFunc receives (done, total) counts. Calls within one stage never
// decrease done. BatchMerge reports files and then the Reducer's sheets, so
// total can change and done restarts when the final merge begins.
type ProgressFunc func(done, total int)

// StatusFunc receives human-readable status messages.
type StatusFunc func(msg string)

// Options configures the pipeline.
type Options struct {
	// BatchSize caps the number of split files loaded at once.
	// Zero means DefaultBatchSize.
	BatchSize int
	// Extension of output files without the dot. Empty means DefaultExtension.
	Extension string
	// Jobs is the number of input files partitioned concurrently by
	// PartitionAll. Values below 1 mean 1.
	Jobs int
	// StrictWidths makes batch merging fail with ErrShape when files
	// contribute different column counts to the same sheet.
	StrictWidths bool
	// OnProgress is optional.
	OnProgress ProgressFunc
	// OnStatus is optional.
	OnStatus StatusFunc
	// Logger receives debug and info events. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultOptions returns default pipeline options.
func DefaultOptions() Options {
	return Options{
		BatchSize: DefaultBatchSize,
		Extension: DefaultExtension,
		Jobs:      1,
	}
}

func (o Options) batchSize() int {
	if o.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return o.BatchSize
}

func (o Options) ext() string {
	ext := strings.TrimPrefix(o.Extension, ".")
	if ext == "" {
		return DefaultExtension
	}
	return ext
}

func (o Options) jobs() int {
	if o.Jobs < 1 {
		return 1
	}
	return o.Jobs
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return o.Logger
}

func (o Options) progress(done, total int) {
	if o.OnProgress != nil {
		o.OnProgress(done, total)
	}
}

func (o Options) status(msg string) {
	if o.OnStatus != nil {
		o.OnStatus(msg)
	}
}
