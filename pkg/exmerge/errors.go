package exmerge

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/writer"
)

// ErrIO indicates a file could not be read or written.
var ErrIO = errors.New("i/o error")

// ErrParse indicates a workbook or sheet could not be parsed.
var ErrParse = errors.New("unreadable workbook")

// ErrShape indicates merged inputs disagree on shape.
var ErrShape = errors.New("shape mismatch")

// ErrNamingExhausted indicates no unique sheet name could be derived.
var ErrNamingExhausted = errors.New("sheet name candidates exhausted")

// ErrInvalidName indicates the workbook rejected a derived sheet name.
var ErrInvalidName = errors.New("invalid sheet name")

// ErrDuplicateOutput indicates two inputs would be written to the same
// split file.
var ErrDuplicateOutput = errors.New("duplicate output file")

// ErrEmptyResult indicates a stage would produce a workbook with no sheets.
var ErrEmptyResult = errors.New("empty result")

// ErrNoInputs indicates a stage was called with no input files.
var ErrNoInputs = errors.New("no input files")

// Stage names a pipeline step for error reporting.
type Stage string

const (
	StagePartition Stage = "partition"
	StageBatch     Stage = "batch"
	StageReduce    Stage = "reduce"
)

// StageError represents an error during one pipeline stage.
type StageError struct {
	Stage Stage
	Path  string // file being read or written, if any
	Sheet string // sheet being processed, if any
	Kind  error  // one of the Err* sentinels
	Err   error
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	if e.Path != "" {
		msg += fmt.Sprintf(" in %s", e.Path)
	}
	if e.Sheet != "" {
		msg += fmt.Sprintf(" (sheet %q)", e.Sheet)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewStageError creates a new StageError.
func NewStageError(stage Stage, kind error, path, sheet string, err error) *StageError {
	return &StageError{
		Stage: stage,
		Path:  path,
		Sheet: sheet,
		Kind:  kind,
		Err:   err,
	}
}

// MergeResult is the outcome of a merge or reduce call.
type MergeResult struct {
	// OK is true when Path was written.
	OK bool
	// Path is the written file on success.
	Path string
	// Err describes the failure when OK is false.
	Err error
}

// Error returns the failure message, or "" on success.
func (r MergeResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func failed(err error) MergeResult {
	return MergeResult{Err: err}
}

// readKind classifies a workbook open/read failure.
func readKind(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return ErrIO
	}
	return ErrParse
}

// writeKind classifies a failure to add a sheet or save a workbook. Name
// rejections are naming errors; everything else is I/O.
func writeKind(err error) error {
	if errors.Is(err, writer.ErrInvalidSheetName) || errors.Is(err, writer.ErrDuplicateSheet) {
		return ErrInvalidName
	}
	return ErrIO
}

// kindOf maps an error onto its sentinel kind, defaulting to ErrIO.
func kindOf(err error) error {
	for _, kind := range []error{ErrShape, ErrNamingExhausted, ErrInvalidName, ErrDuplicateOutput, ErrEmptyResult, ErrNoInputs, ErrParse} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrIO
}
