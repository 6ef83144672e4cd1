package exmerge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/parser"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/writer"
)

// Partition splits every sheet of the workbook at inputPath into two-column
// blocks and writes them to outputDir as "{base}_SPLIT.{ext}". Summary
// sheets are copied unchanged. On failure no output file is left behind.
func Partition(inputPath, outputDir string, opts Options) (string, error) {
	log := opts.logger().With().Str("input", inputPath).Logger()

	wb, err := parser.ReadWorkbook(inputPath)
	if err != nil {
		return "", NewStageError(StagePartition, readKind(err), inputPath, "", err)
	}

	out, err := PartitionWorkbook(wb)
	if err != nil {
		return "", NewStageError(StagePartition, kindOf(err), inputPath, "", err)
	}

	outPath := filepath.Join(outputDir, SplitFileName(inputPath, opts.ext()))
	if err := writer.WriteWorkbook(outPath, out); err != nil {
		_ = os.Remove(outPath)
		return "", NewStageError(StagePartition, writeKind(err), outPath, "", err)
	}

	log.Info().Str("output", outPath).Int("sheets", len(out.Sheets)).Msg("partitioned workbook")
	return outPath, nil
}

// PartitionWorkbook builds the split workbook in memory.
func PartitionWorkbook(wb *models.Workbook) (*models.Workbook, error) {
	out := &models.Workbook{BookName: wb.BookName}
	names := newNameSet()

	for i := range wb.Sheets {
		sheet := &wb.Sheets[i]

		if IsSummarySheet(sheet.Name) {
			name, err := names.claim(sheet.Name)
			if err != nil {
				return nil, err
			}
			out.Add(sheet.Rename(name))
			continue
		}

		for _, blk := range blocksOf(sheet) {
			name, err := names.claim(blk.name)
			if err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
			}
			out.Add(sheet.Columns(name, blk.col, blk.col+2))
		}
	}

	if len(out.Sheets) == 0 {
		return nil, fmt.Errorf("%w: no blocks found in %s", ErrEmptyResult, wb.BookName)
	}
	return out, nil
}

// block is a two-column span starting at col, with its unsanitized name.
type block struct {
	col  int
	name string
}

// blocksOf picks label-split mode when any label column exists and falls
// back to every non-empty column pair otherwise.
func blocksOf(sheet *models.Sheet) []block {
	short := ShortName(sheet.Name)

	if cols := parser.LabelColumns(sheet); len(cols) > 0 {
		blocks := make([]block, 0, len(cols))
		for _, c := range cols {
			blocks = append(blocks, block{col: c, name: short + "_" + parser.HeaderText(sheet, c)})
		}
		return blocks
	}

	var blocks []block
	width := sheet.Width()
	for c := 0; c+1 < width; c += 2 {
		if parser.PairEmpty(sheet, c) {
			continue
		}
		label := parser.HeaderText(sheet, c)
		if label == "" {
			label = fmt.Sprintf("Block_%d", c/2+1)
		}
		blocks = append(blocks, block{col: c, name: short + "_" + label})
	}
	return blocks
}

// PartitionResult is the outcome for one input of PartitionAll.
type PartitionResult struct {
	Input  string
	Output string
	Err    error
}

// PartitionAll partitions each input independently. A failing input is
// recorded in its result and does not stop the others. Results keep input
// order; OnProgress and OnStatus are called once per finished file.
func PartitionAll(ctx context.Context, inputs []string, outputDir string, opts Options) ([]PartitionResult, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	results := make([]PartitionResult, len(inputs))
	done := make(chan int, len(inputs))
	dups := duplicateOutputs(inputs, opts.ext())

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())

	go func() {
		for i, in := range inputs {
			if gCtx.Err() != nil {
				results[i] = PartitionResult{Input: in, Err: gCtx.Err()}
				done <- i
				continue
			}
			if err := dups[i]; err != nil {
				results[i] = PartitionResult{Input: in, Err: err}
				done <- i
				continue
			}
			g.Go(func() error {
				out, err := Partition(in, outputDir, opts)
				results[i] = PartitionResult{Input: in, Output: out, Err: err}
				done <- i
				return nil
			})
		}
	}()

	log := opts.logger()
	for n := 1; n <= len(inputs); n++ {
		i := <-done
		r := results[i]
		if r.Err != nil {
			log.Error().Err(r.Err).Str("input", r.Input).Msg("partition failed")
			opts.status(fmt.Sprintf("error: %s: %v", filepath.Base(r.Input), r.Err))
		} else {
			opts.status(fmt.Sprintf("done %d/%d -> %s", n, len(inputs), filepath.Base(r.Input)))
		}
		opts.progress(n, len(inputs))
	}

	_ = g.Wait()
	return results, ctx.Err()
}

// duplicateOutputs fails every input whose split file name was already
// taken by an earlier input, e.g. a.xlsx and a.xlsm.
func duplicateOutputs(inputs []string, ext string) []error {
	errs := make([]error, len(inputs))
	owners := make(map[string]string, len(inputs))
	for i, in := range inputs {
		name := SplitFileName(in, ext)
		key := strings.ToLower(name)
		if first, ok := owners[key]; ok {
			errs[i] = NewStageError(StagePartition, ErrDuplicateOutput, in, "",
				fmt.Errorf("%s is already written for %s", name, first))
			continue
		}
		owners[key] = in
	}
	return errs
}

// Succeeded returns the outputs of successful results in order.
func Succeeded(results []PartitionResult) []string {
	var out []string
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Output)
		}
	}
	return out
}
