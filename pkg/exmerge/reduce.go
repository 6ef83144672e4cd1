package exmerge

import (
	"fmt"
	"path/filepath"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/parser"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/writer"
)

// Reduce folds batch workbooks into ALL_MERGED.{ext}. Sheets follow the
// first file's order and are kept only when every file has them. Sheets are
// loaded one at a time across all files; the output is only written once
// every sheet succeeded.
func Reduce(batchPaths []string, outputDir string, opts Options) MergeResult {
	if len(batchPaths) == 0 {
		return failed(NewStageError(StageReduce, ErrNoInputs, "", "", nil))
	}

	log := opts.logger()
	outPath := filepath.Join(outputDir, FinalFileName(opts.ext()))

	sets := make([][]string, len(batchPaths))
	for i, path := range batchPaths {
		names, err := parser.SheetNames(path)
		if err != nil {
			return failed(NewStageError(StageReduce, readKind(err), path, "", err))
		}
		sets[i] = names
	}

	common := intersectOrdered(sets)
	if len(common) == 0 {
		return failed(NewStageError(StageReduce, ErrEmptyResult, outPath, "",
			fmt.Errorf("no sheet is shared by all %d batch files", len(batchPaths))))
	}

	w := writer.New()
	defer w.Close()

	for i, name := range common {
		opts.status(fmt.Sprintf("final merge -> %s", name))

		parts := make([]models.Sheet, len(batchPaths))
		for j, path := range batchPaths {
			s, err := parser.ReadSheet(path, name)
			if err != nil {
				return failed(NewStageError(StageReduce, readKind(err), path, name, err))
			}
			parts[j] = s
		}

		if err := w.AddSheet(models.ConcatColumns(Sanitize(name), parts)); err != nil {
			return failed(NewStageError(StageReduce, writeKind(err), outPath, name, err))
		}
		log.Debug().Str("sheet", name).Msg("sheet reduced")
		opts.progress(i+1, len(common))
	}

	if err := w.Save(outPath); err != nil {
		return failed(NewStageError(StageReduce, ErrIO, outPath, "", err))
	}

	log.Info().Str("output", outPath).Int("sheets", len(common)).Int("batches", len(batchPaths)).Msg("reduced batches")
	return MergeResult{OK: true, Path: outPath}
}
