package exmerge

import (
	"fmt"
	"path/filepath"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/parser"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/writer"
)

// Batches cuts files into contiguous groups of at most size entries.
func Batches(files []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := make([][]string, 0, (len(files)+size-1)/size)
	for start := 0; start < len(files); start += size {
		end := min(start+size, len(files))
		batches = append(batches, files[start:end])
	}
	return batches
}

// BatchMerge merges split files batch by batch into MERGE_BATCH_{n} files
// and then reduces those into the final workbook. Only one batch is held in
// memory at a time. Any failure aborts the call; batch files already written
// stay on disk.
func BatchMerge(files []string, outputDir string, opts Options) MergeResult {
	if len(files) == 0 {
		return failed(NewStageError(StageBatch, ErrNoInputs, "", "", nil))
	}

	log := opts.logger()
	batches := Batches(files, opts.batchSize())
	outputs := make([]string, 0, len(batches))
	processed := 0

	for i, batch := range batches {
		opts.status(fmt.Sprintf("batch %d/%d: reading %d files", i+1, len(batches), len(batch)))

		cache, err := loadBatch(batch)
		if err != nil {
			return failed(err)
		}
		out, err := mergeBatch(i+1, cache, outputDir, opts)
		cache.release()
		if err != nil {
			return failed(err)
		}

		outputs = append(outputs, out)
		processed += len(batch)
		log.Info().Int("batch", i+1).Int("files", len(batch)).Str("output", out).Msg("batch merged")
		opts.progress(processed, len(files))
	}

	opts.status("starting final merge of all batch results")
	return Reduce(outputs, outputDir, opts)
}

// batchCache owns the workbooks of a single batch. It must not outlive
// the batch that loaded it.
type batchCache struct {
	files []string
	books []*models.Workbook
}

func loadBatch(files []string) (*batchCache, error) {
	cache := &batchCache{
		files: files,
		books: make([]*models.Workbook, len(files)),
	}
	for i, path := range files {
		wb, err := parser.ReadWorkbook(path)
		if err != nil {
			return nil, NewStageError(StageBatch, readKind(err), path, "", err)
		}
		cache.books[i] = wb
	}
	return cache, nil
}

func (c *batchCache) release() {
	c.files = nil
	c.books = nil
}

// commonSheets returns the first workbook's sheet names that exist, by
// exact name, in every workbook.
func (c *batchCache) commonSheets() []string {
	sets := make([][]string, len(c.books))
	for i, wb := range c.books {
		sets[i] = wb.SheetNames()
	}
	return intersectOrdered(sets)
}

func mergeBatch(n int, cache *batchCache, outputDir string, opts Options) (string, error) {
	log := opts.logger()
	outPath := filepath.Join(outputDir, BatchFileName(n, opts.ext()))

	common := cache.commonSheets()
	if len(common) == 0 {
		return "", NewStageError(StageBatch, ErrEmptyResult, outPath, "", fmt.Errorf("no sheet is shared by all %d files", len(cache.files)))
	}

	w := writer.New()
	defer w.Close()

	for _, name := range common {
		opts.status(fmt.Sprintf("batch %d -> merging sheet: %s", n, name))

		parts := make([]models.Sheet, len(cache.books))
		for i, wb := range cache.books {
			s, _ := wb.Sheet(name)
			parts[i] = *s
		}

		merged, err := withSourceHeader(Sanitize(name), cache.files, parts, opts.StrictWidths)
		if err != nil {
			return "", NewStageError(StageBatch, ErrShape, outPath, name, err)
		}
		if err := w.AddSheet(merged); err != nil {
			return "", NewStageError(StageBatch, writeKind(err), outPath, name, err)
		}
		log.Debug().Str("sheet", name).Int("columns", merged.Width()).Msg("sheet merged")
	}

	if err := w.Save(outPath); err != nil {
		return "", NewStageError(StageBatch, ErrIO, outPath, "", err)
	}
	return outPath, nil
}

// withSourceHeader concatenates parts side by side and prepends a row that
// repeats each file's source name once per column it contributed.
func withSourceHeader(name string, files []string, parts []models.Sheet, strict bool) (models.Sheet, error) {
	header := make([]models.Cell, 0, len(parts)*2)
	for i := range parts {
		width := parts[i].Width()
		if strict && width != parts[0].Width() {
			return models.Sheet{}, fmt.Errorf("%w: %s contributes %d columns, %s contributes %d",
				ErrShape, filepath.Base(files[i]), width, filepath.Base(files[0]), parts[0].Width())
		}
		label := models.Text(SourceName(files[i]))
		for c := 0; c < width; c++ {
			header = append(header, label)
		}
	}

	merged := models.ConcatColumns(name, parts)
	merged.Rows = append([][]models.Cell{header}, merged.Rows...)
	return merged, nil
}

// intersectOrdered keeps the names of sets[0], in order, that appear in
// every set.
func intersectOrdered(sets [][]string) []string {
	if len(sets) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, set := range sets {
		seen := make(map[string]struct{}, len(set))
		for _, name := range set {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			counts[name]++
		}
	}

	var common []string
	for _, name := range sets[0] {
		if counts[name] == len(sets) {
			common = append(common, name)
		}
	}
	return common
}
