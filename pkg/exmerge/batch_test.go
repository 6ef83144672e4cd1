package exmerge

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
)

func TestBatches(t *testing.T) {
	files := make([]string, 7)
	for i := range files {
		files[i] = fmt.Sprintf("f%d", i)
	}

	tests := []struct {
		size     int
		count    int
		lastSize int
	}{
		{1, 7, 1},
		{2, 4, 1},
		{3, 3, 1},
		{7, 1, 7},
		{25, 1, 7},
		{0, 1, 7},
	}
	for _, tt := range tests {
		batches := Batches(files, tt.size)
		require.Len(t, batches, tt.count, "size %d", tt.size)
		assert.Len(t, batches[len(batches)-1], tt.lastSize, "size %d", tt.size)
	}

	assert.Len(t, Batches(files[:6], 3), 2)
	assert.Empty(t, Batches(nil, 3))
}

func TestIntersectOrdered(t *testing.T) {
	got := intersectOrdered([][]string{
		{"C", "A", "B", "Summary"},
		{"A", "B", "Summary", "C"},
		{"Summary", "B", "A"},
	})
	assert.Equal(t, []string{"A", "B", "Summary"}, got)

	assert.Empty(t, intersectOrdered([][]string{{"a"}, {"A"}}))
	assert.Nil(t, intersectOrdered(nil))
}

// splitFixture writes three split files f1..f3 with sheets A and B, each
// sheet two columns wide and three rows tall.
func splitFixture(t *testing.T, dir string, f3Sheets ...string) []string {
	t.Helper()
	mk := func(tag, name string) models.Sheet {
		return sheet(name,
			row(tag+"-x", tag+"-y"),
			row(name+"(1)", nil),
			row(1, 2),
		)
	}
	if len(f3Sheets) == 0 {
		f3Sheets = []string{"A", "B"}
	}
	var f3 []models.Sheet
	for _, name := range f3Sheets {
		f3 = append(f3, mk("f3", name))
	}
	return []string{
		writeBook(t, dir, "f1_SPLIT.xlsx", mk("f1", "A"), mk("f1", "B")),
		writeBook(t, dir, "f2_SPLIT.xlsx", mk("f2", "A"), mk("f2", "B")),
		writeBook(t, dir, "f3_SPLIT.xlsx", f3...),
	}
}

func TestBatchMergeScenario(t *testing.T) {
	dir := t.TempDir()
	files := splitFixture(t, dir)

	rec := &recorder{}
	opts := rec.options()
	opts.BatchSize = 2

	res := BatchMerge(files, dir, opts)
	require.True(t, res.OK, res.Error())
	assert.Equal(t, filepath.Join(dir, "ALL_MERGED.xlsx"), res.Path)

	batch1 := readBook(t, filepath.Join(dir, "MERGE_BATCH_1.xlsx"))
	assert.Equal(t, []string{"A", "B"}, batch1.SheetNames())
	a1, _ := batch1.Sheet("A")
	require.Equal(t, 4, a1.Height())
	assert.Equal(t, []string{"f1", "f1", "f2", "f2"}, texts(a1.Rows[0]))
	assert.Equal(t, []string{"f1-x", "f1-y", "f2-x", "f2-y"}, texts(a1.Rows[1]))

	batch2 := readBook(t, filepath.Join(dir, "MERGE_BATCH_2.xlsx"))
	a2, _ := batch2.Sheet("A")
	assert.Equal(t, []string{"f3", "f3"}, texts(a2.Rows[0]))
	assert.Equal(t, []string{"f3-x", "f3-y"}, texts(a2.Rows[1]))

	final := readBook(t, res.Path)
	assert.Equal(t, []string{"A", "B"}, final.SheetNames())
	fa, _ := final.Sheet("A")
	require.Equal(t, 4, fa.Height())
	assert.Equal(t, []string{"f1", "f1", "f2", "f2", "f3", "f3"}, texts(fa.Rows[0]))
	assert.Equal(t, []string{"1", "2", "1", "2", "1", "2"}, texts(fa.Rows[3]))

	// Batch progress counts files, then the reducer counts sheets.
	assert.Equal(t, [][2]int{{2, 3}, {3, 3}, {1, 2}, {2, 2}}, rec.progress)
	assert.Contains(t, rec.status, "batch 1/2: reading 2 files")
	assert.Contains(t, rec.status, "batch 2 -> merging sheet: B")
	assert.Contains(t, rec.status, "starting final merge of all batch results")
}

func TestBatchMergeDropsSheetMissingFromOneFile(t *testing.T) {
	dir := t.TempDir()
	files := splitFixture(t, dir, "A")

	opts := DefaultOptions()
	opts.BatchSize = 2
	res := BatchMerge(files, dir, opts)
	require.True(t, res.OK, res.Error())

	// Batch 1 still has both sheets; only the final output loses B.
	batch1 := readBook(t, filepath.Join(dir, "MERGE_BATCH_1.xlsx"))
	assert.Equal(t, []string{"A", "B"}, batch1.SheetNames())
	assert.Equal(t, []string{"A"}, readBook(t, res.Path).SheetNames())
}

func TestBatchMergeSheetOrderFollowsFirstFile(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeBook(t, dir, "p_SPLIT.xlsx", sheet("Z", row(1, 2)), sheet("Summary", row("s")), sheet("M", row(3, 4))),
		writeBook(t, dir, "q_SPLIT.xlsx", sheet("M", row(5, 6)), sheet("Z", row(7, 8)), sheet("Summary", row("t"))),
	}

	res := BatchMerge(files, dir, DefaultOptions())
	require.True(t, res.OK, res.Error())
	assert.Equal(t, []string{"Z", "Summary", "M"}, readBook(t, res.Path).SheetNames())
}

func TestBatchMergeUnequalWidths(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeBook(t, dir, "w1_SPLIT.xlsx", sheet("S", row("a", "b"), row(1, 2))),
		writeBook(t, dir, "w2_SPLIT.xlsx", sheet("S", row("c"), row(3))),
	}

	res := BatchMerge(files, dir, DefaultOptions())
	require.True(t, res.OK, res.Error())
	s, _ := readBook(t, filepath.Join(dir, "MERGE_BATCH_1.xlsx")).Sheet("S")
	assert.Equal(t, []string{"w1", "w1", "w2"}, texts(s.Rows[0]))

	strict := DefaultOptions()
	strict.StrictWidths = true
	res = BatchMerge(files, dir, strict)
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrShape)
}

func TestBatchMergeEmptyIntersection(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeBook(t, dir, "e1_SPLIT.xlsx", sheet("A", row(1))),
		writeBook(t, dir, "e2_SPLIT.xlsx", sheet("B", row(2))),
	}

	res := BatchMerge(files, dir, DefaultOptions())
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrEmptyResult)
	_, err := os.Stat(filepath.Join(dir, "MERGE_BATCH_1.xlsx"))
	assert.True(t, os.IsNotExist(err))
}

func TestBatchMergeFailureKeepsEarlierBatches(t *testing.T) {
	dir := t.TempDir()
	good := writeBook(t, dir, "g_SPLIT.xlsx", sheet("A", row(1, 2)))
	bad := filepath.Join(dir, "bad_SPLIT.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0o644))

	opts := DefaultOptions()
	opts.BatchSize = 1
	res := BatchMerge([]string{good, bad}, dir, opts)

	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrParse)
	assert.NotEmpty(t, res.Error())
	assert.FileExists(t, filepath.Join(dir, "MERGE_BATCH_1.xlsx"))
	assert.NoFileExists(t, filepath.Join(dir, "ALL_MERGED.xlsx"))
}

func TestBatchMergeNoInputs(t *testing.T) {
	res := BatchMerge(nil, t.TempDir(), DefaultOptions())
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrNoInputs)
}
