package exmerge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEndToEnd(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	raw := func(name string, offset int) string {
		return writeBook(t, in, name,
			sheet("Summary", row("device", name)),
			sheet("Sweep Run",
				row("hz", "db", "hz", "db"),
				row("Gain(1)", nil, "Gain(2)", nil),
				row(100, offset, 200, offset+1),
			),
		)
	}
	inputs := []string{raw("dut1.xlsx", 10), raw("dut2.xlsx", 20), raw("dut3.xlsx", 30)}
	bad := filepath.Join(in, "broken.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0o644))
	inputs = append(inputs, bad)

	opts := DefaultOptions()
	opts.BatchSize = 2

	res, err := Run(context.Background(), inputs, out, opts)
	require.NoError(t, err)
	require.Len(t, res.Partitions, 4)
	assert.ErrorIs(t, res.Partitions[3].Err, ErrParse)
	require.True(t, res.Merge.OK, res.Merge.Error())

	final := readBook(t, res.Merge.Path)
	assert.Equal(t, []string{"Summary", "Sweep_R_Gain(1)", "Sweep_R_Gain(2)"}, final.SheetNames())

	g2, _ := final.Sheet("Sweep_R_Gain(2)")
	assert.Equal(t, []string{"dut1", "dut1", "dut2", "dut2", "dut3", "dut3"}, texts(g2.Rows[0]))
	assert.Equal(t, []string{"200", "11", "200", "21", "200", "31"}, texts(g2.Rows[3]))

	assert.FileExists(t, filepath.Join(out, "MERGE_BATCH_2.xlsx"))
	assert.NoFileExists(t, filepath.Join(out, "MERGE_BATCH_3.xlsx"))
}

func TestRunAllInputsFail(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "x.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0o644))

	res, err := Run(context.Background(), []string{bad}, dir, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.Merge.OK)
	assert.ErrorIs(t, res.Merge.Err, ErrNoInputs)
}
