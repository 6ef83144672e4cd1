package exmerge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/parser"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/writer"
)

// row builds a row from strings, float64s and nils.
func row(values ...interface{}) []models.Cell {
	cells := make([]models.Cell, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case nil:
			cells[i] = models.Empty()
		case string:
			cells[i] = models.Text(v)
		case float64:
			cells[i] = models.Number(v)
		case int:
			cells[i] = models.Number(float64(v))
		}
	}
	return cells
}

func sheet(name string, rows ...[]models.Cell) models.Sheet {
	return models.Sheet{Name: name, Rows: rows}
}

// writeBook saves sheets to dir/name and returns the path.
func writeBook(t *testing.T, dir, name string, sheets ...models.Sheet) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, writer.WriteWorkbook(path, &models.Workbook{Sheets: sheets}))
	return path
}

func readBook(t *testing.T, path string) *models.Workbook {
	t.Helper()
	wb, err := parser.ReadWorkbook(path)
	require.NoError(t, err)
	return wb
}

// texts renders a row as strings for compact assertions.
func texts(cells []models.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}

// recorder captures callback invocations.
type recorder struct {
	progress [][2]int
	status   []string
}

func (r *recorder) options() Options {
	opts := DefaultOptions()
	opts.OnProgress = func(done, total int) { r.progress = append(r.progress, [2]int{done, total}) }
	opts.OnStatus = func(msg string) { r.status = append(r.status, msg) }
	return opts
}
