// Package writer streams models.Sheet grids into a new workbook file.
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize.NewFile creates.
const defaultSheet = "Sheet1"

// ErrDuplicateSheet is returned when a sheet name is already in use.
// Names are compared case-insensitively, as the file format requires.
var ErrDuplicateSheet = errors.New("duplicate sheet name")

// ErrInvalidSheetName is returned when the workbook rejects a sheet name.
var ErrInvalidSheetName = errors.New("invalid sheet name")

// ErrNoSheets is returned when saving a workbook that has no sheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// Writer accumulates sheets and writes the file only on Save.
type Writer struct {
	f     *excelize.File
	used  map[string]struct{}
	count int
}

// New creates an empty workbook writer.
func New() *Writer {
	return &Writer{
		f:    excelize.NewFile(),
		used: make(map[string]struct{}),
	}
}

// Has reports whether a sheet name is already taken.
func (w *Writer) Has(name string) bool {
	_, ok := w.used[strings.ToLower(name)]
	return ok
}

// Len returns the number of sheets written so far.
func (w *Writer) Len() int {
	return w.count
}

// AddSheet writes a sheet's rows through a stream writer.
func (w *Writer) AddSheet(sheet models.Sheet) error {
	if w.Has(sheet.Name) {
		return fmt.Errorf("%w: %q", ErrDuplicateSheet, sheet.Name)
	}

	if w.count == 0 {
		if err := w.f.SetSheetName(defaultSheet, sheet.Name); err != nil {
			return fmt.Errorf("%w: rename sheet %q: %w", ErrInvalidSheetName, sheet.Name, err)
		}
	} else if _, err := w.f.NewSheet(sheet.Name); err != nil {
		return fmt.Errorf("%w: create sheet %q: %w", ErrInvalidSheetName, sheet.Name, err)
	}
	w.used[strings.ToLower(sheet.Name)] = struct{}{}
	w.count++

	sw, err := w.f.NewStreamWriter(sheet.Name)
	if err != nil {
		return fmt.Errorf("stream writer for %q: %w", sheet.Name, err)
	}

	for i, row := range sheet.Rows {
		values := make([]interface{}, len(row))
		for j, c := range row {
			values[j] = c.Value()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d of %q: %w", i+1, sheet.Name, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush %q: %w", sheet.Name, err)
	}
	return nil
}

// Save writes the workbook to path. The first sheet becomes active.
func (w *Writer) Save(path string) error {
	if w.count == 0 {
		return ErrNoSheets
	}
	w.f.SetActiveSheet(0)
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Close discards the in-memory workbook.
func (w *Writer) Close() error {
	return w.f.Close()
}

// WriteWorkbook writes every sheet of wb to path in order.
func WriteWorkbook(path string, wb *models.Workbook) error {
	w := New()
	defer w.Close()

	for _, sheet := range wb.Sheets {
		if err := w.AddSheet(sheet); err != nil {
			return err
		}
	}
	return w.Save(path)
}
