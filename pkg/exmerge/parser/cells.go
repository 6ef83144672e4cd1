// Package parser provides excelize-backed workbook reading and label
// detection for the split and merge pipeline.
package parser

import (
	"path/filepath"
	"strconv"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/xuri/excelize/v2"
)

// Book is an open workbook file.
type Book struct {
	path string
	f    *excelize.File
}

// OpenBook opens the workbook at path. The caller must Close it.
func OpenBook(path string) (*Book, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &Book{path: path, f: f}, nil
}

// Close releases the underlying file.
func (b *Book) Close() error {
	return b.f.Close()
}

// SheetNames returns the sheet names in workbook order.
func (b *Book) SheetNames() []string {
	return b.f.GetSheetList()
}

// ReadSheet loads one sheet as a typed grid. Trailing empty rows are kept
// only up to the last row that holds a value.
func (b *Book) ReadSheet(sheetName string) (models.Sheet, error) {
	rows, err := b.f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Sheet{}, err
	}

	sheet := models.Sheet{Name: sheetName, Rows: make([][]models.Cell, len(rows))}
	for rowIdx, row := range rows {
		cells := make([]models.Cell, len(row))
		for colIdx, raw := range row {
			cells[colIdx] = b.cellValue(sheetName, colIdx+1, rowIdx+1, raw)
		}
		sheet.Rows[rowIdx] = cells
	}
	return sheet, nil
}

// ReadWorkbook loads every sheet, keeping workbook order.
func (b *Book) ReadWorkbook() (*models.Workbook, error) {
	wb := &models.Workbook{BookName: filepath.Base(b.path)}
	for _, name := range b.SheetNames() {
		sheet, err := b.ReadSheet(name)
		if err != nil {
			return nil, err
		}
		wb.Add(sheet)
	}
	return wb, nil
}

// cellValue types a raw cell string. Values that look numeric are only
// treated as numbers when the stored cell is not a string cell.
func (b *Book) cellValue(sheetName string, col, row int, raw string) models.Cell {
	v := parseValue(raw)
	switch v := v.(type) {
	case nil:
		return models.Empty()
	case string:
		return models.Text(v)
	case float64:
		cellName, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return models.Number(v)
		}
		t, err := b.f.GetCellType(sheetName, cellName)
		if err == nil && isStringType(t) {
			return models.Text(raw)
		}
		return models.Number(v)
	}
	return models.Text(raw)
}

func isStringType(t excelize.CellType) bool {
	switch t {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return true
	}
	return false
}

// ReadWorkbook opens path, loads every sheet and closes the file.
func ReadWorkbook(path string) (*models.Workbook, error) {
	b, err := OpenBook(path)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return b.ReadWorkbook()
}

// ReadSheet opens path, loads a single sheet and closes the file.
func ReadSheet(path, sheetName string) (models.Sheet, error) {
	b, err := OpenBook(path)
	if err != nil {
		return models.Sheet{}, err
	}
	defer b.Close()
	return b.ReadSheet(sheetName)
}

// SheetNames opens path and returns its sheet names in workbook order.
func SheetNames(path string) ([]string, error) {
	b, err := OpenBook(path)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return b.SheetNames(), nil
}

// parseValue attempts to parse a raw string value as a number.
// Returns nil for an empty string, float64 for numbers, or the original string.
func parseValue(s string) interface{} {
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
