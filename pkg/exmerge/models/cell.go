// Package models defines the in-memory workbook representation used by the
// split and merge pipeline.
package models

import "strconv"

// CellKind tags the variant held by a Cell.
type CellKind uint8

const (
	// CellEmpty is a missing or blank cell.
	CellEmpty CellKind = iota
	// CellText holds a string value.
	CellText
	// CellNumber holds a numeric value.
	CellNumber
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	default:
		return "empty"
	}
}

// Cell is a single typed cell value.
type Cell struct {
	// Kind selects which of Text or Number is meaningful.
	Kind CellKind `json:"kind"`
	// Text is set when Kind is CellText.
	Text string `json:"text,omitempty"`
	// Number is set when Kind is CellNumber.
	Number float64 `json:"number,omitempty"`
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{}
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// Number returns a numeric cell.
func Number(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String renders the cell the way it would appear as plain text.
// Integral numbers print without a fractional part.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Value returns the cell as a value suitable for a spreadsheet writer:
// nil for empty cells, string for text and float64 for numbers.
func (c Cell) Value() interface{} {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return c.Number
	default:
		return nil
	}
}
