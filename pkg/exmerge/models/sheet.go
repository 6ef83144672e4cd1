package models

// Sheet is a named 2-D grid of cells. Rows may be ragged; missing cells
// read as empty.
type Sheet struct {
	// Name is the sheet name as stored in the workbook.
	Name string `json:"name"`
	// Rows holds the cell grid, row-major, 0-based.
	Rows [][]Cell `json:"rows"`
}

// Height returns the number of rows.
func (s *Sheet) Height() int {
	return len(s.Rows)
}

// Width returns the length of the longest row.
func (s *Sheet) Width() int {
	width := 0
	for _, row := range s.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Cell returns the cell at (row, col), or an empty cell when out of range.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) {
		return Empty()
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return Empty()
	}
	return r[col]
}

// Columns returns a new sheet holding columns [from, to) of every row.
// Each returned row has exactly to-from cells.
func (s *Sheet) Columns(name string, from, to int) Sheet {
	out := Sheet{Name: name, Rows: make([][]Cell, len(s.Rows))}
	for i := range s.Rows {
		row := make([]Cell, to-from)
		for c := from; c < to; c++ {
			row[c-from] = s.Cell(i, c)
		}
		out.Rows[i] = row
	}
	return out
}

// Rename returns a copy of the sheet under a different name. Rows are shared.
func (s Sheet) Rename(name string) Sheet {
	s.Name = name
	return s
}

// ConcatColumns joins sheets side by side by row index. Each part is padded
// to its own width so that later parts keep their column offsets; rows
// missing from shorter parts are filled with empty cells.
func ConcatColumns(name string, parts []Sheet) Sheet {
	height := 0
	widths := make([]int, len(parts))
	total := 0
	for i := range parts {
		if h := parts[i].Height(); h > height {
			height = h
		}
		widths[i] = parts[i].Width()
		total += widths[i]
	}

	out := Sheet{Name: name, Rows: make([][]Cell, height)}
	for r := 0; r < height; r++ {
		row := make([]Cell, 0, total)
		for i := range parts {
			for c := 0; c < widths[i]; c++ {
				row = append(row, parts[i].Cell(r, c))
			}
		}
		out.Rows[r] = row
	}
	return out
}
