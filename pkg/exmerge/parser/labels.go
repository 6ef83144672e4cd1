package parser

import (
	"regexp"
	"strings"

	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
)

// HeaderRow is the 0-based row that carries block labels.
const HeaderRow = 1

// labelPattern matches text that starts with a non-empty prefix followed by
// a parenthesized integer, e.g. "Speed(10)". Trailing text is allowed.
var labelPattern = regexp.MustCompile(`^.+\(\d+\)`)

// IsLabel reports whether a header cell qualifies as a block label.
// Only text cells can be labels.
func IsLabel(c models.Cell) bool {
	if c.Kind != models.CellText {
		return false
	}
	return labelPattern.MatchString(strings.TrimSpace(c.Text))
}

// LabelColumns returns the even column indexes whose header cell is a label
// and which have a partner column c+1 inside the sheet.
func LabelColumns(s *models.Sheet) []int {
	width := s.Width()
	var cols []int
	for c := 0; c+1 < width; c += 2 {
		if IsLabel(s.Cell(HeaderRow, c)) {
			cols = append(cols, c)
		}
	}
	return cols
}

// PairEmpty reports whether columns c and c+1 hold no value in any row.
func PairEmpty(s *models.Sheet, c int) bool {
	for r := 0; r < s.Height(); r++ {
		if !s.Cell(r, c).IsEmpty() || !s.Cell(r, c+1).IsEmpty() {
			return false
		}
	}
	return true
}

// HeaderText returns the trimmed header text at column c, rendering numbers
// as plain text. Empty cells yield "".
func HeaderText(s *models.Sheet, c int) string {
	return strings.TrimSpace(s.Cell(HeaderRow, c).String())
}
