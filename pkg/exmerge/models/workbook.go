package models

// Workbook is an ordered collection of uniquely named sheets.
type Workbook struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets holds the sheets in workbook order.
	Sheets []Sheet `json:"sheets"`
}

// SheetNames returns sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i := range w.Sheets {
		names[i] = w.Sheets[i].Name
	}
	return names
}

// Sheet looks up a sheet by exact name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}

// Add appends a sheet.
func (w *Workbook) Add(s Sheet) {
	w.Sheets = append(w.Sheets, s)
}
