package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/psbfold/internal/model"
	"github.com/xuri/excelize/v2"
)

// Grid gives cell access to one sheet. Rows are 1-based, columns use letters.
// Value is the data view used for numbers; Display is the cell as a reader
// sees it, with number formats such as dates applied.
type Grid interface {
	Value(col string, row int) model.Value
	Display(col string, row int) model.Value
}

// Text returns the trimmed displayed content of a cell, or "" when blank
func Text(g Grid, col string, row int) string {
	return g.Display(col, row).String()
}

// ShiftColumn returns the column n places to the right of col
func ShiftColumn(col string, n int) (string, error) {
	num, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return "", err
	}
	return excelize.ColumnNumberToName(num + n)
}

// Workbook is a Grid over one sheet of an opened xlsx file
type Workbook struct {
	file  *excelize.File
	sheet string
	err   error
}

// OpenWorkbook opens path and selects sheet. The caller must Close it.
func OpenWorkbook(path, sheet string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &model.DocumentError{Path: path, Err: err}
	}

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		_ = f.Close()
		return nil, &model.DocumentError{
			Path: path,
			Err:  fmt.Errorf("%w: %q", model.ErrSheetNotFound, sheet),
		}
	}

	return &Workbook{file: f, sheet: sheet}, nil
}

// Value reads one cell. Numeric cells keep their raw value so number formats
// do not leak into the data; everything else uses the displayed text.
func (w *Workbook) Value(col string, row int) model.Value {
	if w.err != nil {
		return model.Value{}
	}

	cell := col + strconv.Itoa(row)
	typ, err := w.file.GetCellType(w.sheet, cell)
	if err != nil {
		w.err = fmt.Errorf("cell %s: %w", cell, err)
		return model.Value{}
	}

	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		raw, err := w.file.GetCellValue(w.sheet, cell, excelize.Options{RawCellValue: true})
		if err != nil {
			w.err = fmt.Errorf("cell %s: %w", cell, err)
			return model.Value{}
		}
		if strings.TrimSpace(raw) == "" {
			return model.Value{}
		}
		if _, perr := strconv.ParseFloat(raw, 64); perr == nil {
			return model.Value{Kind: model.KindNumber, Raw: raw}
		}
		return model.Text(raw)
	default:
		text, err := w.file.GetCellValue(w.sheet, cell)
		if err != nil {
			w.err = fmt.Errorf("cell %s: %w", cell, err)
			return model.Value{}
		}
		return model.Text(text)
	}
}

// Display reads one cell as formatted text, so a date cell yields its date
// rather than the serial number behind it
func (w *Workbook) Display(col string, row int) model.Value {
	if w.err != nil {
		return model.Value{}
	}

	cell := col + strconv.Itoa(row)
	text, err := w.file.GetCellValue(w.sheet, cell)
	if err != nil {
		w.err = fmt.Errorf("cell %s: %w", cell, err)
		return model.Value{}
	}
	return model.Text(text)
}

// Err returns the first read error, if any
func (w *Workbook) Err() error {
	return w.err
}

// Close releases the underlying file
func (w *Workbook) Close() error {
	return w.file.Close()
}

// MemoryGrid is an in-memory Grid keyed by cell reference such as "B3"
type MemoryGrid map[string]model.Value

// Set stores v at col/row
func (m MemoryGrid) Set(col string, row int, v model.Value) {
	m[col+strconv.Itoa(row)] = v
}

// Value implements Grid
func (m MemoryGrid) Value(col string, row int) model.Value {
	return m[col+strconv.Itoa(row)]
}

// Display implements Grid. Cells hold no formats, so it equals Value.
func (m MemoryGrid) Display(col string, row int) model.Value {
	return m.Value(col, row)
}

// gridErr returns the deferred read error of grids that track one
func gridErr(g Grid) error {
	if eg, ok := g.(interface{ Err() error }); ok {
		return eg.Err()
	}
	return nil
}
