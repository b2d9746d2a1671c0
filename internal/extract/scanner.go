package extract

import "strings"

// RowPredicate tests one row of a grid
type RowPredicate func(g Grid, row int) bool

// Section describes a variable-length table: where to look for its header,
// how to recognize the header, when the data ends and how many rows to read
// at most.
type Section struct {
	Name    string
	From    int // First row of the anchor search window
	To      int // Last row of the anchor search window, inclusive
	Anchor  RowPredicate
	Stop    RowPredicate
	MaxRows int
}

// Span is the located extent of a section
type Span struct {
	Header int   // Row holding the anchor
	Rows   []int // Data rows in source order
	Next   int   // First row not consumed by the section
	Capped bool  // Data continued past MaxRows
}

// Scan looks for the first anchor row in the section window and collects
// the data rows below it until Stop matches or MaxRows rows were read.
func Scan(g Grid, s Section) (Span, bool) {
	for row := s.From; row <= s.To; row++ {
		if !s.Anchor(g, row) {
			continue
		}

		span := Span{Header: row, Next: row + 1}
		for r := row + 1; r <= row+s.MaxRows; r++ {
			if s.Stop != nil && s.Stop(g, r) {
				return span, true
			}
			span.Rows = append(span.Rows, r)
			span.Next = r + 1
		}
		span.Capped = s.Stop == nil || !s.Stop(g, span.Next)
		return span, true
	}
	return Span{}, false
}

// FindLabel returns the first row in [from, to] whose label cell contains label
func FindLabel(g Grid, col, label string, from, to int) (int, bool) {
	pred := LabelContains(col, label)
	for row := from; row <= to; row++ {
		if pred(g, row) {
			return row, true
		}
	}
	return 0, false
}

// LabelContains matches rows whose label cell contains substr
func LabelContains(col, substr string) RowPredicate {
	return func(g Grid, row int) bool {
		label := Text(g, col, row)
		return label != "" && strings.Contains(label, substr)
	}
}

// HeaderRow matches rows whose label contains anchor while the cell right of
// the label equals header exactly
func HeaderRow(col, anchor, header string) RowPredicate {
	next, err := ShiftColumn(col, 1)
	if err != nil {
		return func(Grid, int) bool { return false }
	}
	contains := LabelContains(col, anchor)
	return func(g Grid, row int) bool {
		return contains(g, row) && Text(g, next, row) == header
	}
}

// BlankLabel matches rows with an empty label cell
func BlankLabel(col string) RowPredicate {
	return func(g Grid, row int) bool {
		return Text(g, col, row) == ""
	}
}

// AnyOf matches when at least one predicate matches
func AnyOf(preds ...RowPredicate) RowPredicate {
	return func(g Grid, row int) bool {
		for _, p := range preds {
			if p(g, row) {
				return true
			}
		}
		return false
	}
}
