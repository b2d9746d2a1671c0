package sample

import (
	"fmt"

	"github.com/ppiankov/psbfold/internal/model"
	"github.com/xuri/excelize/v2"
)

// Style is the visual configuration of generated workbooks. It is passed by
// value and never modified after construction.
type Style struct {
	TitleSize    float64
	HeaderFill   string
	HeaderFont   string
	SectionFill  string
	BorderColor  string
	StatusGreen  string
	StatusYellow string
	StatusRed    string
	ColumnWidths [8]float64 // Columns A..H
}

// DefaultStyle returns the standard report look
func DefaultStyle() Style {
	return Style{
		TitleSize:    14,
		HeaderFill:   "4472C4",
		HeaderFont:   "FFFFFF",
		SectionFill:  "D9E2F3",
		BorderColor:  "000000",
		StatusGreen:  "00B050",
		StatusYellow: "FFC000",
		StatusRed:    "FF0000",
		ColumnWidths: [8]float64{35, 20, 15, 15, 15, 15, 15, 40},
	}
}

// StatusFill returns the fill color for a status cell
func (s Style) StatusFill(status model.StatusColor) (string, bool) {
	switch status {
	case model.StatusGreen:
		return s.StatusGreen, true
	case model.StatusYellow:
		return s.StatusYellow, true
	case model.StatusRed:
		return s.StatusRed, true
	default:
		return "", false
	}
}

// styleIDs are the excelize style handles registered for one workbook
type styleIDs struct {
	title   int
	label   int
	section int
	header  int
	cell    int
	amount  int
	number  int
	text    int
	status  map[model.StatusColor]int
}

type styleDef struct {
	dst   *int
	style *excelize.Style
}

func (s Style) register(f *excelize.File) (styleIDs, error) {
	border := []excelize.Border{
		{Type: "left", Color: s.BorderColor, Style: 1},
		{Type: "right", Color: s.BorderColor, Style: 1},
		{Type: "top", Color: s.BorderColor, Style: 1},
		{Type: "bottom", Color: s.BorderColor, Style: 1},
	}
	oneDecimal := "#,##0.0"

	var ids styleIDs
	defs := []styleDef{
		{&ids.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: s.TitleSize},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&ids.label, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&ids.section, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 11},
			Fill: excelize.Fill{Type: "pattern", Color: []string{s.SectionFill}, Pattern: 1},
		}},
		{&ids.header, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 11, Color: s.HeaderFont},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{s.HeaderFill}, Pattern: 1},
			Border: border,
		}},
		{&ids.cell, &excelize.Style{Border: border}},
		{&ids.number, &excelize.Style{Border: border, CustomNumFmt: &oneDecimal}},
		{&ids.amount, &excelize.Style{NumFmt: 3}},
		{&ids.text, &excelize.Style{
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		}},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return styleIDs{}, fmt.Errorf("register style: %w", err)
		}
		*d.dst = id
	}

	ids.status = make(map[model.StatusColor]int)
	for _, status := range []model.StatusColor{model.StatusGreen, model.StatusYellow, model.StatusRed} {
		color, _ := s.StatusFill(status)
		font := &excelize.Font{}
		if status == model.StatusRed {
			font = &excelize.Font{Bold: true, Color: "FFFFFF"}
		}
		id, err := f.NewStyle(&excelize.Style{
			Font: font,
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return styleIDs{}, fmt.Errorf("register status style: %w", err)
		}
		ids.status[status] = id
	}

	return ids, nil
}
