package sample

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ppiankov/psbfold/internal/model"
	"github.com/xuri/excelize/v2"
)

// TemplateFile is the name of the blank template workbook
const TemplateFile = "PSB_Template.xlsx"

var valueColumns = []string{"C", "D", "E", "F", "G", "H"}

// Generator writes synthetic status report workbooks that follow a layout
type Generator struct {
	layout model.Layout
	style  Style
}

// NewGenerator creates a generator for the given layout and style
func NewGenerator(layout model.Layout, style Style) *Generator {
	return &Generator{layout: layout, style: style}
}

// WriteSamples writes one workbook per built-in project into dir
func (g *Generator) WriteSamples(dir string) ([]string, error) {
	return g.WriteProjects(dir, Projects())
}

// WriteProjects writes one workbook per project into dir
func (g *Generator) WriteProjects(dir string, projects []Project) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create sample directory: %w", err)
	}

	paths := make([]string, 0, len(projects))
	for _, p := range projects {
		path := filepath.Join(dir, p.FileName())
		if err := g.WriteProject(path, p); err != nil {
			return paths, fmt.Errorf("write %s: %w", p.FileName(), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteProject writes a filled-in status report for p to path
func (g *Generator) WriteProject(path string, p Project) error {
	return g.write(path, func(w *sheetWriter) {
		w.metadata(p)
		row := w.indicators(p.Indicators, g.layout.Indicators.FirstRow, 0)
		row = w.measures(p.Measures, row, 0)
		row = w.textBlock(g.layout.Comment.Label+" / Explanation", p.Comment, row)
		w.textBlock(g.layout.Description.Label, p.ShortDescription, row)
	})
}

// WriteTemplate writes the blank template into dir
func (g *Generator) WriteTemplate(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create template directory: %w", err)
	}

	path := filepath.Join(dir, TemplateFile)
	err := g.write(path, func(w *sheetWriter) {
		row := w.indicators(nil, g.layout.Indicators.FirstRow, 2)
		row = w.measures(nil, row, 2)
		w.section(g.layout.Comment.Label+" / Explanation", row)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (g *Generator) write(path string, fill func(w *sheetWriter)) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	sheet := g.layout.Sheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	ids, err := g.style.register(f)
	if err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: sheet, layout: g.layout, ids: ids}
	w.frame(g.style)
	fill(w)
	if w.err != nil {
		return w.err
	}

	return f.SaveAs(path)
}

// sheetWriter keeps the first error so the layout code reads top to bottom
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	layout model.Layout
	ids    styleIDs
	err    error
}

func cellRef(col string, row int) string {
	return col + strconv.Itoa(row)
}

func (w *sheetWriter) set(col string, row int, v interface{}) {
	if w.err != nil || v == nil {
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cellRef(col, row), v)
}

func (w *sheetWriter) style(from, to string, id int) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, from, to, id)
}

func (w *sheetWriter) merge(from, to string) {
	if w.err != nil {
		return
	}
	w.err = w.f.MergeCell(w.sheet, from, to)
}

// frame writes the title, column widths and metadata labels
func (w *sheetWriter) frame(s Style) {
	for i, width := range s.ColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if w.err == nil {
			w.err = w.f.SetColWidth(w.sheet, col, col, width)
		}
	}

	w.merge("A1", "H1")
	w.set("A", 1, "Project Status Report (PSB)")
	w.style("A1", "A1", w.ids.title)

	rows := w.layout.Metadata
	labels := []struct {
		row   int
		label string
	}{
		{rows.ID, "Project ID:"},
		{rows.Title, "Project title:"},
		{rows.Chapter, "Chapter:"},
		{rows.Sponsor, "Sponsor:"},
		{rows.PeriodStart, "Period from:"},
		{rows.PeriodEnd, "Period to:"},
		{rows.BudgetTotal, "Budget total (EUR):"},
		{rows.BudgetConsumed, "Budget consumed (EUR):"},
		{rows.Charter, "Project charter present:"},
		{rows.ReportingPeriod, "Reporting period:"},
		{rows.Status, "Status:"},
	}
	for _, l := range labels {
		w.set(w.layout.LabelColumn, l.row, l.label)
		ref := cellRef(w.layout.LabelColumn, l.row)
		w.style(ref, ref, w.ids.label)
	}
}

func (w *sheetWriter) metadata(p Project) {
	rows := w.layout.Metadata
	col := w.layout.ValueColumn

	w.set(col, rows.ID, p.ID)
	w.set(col, rows.Title, p.Title)
	w.set(col, rows.Chapter, p.Chapter)
	w.set(col, rows.Sponsor, p.Sponsor)
	w.set(col, rows.PeriodStart, p.PeriodStart)
	w.set(col, rows.PeriodEnd, p.PeriodEnd)
	if p.BudgetTotal != nil {
		w.set(col, rows.BudgetTotal, *p.BudgetTotal)
	}
	if p.BudgetConsumed != nil {
		w.set(col, rows.BudgetConsumed, *p.BudgetConsumed)
	}
	w.style(cellRef(col, rows.BudgetTotal), cellRef(col, rows.BudgetConsumed), w.ids.amount)
	w.set(col, rows.Charter, p.Charter)
	w.set(col, rows.ReportingPeriod, p.ReportingPeriod)
	w.set(col, rows.Status, p.Status)

	status := model.ParseStatusColor(p.Status, w.layout.Vocabulary)
	if id, ok := w.ids.status[status]; ok {
		ref := cellRef(col, rows.Status)
		w.style(ref, ref, id)
	}
}

// section writes a merged, filled section title row
func (w *sheetWriter) section(title string, row int) {
	w.merge(cellRef("A", row), cellRef("H", row))
	w.set("A", row, title)
	w.style(cellRef("A", row), cellRef("A", row), w.ids.section)
}

// header writes a table header row
func (w *sheetWriter) header(row int, labels []string) {
	for i, label := range labels {
		col, _ := excelize.ColumnNumberToName(i + 1)
		w.set(col, row, label)
	}
	last, _ := excelize.ColumnNumberToName(len(labels))
	w.style(cellRef("A", row), cellRef(last, row), w.ids.header)
}

// indicators writes the indicator table starting at row and returns the
// row after the trailing blank line. blank reserves empty data rows.
func (w *sheetWriter) indicators(inds []Indicator, row, blank int) int {
	layout := w.layout.Indicators
	w.section(layout.Anchor+"s", row)
	row++

	labels := []string{layout.Anchor, layout.Header}
	for i := 0; i < layout.Columns && i < len(w.layout.Years); i++ {
		year := strconv.Itoa(w.layout.Years[i])
		labels = append(labels, "Target "+year)
		if i < layout.Columns-1 {
			labels = append(labels, "Actual "+year)
		}
	}
	w.header(row, labels)
	row++

	last, _ := excelize.ColumnNumberToName(len(labels))
	for _, ind := range inds {
		w.set("A", row, ind.Name)
		w.set("B", row, ind.Unit)
		for i, v := range ind.Values {
			if v != nil && i < len(valueColumns) {
				w.set(valueColumns[i], row, *v)
			}
		}
		w.style(cellRef("A", row), cellRef("B", row), w.ids.cell)
		w.style(cellRef("C", row), cellRef(last, row), w.ids.number)
		row++
	}
	return row + blank + 1
}

// measures writes the measure table starting at row
func (w *sheetWriter) measures(ms []Measure, row, blank int) int {
	layout := w.layout.Measures
	w.section(layout.Anchor+"s", row)
	row++

	w.header(row, []string{layout.Anchor, layout.Header, "Due date"})
	row++

	for _, m := range ms {
		w.set("A", row, m.Name)
		w.set("B", row, m.Status)
		w.set("C", row, m.DueDate)
		w.style(cellRef("A", row), cellRef("C", row), w.ids.cell)
		row++
	}
	return row + blank + 1
}

// textBlock writes a section title and a merged free-text area below it
func (w *sheetWriter) textBlock(title, text string, row int) int {
	w.section(title, row)
	row++

	w.merge(cellRef("A", row), cellRef("H", row+2))
	w.set("A", row, text)
	w.style(cellRef("A", row), cellRef("A", row), w.ids.text)
	return row + 4
}
