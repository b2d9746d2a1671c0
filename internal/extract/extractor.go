package extract

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/ppiankov/psbfold/internal/model"
	"github.com/ppiankov/psbfold/internal/validate"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Extractor turns one status report workbook into a validated ProjectRecord
type Extractor struct {
	layout    model.Layout
	validator *validate.Validator
	logger    *slog.Logger

	valueCol   string
	indicators Section
	measures   Section
}

// NewExtractor creates an extractor for the given template layout.
// A nil validator skips the quality checks.
func NewExtractor(layout model.Layout, validator *validate.Validator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	label := layout.LabelColumn
	measureHeader := HeaderRow(label, layout.Measures.Anchor, layout.Measures.Header)

	return &Extractor{
		layout:    layout,
		validator: validator,
		logger:    logger,
		valueCol:  layout.ValueColumn,
		indicators: Section{
			Name:    "indicators",
			From:    layout.Indicators.FirstRow,
			To:      layout.Indicators.LastRow,
			Anchor:  HeaderRow(label, layout.Indicators.Anchor, layout.Indicators.Header),
			Stop:    AnyOf(BlankLabel(label), measureHeader),
			MaxRows: layout.Indicators.MaxRows,
		},
		measures: Section{
			Name:    "measures",
			To:      layout.Measures.LastRow,
			Anchor:  measureHeader,
			Stop:    AnyOf(BlankLabel(label), LabelContains(label, layout.Measures.StopLabel)),
			MaxRows: layout.Measures.MaxRows,
		},
	}
}

// ExtractFile opens path, extracts its record and closes the file again on
// every path. Failures are returned as *model.DocumentError.
func (e *Extractor) ExtractFile(path string) (rec *model.ProjectRecord, err error) {
	wb, err := OpenWorkbook(path, e.layout.Sheet)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := wb.Close(); closeErr != nil && err == nil {
			err = &model.DocumentError{Path: path, Err: fmt.Errorf("close: %w", closeErr)}
			rec = nil
		}
	}()

	rec, err = e.Extract(wb, filepath.Base(path))
	if err != nil {
		return nil, &model.DocumentError{Path: path, Err: err}
	}
	return rec, nil
}

// Extract reads a record from g and runs the quality checks on it
func (e *Extractor) Extract(g Grid, source string) (*model.ProjectRecord, error) {
	rec := model.NewProjectRecord(source)

	e.readMetadata(g, rec)

	measuresFrom := e.layout.Measures.FirstRow
	if span, ok := e.scan(g, e.indicators, source); ok {
		rec.Indicators = e.readIndicators(g, span)
		measuresFrom = span.Next
	}

	textFrom := 0
	measures := e.measures
	measures.From = measuresFrom
	if span, ok := e.scan(g, measures, source); ok {
		rec.Measures = e.readMeasures(g, span)
		textFrom = span.Header + 1
	}

	rec.Comment = e.readText(g, e.layout.Comment, textFrom)
	rec.ShortDescription = e.readText(g, e.layout.Description, textFrom)

	if err := gridErr(g); err != nil {
		return nil, err
	}

	if e.validator != nil {
		e.validator.Validate(rec)
	}
	return rec, nil
}

func (e *Extractor) scan(g Grid, s Section, source string) (Span, bool) {
	span, ok := Scan(g, s)
	if !ok {
		e.logger.Debug("section not found", "file", source, "section", s.Name, "from", s.From, "to", s.To)
		return span, false
	}
	if span.Capped {
		e.logger.Warn("section truncated", "file", source, "section", s.Name, "max_rows", s.MaxRows)
	}
	return span, true
}

func (e *Extractor) readMetadata(g Grid, rec *model.ProjectRecord) {
	rows := e.layout.Metadata
	vocab := e.layout.Vocabulary
	text := func(row int) string { return Text(g, e.valueCol, row) }
	optional := func(row int) *string {
		v := g.Display(e.valueCol, row)
		if !v.Present() {
			return nil
		}
		return model.StringPtr(v.String())
	}

	rec.ID = text(rows.ID)
	rec.Title = optional(rows.Title)
	rec.Chapter = optional(rows.Chapter)
	rec.Sponsor = optional(rows.Sponsor)
	rec.PeriodStart = optional(rows.PeriodStart)
	rec.PeriodEnd = optional(rows.PeriodEnd)
	rec.BudgetTotal = e.number(g, rows.BudgetTotal, rec.SourceFile, "budget_total")
	rec.BudgetConsumed = e.number(g, rows.BudgetConsumed, rec.SourceFile, "budget_consumed")
	rec.HasCharter = model.ParseCharter(text(rows.Charter), vocab)
	rec.StatusColor = model.ParseStatusColor(text(rows.Status), vocab)

	// Validated as typed: surrounding blanks are a format defect too
	if v := g.Display(e.valueCol, rows.ReportingPeriod); v.Present() {
		rec.ReportingPeriod = model.StringPtr(v.Raw)
	}
}

func (e *Extractor) number(g Grid, row int, source, field string) *float64 {
	v := g.Value(e.valueCol, row)
	if !v.Present() {
		return nil
	}
	f := v.FloatPtr()
	if f == nil {
		e.logger.Debug("non-numeric value ignored", "file", source, "field", field, "value", v.Raw)
	}
	return f
}

func (e *Extractor) readIndicators(g Grid, span Span) []model.Indicator {
	label := e.layout.LabelColumn
	years := e.indicatorYears(g, span.Header)

	indicators := make([]model.Indicator, 0, len(span.Rows))
	for _, row := range span.Rows {
		ind := model.Indicator{
			Name:  Text(g, label, row),
			Unit:  Text(g, e.valueCol, row),
			Years: make([]model.YearValue, 0, len(years)),
		}
		for i, year := range years {
			targetCol, _ := ShiftColumn(label, 2+2*i)
			actualCol, _ := ShiftColumn(label, 3+2*i)
			ind.Years = append(ind.Years, model.YearValue{
				Year:   year,
				Target: g.Value(targetCol, row),
				Actual: g.Value(actualCol, row),
			})
		}
		indicators = append(indicators, ind)
	}
	return indicators
}

// indicatorYears reads the year of each target column from the header row,
// falling back to the configured years
func (e *Extractor) indicatorYears(g Grid, header int) []int {
	years := make([]int, 0, e.layout.Indicators.Columns)
	for i := 0; i < e.layout.Indicators.Columns; i++ {
		col, _ := ShiftColumn(e.layout.LabelColumn, 2+2*i)
		year := 0
		if m := yearPattern.FindString(Text(g, col, header)); m != "" {
			year, _ = strconv.Atoi(m)
		} else if i < len(e.layout.Years) {
			year = e.layout.Years[i]
		}
		years = append(years, year)
	}
	return years
}

func (e *Extractor) readMeasures(g Grid, span Span) []model.Measure {
	label := e.layout.LabelColumn
	dueCol, _ := ShiftColumn(label, 2)

	measures := make([]model.Measure, 0, len(span.Rows))
	for _, row := range span.Rows {
		status := Text(g, e.valueCol, row)
		measures = append(measures, model.Measure{
			Name:     Text(g, label, row),
			Status:   status,
			DueDate:  Text(g, dueCol, row),
			Category: model.CategorizeMeasure(status, e.layout.Vocabulary),
		})
	}
	return measures
}

// readText finds the labeled block and returns the cell below the label.
// A missing label or a blank cell yields nil.
func (e *Extractor) readText(g Grid, layout model.TextLayout, from int) *string {
	if from == 0 {
		from = layout.FirstRow
	}
	label := e.layout.LabelColumn
	row, ok := FindLabel(g, label, layout.Label, from, layout.LastRow)
	if !ok {
		return nil
	}
	v := g.Display(label, row+1)
	if !v.Present() {
		return nil
	}
	return model.StringPtr(v.String())
}
