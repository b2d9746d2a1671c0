package testutil

import (
	"github.com/ppiankov/psbfold/internal/model"
)

// RecordOption customizes a test record
type RecordOption func(*model.ProjectRecord)

func WithStatus(s model.StatusColor) RecordOption {
	return func(r *model.ProjectRecord) {
		r.StatusColor = s
	}
}

func WithBudget(total, consumed float64) RecordOption {
	return func(r *model.ProjectRecord) {
		r.BudgetTotal = &total
		r.BudgetConsumed = &consumed
	}
}

func WithoutBudget() RecordOption {
	return func(r *model.ProjectRecord) {
		r.BudgetTotal = nil
		r.BudgetConsumed = nil
	}
}

func WithCharter(c model.Charter) RecordOption {
	return func(r *model.ProjectRecord) {
		r.HasCharter = c
	}
}

func WithReportingPeriod(p string) RecordOption {
	return func(r *model.ProjectRecord) {
		r.ReportingPeriod = model.StringPtr(p)
	}
}

func WithSponsor(s string) RecordOption {
	return func(r *model.ProjectRecord) {
		r.Sponsor = model.StringPtr(s)
	}
}

func WithComment(c string) RecordOption {
	return func(r *model.ProjectRecord) {
		r.Comment = model.StringPtr(c)
	}
}

// WithoutText clears every optional text field, as when the cells are blank
func WithoutText() RecordOption {
	return func(r *model.ProjectRecord) {
		r.Title, r.Chapter, r.Sponsor = nil, nil, nil
		r.PeriodStart, r.PeriodEnd, r.ReportingPeriod = nil, nil, nil
		r.Comment, r.ShortDescription = nil, nil
	}
}

func WithSource(file string) RecordOption {
	return func(r *model.ProjectRecord) {
		r.SourceFile = file
	}
}

func WithWarning(format string, args ...interface{}) RecordOption {
	return func(r *model.ProjectRecord) {
		r.Warn(format, args...)
	}
}

// WithIndicator adds an indicator with a single year pair
func WithIndicator(name string, year int, target, actual model.Value) RecordOption {
	return func(r *model.ProjectRecord) {
		r.Indicators = append(r.Indicators, model.Indicator{
			Name:  name,
			Unit:  "%",
			Years: []model.YearValue{{Year: year, Target: target, Actual: actual}},
		})
	}
}

func WithMeasure(name, status string) RecordOption {
	return func(r *model.ProjectRecord) {
		r.Measures = append(r.Measures, model.Measure{
			Name:     name,
			Status:   status,
			Category: model.CategorizeMeasure(status, model.DefaultLayout().Vocabulary),
		})
	}
}

// NewTestRecord returns a clean record that passes every quality rule
// unless options say otherwise
func NewTestRecord(id string, opts ...RecordOption) *model.ProjectRecord {
	r := model.NewProjectRecord("PSB_" + id + ".xlsx")
	r.ID = id
	r.Title = model.StringPtr("Project " + id)
	r.Chapter = model.StringPtr("Teaching")
	r.Sponsor = model.StringPtr("Rectorate")
	r.PeriodStart = model.StringPtr("01.01.2024")
	r.PeriodEnd = model.StringPtr("31.12.2026")
	r.ReportingPeriod = model.StringPtr("Q4/2024")
	r.StatusColor = model.StatusGreen
	r.HasCharter = model.CharterPresent

	total, consumed := 100000.0, 50000.0
	r.BudgetTotal = &total
	r.BudgetConsumed = &consumed

	for _, opt := range opts {
		opt(r)
	}
	r.ConsumedPercent = model.ConsumedPercent(r.BudgetTotal, r.BudgetConsumed)
	return r
}
