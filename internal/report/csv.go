package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ppiankov/psbfold/internal/model"
)

// csvHeader is the fixed column set of the flattened export
var csvHeader = []string{
	"ID", "Title", "Chapter", "Sponsor", "Status",
	"BudgetTotal", "BudgetConsumed", "ConsumedPercent",
	"PeriodStart", "PeriodEnd", "ReportingPeriod",
	"Charter", "WarningCount",
}

// WriteCSV writes one semicolon-separated row per record. Indicators,
// measures and free text are left out of this view.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range doc.Portfolio.Projects {
		row := []string{
			p.ID, model.Deref(p.Title), model.Deref(p.Chapter), model.Deref(p.Sponsor), string(p.StatusColor),
			optionalNumber(p.BudgetTotal), optionalNumber(p.BudgetConsumed), optionalNumber(p.ConsumedPercent),
			model.Deref(p.PeriodStart), model.Deref(p.PeriodEnd), model.Deref(p.ReportingPeriod),
			p.HasCharter.Label(), strconv.Itoa(len(p.Warnings)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func optionalNumber(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
