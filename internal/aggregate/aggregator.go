package aggregate

import (
	"sort"

	"github.com/ppiankov/psbfold/internal/model"
)

// Aggregator folds extracted records into portfolio figures
type Aggregator struct{}

// NewAggregator creates a new aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate computes the status tally, budget totals and the flagged and
// critical subsets. Record order is preserved everywhere.
//
// It fails with *model.AggregateDivisionError when consumption is reported
// against a total budget of zero.
func (a *Aggregator) Aggregate(records []*model.ProjectRecord) (*model.Portfolio, error) {
	p := &model.Portfolio{
		Projects:     records,
		StatusCounts: a.tally(records),
		Flagged:      []*model.ProjectRecord{},
		Critical:     []*model.ProjectRecord{},
		DuplicateIDs: duplicateIDs(records),
	}

	for _, rec := range records {
		if rec.BudgetTotal != nil {
			p.BudgetTotal += *rec.BudgetTotal
		}
		if rec.BudgetConsumed != nil {
			p.BudgetConsumed += *rec.BudgetConsumed
		}
		if rec.HasWarnings() {
			p.Flagged = append(p.Flagged, rec)
		}
		if rec.IsCritical() {
			p.Critical = append(p.Critical, rec)
		}
	}

	pct, err := portfolioPercent(p.BudgetTotal, p.BudgetConsumed)
	if err != nil {
		return nil, err
	}
	p.ConsumedPercent = pct

	return p, nil
}

// tally counts records per status color, ordered by status label
func (a *Aggregator) tally(records []*model.ProjectRecord) []model.StatusCount {
	counts := make(map[model.StatusColor]int)
	for _, rec := range records {
		status := rec.StatusColor
		if status == "" {
			status = model.StatusUnknown
		}
		counts[status]++
	}

	tally := make([]model.StatusCount, 0, len(counts))
	for status, n := range counts {
		tally = append(tally, model.StatusCount{Status: status, Count: n})
	}
	sort.Slice(tally, func(i, j int) bool {
		return tally[i].Status < tally[j].Status
	})
	return tally
}

// portfolioPercent returns consumed/total*100 rounded to one decimal.
// Nothing budgeted and nothing consumed has no percentage.
func portfolioPercent(total, consumed float64) (*float64, error) {
	if total == 0 {
		if consumed != 0 {
			return nil, &model.AggregateDivisionError{Consumed: consumed}
		}
		return nil, nil
	}
	pct := model.Round1(consumed / total * 100)
	return &pct, nil
}

// duplicateIDs lists identifiers carried by more than one record
func duplicateIDs(records []*model.ProjectRecord) []string {
	seen := make(map[string]int)
	for _, rec := range records {
		if rec.ID != "" {
			seen[rec.ID]++
		}
	}

	dups := []string{}
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}
