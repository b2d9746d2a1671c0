package model

import "time"

// Portfolio is the aggregate of all records extracted in one run
type Portfolio struct {
	Projects     []*ProjectRecord // Extraction order (sorted by file name)
	StatusCounts []StatusCount    // Sorted by status label

	BudgetTotal     float64  // Sum of budgetTotal, nulls count as zero
	BudgetConsumed  float64  // Sum of budgetConsumed, nulls count as zero
	ConsumedPercent *float64 // nil when nothing was budgeted or consumed

	Flagged  []*ProjectRecord // Records with at least one warning
	Critical []*ProjectRecord // Records with red status

	DuplicateIDs []string // IDs seen on more than one record, sorted
}

// StatusCount is one entry of the status tally
type StatusCount struct {
	Status StatusColor `json:"status"`
	Count  int         `json:"count"`
}

// WarningCount returns the number of warnings across all records
func (p *Portfolio) WarningCount() int {
	n := 0
	for _, rec := range p.Projects {
		n += len(rec.Warnings)
	}
	return n
}

// RunMeta describes one consolidation run in the structured export
type RunMeta struct {
	RunID        string            `json:"runId"`
	Generated    time.Time         `json:"generated"`
	RecordCount  int               `json:"recordCount"`
	SourceFiles  []string          `json:"sourceFiles"`
	Skipped      []SkippedDocument `json:"skipped"`
	DuplicateIDs []string          `json:"duplicateIds"`
}

// SkippedDocument is a document dropped because it could not be read
type SkippedDocument struct {
	File  string `json:"file"`
	Error string `json:"error"`
}
