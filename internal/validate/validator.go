package validate

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ppiankov/psbfold/internal/model"
)

// reportingPeriodPattern is the canonical reporting period form, e.g. Q4/2024
var reportingPeriodPattern = regexp.MustCompile(`^Q[1-4]/\d{4}$`)

// Rule is one data-quality check. Check must not mutate the record.
type Rule struct {
	Name  string
	Check func(rec *model.ProjectRecord) []string
}

// Validator runs a fixed, ordered rule battery over extracted records
type Validator struct {
	rules []Rule
}

// NewValidator creates a validator with the standard rules in evaluation order
func NewValidator(vocab model.Vocabulary) *Validator {
	return &Validator{
		rules: []Rule{
			{Name: "reporting_period", Check: checkReportingPeriod},
			{Name: "charter", Check: checkCharter},
			{Name: "budget", Check: checkBudget},
			{Name: "missing_actual", Check: checkMissingActual},
			{Name: "target_miss", Check: checkTargetMiss},
			{Name: "status_contradiction", Check: statusContradiction(vocab)},
		},
	}
}

// Rules returns the rule battery in evaluation order
func (v *Validator) Rules() []Rule {
	return v.rules
}

// Validate derives the consumed percentage and appends every warning the
// rules raise, in rule order
func (v *Validator) Validate(rec *model.ProjectRecord) {
	rec.ConsumedPercent = model.ConsumedPercent(rec.BudgetTotal, rec.BudgetConsumed)

	for _, rule := range v.rules {
		rec.Warnings = append(rec.Warnings, rule.Check(rec)...)
	}
}

func checkReportingPeriod(rec *model.ProjectRecord) []string {
	period := model.Deref(rec.ReportingPeriod)
	if reportingPeriodPattern.MatchString(period) {
		return nil
	}
	return []string{fmt.Sprintf("Reporting period '%s' does not match the format 'Qn/YYYY'", period)}
}

func checkCharter(rec *model.ProjectRecord) []string {
	if rec.HasCharter != model.CharterAbsent {
		return nil
	}
	return []string{"No project charter present"}
}

func checkBudget(rec *model.ProjectRecord) []string {
	if rec.BudgetTotal == nil || rec.BudgetConsumed == nil {
		return nil
	}
	if *rec.BudgetConsumed <= *rec.BudgetTotal {
		return nil
	}
	return []string{fmt.Sprintf("Budget exceeded: %s > %s",
		formatNumber(*rec.BudgetConsumed), formatNumber(*rec.BudgetTotal))}
}

// checkMissingActual flags indicators with a first-year target but no
// actual, which usually means the report is overdue
func checkMissingActual(rec *model.ProjectRecord) []string {
	var warnings []string
	for _, ind := range rec.Indicators {
		first, ok := ind.FirstYear()
		if !ok {
			continue
		}
		if first.Target.Present() && !first.Actual.Present() {
			warnings = append(warnings, fmt.Sprintf("Indicator '%s': actual %d missing", ind.Name, first.Year))
		}
	}
	return warnings
}

// checkTargetMiss flags indicators whose first-year actual is below target.
// Values that are not numbers make the check inapplicable.
func checkTargetMiss(rec *model.ProjectRecord) []string {
	var warnings []string
	for _, ind := range rec.Indicators {
		first, ok := ind.FirstYear()
		if !ok || !first.Target.Present() || !first.Actual.Present() {
			continue
		}
		deviation, missed, err := targetDeviation(first.Target, first.Actual)
		if err != nil || !missed {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("Indicator '%s': target %d missed (%s%%)",
			ind.Name, first.Year, strconv.FormatFloat(deviation, 'f', 1, 64)))
	}
	return warnings
}

// targetDeviation returns (actual-target)/target*100 rounded to one decimal
// and whether the actual fell short. A zero target has no deviation.
func targetDeviation(target, actual model.Value) (float64, bool, error) {
	t, err := target.Float()
	if err != nil {
		return 0, false, err
	}
	a, err := actual.Float()
	if err != nil {
		return 0, false, err
	}
	if a >= t || t == 0 {
		return 0, false, nil
	}
	return model.Round1((a - t) / t * 100), true, nil
}

func statusContradiction(vocab model.Vocabulary) func(*model.ProjectRecord) []string {
	return func(rec *model.ProjectRecord) []string {
		if rec.StatusColor != model.StatusGreen {
			return nil
		}
		var warnings []string
		for _, m := range rec.Measures {
			if model.CategorizeMeasure(m.Status, vocab) == model.MeasureDelayed {
				warnings = append(warnings, fmt.Sprintf("Measure '%s' delayed, but status is green", m.Name))
			}
		}
		return warnings
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
