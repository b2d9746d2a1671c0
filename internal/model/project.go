package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ProjectRecord is the structured content of one project status report.
// It is built during extraction and validation and treated as read-only
// once handed to the aggregator.
type ProjectRecord struct {
	SourceFile string `json:"sourceFile"` // File the record was extracted from

	ID               string  `json:"id"`
	Title            *string `json:"title"`
	Chapter          *string `json:"chapter"`
	Sponsor          *string `json:"sponsor"`
	ShortDescription *string `json:"shortDescription"`
	Comment          *string `json:"comment"`

	PeriodStart     *string `json:"periodStart"`     // Free-form date text
	PeriodEnd       *string `json:"periodEnd"`       // Free-form date text
	ReportingPeriod *string `json:"reportingPeriod"` // Expected form Qn/YYYY, kept as typed

	BudgetTotal     *float64 `json:"budgetTotal"`
	BudgetConsumed  *float64 `json:"budgetConsumed"`
	ConsumedPercent *float64 `json:"consumedPercent"` // consumed/total*100, 1 decimal

	StatusColor StatusColor `json:"statusColor"`
	HasCharter  Charter     `json:"hasCharter"`

	Indicators []Indicator `json:"indicators"`
	Measures   []Measure   `json:"measures"`
	Warnings   []string    `json:"warnings"`
}

// NewProjectRecord returns an empty record with non-nil slices so that
// exports render [] instead of null
func NewProjectRecord(sourceFile string) *ProjectRecord {
	return &ProjectRecord{
		SourceFile:  sourceFile,
		StatusColor: StatusUnknown,
		Indicators:  []Indicator{},
		Measures:    []Measure{},
		Warnings:    []string{},
	}
}

// Warn appends a warning
func (p *ProjectRecord) Warn(format string, args ...interface{}) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

// HasWarnings reports whether any check flagged the record
func (p *ProjectRecord) HasWarnings() bool {
	return len(p.Warnings) > 0
}

// IsCritical reports whether the record carries a red status
func (p *ProjectRecord) IsCritical() bool {
	return p.StatusColor == StatusRed
}

// Indicator is a KPI tracked with target/actual pairs per reporting year
type Indicator struct {
	Name  string      `json:"name"`
	Unit  string      `json:"unit"`
	Years []YearValue `json:"years"`
}

// YearValue holds one year's target and actual, each numeric, text or null
type YearValue struct {
	Year   int   `json:"year"`
	Target Value `json:"target"`
	Actual Value `json:"actual"`
}

// FirstYear returns the earliest tracked year pair
func (i Indicator) FirstYear() (YearValue, bool) {
	if len(i.Years) == 0 {
		return YearValue{}, false
	}
	return i.Years[0], true
}

// Measure is an action item with free-text status and due date
type Measure struct {
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	DueDate  string          `json:"dueDate"`
	Category MeasureCategory `json:"category"`
}

// MeasureCategory is the informal bucket a measure status falls into
type MeasureCategory string

const (
	MeasureCompleted  MeasureCategory = "completed"
	MeasureInProgress MeasureCategory = "in progress"
	MeasurePlanned    MeasureCategory = "planned"
	MeasureDelayed    MeasureCategory = "delayed"
	MeasureOther      MeasureCategory = "other"
)

// CategorizeMeasure buckets a status text by case-insensitive substring match.
// Delayed wins over every other bucket.
func CategorizeMeasure(status string, vocab Vocabulary) MeasureCategory {
	switch {
	case containsAny(status, vocab.Delayed):
		return MeasureDelayed
	case containsAny(status, vocab.Completed):
		return MeasureCompleted
	case containsAny(status, vocab.InProgress):
		return MeasureInProgress
	case containsAny(status, vocab.Planned):
		return MeasurePlanned
	default:
		return MeasureOther
	}
}

// StatusColor is the traffic-light status of a project
type StatusColor string

const (
	StatusGreen   StatusColor = "green"
	StatusYellow  StatusColor = "yellow"
	StatusRed     StatusColor = "red"
	StatusUnknown StatusColor = "unknown"
)

// ParseStatusColor maps source text onto a status color. Blank or
// unrecognized text becomes StatusUnknown.
func ParseStatusColor(s string, vocab Vocabulary) StatusColor {
	switch {
	case equalsAny(s, vocab.Green):
		return StatusGreen
	case equalsAny(s, vocab.Yellow):
		return StatusYellow
	case equalsAny(s, vocab.Red):
		return StatusRed
	default:
		return StatusUnknown
	}
}

// Charter is the tri-state "project charter present" flag
type Charter int

const (
	CharterUnknown Charter = iota
	CharterPresent
	CharterAbsent
)

// ParseCharter maps source text onto a Charter value
func ParseCharter(s string, vocab Vocabulary) Charter {
	switch {
	case equalsAny(s, vocab.Yes):
		return CharterPresent
	case equalsAny(s, vocab.No):
		return CharterAbsent
	default:
		return CharterUnknown
	}
}

func (c Charter) String() string {
	switch c {
	case CharterPresent:
		return "present"
	case CharterAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Label returns the form used in exports: yes, no or empty
func (c Charter) Label() string {
	switch c {
	case CharterPresent:
		return "yes"
	case CharterAbsent:
		return "no"
	default:
		return ""
	}
}

func (c Charter) MarshalJSON() ([]byte, error) {
	if c == CharterUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(c.Label())
}

func (c *Charter) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch {
	case s == nil:
		*c = CharterUnknown
	case *s == "yes":
		*c = CharterPresent
	case *s == "no":
		*c = CharterAbsent
	default:
		*c = CharterUnknown
	}
	return nil
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Deref returns the text behind s, or "" when the field is absent
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ConsumedPercent returns consumed/total*100 rounded to one decimal, or nil
// when either side is missing or the total is zero
func ConsumedPercent(total, consumed *float64) *float64 {
	if total == nil || consumed == nil || *total == 0 {
		return nil
	}
	pct := Round1(*consumed / *total * 100)
	return &pct
}

// Round1 rounds half away from zero to one decimal place
func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func equalsAny(s string, words []string) bool {
	s = strings.TrimSpace(s)
	for _, w := range words {
		if strings.EqualFold(s, w) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}
