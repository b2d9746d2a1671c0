package model

import "time"

// Config is the complete psb configuration
type Config struct {
	InputDir  string       `yaml:"input_dir" mapstructure:"input_dir"`
	OutputDir string       `yaml:"output_dir" mapstructure:"output_dir"`
	Log       LogConfig    `yaml:"log" mapstructure:"log"`
	Layout    Layout       `yaml:"layout" mapstructure:"layout"`
	Serve     ServeConfig  `yaml:"serve" mapstructure:"serve"`
	Sample    SampleConfig `yaml:"sample" mapstructure:"sample"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// ServeConfig controls the preview server
type ServeConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr"`
	MaxConns          int           `yaml:"max_conns" mapstructure:"max_conns"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	CacheTTL          time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// SampleConfig controls synthetic report generation
type SampleConfig struct {
	TemplateDir string `yaml:"template_dir" mapstructure:"template_dir"`
}

// Layout is the fixed template schema of a status report workbook.
// Rows are 1-based as in the spreadsheet.
type Layout struct {
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	FilePattern string `yaml:"file_pattern" mapstructure:"file_pattern"`

	LabelColumn string        `yaml:"label_column" mapstructure:"label_column"`
	ValueColumn string        `yaml:"value_column" mapstructure:"value_column"`
	Metadata    MetadataRows  `yaml:"metadata" mapstructure:"metadata"`
	Indicators  SectionLayout `yaml:"indicators" mapstructure:"indicators"`
	Measures    SectionLayout `yaml:"measures" mapstructure:"measures"`
	Comment     TextLayout    `yaml:"comment" mapstructure:"comment"`
	Description TextLayout    `yaml:"short_description" mapstructure:"short_description"`

	// Years used when the indicator header carries no year numbers
	Years      []int      `yaml:"years" mapstructure:"years"`
	Vocabulary Vocabulary `yaml:"vocabulary" mapstructure:"vocabulary"`
}

// MetadataRows maps each metadata field to its row in the value column
type MetadataRows struct {
	ID              int `yaml:"id" mapstructure:"id"`
	Title           int `yaml:"title" mapstructure:"title"`
	Chapter         int `yaml:"chapter" mapstructure:"chapter"`
	Sponsor         int `yaml:"sponsor" mapstructure:"sponsor"`
	PeriodStart     int `yaml:"period_start" mapstructure:"period_start"`
	PeriodEnd       int `yaml:"period_end" mapstructure:"period_end"`
	BudgetTotal     int `yaml:"budget_total" mapstructure:"budget_total"`
	BudgetConsumed  int `yaml:"budget_consumed" mapstructure:"budget_consumed"`
	Charter         int `yaml:"charter" mapstructure:"charter"`
	ReportingPeriod int `yaml:"reporting_period" mapstructure:"reporting_period"`
	Status          int `yaml:"status" mapstructure:"status"`
}

// SectionLayout describes a variable-length table found by its header row
type SectionLayout struct {
	Anchor    string `yaml:"anchor" mapstructure:"anchor"`         // Substring of the header label cell
	Header    string `yaml:"header" mapstructure:"header"`         // Exact text of the adjacent header cell
	FirstRow  int    `yaml:"first_row" mapstructure:"first_row"`   // Start of the anchor search window
	LastRow   int    `yaml:"last_row" mapstructure:"last_row"`     // End of the anchor search window, inclusive
	MaxRows   int    `yaml:"max_rows" mapstructure:"max_rows"`     // Cap on data rows read
	StopLabel string `yaml:"stop_label" mapstructure:"stop_label"` // Label substring that ends the table
	Columns   int    `yaml:"columns" mapstructure:"columns"`       // Year pairs (indicators only)
}

// TextLayout describes a free-text block below a labeled row
type TextLayout struct {
	Label    string `yaml:"label" mapstructure:"label"`
	FirstRow int    `yaml:"first_row" mapstructure:"first_row"` // Used when no measure table was found
	LastRow  int    `yaml:"last_row" mapstructure:"last_row"`
}

// Vocabulary lists the words recognized in categorical cells
type Vocabulary struct {
	Green      []string `yaml:"green" mapstructure:"green"`
	Yellow     []string `yaml:"yellow" mapstructure:"yellow"`
	Red        []string `yaml:"red" mapstructure:"red"`
	Yes        []string `yaml:"yes" mapstructure:"yes"`
	No         []string `yaml:"no" mapstructure:"no"`
	Delayed    []string `yaml:"delayed" mapstructure:"delayed"`
	Completed  []string `yaml:"completed" mapstructure:"completed"`
	InProgress []string `yaml:"in_progress" mapstructure:"in_progress"`
	Planned    []string `yaml:"planned" mapstructure:"planned"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		InputDir:  "data/sample",
		OutputDir: "data/consolidated",
		Log: LogConfig{
			Level: "info",
		},
		Layout: DefaultLayout(),
		Serve: ServeConfig{
			Addr:              ":8080",
			MaxConns:          64,
			RequestsPerSecond: 20,
			Burst:             40,
			CacheTTL:          5 * time.Second,
		},
		Sample: SampleConfig{
			TemplateDir: "data/templates",
		},
	}
}

// DefaultLayout returns the standard PSB template schema
func DefaultLayout() Layout {
	return Layout{
		Sheet:       "PSB",
		FilePattern: "PSB_*.xlsx",
		LabelColumn: "A",
		ValueColumn: "B",
		Metadata: MetadataRows{
			ID:              3,
			Title:           4,
			Chapter:         5,
			Sponsor:         6,
			PeriodStart:     7,
			PeriodEnd:       8,
			BudgetTotal:     9,
			BudgetConsumed:  10,
			Charter:         11,
			ReportingPeriod: 12,
			Status:          13,
		},
		Indicators: SectionLayout{
			Anchor:   "Indicator",
			Header:   "Unit",
			FirstRow: 15,
			LastRow:  49,
			MaxRows:  10,
			Columns:  3,
		},
		Measures: SectionLayout{
			Anchor:    "Measure",
			Header:    "Status",
			FirstRow:  15,
			LastRow:   59,
			MaxRows:   10,
			StopLabel: "Comment",
		},
		Comment: TextLayout{
			Label:    "Comment",
			FirstRow: 20,
			LastRow:  69,
		},
		Description: TextLayout{
			Label:    "Short description",
			FirstRow: 20,
			LastRow:  69,
		},
		Years: []int{2024, 2025, 2026},
		Vocabulary: Vocabulary{
			Green:      []string{"green", "gruen", "grün"},
			Yellow:     []string{"yellow", "gelb"},
			Red:        []string{"red", "rot"},
			Yes:        []string{"yes", "ja"},
			No:         []string{"no", "nein"},
			Delayed:    []string{"delayed", "verzoegert", "verzögert"},
			Completed:  []string{"completed", "abgeschlossen"},
			InProgress: []string{"in progress", "in umsetzung"},
			Planned:    []string{"planned", "geplant"},
		},
	}
}
