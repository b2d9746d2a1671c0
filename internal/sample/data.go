package sample

// Project is the input for one generated status report
type Project struct {
	ID               string
	Title            string
	ShortDescription string
	Chapter          string
	Sponsor          string
	PeriodStart      string
	PeriodEnd        string
	BudgetTotal      *float64
	BudgetConsumed   *float64
	Charter          string
	ReportingPeriod  string
	Status           string
	Comment          string
	Indicators       []Indicator
	Measures         []Measure
}

// Indicator is one KPI row. Values holds target/actual pairs per year;
// nil leaves the cell empty.
type Indicator struct {
	Name   string
	Unit   string
	Values []*float64
}

// Measure is one action item row
type Measure struct {
	Name    string
	Status  string
	DueDate string
}

// FileName returns the conventional file name for a project
func (p Project) FileName() string {
	return "PSB_" + p.ID + ".xlsx"
}

func num(f float64) *float64 {
	return &f
}

// Projects returns the built-in synthetic portfolio. It carries known
// defects: LV-2023-005 has a reporting period without year, LV-2024-003
// misses an actual value and a charter, LV-2024-004 is green despite delayed
// measures.
func Projects() []Project {
	return []Project{
		{
			ID:               "LV-2024-001",
			Title:            "Digital lab management",
			ShortDescription: "Introduction of a laboratory information system for samples, devices and results in veterinary anatomy.",
			Chapter:          "Teaching",
			Sponsor:          "Vice Rectorate Teaching",
			PeriodStart:      "01.01.2024",
			PeriodEnd:        "31.12.2026",
			BudgetTotal:      num(185000),
			BudgetConsumed:   num(92000),
			Charter:          "yes",
			ReportingPeriod:  "Q4/2024",
			Status:           "green",
			Comment:          "Project on schedule. Pilot phase completed successfully.",
			Indicators: []Indicator{
				{Name: "Share of digitized lab protocols", Unit: "%", Values: []*float64{num(30), num(35), num(60), nil, num(90)}},
				{Name: "Number of trained staff", Unit: "Persons", Values: []*float64{num(15), num(18), num(30), nil, num(45)}},
			},
			Measures: []Measure{
				{Name: "Pilot phase anatomy lab", Status: "completed", DueDate: "30.06.2024"},
				{Name: "Rollout to further labs", Status: "in progress", DueDate: "31.03.2025"},
				{Name: "Training programme phase 2", Status: "planned", DueDate: "30.09.2025"},
			},
		},
		{
			ID:               "LV-2024-002",
			Title:            "Curriculum reform veterinary medicine",
			ShortDescription: "Revision of the study plan with a focus on One Health and interdisciplinary teaching.",
			Chapter:          "Teaching",
			Sponsor:          "Rectorate",
			PeriodStart:      "01.03.2024",
			PeriodEnd:        "28.02.2027",
			BudgetTotal:      num(320000),
			BudgetConsumed:   num(145000),
			Charter:          "yes",
			ReportingPeriod:  "Q4/2024",
			Status:           "yellow",
			Comment:          "Piloting of new modules is delayed by scheduling conflicts with stakeholders.",
			Indicators: []Indicator{
				{Name: "Share of revised modules", Unit: "%", Values: []*float64{num(20), num(22), num(50), nil, num(80)}},
				{Name: "Student evaluation score", Unit: "Scale 1-5", Values: []*float64{num(3.5), num(3.6), num(3.8), nil, num(4.0)}},
			},
			Measures: []Measure{
				{Name: "Module inventory", Status: "completed", DueDate: "30.06.2024"},
				{Name: "Stakeholder workshops", Status: "in progress", DueDate: "31.12.2024"},
				{Name: "Piloting new modules", Status: "delayed", DueDate: "30.06.2025"},
			},
		},
		{
			ID:               "LV-2023-005",
			Title:            "Research infrastructure biobank",
			ShortDescription: "Central biobank for veterinary samples with standardized storage and access protocols.",
			Chapter:          "Research",
			Sponsor:          "Vice Rectorate Research",
			PeriodStart:      "01.07.2023",
			PeriodEnd:        "30.06.2026",
			BudgetTotal:      num(450000),
			BudgetConsumed:   num(310000),
			Charter:          "yes",
			ReportingPeriod:  "Q1",
			Status:           "green",
			Comment:          "Transfer of legacy samples on schedule.",
			Indicators: []Indicator{
				{Name: "Number of catalogued samples", Unit: "Pieces", Values: []*float64{num(5000), num(5200), num(8000), nil, num(12000)}},
			},
			Measures: []Measure{
				{Name: "Room conversion and installation", Status: "completed", DueDate: "31.12.2023"},
				{Name: "Database system", Status: "completed", DueDate: "30.06.2024"},
				{Name: "Transfer of legacy samples", Status: "in progress", DueDate: "31.03.2025"},
			},
		},
		{
			ID:               "LV-2024-003",
			Title:            "IT security concept",
			ShortDescription: "Development and implementation of an IT security concept following the NIS2 directive.",
			Chapter:          "Infrastructure",
			Sponsor:          "Rectorate",
			PeriodStart:      "01.04.2024",
			PeriodEnd:        "31.12.2025",
			BudgetTotal:      num(280000),
			BudgetConsumed:   num(195000),
			Charter:          "no",
			ReportingPeriod:  "Q4/2024",
			Status:           "red",
			Comment:          "Considerable delay due to staff shortage in IT. An external provider is being evaluated. No project charter yet.",
			Indicators: []Indicator{
				{Name: "Share of implemented controls", Unit: "%", Values: []*float64{num(40), num(25), num(100), nil}},
				{Name: "Number of security audits", Unit: "Pieces", Values: []*float64{num(2), nil, num(4), nil}},
			},
			Measures: []Measure{
				{Name: "Gap analysis", Status: "completed", DueDate: "30.06.2024"},
				{Name: "Technical controls", Status: "delayed", DueDate: "31.12.2024"},
				{Name: "IT staff training", Status: "delayed", DueDate: "31.03.2025"},
			},
		},
		{
			ID:               "LV-2024-004",
			Title:            "Campus sustainability strategy",
			ShortDescription: "Sustainability strategy for the whole campus including energy efficiency and mobility.",
			Chapter:          "Infrastructure",
			Sponsor:          "Vice Rectorate Infrastructure",
			PeriodStart:      "01.06.2024",
			PeriodEnd:        "31.12.2026",
			BudgetTotal:      num(520000),
			BudgetConsumed:   num(78000),
			Charter:          "yes",
			ReportingPeriod:  "Q4/2024",
			Status:           "green",
			Comment:          "Energy audit completed. Photovoltaic expansion delayed by permit process. Targets narrowly missed.",
			Indicators: []Indicator{
				{Name: "CO2 reduction against base year", Unit: "%", Values: []*float64{num(5), num(3), num(15), nil, num(25)}},
				{Name: "Share of renewable energy", Unit: "%", Values: []*float64{num(40), num(38), num(55), nil, num(70)}},
			},
			Measures: []Measure{
				{Name: "Energy audit", Status: "completed", DueDate: "30.09.2024"},
				{Name: "Photovoltaic roof expansion", Status: "delayed", DueDate: "30.06.2025"},
				{Name: "Mobility concept", Status: "planned", DueDate: "31.12.2025"},
			},
		},
	}
}
