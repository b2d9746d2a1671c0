package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/psbfold/internal/model"
	"github.com/ppiankov/psbfold/internal/sample"
	"github.com/ppiankov/psbfold/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestExtractor() *Extractor {
	layout := model.DefaultLayout()
	return NewExtractor(layout, validate.NewValidator(layout.Vocabulary), nil)
}

func sampleProject(t *testing.T, id string) sample.Project {
	t.Helper()
	for _, p := range sample.Projects() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("no sample project %s", id)
	return sample.Project{}
}

func writeProject(t *testing.T, p sample.Project) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), p.FileName())
	gen := sample.NewGenerator(model.DefaultLayout(), sample.DefaultStyle())
	require.NoError(t, gen.WriteProject(path, p))
	return path
}

func TestExtractFile_RedProject(t *testing.T) {
	path := writeProject(t, sampleProject(t, "LV-2024-003"))

	rec, err := newTestExtractor().ExtractFile(path)
	require.NoError(t, err)

	assert.Equal(t, "PSB_LV-2024-003.xlsx", rec.SourceFile)
	assert.Equal(t, "LV-2024-003", rec.ID)
	assert.Equal(t, "IT security concept", model.Deref(rec.Title))
	assert.Equal(t, "Infrastructure", model.Deref(rec.Chapter))
	assert.Equal(t, "Rectorate", model.Deref(rec.Sponsor))
	assert.Equal(t, "01.04.2024", model.Deref(rec.PeriodStart))
	assert.Equal(t, "31.12.2025", model.Deref(rec.PeriodEnd))
	assert.Equal(t, "Q4/2024", model.Deref(rec.ReportingPeriod))
	assert.Equal(t, model.StatusRed, rec.StatusColor)
	assert.Equal(t, model.CharterAbsent, rec.HasCharter)

	require.NotNil(t, rec.BudgetTotal)
	require.NotNil(t, rec.BudgetConsumed)
	require.NotNil(t, rec.ConsumedPercent)
	assert.Equal(t, 280000.0, *rec.BudgetTotal)
	assert.Equal(t, 195000.0, *rec.BudgetConsumed)
	assert.Equal(t, 69.6, *rec.ConsumedPercent)

	require.Len(t, rec.Indicators, 2)
	controls := rec.Indicators[0]
	assert.Equal(t, "Share of implemented controls", controls.Name)
	assert.Equal(t, "%", controls.Unit)
	require.Len(t, controls.Years, 3)
	assert.Equal(t, 2024, controls.Years[0].Year)
	assert.Equal(t, 2025, controls.Years[1].Year)
	assert.Equal(t, 2026, controls.Years[2].Year)
	assert.Equal(t, model.Number(40), controls.Years[0].Target)
	assert.Equal(t, model.Number(25), controls.Years[0].Actual)
	assert.False(t, controls.Years[1].Actual.Present())
	assert.False(t, rec.Indicators[1].Years[0].Actual.Present())

	require.Len(t, rec.Measures, 3)
	assert.Equal(t, "Gap analysis", rec.Measures[0].Name)
	assert.Equal(t, "completed", rec.Measures[0].Status)
	assert.Equal(t, "30.06.2024", rec.Measures[0].DueDate)
	assert.Equal(t, model.MeasureDelayed, rec.Measures[1].Category)

	assert.Contains(t, model.Deref(rec.Comment), "staff shortage")
	assert.Contains(t, model.Deref(rec.ShortDescription), "NIS2")

	assert.Equal(t, []string{
		"No project charter present",
		"Indicator 'Number of security audits': actual 2024 missing",
		"Indicator 'Share of implemented controls': target 2024 missed (-37.5%)",
	}, rec.Warnings)
}

func TestExtractFile_CleanProject(t *testing.T) {
	path := writeProject(t, sampleProject(t, "LV-2024-001"))

	rec, err := newTestExtractor().ExtractFile(path)
	require.NoError(t, err)

	assert.Equal(t, model.StatusGreen, rec.StatusColor)
	assert.Equal(t, model.CharterPresent, rec.HasCharter)
	assert.Len(t, rec.Indicators, 2)
	assert.Len(t, rec.Measures, 3)
	assert.Empty(t, rec.Warnings)
}

func TestExtractFile_Deterministic(t *testing.T) {
	path := writeProject(t, sampleProject(t, "LV-2024-004"))
	e := newTestExtractor()

	first, err := e.ExtractFile(path)
	require.NoError(t, err)
	second, err := e.ExtractFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractFile_MissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PSB_Other.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := newTestExtractor().ExtractFile(path)
	require.Error(t, err)

	var docErr *model.DocumentError
	require.True(t, errors.As(err, &docErr))
	assert.Equal(t, path, docErr.Path)
	assert.ErrorIs(t, err, model.ErrSheetNotFound)
}

func TestExtractFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PSB_Broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0644))

	_, err := newTestExtractor().ExtractFile(path)

	var docErr *model.DocumentError
	require.True(t, errors.As(err, &docErr))
	assert.Contains(t, err.Error(), "PSB_Broken.xlsx")
}

func TestExtractFile_IndicatorsCapped(t *testing.T) {
	p := sampleProject(t, "LV-2024-001")
	p.Indicators = nil
	for i := 0; i < 12; i++ {
		v := float64(i + 1)
		p.Indicators = append(p.Indicators, sample.Indicator{
			Name:   fmt.Sprintf("Indicator %02d", i+1),
			Unit:   "Pieces",
			Values: []*float64{&v, &v},
		})
	}
	path := writeProject(t, p)

	rec, err := newTestExtractor().ExtractFile(path)
	require.NoError(t, err)

	require.Len(t, rec.Indicators, 10)
	assert.Equal(t, "Indicator 10", rec.Indicators[9].Name)
	assert.Len(t, rec.Measures, 3)
	assert.Contains(t, model.Deref(rec.Comment), "Pilot phase")
}

func TestExtractFile_Template(t *testing.T) {
	gen := sample.NewGenerator(model.DefaultLayout(), sample.DefaultStyle())
	path, err := gen.WriteTemplate(t.TempDir())
	require.NoError(t, err)

	rec, err := newTestExtractor().ExtractFile(path)
	require.NoError(t, err)

	assert.Empty(t, rec.ID)
	assert.Empty(t, rec.Indicators)
	assert.Empty(t, rec.Measures)
	assert.Nil(t, rec.BudgetTotal)
	assert.Equal(t, model.StatusUnknown, rec.StatusColor)
	assert.Equal(t, model.CharterUnknown, rec.HasCharter)
	assert.Nil(t, rec.Title)
	assert.Nil(t, rec.Comment)
}

func TestExtractFile_DateCellsReadAsDisplayed(t *testing.T) {
	layout := model.DefaultLayout()
	path := writeProject(t, sampleProject(t, "LV-2024-003"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	dateFmt := "dd.mm.yyyy"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	require.NoError(t, err)
	cell := fmt.Sprintf("B%d", layout.Metadata.PeriodStart)
	require.NoError(t, f.SetCellValue(layout.Sheet, cell, 45292))
	require.NoError(t, f.SetCellStyle(layout.Sheet, cell, cell, style))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	rec, err := newTestExtractor().ExtractFile(path)
	require.NoError(t, err)

	require.NotNil(t, rec.PeriodStart)
	assert.NotEqual(t, "45292", *rec.PeriodStart)
	assert.Contains(t, *rec.PeriodStart, "2024")

	// Amounts keep their raw value despite the thousands format
	require.NotNil(t, rec.BudgetTotal)
	assert.Equal(t, 280000.0, *rec.BudgetTotal)
}

// metadataGrid fills the metadata block of an otherwise empty grid
func metadataGrid() MemoryGrid {
	g := MemoryGrid{}
	rows := model.DefaultLayout().Metadata
	g.Set("B", rows.ID, model.Text("LV-9"))
	g.Set("B", rows.ReportingPeriod, model.Text("Q2/2025"))
	g.Set("B", rows.Charter, model.Text("yes"))
	g.Set("B", rows.Status, model.Text("green"))
	return g
}

func TestExtract_NonNumericBudget(t *testing.T) {
	g := metadataGrid()
	rows := model.DefaultLayout().Metadata
	g.Set("B", rows.BudgetTotal, model.Text("tbd"))
	g.Set("B", rows.BudgetConsumed, model.Number(5000))

	rec, err := newTestExtractor().Extract(g, "PSB_LV-9.xlsx")
	require.NoError(t, err)

	assert.Nil(t, rec.BudgetTotal)
	require.NotNil(t, rec.BudgetConsumed)
	assert.Nil(t, rec.ConsumedPercent)
	assert.Empty(t, rec.Warnings)
}

func TestExtract_YearsFallBackToLayout(t *testing.T) {
	g := metadataGrid()
	g.Set("A", 16, model.Text("Indicator"))
	g.Set("B", 16, model.Text("Unit"))
	g.Set("C", 16, model.Text("Target"))
	g.Set("A", 17, model.Text("Share"))
	g.Set("C", 17, model.Number(10))
	g.Set("D", 17, model.Text("pending"))

	rec, err := newTestExtractor().Extract(g, "PSB_LV-9.xlsx")
	require.NoError(t, err)

	require.Len(t, rec.Indicators, 1)
	years := rec.Indicators[0].Years
	require.Len(t, years, 3)
	assert.Equal(t, []int{2024, 2025, 2026}, []int{years[0].Year, years[1].Year, years[2].Year})
	assert.Equal(t, model.Text("pending"), years[0].Actual)

	// A text actual makes the target check inapplicable
	assert.Empty(t, rec.Warnings)
}

func TestExtract_NoValidator(t *testing.T) {
	g := MemoryGrid{}
	e := NewExtractor(model.DefaultLayout(), nil, nil)

	rec, err := e.Extract(g, "PSB_empty.xlsx")
	require.NoError(t, err)
	assert.Empty(t, rec.Warnings)
	assert.Equal(t, "PSB_empty.xlsx", rec.SourceFile)
}

func TestExtract_AbsentTextIsNull(t *testing.T) {
	rec, err := newTestExtractor().Extract(metadataGrid(), "PSB_LV-9.xlsx")
	require.NoError(t, err)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	for _, key := range []string{"title", "chapter", "sponsor", "periodStart", "periodEnd", "comment", "shortDescription"} {
		v, ok := out[key]
		assert.True(t, ok, key)
		assert.Nil(t, v, key)
	}
	assert.Equal(t, "Q2/2025", out["reportingPeriod"])
}

func TestExtract_BlankTextBelowLabelIsNull(t *testing.T) {
	g := metadataGrid()
	g.Set("A", 30, model.Text("Comment / Explanation"))
	g.Set("A", 34, model.Text("Short description"))
	g.Set("A", 35, model.Text("Lab rollout"))

	rec, err := newTestExtractor().Extract(g, "PSB_LV-9.xlsx")
	require.NoError(t, err)

	assert.Nil(t, rec.Comment)
	require.NotNil(t, rec.ShortDescription)
	assert.Equal(t, "Lab rollout", *rec.ShortDescription)
}

func TestExtract_ReportingPeriodKeptAsTyped(t *testing.T) {
	g := metadataGrid()
	g.Set("B", model.DefaultLayout().Metadata.ReportingPeriod, model.Text("Q4/2024 "))

	rec, err := newTestExtractor().Extract(g, "PSB_LV-9.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "Q4/2024 ", model.Deref(rec.ReportingPeriod))
	assert.Equal(t, []string{"Reporting period 'Q4/2024 ' does not match the format 'Qn/YYYY'"}, rec.Warnings)
}
