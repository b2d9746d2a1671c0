package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/psbfold/internal/aggregate"
	"github.com/ppiankov/psbfold/internal/model"
	"github.com/ppiankov/psbfold/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument(t *testing.T, records ...*model.ProjectRecord) Document {
	t.Helper()
	p, err := aggregate.NewAggregator().Aggregate(records)
	require.NoError(t, err)

	sources := make([]string, 0, len(records))
	for _, r := range records {
		sources = append(sources, r.SourceFile)
	}
	return Document{
		Meta: model.RunMeta{
			RunID:        "run-1",
			Generated:    time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC),
			RecordCount:  len(records),
			SourceFiles:  sources,
			Skipped:      []model.SkippedDocument{{File: "PSB_broken.xlsx", Error: "document PSB_broken.xlsx: zip: not a valid zip file"}},
			DuplicateIDs: p.DuplicateIDs,
		},
		Portfolio: p,
	}
}

func mixedRecords() []*model.ProjectRecord {
	return []*model.ProjectRecord{
		testutil.NewTestRecord("LV-2024-001", testutil.WithBudget(185000, 92000)),
		testutil.NewTestRecord("LV-2024-003",
			testutil.WithBudget(280000, 195000),
			testutil.WithStatus(model.StatusRed),
			testutil.WithCharter(model.CharterAbsent),
			testutil.WithSponsor("Rectorate"),
			testutil.WithComment("Staff shortage; external provider; \"urgent\""),
			testutil.WithIndicator("Share", 2024, model.Number(40), model.Number(25)),
			testutil.WithWarning("No project charter present"),
			testutil.WithWarning("Indicator 'Share': target 2024 missed (-37.5%%)"),
		),
		testutil.NewTestRecord("LV-2024-005", testutil.WithoutBudget(), testutil.WithCharter(model.CharterUnknown)),
	}
}

func TestWriteCSV(t *testing.T) {
	doc := testDocument(t, mixedRecords()...)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, doc))

	r := csv.NewReader(&buf)
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 1+len(doc.Portfolio.Projects))
	assert.Equal(t, csvHeader, rows[0])

	assert.Equal(t, []string{
		"LV-2024-003", "Project LV-2024-003", "Teaching", "Rectorate", "red",
		"280000", "195000", "69.6",
		"01.01.2024", "31.12.2026", "Q4/2024",
		"no", "2",
	}, rows[2])

	last := rows[3]
	assert.Equal(t, "", last[5])
	assert.Equal(t, "", last[7])
	assert.Equal(t, "", last[11])
	assert.Equal(t, "0", last[12])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testDocument(t)))
	assert.Equal(t, strings.Join(csvHeader, ";")+"\n", buf.String())
}

func TestJSON_RoundTrip(t *testing.T) {
	doc := testDocument(t, mixedRecords()...)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))
	assert.Contains(t, buf.String(), "\n  \"meta\": {")
	assert.Contains(t, buf.String(), `"hasCharter": "no"`)
	assert.Contains(t, buf.String(), `"hasCharter": null`)

	meta, projects, err := ReadJSON(&buf)
	require.NoError(t, err)

	assert.Equal(t, "run-1", meta.RunID)
	assert.True(t, doc.Meta.Generated.Equal(meta.Generated))
	assert.Equal(t, 3, meta.RecordCount)
	assert.Equal(t, doc.Meta.Skipped, meta.Skipped)
	assert.Empty(t, meta.DuplicateIDs)

	require.Len(t, projects, 3)
	red := projects[1]
	assert.Equal(t, "LV-2024-003", red.ID)
	assert.Equal(t, model.StatusRed, red.StatusColor)
	assert.Equal(t, model.CharterAbsent, red.HasCharter)
	assert.Equal(t, 69.6, *red.ConsumedPercent)
	assert.Len(t, red.Warnings, 2)
	assert.Equal(t, model.Number(25), red.Indicators[0].Years[0].Actual)
	assert.Nil(t, projects[2].BudgetTotal)
}

func TestWriteMarkdown(t *testing.T) {
	doc := testDocument(t, mixedRecords()...)

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, doc))
	md := buf.String()

	assert.True(t, strings.HasPrefix(md, "# Consolidation Quality Report\n"))
	assert.Contains(t, md, "Run: `run-1`")
	assert.Contains(t, md, "Processed reports: 3")

	assert.Contains(t, md, "- **green**: 2 project(s)\n- **red**: 1 project(s)\n")
	assert.Contains(t, md, "- Total budget: 465,000 EUR")
	assert.Contains(t, md, "- Consumed: 287,000 EUR (61.7%)")

	assert.Contains(t, md, "## Anomalies for Manual Review")
	assert.Contains(t, md, "### LV-2024-003: Project LV-2024-003\n\n- No project charter present\n- Indicator 'Share': target 2024 missed (-37.5%)\n")
	assert.NotContains(t, md, NoAnomalies)

	assert.Contains(t, md, "## Critical Status (red)")
	assert.Contains(t, md, "- Sponsor: Rectorate")
	assert.Contains(t, md, "- Budget: 195,000 / 280,000 EUR")
	assert.Contains(t, md, "- Comment: Staff shortage")
	assert.NotContains(t, md, NoCritical)

	// Fixed section order
	status := strings.Index(md, "## Status Overview")
	budget := strings.Index(md, "## Budget Overview")
	anomalies := strings.Index(md, "## Anomalies")
	critical := strings.Index(md, "## Critical Status")
	assert.True(t, status < budget && budget < anomalies && anomalies < critical)
}

func TestWriteMarkdown_Sentinels(t *testing.T) {
	doc := testDocument(t, testutil.NewTestRecord("LV-1"))

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, doc))
	md := buf.String()

	assert.Contains(t, md, "## Anomalies\n\n"+NoAnomalies)
	assert.NotContains(t, md, "## Anomalies for Manual Review")
	assert.Contains(t, md, "## Critical Status (red)\n\n"+NoCritical)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,755,000", Amount(1755000))
	assert.Equal(t, "0", Amount(0))
	assert.Equal(t, "46.7%", Percent(func() *float64 { f := 46.7; return &f }()))
	assert.Equal(t, "n/a", Percent(nil))
	assert.Equal(t, "-", orDash(""))
}

func TestRenderer_Render(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	doc := testDocument(t, mixedRecords()...)

	artifacts, err := NewRenderer(dir).Render(doc)
	require.NoError(t, err)

	for _, path := range []string{artifacts.JSON, artifacts.CSV, artifacts.Markdown} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size())
	}
	assert.Equal(t, filepath.Join(dir, CSVFile), artifacts.CSV)
}

func TestExports_AbsentText(t *testing.T) {
	rec := testutil.NewTestRecord("LV-2024-009",
		testutil.WithoutText(),
		testutil.WithStatus(model.StatusRed),
	)
	doc := testDocument(t, rec)

	var jsonBuf bytes.Buffer
	require.NoError(t, WriteJSON(&jsonBuf, doc))
	assert.Contains(t, jsonBuf.String(), `"comment": null`)
	assert.Contains(t, jsonBuf.String(), `"title": null`)

	_, projects, err := ReadJSON(&jsonBuf)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Nil(t, projects[0].Sponsor)

	var csvBuf bytes.Buffer
	require.NoError(t, WriteCSV(&csvBuf, doc))
	r := csv.NewReader(&csvBuf)
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"LV-2024-009", "", "", ""}, rows[1][:4])
	assert.Equal(t, []string{"", "", ""}, rows[1][8:11])

	var mdBuf bytes.Buffer
	require.NoError(t, WriteMarkdown(&mdBuf, doc))
	assert.Contains(t, mdBuf.String(), "- Sponsor: -\n")
	assert.Contains(t, mdBuf.String(), "- Comment: -\n")
}
