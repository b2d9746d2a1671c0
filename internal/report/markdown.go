package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ppiankov/psbfold/internal/model"
)

const (
	// NoAnomalies replaces the warnings section when no record was flagged
	NoAnomalies = "No anomalies found."
	// NoCritical replaces the critical list when no record is red
	NoCritical = "No projects with red status."
)

// WriteMarkdown writes the narrative quality report. Sections appear in a
// fixed order: status tally, budget, anomalies, critical status.
func WriteMarkdown(w io.Writer, doc Document) error {
	p := doc.Portfolio
	var b strings.Builder

	b.WriteString("# Consolidation Quality Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", doc.Meta.Generated.Local().Format("02.01.2006 15:04"))
	if doc.Meta.RunID != "" {
		fmt.Fprintf(&b, "Run: `%s`\n\n", doc.Meta.RunID)
	}
	fmt.Fprintf(&b, "Processed reports: %d\n\n", len(p.Projects))

	writeStatusSection(&b, p)
	writeBudgetSection(&b, p)
	writeAnomalySection(&b, p)
	writeCriticalSection(&b, p)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeStatusSection(b *strings.Builder, p *model.Portfolio) {
	b.WriteString("## Status Overview\n\n")
	if len(p.StatusCounts) == 0 {
		b.WriteString("No projects.\n\n")
		return
	}
	for _, sc := range p.StatusCounts {
		fmt.Fprintf(b, "- **%s**: %d project(s)\n", sc.Status, sc.Count)
	}
	b.WriteString("\n")
}

func writeBudgetSection(b *strings.Builder, p *model.Portfolio) {
	b.WriteString("## Budget Overview\n\n")
	fmt.Fprintf(b, "- Total budget: %s EUR\n", Amount(p.BudgetTotal))
	fmt.Fprintf(b, "- Consumed: %s EUR (%s)\n\n", Amount(p.BudgetConsumed), Percent(p.ConsumedPercent))
}

func writeAnomalySection(b *strings.Builder, p *model.Portfolio) {
	if len(p.Flagged) == 0 {
		b.WriteString("## Anomalies\n\n")
		b.WriteString(NoAnomalies + "\n\n")
		return
	}

	b.WriteString("## Anomalies for Manual Review\n\n")
	for _, rec := range p.Flagged {
		fmt.Fprintf(b, "### %s: %s\n\n", rec.ID, model.Deref(rec.Title))
		for _, w := range rec.Warnings {
			fmt.Fprintf(b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
}

func writeCriticalSection(b *strings.Builder, p *model.Portfolio) {
	b.WriteString("## Critical Status (red)\n\n")
	if len(p.Critical) == 0 {
		b.WriteString(NoCritical + "\n")
		return
	}

	for _, rec := range p.Critical {
		fmt.Fprintf(b, "### %s: %s\n\n", rec.ID, model.Deref(rec.Title))
		fmt.Fprintf(b, "- Sponsor: %s\n", orDash(rec.Sponsor))
		fmt.Fprintf(b, "- Budget: %s / %s EUR\n", optionalAmount(rec.BudgetConsumed), optionalAmount(rec.BudgetTotal))
		fmt.Fprintf(b, "- Comment: %s\n\n", orDash(rec.Comment))
	}
}

// Amount formats a euro amount with thousands separators and no decimals
func Amount(f float64) string {
	return humanize.Comma(int64(math.Round(f)))
}

// Percent formats a percentage with one decimal, or n/a
func Percent(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *f)
}

func optionalAmount(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return Amount(*f)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
