package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/ppiankov/psbfold/internal/pipeline"
	"github.com/ppiankov/psbfold/internal/report"
)

// palette colors console output. The zero value prints plain text.
type palette struct {
	title func(string) string
	ok    func(string) string
	warn  func(string) string
	bad   func(string) string
}

// newPalette returns a colored palette when w is a terminal
func newPalette(w io.Writer) palette {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return palette{}
	}

	r := lipgloss.NewRenderer(f)
	return palette{
		title: render(r.NewStyle().Bold(true)),
		ok:    render(r.NewStyle().Foreground(lipgloss.Color("2"))),
		warn:  render(r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)),
		bad:   render(r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)),
	}
}

func render(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}

func (p palette) apply(style func(string) string, s string) string {
	if style == nil {
		return s
	}
	return style(s)
}

// printSummary prints the end-of-run overview
func printSummary(w io.Writer, result *pipeline.Result, p palette) {
	portfolio := result.Portfolio
	meta := result.Meta

	fmt.Fprintf(w, "\n%s\n", p.apply(p.title, "Consolidation complete"))
	fmt.Fprintf(w, "  %s Records:    %d\n", p.apply(p.ok, "✓"), meta.RecordCount)

	tally := make([]string, 0, len(portfolio.StatusCounts))
	for _, sc := range portfolio.StatusCounts {
		tally = append(tally, fmt.Sprintf("%s %d", sc.Status, sc.Count))
	}
	if len(tally) > 0 {
		fmt.Fprintf(w, "    Status:     %s\n", strings.Join(tally, ", "))
	}

	fmt.Fprintf(w, "    Budget:     %s / %s EUR (%s)\n",
		report.Amount(portfolio.BudgetConsumed), report.Amount(portfolio.BudgetTotal), report.Percent(portfolio.ConsumedPercent))
	fmt.Fprintf(w, "    Warnings:   %d in %d record(s)\n", portfolio.WarningCount(), len(portfolio.Flagged))
	fmt.Fprintf(w, "    Critical:   %d\n", len(portfolio.Critical))

	if len(meta.DuplicateIDs) > 0 {
		fmt.Fprintf(w, "  %s Duplicate IDs: %s\n", p.apply(p.warn, "!"), strings.Join(meta.DuplicateIDs, ", "))
	}

	if len(meta.Skipped) > 0 {
		fmt.Fprintf(w, "  %s Skipped:    %d\n", p.apply(p.bad, "✗"), len(meta.Skipped))
		for _, s := range meta.Skipped {
			fmt.Fprintf(w, "      %s: %s\n", s.File, s.Error)
		}
	}

	if len(portfolio.Flagged) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.apply(p.warn,
			fmt.Sprintf("⚠ %d project(s) need attention: review %s before release.", len(portfolio.Flagged), report.MarkdownFile)))
	}
}
