package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/psbfold/internal/aggregate"
	"github.com/ppiankov/psbfold/internal/extract"
	"github.com/ppiankov/psbfold/internal/model"
	"github.com/ppiankov/psbfold/internal/report"
	"github.com/ppiankov/psbfold/internal/validate"
)

// Pipeline orchestrates one consolidation run: discover, extract and
// validate each document in turn, aggregate, render
type Pipeline struct {
	config     *model.Config
	extractor  *extract.Extractor
	aggregator *aggregate.Aggregator
	logger     *slog.Logger
	progress   io.Writer

	now   func() time.Time
	runID func() string
}

// NewPipeline creates a new pipeline with the given configuration.
// Progress lines go to progress; diagnostics go to logger.
func NewPipeline(cfg *model.Config, logger *slog.Logger, progress io.Writer) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if progress == nil {
		progress = io.Discard
	}

	validator := validate.NewValidator(cfg.Layout.Vocabulary)

	return &Pipeline{
		config:     cfg,
		extractor:  extract.NewExtractor(cfg.Layout, validator, logger),
		aggregator: aggregate.NewAggregator(),
		logger:     logger,
		progress:   progress,
		now:        time.Now,
		runID:      uuid.NewString,
	}
}

// Result is the outcome of a consolidation run
type Result struct {
	Meta      model.RunMeta
	Portfolio *model.Portfolio
	Files     []string // Every discovered file, including dropped ones
}

// Document returns the renderer input for this result
func (r *Result) Document() report.Document {
	return report.Document{Meta: r.Meta, Portfolio: r.Portfolio}
}

// Consolidate extracts every status report in inputDir, one at a time in
// file name order. Unreadable documents are dropped and listed in
// Meta.Skipped. Returns model.ErrNoDocuments when nothing matches.
func (p *Pipeline) Consolidate(ctx context.Context, inputDir string) (*Result, error) {
	files, err := Discover(inputDir, p.config.Layout.FilePattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", model.ErrNoDocuments, inputDir)
	}

	fmt.Fprintf(p.progress, "Consolidating %d status reports...\n\n", len(files))

	records := make([]*model.ProjectRecord, 0, len(files))
	skipped := []model.SkippedDocument{}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("consolidate: %w", err)
		}

		name := filepath.Base(file)
		fmt.Fprintf(p.progress, "  Processing: %s\n", name)

		rec, err := p.extractor.ExtractFile(file)
		if err != nil {
			fmt.Fprintf(p.progress, "  ✗ %s: %v\n", name, err)
			p.logger.Warn("document dropped", "file", name, "error", err)
			skipped = append(skipped, model.SkippedDocument{File: name, Error: err.Error()})
			continue
		}

		p.logger.Debug("document extracted", "file", name, "id", rec.ID,
			"indicators", len(rec.Indicators), "measures", len(rec.Measures), "warnings", len(rec.Warnings))
		records = append(records, rec)
	}

	portfolio, err := p.aggregator.Aggregate(records)
	if err != nil {
		var divErr *model.AggregateDivisionError
		if errors.As(err, &divErr) {
			p.logger.Error("portfolio budget inconsistent", "consumed", divErr.Consumed)
		}
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	sources := make([]string, 0, len(records))
	for _, rec := range records {
		sources = append(sources, rec.SourceFile)
	}

	return &Result{
		Meta: model.RunMeta{
			RunID:        p.runID(),
			Generated:    p.now().UTC(),
			RecordCount:  len(records),
			SourceFiles:  sources,
			Skipped:      skipped,
			DuplicateIDs: portfolio.DuplicateIDs,
		},
		Portfolio: portfolio,
		Files:     files,
	}, nil
}

// Render writes the consolidation artifacts into outputDir
func (p *Pipeline) Render(result *Result, outputDir string) (report.Artifacts, error) {
	artifacts, err := report.NewRenderer(outputDir).Render(result.Document())
	if err != nil {
		return artifacts, err
	}

	fmt.Fprintf(p.progress, "\n  JSON:   %s\n", filepath.Base(artifacts.JSON))
	fmt.Fprintf(p.progress, "  CSV:    %s\n", filepath.Base(artifacts.CSV))
	fmt.Fprintf(p.progress, "  Report: %s\n", filepath.Base(artifacts.Markdown))
	return artifacts, nil
}
