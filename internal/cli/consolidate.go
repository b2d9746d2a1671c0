package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/psbfold/internal/model"
	"github.com/ppiankov/psbfold/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// consolidateCmd represents the consolidate command
var consolidateCmd = &cobra.Command{
	Use:   "consolidate [input-dir] [output-dir]",
	Short: "Consolidate all status reports in a directory",
	Long: `Consolidate reads every PSB_*.xlsx report in the input directory in file
name order, checks each one against the data-quality rules and writes
consolidated.json, consolidated.csv and quality_report.md to the output
directory.

Reports that cannot be opened are skipped and listed in the summary.

Example:
  psb consolidate
  psb consolidate data/sample data/consolidated
  PSB_LOG_LEVEL=debug psb consolidate ./reports ./out`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConsolidate,
}

func init() {
	rootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	inputDir, outputDir := cfg.InputDir, cfg.OutputDir
	if len(args) > 0 {
		inputDir = args[0]
	}
	if len(args) > 1 {
		outputDir = args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg.Log.Level)
	p := pipeline.NewPipeline(cfg, logger, os.Stderr)

	result, err := p.Consolidate(ctx, inputDir)
	if errors.Is(err, model.ErrNoDocuments) {
		fmt.Fprintf(os.Stderr, "No status reports (%s) found in %s\n", cfg.Layout.FilePattern, inputDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("consolidation failed: %w", err)
	}

	if _, err := p.Render(result, outputDir); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	printSummary(os.Stderr, result, newPalette(os.Stderr))
	return nil
}
