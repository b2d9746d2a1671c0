package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/psbfold/internal/sample"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var templateDir string

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample [dir]",
	Short: "Generate synthetic status reports for testing",
	Long: `Sample writes five synthetic PSB workbooks and one blank template.

The sample portfolio contains known defects so that every quality rule has
something to find: a reporting period without year, a missing actual value,
a missing charter, missed targets and a green status with delayed measures.

Example:
  psb sample
  psb sample ./reports --template-dir ./templates`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVar(&templateDir, "template-dir", "", "directory for the blank template (default: sample.template_dir)")
	_ = viper.BindPFlag("sample.template_dir", sampleCmd.Flags().Lookup("template-dir"))
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	dir := cfg.InputDir
	if len(args) > 0 {
		dir = args[0]
	}

	gen := sample.NewGenerator(cfg.Layout, sample.DefaultStyle())

	fmt.Fprintf(os.Stderr, "Generating sample status reports in %s...\n\n", dir)
	paths, err := gen.WriteSamples(dir)
	for _, path := range paths {
		fmt.Fprintf(os.Stderr, "  ✓ %s\n", filepath.Base(path))
	}
	if err != nil {
		return fmt.Errorf("generate samples: %w", err)
	}

	tmpl, err := gen.WriteTemplate(cfg.Sample.TemplateDir)
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}
	fmt.Fprintf(os.Stderr, "  ✓ %s\n", tmpl)

	fmt.Fprintf(os.Stderr, "\n%d reports written. Next:\n  psb consolidate %s\n", len(paths), dir)
	return nil
}
