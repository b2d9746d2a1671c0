package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/psbfold/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via -ldflags
var version = "dev"

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "psb",
	Short: "psb - Consolidation of project status reports",
	Long: `psb consolidates project status reports (PSB workbooks) into one
portfolio view.

Each report is read from its fixed template layout, checked against a set of
data-quality rules, and folded into portfolio figures. A run produces:

  consolidated.json   structured export with every record and its warnings
  consolidated.csv    flat table for spreadsheet tools
  quality_report.md   narrative report for manual review

Warnings are advisory. psb never rejects a report for its content.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "psb %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.psb/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".psb"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		}
	}
}

// bindEnv maps PSB_OUTPUT_DIR, PSB_LOG_LEVEL, PSB_SERVE_ADDR, ... onto keys
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("PSB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers the scalar keys so environment overrides reach
// Unmarshal. The layout is only configurable through the config file.
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("input_dir", cfg.InputDir)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("serve.addr", cfg.Serve.Addr)
	v.SetDefault("serve.max_conns", cfg.Serve.MaxConns)
	v.SetDefault("serve.requests_per_second", cfg.Serve.RequestsPerSecond)
	v.SetDefault("serve.burst", cfg.Serve.Burst)
	v.SetDefault("serve.cache_ttl", cfg.Serve.CacheTTL)
	v.SetDefault("sample.template_dir", cfg.Sample.TemplateDir)
}

// loadConfig merges defaults, config file and environment into a Config
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger creates the diagnostic logger. Unknown levels fall back to info.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
