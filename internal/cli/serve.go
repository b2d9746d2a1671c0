package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/psbfold/internal/preview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Preview consolidation output over HTTP",
	Long: `Serve exposes a consolidation output directory for local preview:

  /                 the generated files
  /api/portfolio    the structured export (consolidated.json)

Requests are rate limited per client. Stop with Ctrl+C.

Example:
  psb serve
  psb serve data/consolidated --addr 127.0.0.1:9000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: serve.addr)")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	dir := cfg.OutputDir
	if len(args) > 0 {
		dir = args[0]
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory not found: %s", dir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Serving %s on http://%s\n", dir, displayAddr(cfg.Serve.Addr))
	return preview.NewServer(dir, cfg.Serve, newLogger(cfg.Log.Level)).ListenAndServe(ctx)
}

// displayAddr turns ":8080" into "localhost:8080"
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
