// evtcflow - combat log decoder and analyzer.
// Decodes EVTC captures, rebuilds the fight and reports outcome and
// challenge-mote state per encounter.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/evtcflow/evtcflow/internal/logging"
	"github.com/evtcflow/evtcflow/pkg/analyzer"
	"github.com/evtcflow/evtcflow/pkg/config"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// CLI flags
var (
	verbose     bool
	jsonLogs    bool
	formatFlag  string
	catalogFlag string
	workersFlag int
	noColor     bool
	noProgress  bool
)

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "evtcflow",
	Short: "evtcflow - decode and analyze EVTC combat logs",
	Long: `evtcflow decodes EVTC combat log captures, rebuilds the fight from the
raw records and derives per-encounter results: win or loss, and whether
the challenge mote was active.

Captures may be bare .evtc files or packed in zip/gzip containers.`,
	Version:           fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "emit diagnostics as JSON")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "challenge-mote rule override file")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "output format (table|json)")
	rootCmd.PersistentFlags().IntVarP(&workersFlag, "workers", "w", 0, "parallel workers (0 = auto)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled output")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup loads layered config and applies flag overrides on top.
func setup(cmd *cobra.Command, args []string) error {
	mgr := config.NewManager()
	if err := mgr.Load(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = mgr.Get()

	if formatFlag != "" {
		cfg.Report.Format = formatFlag
	}
	if catalogFlag != "" {
		cfg.Process.Catalog = catalogFlag
	}
	if workersFlag != 0 {
		cfg.Process.Workers = workersFlag
	}
	if noColor {
		cfg.Report.Color = false
	}
	if noProgress {
		cfg.Report.Progress = false
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if verbose {
		level = slog.LevelDebug
	}
	logging.Init(jsonLogs || cfg.Logging.JSON, level)
	return nil
}

// engine builds the analyzer engine, honoring a catalog override file.
func engine() (*analyzer.Engine, error) {
	if cfg.Process.Catalog == "" {
		return analyzer.NewEngine(nil), nil
	}
	cat, err := analyzer.LoadCatalog(cfg.Process.Catalog)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded challenge catalog", "path", cfg.Process.Catalog)
	return analyzer.NewEngine(cat), nil
}
