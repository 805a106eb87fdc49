// Package cmd implements the pickplan CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/config"
	"github.com/theirongolddev/pickplan/internal/ledger"
	"github.com/theirongolddev/pickplan/internal/logger"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/pipeline"
	"github.com/theirongolddev/pickplan/internal/store"
)

var (
	flagDBPath     string
	flagConfigPath string
	flagQuiet      bool
	flagDebug      bool
	flagToday      string
)

// appCfg is the configuration loaded before any command runs.
var appCfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "pickplan",
	Short: "Shift planning and earnings tracking",
	Long:  "Plan piece-rate shifts, record what you actually earned, and see period stats, trends and forecasts.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Close()
	},
	SilenceUsage: true,
	RunE:         runStats,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path (default: data dir)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Treat this YYYY-MM-DD date as today")
}

func setup(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	appCfg = cfg

	if flagToday != "" {
		if _, ok := model.ParseDate(flagToday); !ok {
			return fmt.Errorf("invalid --today %q (want YYYY-MM-DD)", flagToday)
		}
	}

	if err := logger.Init(logger.Config{
		Debug:   flagDebug,
		DataDir: pipeline.DataDir(),
		Prefix:  "pickplan",
	}); err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Logging disabled: %v\n", err)
	}
	logger.Debug("command start", "cmd", cmd.CommandPath(), "db", dbPath())
	return nil
}

func loadConfig() (config.Config, error) {
	if flagConfigPath != "" {
		return config.LoadFromPath(flagConfigPath)
	}
	return config.Load()
}

func configPath() string {
	if flagConfigPath != "" {
		return flagConfigPath
	}
	return config.ConfigPath()
}

// dbPath resolves the database location: flag, then config, then data dir.
func dbPath() string {
	if flagDBPath != "" {
		return flagDBPath
	}
	if appCfg.General.DBPath != "" {
		return appCfg.General.DBPath
	}
	return pipeline.DBPath()
}

// now returns the as-of time, honoring --today.
func now() time.Time {
	if flagToday != "" {
		if d, ok := model.ParseDate(flagToday); ok {
			return d.Add(12 * time.Hour)
		}
	}
	return time.Now()
}

func forecastOptions() pipeline.ForecastOptions {
	return pipeline.ForecastOptions{
		Window:     appCfg.Forecast.Window,
		MinPoints:  appCfg.Forecast.MinPoints,
		MonthSteps: appCfg.Forecast.MonthSteps,
	}
}

// loadSnapshot reads the stored goals and records for read-only commands.
func loadSnapshot() (model.Snapshot, error) {
	st, err := store.Open(dbPath())
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = st.Close() }()

	snap, err := st.LoadSnapshot()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("loading data: %w", err)
	}
	return snap, nil
}

// withLedger loads the stored state into a GoalStore, runs fn, and saves the
// whole snapshot back when fn reports a change.
func withLedger(fn func(gs *ledger.GoalStore) (bool, error)) error {
	st, err := store.Open(dbPath())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = st.Close() }()

	snap, err := st.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}
	gs := ledger.FromSnapshot(snap)
	gs.SetClock(now)

	changed, err := fn(gs)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := st.SaveSnapshot(gs.Snapshot()); err != nil {
		return fmt.Errorf("saving data: %w", err)
	}
	logger.Info("snapshot saved", "goals", gs.Len(), "records", gs.Records().Len())
	return nil
}

func formatNumber(n int64) string {
	return cli.FormatNumber(n)
}
