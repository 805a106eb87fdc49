package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/config"
	"github.com/theirongolddev/pickplan/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	path := configPath()

	fmt.Printf("  Config file: %s\n", path)
	if config.ExistsAt(path) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:       %s\n", dbPath())
	fmt.Printf("    Default period: %s\n", cfg.General.DefaultPeriod)
	fmt.Println()

	fmt.Println("  [Planner]")
	if cfg.Planner.Rate > 0 {
		fmt.Printf("    Rate per pick:  %s\n", cli.FormatRate(cfg.Planner.Rate))
	} else {
		fmt.Println("    Rate per pick:  not set")
	}
	fmt.Printf("    Work hours:     %s\n", cli.FormatHours(cfg.Planner.WorkHours))
	fmt.Printf("    Break every:    %dh\n", cfg.Planner.BreakInterval)
	fmt.Printf("    Shift type:     %s\n", cfg.Planner.ShiftType)
	fmt.Println()

	if len(cfg.Rates) > 0 {
		fmt.Println("  [Rates]")
		for _, r := range cfg.Rates {
			shiftType := r.ShiftType
			if shiftType == "" {
				shiftType = "any"
			}
			from := r.EffectiveFrom
			if from == "" {
				from = "always"
			}
			fmt.Printf("    %-6s %-10s %s\n", shiftType, from, cli.FormatRate(r.Rate))
		}
		today := model.DateKey(now())
		for _, t := range model.ShiftTypes {
			if rate, ok := cfg.RateFor(t, today); ok {
				fmt.Printf("    In force today for %s: %s\n", t, cli.FormatRate(rate))
			}
		}
		fmt.Println()
	}

	fmt.Println("  [Forecast]")
	fmt.Printf("    Window:      %d shifts\n", cfg.Forecast.Window)
	fmt.Printf("    Min points:  %d\n", cfg.Forecast.MinPoints)
	fmt.Printf("    Month steps: %d\n", cfg.Forecast.MonthSteps)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval:      %ds\n", cfg.Daemon.IntervalSecs)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `pickplan setup` to reconfigure.")
	return nil
}
