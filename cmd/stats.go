package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/pipeline"
)

var statsCmd = &cobra.Command{
	Use:       "stats [week|month|year]",
	Short:     "Earnings and picks for the current period",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"week", "month", "year"},
	RunE:      runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	periodArg := appCfg.General.DefaultPeriod
	if len(args) > 0 {
		periodArg = args[0]
	}
	period, err := pipeline.ParsePeriod(periodArg)
	if err != nil {
		return err
	}

	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	if len(snap.Records) == 0 {
		fmt.Println("\n  No shift records yet.")
		fmt.Println("  Plan a shift with `pickplan plan`, then complete it with `pickplan goal toggle`.")
		return nil
	}

	asOf := now()
	stats := pipeline.StatsForPeriod(snap.Records, period, asOf)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("EARNINGS  This %s  %s to %s", period, stats.Start, stats.End)))
	fmt.Println()

	if stats.Days == 0 {
		fmt.Println("  No shifts recorded in this period.")
		fmt.Println()
		return nil
	}

	rows := [][]string{
		{"Total earnings", cli.FormatMoney(stats.TotalEarnings)},
		{"Total picks", cli.FormatNumber(int64(stats.TotalPicks))},
		{"Days worked", cli.FormatNumber(int64(stats.Days))},
		cli.SeparatorRow,
		{"Average per day", cli.FormatMoney(stats.AverageEarnings)},
		{"Picks per day", fmt.Sprintf("%.1f", stats.AveragePicks)},
	}

	if prev := previousPeriodStats(snap.Records, period, asOf); prev.TotalEarnings > 0 {
		rows = append(rows, cli.SeparatorRow, []string{
			"Versus last " + string(period),
			fmt.Sprintf("%s  (%s)", cli.FormatMoney(prev.TotalEarnings), cli.FormatDelta(stats.TotalEarnings, prev.TotalEarnings)),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(stats.Records) > 1 {
		amounts := make([]float64, len(stats.Records))
		for i, r := range stats.Records {
			amounts[i] = r.Amount
		}
		fmt.Printf("\n  Daily  %s\n", cli.RenderSparkline(amounts))
	}
	fmt.Println()
	return nil
}

// previousPeriodStats returns the stats for the period before the one
// containing asOf.
func previousPeriodStats(records []model.ShiftRecord, p pipeline.Period, asOf time.Time) model.PeriodStats {
	prev := pipeline.PeriodStart(p, asOf).AddDate(0, 0, -1)
	return pipeline.StatsForPeriod(records, p, prev)
}
