package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/pipeline"
)

var (
	flagTrendsBy   string
	flagTrendsLast int
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Earnings per ISO week or calendar month",
	Args:  cobra.NoArgs,
	RunE:  runTrends,
}

func init() {
	trendsCmd.Flags().StringVar(&flagTrendsBy, "by", "week", "Bucket size: week or month")
	trendsCmd.Flags().IntVarP(&flagTrendsLast, "last", "n", 12, "Show only the most recent N buckets (0 for all)")
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(_ *cobra.Command, _ []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	var series []model.SeriesPoint
	var label string
	switch flagTrendsBy {
	case "week", "w":
		series = pipeline.WeeklySeries(snap.Records)
		label = "Week"
	case "month", "m":
		series = pipeline.MonthlySeries(snap.Records)
		label = "Month"
	default:
		return fmt.Errorf("unknown --by %q (want week or month)", flagTrendsBy)
	}

	if len(series) == 0 {
		fmt.Println("\n  No shift records yet.")
		return nil
	}
	if flagTrendsLast > 0 && len(series) > flagTrendsLast {
		series = series[len(series)-flagTrendsLast:]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRENDS  Earnings by %s", label)))
	fmt.Println()

	amounts := make([]float64, len(series))
	rows := make([][]string, 0, len(series))
	for i, p := range series {
		amounts[i] = p.Amount
		delta := ""
		if i > 0 && series[i-1].Amount > 0 {
			delta = cli.FormatDelta(p.Amount, series[i-1].Amount)
		}
		rows = append(rows, []string{
			p.Key,
			cli.FormatNumber(int64(p.Count)),
			cli.FormatMoney(p.Amount),
			delta,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{label, "Shifts", "Earnings", "Change"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Trend  %s\n\n", cli.RenderSparkline(amounts))
	return nil
}
