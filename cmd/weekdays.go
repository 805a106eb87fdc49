package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/pipeline"
)

var weekdaysCmd = &cobra.Command{
	Use:   "weekdays",
	Short: "Average earnings per day of the week",
	Args:  cobra.NoArgs,
	RunE:  runWeekdays,
}

func init() {
	rootCmd.AddCommand(weekdaysCmd)
}

func runWeekdays(_ *cobra.Command, _ []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	if len(snap.Records) == 0 {
		fmt.Println("\n  No shift records yet.")
		return nil
	}

	avgs := pipeline.WeekdayAverages(snap.Records)
	peak := 0.0
	for _, a := range avgs {
		peak = max(peak, a.Average)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("WEEKDAYS  Average per shift"))
	fmt.Println()

	rows := make([][]string, 0, 7)
	// Monday first
	for i := 1; i <= 7; i++ {
		a := avgs[i%7]
		rows = append(rows, []string{
			cli.FormatDayOfWeek(time.Weekday(i % 7)),
			cli.FormatNumber(int64(a.Count)),
			cli.FormatMoney(a.Average),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Day", "Shifts", "Average"},
		Rows:    rows,
	}))
	fmt.Println()

	for i := 1; i <= 7; i++ {
		a := avgs[i%7]
		fmt.Println(cli.RenderHorizontalBar(cli.FormatDayOfWeek(a.Weekday), a.Average, peak, 40))
	}
	fmt.Println()
	return nil
}
