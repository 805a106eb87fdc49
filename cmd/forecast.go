package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/pipeline"
)

var flagForecastWindow int

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project upcoming shift earnings from recent records",
	Args:  cobra.NoArgs,
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().IntVar(&flagForecastWindow, "window", 0, "Recent records to fit (default: config)")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	opts := forecastOptions()
	if cmd.Flags().Changed("window") {
		opts.Window = flagForecastWindow
	}
	f := pipeline.Forecast(snap.Records, opts)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  Last %d shifts", opts.Window)))
	fmt.Println()

	if !f.Available {
		fmt.Printf("  No forecast: %s.\n", f.Reason)
		fmt.Printf("  At least %d recent shifts with earnings are needed.\n\n", opts.MinPoints)
		return nil
	}

	rows := [][]string{
		{"Next shift", cli.FormatMoney(f.NextWeek)},
		{fmt.Sprintf("%d shifts out", opts.MonthSteps), cli.FormatMoney(f.NextMonth)},
		cli.SeparatorRow,
		{"Trend", string(f.Trend)},
		{"Change per shift", fmt.Sprintf("%+.2f", f.Slope)},
		{"Baseline", cli.FormatMoney(f.Intercept)},
		{"Shifts used", cli.FormatNumber(int64(f.Points))},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Forecast", "Value"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
