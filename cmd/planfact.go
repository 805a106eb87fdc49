package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/pipeline"
)

var flagPlanFactPeriod string

var planFactCmd = &cobra.Command{
	Use:   "planfact",
	Short: "Planned against earned amounts per date",
	Args:  cobra.NoArgs,
	RunE:  runPlanFact,
}

func init() {
	planFactCmd.Flags().StringVarP(&flagPlanFactPeriod, "period", "p", "", "Only dates in the current week, month or year")
	rootCmd.AddCommand(planFactCmd)
}

func runPlanFact(_ *cobra.Command, _ []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	points := pipeline.PlanVsFact(snap.Goals, snap.Records)
	title := "PLAN VS FACT  All dates"
	if flagPlanFactPeriod != "" {
		p, err := pipeline.ParsePeriod(flagPlanFactPeriod)
		if err != nil {
			return err
		}
		start := model.DateKey(pipeline.PeriodStart(p, now()))
		end := model.DateKey(pipeline.PeriodEnd(p, now()))
		kept := points[:0]
		for _, pt := range points {
			if pt.Date >= start && pt.Date <= end {
				kept = append(kept, pt)
			}
		}
		points = kept
		title = fmt.Sprintf("PLAN VS FACT  This %s", p)
	}

	if len(points) == 0 {
		fmt.Println("\n  No goals or records to compare.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	var planTotal, factTotal float64
	rows := make([][]string, 0, len(points)+2)
	for _, pt := range points {
		pct := ""
		if pt.Plan > 0 {
			pct = cli.FormatPercent(pt.Fact / pt.Plan)
		}
		rows = append(rows, []string{
			pt.Date,
			cli.FormatMoney(pt.Plan),
			cli.FormatMoney(pt.Fact),
			cli.FormatDelta(pt.Fact, pt.Plan),
			pct,
		})
		planTotal += pt.Plan
		factTotal += pt.Fact
	}
	rows = append(rows, cli.SeparatorRow, []string{
		"Total", cli.FormatMoney(planTotal), cli.FormatMoney(factTotal), cli.FormatDelta(factTotal, planTotal), "",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Plan", "Fact", "Delta", "Done"},
		Rows:    rows,
	}))
	if planTotal > 0 {
		fmt.Println()
		fmt.Println(cli.RenderGoalProgress(factTotal, planTotal, 40))
	}
	fmt.Println()
	return nil
}
