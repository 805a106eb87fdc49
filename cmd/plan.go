package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/ledger"
	"github.com/theirongolddev/pickplan/internal/logger"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/planner"
	"github.com/theirongolddev/pickplan/internal/tui"
)

var (
	flagPlanTarget      string
	flagPlanRate        string
	flagPlanHours       string
	flagPlanBreak       string
	flagPlanDate        string
	flagPlanType        string
	flagPlanStatus      string
	flagPlanNote        string
	flagPlanCommit      bool
	flagPlanInteractive bool
)

var planCmd = &cobra.Command{
	Use:   "plan [target]",
	Short: "Work out picks, pace and breaks for a target",
	Long: "Compute how many picks a shift needs to reach a target amount, the hourly pace,\n" +
		"and the break schedule. Rate, hours and break interval default to the config.",
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	addPlanFlags(planCmd)
	planCmd.Flags().BoolVarP(&flagPlanCommit, "commit", "c", false, "Save the plan as a goal")
	planCmd.Flags().BoolVarP(&flagPlanInteractive, "interactive", "i", false, "Fill in the plan with a form")
	rootCmd.AddCommand(planCmd)
}

// addPlanFlags registers the calculator and goal metadata flags on cmd.
func addPlanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&flagPlanTarget, "target", "t", "", "Target earnings for the shift")
	f.StringVarP(&flagPlanRate, "rate", "r", "", "Rate per pick (default: config rate for the shift type)")
	f.StringVar(&flagPlanHours, "hours", "", "Work hours (default: config)")
	f.StringVar(&flagPlanBreak, "break", "", "Break every N hours (default: config)")
	f.StringVar(&flagPlanDate, "date", "", "Shift date YYYY-MM-DD (default: today)")
	f.StringVar(&flagPlanType, "type", "", "Shift type: day, night, short, long")
	f.StringVar(&flagPlanStatus, "status", "", "Shift status: regular, vacation, sick")
	f.StringVar(&flagPlanNote, "note", "", "Free-text note")
}

func runPlan(_ *cobra.Command, args []string) error {
	form := planFormFromFlags(args)

	if flagPlanInteractive {
		if err := form.Form().Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("plan form: %w", err)
		}
	}

	plan, ok := planner.ComputeRaw(form.Raw())
	if !ok {
		return errors.New("no plan: target, rate, hours and break interval must all be numbers above zero")
	}

	printPlan(plan)

	commit := flagPlanCommit
	if flagPlanInteractive && !commit {
		if err := huh.NewConfirm().
			Title("Save this plan as a goal?").
			Value(&commit).
			Run(); err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
	}
	if !commit {
		return nil
	}

	return withLedger(func(gs *ledger.GoalStore) (bool, error) {
		idx, ok := gs.Add(plan.Input, form.Entry())
		if !ok {
			return false, fmt.Errorf("goal not added: check --date, --type and --status")
		}
		g, _ := gs.Goal(idx)
		logger.Info("goal added", "id", g.ID, "date", g.Actual.Date, "target", g.Planned.Amount)
		fmt.Printf("  Saved as goal #%d for %s.\n\n", idx+1, g.Actual.Date)
		return true, nil
	})
}

// planFormFromFlags starts from the config defaults and overlays any flags.
func planFormFromFlags(args []string) *tui.PlanForm {
	today := model.DateKey(now())
	date := today
	if flagPlanDate != "" {
		date = flagPlanDate
	}
	cfg := appCfg
	if flagPlanType != "" {
		cfg.Planner.ShiftType = flagPlanType
	}
	form := tui.NewPlanForm(cfg, date)

	if len(args) > 0 {
		form.Target = args[0]
	}
	overlay := map[*string]string{
		&form.Target:        flagPlanTarget,
		&form.Rate:          flagPlanRate,
		&form.Hours:         flagPlanHours,
		&form.BreakInterval: flagPlanBreak,
		&form.Status:        flagPlanStatus,
		&form.Note:          flagPlanNote,
	}
	for field, v := range overlay {
		if v != "" {
			*field = v
		}
	}
	return form
}

func printPlan(p planner.Plan) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SHIFT PLAN  %s target", cli.FormatMoney(p.Input.TargetEarnings))))
	fmt.Println()

	rows := [][]string{
		{"Rate per pick", cli.FormatRate(p.Input.RatePerUnit)},
		{"Work hours", cli.FormatHours(p.Input.WorkHours)},
		cli.SeparatorRow,
		{"Picks needed", cli.FormatNumber(int64(p.UnitsNeeded))},
		{"Picks per hour", cli.FormatNumber(int64(p.UnitsPerHour))},
		{"Hourly rate", cli.FormatMoney(p.HourlyRate)},
		cli.SeparatorRow,
		{"Breaks", fmt.Sprintf("%d x %dm every %sh", p.BreaksCount, planner.BreakMinutes, strconv.Itoa(p.Input.BreakIntervalHours))},
		{"Break time", cli.FormatMinutes(float64(p.TotalBreakMinutes))},
		{"Working time", cli.FormatMinutes(p.EffectiveWorkMinutes)},
		{"Picks per break", cli.FormatNumber(int64(p.UnitsBeforeEachBreak))},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Plan", "Value"},
		Rows:    rows,
	}))
	fmt.Println()
}
