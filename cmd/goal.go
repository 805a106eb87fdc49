package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/ledger"
	"github.com/theirongolddev/pickplan/internal/logger"
	"github.com/theirongolddev/pickplan/internal/model"
)

var (
	flagGoalOpen   bool
	flagEditAmount string
	flagEditPicks  string
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "List and manage planned shifts",
	RunE:  runGoalList,
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals in the order they were planned",
	Args:  cobra.NoArgs,
	RunE:  runGoalList,
}

var goalAddCmd = &cobra.Command{
	Use:   "add [target]",
	Short: "Plan a shift and save it as a goal (same flags as plan)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flagPlanCommit = true
		return runPlan(cmd, args)
	},
}

var goalToggleCmd = &cobra.Command{
	Use:   "toggle <n>",
	Short: "Mark goal n done (records the shift) or reopen it",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalToggle,
}

var goalDeleteCmd = &cobra.Command{
	Use:   "delete <n>",
	Short: "Delete goal n; its shift record is kept",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalDelete,
}

var goalEditCmd = &cobra.Command{
	Use:   "edit <n>",
	Short: "Correct the actual amount or picks of goal n",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalEdit,
}

func init() {
	goalListCmd.Flags().BoolVar(&flagGoalOpen, "open", false, "Only goals not yet done")
	addPlanFlags(goalAddCmd)
	goalEditCmd.Flags().StringVar(&flagEditAmount, "amount", "", "Actual amount earned (picks follow from the rate)")
	goalEditCmd.Flags().StringVar(&flagEditPicks, "picks", "", "Actual picks (amount follows from the rate)")
	goalEditCmd.MarkFlagsMutuallyExclusive("amount", "picks")
	goalEditCmd.MarkFlagsOneRequired("amount", "picks")

	goalCmd.AddCommand(goalListCmd, goalAddCmd, goalToggleCmd, goalDeleteCmd, goalEditCmd)
	rootCmd.AddCommand(goalCmd)
}

func runGoalList(_ *cobra.Command, _ []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	if len(snap.Goals) == 0 {
		fmt.Println("\n  No goals yet. Plan one with `pickplan plan <target> --commit`.")
		return nil
	}

	rows := make([][]string, 0, len(snap.Goals))
	for i, g := range snap.Goals {
		if flagGoalOpen && g.Completed {
			continue
		}
		done := ""
		if g.Completed {
			done = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			g.Actual.Date,
			string(g.Actual.Type),
			string(g.Actual.Status),
			cli.FormatMoney(g.Planned.Amount),
			cli.FormatMoney(g.Actual.Amount),
			cli.FormatNumber(int64(g.Actual.Picks)),
			cli.FormatRate(g.Actual.Rate),
			done,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("GOALS  %d planned", len(snap.Goals))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"#", "Date", "Type", "Status", "Target", "Actual", "Picks", "Rate", "Done"},
		Rows:    rows,
	}))
	for i, g := range snap.Goals {
		if g.Actual.Note != "" && (!flagGoalOpen || !g.Completed) {
			fmt.Printf("  #%d  %s\n", i+1, g.Actual.Note)
		}
	}
	fmt.Println()
	return nil
}

// goalIndex converts a 1-based goal number from the command line.
func goalIndex(arg string, gs *ledger.GoalStore) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > gs.Len() {
		return 0, fmt.Errorf("no goal #%s (have %d)", arg, gs.Len())
	}
	return n - 1, nil
}

func runGoalToggle(_ *cobra.Command, args []string) error {
	return withLedger(func(gs *ledger.GoalStore) (bool, error) {
		i, err := goalIndex(args[0], gs)
		if err != nil {
			return false, err
		}
		if !gs.Toggle(i) {
			return false, fmt.Errorf("goal #%s could not be toggled", args[0])
		}
		g, _ := gs.Goal(i)
		logger.Info("goal toggled", "id", g.ID, "completed", g.Completed)
		if g.Completed {
			fmt.Printf("  Goal #%s done: %s recorded for %s.\n", args[0], cli.FormatMoney(g.Actual.Amount), g.Actual.Date)
		} else {
			fmt.Printf("  Goal #%s reopened: record for %s removed.\n", args[0], g.Actual.Date)
		}
		return true, nil
	})
}

func runGoalDelete(_ *cobra.Command, args []string) error {
	return withLedger(func(gs *ledger.GoalStore) (bool, error) {
		i, err := goalIndex(args[0], gs)
		if err != nil {
			return false, err
		}
		g, _ := gs.Goal(i)
		if !gs.Delete(i) {
			return false, nil
		}
		logger.Info("goal deleted", "id", g.ID)
		fmt.Printf("  Goal #%s for %s deleted.\n", args[0], g.Actual.Date)
		return true, nil
	})
}

func runGoalEdit(_ *cobra.Command, args []string) error {
	return withLedger(func(gs *ledger.GoalStore) (bool, error) {
		i, err := goalIndex(args[0], gs)
		if err != nil {
			return false, err
		}

		if flagEditAmount != "" {
			amount, valid := model.ParseAmount(flagEditAmount)
			if !valid {
				return false, fmt.Errorf("invalid --amount %q", flagEditAmount)
			}
			if !gs.EditActualAmount(i, amount) {
				return false, fmt.Errorf("goal #%s not changed: the amount must not be negative and the goal needs a rate above zero", args[0])
			}
		} else {
			picks, valid := model.ParsePicks(flagEditPicks)
			if !valid {
				return false, fmt.Errorf("invalid --picks %q", flagEditPicks)
			}
			gs.EditActualPicks(i, picks)
		}

		g, _ := gs.Goal(i)
		fmt.Printf("  Goal #%s now %s for %s picks.\n", args[0], cli.FormatMoney(g.Actual.Amount), cli.FormatNumber(int64(g.Actual.Picks)))
		return true, nil
	})
}
