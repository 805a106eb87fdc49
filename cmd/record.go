package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/ledger"
	"github.com/theirongolddev/pickplan/internal/logger"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/pipeline"
)

var (
	flagRecordPeriod string
	flagRecordAmount string
	flagRecordPicks  string
	flagRecordRate   string
	flagRecordType   string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "List and correct worked shifts",
	RunE:  runRecordList,
}

var recordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shift records by date",
	Args:  cobra.NoArgs,
	RunE:  runRecordList,
}

var recordAddCmd = &cobra.Command{
	Use:   "add <date>",
	Short: "Record a worked shift directly, replacing any record for that date",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordAdd,
}

var recordDeleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete the record for a date and reopen goals that produced it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordDelete,
}

var recordEditCmd = &cobra.Command{
	Use:   "edit <date>",
	Short: "Correct the amount or picks of a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordEdit,
}

func init() {
	recordListCmd.Flags().StringVarP(&flagRecordPeriod, "period", "p", "", "Only records in the current week, month or year")
	recordCmd.Flags().AddFlagSet(recordListCmd.Flags())

	recordAddCmd.Flags().StringVar(&flagRecordAmount, "amount", "", "Amount earned")
	recordAddCmd.Flags().StringVar(&flagRecordPicks, "picks", "", "Picks made")
	recordAddCmd.Flags().StringVar(&flagRecordRate, "rate", "", "Rate per pick (default: config rate)")
	recordAddCmd.Flags().StringVar(&flagRecordType, "type", "", "Shift type (default: config)")
	recordAddCmd.MarkFlagsOneRequired("amount", "picks")

	recordEditCmd.Flags().StringVar(&flagEditAmount, "amount", "", "Corrected amount (picks follow from the rate)")
	recordEditCmd.Flags().StringVar(&flagEditPicks, "picks", "", "Corrected picks (amount follows from the rate)")
	recordEditCmd.MarkFlagsMutuallyExclusive("amount", "picks")
	recordEditCmd.MarkFlagsOneRequired("amount", "picks")

	recordCmd.AddCommand(recordListCmd, recordAddCmd, recordDeleteCmd, recordEditCmd)
	rootCmd.AddCommand(recordCmd)
}

func runRecordList(_ *cobra.Command, _ []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	records := ledger.NewRecordStore(snap.Records...).All()

	title := "RECORDS  All shifts"
	if flagRecordPeriod != "" {
		p, err := pipeline.ParsePeriod(flagRecordPeriod)
		if err != nil {
			return err
		}
		stats := pipeline.StatsForPeriod(records, p, now())
		records = stats.Records
		title = fmt.Sprintf("RECORDS  This %s", p)
	}

	if len(records) == 0 {
		fmt.Println("\n  No shift records.")
		return nil
	}

	var total float64
	var picks int
	rows := make([][]string, 0, len(records)+2)
	for _, r := range records {
		t, _ := model.ParseDate(r.Date)
		rows = append(rows, []string{
			r.Date,
			cli.FormatDayOfWeek(t.Weekday()),
			string(r.ShiftType),
			cli.FormatNumber(int64(r.Picks)),
			cli.FormatRate(r.Rate),
			cli.FormatMoney(r.Amount),
		})
		total += r.Amount
		picks += r.Picks
	}
	rows = append(rows, cli.SeparatorRow, []string{
		"Total", "", "", cli.FormatNumber(int64(picks)), "", cli.FormatMoney(total),
	})

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Type", "Picks", "Rate", "Amount"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runRecordAdd(_ *cobra.Command, args []string) error {
	date, ok := model.NormalizeDate(args[0])
	if !ok {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", args[0])
	}

	typeArg := appCfg.Planner.ShiftType
	if flagRecordType != "" {
		typeArg = flagRecordType
	}
	shiftType, ok := model.ParseShiftType(typeArg)
	if !ok {
		return fmt.Errorf("unknown shift type %q", typeArg)
	}

	rate, haveRate := appCfg.RateFor(shiftType, date)
	if flagRecordRate != "" {
		if rate, haveRate = model.ParseAmount(flagRecordRate); !haveRate || rate <= 0 {
			return fmt.Errorf("invalid --rate %q", flagRecordRate)
		}
	}

	rec, err := buildRecord(date, shiftType, rate, haveRate)
	if err != nil {
		return err
	}

	return withLedger(func(gs *ledger.GoalStore) (bool, error) {
		if !gs.Records().Upsert(rec) {
			return false, errors.New("record rejected: amount and picks must not be negative")
		}
		logger.Info("record added", "date", rec.Date, "amount", rec.Amount)
		fmt.Printf("  Recorded %s (%s picks) for %s.\n", cli.FormatMoney(rec.Amount), cli.FormatNumber(int64(rec.Picks)), rec.Date)
		return true, nil
	})
}

// buildRecord fills whichever of amount and picks was not given from the rate.
func buildRecord(date string, shiftType model.ShiftType, rate float64, haveRate bool) (model.ShiftRecord, error) {
	rec := model.ShiftRecord{Date: date, ShiftType: shiftType, Rate: rate}

	if flagRecordAmount != "" {
		amount, ok := model.ParseAmount(flagRecordAmount)
		if !ok || amount < 0 {
			return rec, fmt.Errorf("invalid --amount %q", flagRecordAmount)
		}
		rec.Amount = amount
	}
	if flagRecordPicks != "" {
		picks, ok := model.ParsePicks(flagRecordPicks)
		if !ok {
			return rec, fmt.Errorf("invalid --picks %q", flagRecordPicks)
		}
		rec.Picks = picks
	}

	switch {
	case flagRecordAmount != "" && flagRecordPicks != "":
		return fillRate(rec, haveRate)
	case !haveRate:
		return rec, errors.New("no rate for this shift: pass --rate or give both --amount and --picks")
	case flagRecordAmount != "":
		rec.Picks, _ = model.PicksForAmount(rec.Amount, rate)
	default:
		rec.Amount = float64(rec.Picks) * rate
	}
	return rec, nil
}

// fillRate keeps amount = picks * rate true for a record given both
// amount and picks. Without a known rate it is taken from the two values.
// A known rate that disagrees is kept and reported.
func fillRate(rec model.ShiftRecord, haveRate bool) (model.ShiftRecord, error) {
	if !haveRate {
		if rec.Picks == 0 {
			return rec, errors.New("no rate for this shift and zero picks: pass --rate")
		}
		rec.Rate = rec.Amount / float64(rec.Picks)
		return rec, nil
	}
	if expected := float64(rec.Picks) * rec.Rate; math.Abs(expected-rec.Amount) >= 0.005 {
		logger.Warn("record amount differs from picks x rate", "date", rec.Date, "amount", rec.Amount, "expected", expected)
		fmt.Fprintf(os.Stderr, "  Warning: %s picks at %s is %s, not %s.\n",
			cli.FormatNumber(int64(rec.Picks)), cli.FormatRate(rec.Rate), cli.FormatMoney(expected), cli.FormatMoney(rec.Amount))
	}
	return rec, nil
}

func runRecordDelete(_ *cobra.Command, args []string) error {
	date, ok := model.NormalizeDate(args[0])
	if !ok {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", args[0])
	}
	return withLedger(func(gs *ledger.GoalStore) (bool, error) {
		if !gs.DeleteRecord(date) {
			fmt.Printf("  No record for %s.\n", date)
			return false, nil
		}
		logger.Info("record deleted", "date", date)
		fmt.Printf("  Record for %s deleted.\n", date)
		return true, nil
	})
}

func runRecordEdit(_ *cobra.Command, args []string) error {
	date, ok := model.NormalizeDate(args[0])
	if !ok {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", args[0])
	}
	return withLedger(func(gs *ledger.GoalStore) (bool, error) {
		rs := gs.Records()
		if _, found := rs.Get(date); !found {
			return false, fmt.Errorf("no record for %s", date)
		}

		if flagEditAmount != "" {
			amount, valid := model.ParseAmount(flagEditAmount)
			if !valid {
				return false, fmt.Errorf("invalid --amount %q", flagEditAmount)
			}
			if !rs.EditAmount(date, amount) {
				return false, fmt.Errorf("record for %s not changed: the amount must not be negative and the record needs a rate above zero", date)
			}
		} else {
			picks, valid := model.ParsePicks(flagEditPicks)
			if !valid {
				return false, fmt.Errorf("invalid --picks %q", flagEditPicks)
			}
			rs.EditPicks(date, picks)
		}

		r, _ := rs.Get(date)
		fmt.Printf("  Record for %s now %s for %s picks.\n", date, cli.FormatMoney(r.Amount), cli.FormatNumber(int64(r.Picks)))
		return true, nil
	})
}
