package tui

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/pickplan/internal/config"
	"github.com/theirongolddev/pickplan/internal/ledger"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/planner"
	"github.com/theirongolddev/pickplan/internal/tui/theme"
)

// PlanForm holds the calculator fields as typed, bound to a huh form.
type PlanForm struct {
	Target        string
	Rate          string
	Hours         string
	BreakInterval string
	Date          string
	Type          string
	Status        string
	Note          string
}

// NewPlanForm returns form values pre-filled from the planner defaults.
func NewPlanForm(cfg config.Config, today string) *PlanForm {
	p := &PlanForm{
		Hours:         strconv.FormatFloat(cfg.Planner.WorkHours, 'f', -1, 64),
		BreakInterval: strconv.Itoa(cfg.Planner.BreakInterval),
		Date:          today,
		Type:          cfg.Planner.ShiftType,
		Status:        string(model.StatusRegular),
	}
	shiftType, _ := model.ParseShiftType(cfg.Planner.ShiftType)
	if rate, ok := cfg.RateFor(shiftType, today); ok {
		p.Rate = strconv.FormatFloat(rate, 'f', -1, 64)
	}
	return p
}

// Raw returns the calculator input exactly as typed.
func (p *PlanForm) Raw() planner.RawInput {
	return planner.RawInput{
		Target:        p.Target,
		Rate:          p.Rate,
		Hours:         p.Hours,
		BreakInterval: p.BreakInterval,
	}
}

// Entry returns the goal metadata typed alongside the plan.
func (p *PlanForm) Entry() ledger.Entry {
	return ledger.Entry{
		Date:   p.Date,
		Type:   p.Type,
		Status: p.Status,
		Note:   p.Note,
	}
}

// Form builds the huh form editing p in place.
func (p *PlanForm) Form() *huh.Form {
	typeOpts := make([]huh.Option[string], 0, len(model.ShiftTypes))
	for _, t := range model.ShiftTypes {
		typeOpts = append(typeOpts, huh.NewOption(string(t), string(t)))
	}
	statusOpts := make([]huh.Option[string], 0, len(model.ShiftStatuses))
	for _, s := range model.ShiftStatuses {
		statusOpts = append(statusOpts, huh.NewOption(string(s), string(s)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target earnings").
				Value(&p.Target).
				Validate(positiveAmount),
			huh.NewInput().
				Title("Rate per pick").
				Value(&p.Rate).
				Validate(positiveAmount),
			huh.NewInput().
				Title("Work hours").
				Value(&p.Hours).
				Validate(positiveAmount),
			huh.NewInput().
				Title("Break every N hours").
				Value(&p.BreakInterval).
				Validate(func(s string) error {
					if _, ok := model.ParsePicks(s); !ok {
						return errors.New("must be a whole number of hours above zero")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&p.Date).
				Validate(func(s string) error {
					if _, ok := model.NormalizeDate(s); !ok {
						return errors.New("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Shift type").
				Options(typeOpts...).
				Value(&p.Type),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOpts...).
				Value(&p.Status),
			huh.NewInput().
				Title("Note").
				Value(&p.Note),
		),
	).WithTheme(theme.Huh())
}

func positiveAmount(s string) error {
	f, ok := model.ParseAmount(s)
	if !ok || f <= 0 {
		return errors.New("must be a number above zero")
	}
	return nil
}
