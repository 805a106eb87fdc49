package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/pickplan/internal/config"
	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/tui/theme"
)

// SetupValues holds the first-run wizard answers as typed.
type SetupValues struct {
	Rate          string
	WorkHours     string
	BreakInterval string
	ShiftType     string
	Period        string
	Theme         string
}

// NewSetupValues pre-fills the wizard from cfg.
func NewSetupValues(cfg config.Config) *SetupValues {
	v := &SetupValues{
		WorkHours:     strconv.FormatFloat(cfg.Planner.WorkHours, 'f', -1, 64),
		BreakInterval: strconv.Itoa(cfg.Planner.BreakInterval),
		ShiftType:     cfg.Planner.ShiftType,
		Period:        cfg.General.DefaultPeriod,
		Theme:         cfg.Appearance.Theme,
	}
	if cfg.Planner.Rate > 0 {
		v.Rate = strconv.FormatFloat(cfg.Planner.Rate, 'f', -1, 64)
	}
	return v
}

// Form builds the setup wizard editing v in place.
func (v *SetupValues) Form() *huh.Form {
	typeOpts := make([]huh.Option[string], 0, len(model.ShiftTypes))
	for _, t := range model.ShiftTypes {
		typeOpts = append(typeOpts, huh.NewOption(string(t), string(t)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to pickplan").
				Description("A few defaults for new plans. Everything can be changed later\nwith `pickplan setup` or the config file."),
			huh.NewInput().
				Title("Default rate per pick").
				Description("Leave blank to type it with every plan").
				Value(&v.Rate).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					return positiveAmount(s)
				}),
			huh.NewInput().
				Title("Work hours per shift").
				Value(&v.WorkHours).
				Validate(func(s string) error {
					f, ok := model.ParseAmount(s)
					if !ok || f <= 0 || f > 24 {
						return fmt.Errorf("must be between 0 and 24")
					}
					return nil
				}),
			huh.NewInput().
				Title("Break every N hours").
				Value(&v.BreakInterval).
				Validate(func(s string) error {
					n, ok := model.ParsePicks(s)
					if !ok || n > 24 {
						return fmt.Errorf("must be a whole number from 1 to 24")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Usual shift type").
				Options(typeOpts...).
				Value(&v.ShiftType),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default stats period").
				Options(huh.NewOptions("week", "month", "year")...).
				Value(&v.Period),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
		),
	).WithTheme(theme.Huh())
}

// Apply copies the answers into cfg. Fields that do not parse are left alone;
// the form validators keep that from happening in practice.
func (v *SetupValues) Apply(cfg *config.Config) {
	if v.Rate == "" {
		cfg.Planner.Rate = 0
	} else if f, ok := model.ParseAmount(v.Rate); ok {
		cfg.Planner.Rate = f
	}
	if f, ok := model.ParseAmount(v.WorkHours); ok {
		cfg.Planner.WorkHours = f
	}
	if n, ok := model.ParsePicks(v.BreakInterval); ok {
		cfg.Planner.BreakInterval = n
	}
	if v.ShiftType != "" {
		cfg.Planner.ShiftType = v.ShiftType
	}
	if v.Period != "" {
		cfg.General.DefaultPeriod = v.Period
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
}
