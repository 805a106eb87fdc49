package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/config"
	"github.com/theirongolddev/pickplan/internal/tui"
	"github.com/theirongolddev/pickplan/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	theme.SetActive(cfg.Appearance.Theme)

	vals := tui.NewSetupValues(cfg)
	if err := vals.Form().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}
	vals.Apply(&cfg)

	path := configPath()
	if err := config.SaveToPath(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	appCfg = cfg

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `pickplan setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
