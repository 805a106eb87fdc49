package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/logger"
	"github.com/theirongolddev/pickplan/internal/source"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write all goals and records to a JSON export file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	if err := source.WriteFile(args[0], snap); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	logger.Info("exported", "path", args[0], "goals", len(snap.Goals), "records", len(snap.Records))
	fmt.Printf("  Wrote %d goals and %d records to %s\n", len(snap.Goals), len(snap.Records), args[0])
	return nil
}
