package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/logger"
	"github.com/theirongolddev/pickplan/internal/pipeline"
	"github.com/theirongolddev/pickplan/internal/source"
	"github.com/theirongolddev/pickplan/internal/store"
)

var flagImportForce bool

var importCmd = &cobra.Command{
	Use:   "import <file|dir>...",
	Short: "Merge JSON export files into the database",
	Long: "Read goals and records from JSON export files. Records from later files win per\n" +
		"date; goals are appended. Files unchanged since their last import are skipped.",
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&flagImportForce, "force", "f", false, "Re-import files even if unchanged")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	var paths []string
	for _, arg := range args {
		files, err := source.ScanDir(arg)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", arg, err)
		}
		if files == nil {
			return fmt.Errorf("%s: no such file or directory", arg)
		}
		paths = append(paths, files...)
	}
	if len(paths) == 0 {
		fmt.Println("\n  No .json export files found.")
		return nil
	}

	st, err := store.Open(dbPath())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = st.Close() }()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Importing %d files...\n", len(paths))
	}

	var progressFn pipeline.ProgressFunc
	if !flagQuiet {
		progressFn = func(current, total int) {
			if current%10 == 0 || current == total {
				fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
			}
		}
	}

	result, err := pipeline.ImportWithTracking(paths, st, flagImportForce, progressFn)
	if err != nil {
		return err
	}
	if !flagQuiet && result.Imported > 0 {
		fmt.Fprintln(os.Stderr)
	}
	for _, e := range result.Errors {
		logger.Warn("import failed", "err", e)
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  %v\n", e)
		}
	}

	goals, records, err := st.Counts()
	if err != nil {
		return fmt.Errorf("counting rows: %w", err)
	}
	logger.Info("import done", "files", len(paths), "imported", result.Imported,
		"unchanged", result.Unchanged, "errors", result.FileErrors, "skipped", result.SkippedEntries)

	fmt.Printf("  Imported %d of %d files (%d unchanged, %d failed).\n",
		result.Imported, result.TotalFiles, result.Unchanged, result.FileErrors)
	if result.SkippedEntries > 0 {
		fmt.Printf("  Skipped %d entries with unusable dates or values.\n", result.SkippedEntries)
	}
	fmt.Printf("  Database now holds %s goals and %s records.\n", formatNumber(int64(goals)), formatNumber(int64(records)))
	return nil
}
