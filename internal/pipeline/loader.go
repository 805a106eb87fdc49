package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/pickplan/internal/model"
	"github.com/theirongolddev/pickplan/internal/source"
)

// LoadResult holds the merged output of loading a set of export files.
type LoadResult struct {
	Snapshot       model.Snapshot
	TotalFiles     int
	ParsedFiles    int
	FileErrors     int
	SkippedEntries int
	Errors         []error
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// LoadDir discovers every export file under dir and loads them.
func LoadDir(dir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return LoadFiles(files, progressFn), nil
}

// LoadFiles parses paths with a bounded worker pool and merges the results
// in path order: later files win per record date, goals are appended.
func LoadFiles(paths []string, progressFn ProgressFunc) *LoadResult {
	result := &LoadResult{TotalFiles: len(paths)}
	if len(paths) == 0 {
		return result
	}

	results := parseAll(paths, progressFn, 0)
	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, pr.Err)
			continue
		}
		result.ParsedFiles++
		result.SkippedEntries += pr.Skipped
		result.Snapshot = Merge(result.Snapshot, pr.Snapshot)
	}
	return result
}

// parseAll parses every path in parallel, preserving input order.
// offset is added to the progress count.
func parseAll(paths []string, progressFn ProgressFunc, offset int) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	work := make(chan int, len(paths))
	results := make([]source.ParseResult, len(paths))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range paths {
		work <- i
	}
	close(work)

	total := len(paths) + offset
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(paths[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+offset, total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}

// Merge layers incoming on top of base. Records replace base records with
// the same date. Goals with an ID already in base replace that goal in
// place; the rest are appended.
func Merge(base, incoming model.Snapshot) model.Snapshot {
	out := model.Snapshot{
		Goals: make([]model.Goal, 0, len(base.Goals)+len(incoming.Goals)),
	}
	index := make(map[string]int, len(base.Goals))
	for _, g := range base.Goals {
		if g.ID != "" {
			index[g.ID] = len(out.Goals)
		}
		out.Goals = append(out.Goals, g)
	}
	for _, g := range incoming.Goals {
		if i, ok := index[g.ID]; ok && g.ID != "" {
			out.Goals[i] = g
			continue
		}
		if g.ID != "" {
			index[g.ID] = len(out.Goals)
		}
		out.Goals = append(out.Goals, g)
	}

	byDate := make(map[string]model.ShiftRecord, len(base.Records)+len(incoming.Records))
	for _, r := range base.Records {
		byDate[r.Date] = r
	}
	for _, r := range incoming.Records {
		byDate[r.Date] = r
	}
	out.Records = make([]model.ShiftRecord, 0, len(byDate))
	for _, r := range byDate {
		out.Records = append(out.Records, r)
	}
	sortRecords(out.Records)
	return out
}

// DataDir returns the platform-appropriate data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pickplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "pickplan")
}

// DBPath returns the default path to the database.
func DBPath() string {
	return filepath.Join(DataDir(), "pickplan.db")
}
