package pipeline

import (
	"fmt"
	"os"

	"github.com/theirongolddev/pickplan/internal/store"
)

// ImportResult extends LoadResult with file tracking metadata.
type ImportResult struct {
	LoadResult
	Unchanged int
	Imported  int
}

// ImportWithTracking merges export files into the store. Files whose mtime
// and size match what was recorded at their last import are skipped unless
// force is set. The merged snapshot is saved back in one write.
func ImportWithTracking(paths []string, st *store.Store, force bool, progressFn ProgressFunc) (*ImportResult, error) {
	result := &ImportResult{LoadResult: LoadResult{TotalFiles: len(paths)}}
	if len(paths) == 0 {
		return result, nil
	}

	tracked, err := st.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading file tracker: %w", err)
	}

	// Diff: partition into changed and unchanged
	var toImport []string
	infos := make(map[string]store.FileInfo, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, err)
			continue
		}
		fi := store.FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}
		infos[p] = fi

		if cached, ok := tracked[p]; ok && !force && cached == fi {
			result.Unchanged++
			continue
		}
		toImport = append(toImport, p)
	}

	if len(toImport) == 0 {
		return result, nil
	}

	snap, err := st.LoadSnapshot()
	if err != nil {
		return nil, err
	}

	results := parseAll(toImport, progressFn, result.Unchanged)
	var imported []string
	for i, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, pr.Err)
			continue
		}
		result.ParsedFiles++
		result.SkippedEntries += pr.Skipped
		snap = Merge(snap, pr.Snapshot)
		imported = append(imported, toImport[i])
	}

	if len(imported) == 0 {
		return result, nil
	}
	if err := st.SaveSnapshot(snap); err != nil {
		return nil, fmt.Errorf("saving imported data: %w", err)
	}
	for _, p := range imported {
		if err := st.TrackFile(p, infos[p]); err != nil {
			return nil, fmt.Errorf("tracking %s: %w", p, err)
		}
	}

	result.Imported = len(imported)
	result.Snapshot = snap
	return result, nil
}
