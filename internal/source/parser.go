// Package source reads and writes the flat JSON export format and discovers
// export files on disk.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/theirongolddev/pickplan/internal/model"
)

// ParseResult holds the output of parsing a single export file.
type ParseResult struct {
	Path     string
	Snapshot model.Snapshot
	Skipped  int // entries dropped for unusable dates, enums or numbers
	Err      error
}

// ParseFile reads an export file. Entries that cannot be normalized are
// skipped and counted; only unreadable or malformed files set Err.
func ParseFile(path string) ParseResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParseResult{Path: path, Err: err}
	}
	snap, skipped, err := Parse(data)
	if err != nil {
		return ParseResult{Path: path, Err: fmt.Errorf("parsing %s: %w", path, err)}
	}
	return ParseResult{Path: path, Snapshot: snap, Skipped: skipped}
}

// Parse decodes an export document.
func Parse(data []byte) (model.Snapshot, int, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Snapshot{}, 0, err
	}

	var snap model.Snapshot
	skipped := 0

	for _, rg := range doc.Goals {
		g, ok := convertGoal(rg)
		if !ok {
			skipped++
			continue
		}
		snap.Goals = append(snap.Goals, g)
	}

	raws, err := decodeRecords(doc.Records)
	if err != nil {
		return model.Snapshot{}, 0, fmt.Errorf("decoding records: %w", err)
	}
	for _, rr := range raws {
		r, ok := convertRecord(rr)
		if !ok {
			skipped++
			continue
		}
		snap.Records = append(snap.Records, r)
	}
	sort.SliceStable(snap.Records, func(i, j int) bool {
		return snap.Records[i].Date < snap.Records[j].Date
	})

	return snap, skipped, nil
}

// decodeRecords accepts either a list of records or an object keyed by date.
// Map keys are visited in sorted order; a key overrides any inner date.
func decodeRecords(raw json.RawMessage) ([]RawRecord, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var list []RawRecord
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var byDate map[string]RawRecord
	if err := json.Unmarshal(raw, &byDate); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]RawRecord, 0, len(keys))
	for _, k := range keys {
		r := byDate[k]
		r.Date = k
		list = append(list, r)
	}
	return list, nil
}

func convertGoal(rg RawGoal) (model.Goal, bool) {
	actual, ok := convertSnapshot(rg.Actual)
	if !ok {
		return model.Goal{}, false
	}
	planned, ok := convertSnapshot(rg.Planned)
	if !ok {
		return model.Goal{}, false
	}
	return model.Goal{
		ID:        rg.ID,
		Planned:   planned,
		Actual:    actual,
		Completed: rg.Completed,
	}, true
}

func convertSnapshot(rs RawSnapshot) (model.ShiftSnapshot, bool) {
	date, ok := model.NormalizeDate(rs.Date)
	if !ok {
		return model.ShiftSnapshot{}, false
	}
	st, ok := model.ParseShiftType(rs.Type)
	if !ok {
		return model.ShiftSnapshot{}, false
	}
	status, ok := model.ParseShiftStatus(rs.Status)
	if !ok {
		return model.ShiftSnapshot{}, false
	}
	picks, ok := wholePicks(rs.Picks)
	if !ok {
		return model.ShiftSnapshot{}, false
	}
	amount, rate, hours := float64(rs.Amount), float64(rs.Rate), float64(rs.Hours)
	if !model.IsFinite(amount) || !model.IsFinite(rate) || !model.IsFinite(hours) {
		return model.ShiftSnapshot{}, false
	}
	return model.ShiftSnapshot{
		Amount: amount,
		Rate:   rate,
		Picks:  picks,
		Hours:  hours,
		Date:   date,
		Type:   st,
		Status: status,
		Note:   rs.Note,
	}, true
}

func convertRecord(rr RawRecord) (model.ShiftRecord, bool) {
	date, ok := model.NormalizeDate(rr.Date)
	if !ok {
		return model.ShiftRecord{}, false
	}
	st, ok := model.ParseShiftType(rr.ShiftType)
	if !ok {
		return model.ShiftRecord{}, false
	}
	picks, ok := wholePicks(rr.Picks)
	if !ok {
		return model.ShiftRecord{}, false
	}
	amount, rate := float64(rr.Amount), float64(rr.Rate)
	if !model.IsFinite(amount) || !model.IsFinite(rate) {
		return model.ShiftRecord{}, false
	}
	return model.ShiftRecord{
		Date:      date,
		Amount:    amount,
		Picks:     picks,
		Rate:      rate,
		ShiftType: st,
	}, true
}

// wholePicks accepts a non-negative count that is integral up to float noise.
func wholePicks(n Number) (int, bool) {
	f := float64(n)
	if !model.IsFinite(f) || f < 0 {
		return 0, false
	}
	r := math.Round(f)
	if math.Abs(f-r) > 1e-9 {
		return 0, false
	}
	return int(r), true
}

// exportDocument is the shape written by WriteFile: records as a list.
type exportDocument struct {
	Goals   []model.Goal        `json:"goals"`
	Records []model.ShiftRecord `json:"records"`
}

// WriteFile exports snap to path as indented JSON. The file is written to a
// temporary sibling first and renamed into place.
func WriteFile(path string, snap model.Snapshot) error {
	doc := exportDocument{Goals: snap.Goals, Records: snap.Records}
	if doc.Goals == nil {
		doc.Goals = []model.Goal{}
	}
	if doc.Records == nil {
		doc.Records = []model.ShiftRecord{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".pickplan-export-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing export: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("setting export permissions: %w", err)
	}
	return os.Rename(tmpName, path)
}
