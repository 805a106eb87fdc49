package source

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/theirongolddev/pickplan/internal/model"
)

// Document is the flat export format: a goal list plus the shift records.
// Records may be written either as a list or as an object keyed by date.
type Document struct {
	Goals   []RawGoal       `json:"goals"`
	Records json.RawMessage `json:"records,omitempty"`
}

// Number decodes a JSON number or a numeric string ("1,5" included).
// Unparseable values decode to NaN so the owning entry can be skipped
// without failing the whole file.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, ok := model.ParseAmount(s)
		if !ok {
			f = math.NaN()
		}
		*n = Number(f)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		f = math.NaN()
	}
	*n = Number(f)
	return nil
}

// RawSnapshot mirrors one goal side as found on disk.
type RawSnapshot struct {
	Amount Number `json:"amount"`
	Rate   Number `json:"rate"`
	Picks  Number `json:"picks"`
	Hours  Number `json:"hours"`
	Date   string `json:"date"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// RawGoal is a goal entry in an export file.
type RawGoal struct {
	ID        string      `json:"id,omitempty"`
	Planned   RawSnapshot `json:"planned"`
	Actual    RawSnapshot `json:"actual"`
	Completed bool        `json:"completed"`
}

// RawRecord is a shift record entry in an export file. Date may be absent
// when records are keyed by date.
type RawRecord struct {
	Date      string `json:"date,omitempty"`
	Amount    Number `json:"amount"`
	Picks     Number `json:"picks"`
	Rate      Number `json:"rate"`
	ShiftType string `json:"shiftType,omitempty"`
}
