package model

import (
	"strings"
	"time"
)

// DateLayout is the fixed-width local calendar date used as a key everywhere.
// Zero padding keeps lexicographic order equal to chronological order.
const DateLayout = "2006-01-02"

// NormalizeDate converts user or imported input into a local YYYY-MM-DD key.
// Plain dates are validated and re-formatted; RFC 3339 timestamps are shifted
// into the local zone before the day is taken, so a late-evening UTC stamp
// does not land on the wrong calendar day.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t.Format(DateLayout), true
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t.Local().Format(DateLayout), true
		}
	}
	return "", false
}

// DateKey formats t as a local calendar date key.
func DateKey(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// ParseDate parses a date key as local midnight.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
