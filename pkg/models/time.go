package models

import (
	"fmt"
	"time"
)

// TimeLayout is the human-readable date form accepted at every external
// boundary ("2006-01-02 15:04:05"). Internally every date is a UTC unix
// timestamp in seconds so edge matching and ordering stay consistent.
const TimeLayout = "2006-01-02 15:04:05"

// ToTimestamp converts a boundary date string to the canonical timestamp.
func ToTimestamp(s string) (int64, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q (want %q): %w", s, TimeLayout, err)
	}
	return t.Unix(), nil
}

// FromTimestamp renders a canonical timestamp back to the boundary form.
func FromTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(TimeLayout)
}
