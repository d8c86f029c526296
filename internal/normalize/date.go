// Package normalize turns raw export cell values into canonical
// timestamps and canonical agent identities.
package normalize

import (
	"strings"
	"time"
)

// dateLayouts are attempted in order. Day-first layouts come first
// because the exports use DD/MM/YYYY when the ordering is ambiguous.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006 15:04",
	"2/1/2006",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02 Jan 2006",
	"2 Jan 2006",
}

// ParseTimestamp parses a raw date cell. Empty, non-date, or
// wrong-format values coerce to absent (ok=false) rather than failing
// the row.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateOnly truncates a timestamp to midnight in its own location. This
// is the single calendar-date projection used by grouping and range
// filters; it is never parsed independently of the timestamp.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsFuture reports whether t is strictly after the run's current time.
// A timestamp later the same day is still future: it cannot have been
// recorded yet.
func IsFuture(t, now time.Time) bool {
	return t.After(now)
}

// DateStats counts coercions and anomalies seen while normalizing one
// source, keyed per canonical field by the caller.
type DateStats struct {
	Parsed      int `json:"parsed"`
	Unparseable int `json:"unparseable"`
	Future      int `json:"future"`
}

// Observe classifies one raw cell: parsed, unparseable (non-empty but
// not a date), or parsed-but-future. Empty cells are not counted as
// unparseable; they are ordinary absences.
func (s *DateStats) Observe(raw string, now time.Time) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	t, ok := ParseTimestamp(trimmed)
	if !ok {
		if trimmed != "" {
			s.Unparseable++
		}
		return time.Time{}, false
	}
	s.Parsed++
	if IsFuture(t, now) {
		s.Future++
	}
	return t, true
}
