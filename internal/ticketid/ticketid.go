// Package ticketid implements the daily-bucket identity scheme for ingested
// tickets: day-boundary arithmetic under a fixed dashboard offset, day keys,
// and composite "daily" ids that scope a base ticket id to one local day.
package ticketid

import (
	"regexp"
	"strings"
	"time"
)

// DailySuffixDelimiter separates a base ticket id from its day-key suffix.
// The literal is reserved: externally supplied ids are never expected to
// contain it.
const DailySuffixDelimiter = "__day__"

var dayKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Clock defines the dashboard's local day. OffsetMinutes is the fixed,
// process-wide offset from UTC used for bucketing; it is injected from
// configuration rather than read from a global so callers stay testable.
type Clock struct {
	OffsetMinutes int
}

// DayBounds returns the absolute UTC start and end instants of the local day
// containing t. The window is exactly 24 hours and start <= t < end as long
// as the same offset is used throughout.
func (c Clock) DayBounds(t time.Time) (start, end time.Time) {
	shifted := t.UTC().Add(time.Duration(c.OffsetMinutes) * time.Minute)
	year, month, day := shifted.Date()
	start = time.Date(year, month, day, 0, 0, 0, 0, time.UTC).
		Add(-time.Duration(c.OffsetMinutes) * time.Minute)
	end = start.Add(24 * time.Hour)
	return start, end
}

// DayKey formats the local calendar date of t as YYYY-MM-DD.
func (c Clock) DayKey(t time.Time) string {
	shifted := t.UTC().Add(time.Duration(c.OffsetMinutes) * time.Minute)
	return shifted.Format("2006-01-02")
}

// BuildDailyID composes the storage id for baseID's bucket on the local day
// containing ref. The result is deterministic for a given (baseID, local day),
// which is what lets the reconciler find today's bucket without an index.
func (c Clock) BuildDailyID(baseID string, ref time.Time) string {
	return strings.TrimSpace(baseID) + DailySuffixDelimiter + c.DayKey(ref)
}

// StripDailySuffix returns the base ticket id for display and outbound links.
// It scans for the last occurrence of the delimiter and removes it only when
// the trailing text is a strict YYYY-MM-DD day key; anything else is treated
// as a coincidental match and the id is returned unchanged rather than
// corrupted.
func StripDailySuffix(ticketID string) string {
	trimmed := strings.TrimSpace(ticketID)
	marker := strings.LastIndex(trimmed, DailySuffixDelimiter)
	if marker == -1 {
		return trimmed
	}
	suffix := trimmed[marker+len(DailySuffixDelimiter):]
	if dayKeyPattern.MatchString(suffix) {
		return trimmed[:marker]
	}
	return trimmed
}

// ResolveReferenceTime parses an ingestion date hint. A missing or
// unparseable hint falls back to now().
func ResolveReferenceTime(raw string, now func() time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed
			}
		}
	}
	return now()
}
