package entities

import "time"

// TimestampFormat is the wire format for snapshot timestamps (UTC).
const TimestampFormat = "2006-01-02T15:04:05Z"

// RateEntry is one cached exchange rate. Invariant: Rate > 0.
type RateEntry struct {
	Rate      float64 `json:"rate"`
	UpdatedAt string  `json:"updated_at"`
	Source    string  `json:"source"`
}

// RateSnapshot is the full persisted rate cache: pair key "FROM_TO" mapped to
// its entry, plus the timestamp of the last refresh that changed the cache.
// LastRefresh is nil when the cache has never been written.
type RateSnapshot struct {
	Pairs       map[string]RateEntry `json:"pairs"`
	LastRefresh *string              `json:"last_refresh"`
}

// NewRateSnapshot returns an empty snapshot ready for use.
func NewRateSnapshot() RateSnapshot {
	return RateSnapshot{Pairs: make(map[string]RateEntry)}
}

// PairKey builds the canonical "FROM_TO" pair key from normalized codes.
func PairKey(from, to string) string {
	return from + "_" + to
}

// Quote is the answer to "rate from A to B": units of To per 1 unit of From.
// ReverseRate is always the exact reciprocal by construction.
type Quote struct {
	From        string
	To          string
	Rate        float64
	UpdatedAt   string
	ReverseRate float64
}

// FormatTimestamp renders a time in the snapshot wire format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ParseTimestamp parses snapshot timestamps. Values without an explicit zone
// are treated as UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// SourceStatus is the per-source outcome of one update run.
type SourceStatus struct {
	OK    bool   `json:"ok"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// HistoryRecord is one append-only audit entry written after a successful
// update run. Records are deduplicated by ID.
type HistoryRecord struct {
	ID          string                  `json:"id"`
	Timestamp   string                  `json:"timestamp"`
	Updated     int                     `json:"updated"`
	LastRefresh string                  `json:"last_refresh"`
	Sources     map[string]SourceStatus `json:"sources"`
}
