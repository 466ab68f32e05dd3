package ledger

import (
	"encoding/json"
	"strings"
	"time"
)

// legacyTimestampLayouts are the naive forms written by older tooling; they are read as UTC.
var legacyTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Timestamp is a UTC instant persisted as RFC 3339. Unparseable input decodes to
// the zero value so one bad record cannot fail a whole document.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps instant in UTC.
func NewTimestamp(instant time.Time) Timestamp {
	return Timestamp{Time: instant.UTC()}
}

// MarshalJSON writes RFC 3339 with sub-second precision, or null for the zero value.
func (timestamp Timestamp) MarshalJSON() ([]byte, error) {
	if timestamp.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(timestamp.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts RFC 3339, the legacy naive ISO forms, or null.
func (timestamp *Timestamp) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		timestamp.Time = time.Time{}
		return nil
	}
	timestamp.Time = parseTimestamp(*raw)
	return nil
}

func parseTimestamp(raw string) time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return parsed.UTC()
	}
	for _, layout := range legacyTimestampLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// instantOf returns the wrapped time, or zero for a nil pointer.
func instantOf(timestamp *Timestamp) time.Time {
	if timestamp == nil {
		return time.Time{}
	}
	return timestamp.Time
}

func stampPointer(instant time.Time) *Timestamp {
	stamp := NewTimestamp(instant)
	return &stamp
}
