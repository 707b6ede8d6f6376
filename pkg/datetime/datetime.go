// Package datetime provides the date handling shared by the dashboard client and the dev stub server.
// Dates travel in UTC: date-only values as "YYYY-MM-DD", timestamps as RFC3339.
package datetime

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	// DateFormat is the date-only format (YYYY-MM-DD) used in forms and draft files.
	DateFormat = "2006-01-02"

	// DisplayDateFormat is the human-readable date shown next to transactions and goals.
	DisplayDateFormat = "Jan 2, 2006"
)

// Date represents a date-only value (no time component).
// It serializes to/from JSON and YAML as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns today's date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses a date string in YYYY-MM-DD format, falling back to RFC3339
// (only the date portion is kept).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err == nil {
		return Date{t}, nil
	}
	t, rfcErr := time.Parse(time.RFC3339, s)
	if rfcErr != nil {
		return Date{}, err
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateFormat))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), "\"")
	if s == "" || s == "null" {
		return nil
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler (used by YAML draft files).
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.Format(DateFormat)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// String returns the date in YYYY-MM-DD format.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

// Display returns the date in DisplayDateFormat, or "-" when unset.
func (d Date) Display() string {
	if d.IsZero() {
		return "-"
	}
	return d.Format(DisplayDateFormat)
}

// ToDateTime coerces the date to a timestamp at midnight UTC.
func (d Date) ToDateTime() DateTime {
	if d.IsZero() {
		return DateTime{}
	}
	return DateTime{StartOfDay(d.Time)}
}

// DateTime represents a datetime value with timezone.
// It serializes to/from JSON as ISO 8601 / RFC3339 format.
type DateTime struct {
	time.Time
}

// Now returns the current datetime in UTC.
func Now() DateTime {
	return DateTime{time.Now().UTC()}
}

// MarshalJSON implements json.Marshaler.
func (dt DateTime) MarshalJSON() ([]byte, error) {
	if dt.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(dt.UTC().Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler. Fractional seconds, as sent by
// JavaScript backends, are accepted.
func (dt *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), "\"")
	if s == "" || s == "null" {
		return nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		// Try date-only format as fallback
		t, err = time.Parse(DateFormat, s)
		if err != nil {
			return err
		}
	}
	dt.Time = t.UTC()
	return nil
}

// String returns the datetime in RFC3339 format.
func (dt DateTime) String() string {
	if dt.IsZero() {
		return ""
	}
	return dt.UTC().Format(time.RFC3339)
}

// ToDate extracts the date portion from a DateTime.
func (dt DateTime) ToDate() Date {
	return NewDate(dt.Year(), dt.Month(), dt.Day())
}

// StartOfDay returns the datetime at 00:00:00 UTC.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
