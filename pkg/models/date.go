package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DateLayout is the ISO calendar date format used on the wire and for display.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
//
// The backend may encode dates as ISO dates, RFC 3339 timestamps or HTTP
// dates ("Mon, 01 Jan 2024 00:00:00 GMT"); all three decode to the same value.
type Date struct {
	t time.Time
}

// NewDate returns the date part of t.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses s in any of the accepted encodings.
func ParseDate(s string) (Date, error) {
	for _, layout := range []string{DateLayout, time.RFC3339, http.TimeFormat, time.RFC1123} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// MustParseDate is like ParseDate but panics on error. Intended for tests and constants.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Compare returns -1, 0 or +1. The zero date sorts first.
func (d Date) Compare(other Date) int {
	return d.t.Compare(other.t)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
