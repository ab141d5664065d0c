package models

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the layout used for every timestamp the ledger derives itself.
const ISOLayout = "2006-01-02T15:04:05.000Z"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"Mon Jan 02 2006",
}

// ParseDateTime parses the timestamp formats accepted on operation input.
// Layouts without a zone are read as UTC.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// IsValidDateTime reports whether s parses with ParseDateTime.
func IsValidDateTime(s string) bool {
	_, err := ParseDateTime(s)
	return err == nil
}

// FormatDateTime renders t in UTC with millisecond precision.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
