package present

import (
	"fmt"
	"time"
)

const referenceLayout = "20060102150405"

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseReferenceTime parses a grib2file_time value (YYYYMMDDhhmmss, UTC)
func ParseReferenceTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(referenceLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference time %q: %w", s, err)
	}
	return t, nil
}

// FormatReferenceTime renders a grib2file_time as YYYY-MM-DD hh:mm, or returns it unchanged if it does not parse
func FormatReferenceTime(s string) string {
	t, err := ParseReferenceTime(s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02 15:04")
}

// ParseDatetime parses an hourly datetime. Values without a zone are taken as UTC.
func ParseDatetime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised datetime %q", s)
}

// HourLabel renders a datetime as M/D H:00, the chart axis label
func HourLabel(s string) string {
	t, err := ParseDatetime(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d/%d %d:00", int(t.Month()), t.Day(), t.Hour())
}
