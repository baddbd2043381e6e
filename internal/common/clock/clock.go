// Package clock produces user-local calendar dates from IANA timezone
// strings, falling back to UTC rather than failing. All "today"
// comparisons in the domain core go through this package; no code may
// call time.Now with an implicit zone.
package clock

import (
	"strings"
	"time"
)

// DefaultZone is used whenever a caller-supplied zone is blank or invalid.
const DefaultZone = "UTC"

// Date is a calendar date with no time-of-day or zone component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates a time.Time (already resolved into the correct zone)
// into a Date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// AddDays returns the date N days after d (N may be negative).
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return DateOf(t)
}

func (d Date) toTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.toTime().Before(o.toTime()) }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.toTime().After(o.toTime()) }

// Equal reports whether d and o are the same calendar date.
func (d Date) Equal(o Date) bool { return d == o }

// ISOWeekday returns the ISO-8601 weekday number: 1=Monday ... 7=Sunday.
func (d Date) ISOWeekday() int {
	wd := int(d.toTime().Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.toTime().Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// ValidateZone reports whether zone can be loaded as an IANA timezone.
func ValidateZone(zone string) bool {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return false
	}
	_, err := time.LoadLocation(zone)
	return err == nil
}

// UserToday returns the current calendar date in zone. If zone is blank
// or cannot be loaded, it returns the UTC date and records no error —
// callers that need to surface the fallback should call ValidateZone
// themselves ahead of time.
func UserToday(zone string) Date {
	return UserNow(zone, time.Now)
}

// UserNow is UserToday with an injectable clock, for deterministic tests.
func UserNow(zone string, now func() time.Time) Date {
	loc := time.UTC
	zone = strings.TrimSpace(zone)
	if zone != "" {
		if l, err := time.LoadLocation(zone); err == nil {
			loc = l
		}
	}
	return DateOf(now().In(loc))
}
