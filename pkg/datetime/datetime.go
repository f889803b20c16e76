// Package datetime provides UTC-safe calendar utilities on day-granularity
// dates. All arithmetic is done on rickb777/date values, which carry no
// time-of-day and therefore cannot drift across timezones.
package datetime

import (
	"fmt"
	"time"

	"github.com/rickb777/date"

	"github.com/iwvelando/loan-ledger/pkg/constants"
)

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = constants.DateLayout

// ParseDate parses an ISO YYYY-MM-DD string into a Date. An empty or
// unparseable string yields the zero Date, which callers must treat as
// "no date".
func ParseDate(value string) (date.Date, error) {
	if value == "" {
		return date.Date{}, nil
	}
	d, err := date.ParseISO(value)
	if err != nil {
		return date.Date{}, fmt.Errorf("failed to parse date %q: %w", value, err)
	}
	return d, nil
}

// MustParseDate parses an ISO date string and panics on error. This is
// intended for use in tests where the date string is known to be valid.
func MustParseDate(value string) date.Date {
	d, err := date.ParseISO(value)
	if err != nil {
		panic(err)
	}
	return d
}

// DaysInMonth returns the number of days in the given month, accounting for
// leap years.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	t := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return t.Day()
}

// AddMonths offsets a date by the given number of calendar months, clamping
// the day of month so that e.g. Jan 31 + 1 month = Feb 28 (or Feb 29 in a
// leap year) rather than normalizing into March.
func AddMonths(d date.Date, months int) date.Date {
	y := d.Year()
	m := int(d.Month()) - 1 + months
	y += m / constants.MonthsPerYear
	m = m % constants.MonthsPerYear
	if m < 0 {
		m += constants.MonthsPerYear
		y--
	}
	month := time.Month(m + 1)
	day := d.Day()
	if max := DaysInMonth(y, month); day > max {
		day = max
	}
	return date.New(y, month, day)
}

// AddDays offsets a date by the given number of days.
func AddDays(d date.Date, days int) date.Date {
	return d.Add(date.PeriodOfDays(days))
}

// DaysBetween returns the number of days from first to second; negative when
// second is before first.
func DaysBetween(first, second date.Date) int {
	return int(second.Sub(first))
}

// MaxDate returns the later of two dates.
func MaxDate(a, b date.Date) date.Date {
	if a.After(b) {
		return a
	}
	return b
}

// MonthKey returns the YYYY-MM bucket key for a date.
func MonthKey(d date.Date) string {
	return d.Format("2006-01")
}

// YearKey returns the YYYY bucket key for a date.
func YearKey(d date.Date) string {
	return d.Format("2006")
}
