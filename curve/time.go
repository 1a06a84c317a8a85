package curve

import (
	"time"

	"cloud.google.com/go/civil"
)

// =============================================================================
// CURVE WINDOW - Fixed generation range
// =============================================================================

var (
	WindowStart = civil.Date{Year: 2026, Month: time.January, Day: 1}
	WindowEnd   = civil.Date{Year: 2028, Month: time.June, Day: 30}
)

// Turn dates are resolved for every month of these years, a superset of
// the window.
const (
	firstTurnYear = 2026
	lastTurnYear  = 2028
)

// =============================================================================
// DATE UTILITIES
// =============================================================================

func Date(year int, month time.Month, day int) civil.Date {
	return civil.Date{Year: year, Month: month, Day: day}
}

// MustParseDate parses YYYY-MM-DD and panics on error. Fixtures only.
func MustParseDate(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func Weekday(d civil.Date) time.Weekday { return d.In(time.UTC).Weekday() }

func IsWeekend(d civil.Date) bool {
	wd := Weekday(d)
	return wd == time.Saturday || wd == time.Sunday
}

func StartOfMonth(year int, month time.Month) civil.Date { return Date(year, month, 1) }

func EndOfMonth(year int, month time.Month) civil.Date {
	return civil.DateOf(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

// AddMonths shifts to the first of the month n months away.
func AddMonths(year int, month time.Month, n int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return t.Year(), t.Month()
}

// IMMDate returns the third Wednesday of the month.
func IMMDate(year int, month time.Month) civil.Date {
	d := StartOfMonth(year, month)
	wednesdays := 0
	for {
		if Weekday(d) == time.Wednesday {
			wednesdays++
			if wednesdays == 3 {
				return d
			}
		}
		d = d.AddDays(1)
	}
}

// IsQuarterMonth reports whether m is an IMM quarter month.
func IsQuarterMonth(m time.Month) bool {
	return m == time.March || m == time.June || m == time.September || m == time.December
}
