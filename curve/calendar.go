package curve

import (
	"time"

	"cloud.google.com/go/civil"
)

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a market holiday. Only Date affects the curve.
type Holiday struct {
	Date      civil.Date `json:"date"`
	Name      string     `json:"name"`
	LocalName string     `json:"localName"`
}

// HolidaySet is a date lookup built from a holiday list.
type HolidaySet map[civil.Date]struct{}

func NewHolidaySet(holidays []Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date] = struct{}{}
	}
	return set
}

func (s HolidaySet) IsHoliday(d civil.Date) bool {
	_, ok := s[d]
	return ok
}

// IsBusinessDay is false on weekends and holidays.
func (s HolidaySet) IsBusinessDay(d civil.Date) bool {
	return !IsWeekend(d) && !s.IsHoliday(d)
}

// LastBusinessDay walks back from the calendar month end to the last
// business day of the month. If the whole month is closed it returns the
// first of the month.
func (s HolidaySet) LastBusinessDay(year int, month time.Month) civil.Date {
	first := StartOfMonth(year, month)
	d := EndOfMonth(year, month)
	for !s.IsBusinessDay(d) && d.After(first) {
		d = d.AddDays(-1)
	}
	return d
}

// FallbackHolidays returns the static US calendar for 2026-2027, observed
// dates already applied. It is used whenever a live source is unavailable.
func FallbackHolidays() []Holiday {
	return append([]Holiday(nil), fallbackHolidays...)
}

var fallbackHolidays = []Holiday{
	// 2026
	{Date: Date(2026, time.January, 1), LocalName: "New Year's Day", Name: "New Year's Day"},
	{Date: Date(2026, time.January, 19), LocalName: "MLK Day", Name: "Martin Luther King, Jr. Day"},
	{Date: Date(2026, time.February, 16), LocalName: "Presidents' Day", Name: "Washington's Birthday"},
	{Date: Date(2026, time.April, 3), LocalName: "Good Friday", Name: "Good Friday"},
	{Date: Date(2026, time.May, 25), LocalName: "Memorial Day", Name: "Memorial Day"},
	{Date: Date(2026, time.June, 19), LocalName: "Juneteenth", Name: "Juneteenth National Independence Day"},
	{Date: Date(2026, time.July, 3), LocalName: "Independence Day", Name: "Independence Day"},
	{Date: Date(2026, time.September, 7), LocalName: "Labor Day", Name: "Labor Day"},
	{Date: Date(2026, time.October, 12), LocalName: "Columbus Day", Name: "Columbus Day"},
	{Date: Date(2026, time.November, 11), LocalName: "Veterans Day", Name: "Veterans Day"},
	{Date: Date(2026, time.November, 26), LocalName: "Thanksgiving Day", Name: "Thanksgiving Day"},
	{Date: Date(2026, time.December, 25), LocalName: "Christmas Day", Name: "Christmas Day"},
	// 2027
	{Date: Date(2027, time.January, 1), LocalName: "New Year's Day", Name: "New Year's Day"},
	{Date: Date(2027, time.January, 18), LocalName: "MLK Day", Name: "Martin Luther King, Jr. Day"},
	{Date: Date(2027, time.February, 15), LocalName: "Presidents' Day", Name: "Washington's Birthday"},
	{Date: Date(2027, time.March, 26), LocalName: "Good Friday", Name: "Good Friday"},
	{Date: Date(2027, time.May, 31), LocalName: "Memorial Day", Name: "Memorial Day"},
	{Date: Date(2027, time.June, 18), LocalName: "Juneteenth (Observed)", Name: "Juneteenth National Independence Day"}, // 19th is a Saturday
	{Date: Date(2027, time.July, 5), LocalName: "Independence Day (Observed)", Name: "Independence Day"},               // 4th is a Sunday
	{Date: Date(2027, time.September, 6), LocalName: "Labor Day", Name: "Labor Day"},
	{Date: Date(2027, time.October, 11), LocalName: "Columbus Day", Name: "Columbus Day"},
	{Date: Date(2027, time.November, 11), LocalName: "Veterans Day", Name: "Veterans Day"},
	{Date: Date(2027, time.November, 25), LocalName: "Thanksgiving Day", Name: "Thanksgiving Day"},
	{Date: Date(2027, time.December, 24), LocalName: "Christmas Day (Observed)", Name: "Christmas Day"}, // 25th is a Saturday
}

// =============================================================================
// FOMC MEETING CALENDAR
// =============================================================================

var fomcDecisionDates = []civil.Date{
	Date(2026, time.January, 28),
	Date(2026, time.March, 18),
	Date(2026, time.April, 29),
	Date(2026, time.June, 17),
	Date(2026, time.July, 29),
	Date(2026, time.September, 16),
	Date(2026, time.October, 28),
	Date(2026, time.December, 9),
	Date(2027, time.January, 27),
	Date(2027, time.March, 17),
	Date(2027, time.April, 28),
	Date(2027, time.June, 9),
	Date(2027, time.July, 28),
	Date(2027, time.September, 15),
	Date(2027, time.October, 27),
	Date(2027, time.December, 8),
}

// FOMCDates returns the scheduled decision dates for 2026-2027.
func FOMCDates() []civil.Date {
	return append([]civil.Date(nil), fomcDecisionDates...)
}

// DefaultMeetings is the FOMC calendar with no rate changes.
func DefaultMeetings() []Meeting {
	return MeetingsOn(fomcDecisionDates)
}

// MeetingsOn builds zero-change meetings on the given dates.
func MeetingsOn(dates []civil.Date) []Meeting {
	meetings := make([]Meeting, len(dates))
	for i, d := range dates {
		meetings[i] = Meeting{Date: d}
	}
	return meetings
}
