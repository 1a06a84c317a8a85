/*
Package curve expands a rate scenario into a daily overnight-rate curve.

PURPOSE:
  A scenario is sparse: a starting level, a calendar of policy meetings
  each carrying a rate change, and turn premiums for period ends. The
  curve generator walks every calendar date of a fixed window and emits
  the rate actually realized on that date, honoring weekends, holidays
  and the last-business-day turn convention.

KEY CONCEPTS IN THIS FILE (types.go):
  - Meeting: A policy decision, effective the day AFTER its date
  - TurnPremiums: Month/quarter/year-end premiums in basis points
  - Scenario: The full user-defined rate path
  - DailyRate: One generated curve point

DESIGN PRINCIPLES:
  1. Purity: Generate reads only its arguments and allocates fresh output
  2. Totality: Every date in the window gets exactly one DailyRate
  3. Carry-forward: Non-business days hold the last business-day rate

USAGE:
  s := curve.Scenario{BaseSOFR: 4.30, Meetings: curve.DefaultMeetings()}
  rates := curve.Generate(s, curve.FallbackHolidays())
  for _, r := range rates {
      fmt.Println(r.Date, r.FinalRate)
  }

SEE ALSO:
  - generator.go: The date fold producing DailyRate values
  - calendar.go: Holiday sets, fallback holidays, default FOMC meetings
  - time.go: Window bounds, month ends, IMM dates
*/
package curve

import (
	"time"

	"cloud.google.com/go/civil"
)

// =============================================================================
// MEETING - Policy decision
// =============================================================================

// Meeting is a policy decision. HikeBps is the signed change in basis
// points, effective from the day after Date.
type Meeting struct {
	Date    civil.Date `json:"date" yaml:"date"`
	HikeBps int        `json:"hikeBps" yaml:"hikeBps"`
}

// EffectiveDate is the first date trading at the new rate.
func (m Meeting) EffectiveDate() civil.Date { return m.Date.AddDays(1) }

// =============================================================================
// TURN PREMIUMS - Period-end funding premiums (bps)
// =============================================================================

type TurnPremiums struct {
	MonthEnd   float64 `json:"monthEnd" yaml:"monthEnd"`
	QuarterEnd float64 `json:"quarterEnd" yaml:"quarterEnd"`
	YearEnd    float64 `json:"yearEnd" yaml:"yearEnd"`
}

// ForMonth returns the premium (bps) applied on the turn date of the
// given month. Year-end beats quarter-end beats month-end.
func (t TurnPremiums) ForMonth(m time.Month) float64 {
	switch m {
	case time.December:
		return t.YearEnd
	case time.March, time.June, time.September:
		return t.QuarterEnd
	default:
		return t.MonthEnd
	}
}

// =============================================================================
// SCENARIO
// =============================================================================

// Scenario is a user-defined policy path. Meetings are expected in
// ascending date order.
type Scenario struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	BaseSOFR float64      `json:"baseSofr" yaml:"baseSofr"`
	BaseEFFR *float64     `json:"baseEffr" yaml:"baseEffr"`
	Meetings []Meeting    `json:"meetings" yaml:"meetings"`
	Turns    TurnPremiums `json:"turns" yaml:"turns"`
}

// EffectiveBase is the starting overnight rate: BaseEFFR when set,
// BaseSOFR otherwise. Only one rate path is ever projected.
func (s Scenario) EffectiveBase() float64 {
	if s.BaseEFFR != nil {
		return *s.BaseEFFR
	}
	return s.BaseSOFR
}

// NetHikeBps is the sum of all meeting changes.
func (s Scenario) NetHikeBps() int {
	total := 0
	for _, m := range s.Meetings {
		total += m.HikeBps
	}
	return total
}

// MeetingDates returns the meeting dates in scenario order.
func (s Scenario) MeetingDates() []civil.Date {
	dates := make([]civil.Date, len(s.Meetings))
	for i, m := range s.Meetings {
		dates[i] = m.Date
	}
	return dates
}

// Clone returns a deep copy so callers can edit without aliasing.
func (s Scenario) Clone() Scenario {
	c := s
	if s.BaseEFFR != nil {
		v := *s.BaseEFFR
		c.BaseEFFR = &v
	}
	if s.Meetings != nil {
		c.Meetings = make([]Meeting, len(s.Meetings))
		copy(c.Meetings, s.Meetings)
	}
	return c
}

// =============================================================================
// DAILY RATE - One generated curve point
// =============================================================================

type DayType string

const (
	DayBusiness DayType = "Business"
	DayWeekend  DayType = "Weekend"
	DayHoliday  DayType = "Holiday"
)

// DailyRate is the realized overnight rate on one calendar date.
//
// BaseRate includes cumulative hikes but no turn premium. TurnPremium is
// in basis points; FinalRate is in percent.
type DailyRate struct {
	Date          civil.Date `json:"date"`
	DayType       DayType    `json:"dayType"`
	BaseRate      float64    `json:"baseRate"`
	TurnPremium   float64    `json:"turnPremium"`
	FinalRate     float64    `json:"finalRate"`
	IsMeetingDate bool       `json:"isMeetingDate"`
	IsTurn        bool       `json:"isTurn"`
}

func (r DailyRate) IsBusinessDay() bool { return r.DayType == DayBusiness }
