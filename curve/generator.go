package curve

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// =============================================================================
// GENERATOR - Scenario -> daily rate curve
// =============================================================================

// Generate expands a scenario into one DailyRate per calendar date of
// [WindowStart, WindowEnd], strictly increasing by date.
//
// The walk is a left fold over the dates. The only state carried from one
// date to the next is the last business-day rate, which weekends and
// holidays repeat.
func Generate(s Scenario, holidays []Holiday) []DailyRate {
	g := newGenerator(s, NewHolidaySet(holidays))

	rates := make([]DailyRate, 0, WindowEnd.DaysSince(WindowStart)+1)
	state := g.initialState()
	for d := WindowStart; !d.After(WindowEnd); d = d.AddDays(1) {
		var r DailyRate
		r, state = g.step(state, d)
		rates = append(rates, r)
	}
	return rates
}

// foldState is threaded through the date walk.
type foldState struct {
	lastBusinessRate decimal.Decimal
}

type monthKey struct {
	year  int
	month time.Month
}

type generator struct {
	base      decimal.Decimal
	meetings  []Meeting
	holidays  HolidaySet
	turns     TurnPremiums
	turnDates map[monthKey]civil.Date
	meetingOn map[civil.Date]bool
}

func newGenerator(s Scenario, holidays HolidaySet) *generator {
	g := &generator{
		base:      decimal.NewFromFloat(s.EffectiveBase()),
		meetings:  s.Meetings,
		holidays:  holidays,
		turns:     s.Turns,
		turnDates: make(map[monthKey]civil.Date),
		meetingOn: make(map[civil.Date]bool, len(s.Meetings)),
	}
	for y := firstTurnYear; y <= lastTurnYear; y++ {
		for m := time.January; m <= time.December; m++ {
			g.turnDates[monthKey{y, m}] = holidays.LastBusinessDay(y, m)
		}
	}
	for _, m := range s.Meetings {
		g.meetingOn[m.Date] = true
	}
	return g
}

// initialState seeds the carry-forward with the starting rate, so a
// window opening on a weekend or holiday has something to hold.
func (g *generator) initialState() foldState {
	return foldState{lastBusinessRate: g.base}
}

func (g *generator) step(state foldState, d civil.Date) (DailyRate, foldState) {
	dayType := g.classify(d)
	baseRate := g.base.Add(bpsToPercent(decimal.NewFromInt(int64(g.cumulativeHikeBps(d)))))

	premiumBps := decimal.Zero
	isTurn := g.turnDates[monthKey{d.Year, d.Month}] == d
	if isTurn {
		premiumBps = decimal.NewFromFloat(g.turns.ForMonth(d.Month))
	}

	final := state.lastBusinessRate
	if dayType == DayBusiness {
		final = baseRate.Add(bpsToPercent(premiumBps))
		state = foldState{lastBusinessRate: final}
	}

	return DailyRate{
		Date:          d,
		DayType:       dayType,
		BaseRate:      baseRate.InexactFloat64(),
		TurnPremium:   premiumBps.InexactFloat64(),
		FinalRate:     final.InexactFloat64(),
		IsMeetingDate: g.meetingOn[d],
		IsTurn:        isTurn,
	}, state
}

func (g *generator) classify(d civil.Date) DayType {
	switch {
	case IsWeekend(d):
		return DayWeekend
	case g.holidays.IsHoliday(d):
		return DayHoliday
	default:
		return DayBusiness
	}
}

// cumulativeHikeBps sums every meeting dated strictly before d; a decision
// on D moves the rate from D+1.
func (g *generator) cumulativeHikeBps(d civil.Date) int {
	total := 0
	for _, m := range g.meetings {
		if m.Date.Before(d) {
			total += m.HikeBps
		}
	}
	return total
}

func bpsToPercent(bps decimal.Decimal) decimal.Decimal { return bps.Shift(-2) }
