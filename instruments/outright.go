package instruments

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/warp/stir-engine/curve"
)

const (
	monthlyContracts = 24

	firstQuarterlyYear  = 2026
	lastQuarterlyYear   = 2028
	lastQuarterlyMonth  = time.March // the final contract is SR3H28
	quarterlyRootSymbol = "SR3"
)

var hundred = decimal.NewFromInt(100)

var quarterCodes = map[time.Month]string{
	time.March:     "H",
	time.June:      "M",
	time.September: "U",
	time.December:  "Z",
}

// MonthlyLabel is the three-letter month plus two-digit year: JAN26.
func MonthlyLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s%02d", strings.ToUpper(month.String()[:3]), year%100)
}

// QuarterlyLabel is SR3 + quarter code + two-digit year: SR3H26.
func QuarterlyLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s%s%02d", quarterlyRootSymbol, quarterCodes[month], year%100)
}

func newOutright(tenor Tenor, label string, w, exposure curve.Window, rates []curve.DailyRate, meetings []civil.Date) *Instrument {
	avg := averageRate(w, rates)
	return &Instrument{
		Kind:          KindOutright,
		Tenor:         tenor,
		Label:         label,
		Window:        w,
		Price:         hundred.Sub(avg).InexactFloat64(),
		Rate:          avg.InexactFloat64(),
		Sensitivities: windowSensitivities(meetings, exposure, rates),
	}
}

// MonthlyOutrights builds the 24 calendar-month contracts from January
// 2026. Each averages the whole month, both ends inclusive.
func MonthlyOutrights(rates []curve.DailyRate, meetings []civil.Date) []*Instrument {
	out := make([]*Instrument, 0, monthlyContracts)
	for i := 0; i < monthlyContracts; i++ {
		y, m := curve.AddMonths(curve.WindowStart.Year, curve.WindowStart.Month, i)
		w := curve.MonthWindow(y, m)
		out = append(out, newOutright(TenorMonthly, MonthlyLabel(y, m), w, w, rates, meetings))
	}
	return out
}

// QuarterlyOutrights builds the IMM contracts SR3H26 through SR3H28.
//
// The reference quarter runs from the contract month's IMM date up to,
// not including, the IMM date three months later. Meeting exposure is
// measured over the same dates with the closing IMM date included.
func QuarterlyOutrights(rates []curve.DailyRate, meetings []civil.Date) []*Instrument {
	var out []*Instrument
	for y := firstQuarterlyYear; y <= lastQuarterlyYear; y++ {
		for _, m := range []time.Month{time.March, time.June, time.September, time.December} {
			if y == lastQuarterlyYear && m > lastQuarterlyMonth {
				break
			}
			ny, nm := curve.AddMonths(y, m, 3)
			w := curve.Window{Start: curve.IMMDate(y, m), End: curve.IMMDate(ny, nm), HalfOpen: true}
			out = append(out, newOutright(TenorQuarterly, QuarterlyLabel(y, m), w, w.Closed(), rates, meetings))
		}
	}
	return out
}
