package instruments

import (
	"cloud.google.com/go/civil"
	"github.com/warp/stir-engine/curve"
)

// Calculate derives the full instrument set from a daily curve.
//
// Monthly: outrights -> spreads -> flies.
// Quarterly: outrights -> spreads -> flies -> deflies, and condors over
// spreads two apart.
//
// Calculate is pure; the same inputs always give the same output.
func Calculate(rates []curve.DailyRate, meetings []civil.Date) MarketData {
	mOutrights := MonthlyOutrights(rates, meetings)
	mSpreads := Spreads(mOutrights)

	qOutrights := QuarterlyOutrights(rates, meetings)
	qSpreads := Spreads(qOutrights)
	qFlies := Flies(qSpreads)

	return MarketData{
		Monthly: MonthlySet{
			Outrights: mOutrights,
			Spreads:   mSpreads,
			Flies:     Flies(mSpreads),
		},
		Quarterly: QuarterlySet{
			Outrights: qOutrights,
			Spreads:   qSpreads,
			Flies:     qFlies,
			Deflies:   Deflies(qFlies),
			Condors:   Condors(qSpreads),
		},
	}
}

// Result pairs a curve with the instruments derived from it.
type Result struct {
	Rates  []curve.DailyRate `json:"dailyRates"`
	Market MarketData        `json:"marketData"`
}

// Analyze runs both stages for a scenario: curve generation, then
// instrument derivation against the scenario's meetings.
func Analyze(s curve.Scenario, holidays []curve.Holiday) Result {
	rates := curve.Generate(s, holidays)
	return Result{
		Rates:  rates,
		Market: Calculate(rates, s.MeetingDates()),
	}
}
