package instruments

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/warp/stir-engine/curve"
)

// Sensitivity is the fraction of the dated entries of rates inside w that
// fall on or after the meeting's effective date (the day after the
// meeting). An empty window has no exposure.
func Sensitivity(meeting civil.Date, w curve.Window, rates []curve.DailyRate) float64 {
	in := w.Slice(rates)
	if len(in) == 0 {
		return 0
	}
	effective := meeting.AddDays(1)
	affected := 0
	for _, r := range in {
		if !r.Date.Before(effective) {
			affected++
		}
	}
	return float64(affected) / float64(len(in))
}

// windowSensitivities evaluates Sensitivity for every meeting.
func windowSensitivities(meetings []civil.Date, w curve.Window, rates []curve.DailyRate) Sensitivities {
	sens := make(Sensitivities, len(meetings))
	for _, m := range meetings {
		sens[m] = Sensitivity(m, w, rates)
	}
	return sens
}

// averageRate is the arithmetic mean of FinalRate over the window. An
// empty window averages to 0. A flat curve averages exactly to its level.
func averageRate(w curve.Window, rates []curve.DailyRate) decimal.Decimal {
	in := w.Slice(rates)
	sum := decimal.Zero
	for _, r := range in {
		sum = sum.Add(decimal.NewFromFloat(r.FinalRate))
	}
	return sum.Div(decimal.NewFromInt(int64(max(len(in), 1))))
}
