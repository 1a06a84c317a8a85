package scenario

import (
	"math"
	"sort"

	"github.com/warp/stir-engine/curve"
)

// Normalize prepares a scenario for pricing. Meetings are sorted by date
// (stable, so same-day meetings keep their order). Non-finite rates or
// premiums are rejected with a *ValidationError.
//
// The curve generator itself never fails; this is the check applied at
// the API and CLI boundaries.
func Normalize(s curve.Scenario) (curve.Scenario, error) {
	out := s.Clone()

	if !finite(out.BaseSOFR) {
		return curve.Scenario{}, &ValidationError{Field: "baseSofr", Message: "must be a finite number"}
	}
	if out.BaseEFFR != nil && !finite(*out.BaseEFFR) {
		return curve.Scenario{}, &ValidationError{Field: "baseEffr", Message: "must be a finite number"}
	}
	for field, v := range map[string]float64{
		"turns.monthEnd":   out.Turns.MonthEnd,
		"turns.quarterEnd": out.Turns.QuarterEnd,
		"turns.yearEnd":    out.Turns.YearEnd,
	} {
		if !finite(v) {
			return curve.Scenario{}, &ValidationError{Field: field, Message: "must be a finite number"}
		}
	}

	sort.SliceStable(out.Meetings, func(i, j int) bool {
		return out.Meetings[i].Date.Before(out.Meetings[j].Date)
	})
	if out.Meetings == nil {
		out.Meetings = []curve.Meeting{}
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
