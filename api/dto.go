/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Scenarios, daily
  rates and instruments already carry their wire shape; the types here
  wrap them into responses and add the dashboard's derived stats.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

ROUNDING:
  Curve stats are rounded to 4 decimal places (hundredths of a basis
  point) with decimal arithmetic. Instrument prices and rates are sent
  unrounded; the dashboard formats them.

SEE ALSO:
  - handlers.go: Uses these types
  - instruments/types.go: Instrument JSON shape
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/stir-engine/curve"
	"github.com/warp/stir-engine/fomc"
	"github.com/warp/stir-engine/holidays"
	"github.com/warp/stir-engine/instruments"
	"github.com/warp/stir-engine/scenario"
)

const statsPlaces = 4

// =============================================================================
// ANALYSIS
// =============================================================================

// CurveStatsDTO summarizes a generated curve.
type CurveStatsDTO struct {
	Days         int     `json:"days"`
	BusinessDays int     `json:"businessDays"`
	Holidays     int     `json:"holidays"`
	TurnDays     int     `json:"turnDays"`
	MinRate      float64 `json:"minRate"`
	MaxRate      float64 `json:"maxRate"`
	AverageRate  float64 `json:"averageRate"`
	EndRate      float64 `json:"endRate"`
}

// AnalysisResponse is one full recomputation for a scenario.
type AnalysisResponse struct {
	Scenario   curve.Scenario         `json:"scenario"`
	Summary    instruments.Summary    `json:"summary"`
	CurveStats CurveStatsDTO          `json:"curveStats"`
	DailyRates []curve.DailyRate      `json:"dailyRates,omitempty"`
	MarketData instruments.MarketData `json:"marketData"`
}

func toCurveStats(rates []curve.DailyRate) CurveStatsDTO {
	stats := CurveStatsDTO{Days: len(rates)}
	if len(rates) == 0 {
		return stats
	}

	sum := decimal.Zero
	lo, hi := rates[0].FinalRate, rates[0].FinalRate
	for _, r := range rates {
		switch r.DayType {
		case curve.DayBusiness:
			stats.BusinessDays++
		case curve.DayHoliday:
			stats.Holidays++
		}
		if r.IsTurn {
			stats.TurnDays++
		}
		lo = min(lo, r.FinalRate)
		hi = max(hi, r.FinalRate)
		sum = sum.Add(decimal.NewFromFloat(r.FinalRate))
	}

	stats.MinRate = round(decimal.NewFromFloat(lo))
	stats.MaxRate = round(decimal.NewFromFloat(hi))
	stats.AverageRate = round(sum.Div(decimal.NewFromInt(int64(len(rates)))))
	stats.EndRate = round(decimal.NewFromFloat(rates[len(rates)-1].FinalRate))
	return stats
}

func round(d decimal.Decimal) float64 {
	return d.Round(statsPlaces).InexactFloat64()
}

func toAnalysis(s curve.Scenario, result instruments.Result, withRates bool) AnalysisResponse {
	resp := AnalysisResponse{
		Scenario:   s,
		Summary:    instruments.Summarize(s),
		CurveStats: toCurveStats(result.Rates),
		MarketData: result.Market,
	}
	if withRates {
		resp.DailyRates = result.Rates
	}
	return resp
}

// AnalyzeRequest prices an unsaved scenario.
type AnalyzeRequest struct {
	Scenario     curve.Scenario `json:"scenario"`
	IncludeRates bool           `json:"includeRates"`
}

// =============================================================================
// COMPARISON
// =============================================================================

type CompareResponse struct {
	A    instruments.Summary         `json:"a"`
	B    instruments.Summary         `json:"b"`
	Rows []instruments.ComparisonRow `json:"rows"`
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

type HolidaysResponse struct {
	Origin   holidays.Origin `json:"origin"`
	Holidays []curve.Holiday `json:"holidays"`
}

type MeetingsResponse struct {
	Origin fomc.Origin `json:"origin"`
	Dates  []string    `json:"dates"`
}

type PresetListResponse struct {
	Presets []scenario.Preset `json:"presets"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
