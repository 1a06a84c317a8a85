package instruments

import "github.com/warp/stir-engine/curve"

// =============================================================================
// SCENARIO COMPARISON
// =============================================================================

// ComparisonRow lines up one contract across two scenarios.
type ComparisonRow struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	PriceA float64 `json:"priceA"`
	PriceB float64 `json:"priceB"`
	Delta  float64 `json:"delta"` // PriceA - PriceB
	RateA  float64 `json:"rateA"`
	RateB  float64 `json:"rateB"`
}

// Compare pairs two instrument lists by position and stops at the
// shorter one.
func Compare(a, b []*Instrument) []ComparisonRow {
	n := min(len(a), len(b))
	rows := make([]ComparisonRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, ComparisonRow{
			ID:     a[i].ID(),
			Name:   a[i].Name(),
			PriceA: a[i].Price,
			PriceB: b[i].Price,
			Delta:  a[i].Price - b[i].Price,
			RateA:  a[i].Rate,
			RateB:  b[i].Rate,
		})
	}
	return rows
}

// CompareScenarios prices both scenarios against the same holidays and
// compares their monthly outrights.
func CompareScenarios(a, b curve.Scenario, holidays []curve.Holiday) []ComparisonRow {
	return Compare(
		Analyze(a, holidays).Market.Monthly.Outrights,
		Analyze(b, holidays).Market.Monthly.Outrights,
	)
}

// =============================================================================
// SCENARIO SUMMARY
// =============================================================================

// Summary backs the dashboard's stats panel.
type Summary struct {
	Name         string  `json:"name"`
	StartRate    float64 `json:"startRate"`
	NetHikeBps   int     `json:"netHikeBps"`
	TerminalRate float64 `json:"terminalRate"`
	Meetings     int     `json:"meetings"`
}

// Summarize reports the start rate (the SOFR input), net hikes and the
// rate after the last meeting.
func Summarize(s curve.Scenario) Summary {
	net := s.NetHikeBps()
	return Summary{
		Name:         s.Name,
		StartRate:    s.BaseSOFR,
		NetHikeBps:   net,
		TerminalRate: s.EffectiveBase() + float64(net)/100,
		Meetings:     len(s.Meetings),
	}
}
