package scenario

import (
	"github.com/warp/stir-engine/curve"
)

// =============================================================================
// DEFAULT SCENARIO
// =============================================================================

const DefaultID = "default"

// Default is the base case the dashboard opens with: SOFR and EFFR at
// 4.30, every 2026-2027 meeting on hold, and 5/10/25 bp turns.
func Default() curve.Scenario {
	effr := 4.30
	return curve.Scenario{
		ID:       DefaultID,
		Name:     "Base Case 2026-2027",
		BaseSOFR: 4.30,
		BaseEFFR: &effr,
		Meetings: curve.DefaultMeetings(),
		Turns:    curve.TurnPremiums{MonthEnd: 5, QuarterEnd: 10, YearEnd: 25},
	}
}

// =============================================================================
// PRESETS
// =============================================================================

// Preset is a named scenario the dashboard can load in one click.
type Preset struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Scenario    curve.Scenario `json:"scenario"`
}

// Presets lists the built-in scenarios. Each preset's scenario id equals
// the preset id, so loading a preset twice replaces the first copy.
func Presets() []Preset {
	return []Preset{
		preset("base", "Base Case", "All meetings on hold with standard turns", Default(), nil),
		preset("hiking", "Hiking Cycle", "25 bp at each 2026 meeting, on hold in 2027", Default(),
			func(i int, m curve.Meeting) int {
				if m.Date.Year == 2026 {
					return 25
				}
				return 0
			}),
		preset("cutting", "Cutting Cycle", "25 bp cuts at every other meeting", Default(),
			func(i int, _ curve.Meeting) int {
				if i%2 == 0 {
					return -25
				}
				return 0
			}),
		preset("turn-stress", "Turn Stress", "On hold with 15/40/100 bp turns", withTurns(Default(), 15, 40, 100), nil),
	}
}

// FindPreset returns ErrUnknownPreset when id is not a built-in preset.
func FindPreset(id string) (Preset, error) {
	for _, p := range Presets() {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, ErrUnknownPreset
}

func preset(id, name, desc string, base curve.Scenario, hike func(int, curve.Meeting) int) Preset {
	s := base.Clone()
	s.ID = id
	s.Name = name
	if hike != nil {
		for i := range s.Meetings {
			s.Meetings[i].HikeBps = hike(i, s.Meetings[i])
		}
	}
	return Preset{ID: id, Name: name, Description: desc, Scenario: s}
}

func withTurns(s curve.Scenario, month, quarter, year float64) curve.Scenario {
	s.Turns = curve.TurnPremiums{MonthEnd: month, QuarterEnd: quarter, YearEnd: year}
	return s
}
