package scenario_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/stir-engine/curve"
	"github.com/warp/stir-engine/scenario"
)

// =============================================================================
// DEFAULTS AND PRESETS
// =============================================================================

func TestDefault(t *testing.T) {
	s := scenario.Default()

	assert.Equal(t, scenario.DefaultID, s.ID)
	assert.Equal(t, "Base Case 2026-2027", s.Name)
	assert.Equal(t, 4.30, s.BaseSOFR)
	require.NotNil(t, s.BaseEFFR)
	assert.Equal(t, 4.30, *s.BaseEFFR)
	assert.Len(t, s.Meetings, 16)
	assert.Equal(t, 0, s.NetHikeBps())
	assert.Equal(t, curve.TurnPremiums{MonthEnd: 5, QuarterEnd: 10, YearEnd: 25}, s.Turns)
}

func TestPresets(t *testing.T) {
	presets := scenario.Presets()
	require.Len(t, presets, 4)

	for _, p := range presets {
		assert.Equal(t, p.ID, p.Scenario.ID, "preset id doubles as scenario id")
		assert.NotEmpty(t, p.Name)
	}

	hiking, err := scenario.FindPreset("hiking")
	require.NoError(t, err)
	assert.Equal(t, 8*25, hiking.Scenario.NetHikeBps(), "eight 2026 meetings at +25")

	cutting, err := scenario.FindPreset("cutting")
	require.NoError(t, err)
	assert.Equal(t, -8*25, cutting.Scenario.NetHikeBps())

	stress, err := scenario.FindPreset("turn-stress")
	require.NoError(t, err)
	assert.Equal(t, 100.0, stress.Scenario.Turns.YearEnd)
}

func TestPresets_DoNotShareMeetings(t *testing.T) {
	hiking, _ := scenario.FindPreset("hiking")
	hiking.Scenario.Meetings[0].HikeBps = 500

	again, _ := scenario.FindPreset("hiking")
	assert.Equal(t, 25, again.Scenario.Meetings[0].HikeBps)
	assert.Equal(t, 0, scenario.Default().Meetings[0].HikeBps)
}

func TestFindPreset_Unknown(t *testing.T) {
	_, err := scenario.FindPreset("nope")

	assert.ErrorIs(t, err, scenario.ErrUnknownPreset)
	assert.True(t, scenario.IsNotFound(err))
}

// =============================================================================
// NORMALIZE
// =============================================================================

func TestNormalize_SortsMeetings(t *testing.T) {
	s := curve.Scenario{
		BaseSOFR: 4.30,
		Meetings: []curve.Meeting{
			{Date: curve.MustParseDate("2026-03-18"), HikeBps: 25},
			{Date: curve.MustParseDate("2026-01-28"), HikeBps: -25},
		},
	}

	got, err := scenario.Normalize(s)

	require.NoError(t, err)
	assert.Equal(t, curve.MustParseDate("2026-01-28"), got.Meetings[0].Date)
	assert.Equal(t, curve.MustParseDate("2026-03-18"), s.Meetings[0].Date, "input left untouched")
}

func TestNormalize_RejectsNonFinite(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name  string
		s     curve.Scenario
		field string
	}{
		{"nan sofr", curve.Scenario{BaseSOFR: math.NaN()}, "baseSofr"},
		{"inf effr", curve.Scenario{BaseSOFR: 4.3, BaseEFFR: &inf}, "baseEffr"},
		{"inf turn", curve.Scenario{BaseSOFR: 4.3, Turns: curve.TurnPremiums{YearEnd: inf}}, "turns.yearEnd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.Normalize(tt.s)

			var verr *scenario.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, scenario.ErrInvalidScenario)
			assert.True(t, scenario.IsClientError(err))
		})
	}
}

func TestNormalize_EmptyMeetings(t *testing.T) {
	got, err := scenario.Normalize(curve.Scenario{BaseSOFR: 4.30})

	require.NoError(t, err)
	assert.NotNil(t, got.Meetings)
	assert.Empty(t, got.Meetings)
}

// =============================================================================
// YAML FILES
// =============================================================================

const hikingYAML = `
id: hiking
name: Hiking cycle
baseSofr: 4.30
baseEffr: 4.33
meetings:
  - date: 2026-03-18
    hikeBps: 25
  - date: "2026-01-28"
    hikeBps: 25
turns:
  monthEnd: 5
  quarterEnd: 10
  yearEnd: 25
`

func TestParse(t *testing.T) {
	s, err := scenario.Parse([]byte(hikingYAML))

	require.NoError(t, err)
	assert.Equal(t, "hiking", s.ID)
	assert.Equal(t, "Hiking cycle", s.Name)
	require.NotNil(t, s.BaseEFFR)
	assert.Equal(t, 4.33, *s.BaseEFFR)
	require.Len(t, s.Meetings, 2)
	assert.Equal(t, curve.MustParseDate("2026-01-28"), s.Meetings[0].Date, "sorted on load")
	assert.Equal(t, 25.0, s.Turns.YearEnd)
}

func TestParse_BadDate(t *testing.T) {
	_, err := scenario.Parse([]byte("baseSofr: 4.3\nmeetings:\n  - date: Jan 28\n    hikeBps: 25\n"))

	var verr *scenario.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "meetings[0].date", verr.Field)
}

func TestParse_Malformed(t *testing.T) {
	_, err := scenario.Parse([]byte("baseSofr: [not a number"))

	assert.Error(t, err)
}

func TestLoadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	data, err := scenario.Marshal(scenario.Default())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := scenario.LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, scenario.Default(), got)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := scenario.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}
