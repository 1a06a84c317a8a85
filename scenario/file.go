package scenario

import (
	"fmt"
	"os"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v3"

	"github.com/warp/stir-engine/curve"
)

// =============================================================================
// YAML SCENARIO FILES
// =============================================================================
//
//	id: hiking
//	name: Hiking cycle
//	baseSofr: 4.30
//	baseEffr: 4.33        # optional
//	meetings:
//	  - date: 2026-01-28
//	    hikeBps: 25
//	turns:
//	  monthEnd: 5
//	  quarterEnd: 10
//	  yearEnd: 25

type fileMeeting struct {
	Date    string `yaml:"date"`
	HikeBps int    `yaml:"hikeBps"`
}

type fileScenario struct {
	ID       string             `yaml:"id"`
	Name     string             `yaml:"name"`
	BaseSOFR float64            `yaml:"baseSofr"`
	BaseEFFR *float64           `yaml:"baseEffr"`
	Meetings []fileMeeting      `yaml:"meetings"`
	Turns    curve.TurnPremiums `yaml:"turns"`
}

// LoadFile reads and normalizes a YAML scenario file.
func LoadFile(path string) (curve.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return curve.Scenario{}, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scenario. An empty meetings list is valid and
// yields a flat curve.
func Parse(data []byte) (curve.Scenario, error) {
	var f fileScenario
	if err := yaml.Unmarshal(data, &f); err != nil {
		return curve.Scenario{}, fmt.Errorf("parsing scenario: %w", err)
	}

	s := curve.Scenario{
		ID:       f.ID,
		Name:     f.Name,
		BaseSOFR: f.BaseSOFR,
		BaseEFFR: f.BaseEFFR,
		Turns:    f.Turns,
	}
	for i, m := range f.Meetings {
		d, err := civil.ParseDate(m.Date)
		if err != nil {
			return curve.Scenario{}, &ValidationError{
				Field:   fmt.Sprintf("meetings[%d].date", i),
				Message: fmt.Sprintf("%q is not a YYYY-MM-DD date", m.Date),
			}
		}
		s.Meetings = append(s.Meetings, curve.Meeting{Date: d, HikeBps: m.HikeBps})
	}
	return Normalize(s)
}

// Marshal writes s in the file format Parse reads.
func Marshal(s curve.Scenario) ([]byte, error) {
	f := fileScenario{
		ID:       s.ID,
		Name:     s.Name,
		BaseSOFR: s.BaseSOFR,
		BaseEFFR: s.BaseEFFR,
		Turns:    s.Turns,
	}
	for _, m := range s.Meetings {
		f.Meetings = append(f.Meetings, fileMeeting{Date: m.Date.String(), HikeBps: m.HikeBps})
	}
	return yaml.Marshal(f)
}
