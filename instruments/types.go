/*
Package instruments aggregates a daily rate curve into STIR futures.

PURPOSE:
  Monthly (1M) and quarterly (3M, IMM-dated) outrights average the curve
  over their reference windows. Spreads, flies, condors and double flies
  are built from adjacent outrights in chronological order. Every
  instrument carries a price and its sensitivity to each policy meeting.

KEY CONCEPTS IN THIS FILE (types.go):
  - Kind: Which construction produced an instrument
  - Instrument: A priced outright or combination with its legs
  - Sensitivities: Meeting date -> fraction of the window exposed
  - MarketData: The full derived set, bucketed by tenor and kind

IDENTIFIERS:
  Ids are derived from the legs, never parsed back out of other ids.
    Outright  JAN26, SR3H26
    Spread    JAN26-FEB26
    Fly       JAN26FEB26MAR26
    Condor    SR3H26-SR3M26/SR3U26-SR3Z26
    Defly     DF SR3H26SR3M26SR3U26

SIGN CONVENTIONS:
  Outright price = 100 - average rate, so a hike only ever lowers it and
  outright sensitivities are in [0, 1]. A spread is near minus far in
  price, and its sensitivity is |far| - |near|: a hike hitting only the
  far leg widens the spread. Flies, condors and deflies subtract their
  second leg from their first, in price and sensitivity alike.

SEE ALSO:
  - sensitivity.go: Window exposure fraction
  - outright.go: Monthly and quarterly outrights
  - chain.go: Combination constructors
  - engine.go: Calculate, the full pass
*/
package instruments

import (
	"encoding/json"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/warp/stir-engine/curve"
)

// =============================================================================
// KIND - Tagged variant
// =============================================================================

type Kind string

const (
	KindOutright Kind = "outright"
	KindSpread   Kind = "spread"
	KindFly      Kind = "fly"
	KindCondor   Kind = "condor"
	KindDefly    Kind = "defly"
)

type Tenor string

const (
	TenorMonthly   Tenor = "1M"
	TenorQuarterly Tenor = "3M"
)

// =============================================================================
// SENSITIVITIES
// =============================================================================

// Sensitivities maps a meeting date to the instrument's exposure to a
// hike decided on that date. An absent meeting has zero exposure.
type Sensitivities map[civil.Date]float64

// Get returns the exposure to a meeting, 0 when absent.
func (s Sensitivities) Get(meeting civil.Date) float64 {
	return s[meeting]
}

// combine applies f meeting-by-meeting over the keys of s.
func (s Sensitivities) combine(other Sensitivities, f func(a, b float64) float64) Sensitivities {
	out := make(Sensitivities, len(s))
	for d, v := range s {
		out[d] = f(v, other.Get(d))
	}
	return out
}

// =============================================================================
// INSTRUMENT
// =============================================================================

// Instrument is one priced contract or combination.
//
// Legs holds the constituents in construction order:
//
//	Outright: none
//	Spread:   near outright, far outright
//	Fly:      first spread, second spread (sharing the middle outright)
//	Condor:   spread i, spread i+2
//	Defly:    fly i, fly i+1
type Instrument struct {
	Kind          Kind
	Tenor         Tenor
	Label         string       // outrights only: JAN26, SR3H26
	Window        curve.Window // outrights only
	Legs          []*Instrument
	Price         float64
	Rate          float64
	Sensitivities Sensitivities
}

// ID formats the identifier from the variant.
func (i *Instrument) ID() string {
	switch i.Kind {
	case KindOutright:
		return i.Label
	case KindSpread:
		return i.Legs[0].ID() + "-" + i.Legs[1].ID()
	case KindFly:
		return strings.Join(i.outrightIDs(), "")
	case KindCondor:
		return i.Legs[0].ID() + "/" + i.Legs[1].ID()
	case KindDefly:
		return "DF " + i.Legs[0].ID()
	default:
		return ""
	}
}

// Name is the display label.
func (i *Instrument) Name() string {
	switch i.Kind {
	case KindSpread:
		return i.Legs[0].ID() + "/" + i.Legs[1].ID()
	case KindCondor:
		return "Condor"
	case KindDefly:
		return "Defly"
	default:
		return i.ID()
	}
}

// outrightIDs lists the distinct outrights under a fly, in order: the
// near and far of the first spread, then the far of the second.
func (i *Instrument) outrightIDs() []string {
	first, second := i.Legs[0], i.Legs[1]
	return []string{first.Legs[0].ID(), first.Legs[1].ID(), second.Legs[1].ID()}
}

// Outrights returns the outright legs underneath this instrument, in
// chronological order, without duplicates.
func (i *Instrument) Outrights() []*Instrument {
	if i.Kind == KindOutright {
		return []*Instrument{i}
	}
	var out []*Instrument
	seen := make(map[*Instrument]bool)
	for _, leg := range i.Legs {
		for _, o := range leg.Outrights() {
			if !seen[o] {
				seen[o] = true
				out = append(out, o)
			}
		}
	}
	return out
}

type instrumentJSON struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Kind                 Kind          `json:"kind"`
	Tenor                Tenor         `json:"tenor"`
	Price                float64       `json:"price"`
	Rate                 float64       `json:"rate"`
	MeetingSensitivities Sensitivities `json:"meetingSensitivities"`
}

// MarshalJSON flattens the variant to the renderer's shape; legs are
// represented by the id only.
func (i *Instrument) MarshalJSON() ([]byte, error) {
	return json.Marshal(instrumentJSON{
		ID:                   i.ID(),
		Name:                 i.Name(),
		Kind:                 i.Kind,
		Tenor:                i.Tenor,
		Price:                i.Price,
		Rate:                 i.Rate,
		MeetingSensitivities: i.Sensitivities,
	})
}

// =============================================================================
// MARKET DATA
// =============================================================================

type MonthlySet struct {
	Outrights []*Instrument `json:"outrights"`
	Spreads   []*Instrument `json:"spreads"`
	Flies     []*Instrument `json:"flies"`
}

type QuarterlySet struct {
	Outrights []*Instrument `json:"outrights"`
	Spreads   []*Instrument `json:"spreads"`
	Flies     []*Instrument `json:"flies"`
	Deflies   []*Instrument `json:"deflies"`
	Condors   []*Instrument `json:"condors"`
}

// MarketData is the complete derived set for one curve.
type MarketData struct {
	Monthly   MonthlySet   `json:"monthly"`
	Quarterly QuarterlySet `json:"quarterly"`
}

// All returns every instrument, monthly first, in bucket order.
func (m MarketData) All() []*Instrument {
	var all []*Instrument
	for _, bucket := range [][]*Instrument{
		m.Monthly.Outrights, m.Monthly.Spreads, m.Monthly.Flies,
		m.Quarterly.Outrights, m.Quarterly.Spreads, m.Quarterly.Flies,
		m.Quarterly.Deflies, m.Quarterly.Condors,
	} {
		all = append(all, bucket...)
	}
	return all
}

// Find looks an instrument up by id.
func (m MarketData) Find(id string) (*Instrument, bool) {
	for _, inst := range m.All() {
		if inst.ID() == id {
			return inst, true
		}
	}
	return nil, false
}
