package instruments

import "math"

// =============================================================================
// COMBINATION CONSTRUCTORS
// =============================================================================

// NewSpread is near minus far in price. Its rate is the far rate less the
// near rate, and its exposure is |far| - |near| per meeting.
func NewSpread(near, far *Instrument) *Instrument {
	return &Instrument{
		Kind:  KindSpread,
		Tenor: near.Tenor,
		Legs:  []*Instrument{near, far},
		Price: near.Price - far.Price,
		Rate:  far.Rate - near.Rate,
		Sensitivities: near.Sensitivities.combine(far.Sensitivities, func(n, f float64) float64 {
			return math.Abs(f) - math.Abs(n)
		}),
	}
}

// NewFly is the first spread minus the second. The spreads must share
// their middle outright (A-B, B-C).
func NewFly(first, second *Instrument) *Instrument {
	return difference(KindFly, first, second)
}

// NewCondor is spread i minus spread i+2.
func NewCondor(first, third *Instrument) *Instrument {
	return difference(KindCondor, first, third)
}

// NewDefly is fly i minus fly i+1.
func NewDefly(first, second *Instrument) *Instrument {
	return difference(KindDefly, first, second)
}

func difference(kind Kind, a, b *Instrument) *Instrument {
	return &Instrument{
		Kind:  kind,
		Tenor: a.Tenor,
		Legs:  []*Instrument{a, b},
		Price: a.Price - b.Price,
		Sensitivities: a.Sensitivities.combine(b.Sensitivities, func(x, y float64) float64 {
			return x - y
		}),
	}
}

// =============================================================================
// CHAIN BUILDERS - gap-k pairing over a chronological list
// =============================================================================

// pairs applies build to (list[i], list[i+gap]) for every valid i.
func pairs(list []*Instrument, gap int, build func(a, b *Instrument) *Instrument) []*Instrument {
	n := len(list) - gap
	if n <= 0 {
		return []*Instrument{}
	}
	out := make([]*Instrument, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, build(list[i], list[i+gap]))
	}
	return out
}

// Spreads pairs consecutive outrights: n outrights give n-1 spreads.
func Spreads(outrights []*Instrument) []*Instrument { return pairs(outrights, 1, NewSpread) }

// Flies pairs consecutive spreads.
func Flies(spreads []*Instrument) []*Instrument { return pairs(spreads, 1, NewFly) }

// Deflies pairs consecutive flies.
func Deflies(flies []*Instrument) []*Instrument { return pairs(flies, 1, NewDefly) }

// Condors pairs spreads two apart.
func Condors(spreads []*Instrument) []*Instrument { return pairs(spreads, 2, NewCondor) }
