package curve

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

// =============================================================================
// WINDOW - A date range an instrument averages over
// =============================================================================

// Window is a date range. End is inclusive unless HalfOpen is set, in
// which case the range is [Start, End).
//
// Examples:
//   - Calendar month: [Jan 1, Jan 31]
//   - IMM quarter:    [Mar 18, Jun 17)
type Window struct {
	Start    civil.Date
	End      civil.Date
	HalfOpen bool
}

// MonthWindow is the full calendar month, both ends inclusive.
func MonthWindow(year int, month time.Month) Window {
	return Window{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d civil.Date) bool {
	if d.Before(w.Start) {
		return false
	}
	if w.HalfOpen {
		return d.Before(w.End)
	}
	return !d.After(w.End)
}

// Closed returns the same range with an inclusive end.
func (w Window) Closed() Window {
	return Window{Start: w.Start, End: w.End}
}

// Slice returns the contiguous run of rates whose dates fall inside the
// window. rates must be sorted by date.
func (w Window) Slice(rates []DailyRate) []DailyRate {
	lo := sort.Search(len(rates), func(i int) bool { return !rates[i].Date.Before(w.Start) })
	hi := lo
	for hi < len(rates) && w.Contains(rates[hi].Date) {
		hi++
	}
	return rates[lo:hi]
}

func (w Window) String() string {
	closer := "]"
	if w.HalfOpen {
		closer = ")"
	}
	return "[" + w.Start.String() + ", " + w.End.String() + closer
}
