package perfolio

import (
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/jmllr/perfolio/date"
)

// Ledger normalizes raw activities into ordered, validated events.
//
// In a Ledger activities are always in chronological order; same-day
// activities keep their insertion order so replay is deterministic.
type Ledger struct {
	activities   []Activity
	byInstrument map[string][]Activity
}

// NewLedger validates and orders the given activities.
//
// It fails with ErrInvalidActivity on a malformed record and with
// ErrOverdraft when a sell would drive an instrument's running quantity
// negative. Both signal upstream data problems the engine will not repair.
func NewLedger(activities []Activity) (*Ledger, error) {
	l := &Ledger{
		activities:   make([]Activity, len(activities)),
		byInstrument: make(map[string][]Activity),
	}
	copy(l.activities, activities)

	for i, a := range l.activities {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("activity %d: %w", i, err)
		}
	}

	// Stable: same-day activities keep their insertion order.
	sort.SliceStable(l.activities, func(i, j int) bool {
		return l.activities[i].Date.Before(l.activities[j].Date)
	})

	for _, a := range l.activities {
		l.byInstrument[a.Instrument] = append(l.byInstrument[a.Instrument], a)
	}

	for instrument, list := range l.byInstrument {
		if err := checkOverdraft(instrument, list); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// checkOverdraft replays buys and sells and rejects a negative running quantity.
func checkOverdraft(instrument string, ordered []Activity) error {
	held := Q(0)
	for _, a := range ordered {
		switch a.Type {
		case Buy:
			held = held.Add(a.Quantity)
		case Sell:
			held = held.Sub(a.Quantity)
			if held.IsNegative() {
				return fmt.Errorf("%w: %s on %s sells %s with only %s held",
					ErrOverdraft, instrument, a.Date, a.Quantity, held.Add(a.Quantity))
			}
		}
	}
	return nil
}

// Len returns the number of activities in the ledger.
func (l *Ledger) Len() int { return len(l.activities) }

// Activities returns an iterator over all activities in chronological order.
func (l *Ledger) Activities() iter.Seq2[int, Activity] {
	return func(yield func(int, Activity) bool) {
		for i, a := range l.activities {
			if !yield(i, a) {
				return
			}
		}
	}
}

// Instruments returns the distinct instrument IDs, sorted for determinism.
func (l *Ledger) Instruments() []string {
	ids := make([]string, 0, len(l.byInstrument))
	for id := range l.byInstrument {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ForInstrument returns the chronological activities of one instrument.
// The returned slice is shared and must be treated as read-only.
func (l *Ledger) ForInstrument(id string) []Activity { return l.byInstrument[id] }

// FirstActivityDate returns the date of the earliest activity,
// or a zero date on an empty ledger.
func (l *Ledger) FirstActivityDate() date.Date {
	if len(l.activities) == 0 {
		return date.Date{}
	}
	return l.activities[0].Date
}

// LastActivityDate returns the date of the latest activity,
// or a zero date on an empty ledger.
func (l *Ledger) LastActivityDate() date.Date {
	if len(l.activities) == 0 {
		return date.Date{}
	}
	return l.activities[len(l.activities)-1].Date
}

// FirstBuyDate returns the date of the instrument's first buy. Dependent
// computations (e.g. dividend lookups) key off this date.
func (l *Ledger) FirstBuyDate(instrument string) (date.Date, bool) {
	for _, a := range l.byInstrument[instrument] {
		if a.Type == Buy {
			return a.Date, true
		}
	}
	return date.Date{}, false
}
