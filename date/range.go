package date

import (
	"fmt"
	"iter"
)

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange returns the inclusive range [from, to].
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains reports whether the date is included in the range (boundaries included).
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// IsValid reports whether the range boundaries are set and ordered.
func (r Range) IsValid() bool { return !r.From.IsZero() && !r.To.IsZero() && !r.To.Before(r.From) }

// Days returns the number of calendar days in the range, boundaries included.
func (r Range) Days() int { return r.To.Sub(r.From) + 1 }

// String formats the range in its canonical form.
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }

// Grid returns an iterator over the range's dates, stepped by the given
// number of days. The last yielded date is always r.To, even when the step
// does not land on it exactly, so a stepped walk still observes the final
// value of the range.
func (r Range) Grid(step int) iter.Seq[Date] {
	if step < 1 {
		step = 1
	}
	return func(yield func(Date) bool) {
		if !r.IsValid() {
			return
		}
		on := r.From
		for on.Before(r.To) {
			if !yield(on) {
				return
			}
			on = on.Add(step)
		}
		yield(r.To)
	}
}
