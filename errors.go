package perfolio

import "errors"

// The engine classifies failures into a small taxonomy. Localized conditions
// (a missing data point, a degenerate sub-period) are absorbed inside the
// computation and reflected as zero contributions; structural violations are
// returned to the caller wrapped with context.
var (
	// ErrInvalidActivity reports an activity with a bad shape: unknown type,
	// non-positive quantity on a trade, or a negative fee.
	ErrInvalidActivity = errors.New("invalid activity")

	// ErrOverdraft reports a sell whose quantity exceeds the position held at
	// that date. It signals a data-integrity problem in upstream activities;
	// the engine surfaces it rather than clamping.
	ErrOverdraft = errors.New("sell exceeds held quantity")

	// ErrNoMarketData reports a price or rate lookup with no value on or
	// before the requested date.
	ErrNoMarketData = errors.New("no market data")

	// ErrDegenerateWindow reports a return sub-period that cannot form a
	// ratio: a zero start value with same-day activity.
	ErrDegenerateWindow = errors.New("degenerate return window")

	// ErrNoConvergence reports that the internal rate of return solver
	// exhausted its iteration budget.
	ErrNoConvergence = errors.New("internal rate of return did not converge")

	// ErrArithmetic reports a division by zero in decimal arithmetic. It is
	// fatal to the single computation call, never silently defaulted.
	ErrArithmetic = errors.New("arithmetic: division by zero")
)
