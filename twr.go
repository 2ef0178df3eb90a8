package perfolio

import (
	"context"

	"github.com/shopspring/decimal"
)

// twrCalculator implements the time-weighted return strategy: sub-period
// returns (endValue - flow) / startValue - 1 compounded multiplicatively
// across the window. Grounded purely in market prices, it neutralizes the
// size and timing of the investor's own cash flows.
type twrCalculator struct{}

func (twrCalculator) SymbolMetrics(ctx context.Context, in *Input, instrument string) (*SymbolMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sim, err := simulate(in, instrument)
	if err != nil {
		return nil, err
	}
	return sim.metrics, nil
}

func (twrCalculator) OverallPerformance(ctx context.Context, in *Input) (*CurrentPositions, error) {
	agg, err := aggregate(ctx, in)
	if err != nil {
		return nil, err
	}
	cp := agg.currentPositions(StrategyTWR)
	return cp, nil
}

// returnChain compounds stepped sub-period returns incrementally.
//
// A sub-period with a zero start value contributes a zero return: a dormant
// zero-basis day is not degenerate, and the truly degenerate case (same-day
// buy-then-measure) is skipped rather than aborting, with the next
// sub-period measured from the new basis. Days whose market value degraded
// to zero are bridged: their flows accumulate until a trustworthy value
// re-appears.
type returnChain struct {
	factor  decimal.Decimal
	prev    Money
	pending Money // flows accumulated across bridged (priceOK=false) days
}

func newReturnChain(opening Money) *returnChain {
	return &returnChain{factor: decimal.NewFromInt(1), prev: opening}
}

// add folds one grid day into the chain.
func (c *returnChain) add(p seriesPoint) {
	if !p.priceOK {
		c.pending = c.pending.Add(p.flow)
		return
	}
	// Wallet-signed flows become flows into the position by negation:
	// a buy moves cash out of the wallet and into the position.
	flowIn := p.flow.Add(c.pending).Neg()
	c.pending = Money{}

	if c.prev.IsZero() {
		c.prev = p.value
		return
	}
	ratio, err := p.value.Sub(flowIn).Ratio(c.prev)
	if err != nil {
		c.prev = p.value
		return
	}
	c.factor = c.factor.Mul(ratio)
	c.prev = p.value
}

// value returns the compounded return of everything added so far.
func (c *returnChain) value() Percent { return percentOf(c.factor) }

// chainedReturn compounds a whole series at once.
func chainedReturn(opening Money, points []seriesPoint) Percent {
	chain := newReturnChain(opening)
	for _, p := range points {
		chain.add(p)
	}
	return chain.value()
}
