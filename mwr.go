package perfolio

import (
	"context"
	"fmt"

	"github.com/jmllr/perfolio/date"
	"github.com/shopspring/decimal"
)

// mwrCalculator implements the money-weighted return strategy: the internal
// rate of return r at which the discounted sum of all cash flows, with the
// final market value as a terminal inflow, equals zero. Unlike TWR, it
// weights returns by how much capital was at work and for how long.
type mwrCalculator struct{}

func (mwrCalculator) SymbolMetrics(ctx context.Context, in *Input, instrument string) (*SymbolMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sim, err := simulate(in, instrument)
	if err != nil {
		return nil, err
	}
	rate, err := internalRate(flowsOf(sim.openingValue, sim.points, in.Window))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", instrument, err)
	}
	sim.metrics.MoneyWeightedReturn = Percent(100 * rate.InexactFloat64())
	return sim.metrics, nil
}

func (mwrCalculator) OverallPerformance(ctx context.Context, in *Input) (*CurrentPositions, error) {
	agg, err := aggregate(ctx, in)
	if err != nil {
		return nil, err
	}
	rate, err := internalRate(flowsOf(agg.opening, agg.series, in.Window))
	if err != nil {
		return nil, err
	}
	cp := agg.currentPositions(StrategyMWR)
	cp.MoneyWeightedReturn = Percent(100 * rate.InexactFloat64())
	return cp, nil
}

// cashFlow is one dated flow of the IRR equation, with its time expressed
// in ACT/365 years since the window start.
type cashFlow struct {
	years  decimal.Decimal
	amount decimal.Decimal
}

// flowsOf assembles the IRR cash flows of a simulated series: the opening
// value as an initial outflow, each step's wallet-signed activity flow, and
// the final market value as a terminal inflow.
func flowsOf(opening Money, points []seriesPoint, window date.Range) []cashFlow {
	yearDays := decimal.NewFromInt(365)
	at := func(on date.Date) decimal.Decimal {
		return decimal.NewFromInt(int64(on.Sub(window.From))).Div(yearDays)
	}

	var flows []cashFlow
	if !opening.IsZero() {
		flows = append(flows, cashFlow{years: decimal.Zero, amount: opening.Amount().Neg()})
	}
	for _, p := range points {
		if p.flow.IsZero() {
			continue
		}
		flows = append(flows, cashFlow{years: at(p.on), amount: p.flow.Amount()})
	}
	if len(points) > 0 {
		terminal := points[len(points)-1]
		if !terminal.value.IsZero() {
			flows = append(flows, cashFlow{years: at(terminal.on), amount: terminal.value.Amount()})
		}
	}
	return flows
}

// Solver bounds: -99.99% to +10,000% annualized, a fixed iteration cap and
// a decimal convergence tolerance.
var (
	irrLower = decimal.NewFromFloat(-0.9999)
	irrUpper = decimal.NewFromInt(100)
)

const (
	irrNewtonCap    = 50
	irrBisectionCap = 200
	irrPrecision    = 20
)

// internalRate solves NPV(r) = 0 by Newton's method, falling back to
// bisection when Newton leaves the bounded domain or cycles. Exceeding both
// iteration caps without convergence fails with ErrNoConvergence; the
// caller then falls back to TWR-only reporting.
func internalRate(flows []cashFlow) (decimal.Decimal, error) {
	if len(flows) == 0 {
		return decimal.Zero, nil
	}

	// Convergence is measured against the flow magnitudes.
	scale := decimal.Zero
	allImmediate := true
	for _, f := range flows {
		scale = scale.Add(f.amount.Abs())
		if !f.years.IsZero() {
			allImmediate = false
		}
	}
	if scale.IsZero() || allImmediate {
		// Nothing at work, or no time elapsed: no rate to solve for.
		return decimal.Zero, nil
	}
	tolerance := scale.Mul(decimal.New(1, -10))

	npv := func(r decimal.Decimal) (decimal.Decimal, error) {
		one := decimal.NewFromInt(1)
		base := one.Add(r)
		total := decimal.Zero
		for _, f := range flows {
			if f.years.IsZero() {
				total = total.Add(f.amount)
				continue
			}
			discount, err := base.PowWithPrecision(f.years.Neg(), irrPrecision)
			if err != nil {
				return decimal.Zero, fmt.Errorf("%w: %v", ErrNoConvergence, err)
			}
			total = total.Add(f.amount.Mul(discount))
		}
		return total, nil
	}
	derivative := func(r decimal.Decimal) (decimal.Decimal, error) {
		one := decimal.NewFromInt(1)
		base := one.Add(r)
		total := decimal.Zero
		for _, f := range flows {
			if f.years.IsZero() {
				continue
			}
			discount, err := base.PowWithPrecision(f.years.Neg().Sub(one), irrPrecision)
			if err != nil {
				return decimal.Zero, fmt.Errorf("%w: %v", ErrNoConvergence, err)
			}
			total = total.Add(f.amount.Mul(f.years.Neg()).Mul(discount))
		}
		return total, nil
	}

	// Newton's method from a neutral starting guess.
	r := decimal.NewFromFloat(0.05)
	for i := 0; i < irrNewtonCap; i++ {
		value, err := npv(r)
		if err != nil {
			break
		}
		if value.Abs().LessThanOrEqual(tolerance) {
			return r, nil
		}
		slope, err := derivative(r)
		if err != nil || slope.IsZero() {
			break
		}
		next := r.Sub(value.Div(slope))
		if next.LessThan(irrLower) || next.GreaterThan(irrUpper) {
			break
		}
		if next.Sub(r).Abs().LessThanOrEqual(decimal.New(1, -12)) {
			return next, nil
		}
		r = next
	}

	// Bisection fallback over the bounded domain.
	lo, hi := irrLower, irrUpper
	flo, err := npv(lo)
	if err != nil {
		return decimal.Zero, err
	}
	fhi, err := npv(hi)
	if err != nil {
		return decimal.Zero, err
	}
	if flo.Sign() == fhi.Sign() {
		return decimal.Zero, fmt.Errorf("%w: no sign change in [%s, %s]", ErrNoConvergence, irrLower, irrUpper)
	}
	for i := 0; i < irrBisectionCap; i++ {
		mid := lo.Add(hi).Div(decimal.NewFromInt(2))
		fmid, err := npv(mid)
		if err != nil {
			return decimal.Zero, err
		}
		if fmid.Abs().LessThanOrEqual(tolerance) || hi.Sub(lo).Abs().LessThanOrEqual(decimal.New(1, -12)) {
			return mid, nil
		}
		if fmid.Sign() == flo.Sign() {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %d bisection iterations exhausted", ErrNoConvergence, irrBisectionCap)
}
