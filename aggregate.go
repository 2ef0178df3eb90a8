package perfolio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jmllr/perfolio/date"
)

// Position is one instrument's latest state inside a CurrentPositions
// result, expressed in the reporting currency.
type Position struct {
	Instrument         string    `json:"instrument"`
	Quantity           Quantity  `json:"quantity"`
	AverageCost        Money     `json:"averageCostPerUnit"`
	InvestedCapital    Money     `json:"investedCapital"`
	MarketValue        Money     `json:"marketValue"`
	GrossPerformance   Money     `json:"grossPerformance"`
	NetPerformance     Money     `json:"netPerformance"`
	TimeWeightedReturn Percent   `json:"timeWeightedReturn"`
	FirstBuyDate       date.Date `json:"firstBuyDate,omitzero"`
}

// CurrentPositions is the portfolio-level aggregate of one computation
// call: every instrument's latest position plus the totals, all in the
// reporting currency.
type CurrentPositions struct {
	Date              date.Date `json:"date"`
	ReportingCurrency string    `json:"reportingCurrency"`
	Strategy          Strategy  `json:"strategy"`

	Positions []Position `json:"positions"`

	TotalInvestedCapital     Money   `json:"totalInvestedCapital"`
	TotalCurrentValue        Money   `json:"totalCurrentValue"`
	GrossPerformance         Money   `json:"grossPerformance"`
	NetPerformance           Money   `json:"netPerformance"`
	NetPerformancePercentage Percent `json:"netPerformancePercentage"`
	TimeWeightedReturn       Percent `json:"timeWeightedReturn"`
	MoneyWeightedReturn      Percent `json:"moneyWeightedReturn,omitempty"`

	// Approximate marks a result whose MWR did not converge and which
	// therefore reports the TWR figures only.
	Approximate bool `json:"approximate,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// PerformancePoint is one day of the aggregate performance time series.
type PerformancePoint struct {
	Date date.Date `json:"date"`
	// Value is the portfolio market value at end of day.
	Value Money `json:"value"`
	// NetFlow is the wallet-signed net activity cash of the step.
	NetFlow Money `json:"netFlow"`
	// CumulativeReturn is the time-weighted return since the window start.
	CumulativeReturn Percent `json:"cumulativeReturn"`
}

// aggregation is the fanned-in result of simulating every instrument.
type aggregation struct {
	in          *Input
	instruments []string
	sims        []*simulation
	opening     Money
	series      []seriesPoint
	warnings    []string
}

// aggregate runs the metrics engine for every instrument the ledger holds.
//
// Per-instrument computation has no cross-instrument dependency, so the
// work fans out over a bounded pool of goroutines and fans back in here.
// Cancellation is cooperative at the instrument boundary: the context is
// checked once per instrument, not once per day.
func aggregate(ctx context.Context, in *Input) (*aggregation, error) {
	instruments := in.Ledger.Instruments()
	sims := make([]*simulation, len(instruments))

	type job struct{ index int }
	type result struct {
		index int
		sim   *simulation
		err   error
	}

	jobs := make(chan job, len(instruments))
	results := make(chan result, len(instruments))

	workers := in.workers()
	if workers > len(instruments) {
		workers = len(instruments)
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{index: j.index, err: err}
					continue
				}
				sim, err := simulate(in, instruments[j.index])
				results <- result{index: j.index, sim: sim, err: err}
			}
		}()
	}
	for i := range instruments {
		jobs <- job{index: i}
	}
	close(jobs)
	wg.Wait()
	close(results)

	var errs []error
	for r := range results {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", instruments[r.index], r.err))
			continue
		}
		sims[r.index] = r.sim
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	agg := &aggregation{in: in, instruments: instruments, sims: sims, opening: M(0, in.ReportingCurrency)}
	for _, sim := range sims {
		agg.opening = agg.opening.Add(sim.openingValue)
		agg.warnings = append(agg.warnings, sim.metrics.Warnings...)
	}
	slices.Sort(agg.warnings)
	agg.warnings = slices.Compact(agg.warnings)

	// Sum the aligned per-instrument series date-by-date. All simulations
	// walk the same window grid, so points line up by index. A degraded
	// instrument already contributes zero; the portfolio point stays valid.
	if len(sims) > 0 {
		n := len(sims[0].points)
		agg.series = make([]seriesPoint, n)
		for i := 0; i < n; i++ {
			p := seriesPoint{
				on:      sims[0].points[i].on,
				value:   M(0, in.ReportingCurrency),
				flow:    M(0, in.ReportingCurrency),
				priceOK: true,
			}
			for _, sim := range sims {
				p.value = p.value.Add(sim.points[i].value)
				p.flow = p.flow.Add(sim.points[i].flow)
			}
			agg.series[i] = p
		}
	}
	return agg, nil
}

// currentPositions folds the aggregation into the portfolio result.
func (agg *aggregation) currentPositions(strategy Strategy) *CurrentPositions {
	in := agg.in
	cp := &CurrentPositions{
		Date:                 in.Window.To,
		ReportingCurrency:    in.ReportingCurrency,
		Strategy:             strategy,
		TotalInvestedCapital: M(0, in.ReportingCurrency),
		TotalCurrentValue:    M(0, in.ReportingCurrency),
		GrossPerformance:     M(0, in.ReportingCurrency),
		NetPerformance:       M(0, in.ReportingCurrency),
		Warnings:             agg.warnings,
	}

	for i, sim := range agg.sims {
		m := sim.metrics
		last := m.States[len(m.States)-1]
		cp.Positions = append(cp.Positions, Position{
			Instrument:         agg.instruments[i],
			Quantity:           last.Quantity,
			AverageCost:        last.AverageCost,
			InvestedCapital:    m.TotalInvestedCapital,
			MarketValue:        last.MarketValue,
			GrossPerformance:   m.GrossPerformance,
			NetPerformance:     m.NetPerformance,
			TimeWeightedReturn: m.TimeWeightedReturn,
			FirstBuyDate:       m.FirstBuyDate,
		})
		cp.TotalInvestedCapital = cp.TotalInvestedCapital.Add(m.TotalInvestedCapital)
		cp.TotalCurrentValue = cp.TotalCurrentValue.Add(last.MarketValue)
		cp.GrossPerformance = cp.GrossPerformance.Add(m.GrossPerformance)
		cp.NetPerformance = cp.NetPerformance.Add(m.NetPerformance)
	}

	if !cp.TotalInvestedCapital.IsZero() {
		ratio, err := cp.NetPerformance.Ratio(cp.TotalInvestedCapital)
		if err == nil {
			cp.NetPerformancePercentage = Percent(100 * ratio.InexactFloat64())
		}
	}
	cp.TimeWeightedReturn = chainedReturn(agg.opening, agg.series)
	return cp
}

// ComputePositions runs the metrics engine and the selected return strategy
// for every instrument and aggregates the results.
//
// When the MWR solver does not converge the call degrades instead of
// failing: it reports the TWR figures only and marks the result
// Approximate, per the strategy's fallback contract.
func ComputePositions(ctx context.Context, in *Input, strategy Strategy) (*CurrentPositions, error) {
	calc, err := NewCalculator(strategy)
	if err != nil {
		return nil, err
	}
	cp, err := calc.OverallPerformance(ctx, in)
	if err != nil && strategy == StrategyMWR && errors.Is(err, ErrNoConvergence) {
		in.Logger.Warn().Err(err).Msg("money-weighted return did not converge, reporting time-weighted only")
		cp, err = twrCalculator{}.OverallPerformance(ctx, in)
		if err != nil {
			return nil, err
		}
		cp.Strategy = StrategyMWR
		cp.Approximate = true
		cp.Warnings = append(cp.Warnings, "money-weighted return did not converge, figures are time-weighted")
	}
	return cp, err
}

// ComputeSymbolMetrics computes the day-by-day metrics of one instrument
// using the selected strategy, with the same MWR fallback as
// ComputePositions.
func ComputeSymbolMetrics(ctx context.Context, in *Input, strategy Strategy, instrument string) (*SymbolMetrics, error) {
	calc, err := NewCalculator(strategy)
	if err != nil {
		return nil, err
	}
	m, err := calc.SymbolMetrics(ctx, in, instrument)
	if err != nil && strategy == StrategyMWR && errors.Is(err, ErrNoConvergence) {
		in.Logger.Warn().Err(err).Str("instrument", instrument).
			Msg("money-weighted return did not converge, reporting time-weighted only")
		m, err = twrCalculator{}.SymbolMetrics(ctx, in, instrument)
		if err != nil {
			return nil, err
		}
		m.Warnings = append(m.Warnings, "money-weighted return did not converge, figures are time-weighted")
	}
	return m, err
}

// PerformanceSeries produces the dated aggregate performance values for the
// window, suitable for charting by the surrounding application. Only the
// numbers are produced here; presentation belongs elsewhere.
func PerformanceSeries(ctx context.Context, in *Input) ([]PerformancePoint, error) {
	agg, err := aggregate(ctx, in)
	if err != nil {
		return nil, err
	}
	chain := newReturnChain(agg.opening)
	points := make([]PerformancePoint, 0, len(agg.series))
	for _, p := range agg.series {
		chain.add(p)
		points = append(points, PerformancePoint{
			Date:             p.on,
			Value:            p.value,
			NetFlow:          p.flow,
			CumulativeReturn: chain.value(),
		})
	}
	return points, nil
}
