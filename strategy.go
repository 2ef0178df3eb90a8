package perfolio

import (
	"context"
	"fmt"
	"runtime"

	"github.com/jmllr/perfolio/date"
	"github.com/rs/zerolog"
)

// Strategy selects one of the two return algorithms. Callers pick one per
// computation; results from both are never mixed in one report.
type Strategy string

const (
	// StrategyTWR chains sub-period returns, immune to the size and timing
	// of deposits: pure market performance.
	StrategyTWR Strategy = "twr"
	// StrategyMWR solves the internal rate of return on cash flows,
	// weighting returns by how much money was at work and for how long.
	StrategyMWR Strategy = "mwr"
)

// ParseStrategy parses a string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch v := Strategy(s); v {
	case StrategyTWR, StrategyMWR:
		return v, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want twr or mwr)", s)
	}
}

// Input is the read-only context of one computation call: the validated
// ledger, the market data index, and the requested window. Strategies hold
// no state of their own; every call receives its context explicitly.
type Input struct {
	Ledger            *Ledger
	Market            *MarketDataIndex
	Window            date.Range
	Step              int
	Mode              Mode
	ReportingCurrency string

	// Workers bounds the per-instrument fan-out. Zero means GOMAXPROCS.
	Workers int
	// Logger receives degradation warnings. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// NewInput validates and assembles a computation context.
//
// A zero window is widened to cover all activity: From defaults to the first
// activity date, To to today.
func NewInput(activities []Activity, market *MarketDataIndex, window date.Range, reportingCurrency string) (*Input, error) {
	if err := ValidateCurrency(reportingCurrency); err != nil {
		return nil, fmt.Errorf("invalid reporting currency: %w", err)
	}
	ledger, err := NewLedger(activities)
	if err != nil {
		return nil, err
	}
	if window.From.IsZero() {
		window.From = ledger.FirstActivityDate()
	}
	if window.To.IsZero() {
		window.To = date.Today()
	}
	return &Input{
		Ledger:            ledger,
		Market:            market,
		Window:            window,
		Step:              1,
		Mode:              ModeFull,
		ReportingCurrency: reportingCurrency,
		Logger:            zerolog.Nop(),
	}, nil
}

// workers returns the effective fan-out width.
func (in *Input) workers() int {
	if in.Workers > 0 {
		return in.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Calculator is the strategy interface shared by the TWR and MWR variants.
// Both operations are pure functions of the input context.
type Calculator interface {
	// OverallPerformance computes every held instrument's metrics and
	// aggregates them into portfolio-level current positions.
	OverallPerformance(ctx context.Context, in *Input) (*CurrentPositions, error)
	// SymbolMetrics computes the day-by-day metrics of one instrument.
	SymbolMetrics(ctx context.Context, in *Input, instrument string) (*SymbolMetrics, error)
}

// NewCalculator returns the calculator implementing the given strategy.
func NewCalculator(s Strategy) (Calculator, error) {
	switch s {
	case StrategyTWR:
		return twrCalculator{}, nil
	case StrategyMWR:
		return mwrCalculator{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", s)
	}
}
