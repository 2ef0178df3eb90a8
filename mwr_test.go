package perfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func flows(fs ...[2]float64) []cashFlow {
	var out []cashFlow
	for _, f := range fs {
		out = append(out, cashFlow{years: decimal.NewFromFloat(f[0]), amount: decimal.NewFromFloat(f[1])})
	}
	return out
}

func TestInternalRate_OneYearGain(t *testing.T) {
	// -1000 now, +1500 in one year: exactly 50% annualized.
	r, err := internalRate(flows([2]float64{0, -1000}, [2]float64{1, 1500}))
	if err != nil {
		t.Fatalf("internalRate() error = %v", err)
	}
	if !Percent(100 * r.InexactFloat64()).Equal(50) {
		t.Errorf("rate = %v want 0.5", r)
	}
}

func TestInternalRate_TwoYearDoubling(t *testing.T) {
	// Doubling over two years annualizes to sqrt(2)-1.
	r, err := internalRate(flows([2]float64{0, -1000}, [2]float64{2, 2000}))
	if err != nil {
		t.Fatalf("internalRate() error = %v", err)
	}
	want := 41.4214 // 100 * (sqrt(2) - 1)
	if got := Percent(100 * r.InexactFloat64()); !got.Equal(Percent(want)) {
		t.Errorf("rate = %v want %.4f%%", got, want)
	}
}

func TestInternalRate_Loss(t *testing.T) {
	r, err := internalRate(flows([2]float64{0, -1000}, [2]float64{1, 800}))
	if err != nil {
		t.Fatalf("internalRate() error = %v", err)
	}
	if !Percent(100 * r.InexactFloat64()).Equal(-20) {
		t.Errorf("rate = %v want -0.2", r)
	}
}

func TestInternalRate_NoElapsedTime(t *testing.T) {
	// Same-day in and out: there is no time over which to earn a rate.
	r, err := internalRate(flows([2]float64{0, -1000}, [2]float64{0, 1000}))
	if err != nil {
		t.Fatalf("internalRate() error = %v", err)
	}
	if !r.IsZero() {
		t.Errorf("rate = %v want 0", r)
	}
}

func TestInternalRate_NoFlows(t *testing.T) {
	r, err := internalRate(nil)
	if err != nil {
		t.Fatalf("internalRate() error = %v", err)
	}
	if !r.IsZero() {
		t.Errorf("rate = %v want 0", r)
	}
}

func TestInternalRate_NoConvergence(t *testing.T) {
	// All flows negative: NPV never crosses zero inside the solver bounds.
	_, err := internalRate(flows([2]float64{0, -1000}, [2]float64{1, -1000}))
	if !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("error = %v want ErrNoConvergence", err)
	}
}

func TestMWR_MatchesTWROverExactYearWithoutInterimFlows(t *testing.T) {
	// One buy at the window start and no further flows: over a 365-day
	// window the annualized money-weighted return equals the time-weighted
	// return.
	in := newTestInput(t,
		[]Activity{buy("2023-01-01", "AAPL", 10, 100)},
		[]PricePoint{price("2023-01-01", "AAPL", 100), price("2023-12-31", "AAPL", 150)},
		nil,
		window("2023-01-01", "2024-01-01"))

	m, err := ComputeSymbolMetrics(context.Background(), in, StrategyMWR, "AAPL")
	if err != nil {
		t.Fatalf("ComputeSymbolMetrics() error = %v", err)
	}
	if !m.MoneyWeightedReturn.Equal(50) {
		t.Errorf("MWR = %v want 50%%", m.MoneyWeightedReturn)
	}
	if !m.TimeWeightedReturn.Equal(50) {
		t.Errorf("TWR = %v want 50%%", m.TimeWeightedReturn)
	}
}

func TestMWR_DivergesFromTWRWithInterimFlow(t *testing.T) {
	// Doubling the position after the price already rose: the second
	// tranche only earns the flat second half, dragging MWR below TWR.
	in := newTestInput(t,
		[]Activity{
			buy("2023-01-01", "AAPL", 10, 100),
			buy("2023-07-01", "AAPL", 10, 120),
		},
		[]PricePoint{price("2023-01-01", "AAPL", 100), price("2023-07-01", "AAPL", 120)},
		nil,
		window("2023-01-01", "2024-01-01"))

	m, err := ComputeSymbolMetrics(context.Background(), in, StrategyMWR, "AAPL")
	if err != nil {
		t.Fatalf("ComputeSymbolMetrics() error = %v", err)
	}
	if !m.TimeWeightedReturn.Equal(20) {
		t.Errorf("TWR = %v want 20%%", m.TimeWeightedReturn)
	}
	mwr := float64(m.MoneyWeightedReturn)
	if mwr <= 10 || mwr >= 15 {
		t.Errorf("MWR = %v want between 10%% and 15%%", m.MoneyWeightedReturn)
	}
	if m.MoneyWeightedReturn.Equal(m.TimeWeightedReturn) {
		t.Errorf("MWR %v should differ from TWR %v", m.MoneyWeightedReturn, m.TimeWeightedReturn)
	}
}
