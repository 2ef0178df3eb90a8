package perfolio

import (
	"testing"

	"github.com/shopspring/decimal"
)

func point(on string, value, flow float64, ok bool) seriesPoint {
	return seriesPoint{on: day(on), value: usd(value), flow: usd(flow), priceOK: ok}
}

func TestChainedReturn_SingleHolding(t *testing.T) {
	got := chainedReturn(usd(1000), []seriesPoint{
		point("2023-01-01", 1100, 0, true),
		point("2023-01-02", 1210, 0, true),
	})
	if !got.Equal(21) {
		t.Errorf("chainedReturn() = %v want 21%%", got)
	}
}

func TestChainedReturn_FlowNeutralized(t *testing.T) {
	// A mid-period buy doubles the value but must not register as return.
	got := chainedReturn(usd(1000), []seriesPoint{
		point("2023-01-01", 1100, 0, true),
		point("2023-01-02", 2200, -1100, true),
		point("2023-01-03", 2420, 0, true),
	})
	if !got.Equal(21) {
		t.Errorf("chainedReturn() = %v want 21%%", got)
	}
}

func TestChainedReturn_ZeroOpeningSkipsFirstPeriod(t *testing.T) {
	// An opening value of zero (nothing held before the window) makes the
	// first funded day the measurement basis instead of a division by zero.
	got := chainedReturn(usd(0), []seriesPoint{
		point("2023-01-01", 1000, -1000, true),
		point("2023-01-02", 1200, 0, true),
	})
	if !got.Equal(20) {
		t.Errorf("chainedReturn() = %v want 20%%", got)
	}
}

func TestChainedReturn_BridgesDegradedDays(t *testing.T) {
	// Days without a trustworthy value accumulate their flows until the
	// next valid value, instead of contributing bogus sub-periods.
	got := chainedReturn(usd(1000), []seriesPoint{
		point("2023-01-01", 1100, 0, true),
		point("2023-01-02", 0, -500, false),
		point("2023-01-03", 0, -500, false),
		point("2023-01-04", 2210, 0, true),
	})
	// (2210 - 1000) / 1100 = 1.1 on top of the first 1.1.
	if !got.Equal(21) {
		t.Errorf("chainedReturn() = %v want 21%%", got)
	}
}

func TestChainedReturn_Loss(t *testing.T) {
	got := chainedReturn(usd(1000), []seriesPoint{point("2023-01-01", 800, 0, true)})
	if !got.Equal(-20) {
		t.Errorf("chainedReturn() = %v want -20%%", got)
	}
}

func TestChainedReturn_Empty(t *testing.T) {
	if got := chainedReturn(usd(0), nil); !got.Equal(0) {
		t.Errorf("chainedReturn(empty) = %v want 0%%", got)
	}
}

func TestPercentOf(t *testing.T) {
	if got := percentOf(decimal.NewFromFloat(1.05)); !got.Equal(5) {
		t.Errorf("percentOf(1.05) = %v want 5%%", got)
	}
	if got := percentOf(decimal.NewFromFloat(0.95)); !got.Equal(-5) {
		t.Errorf("percentOf(0.95) = %v want -5%%", got)
	}
}
