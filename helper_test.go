package perfolio

import (
	"testing"

	"github.com/jmllr/perfolio/date"
)

// Scenario builders shared by the engine tests.

func day(s string) date.Date { return date.MustParse(s) }

func window(from, to string) date.Range { return date.NewRange(day(from), day(to)) }

func usd(v float64) Money { return M(v, "USD") }

func buy(on, instrument string, quantity, unitPrice float64) Activity {
	return Activity{Type: Buy, Date: day(on), Instrument: instrument, Account: "main",
		Quantity: Q(quantity), UnitPrice: usd(unitPrice), Fee: usd(0)}
}

func sell(on, instrument string, quantity, unitPrice float64) Activity {
	return Activity{Type: Sell, Date: day(on), Instrument: instrument, Account: "main",
		Quantity: Q(quantity), UnitPrice: usd(unitPrice), Fee: usd(0)}
}

func dividend(on, instrument string, quantity, perShare float64) Activity {
	return Activity{Type: Dividend, Date: day(on), Instrument: instrument, Account: "main",
		Quantity: Q(quantity), UnitPrice: usd(perShare), Fee: usd(0)}
}

func price(on, instrument string, value float64) PricePoint {
	return PricePoint{Instrument: instrument, Date: day(on), Price: newDecimal(value), Currency: "USD"}
}

func rate(on, pair string, value float64) ExchangeRate {
	return ExchangeRate{Pair: pair, Date: day(on), Rate: newDecimal(value)}
}

// newTestInput assembles an Input over the given scenario, reporting in USD.
func newTestInput(t *testing.T, activities []Activity, prices []PricePoint, rates []ExchangeRate, w date.Range) *Input {
	t.Helper()
	in, err := NewInput(activities, NewMarketDataIndex(prices, rates), w, "USD")
	if err != nil {
		t.Fatalf("NewInput() error = %v", err)
	}
	return in
}
