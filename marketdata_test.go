package perfolio

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceAsOf_ForwardCarry(t *testing.T) {
	x := NewMarketDataIndex([]PricePoint{
		price("2023-06-01", "AAPL", 100),
		price("2023-06-05", "AAPL", 105),
	}, nil)

	// A gap inherits the most recent prior value, never an interpolation.
	p, err := x.PriceAsOf("AAPL", day("2023-06-03"))
	if err != nil {
		t.Fatalf("PriceAsOf() error = %v", err)
	}
	if !p.Equal(usd(100)) {
		t.Errorf("PriceAsOf(day 3) = %v want 100 USD", p)
	}

	// After the last point the latest value carries forward.
	p, err = x.PriceAsOf("AAPL", day("2023-07-01"))
	if err != nil {
		t.Fatalf("PriceAsOf() error = %v", err)
	}
	if !p.Equal(usd(105)) {
		t.Errorf("PriceAsOf(next month) = %v want 105 USD", p)
	}
}

func TestPriceAsOf_NoEarlierValue(t *testing.T) {
	x := NewMarketDataIndex([]PricePoint{price("2023-06-01", "AAPL", 100)}, nil)
	if _, err := x.PriceAsOf("AAPL", day("2023-05-31")); !errors.Is(err, ErrNoMarketData) {
		t.Errorf("PriceAsOf(before first) error = %v want ErrNoMarketData", err)
	}
	if _, err := x.PriceAsOf("MSFT", day("2023-06-01")); !errors.Is(err, ErrNoMarketData) {
		t.Errorf("PriceAsOf(unknown) error = %v want ErrNoMarketData", err)
	}
}

func TestRateAsOf_Identity(t *testing.T) {
	x := NewMarketDataIndex(nil, nil)
	r, err := x.RateAsOf("USD", "USD", day("2023-01-01"))
	if err != nil {
		t.Fatalf("RateAsOf() error = %v", err)
	}
	if !r.Equal(decimal.NewFromInt(1)) {
		t.Errorf("RateAsOf(USD, USD) = %v want 1", r)
	}
}

func TestRateAsOf_InversePairFallback(t *testing.T) {
	x := NewMarketDataIndex(nil, []ExchangeRate{rate("2023-01-01", "EURUSD", 1.25)})
	r, err := x.RateAsOf("USD", "EUR", day("2023-01-02"))
	if err != nil {
		t.Fatalf("RateAsOf() error = %v", err)
	}
	if !r.Equal(decimal.NewFromFloat(0.8)) {
		t.Errorf("RateAsOf(USD, EUR) = %v want 0.8", r)
	}
}

func TestConvert(t *testing.T) {
	x := NewMarketDataIndex(nil, []ExchangeRate{rate("2023-01-01", "EURUSD", 1.1)})
	got, err := x.Convert(M(100, "EUR"), "USD", day("2023-03-01"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !got.Equal(usd(110)) {
		t.Errorf("Convert(100 EUR) = %v want 110 USD", got)
	}

	// Missing rate surfaces ErrNoMarketData for the caller to absorb.
	if _, err := x.Convert(M(100, "CHF"), "USD", day("2023-03-01")); !errors.Is(err, ErrNoMarketData) {
		t.Errorf("Convert(CHF) error = %v want ErrNoMarketData", err)
	}
}
