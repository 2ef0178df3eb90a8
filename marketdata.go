package perfolio

import (
	"fmt"

	"github.com/jmllr/perfolio/date"
	"github.com/shopspring/decimal"
)

// PricePoint is one known end-of-day price for an instrument.
type PricePoint struct {
	Instrument string
	Date       date.Date
	Price      decimal.Decimal
	Currency   string
}

// ExchangeRate is one known end-of-day rate for a currency pair.
// The pair is the concatenation base+quote: "USDEUR" is the price of
// 1 USD expressed in EUR.
type ExchangeRate struct {
	Pair string
	Date date.Date
	Rate decimal.Decimal
}

// MarketDataIndex answers (instrument, date) -> price and
// (currency pair, date) -> rate lookups over already-fetched collections.
//
// A lookup on a date with no point returns the value at the closest earlier
// available date (forward-carry), never an interpolation or a back-fill.
// The index is built once and is safe for concurrent reads afterwards.
type MarketDataIndex struct {
	prices     map[string]*date.History[decimal.Decimal]
	currencies map[string]string // instrument -> quote currency
	rates      map[string]*date.History[decimal.Decimal]
}

// NewMarketDataIndex builds the index from price and rate collections.
func NewMarketDataIndex(prices []PricePoint, rates []ExchangeRate) *MarketDataIndex {
	x := &MarketDataIndex{
		prices:     make(map[string]*date.History[decimal.Decimal]),
		currencies: make(map[string]string),
		rates:      make(map[string]*date.History[decimal.Decimal]),
	}
	for _, p := range prices {
		h, ok := x.prices[p.Instrument]
		if !ok {
			h = new(date.History[decimal.Decimal])
			x.prices[p.Instrument] = h
		}
		h.Append(p.Date, p.Price)
		x.currencies[p.Instrument] = p.Currency
	}
	for _, r := range rates {
		h, ok := x.rates[r.Pair]
		if !ok {
			h = new(date.History[decimal.Decimal])
			x.rates[r.Pair] = h
		}
		h.Append(r.Date, r.Rate)
	}
	return x
}

// Has reports whether any price is known for the instrument.
func (x *MarketDataIndex) Has(instrument string) bool {
	h, ok := x.prices[instrument]
	return ok && h.Len() > 0
}

// Currency returns the quote currency of the instrument's price series.
func (x *MarketDataIndex) Currency(instrument string) string {
	return x.currencies[instrument]
}

// PriceAsOf returns the instrument's price on the given day, carrying the
// most recent earlier value forward. When no earlier value exists at all it
// fails with ErrNoMarketData; the metrics engine treats that instrument's
// contribution as zero for the day instead of aborting the computation.
func (x *MarketDataIndex) PriceAsOf(instrument string, on date.Date) (Money, error) {
	h, ok := x.prices[instrument]
	if !ok {
		return Money{}, fmt.Errorf("%w: no price series for %q", ErrNoMarketData, instrument)
	}
	v, ok := h.ValueAsOf(on)
	if !ok {
		return Money{}, fmt.Errorf("%w: no price for %q on or before %s", ErrNoMarketData, instrument, on)
	}
	return M(v, x.currencies[instrument]), nil
}

// RateAsOf returns the rate converting the 'from' currency into the 'to'
// currency on the given day, with the same forward-carry policy as prices.
// The identity rate is always 1. When the direct pair is unknown the
// inverse pair is tried and inverted.
func (x *MarketDataIndex) RateAsOf(from, to string, on date.Date) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if h, ok := x.rates[from+to]; ok {
		if v, ok := h.ValueAsOf(on); ok {
			return v, nil
		}
	}
	// Inverse pair fallback.
	if h, ok := x.rates[to+from]; ok {
		if v, ok := h.ValueAsOf(on); ok {
			if v.IsZero() {
				return decimal.Zero, fmt.Errorf("%w: inverse rate %s%s is zero on %s", ErrArithmetic, to, from, on)
			}
			return decimal.NewFromInt(1).Div(v), nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: no rate for %s%s on or before %s", ErrNoMarketData, from, to, on)
}

// Convert expresses the money value in the target currency using the rate
// valid on the given day.
func (x *MarketDataIndex) Convert(m Money, to string, on date.Date) (Money, error) {
	if m.Currency() == to || m.Currency() == "" || m.IsZero() {
		return M(m.Amount(), to), nil
	}
	rate, err := x.RateAsOf(m.Currency(), to, on)
	if err != nil {
		return Money{}, err
	}
	return M(m.Amount().Mul(rate), to), nil
}
