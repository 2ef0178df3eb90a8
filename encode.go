package perfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jmllr/perfolio/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// activityLine is the JSONL wire shape of one activity: flat fields, bare
// decimal amounts, one currency for unit price and fee.
type activityLine struct {
	Type       ActivityType    `json:"type"`
	Date       date.Date       `json:"date"`
	Instrument string          `json:"instrument"`
	Account    string          `json:"account,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Fee        decimal.Decimal `json:"fee"`
	Currency   string          `json:"currency"`
}

// MarshalJSON encodes the activity in its flat JSONL shape.
func (a Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal(activityLine{
		Type:       a.Type,
		Date:       a.Date,
		Instrument: a.Instrument,
		Account:    a.Account,
		Quantity:   a.Quantity.Decimal(),
		UnitPrice:  a.UnitPrice.Amount(),
		Fee:        a.Fee.Amount(),
		Currency:   a.Currency(),
	})
}

// UnmarshalJSON decodes the flat JSONL shape back into an activity.
func (a *Activity) UnmarshalJSON(b []byte) error {
	var line activityLine
	if err := json.Unmarshal(b, &line); err != nil {
		return err
	}
	*a = Activity{
		Type:       line.Type,
		Date:       line.Date,
		Instrument: line.Instrument,
		Account:    line.Account,
		Quantity:   Q(line.Quantity),
		UnitPrice:  M(line.UnitPrice, line.Currency),
		Fee:        M(line.Fee, line.Currency),
	}
	return nil
}

// DecodeActivities reads activities from a stream of JSONL data, one
// activity object per line. Empty lines are skipped.
func DecodeActivities(r io.Reader) ([]Activity, error) {
	var activities []Activity
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var a Activity
		if err := json.Unmarshal(lineBytes, &a); err != nil {
			return nil, fmt.Errorf("could not decode activity line %q: %w", string(lineBytes), err)
		}
		activities = append(activities, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}

// EncodeActivities writes activities as JSONL, one object per line.
func EncodeActivities(w io.Writer, activities []Activity) error {
	enc := json.NewEncoder(w)
	for _, a := range activities {
		if err := enc.Encode(a); err != nil {
			return err
		}
	}
	return nil
}

// marketLine is the JSONL wire shape of one market data point. The kind
// field discriminates prices from rates.
type marketLine struct {
	Kind       string          `json:"kind"`
	Date       date.Date       `json:"date"`
	Instrument string          `json:"instrument,omitempty"`
	Price      decimal.Decimal `json:"price,omitempty"`
	Currency   string          `json:"currency,omitempty"`
	Pair       string          `json:"pair,omitempty"`
	Rate       decimal.Decimal `json:"rate,omitempty"`
}

// DecodeMarketData reads price and rate points from a stream of JSONL data
// and builds the index.
func DecodeMarketData(r io.Reader) (*MarketDataIndex, error) {
	var prices []PricePoint
	var rates []ExchangeRate
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var line marketLine
		if err := json.Unmarshal(lineBytes, &line); err != nil {
			return nil, fmt.Errorf("could not decode market line %q: %w", string(lineBytes), err)
		}
		switch line.Kind {
		case "price":
			prices = append(prices, PricePoint{
				Instrument: line.Instrument,
				Date:       line.Date,
				Price:      line.Price,
				Currency:   line.Currency,
			})
		case "rate":
			rates = append(rates, ExchangeRate{
				Pair: line.Pair,
				Date: line.Date,
				Rate: line.Rate,
			})
		default:
			return nil, fmt.Errorf("unknown market data kind %q in line %q", line.Kind, string(lineBytes))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewMarketDataIndex(prices, rates), nil
}
