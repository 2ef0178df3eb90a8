package perfolio

import (
	"fmt"

	"github.com/jmllr/perfolio/date"
)

// ActivityType enumerates the kinds of facts the engine consumes.
type ActivityType string

const (
	// Buy acquires units of an instrument against cash.
	Buy ActivityType = "BUY"
	// Sell disposes of units of an instrument for cash.
	Sell ActivityType = "SELL"
	// Dividend is income distributed by a held instrument.
	Dividend ActivityType = "DIVIDEND"
	// Interest is income earned on a cash or bond-like holding.
	Interest ActivityType = "INTEREST"
	// Fee is a standalone cost, e.g. a custody or order fee.
	Fee ActivityType = "FEE"
	// Item is a manual, non-market holding entry. It moves cash but never
	// quantity or cost basis.
	Item ActivityType = "ITEM"
)

// ParseActivityType parses a string into an ActivityType.
func ParseActivityType(s string) (ActivityType, error) {
	switch t := ActivityType(s); t {
	case Buy, Sell, Dividend, Interest, Fee, Item:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidActivity, s)
	}
}

// Activity is one immutable fact supplied by the order/import subsystem.
// The engine consumes activities read-only.
type Activity struct {
	Type       ActivityType
	Date       date.Date
	Instrument string
	Account    string
	Quantity   Quantity
	UnitPrice  Money // per unit, in the activity currency
	Fee        Money // always >= 0, in the activity currency
}

// Currency returns the currency the activity settled in.
func (a Activity) Currency() string { return a.UnitPrice.Currency() }

// GrossAmount returns quantity * unit price.
func (a Activity) GrossAmount() Money { return a.UnitPrice.Mul(a.Quantity) }

// TotalCost returns the gross amount plus fee.
func (a Activity) TotalCost() Money { return a.GrossAmount().Add(a.Fee) }

// CashFlow returns the signed cash the activity moved: negative for money
// leaving the wallet (buys, fees, items), positive for money coming in
// (sells, dividends, interest).
func (a Activity) CashFlow() Money {
	switch a.Type {
	case Buy, Item:
		return a.TotalCost().Neg()
	case Sell, Dividend, Interest:
		return a.GrossAmount().Sub(a.Fee)
	case Fee:
		return a.TotalCost().Neg()
	default:
		return Money{}
	}
}

// Validate checks the activity's shape. The upstream subsystem owns
// semantic validation (account ownership, deduplication); the engine only
// rejects records it cannot compute from.
func (a Activity) Validate() error {
	if _, err := ParseActivityType(string(a.Type)); err != nil {
		return err
	}
	if a.Instrument == "" {
		return fmt.Errorf("%w: missing instrument on %s %s", ErrInvalidActivity, a.Type, a.Date)
	}
	if a.Date.IsZero() {
		return fmt.Errorf("%w: missing date on %s %s", ErrInvalidActivity, a.Type, a.Instrument)
	}
	switch a.Type {
	case Buy, Sell, Dividend:
		if !a.Quantity.IsPositive() {
			return fmt.Errorf("%w: %s of %s on %s requires a positive quantity, got %s",
				ErrInvalidActivity, a.Type, a.Instrument, a.Date, a.Quantity)
		}
	default:
		if a.Quantity.IsNegative() {
			return fmt.Errorf("%w: %s of %s on %s has negative quantity %s",
				ErrInvalidActivity, a.Type, a.Instrument, a.Date, a.Quantity)
		}
	}
	if a.Fee.IsNegative() {
		return fmt.Errorf("%w: %s of %s on %s has negative fee %s",
			ErrInvalidActivity, a.Type, a.Instrument, a.Date, a.Fee)
	}
	if a.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: %s of %s on %s has negative unit price %s",
			ErrInvalidActivity, a.Type, a.Instrument, a.Date, a.UnitPrice)
	}
	return nil
}

func (a Activity) String() string {
	return fmt.Sprintf("%s %s %s x %s @ %s", a.Date, a.Type, a.Instrument, a.Quantity, a.UnitPrice)
}
