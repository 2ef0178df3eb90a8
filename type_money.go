package perfolio

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents an exact monetary value in a given currency.
// All arithmetic is arbitrary-precision decimal; binary floating point only
// appears at the display boundary (see Percent).
type Money struct {
	value decimal.Decimal
	cur   string
}

// M builds a Money from any numeric value and a currency code.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// ValidateCurrency reports whether the code names a known ISO currency.
func ValidateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}

// currency returns the full currency metadata, never nil.
func (m Money) currency() money.Currency {
	return *money.New(0, m.cur).Currency()
}

// Display formats the value with its currency symbol and standard fraction.
func (m Money) Display() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// String returns the plain decimal representation with the currency code.
func (m Money) String() string {
	if m.cur == "" {
		return m.value.String()
	}
	return m.value.String() + " " + m.cur
}

func (m Money) Currency() string             { return m.cur }
func (m Money) Amount() decimal.Decimal      { return m.value }
func (m Money) Equal(n Money) bool           { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsPositive() bool             { return m.value.IsPositive() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool        { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool     { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                   { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money         { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) MulRate(r decimal.Decimal) Money {
	return Money{value: m.value.Mul(r), cur: m.cur}
}

// Add returns m+n. The currencies must agree; the "" currency is weak and
// adopts the other operand's.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }

// Sub returns m-n with the same currency rules as Add.
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// Div returns the per-unit value m/q.
func (m Money) Div(q Quantity) (Money, error) {
	if q.IsZero() {
		return Money{}, fmt.Errorf("%w: %s / 0 units", ErrArithmetic, m)
	}
	return Money{value: m.value.Div(q.value), cur: m.cur}, nil
}

// Ratio returns the dimensionless quotient m/n of two values in the same currency.
func (m Money) Ratio(n Money) (decimal.Decimal, error) {
	if n.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: %s / %s", ErrArithmetic, m, n)
	}
	cur(m, n) // assert same currency
	return m.value.Div(n.value), nil
}

func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + " != " + b.cur)
	}
	return a.cur
}

// MarshalJSON encodes the bare decimal amount. The currency travels in a
// sibling field of the enclosing object (see encode.go).
func (m Money) MarshalJSON() ([]byte, error) { return m.value.MarshalJSON() }

// UnmarshalJSON decodes a bare decimal amount with no currency.
func (m *Money) UnmarshalJSON(b []byte) error { return m.value.UnmarshalJSON(b) }
