package perfolio

import (
	"bytes"
	"strings"
	"testing"
)

const activitiesJSONL = `{"type":"BUY","date":"2023-01-01","instrument":"AAPL","account":"main","quantity":10,"unitPrice":100.5,"fee":1.5,"currency":"USD"}
{"type":"DIVIDEND","date":"2023-06-01","instrument":"AAPL","account":"main","quantity":10,"unitPrice":0.25,"fee":0,"currency":"USD"}
`

func TestDecodeActivities(t *testing.T) {
	activities, err := DecodeActivities(strings.NewReader(activitiesJSONL))
	if err != nil {
		t.Fatalf("DecodeActivities() error = %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("len = %d want 2", len(activities))
	}
	a := activities[0]
	if a.Type != Buy || a.Instrument != "AAPL" || a.Date != day("2023-01-01") {
		t.Errorf("unexpected first activity: %+v", a)
	}
	if !a.Quantity.Equal(Q(10)) {
		t.Errorf("quantity = %v want 10", a.Quantity)
	}
	if !a.UnitPrice.Equal(usd(100.5)) {
		t.Errorf("unit price = %v want 100.5 USD", a.UnitPrice)
	}
	if !a.Fee.Equal(usd(1.5)) {
		t.Errorf("fee = %v want 1.5 USD", a.Fee)
	}
}

func TestEncodeActivities_RoundTrip(t *testing.T) {
	original := []Activity{
		buy("2023-01-01", "AAPL", 10, 100.5),
		dividend("2023-06-01", "AAPL", 10, 0.25),
	}
	var buf bytes.Buffer
	if err := EncodeActivities(&buf, original); err != nil {
		t.Fatalf("EncodeActivities() error = %v", err)
	}
	// Decimal amounts must encode bare, not as strings.
	if strings.Contains(buf.String(), `"100.5"`) {
		t.Errorf("amounts encoded as strings:\n%s", buf.String())
	}
	decoded, err := DecodeActivities(&buf)
	if err != nil {
		t.Fatalf("DecodeActivities() error = %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("len = %d want %d", len(decoded), len(original))
	}
	for i := range original {
		if decoded[i].Type != original[i].Type ||
			decoded[i].Date != original[i].Date ||
			!decoded[i].Quantity.Equal(original[i].Quantity) ||
			!decoded[i].UnitPrice.Equal(original[i].UnitPrice) {
			t.Errorf("activity %d: got %+v want %+v", i, decoded[i], original[i])
		}
	}
}

func TestDecodeActivities_BadLine(t *testing.T) {
	if _, err := DecodeActivities(strings.NewReader("{not json}\n")); err == nil {
		t.Fatalf("expected a decode error")
	}
}

const marketJSONL = `{"kind":"price","date":"2023-01-01","instrument":"AAPL","price":100.25,"currency":"USD"}
{"kind":"rate","date":"2023-01-01","pair":"EURUSD","rate":1.0812}

{"kind":"price","date":"2023-01-02","instrument":"AAPL","price":101,"currency":"USD"}
`

func TestDecodeMarketData(t *testing.T) {
	x, err := DecodeMarketData(strings.NewReader(marketJSONL))
	if err != nil {
		t.Fatalf("DecodeMarketData() error = %v", err)
	}
	p, err := x.PriceAsOf("AAPL", day("2023-01-01"))
	if err != nil {
		t.Fatalf("PriceAsOf() error = %v", err)
	}
	if !p.Equal(usd(100.25)) {
		t.Errorf("price = %v want 100.25 USD", p)
	}
	r, err := x.RateAsOf("EUR", "USD", day("2023-01-01"))
	if err != nil {
		t.Fatalf("RateAsOf() error = %v", err)
	}
	if !r.Equal(newDecimal(1.0812)) {
		t.Errorf("rate = %v want 1.0812", r)
	}
}

func TestDecodeMarketData_UnknownKind(t *testing.T) {
	if _, err := DecodeMarketData(strings.NewReader(`{"kind":"volume","date":"2023-01-01"}` + "\n")); err == nil {
		t.Fatalf("expected an error for an unknown kind")
	}
}
