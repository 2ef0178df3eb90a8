package perfolio

import (
	"context"
	"strings"
	"testing"
)

func TestRenderReport(t *testing.T) {
	in := newTestInput(t,
		[]Activity{buy("2023-01-01", "AAPL", 10, 100)},
		[]PricePoint{price("2023-01-01", "AAPL", 100), price("2023-12-31", "AAPL", 150)},
		nil,
		window("2023-01-01", "2023-12-31"))

	cp, err := ComputePositions(context.Background(), in, StrategyTWR)
	if err != nil {
		t.Fatalf("ComputePositions() error = %v", err)
	}
	md, err := RenderReport(cp)
	if err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}
	for _, want := range []string{
		"# Portfolio on 2023-12-31",
		"| AAPL |",
		"+50.00%",
		"**Total invested**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
	// TWR-only run must not mention the money-weighted figure.
	if strings.Contains(md, "Money-weighted") {
		t.Errorf("unexpected money-weighted line:\n%s", md)
	}
}

func TestRenderReport_MWRAndWarnings(t *testing.T) {
	in := newTestInput(t,
		[]Activity{
			buy("2023-01-01", "AAPL", 10, 100),
			buy("2023-01-01", "MSFT", 5, 200),
		},
		[]PricePoint{price("2023-01-01", "AAPL", 100), price("2023-12-31", "AAPL", 150)},
		nil,
		window("2023-01-01", "2024-01-01"))

	cp, err := ComputePositions(context.Background(), in, StrategyMWR)
	if err != nil {
		t.Fatalf("ComputePositions() error = %v", err)
	}
	md, err := RenderReport(cp)
	if err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}
	if !strings.Contains(md, "Warnings:") {
		t.Errorf("report missing the warnings block:\n%s", md)
	}
	if !strings.Contains(md, "Money-weighted return:") {
		t.Errorf("report missing the money-weighted line:\n%s", md)
	}
}
