package market

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func writeCatalog(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "assets.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeCatalog(t, `assets:
  - id: bitcoin
    symbol: BTC
    name: Bitcoin
    base_price: "94500.20"
  - id: ethereum
    symbol: ETH
    name: Ethereum
    base_price: "3200.50"
`)

	assets, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("Expected 2 assets, got %d", len(assets))
	}
	if !assets[0].Price().Equal(decimal.RequireFromString("94500.20")) {
		t.Errorf("Expected price 94500.20, got %s", assets[0].Price().String())
	}

	asset, err := FindAsset(assets, "ethereum")
	if err != nil {
		t.Fatalf("FindAsset failed: %v", err)
	}
	if asset.Symbol != "ETH" {
		t.Errorf("Expected ETH, got %s", asset.Symbol)
	}

	if _, err := FindAsset(assets, "dogecoin"); err == nil {
		t.Error("Expected an error for an unknown asset")
	}
}

func TestLoadCatalog_RejectsBadEntries(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing id", "assets:\n  - symbol: BTC\n    base_price: \"1\"\n"},
		{"missing symbol", "assets:\n  - id: bitcoin\n    base_price: \"1\"\n"},
		{"bad price", "assets:\n  - id: bitcoin\n    symbol: BTC\n    base_price: \"cheap\"\n"},
		{"non-positive price", "assets:\n  - id: bitcoin\n    symbol: BTC\n    base_price: \"0\"\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadCatalog(writeCatalog(t, tc.content)); err == nil {
				t.Error("Expected a validation error")
			}
		})
	}
}

func TestSimulator_QuoteStartsAtBasePrice(t *testing.T) {
	assets := []Asset{
		{Id: "bitcoin", Symbol: "BTC", price: decimal.RequireFromString("94500")},
	}
	sim := NewSimulator(assets, 1)

	quote, err := sim.Quote("bitcoin")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if !quote.Equal(decimal.RequireFromString("94500")) {
		t.Errorf("Expected 94500, got %s", quote.String())
	}

	if _, err := sim.Quote("dogecoin"); err == nil {
		t.Error("Expected an error for an unknown asset")
	}
}

func TestSimulator_RefreshStaysBounded(t *testing.T) {
	base := decimal.RequireFromString("100")
	assets := []Asset{
		{Id: "bitcoin", Symbol: "BTC", price: base},
	}
	sim := NewSimulator(assets, 42)

	prior := base
	for i := 0; i < 50; i++ {
		if err := sim.RefreshAll(context.Background()); err != nil {
			t.Fatalf("RefreshAll failed: %v", err)
		}

		quote, err := sim.Quote("bitcoin")
		if err != nil {
			t.Fatalf("Quote failed: %v", err)
		}
		if quote.LessThanOrEqual(decimal.Zero) {
			t.Fatalf("Quote must stay positive, got %s", quote.String())
		}

		// A single step moves at most 0.5% off the prior quote.
		maxMove := prior.Mul(decimal.RequireFromString("0.005"))
		if quote.Sub(prior).Abs().GreaterThan(maxMove.Add(decimal.New(1, -10))) {
			t.Fatalf("Step too large: %s -> %s", prior.String(), quote.String())
		}
		prior = quote
	}
}

func TestSimulator_QuotesSnapshot(t *testing.T) {
	assets := []Asset{
		{Id: "bitcoin", Symbol: "BTC", price: decimal.RequireFromString("94500")},
		{Id: "ethereum", Symbol: "ETH", price: decimal.RequireFromString("3200")},
	}
	sim := NewSimulator(assets, 7)

	quotes := sim.Quotes()
	if len(quotes) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(quotes))
	}

	// Mutating the snapshot must not affect the simulator.
	quotes["bitcoin"] = decimal.Zero
	quote, err := sim.Quote("bitcoin")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if quote.IsZero() {
		t.Error("Snapshot mutation leaked into the simulator")
	}
}
