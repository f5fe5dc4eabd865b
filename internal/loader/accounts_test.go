package loader

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/meridianfi/rebalance/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadAccounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "acme.csv",
		"Symbol,Description,Quantity,Last Price\n"+
			"FSKAX,FIDELITY TOTAL MARKET,1000,$10.00\n"+
			"CASH,CASH,\"5,000\",$1.00\n")
	writeFile(t, dir, "ira.csv",
		"Ticker,Name,Shares,Price\n"+
			"VNQ,VANGUARD REIT,2000,10.00\n")
	descriptor := writeFile(t, dir, "accounts.json", `[
		{
			"name": "401(K)", "institution": "ACME", "filename": "acme.csv",
			"taxable": "True",
			"headers": {"symbol": "Symbol", "description": "Description",
				"num_shares": "Quantity", "share_price": "Last Price"}
		},
		{
			"name": "IRA", "institution": "INDIVIDUAL", "filename": "ira.csv",
			"taxable": false,
			"headers": {"symbol": "Ticker", "description": "Name",
				"num_shares": "Shares", "share_price": "Price"}
		}
	]`)

	accounts, warnings, err := LoadAccounts(descriptor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", warnings)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}

	// Descriptor order, regardless of parse completion order.
	acme := accounts[0]
	if acme.Name != "401(K)" || acme.Institution != "ACME" || !acme.Taxable {
		t.Errorf("unexpected first account: %+v", acme)
	}
	if acme.NumHoldings() != 2 {
		t.Fatalf("expected 2 holdings, got %d", acme.NumHoldings())
	}
	if math.Abs(acme.Cash()-5000) > 1e-9 {
		t.Errorf("expected $5000 cash, got %f", acme.Cash())
	}

	ira := accounts[1]
	if ira.Name != "IRA" || ira.Taxable {
		t.Errorf("unexpected second account: %+v", ira)
	}
	holdings := ira.Holdings()
	if len(holdings) != 1 || holdings[0].Fund.AssetClass != models.AssetClassRealEstate {
		t.Errorf("unexpected IRA holdings: %+v", holdings)
	}
}

func TestLoadAccountsSurfacesWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "positions.csv",
		"Symbol,Description,Quantity,Last Price\n"+
			"ZZZZ,MYSTERY FUND,10,$1.00\n"+
			"VNQ,VANGUARD REIT,100,$10.00\n")
	descriptor := writeFile(t, dir, "accounts.json", `[
		{
			"name": "Brokerage", "institution": "SCHWAB", "filename": "positions.csv",
			"taxable": true,
			"headers": {"symbol": "Symbol", "description": "Description",
				"num_shares": "Quantity", "share_price": "Last Price"}
		}
	]`)

	accounts, warnings, err := LoadAccounts(descriptor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].NumHoldings() != 1 {
		t.Fatalf("expected 1 account with 1 holding, got %+v", accounts)
	}
	if len(warnings) != 1 || warnings[0].Code != models.WarnUnmappedTicker {
		t.Errorf("expected an unmapped ticker warning, got %+v", warnings)
	}
}

func TestLoadAccountsMissingPositionsFile(t *testing.T) {
	dir := t.TempDir()
	descriptor := writeFile(t, dir, "accounts.json", `[
		{
			"name": "Brokerage", "institution": "SCHWAB", "filename": "nope.csv",
			"taxable": true,
			"headers": {"symbol": "Symbol", "description": "Description",
				"num_shares": "Quantity", "share_price": "Last Price"}
		}
	]`)
	if _, _, err := LoadAccounts(descriptor); err == nil {
		t.Error("expected error for missing positions file")
	}
}

func TestLoadAccountsIncompleteDescriptor(t *testing.T) {
	dir := t.TempDir()
	descriptor := writeFile(t, dir, "accounts.json", `[{"name": "Brokerage"}]`)
	if _, _, err := LoadAccounts(descriptor); err == nil {
		t.Error("expected error for descriptor without institution and filename")
	}
}

func TestLoadAccountsMissingDescriptor(t *testing.T) {
	if _, _, err := LoadAccounts(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing descriptor file")
	}
}
