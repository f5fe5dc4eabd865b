package loader

import (
	"math"
	"strings"
	"testing"

	"github.com/meridianfi/rebalance/internal/models"
)

const fidelityCSV = `Symbol,Description,Quantity,Last Price,Current Value
FSKAX,FIDELITY TOTAL MARKET,"2,337.151",$110.25,"$257,670.90"
CRISX,CRM SMALL CAP VALUE,500,$10.00,"$5,000.00"
CASH,CASH,5000,$1.00,"$5,000.00"
ZZZZ,UNMAPPED MYSTERY FUND,10,$1.00,$10.00

"Brokerage services are provided by ..."
`

func TestParsePositions(t *testing.T) {
	holdings, warnings, err := ParsePositions(strings.NewReader(fidelityCSV), DefaultColumns, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(holdings) != 3 {
		t.Fatalf("expected 3 holdings, got %+v", holdings)
	}

	fskax := holdings[0]
	if fskax.Fund.Ticker != "FSKAX" || fskax.Fund.AssetClass != models.AssetClassCoreUS {
		t.Errorf("unexpected first holding: %+v", fskax)
	}
	if math.Abs(fskax.Shares-2337.151) > 1e-9 {
		t.Errorf("expected 2337.151 shares, got %f", fskax.Shares)
	}
	if math.Abs(fskax.Fund.SharePrice-110.25) > 1e-9 {
		t.Errorf("expected price 110.25, got %f", fskax.Fund.SharePrice)
	}
	if fskax.Fund.Name != "FIDELITY TOTAL MARKET" {
		t.Errorf("unexpected fund name %q", fskax.Fund.Name)
	}

	// The unmapped ticker is skipped with a warning, not an error.
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %+v", warnings)
	}
	if warnings[0].Code != models.WarnUnmappedTicker {
		t.Errorf("expected %s, got %+v", models.WarnUnmappedTicker, warnings[0])
	}
	if !strings.Contains(warnings[0].Message, "ZZZZ") {
		t.Errorf("warning should name the ticker: %q", warnings[0].Message)
	}
}

// Brokerages disagree on header names; the column map binds whatever the
// file declares, case-insensitively.
func TestParsePositionsCustomColumns(t *testing.T) {
	csv := "ticker,name,SHARES,price\nVNQ,VANGUARD REIT,2000,10.00\n"
	columns := ColumnMap{
		Symbol:      "Ticker",
		Description: "Name",
		NumShares:   "Shares",
		SharePrice:  "Price",
	}
	holdings, _, err := ParsePositions(strings.NewReader(csv), columns, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(holdings) != 1 || holdings[0].Fund.Ticker != "VNQ" || holdings[0].Shares != 2000 {
		t.Errorf("unexpected holdings: %+v", holdings)
	}
}

func TestParsePositionsMissingColumn(t *testing.T) {
	csv := "Symbol,Description,Quantity\nVNQ,VANGUARD REIT,2000\n"
	_, _, err := ParsePositions(strings.NewReader(csv), DefaultColumns, nil)
	if err == nil || !strings.Contains(err.Error(), "Last Price") {
		t.Errorf("expected missing column error naming Last Price, got %v", err)
	}
}

func TestParsePositionsIncompleteMapping(t *testing.T) {
	_, _, err := ParsePositions(strings.NewReader(fidelityCSV), ColumnMap{Symbol: "Symbol"}, nil)
	if err == nil {
		t.Error("expected error for incomplete column mapping")
	}
}

func TestParsePositionsEmptyFile(t *testing.T) {
	csv := "Symbol,Description,Quantity,Last Price\n"
	holdings, warnings, err := ParsePositions(strings.NewReader(csv), DefaultColumns, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(holdings) != 0 {
		t.Errorf("expected no holdings, got %+v", holdings)
	}
	if len(warnings) != 1 || warnings[0].Code != models.WarnEmptyPositions {
		t.Errorf("expected %s warning, got %+v", models.WarnEmptyPositions, warnings)
	}
}

func TestParsePositionsBadNumber(t *testing.T) {
	csv := "Symbol,Description,Quantity,Last Price\nVNQ,VANGUARD REIT,lots,10.00\n"
	_, _, err := ParsePositions(strings.NewReader(csv), DefaultColumns, nil)
	if err == nil || !strings.Contains(err.Error(), "share count") {
		t.Errorf("expected share count error, got %v", err)
	}
}

func TestParsePositionsCustomClasses(t *testing.T) {
	csv := "Symbol,Description,Quantity,Last Price\nZZZZ,HOUSE FUND,10,1.00\n"
	classes := map[string]models.AssetClass{"ZZZZ": models.AssetClassMicroCap}
	holdings, warnings, err := ParsePositions(strings.NewReader(csv), DefaultColumns, classes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", warnings)
	}
	if len(holdings) != 1 || holdings[0].Fund.AssetClass != models.AssetClassMicroCap {
		t.Errorf("unexpected holdings: %+v", holdings)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2,337.151", 2337.151},
		{"$110.25", 110.25},
		{" $1,234,567.89 ", 1234567.89},
		{"-42.5", -42.5},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := parseAmount(tc.in)
		if err != nil {
			t.Errorf("parseAmount(%q): unexpected error %v", tc.in, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("parseAmount(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}

	for _, bad := range []string{"", "   ", "n/a", "$"} {
		if _, err := parseAmount(bad); err == nil {
			t.Errorf("parseAmount(%q): expected error", bad)
		}
	}
}
