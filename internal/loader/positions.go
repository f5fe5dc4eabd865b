// Package loader ingests portfolios from the outside world: positions CSV
// exports from brokerages, account description JSON files that bind those
// exports together, and target allocation JSON documents.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/meridianfi/rebalance/internal/models"
)

// ColumnMap names the CSV columns that carry each position field. Brokerages
// disagree on header names ("Symbol" vs "Ticker", "Quantity" vs "Shares"),
// so every positions file declares its own mapping.
type ColumnMap struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	NumShares   string `json:"num_shares"`
	SharePrice  string `json:"share_price"`
}

func (c ColumnMap) validate() error {
	if c.Symbol == "" || c.Description == "" || c.NumShares == "" || c.SharePrice == "" {
		return fmt.Errorf("column mapping must name symbol, description, num_shares and share_price columns")
	}
	return nil
}

// DefaultColumns matches the header names Fidelity position exports use.
var DefaultColumns = ColumnMap{
	Symbol:      "Symbol",
	Description: "Description",
	NumShares:   "Quantity",
	SharePrice:  "Last Price",
}

// DefaultTickerClasses maps the tickers this engine has historically traded
// to their asset classes. Imports may pass their own mapping; nil means this
// one.
var DefaultTickerClasses = map[string]models.AssetClass{
	"VFFSX": models.AssetClassCoreUS,
	"VEXRX": models.AssetClassSmallCap,
	"SCZ":   models.AssetClassMicroCap,
	"FSKAX": models.AssetClassCoreUS,
	"IEUR":  models.AssetClassEuropeLarge,
	"IPAC":  models.AssetClassPacificRimLarge,
	"x0338": models.AssetClassInvestmentGradeBonds,
	"VBTIX": models.AssetClassInvestmentGradeBonds,
	"CRISX": models.AssetClassSmallCap,
	"VNQ":   models.AssetClassRealEstate,
	"VWO":   models.AssetClassEmergingMarkets,
	"CASH":  models.AssetClassCash,
}

// ParsePositions parses a brokerage positions CSV into holdings. Tickers
// without an asset class mapping are skipped with a warning rather than
// failing the import; quantity and price cells tolerate currency symbols and
// thousands separators ("$110.25", "2,337.151").
func ParsePositions(r io.Reader, columns ColumnMap, classes map[string]models.AssetClass) ([]models.Investment, []models.Warning, error) {
	if err := columns.validate(); err != nil {
		return nil, nil, err
	}
	if classes == nil {
		classes = DefaultTickerClasses
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Brokerage exports pad rows with trailing commas and append disclaimer
	// lines, so rows are not a uniform width.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	fields := map[string]string{
		"symbol":      columns.Symbol,
		"description": columns.Description,
		"num_shares":  columns.NumShares,
		"share_price": columns.SharePrice,
	}
	fieldIdx := make(map[string]int, len(fields))
	maxIdx := 0
	for field, colName := range fields {
		idx, ok := colIdx[strings.ToLower(strings.TrimSpace(colName))]
		if !ok {
			return nil, nil, fmt.Errorf("missing required column: %s", colName)
		}
		fieldIdx[field] = idx
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	var holdings []models.Investment
	var warnings []models.Warning
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: failed to read CSV record: %w", rowNum+1, err)
		}
		rowNum++

		// Disclaimer and footer lines come through as short rows.
		if maxIdx >= len(record) {
			continue
		}
		ticker := strings.TrimSpace(record[fieldIdx["symbol"]])
		if ticker == "" {
			continue
		}
		name := strings.TrimSpace(record[fieldIdx["description"]])

		class, ok := classes[ticker]
		if !ok {
			log.Warnf("no asset class mapping for ticker %s (%s); position skipped", ticker, name)
			warnings = append(warnings, models.Warning{
				Code:    models.WarnUnmappedTicker,
				Message: fmt.Sprintf("no asset class mapping for ticker %s; position skipped", ticker),
			})
			continue
		}

		shares, err := parseAmount(record[fieldIdx["num_shares"]])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: invalid share count: %w", rowNum, err)
		}
		price, err := parseAmount(record[fieldIdx["share_price"]])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: invalid share price: %w", rowNum, err)
		}

		holdings = append(holdings, models.Investment{
			Fund: models.Fund{
				Ticker:     ticker,
				AssetClass: class,
				Name:       name,
				SharePrice: price,
			},
			Shares: shares,
		})
	}

	if len(holdings) == 0 {
		warnings = append(warnings, models.Warning{
			Code:    models.WarnEmptyPositions,
			Message: "positions file contained no usable rows",
		})
	}
	return holdings, warnings, nil
}

// parseAmount parses a numeric cell, tolerating currency symbols, thousands
// separators and surrounding whitespace.
func parseAmount(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric value %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("unparseable numeric value %q", s)
	}
	return d.InexactFloat64(), nil
}
