package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/meridianfi/rebalance/internal/models"
)

// targetEntry is one element of a target allocation JSON document. Allocation
// is a fraction of the portfolio (0.25 means 25%) and may be a JSON number or
// a quoted string.
type targetEntry struct {
	AssetClass string          `json:"asset_class"`
	Allocation decimal.Decimal `json:"allocation"`
}

// ParseTarget reads a target allocation document: a JSON array of
// asset_class/allocation pairs. Asset classes may be spelled as display
// labels ("Core U.S.") or enum names ("CORE_US"); a class listed twice keeps
// its last allocation.
func ParseTarget(r io.Reader) (*models.Target, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read target allocation: %w", err)
	}

	var entries []targetEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse target allocation: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("target allocation is empty")
	}

	hundred := decimal.NewFromInt(100)
	allocations := make(map[models.AssetClass]float64, len(entries))
	for _, entry := range entries {
		class, err := models.ParseAssetClass(entry.AssetClass)
		if err != nil {
			return nil, fmt.Errorf("target allocation: %w", err)
		}
		pct := entry.Allocation.Mul(hundred).InexactFloat64()
		log.Debugf("target allocation: %s -> %.2f%%", class, pct)
		allocations[class] = pct
	}
	target := models.NewTarget(allocations)
	return &target, nil
}

// LoadTarget reads a target allocation document from a file.
func LoadTarget(path string) (*models.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open target allocation: %w", err)
	}
	defer f.Close()
	return ParseTarget(f)
}
