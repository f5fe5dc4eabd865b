package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/meridianfi/rebalance/internal/models"
)

// AccountDescriptor describes one account in an accounts JSON file: where
// its positions CSV lives, whether it is taxable, and how that CSV names its
// columns. Filename is resolved relative to the descriptor file's directory.
type AccountDescriptor struct {
	Name        string              `json:"name"`
	Institution string              `json:"institution"`
	Filename    string              `json:"filename"`
	Taxable     models.FlexibleBool `json:"taxable"`
	Headers     ColumnMap           `json:"headers"`
}

// LoadAccounts reads an accounts descriptor file and parses every referenced
// positions CSV. Accounts come back in descriptor order regardless of which
// CSV finishes parsing first.
func LoadAccounts(descriptorPath string) ([]*models.Account, []models.Warning, error) {
	data, err := os.ReadFile(descriptorPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read accounts descriptor: %w", err)
	}

	var descriptors []AccountDescriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, nil, fmt.Errorf("failed to parse accounts descriptor: %w", err)
	}

	baseDir := filepath.Dir(descriptorPath)
	accounts := make([]*models.Account, len(descriptors))
	warningLists := make([][]models.Warning, len(descriptors))

	var g errgroup.Group
	for i, desc := range descriptors {
		i, desc := i, desc
		g.Go(func() error {
			acct, warns, err := loadAccount(baseDir, desc)
			if err != nil {
				return fmt.Errorf("account %q at %s: %w", desc.Name, desc.Institution, err)
			}
			accounts[i] = acct
			warningLists[i] = warns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var warnings []models.Warning
	for _, warns := range warningLists {
		warnings = append(warnings, warns...)
	}
	log.Infof("loaded %d accounts from %s", len(accounts), descriptorPath)
	return accounts, warnings, nil
}

func loadAccount(baseDir string, desc AccountDescriptor) (*models.Account, []models.Warning, error) {
	if desc.Name == "" || desc.Institution == "" || desc.Filename == "" {
		return nil, nil, fmt.Errorf("descriptor must name account, institution and filename")
	}

	path := desc.Filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open positions file: %w", err)
	}
	defer f.Close()

	holdings, warnings, err := ParsePositions(f, desc.Headers, nil)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("account %q at %s: %d holdings", desc.Name, desc.Institution, len(holdings))
	return models.NewAccount(desc.Name, desc.Institution, desc.Taxable.Bool(), holdings), warnings, nil
}
