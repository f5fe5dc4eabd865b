package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/meridianfi/rebalance/internal/cache"
	"github.com/meridianfi/rebalance/internal/loader"
	"github.com/meridianfi/rebalance/internal/models"
	"github.com/meridianfi/rebalance/internal/repository"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountConflict = errors.New("account with same name and institution already exists")
	ErrUnauthorized    = errors.New("not authorized to access this account")
	ErrInvalidHolding  = errors.New("invalid holding")
)

// AccountService handles account business logic
type AccountService struct {
	accountRepo *repository.AccountRepository
	cache       *cache.MemoryCache
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo *repository.AccountRepository, memCache *cache.MemoryCache) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		cache:       memCache,
	}
}

// CreateAccount creates a new account with its holdings
func (s *AccountService) CreateAccount(ctx context.Context, userID int64, req *models.CreateAccountRequest) (*models.Account, error) {
	holdings, err := holdingsFromRequest(req.Holdings)
	if err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.GetByName(ctx, userID, req.Institution, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountConflict
	}

	account := models.NewAccount(req.Name, req.Institution, *req.Taxable, holdings)
	account.OwnerID = userID

	tx, err := s.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.InvalidatePortfolio(userID)
	return account, nil
}

// GetAccount retrieves an account with its holdings
func (s *AccountService) GetAccount(ctx context.Context, id, userID int64) (*models.Account, error) {
	defer TrackTime("GetAccount", time.Now())

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.OwnerID != userID {
		return nil, ErrUnauthorized
	}
	return account, nil
}

// ListAccounts retrieves all accounts for a user (metadata plus totals)
func (s *AccountService) ListAccounts(ctx context.Context, userID int64) ([]models.AccountListItem, error) {
	accounts, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// DeleteAccount deletes an account and its holdings
func (s *AccountService) DeleteAccount(ctx context.Context, id, userID int64) error {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account.OwnerID != userID {
		return ErrUnauthorized
	}

	tx, err := s.accountRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.accountRepo.Delete(ctx, tx, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.InvalidatePortfolio(userID)
	return nil
}

// ReplaceHoldings replaces an account's holdings wholesale
func (s *AccountService) ReplaceHoldings(ctx context.Context, id, userID int64, req *models.ReplaceHoldingsRequest) (*models.Account, error) {
	holdings, err := holdingsFromRequest(req.Holdings)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.OwnerID != userID {
		return nil, ErrUnauthorized
	}

	tx, err := s.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.accountRepo.ReplaceHoldings(ctx, tx, id, holdings); err != nil {
		return nil, fmt.Errorf("failed to replace holdings: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	account.SetHoldings(holdings)
	s.cache.InvalidatePortfolio(userID)
	return account, nil
}

// ImportPositions parses a brokerage positions CSV and stores it as the
// account's holdings, replacing whatever was there. Rows with unmapped
// tickers are skipped with a warning.
func (s *AccountService) ImportPositions(ctx context.Context, id, userID int64, columns loader.ColumnMap, csvData io.Reader) (*models.Account, int, error) {
	defer TrackTime("ImportPositions", time.Now())

	account, err := s.GetAccount(ctx, id, userID)
	if err != nil {
		return nil, 0, err
	}

	if columns == (loader.ColumnMap{}) {
		columns = loader.DefaultColumns
	}
	holdings, warnings, err := loader.ParsePositions(csvData, columns, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidHolding, err)
	}
	skipped := 0
	for _, w := range warnings {
		AddWarning(ctx, w)
		if w.Code == models.WarnUnmappedTicker {
			skipped++
		}
	}

	tx, err := s.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.accountRepo.ReplaceHoldings(ctx, tx, id, holdings); err != nil {
		return nil, 0, fmt.Errorf("failed to replace holdings: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	account.SetHoldings(holdings)
	s.cache.InvalidatePortfolio(userID)
	return account, skipped, nil
}

// SeedFromDescriptor loads an accounts description file and upserts every
// account it names, keyed by institution and name. Runs at startup when
// SEED_ACCOUNTS is configured; positions CSVs are resolved relative to the
// descriptor file.
func (s *AccountService) SeedFromDescriptor(ctx context.Context, userID int64, descriptorPath string) (int, error) {
	accounts, warnings, err := loader.LoadAccounts(descriptorPath)
	if err != nil {
		return 0, err
	}
	for _, w := range warnings {
		log.Warnf("seed: %s (%s)", w.Message, w.Code)
	}

	for _, account := range accounts {
		account.OwnerID = userID
		if err := s.upsertByName(ctx, account); err != nil {
			return 0, fmt.Errorf("failed to seed account %q: %w", account.Name, err)
		}
	}
	s.cache.InvalidatePortfolio(userID)
	return len(accounts), nil
}

// upsertByName creates the account, or replaces the stored holdings and
// taxability of the account with the same institution and name.
func (s *AccountService) upsertByName(ctx context.Context, account *models.Account) error {
	existing, err := s.accountRepo.GetByName(ctx, account.OwnerID, account.Institution, account.Name)
	if err != nil {
		return fmt.Errorf("failed to check for existing account: %w", err)
	}

	tx, err := s.accountRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if existing != nil {
		existing.Taxable = account.Taxable
		if err := s.accountRepo.Update(ctx, tx, existing); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		if err := s.accountRepo.ReplaceHoldings(ctx, tx, existing.ID, account.Holdings()); err != nil {
			return fmt.Errorf("failed to replace holdings: %w", err)
		}
	} else {
		if err := s.accountRepo.Create(ctx, tx, account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// holdingsFromRequest converts request holdings, validating asset classes
func holdingsFromRequest(reqs []models.HoldingRequest) ([]models.Investment, error) {
	holdings := make([]models.Investment, 0, len(reqs))
	for i, h := range reqs {
		class, err := models.ParseAssetClass(h.AssetClass)
		if err != nil {
			return nil, fmt.Errorf("%w: holdings[%d]: %v", ErrInvalidHolding, i, err)
		}
		if h.SharePrice < 0 {
			return nil, fmt.Errorf("%w: holdings[%d]: share price cannot be negative", ErrInvalidHolding, i)
		}
		holdings = append(holdings, models.Investment{
			Fund: models.Fund{
				Ticker:     h.Ticker,
				AssetClass: class,
				Name:       h.Name,
				SharePrice: h.SharePrice,
			},
			Shares: h.Shares,
		})
	}
	return holdings, nil
}
