package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/meridianfi/rebalance/internal/cache"
	"github.com/meridianfi/rebalance/internal/models"
	"github.com/meridianfi/rebalance/internal/rebalance"
	"github.com/meridianfi/rebalance/internal/repository"
)

var (
	ErrInvalidTargetSpec = errors.New("exactly one of target or allocations must be provided")
	ErrInvalidMode       = errors.New(`mode must be "cash" or "tune"`)
)

// RebalanceService builds portfolios from stored accounts and runs reports,
// optimization and transaction execution against them.
type RebalanceService struct {
	accountRepo *repository.AccountRepository
	targetSvc   *TargetService
	cache       *cache.MemoryCache
}

// NewRebalanceService creates a new RebalanceService
func NewRebalanceService(accountRepo *repository.AccountRepository, targetSvc *TargetService, memCache *cache.MemoryCache) *RebalanceService {
	return &RebalanceService{
		accountRepo: accountRepo,
		targetSvc:   targetSvc,
		cache:       memCache,
	}
}

// buildPortfolio assembles the user's portfolio from all their accounts,
// reusing a cached build when one is fresh. Account order is creation order,
// which fixes the holding row order optimization indexes against.
func (s *RebalanceService) buildPortfolio(ctx context.Context, userID int64) (*rebalance.Portfolio, error) {
	if p, ok := s.cache.GetPortfolio(userID); ok {
		return p, nil
	}

	accounts, err := s.accountRepo.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	p := rebalance.NewPortfolio(accounts)
	s.cache.SetPortfolio(userID, p)
	return p, nil
}

// GetSnapshot returns the flattened holdings table and its total value
func (s *RebalanceService) GetSnapshot(ctx context.Context, userID int64) (*models.PortfolioSnapshot, error) {
	p, err := s.buildPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.PortfolioSnapshot{
		NetValue: p.NetValue(),
		Holdings: p.Rows(),
	}, nil
}

// AllocationByClass reports total value held per asset class
func (s *RebalanceService) AllocationByClass(ctx context.Context, userID int64) ([]models.ClassAllocation, error) {
	p, err := s.buildPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.AllocationByClass(), nil
}

// AllocationByInstitution reports total value held per institution
func (s *RebalanceService) AllocationByInstitution(ctx context.Context, userID int64) ([]models.InstitutionAllocation, error) {
	p, err := s.buildPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.AllocationByInstitution(), nil
}

// PercentageAllocation reports each asset class's share of the portfolio
func (s *RebalanceService) PercentageAllocation(ctx context.Context, userID int64) ([]models.PercentageAllocation, error) {
	p, err := s.buildPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.PercentageAllocation(), nil
}

// DiffFromTarget reports how far each asset class sits from its target
func (s *RebalanceService) DiffFromTarget(ctx context.Context, userID int64, name string, allocations map[string]float64) ([]models.TargetDiff, error) {
	if err := validateTargetSpec(name, allocations); err != nil {
		return nil, err
	}
	target, err := s.targetSvc.Resolve(ctx, userID, name, allocations)
	if err != nil {
		return nil, err
	}
	p, err := s.buildPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.DiffFromTarget(*target), nil
}

// Rebalance proposes transactions that move the portfolio toward the target.
// Mode "cash" only spends idle cash; mode "tune" additionally rebalances
// within non-taxable accounts.
func (s *RebalanceService) Rebalance(ctx context.Context, userID int64, req *models.RebalanceRequest) (*models.RebalanceResponse, error) {
	defer TrackTime("Rebalance", time.Now())

	if err := validateTargetSpec(req.Target, req.Allocations); err != nil {
		return nil, err
	}
	target, err := s.targetSvc.Resolve(ctx, userID, req.Target, req.Allocations)
	if err != nil {
		return nil, err
	}

	p, err := s.buildPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	before := p.Deviation(*target)

	var transactions []models.Transaction
	switch req.Mode {
	case models.RebalanceModeCash:
		transactions, err = p.AllocateCash(*target)
	case models.RebalanceModeTune:
		transactions, err = p.Tune(*target)
	default:
		return nil, ErrInvalidMode
	}
	if err != nil {
		return nil, err
	}

	after := p.Execute(transactions, false).Deviation(*target)
	log.Infof("rebalance (%s) for user %d: %d transactions, deviation %.4f -> %.4f",
		req.Mode, userID, len(transactions), before, after)

	return &models.RebalanceResponse{
		Mode:            req.Mode,
		Transactions:    transactions,
		DeviationBefore: before,
		DeviationAfter:  after,
	}, nil
}

// Execute applies transactions to the portfolio. With Apply set the new
// holdings are persisted; otherwise the result is a preview. Transactions
// naming an unknown account or fund are skipped with a warning.
func (s *RebalanceService) Execute(ctx context.Context, userID int64, req *models.ExecuteRequest) (*models.ExecuteResponse, error) {
	defer TrackTime("Execute", time.Now())

	p, err := s.buildPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, t := range rebalance.Unmatched(req.Transactions, p.Accounts()) {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnUnmatchedTransaction,
			Message: fmt.Sprintf("no holding matches %s / %s / %s; transaction skipped", t.Institution, t.AccountName, t.FundName),
		})
	}

	result := p.Execute(req.Transactions, false)

	if req.Apply {
		tx, err := s.accountRepo.BeginTx(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		for _, a := range result.Accounts() {
			if err := s.accountRepo.ReplaceHoldings(ctx, tx, a.ID, a.Holdings()); err != nil {
				return nil, fmt.Errorf("failed to persist holdings for %q: %w", a.Name, err)
			}
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		s.cache.InvalidatePortfolio(userID)
	}

	return &models.ExecuteResponse{
		Applied: req.Apply,
		Portfolio: models.PortfolioSnapshot{
			NetValue: result.NetValue(),
			Holdings: result.Rows(),
		},
	}, nil
}

func validateTargetSpec(name string, allocations map[string]float64) error {
	hasName := name != ""
	hasAllocations := len(allocations) > 0
	if hasName == hasAllocations {
		return ErrInvalidTargetSpec
	}
	return nil
}
