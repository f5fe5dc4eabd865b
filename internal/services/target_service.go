package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/meridianfi/rebalance/internal/loader"
	"github.com/meridianfi/rebalance/internal/models"
	"github.com/meridianfi/rebalance/internal/repository"
)

var (
	ErrTargetNotFound    = errors.New("target allocation not found")
	ErrInvalidAllocation = errors.New("invalid allocation")
)

// allocationTotalTolerance bounds how far a target's percentages may stray
// from 100 before the service warns about it.
const allocationTotalTolerance = 1e-6

// TargetService handles target allocation business logic
type TargetService struct {
	targetRepo *repository.TargetRepository
}

// NewTargetService creates a new TargetService
func NewTargetService(targetRepo *repository.TargetRepository) *TargetService {
	return &TargetService{targetRepo: targetRepo}
}

// UpsertTarget stores a target allocation under a name. Allocations that do
// not total 100 are stored as given with a warning; some strategies hold the
// remainder in cash deliberately.
func (s *TargetService) UpsertTarget(ctx context.Context, userID int64, name string, req *models.TargetRequest) (*models.TargetResponse, error) {
	target, err := TargetFromPercentages(req.Allocations)
	if err != nil {
		return nil, err
	}
	warnAllocationTotal(ctx, target)

	tx, err := s.targetRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updated, err := s.targetRepo.Upsert(ctx, tx, userID, name, target)
	if err != nil {
		return nil, fmt.Errorf("failed to store target: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TargetResponse{
		Name:        name,
		Allocations: targetPercentages(target),
		UpdatedAt:   updated,
	}, nil
}

// SeedFromFile loads a target allocation document and stores it under a
// name. Runs at startup when SEED_TARGET is configured.
func (s *TargetService) SeedFromFile(ctx context.Context, userID int64, name, path string) error {
	target, err := loader.LoadTarget(path)
	if err != nil {
		return err
	}

	tx, err := s.targetRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := s.targetRepo.Upsert(ctx, tx, userID, name, target); err != nil {
		return fmt.Errorf("failed to seed target: %w", err)
	}
	return tx.Commit(ctx)
}

// GetTarget retrieves a stored target allocation by name
func (s *TargetService) GetTarget(ctx context.Context, userID int64, name string) (*models.TargetResponse, error) {
	target, updated, err := s.targetRepo.GetByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, repository.ErrTargetNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("failed to get target: %w", err)
	}
	return &models.TargetResponse{
		Name:        name,
		Allocations: targetPercentages(target),
		UpdatedAt:   updated,
	}, nil
}

// ListTargets retrieves all stored target allocations for a user
func (s *TargetService) ListTargets(ctx context.Context, userID int64) ([]models.TargetResponse, error) {
	targets, err := s.targetRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	return targets, nil
}

// DeleteTarget removes a stored target allocation
func (s *TargetService) DeleteTarget(ctx context.Context, userID int64, name string) error {
	tx, err := s.targetRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.targetRepo.Delete(ctx, tx, userID, name); err != nil {
		if errors.Is(err, repository.ErrTargetNotFound) {
			return ErrTargetNotFound
		}
		return fmt.Errorf("failed to delete target: %w", err)
	}
	return tx.Commit(ctx)
}

// Resolve returns the target a rebalance run should use: the stored target
// named in the request, or its inline allocations.
func (s *TargetService) Resolve(ctx context.Context, userID int64, name string, allocations map[string]float64) (*models.Target, error) {
	if name != "" {
		target, _, err := s.targetRepo.GetByName(ctx, userID, name)
		if err != nil {
			if errors.Is(err, repository.ErrTargetNotFound) {
				return nil, ErrTargetNotFound
			}
			return nil, fmt.Errorf("failed to get target: %w", err)
		}
		return target, nil
	}
	target, err := TargetFromPercentages(allocations)
	if err != nil {
		return nil, err
	}
	warnAllocationTotal(ctx, target)
	return target, nil
}

// TargetFromPercentages builds a target from asset class names (values or
// display labels) mapped to percentages.
func TargetFromPercentages(percentages map[string]float64) (*models.Target, error) {
	if len(percentages) == 0 {
		return nil, fmt.Errorf("%w: no allocations given", ErrInvalidAllocation)
	}
	allocations := make(map[models.AssetClass]float64, len(percentages))
	for key, pct := range percentages {
		class, err := models.ParseAssetClass(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAllocation, err)
		}
		if pct < 0 {
			return nil, fmt.Errorf("%w: %s allocation cannot be negative", ErrInvalidAllocation, key)
		}
		allocations[class] = pct
	}
	target := models.NewTarget(allocations)
	return &target, nil
}

func targetPercentages(t *models.Target) map[string]float64 {
	out := make(map[string]float64, t.Len())
	for class, pct := range t.Allocations() {
		out[string(class)] = pct
	}
	return out
}

func warnAllocationTotal(ctx context.Context, t *models.Target) {
	total := t.Total()
	if math.Abs(total-100) > allocationTotalTolerance {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnAllocationTotal,
			Message: fmt.Sprintf("target allocations total %.4f%%, not 100%%", total),
		})
	}
}
