package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridianfi/rebalance/internal/models"
)

var ErrTargetNotFound = errors.New("target allocation not found")

// TargetRepository handles database operations for named target allocations
type TargetRepository struct {
	pool *pgxpool.Pool
}

// NewTargetRepository creates a new TargetRepository
func NewTargetRepository(pool *pgxpool.Pool) *TargetRepository {
	return &TargetRepository{pool: pool}
}

// Upsert stores a target allocation under a name, replacing any previous
// allocations stored under that name
func (r *TargetRepository) Upsert(ctx context.Context, tx pgx.Tx, ownerID int64, name string, target *models.Target) (time.Time, error) {
	query := `
		INSERT INTO target (owner, name, created, updated)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (owner, name) DO UPDATE SET updated = NOW()
		RETURNING id, updated
	`
	var targetID int64
	var updated time.Time
	if err := tx.QueryRow(ctx, query, ownerID, name).Scan(&targetID, &updated); err != nil {
		return time.Time{}, fmt.Errorf("failed to upsert target: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM target_allocation WHERE target_id = $1`, targetID); err != nil {
		return time.Time{}, fmt.Errorf("failed to clear target allocations: %w", err)
	}

	insert := `
		INSERT INTO target_allocation (target_id, asset_class, percentage)
		VALUES ($1, $2, $3)
	`
	for _, class := range target.Classes() {
		pct, _ := target.Percentage(class)
		if _, err := tx.Exec(ctx, insert, targetID, class, pct); err != nil {
			return time.Time{}, fmt.Errorf("failed to insert target allocation %s: %w", class, err)
		}
	}
	return updated, nil
}

// GetByName retrieves a stored target allocation by name
func (r *TargetRepository) GetByName(ctx context.Context, ownerID int64, name string) (*models.Target, time.Time, error) {
	query := `
		SELECT id, updated
		FROM target
		WHERE owner = $1 AND name = $2
	`
	var targetID int64
	var updated time.Time
	err := r.pool.QueryRow(ctx, query, ownerID, name).Scan(&targetID, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, time.Time{}, ErrTargetNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to get target: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT asset_class, percentage
		FROM target_allocation
		WHERE target_id = $1
	`, targetID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to query target allocations: %w", err)
	}
	defer rows.Close()

	allocations := make(map[models.AssetClass]float64)
	for rows.Next() {
		var class models.AssetClass
		var pct float64
		if err := rows.Scan(&class, &pct); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan target allocation: %w", err)
		}
		allocations[class] = pct
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	target := models.NewTarget(allocations)
	return &target, updated, nil
}

// List retrieves all stored target allocations for a user
func (r *TargetRepository) List(ctx context.Context, ownerID int64) ([]models.TargetResponse, error) {
	query := `
		SELECT t.name, t.updated, ta.asset_class, ta.percentage
		FROM target t
		JOIN target_allocation ta ON ta.target_id = t.id
		WHERE t.owner = $1
		ORDER BY t.name ASC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()

	var targets []models.TargetResponse
	byName := make(map[string]int)
	for rows.Next() {
		var name, class string
		var updated time.Time
		var pct float64
		if err := rows.Scan(&name, &updated, &class, &pct); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		idx, ok := byName[name]
		if !ok {
			idx = len(targets)
			byName[name] = idx
			targets = append(targets, models.TargetResponse{
				Name:        name,
				Allocations: make(map[string]float64),
				UpdatedAt:   updated,
			})
		}
		targets[idx].Allocations[class] = pct
	}
	return targets, rows.Err()
}

// Delete removes a stored target allocation; its rows go with it via cascade
func (r *TargetRepository) Delete(ctx context.Context, tx pgx.Tx, ownerID int64, name string) error {
	query := `DELETE FROM target WHERE owner = $1 AND name = $2`
	result, err := tx.Exec(ctx, query, ownerID, name)
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTargetNotFound
	}
	return nil
}

// BeginTx starts a new transaction
func (r *TargetRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}
