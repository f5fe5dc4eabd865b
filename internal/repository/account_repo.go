package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridianfi/rebalance/internal/models"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountConflict = errors.New("account with same name and institution already exists for this user")
)

// AccountRepository handles database operations for accounts and their
// holdings. Holding rows carry a position column because holding order is
// the indexing basis for optimization; reads always return holdings in
// stored position order.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account along with its holdings
func (r *AccountRepository) Create(ctx context.Context, tx pgx.Tx, a *models.Account) error {
	query := `
		INSERT INTO account (owner, name, institution, taxable, created, updated)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created, updated
	`
	err := tx.QueryRow(ctx, query, a.OwnerID, a.Name, a.Institution, a.Taxable).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return r.insertHoldings(ctx, tx, a.ID, a.Holdings())
}

// GetByID retrieves an account and its holdings by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `
		SELECT id, owner, name, institution, taxable, created, updated
		FROM account
		WHERE id = $1
	`
	a := &models.Account{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.Institution, &a.Taxable, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	holdings, err := r.loadHoldings(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.SetHoldings(holdings)
	return a, nil
}

// GetByName checks whether an account with this institution and name exists
// for a user. Returns nil without error when none does.
func (r *AccountRepository) GetByName(ctx context.Context, ownerID int64, institution, name string) (*models.Account, error) {
	query := `
		SELECT id, owner, name, institution, taxable, created, updated
		FROM account
		WHERE owner = $1 AND institution = $2 AND name = $3
	`
	a := &models.Account{}
	err := r.pool.QueryRow(ctx, query, ownerID, institution, name).Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.Institution, &a.Taxable, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check account: %w", err)
	}
	holdings, err := r.loadHoldings(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.SetHoldings(holdings)
	return a, nil
}

// GetByUserID retrieves all accounts for a user (metadata only)
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) ([]models.AccountListItem, error) {
	query := `
		SELECT a.id, a.name, a.institution, a.taxable, a.created, a.updated,
		       COUNT(h.id), COALESCE(SUM(h.shares * h.share_price), 0)
		FROM account a
		LEFT JOIN holding h ON h.account_id = a.id
		WHERE a.owner = $1
		GROUP BY a.id
		ORDER BY a.created ASC, a.id ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.AccountListItem
	for rows.Next() {
		var a models.AccountListItem
		if err := rows.Scan(&a.ID, &a.Name, &a.Institution, &a.Taxable, &a.CreatedAt, &a.UpdatedAt, &a.NumHoldings, &a.Value); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetAllByUserID retrieves all accounts for a user with their holdings, in
// creation order. This is the account set optimization runs against.
func (r *AccountRepository) GetAllByUserID(ctx context.Context, userID int64) ([]*models.Account, error) {
	query := `
		SELECT id, owner, name, institution, taxable, created, updated
		FROM account
		WHERE owner = $1
		ORDER BY created ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		a := &models.Account{}
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Institution, &a.Taxable, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, a := range accounts {
		holdings, err := r.loadHoldings(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		a.SetHoldings(holdings)
	}
	return accounts, nil
}

// Update updates account metadata
func (r *AccountRepository) Update(ctx context.Context, tx pgx.Tx, a *models.Account) error {
	query := `
		UPDATE account
		SET name = $1, institution = $2, taxable = $3, updated = NOW()
		WHERE id = $4
		RETURNING updated
	`
	err := tx.QueryRow(ctx, query, a.Name, a.Institution, a.Taxable, a.ID).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAccountNotFound
	}
	return err
}

// Delete deletes an account; holdings go with it via cascade
func (r *AccountRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	query := `DELETE FROM account WHERE id = $1`
	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ReplaceHoldings replaces an account's holdings wholesale, preserving the
// order of the given slice
func (r *AccountRepository) ReplaceHoldings(ctx context.Context, tx pgx.Tx, accountID int64, holdings []models.Investment) error {
	query := `DELETE FROM holding WHERE account_id = $1`
	if _, err := tx.Exec(ctx, query, accountID); err != nil {
		return fmt.Errorf("failed to clear holdings: %w", err)
	}
	if err := r.insertHoldings(ctx, tx, accountID, holdings); err != nil {
		return err
	}
	touch := `UPDATE account SET updated = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, touch, accountID); err != nil {
		return fmt.Errorf("failed to touch account: %w", err)
	}
	return nil
}

func (r *AccountRepository) insertHoldings(ctx context.Context, tx pgx.Tx, accountID int64, holdings []models.Investment) error {
	query := `
		INSERT INTO holding (account_id, position, ticker, asset_class, fund_name, share_price, shares)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, h := range holdings {
		_, err := tx.Exec(ctx, query, accountID, i, h.Fund.Ticker, h.Fund.AssetClass, h.Fund.Name, h.Fund.SharePrice, h.Shares)
		if err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", h.Fund.Ticker, err)
		}
	}
	return nil
}

func (r *AccountRepository) loadHoldings(ctx context.Context, accountID int64) ([]models.Investment, error) {
	query := `
		SELECT ticker, asset_class, fund_name, share_price, shares
		FROM holding
		WHERE account_id = $1
		ORDER BY position ASC
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []models.Investment
	for rows.Next() {
		var h models.Investment
		if err := rows.Scan(&h.Fund.Ticker, &h.Fund.AssetClass, &h.Fund.Name, &h.Fund.SharePrice, &h.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// BeginTx starts a new transaction
func (r *AccountRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}
