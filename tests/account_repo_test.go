package tests

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/meridianfi/rebalance/internal/models"
	"github.com/meridianfi/rebalance/internal/repository"
)

func TestAccountRepoCreateAndGet(t *testing.T) {
	requireDB(t)
	const ownerID = int64(910001)
	cleanupTestUser(ownerID)
	defer cleanupTestUser(ownerID)

	holdings := []models.Investment{
		fund("CRISX", models.AssetClassSmallCap, "CRM SMALL CAP VALUE", 500, 10),
		fund("FSKAX", models.AssetClassCoreUS, "FIDELITY TOTAL MARKET", 1000, 10),
		fund("CASH", models.AssetClassCash, "CASH", 5000, 1),
	}
	created := createTestAccount(t, ownerID, "401(K)", "ACME", true, holdings)
	if created.ID == 0 {
		t.Fatal("expected account ID to be assigned on create")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected created/updated timestamps to be set")
	}

	repo := repository.NewAccountRepository(testPool)
	got, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "401(K)" || got.Institution != "ACME" || !got.Taxable {
		t.Errorf("account metadata mismatch: %+v", got)
	}
	if got.OwnerID != ownerID {
		t.Errorf("expected owner %d, got %d", ownerID, got.OwnerID)
	}

	gotHoldings := got.Holdings()
	if len(gotHoldings) != len(holdings) {
		t.Fatalf("expected %d holdings, got %d", len(holdings), len(gotHoldings))
	}
	for i, want := range holdings {
		if !gotHoldings[i].Equal(want) {
			t.Errorf("holding %d: expected %+v, got %+v", i, want, gotHoldings[i])
		}
	}
	if math.Abs(got.Value()-16000) > 1e-9 {
		t.Errorf("expected account value 16000, got %f", got.Value())
	}
}

func TestAccountRepoGetByIDNotFound(t *testing.T) {
	requireDB(t)
	repo := repository.NewAccountRepository(testPool)
	_, err := repo.GetByID(context.Background(), 999999999)
	if !errors.Is(err, repository.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepoGetByName(t *testing.T) {
	requireDB(t)
	const ownerID = int64(910002)
	cleanupTestUser(ownerID)
	defer cleanupTestUser(ownerID)

	createTestAccount(t, ownerID, "IRA", "INDIVIDUAL", false, []models.Investment{
		fund("VNQ", models.AssetClassRealEstate, "VANGUARD REIT", 2000, 10),
	})

	repo := repository.NewAccountRepository(testPool)
	ctx := context.Background()

	got, err := repo.GetByName(ctx, ownerID, "INDIVIDUAL", "IRA")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected account, got nil")
	}
	if got.NumHoldings() != 1 {
		t.Errorf("expected holdings to be loaded, got %d", got.NumHoldings())
	}

	missing, err := repo.GetByName(ctx, ownerID, "INDIVIDUAL", "Roth IRA")
	if err != nil {
		t.Fatalf("GetByName for absent account failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for absent account, got %+v", missing)
	}
}

// Holding order is the indexing basis for optimization, so it must survive a
// round trip through storage exactly, including after a wholesale replace.
func TestAccountRepoHoldingOrderRoundTrip(t *testing.T) {
	requireDB(t)
	const ownerID = int64(910003)
	cleanupTestUser(ownerID)
	defer cleanupTestUser(ownerID)

	// Deliberately not alphabetical or by value.
	holdings := []models.Investment{
		fund("VNQ", models.AssetClassRealEstate, "VANGUARD REIT", 30, 85),
		fund("CASH", models.AssetClassCash, "CASH", 1200, 1),
		fund("FSKAX", models.AssetClassCoreUS, "FIDELITY TOTAL MARKET", 10, 110.25),
		fund("CRISX", models.AssetClassSmallCap, "CRM SMALL CAP VALUE", 55, 12.5),
	}
	account := createTestAccount(t, ownerID, "Brokerage", "SCHWAB", true, holdings)

	repo := repository.NewAccountRepository(testPool)
	ctx := context.Background()

	got, err := repo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	for i, h := range got.Holdings() {
		if h.Fund.Ticker != holdings[i].Fund.Ticker {
			t.Errorf("position %d: expected %s, got %s", i, holdings[i].Fund.Ticker, h.Fund.Ticker)
		}
	}

	// Replace with the reverse order and confirm the new order sticks.
	reversed := make([]models.Investment, len(holdings))
	for i, h := range holdings {
		reversed[len(holdings)-1-i] = h
	}
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	if err := repo.ReplaceHoldings(ctx, tx, account.ID, reversed); err != nil {
		tx.Rollback(ctx)
		t.Fatalf("ReplaceHoldings failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	got, err = repo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetByID after replace failed: %v", err)
	}
	for i, h := range got.Holdings() {
		if h.Fund.Ticker != reversed[i].Fund.Ticker {
			t.Errorf("position %d after replace: expected %s, got %s", i, reversed[i].Fund.Ticker, h.Fund.Ticker)
		}
	}
	if !got.UpdatedAt.After(account.UpdatedAt) {
		t.Error("expected ReplaceHoldings to touch the account's updated timestamp")
	}
}

func TestAccountRepoListByUser(t *testing.T) {
	requireDB(t)
	const ownerID = int64(910004)
	cleanupTestUser(ownerID)
	defer cleanupTestUser(ownerID)

	createTestAccount(t, ownerID, "401(K)", "ACME", true, []models.Investment{
		fund("FSKAX", models.AssetClassCoreUS, "FIDELITY TOTAL MARKET", 1000, 10),
		fund("CASH", models.AssetClassCash, "CASH", 5000, 1),
	})
	createTestAccount(t, ownerID, "IRA", "INDIVIDUAL", false, []models.Investment{
		fund("VNQ", models.AssetClassRealEstate, "VANGUARD REIT", 2000, 10),
	})

	repo := repository.NewAccountRepository(testPool)
	items, err := repo.GetByUserID(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(items))
	}
	// Creation order.
	if items[0].Name != "401(K)" || items[1].Name != "IRA" {
		t.Errorf("expected creation order [401(K) IRA], got [%s %s]", items[0].Name, items[1].Name)
	}
	if items[0].NumHoldings != 2 || items[1].NumHoldings != 1 {
		t.Errorf("holding counts wrong: %d, %d", items[0].NumHoldings, items[1].NumHoldings)
	}
	if math.Abs(items[0].Value-15000) > 1e-9 {
		t.Errorf("expected first account value 15000, got %f", items[0].Value)
	}
	if math.Abs(items[1].Value-20000) > 1e-9 {
		t.Errorf("expected second account value 20000, got %f", items[1].Value)
	}
}

func TestAccountRepoGetAllByUserID(t *testing.T) {
	requireDB(t)
	const ownerID = int64(910005)
	cleanupTestUser(ownerID)
	defer cleanupTestUser(ownerID)

	createTestAccount(t, ownerID, "First", "ACME", true, []models.Investment{
		fund("CASH", models.AssetClassCash, "CASH", 100, 1),
	})
	createTestAccount(t, ownerID, "Second", "ACME", false, []models.Investment{
		fund("VNQ", models.AssetClassRealEstate, "VANGUARD REIT", 5, 80),
		fund("VWO", models.AssetClassEmergingMarkets, "VANGUARD EM", 7, 40),
	})

	repo := repository.NewAccountRepository(testPool)
	accounts, err := repo.GetAllByUserID(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("GetAllByUserID failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Name != "First" || accounts[1].Name != "Second" {
		t.Errorf("expected creation order, got [%s %s]", accounts[0].Name, accounts[1].Name)
	}
	if accounts[0].NumHoldings() != 1 || accounts[1].NumHoldings() != 2 {
		t.Error("expected holdings to be loaded for every account")
	}
	second := accounts[1].Holdings()
	if second[0].Fund.Ticker != "VNQ" || second[1].Fund.Ticker != "VWO" {
		t.Errorf("holdings out of order: %s, %s", second[0].Fund.Ticker, second[1].Fund.Ticker)
	}
}

func TestAccountRepoDelete(t *testing.T) {
	requireDB(t)
	const ownerID = int64(910006)
	cleanupTestUser(ownerID)
	defer cleanupTestUser(ownerID)

	account := createTestAccount(t, ownerID, "Doomed", "ACME", true, []models.Investment{
		fund("CASH", models.AssetClassCash, "CASH", 10, 1),
	})

	repo := repository.NewAccountRepository(testPool)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	if err := repo.Delete(ctx, tx, account.ID); err != nil {
		tx.Rollback(ctx)
		t.Fatalf("Delete failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if _, err := repo.GetByID(ctx, account.ID); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound after delete, got %v", err)
	}

	// Cascade should have removed the holdings too.
	var count int
	if err := testPool.QueryRow(ctx, `SELECT COUNT(*) FROM holding WHERE account_id = $1`, account.ID).Scan(&count); err != nil {
		t.Fatalf("counting holdings failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected holdings cascade delete, %d rows remain", count)
	}

	tx, err = repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	defer tx.Rollback(ctx)
	if err := repo.Delete(ctx, tx, account.ID); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound on second delete, got %v", err)
	}
}
