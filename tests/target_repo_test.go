package tests

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meridianfi/rebalance/internal/models"
	"github.com/meridianfi/rebalance/internal/repository"
)

func storeTestTarget(t *testing.T, ownerID int64, name string, allocations map[models.AssetClass]float64) time.Time {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewTargetRepository(testPool)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	defer tx.Rollback(ctx)

	target := models.NewTarget(allocations)
	updated, err := repo.Upsert(ctx, tx, ownerID, name, &target)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	return updated
}

func TestTargetRepoUpsertAndGet(t *testing.T) {
	requireDB(t)
	const ownerID = int64(920001)
	cleanupTestUser(ownerID)
	defer cleanupTestUser(ownerID)

	storeTestTarget(t, ownerID, "moderate", map[models.AssetClass]float64{
		models.AssetClassCoreUS:     25,
		models.AssetClassSmallCap:   25,
		models.AssetClassRealEstate: 50,
	})

	repo := repository.NewTargetRepository(testPool)
	target, updated, err := repo.GetByName(context.Background(), ownerID, "moderate")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if updated.IsZero() {
		t.Error("expected updated timestamp to be set")
	}
	if target.Len() != 3 {
		t.Fatalf("expected 3 allocations, got %d", target.Len())
	}
	for class, want := range map[models.AssetClass]float64{
		models.AssetClassCoreUS:     25,
		models.AssetClassSmallCap:   25,
		models.AssetClassRealEstate: 50,
	} {
		pct, ok := target.Percentage(class)
		if !ok || math.Abs(pct-want) > 1e-9 {
			t.Errorf("%s: expected %.1f, got %.1f (present=%v)", class, want, pct, ok)
		}
	}
}

// Upserting the same name must replace the allocation set, not merge with it.
func TestTargetRepoUpsertReplaces(t *testing.T) {
	requireDB(t)
	const ownerID = int64(920002)
	cleanupTestUser(ownerID)
	defer cleanupTestUser(ownerID)

	storeTestTarget(t, ownerID, "moderate", map[models.AssetClass]float64{
		models.AssetClassCoreUS: 60,
		models.AssetClassCash:   40,
	})
	storeTestTarget(t, ownerID, "moderate", map[models.AssetClass]float64{
		models.AssetClassRealEstate: 100,
	})

	repo := repository.NewTargetRepository(testPool)
	target, _, err := repo.GetByName(context.Background(), ownerID, "moderate")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if target.Len() != 1 {
		t.Fatalf("expected old allocations to be replaced, got %d classes", target.Len())
	}
	if _, ok := target.Percentage(models.AssetClassCoreUS); ok {
		t.Error("CORE_US should have been removed by the second upsert")
	}
	if pct, ok := target.Percentage(models.AssetClassRealEstate); !ok || pct != 100 {
		t.Errorf("expected REAL_ESTATE at 100, got %.1f (present=%v)", pct, ok)
	}
}

func TestTargetRepoGetMissing(t *testing.T) {
	requireDB(t)
	repo := repository.NewTargetRepository(testPool)
	_, _, err := repo.GetByName(context.Background(), 920003, "nonexistent")
	if !errors.Is(err, repository.ErrTargetNotFound) {
		t.Errorf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestTargetRepoList(t *testing.T) {
	requireDB(t)
	const ownerID = int64(920004)
	cleanupTestUser(ownerID)
	defer cleanupTestUser(ownerID)

	storeTestTarget(t, ownerID, "aggressive", map[models.AssetClass]float64{
		models.AssetClassCoreUS:   70,
		models.AssetClassSmallCap: 30,
	})
	storeTestTarget(t, ownerID, "conservative", map[models.AssetClass]float64{
		models.AssetClassInvestmentGradeBonds: 80,
		models.AssetClassCash:                 20,
	})

	repo := repository.NewTargetRepository(testPool)
	targets, err := repo.List(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	// Name order.
	if targets[0].Name != "aggressive" || targets[1].Name != "conservative" {
		t.Errorf("expected name order, got [%s %s]", targets[0].Name, targets[1].Name)
	}
	if targets[0].Allocations["CORE_US"] != 70 {
		t.Errorf("expected CORE_US 70 in aggressive, got %v", targets[0].Allocations)
	}
	if len(targets[1].Allocations) != 2 {
		t.Errorf("expected 2 allocations in conservative, got %v", targets[1].Allocations)
	}
}

func TestTargetRepoDelete(t *testing.T) {
	requireDB(t)
	const ownerID = int64(920005)
	cleanupTestUser(ownerID)
	defer cleanupTestUser(ownerID)

	storeTestTarget(t, ownerID, "doomed", map[models.AssetClass]float64{
		models.AssetClassCash: 100,
	})

	repo := repository.NewTargetRepository(testPool)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	if err := repo.Delete(ctx, tx, ownerID, "doomed"); err != nil {
		tx.Rollback(ctx)
		t.Fatalf("Delete failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if _, _, err := repo.GetByName(ctx, ownerID, "doomed"); !errors.Is(err, repository.ErrTargetNotFound) {
		t.Errorf("expected ErrTargetNotFound after delete, got %v", err)
	}

	tx, err = repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	defer tx.Rollback(ctx)
	if err := repo.Delete(ctx, tx, ownerID, "doomed"); !errors.Is(err, repository.ErrTargetNotFound) {
		t.Errorf("expected ErrTargetNotFound on second delete, got %v", err)
	}
}

// Targets are scoped per owner; two owners can share a name.
func TestTargetRepoOwnerScoping(t *testing.T) {
	requireDB(t)
	const ownerA = int64(920006)
	const ownerB = int64(920007)
	cleanupTestUser(ownerA)
	cleanupTestUser(ownerB)
	defer cleanupTestUser(ownerA)
	defer cleanupTestUser(ownerB)

	storeTestTarget(t, ownerA, "moderate", map[models.AssetClass]float64{
		models.AssetClassCoreUS: 100,
	})
	storeTestTarget(t, ownerB, "moderate", map[models.AssetClass]float64{
		models.AssetClassCash: 100,
	})

	repo := repository.NewTargetRepository(testPool)
	ctx := context.Background()

	targetA, _, err := repo.GetByName(ctx, ownerA, "moderate")
	if err != nil {
		t.Fatalf("GetByName owner A failed: %v", err)
	}
	if pct, _ := targetA.Percentage(models.AssetClassCoreUS); pct != 100 {
		t.Errorf("owner A target clobbered: %v", targetA.Allocations())
	}

	targetB, _, err := repo.GetByName(ctx, ownerB, "moderate")
	if err != nil {
		t.Fatalf("GetByName owner B failed: %v", err)
	}
	if pct, _ := targetB.Percentage(models.AssetClassCash); pct != 100 {
		t.Errorf("owner B target clobbered: %v", targetB.Allocations())
	}
}
