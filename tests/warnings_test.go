package tests

import (
	"context"
	"sync"
	"testing"

	"github.com/meridianfi/rebalance/internal/models"
	"github.com/meridianfi/rebalance/internal/services"
)

func TestWarningCollector_BasicUsage(t *testing.T) {
	ctx, wc := services.NewWarningContext(context.Background())

	services.AddWarning(ctx, models.Warning{
		Code:    models.WarnUnmappedTicker,
		Message: "test warning 1",
	})
	services.AddWarning(ctx, models.Warning{
		Code:    models.WarnUnmatchedTransaction,
		Message: "test warning 2",
	})

	warnings := wc.GetWarnings()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}

	if warnings[0].Code != models.WarnUnmappedTicker {
		t.Errorf("expected code %s, got %s", models.WarnUnmappedTicker, warnings[0].Code)
	}
	if warnings[1].Code != models.WarnUnmatchedTransaction {
		t.Errorf("expected code %s, got %s", models.WarnUnmatchedTransaction, warnings[1].Code)
	}
}

func TestWarningCollector_NoCollectorNoPanic(t *testing.T) {
	// AddWarning with a plain context should not panic
	ctx := context.Background()
	services.AddWarning(ctx, models.Warning{
		Code:    models.WarnUnmappedTicker,
		Message: "this should be silently dropped",
	})
}

func TestWarningCollector_EmptyByDefault(t *testing.T) {
	_, wc := services.NewWarningContext(context.Background())
	warnings := wc.GetWarnings()
	if len(warnings) != 0 {
		t.Errorf("expected 0 warnings, got %d", len(warnings))
	}
}

func TestWarningCollector_ConcurrentSafe(t *testing.T) {
	ctx, wc := services.NewWarningContext(context.Background())

	var wg sync.WaitGroup
	n := 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			services.AddWarning(ctx, models.Warning{
				Code:    models.WarnUnmappedTicker,
				Message: "concurrent warning",
			})
		}()
	}
	wg.Wait()

	warnings := wc.GetWarnings()
	if len(warnings) != n {
		t.Errorf("expected %d warnings, got %d", n, len(warnings))
	}
}

func TestWarningCollector_ContextPropagation(t *testing.T) {
	// Warnings added deeper in a call chain should still collect
	ctx, wc := services.NewWarningContext(context.Background())

	innerFunc := func(ctx context.Context) {
		services.AddWarning(ctx, models.Warning{
			Code:    models.WarnUnmappedTicker,
			Message: "from inner function",
		})
	}

	middleFunc := func(ctx context.Context) {
		innerFunc(ctx)
		services.AddWarning(ctx, models.Warning{
			Code:    models.WarnAllocationTotal,
			Message: "from middle function",
		})
	}

	middleFunc(ctx)

	warnings := wc.GetWarnings()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings from propagation, got %d", len(warnings))
	}
}
