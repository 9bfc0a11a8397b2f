package memory

import (
	"context"
	"errors"
	"testing"

	"ledgerly/internal/core"
	"ledgerly/internal/store"
)

func TestTransactionLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	tx := core.Transaction{
		ID:       "t1",
		Date:     core.NewDate(2024, 3, 5),
		Amount:   core.Money{Cents: -30000},
		Type:     core.Expense,
		Category: "Groceries",
	}
	if err := s.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetTransaction(ctx, "t1")
	if err != nil || got.Amount.Cents != -30000 {
		t.Fatalf("get: %+v, %v", got, err)
	}

	tx.Amount = core.Money{Cents: -35000}
	if err := s.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.GetTransaction(ctx, "t1")
	if got.Amount.Cents != -35000 {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := s.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListTransactionsFiltersMonth(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, tx := range []core.Transaction{
		{ID: "in1", Date: core.NewDate(2024, 3, 1), Amount: core.Money{Cents: -100}, Type: core.Expense, Category: "c"},
		{ID: "in2", Date: core.NewDate(2024, 3, 31), Amount: core.Money{Cents: -100}, Type: core.Expense, Category: "c"},
		{ID: "out1", Date: core.NewDate(2024, 2, 29), Amount: core.Money{Cents: -100}, Type: core.Expense, Category: "c"},
		{ID: "out2", Date: core.NewDate(2024, 4, 1), Amount: core.Money{Cents: -100}, Type: core.Expense, Category: "c"},
	} {
		if err := s.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("create %s: %v", tx.ID, err)
		}
	}

	txs, err := s.ListTransactions(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].ID != "in2" || txs[1].ID != "in1" {
		t.Fatalf("not newest first: %s, %s", txs[0].ID, txs[1].ID)
	}
}

func TestCategoryRules(t *testing.T) {
	s := NewWithDefaults()
	ctx := context.Background()

	cats, err := s.ListCategories(ctx)
	if err != nil || len(cats) == 0 {
		t.Fatalf("expected seeded categories, got %d, %v", len(cats), err)
	}

	custom := core.Category{ID: "cat-pets", Name: "Pets", Color: "#a855f7", Type: core.Expense}
	if err := s.CreateCategory(ctx, custom); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateCategory(ctx, custom); !errors.Is(err, store.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	// Same name under the other type is a distinct category.
	if err := s.CreateCategory(ctx, core.Category{ID: "cat-pets-inc", Name: "Pets", Color: "#a855f7", Type: core.Income}); err != nil {
		t.Fatalf("same name, other type: %v", err)
	}

	if err := s.DeleteCategory(ctx, "Groceries", core.Expense); !errors.Is(err, store.ErrSystemCategory) {
		t.Fatalf("expected ErrSystemCategory, got %v", err)
	}
	if err := s.UpdateCategory(ctx, core.Category{ID: "cat-groceries", Name: "Food", Color: "#ef4444", Type: core.Expense}); !errors.Is(err, store.ErrSystemCategory) {
		t.Fatalf("expected ErrSystemCategory on update, got %v", err)
	}

	custom.Color = "#16a34a"
	if err := s.UpdateCategory(ctx, custom); err != nil {
		t.Fatalf("update custom: %v", err)
	}
	if err := s.DeleteCategory(ctx, "Pets", core.Expense); err != nil {
		t.Fatalf("delete custom: %v", err)
	}
	if err := s.DeleteCategory(ctx, "Pets", core.Expense); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetBudgetsReplacesMonth(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := []core.Budget{
		{Category: "Groceries", Month: 3, Year: 2024, Allocated: core.Money{Cents: 25000}},
		{Category: "Rent", Month: 3, Year: 2024, Allocated: core.Money{Cents: 120000}},
	}
	if err := s.SetBudgets(ctx, 2024, 3, first); err != nil {
		t.Fatalf("set: %v", err)
	}
	other := []core.Budget{{Category: "Rent", Month: 4, Year: 2024, Allocated: core.Money{Cents: 120000}}}
	if err := s.SetBudgets(ctx, 2024, 4, other); err != nil {
		t.Fatalf("set other month: %v", err)
	}

	// Full replace: Rent's March allocation disappears.
	replacement := []core.Budget{{Category: "Groceries", Month: 3, Year: 2024, Allocated: core.Money{Cents: 30000}}}
	if err := s.SetBudgets(ctx, 2024, 3, replacement); err != nil {
		t.Fatalf("replace: %v", err)
	}

	march, _ := s.FetchBudgets(ctx, 2024, 3)
	if len(march) != 1 || march[0].Category != "Groceries" || march[0].Allocated.Cents != 30000 {
		t.Fatalf("unexpected march budgets: %+v", march)
	}
	april, _ := s.FetchBudgets(ctx, 2024, 4)
	if len(april) != 1 {
		t.Fatalf("april budgets must survive a march replace: %+v", april)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	got, err := s.FetchSettings(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !got.SavingTarget.Auto {
		t.Fatal("fresh store should default to auto saving")
	}

	got.Theme = "dark"
	got.SavingTarget = core.FixedSavingTarget(core.Money{Cents: 20000})
	got.CurrentSavings = core.Money{Cents: 5000}
	if err := s.SaveSettings(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}

	again, _ := s.FetchSettings(ctx)
	if again.Theme != "dark" || again.SavingTarget.Auto || again.SavingTarget.Amount.Cents != 20000 {
		t.Fatalf("settings did not round trip: %+v", again)
	}
}
