package core

import "testing"

func TestReconcileBudgets(t *testing.T) {
	summary := MonthSummary{
		TotalExpenses: Money{Cents: 30000},
		ExpensesByCategory: map[string]Money{
			"Groceries": {Cents: 30000},
		},
	}
	report := ReconcileBudgets(map[string]Money{"Groceries": {Cents: 25000}}, summary)

	if report.TotalBudget.Cents != 25000 {
		t.Fatalf("TotalBudget = %d, want 25000", report.TotalBudget.Cents)
	}
	if report.TotalSpent.Cents != 30000 {
		t.Fatalf("TotalSpent = %d, want 30000", report.TotalSpent.Cents)
	}
	if report.RemainingBudget.Cents != -5000 {
		t.Fatalf("RemainingBudget = %d, want -5000", report.RemainingBudget.Cents)
	}
	if report.Progress != 120 {
		t.Fatalf("Progress = %v, want 120", report.Progress)
	}
	if len(report.Categories) != 1 {
		t.Fatalf("got %d statuses, want 1", len(report.Categories))
	}
	if !report.Categories[0].Over {
		t.Fatal("Groceries should be flagged as over budget")
	}
}

func TestReconcileBudgetsZeroBudget(t *testing.T) {
	summary := MonthSummary{TotalExpenses: Money{Cents: 4200}}
	report := ReconcileBudgets(nil, summary)

	if report.Progress != 0 {
		t.Fatalf("Progress = %v, want 0 when nothing is budgeted", report.Progress)
	}
	if report.RemainingBudget.Cents != -4200 {
		t.Fatalf("RemainingBudget = %d, want -4200", report.RemainingBudget.Cents)
	}
	if len(report.Categories) != 0 {
		t.Fatalf("got %d statuses, want 0", len(report.Categories))
	}
}

func TestReconcileBudgetsUnbudgetedSpendStillCounts(t *testing.T) {
	summary := MonthSummary{
		TotalExpenses: Money{Cents: 50000},
		ExpensesByCategory: map[string]Money{
			"Groceries": {Cents: 20000},
			"Travel":    {Cents: 30000},
		},
	}
	report := ReconcileBudgets(map[string]Money{"Groceries": {Cents: 25000}}, summary)

	if report.TotalSpent.Cents != 50000 {
		t.Fatalf("TotalSpent = %d, want 50000 (unbudgeted spend included)", report.TotalSpent.Cents)
	}
	if report.Categories[0].Over {
		t.Fatal("Groceries under allocation should not be flagged")
	}
}

func TestReconcileBudgetsZeroAllocationHidden(t *testing.T) {
	summary := MonthSummary{ExpensesByCategory: map[string]Money{"Groceries": {Cents: 100}}}
	report := ReconcileBudgets(map[string]Money{
		"Groceries": {Cents: 0},
		"Rent":      {Cents: 120000},
	}, summary)

	if len(report.Categories) != 1 || report.Categories[0].Category != "Rent" {
		t.Fatalf("expected only Rent in statuses, got %+v", report.Categories)
	}
}

func TestReconcileBudgetsSortedByName(t *testing.T) {
	report := ReconcileBudgets(map[string]Money{
		"Transport": {Cents: 100},
		"Groceries": {Cents: 100},
		"Rent":      {Cents: 100},
	}, MonthSummary{})

	want := []string{"Groceries", "Rent", "Transport"}
	for i, name := range want {
		if report.Categories[i].Category != name {
			t.Fatalf("Categories[%d] = %s, want %s", i, report.Categories[i].Category, name)
		}
	}
}

func TestReconcileBudgetsMissingSpendReadsZero(t *testing.T) {
	report := ReconcileBudgets(map[string]Money{"Rent": {Cents: 120000}}, MonthSummary{})
	if report.Categories[0].Spent.Cents != 0 {
		t.Fatalf("Spent = %d, want 0", report.Categories[0].Spent.Cents)
	}
	if report.Categories[0].Over {
		t.Fatal("zero spend must not flag over")
	}
}
