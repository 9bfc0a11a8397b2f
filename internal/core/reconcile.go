package core

import "sort"

// CategoryBudgetStatus compares one category's allocation against its
// actual spend. Over is derived, never stored.
type CategoryBudgetStatus struct {
	Category  string
	Allocated Money
	Spent     Money
	Over      bool
}

// BudgetReport reconciles a month's budget allocations against actual
// spend.
type BudgetReport struct {
	TotalBudget     Money
	TotalSpent      Money
	RemainingBudget Money

	// Progress is spend as a percentage of budget. Zero when no budget is
	// allocated; above 100 when overspent - the caller decides how to
	// render overage.
	Progress float64

	Categories []CategoryBudgetStatus
}

// ReconcileBudgets merges a sparse allocation mapping with the summary's
// per-category spend. TotalSpent is the summary's total expenses, not the
// sum over budgeted categories: spend in an unbudgeted category still
// counts. Statuses cover categories with a non-zero allocation, sorted by
// name for deterministic output; a missing spend entry reads as zero.
func ReconcileBudgets(allocations map[string]Money, summary MonthSummary) BudgetReport {
	r := BudgetReport{TotalSpent: summary.TotalExpenses}

	names := make([]string, 0, len(allocations))
	for name, amount := range allocations {
		r.TotalBudget = r.TotalBudget.Add(amount)
		if !amount.IsZero() {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		allocated := allocations[name]
		spent := summary.ExpensesByCategory[name]
		r.Categories = append(r.Categories, CategoryBudgetStatus{
			Category:  name,
			Allocated: allocated,
			Spent:     spent,
			Over:      spent.Cents > allocated.Cents,
		})
	}

	r.RemainingBudget = r.TotalBudget.Sub(r.TotalSpent)
	if !r.TotalBudget.IsZero() {
		r.Progress = float64(r.TotalSpent.Cents) / float64(r.TotalBudget.Cents) * 100
	}
	return r
}
