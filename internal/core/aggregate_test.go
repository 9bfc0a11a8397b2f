package core

import (
	"testing"
	"time"
)

func marchLedger() []Transaction {
	return []Transaction{
		{ID: "t1", Date: NewDate(2024, 3, 1), Amount: Money{Cents: 100000}, Type: Income, Category: "Salary"},
		{ID: "t2", Date: NewDate(2024, 3, 5), Amount: Money{Cents: -30000}, Type: Expense, Category: "Groceries"},
	}
}

func marchCategories() []Category {
	return []Category{
		{Name: "Salary", Color: "#22c55e", Type: Income, IsSystem: true},
		{Name: "Groceries", Color: "#ef4444", Type: Expense, IsSystem: true},
	}
}

func TestSummarizeMonth(t *testing.T) {
	s := SummarizeMonth(marchLedger(), marchCategories(), DefaultSettings(), 2024, 3)

	if s.TotalIncome.Cents != 100000 {
		t.Fatalf("TotalIncome = %d, want 100000", s.TotalIncome.Cents)
	}
	if s.TotalExpenses.Cents != 30000 {
		t.Fatalf("TotalExpenses = %d, want 30000", s.TotalExpenses.Cents)
	}
	if s.NetBalance.Cents != 70000 {
		t.Fatalf("NetBalance = %d, want 70000", s.NetBalance.Cents)
	}
	if got := s.ExpensesByCategory["Groceries"].Cents; got != 30000 {
		t.Fatalf("ExpensesByCategory[Groceries] = %d, want 30000", got)
	}
	if len(s.ExpensesByCategory) != 1 {
		t.Fatalf("ExpensesByCategory has %d entries, want 1", len(s.ExpensesByCategory))
	}
}

func TestSummarizeMonthNetIdentity(t *testing.T) {
	txs := []Transaction{
		{Date: NewDate(2024, 3, 2), Amount: Money{Cents: 50000}, Type: Income, Category: "Salary"},
		{Date: NewDate(2024, 3, 3), Amount: Money{Cents: 2500}, Type: Income, Category: "Interest"},
		{Date: NewDate(2024, 3, 9), Amount: Money{Cents: -1999}, Type: Expense, Category: "Groceries"},
		{Date: NewDate(2024, 3, 20), Amount: Money{Cents: -120000}, Type: Expense, Category: "Rent"},
	}
	s := SummarizeMonth(txs, nil, DefaultSettings(), 2024, 3)
	if s.NetBalance != s.TotalIncome.Sub(s.TotalExpenses) {
		t.Fatalf("net identity broken: %v != %v - %v", s.NetBalance, s.TotalIncome, s.TotalExpenses)
	}
}

func TestSummarizeMonthWindowIsClosedInterval(t *testing.T) {
	txs := []Transaction{
		{Date: NewDate(2024, 3, 1), Amount: Money{Cents: -100}, Type: Expense, Category: "Groceries"},  // first day
		{Date: NewDate(2024, 3, 31), Amount: Money{Cents: -100}, Type: Expense, Category: "Groceries"}, // last day
		{Date: NewDate(2024, 2, 29), Amount: Money{Cents: -100}, Type: Expense, Category: "Groceries"}, // prior month
		{Date: NewDate(2024, 4, 1), Amount: Money{Cents: -100}, Type: Expense, Category: "Groceries"},  // next month
	}
	s := SummarizeMonth(txs, marchCategories(), DefaultSettings(), 2024, 3)
	if s.TotalExpenses.Cents != 200 {
		t.Fatalf("TotalExpenses = %d, want 200 (boundary days included, neighbors excluded)", s.TotalExpenses.Cents)
	}
}

func TestSummarizeMonthExpenseSignsIgnored(t *testing.T) {
	// Stored sign must not matter for expense totals: type is authoritative.
	txs := []Transaction{
		{Date: NewDate(2024, 3, 5), Amount: Money{Cents: 30000}, Type: Expense, Category: "Groceries"},
		{Date: NewDate(2024, 3, 6), Amount: Money{Cents: -5000}, Type: Expense, Category: "Groceries"},
	}
	s := SummarizeMonth(txs, marchCategories(), DefaultSettings(), 2024, 3)
	if s.TotalExpenses.Cents != 35000 {
		t.Fatalf("TotalExpenses = %d, want 35000", s.TotalExpenses.Cents)
	}
	for name, amount := range s.ExpensesByCategory {
		if amount.IsNegative() {
			t.Fatalf("ExpensesByCategory[%s] = %d, want non-negative", name, amount.Cents)
		}
	}
}

func TestSummarizeMonthOrphanFallsBackToOther(t *testing.T) {
	txs := []Transaction{
		{Date: NewDate(2024, 3, 5), Amount: Money{Cents: -1500}, Type: Expense, Category: "Deleted Category"},
	}
	s := SummarizeMonth(txs, marchCategories(), DefaultSettings(), 2024, 3)
	if got := s.ExpensesByCategory[FallbackCategory].Cents; got != 1500 {
		t.Fatalf("ExpensesByCategory[%s] = %d, want 1500", FallbackCategory, got)
	}
}

func TestSummarizeMonthEmptyLedger(t *testing.T) {
	s := SummarizeMonth(nil, nil, DefaultSettings(), 2024, 3)
	if s.TotalIncome.Cents != 0 || s.TotalExpenses.Cents != 0 || s.NetBalance.Cents != 0 {
		t.Fatalf("expected all-zero aggregates, got %+v", s)
	}
	if len(s.ExpensesByCategory) != 0 {
		t.Fatalf("expected empty category map, got %v", s.ExpensesByCategory)
	}
}

func TestSummarizeMonthSavings(t *testing.T) {
	cases := []struct {
		name        string
		settings    UserSettings
		wantSaving  int64
		wantCurrent int64
		wantBalance int64
	}{
		{
			name:        "auto saving, no current savings",
			settings:    UserSettings{SavingTarget: AutoSavingTarget()},
			wantSaving:  70000, // falls back to net balance
			wantCurrent: 0,
			wantBalance: 70000,
		},
		{
			name:        "fixed saving overrides net balance",
			settings:    UserSettings{SavingTarget: FixedSavingTarget(Money{Cents: 20000}), CurrentSavings: Money{Cents: 5000}},
			wantSaving:  20000,
			wantCurrent: 5000,
			wantBalance: 25000,
		},
		{
			name:        "explicit zero is not auto",
			settings:    UserSettings{SavingTarget: FixedSavingTarget(Money{})},
			wantSaving:  0,
			wantCurrent: 0,
			wantBalance: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := SummarizeMonth(marchLedger(), marchCategories(), tc.settings, 2024, 3)
			if s.SavingAmount.Cents != tc.wantSaving {
				t.Fatalf("SavingAmount = %d, want %d", s.SavingAmount.Cents, tc.wantSaving)
			}
			if s.CurrentSavings.Cents != tc.wantCurrent {
				t.Fatalf("CurrentSavings = %d, want %d", s.CurrentSavings.Cents, tc.wantCurrent)
			}
			if s.SavingsBalance.Cents != tc.wantBalance {
				t.Fatalf("SavingsBalance = %d, want %d", s.SavingsBalance.Cents, tc.wantBalance)
			}
		})
	}
}

func TestGroupByDay(t *testing.T) {
	txs := []Transaction{
		{ID: "a", Date: NewDate(2024, 3, 5), Amount: Money{Cents: -100}, Type: Expense, Category: "Groceries"},
		{ID: "b", Date: NewDate(2024, 3, 9), Amount: Money{Cents: 500}, Type: Income, Category: "Salary"},
		{ID: "c", Date: NewDate(2024, 3, 5), Amount: Money{Cents: -200}, Type: Expense, Category: "Transport"},
	}
	groups := GroupByDay(txs)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Date.Day() != 9 || groups[1].Date.Day() != 5 {
		t.Fatalf("days not descending: %d, %d", groups[0].Date.Day(), groups[1].Date.Day())
	}
	if groups[1].Total.Cents != -300 {
		t.Fatalf("day total = %d, want -300", groups[1].Total.Cents)
	}
	if groups[1].Transactions[0].ID != "a" || groups[1].Transactions[1].ID != "c" {
		t.Fatal("input order not preserved within day")
	}
}

func TestMonthWindowMatchesNewDateInAnyZone(t *testing.T) {
	restore := time.Local
	defer func() { time.Local = restore }()

	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC-5", -5*60*60),
		time.FixedZone("UTC+9", 9*60*60),
	}
	for _, zone := range zones {
		time.Local = zone

		start, end := MonthWindow(2024, 3)
		for _, d := range []Date{NewDate(2024, 3, 1), NewDate(2024, 3, 31)} {
			if !d.InWindow(start, end) {
				t.Fatalf("%v outside [%v, %v] in zone %v", d.Time, start, end, zone)
			}
		}

		txs := []Transaction{
			{Date: NewDate(2024, 3, 1), Amount: Money{Cents: -100}, Type: Expense, Category: "Groceries"},
		}
		s := SummarizeMonth(txs, nil, DefaultSettings(), 2024, 3)
		if s.TotalExpenses.Cents != 100 {
			t.Fatalf("first-of-month expense dropped in zone %v: TotalExpenses = %d", zone, s.TotalExpenses.Cents)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2024, 2)
	if start.Day() != 1 || int(start.Month()) != 2 {
		t.Fatalf("start = %v", start)
	}
	if end.Day() != 29 || int(end.Month()) != 2 { // 2024 is a leap year
		t.Fatalf("end = %v", end)
	}
	if !end.After(start) {
		t.Fatal("end not after start")
	}
}
