package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:       "t1",
		Date:     NewDate(2024, 3, 5),
		Amount:   Money{Cents: -30000},
		Type:     Expense,
		Category: "Groceries",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{}, Amount: Money{Cents: -1}, Type: Expense, Category: "c"},                  // zero date
		{Date: NewDate(2024, 1, 1), Amount: Money{Cents: 0}, Type: Expense, Category: "c"},      // zero amount
		{Date: NewDate(2024, 1, 1), Amount: Money{Cents: -1}, Type: "transfer", Category: "c"},  // bad type
		{Date: NewDate(2024, 1, 1), Amount: Money{Cents: -1}, Type: Income, Category: "c"},      // sign mismatch
		{Date: NewDate(2024, 1, 1), Amount: Money{Cents: 100}, Type: Expense, Category: "c"},    // sign mismatch
		{Date: NewDate(2024, 1, 1), Amount: Money{Cents: 100}, Type: Income, Category: "   "},   // empty category
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionNormalize(t *testing.T) {
	cases := []struct {
		in   Transaction
		want int64
	}{
		{Transaction{Amount: Money{Cents: 30000}, Type: Expense}, -30000},
		{Transaction{Amount: Money{Cents: -30000}, Type: Expense}, -30000},
		{Transaction{Amount: Money{Cents: -100000}, Type: Income}, 100000},
		{Transaction{Amount: Money{Cents: 100000}, Type: Income}, 100000},
	}
	for i, tc := range cases {
		got := tc.in.Normalize().Amount.Cents
		if got != tc.want {
			t.Fatalf("case %d: got %d, want %d", i, got, tc.want)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	good := Category{Name: "Groceries", Color: "#ef4444", Type: Expense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: "Tips", Color: "#0f0", Type: Income}).Validate(); err != nil {
		t.Fatalf("short hex triplet should be valid, got %v", err)
	}

	bads := []Category{
		{Name: "", Color: "#ef4444", Type: Expense},
		{Name: "x", Color: "ef4444", Type: Expense},   // missing #
		{Name: "x", Color: "#ef44", Type: Expense},    // bad length
		{Name: "x", Color: "#gggggg", Type: Expense},  // non-hex digits
		{Name: "x", Color: "#ef4444", Type: "system"}, // bad type
	}
	for i, c := range bads {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Groceries", Month: 3, Year: 2024, Allocated: Money{Cents: 25000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Budget{Category: "Groceries", Month: 3, Year: 2024}).Validate(); err != nil {
		t.Fatalf("zero allocation is allowed, got %v", err)
	}

	bads := []Budget{
		{Category: "", Month: 3, Year: 2024},
		{Category: "c", Month: 0, Year: 2024},
		{Category: "c", Month: 13, Year: 2024},
		{Category: "c", Month: 3, Year: 2024, Allocated: Money{Cents: -1}},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
