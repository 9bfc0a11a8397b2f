package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	// Transaction is a single ledger entry. Amount is signed cents: income
	// entries carry non-negative amounts, expense entries non-positive.
	// Type stays authoritative for display; aggregation uses absolute
	// values for expenses so a mis-signed stored row still sums correctly.
	// Version increments on every write and rides along on sync events so
	// the mirror can discard stale replays.
	Transaction struct {
		ID       string
		Date     Date
		Amount   Money
		Type     TransactionType
		Category string
		Notes    string
		Version  int64
	}

	// Category is a user- or system-defined transaction label.
	// System categories are seeded at account creation and not deletable.
	Category struct {
		ID       string
		Name     string
		Color    string // hex triplet, e.g. #ef4444
		Type     TransactionType
		IsSystem bool
	}

	// Budget is one allocation for a category in a calendar month.
	// Keyed by (Category, Month, Year).
	Budget struct {
		Category  string
		Month     int // 1-12
		Year      int
		Allocated Money
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidColor    = errors.New("invalid color")
	ErrEmptyCategory   = errors.New("empty category")
	ErrSignMismatch    = errors.New("amount sign contradicts transaction type")
	ErrNegativeBudget  = errors.New("budget allocation cannot be negative")
	ErrEmptyCategoryID = errors.New("empty category name")
	ErrNotesTooLong    = errors.New("notes too long (max 500 characters)")
	ErrNameTooLong     = errors.New("category name too long (max 100 characters)")
)

// IsValid reports whether t is one of the two known transaction types.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// NewDate creates a Date at midnight local time, the same zone the month
// window is computed in.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int in 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Normalize derives the amount sign from the transaction type: expenses
// become non-positive, income non-negative. Call before persisting input
// that arrives unsigned.
func (t Transaction) Normalize() Transaction {
	switch t.Type {
	case Expense:
		t.Amount = t.Amount.Abs().Neg()
	case Income:
		t.Amount = t.Amount.Abs()
	}
	return t
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if t.Type == Income && t.Amount.IsNegative() {
		return ErrSignMismatch
	}
	if t.Type == Expense && !t.Amount.IsNegative() {
		return ErrSignMismatch
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Notes) > 500 {
		return ErrNotesTooLong
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryID
	}
	if len(c.Name) > 100 {
		return ErrNameTooLong
	}
	if !c.Type.IsValid() {
		return ErrInvalidType
	}
	if !isHexColor(c.Color) {
		return ErrInvalidColor
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Allocated.IsNegative() {
		return ErrNegativeBudget
	}
	return nil
}

// isHexColor accepts #rgb and #rrggbb triplets.
func isHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
