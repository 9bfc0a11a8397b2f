// Package store defines the persistence ports the rest of the
// application talks to. Concrete backends (memory, SQLite) live in
// subpackages and in internal/storage.
package store

import (
	"context"
	"errors"

	"ledgerly/internal/core"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateName is returned when a category with the same name and
	// type already exists.
	ErrDuplicateName = errors.New("category name already exists")

	// ErrSystemCategory is returned on attempts to modify or delete a
	// system category.
	ErrSystemCategory = errors.New("system categories cannot be modified")
)

// Ports for persistence backends. Method names are unique across
// interfaces so a backend can satisfy all of them at once.
type (
	TransactionStore interface {
		// ListTransactions returns the transactions dated inside the given
		// month, newest first.
		ListTransactions(ctx context.Context, year, month int) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		CreateTransaction(ctx context.Context, tx core.Transaction) error
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, c core.Category) error
		UpdateCategory(ctx context.Context, c core.Category) error
		// DeleteCategory removes a user category. Transactions referencing
		// the deleted name are left untouched.
		DeleteCategory(ctx context.Context, name string, t core.TransactionType) error
	}

	BudgetStore interface {
		FetchBudgets(ctx context.Context, year, month int) ([]core.Budget, error)
		// SetBudgets replaces every allocation for the given month with the
		// provided set.
		SetBudgets(ctx context.Context, year, month int, budgets []core.Budget) error
	}

	SettingsStore interface {
		FetchSettings(ctx context.Context) (core.UserSettings, error)
		SaveSettings(ctx context.Context, s core.UserSettings) error
	}
)
