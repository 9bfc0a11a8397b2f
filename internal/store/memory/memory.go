// Package memory provides an in-memory backend. It holds everything
// behind a single mutex and is the default backend for local runs and
// handler tests.
package memory

import (
	"context"
	"sync"

	"ledgerly/internal/core"
	"ledgerly/internal/store"
)

type Store struct {
	mu       sync.Mutex
	txs      map[string]core.Transaction
	cats     []core.Category
	budgets  []core.Budget
	settings core.UserSettings
}

func New() *Store {
	return &Store{
		txs:      make(map[string]core.Transaction),
		settings: core.DefaultSettings(),
	}
}

// NewWithDefaults returns a store seeded with the system categories a
// fresh installation starts with.
func NewWithDefaults() *Store {
	s := New()
	s.cats = append(s.cats, DefaultCategories()...)
	return s
}

// DefaultCategories is the seed set for new installations.
func DefaultCategories() []core.Category {
	return []core.Category{
		{ID: "cat-salary", Name: "Salary", Color: "#22c55e", Type: core.Income, IsSystem: true},
		{ID: "cat-freelance", Name: "Freelance", Color: "#10b981", Type: core.Income, IsSystem: true},
		{ID: "cat-rent", Name: "Rent", Color: "#3b82f6", Type: core.Expense, IsSystem: true},
		{ID: "cat-groceries", Name: "Groceries", Color: "#ef4444", Type: core.Expense, IsSystem: true},
		{ID: "cat-transport", Name: "Transport", Color: "#f59e0b", Type: core.Expense, IsSystem: true},
		{ID: "cat-entertainment", Name: "Entertainment", Color: "#8b5cf6", Type: core.Expense, IsSystem: true},
		{ID: "cat-health", Name: "Health", Color: "#ec4899", Type: core.Expense, IsSystem: true},
		{ID: "cat-other", Name: core.FallbackCategory, Color: "#6b7280", Type: core.Expense, IsSystem: true},
	}
}

func (s *Store) ListTransactions(_ context.Context, year, month int) ([]core.Transaction, error) {
	start, end := core.MonthWindow(year, month)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, tx := range s.txs {
		if tx.Date.InWindow(start, end) {
			out = append(out, tx)
		}
	}
	core.SortNewestFirst(out)
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	return tx, nil
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[tx.ID] = tx
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[tx.ID]; !ok {
		return store.ErrNotFound
	}
	s.txs[tx.ID] = tx
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.txs, id)
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.cats...), nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.cats {
		if existing.Name == c.Name && existing.Type == c.Type {
			return store.ErrDuplicateName
		}
	}
	s.cats = append(s.cats, c)
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.cats {
		if existing.ID == c.ID {
			if existing.IsSystem {
				return store.ErrSystemCategory
			}
			c.IsSystem = existing.IsSystem
			s.cats[i] = c
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteCategory(_ context.Context, name string, t core.TransactionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.cats {
		if existing.Name == name && existing.Type == t {
			if existing.IsSystem {
				return store.ErrSystemCategory
			}
			s.cats = append(s.cats[:i], s.cats[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) FetchBudgets(_ context.Context, year, month int) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Budget
	for _, b := range s.budgets {
		if b.Year == year && b.Month == month {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) SetBudgets(_ context.Context, year, month int, budgets []core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.budgets[:0]
	for _, b := range s.budgets {
		if b.Year != year || b.Month != month {
			kept = append(kept, b)
		}
	}
	s.budgets = append(kept, budgets...)
	return nil
}

func (s *Store) FetchSettings(_ context.Context) (core.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings core.UserSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}
