package backend

import (
	"context"

	"ledgerly/internal/core"
	"ledgerly/internal/store"
)

// Backend is the unified persistence surface the HTTP layer talks to.
type Backend interface {
	store.TransactionStore
	store.CategoryStore
	store.BudgetStore
	store.SettingsStore
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend

	// Writer is the orchestrated transaction write path (ID generation,
	// versioning, sync events). Handlers write through it, never through
	// Backend directly.
	Writer TransactionWriter

	Cleanup CleanupFunc
}

// TransactionWriter is the ledger write path.
type TransactionWriter interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
