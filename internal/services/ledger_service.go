// Package services orchestrates ledger writes across the local store and
// the sync bus.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"ledgerly/internal/amqp"
	"ledgerly/internal/core"
	applog "ledgerly/internal/log"
	"ledgerly/internal/store"
)

// EventPublisher is the slice of the AMQP client the service needs.
type EventPublisher interface {
	PublishTransactionSync(ctx context.Context, event *amqp.TransactionEvent) error
}

// LedgerService writes transactions to the local store first and then
// publishes a sync event. The local write is authoritative: a publish
// failure is logged but never fails the request.
type LedgerService struct {
	store store.TransactionStore
	bus   EventPublisher
}

// NewLedgerService creates the service. A nil bus disables sync events.
func NewLedgerService(txStore store.TransactionStore, bus EventPublisher) *LedgerService {
	return &LedgerService{store: txStore, bus: bus}
}

// CreateTransaction normalizes, validates, and persists a new entry. A
// missing ID is generated.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx = tx.Normalize()
	if tx.ID == "" {
		tx.ID = newTransactionID()
	}
	tx.Version = 1

	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, amqp.NewUpsertEvent(tx.ID, tx.Version))
	return tx, nil
}

// UpdateTransaction replaces an existing entry and bumps its version.
func (s *LedgerService) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	existing, err := s.store.GetTransaction(ctx, tx.ID)
	if err != nil {
		return core.Transaction{}, err
	}

	tx = tx.Normalize()
	tx.Version = existing.Version + 1
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.publish(ctx, amqp.NewUpsertEvent(tx.ID, tx.Version))
	return tx, nil
}

// DeleteTransaction removes an entry and publishes a delete event.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, amqp.NewDeleteEvent(id, existing.Version))
	return nil
}

func (s *LedgerService) publish(ctx context.Context, event *amqp.TransactionEvent) {
	if s.bus == nil {
		slog.DebugContext(ctx, "Sync bus not configured, skipping event",
			"kind", event.Kind, applog.FieldTransactionID, event.ID)
		return
	}
	if err := s.bus.PublishTransactionSync(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync event",
			"kind", event.Kind,
			applog.FieldTransactionID, event.ID,
			applog.FieldVersion, event.Version,
			applog.FieldError, err)
	}
}

func newTransactionID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// rand.Read on supported platforms does not fail; crash loudly if
		// it ever does rather than hand out colliding IDs.
		panic(fmt.Sprintf("generate transaction id: %v", err))
	}
	return "txn-" + hex.EncodeToString(buf[:])
}
