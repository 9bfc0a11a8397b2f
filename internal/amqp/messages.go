package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventUpsert = "upsert"
	EventDelete = "delete"
)

// TransactionEvent is the lightweight sync message. It carries only the
// transaction ID and version; the worker fetches the full row from the
// database. Delete events refer to a row that no longer exists.
type TransactionEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUpsertEvent(id string, version int64) *TransactionEvent {
	return &TransactionEvent{
		Kind:      EventUpsert,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func NewDeleteEvent(id string, version int64) *TransactionEvent {
	return &TransactionEvent{
		Kind:      EventDelete,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (e *TransactionEvent) Validate() error {
	if e.Kind != EventUpsert && e.Kind != EventDelete {
		return fmt.Errorf("unknown event kind: %q", e.Kind)
	}
	if e.ID == "" {
		return fmt.Errorf("event has empty transaction id")
	}
	return nil
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
