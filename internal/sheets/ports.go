// Package sheets defines the ports for the spreadsheet mirror.
package sheets

import (
	"context"

	"ledgerly/internal/core"
)

// Ports for outbound mirror adapters.
type (
	// TransactionMirror replays ledger writes to an external spreadsheet.
	// Mirror writes are eventually consistent with the local store; the
	// sync worker retries rows that fail.
	TransactionMirror interface {
		// AppendTransaction writes one transaction and returns a reference
		// to the written row.
		AppendTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)

		// RemoveTransaction deletes the mirrored row for the given
		// transaction ID. Removing an ID that was never mirrored is not an
		// error.
		RemoveTransaction(ctx context.Context, id string) error
	}
)
