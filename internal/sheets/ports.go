package sheets

import (
	"context"

	"financas/internal/core"
)

// Ports for outbound mirror adapters.
type (
	// TransactionAppender mirrors a transaction to an external sheet and
	// returns a reference to the written row.
	TransactionAppender interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// TransactionRemover removes a previously mirrored transaction. Removing
	// an id that was never mirrored is a no-op.
	TransactionRemover interface {
		RemoveTransaction(ctx context.Context, id string) error
	}
)
