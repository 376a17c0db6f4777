// Package store defines the ports the ledger needs from its document
// store. Persistence and change fan-out are delegated to whichever adapter
// is configured; the core never talks to a database directly.
package store

import (
	"context"
	"errors"

	"financas/internal/core"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

type (
	// TransactionStore persists ledger entries. ListTransactions returns
	// the full set ordered by due date ascending, then insertion order, the
	// ordering the month view's stable sort relies on.
	TransactionStore interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (id string, err error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		SetTransactionPaid(ctx context.Context, id string, paid bool) error
		DeleteTransaction(ctx context.Context, id string) error

		// RecurringApplied reports whether a transaction tagged with the
		// template id already exists for the exact due date. This is the
		// idempotency guard for recurring application.
		RecurringApplied(ctx context.Context, recurringID, dueDate string) (bool, error)
	}

	// PersonStore persists the autocomplete name list, ordered by name.
	PersonStore interface {
		CreatePerson(ctx context.Context, p core.Person) (string, error)
		ListPeople(ctx context.Context) ([]core.Person, error)
		DeletePerson(ctx context.Context, id string) error
	}

	// RecurringStore persists bill templates, ordered by name.
	RecurringStore interface {
		CreateRecurring(ctx context.Context, rt core.RecurringTemplate) (string, error)
		ListRecurrings(ctx context.Context) ([]core.RecurringTemplate, error)
		GetRecurring(ctx context.Context, id string) (core.RecurringTemplate, error)
		DeleteRecurring(ctx context.Context, id string) error
	}

	// Store is the unified surface a backend must provide.
	Store interface {
		TransactionStore
		PersonStore
		RecurringStore
		Close() error
	}
)
