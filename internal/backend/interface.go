package backend

import (
	"context"

	"financas/internal/store"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result holds the selected store plus the resources wired around it.
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Factory creates a store backend based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
}

// Type represents the kind of store backing the ledger.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
