// Package memory is an in-process mirror used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"financas/internal/core"
)

type Mirror struct {
	mu    sync.Mutex
	items []core.Transaction
	byID  map[string]int
}

func New() *Mirror {
	return &Mirror{byID: make(map[string]int)}
}

// AppendTransaction stores the transaction and returns a synthetic row reference.
func (m *Mirror) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, tx)
	if tx.ID != "" {
		m.byID[tx.ID] = len(m.items) - 1
	}
	return fmt.Sprintf("mem:%d", len(m.items)), nil
}

// RemoveTransaction forgets a mirrored transaction by ID. Unknown IDs are a
// no-op so delete messages stay idempotent.
func (m *Mirror) RemoveTransaction(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.byID[id]
	if !ok {
		return nil
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	delete(m.byID, id)
	for txID, i := range m.byID {
		if i > idx {
			m.byID[txID] = i - 1
		}
	}
	return nil
}

// Transactions returns a copy of everything mirrored so far.
func (m *Mirror) Transactions() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Transaction(nil), m.items...)
}
