// Package memory is the in-memory store adapter, used as the default
// backend and by tests. It honors the same ordering contracts as the
// SQLite adapter.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"financas/internal/core"
	"financas/internal/store"
)

type Store struct {
	mu         sync.Mutex
	seq        int
	txs        []core.Transaction
	people     []core.Person
	recurrings []core.RecurringTemplate
}

func New() *Store {
	return &Store{}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s:%d", prefix, s.seq)
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextID("tx")
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate < out[j].DueDate
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) SetTransactionPaid(_ context.Context, id string, paid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs[i].Paid = paid
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) RecurringApplied(_ context.Context, recurringID, dueDate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.RecurringID == recurringID && tx.DueDate == dueDate {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreatePerson(_ context.Context, p core.Person) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID("person")
	s.people = append(s.people, p)
	return p.ID, nil
}

func (s *Store) ListPeople(_ context.Context) ([]core.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Person, len(s.people))
	copy(out, s.people)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) DeletePerson(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.people {
		if s.people[i].ID == id {
			s.people = append(s.people[:i], s.people[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) CreateRecurring(_ context.Context, rt core.RecurringTemplate) (string, error) {
	if err := rt.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rt.ID = s.nextID("rec")
	s.recurrings = append(s.recurrings, rt)
	return rt.ID, nil
}

func (s *Store) ListRecurrings(_ context.Context) ([]core.RecurringTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecurringTemplate, len(s.recurrings))
	copy(out, s.recurrings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) GetRecurring(_ context.Context, id string) (core.RecurringTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rt := range s.recurrings {
		if rt.ID == id {
			return rt, nil
		}
	}
	return core.RecurringTemplate{}, store.ErrNotFound
}

func (s *Store) DeleteRecurring(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recurrings {
		if s.recurrings[i].ID == id {
			s.recurrings = append(s.recurrings[:i], s.recurrings[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) Close() error { return nil }
