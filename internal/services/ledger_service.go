// Package services orchestrates ledger operations across the local store and
// the async mirror pipeline.
package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/store"
)

// SyncPublisher publishes mirror sync messages. A nil publisher disables
// mirroring without touching the write path.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, action string) error
}

// MonthSnapshot bundles everything the month screen needs from one listing.
type MonthSnapshot struct {
	Period       core.Period        `json:"period"`
	Items        []core.Transaction `json:"items"`
	Totals       core.Totals        `json:"totals"`
	PaidOpen     core.PaidOpenStats `json:"paidOpen"`
	ByCategory   []core.NamedAmount `json:"byCategory"`
	ByCard       []core.NamedAmount `json:"byCard"`
	CardGroups   []core.CardGroup   `json:"cardGroups"`
	OwedByPerson []core.NamedAmount `json:"owedByPerson"`
}

// LedgerService is the write-side orchestrator: every mutation goes to the
// local store first, then a sync message is published for the mirror worker.
// Publish failures are logged and never fail the request.
type LedgerService struct {
	store     store.Store
	publisher SyncPublisher
	logger    *log.Logger
}

func NewLedgerService(st store.Store, publisher SyncPublisher, logger *log.Logger) *LedgerService {
	return &LedgerService{
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// Add saves a single transaction and publishes a create sync message.
func (s *LedgerService) Add(ctx context.Context, tx core.Transaction) (string, error) {
	id, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}
	s.publish(ctx, id, amqp.ActionCreate)
	return id, nil
}

// AddInstallmentPlan expands the plan into sibling transactions and saves
// them concurrently. Returns the new IDs in installment order.
func (s *LedgerService) AddInstallmentPlan(ctx context.Context, plan core.InstallmentPlan) ([]string, error) {
	txs, err := core.ExpandInstallments(plan)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(txs))
	g, gctx := errgroup.WithContext(ctx)
	for i, tx := range txs {
		g.Go(func() error {
			id, err := s.store.CreateTransaction(gctx, tx)
			if err != nil {
				return fmt.Errorf("save installment %d/%d: %w", tx.Installment.Index, tx.Installment.Total, err)
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		s.publish(ctx, id, amqp.ActionCreate)
	}
	return ids, nil
}

// TogglePaid flips one transaction's paid flag and returns the updated record.
func (s *LedgerService) TogglePaid(ctx context.Context, id string) (core.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.SetTransactionPaid(ctx, id, !tx.Paid); err != nil {
		return core.Transaction{}, fmt.Errorf("toggle paid: %w", err)
	}
	tx.Paid = !tx.Paid
	s.publish(ctx, id, amqp.ActionCreate)
	return tx, nil
}

// Delete removes one transaction and publishes a delete sync message.
func (s *LedgerService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.ActionDelete)
	return nil
}

// MarkGroupPaid sets the paid flag on every member of an installment group.
// Member writes run concurrently. Returns how many members changed.
func (s *LedgerService) MarkGroupPaid(ctx context.Context, groupID string, paid bool) (int, error) {
	members, err := s.groupMembers(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, store.ErrNotFound
	}

	var updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, tx := range members {
		if tx.Paid == paid {
			continue
		}
		g.Go(func() error {
			if err := s.store.SetTransactionPaid(gctx, tx.ID, paid); err != nil {
				return fmt.Errorf("mark group member %s: %w", tx.ID, err)
			}
			updated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(updated.Load()), err
	}

	for _, tx := range members {
		if tx.Paid != paid {
			s.publish(ctx, tx.ID, amqp.ActionCreate)
		}
	}
	return int(updated.Load()), nil
}

// DeleteGroup removes every member of an installment group concurrently.
func (s *LedgerService) DeleteGroup(ctx context.Context, groupID string) (int, error) {
	members, err := s.groupMembers(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, store.ErrNotFound
	}

	var deleted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, tx := range members {
		g.Go(func() error {
			if err := s.store.DeleteTransaction(gctx, tx.ID); err != nil {
				return fmt.Errorf("delete group member %s: %w", tx.ID, err)
			}
			deleted.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(deleted.Load()), err
	}

	for _, tx := range members {
		s.publish(ctx, tx.ID, amqp.ActionDelete)
	}
	return int(deleted.Load()), nil
}

// MarkMonthInstallmentsPaid settles every open installment due in the period.
func (s *LedgerService) MarkMonthInstallmentsPaid(ctx context.Context, p core.Period) (int, error) {
	items, err := s.store.ListTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	updated := 0
	for _, tx := range core.OpenMonthInstallments(items, p) {
		if err := s.store.SetTransactionPaid(ctx, tx.ID, true); err != nil {
			return updated, fmt.Errorf("mark installment %s: %w", tx.ID, err)
		}
		s.publish(ctx, tx.ID, amqp.ActionCreate)
		updated++
	}
	return updated, nil
}

// Snapshot computes the month view and its derived aggregates in one pass.
func (s *LedgerService) Snapshot(ctx context.Context, p core.Period, onlyOpenInstallments bool) (MonthSnapshot, error) {
	items, err := s.store.ListTransactions(ctx)
	if err != nil {
		return MonthSnapshot{}, fmt.Errorf("list transactions: %w", err)
	}

	view := core.MonthView(items, p, onlyOpenInstallments)
	if view == nil {
		view = []core.Transaction{}
	}
	monthItems := core.MonthItems(items, p)

	return MonthSnapshot{
		Period:       p,
		Items:        view,
		Totals:       core.ComputeTotals(monthItems),
		PaidOpen:     core.ComputePaidOpenStats(monthItems),
		ByCategory:   core.ByCategory(monthItems),
		ByCard:       core.ByCard(monthItems),
		CardGroups:   core.CardGroupRollup(monthItems),
		OwedByPerson: core.OwedByPerson(monthItems),
	}, nil
}

// Insights computes the trend heuristic against the trailing months.
func (s *LedgerService) Insights(ctx context.Context, p core.Period) (core.Insights, error) {
	items, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Insights{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.ComputeInsights(items, p), nil
}

// CardTabView is the per-card month screen: the filtered listing plus
// totals and the debt rollup scoped to those items.
type CardTabView struct {
	Card         string             `json:"card"`
	Items        []core.Transaction `json:"items"`
	Totals       core.Totals        `json:"totals"`
	OwedByPerson []core.NamedAmount `json:"owedByPerson"`
}

// CardTab returns one card's filtered month listing with card-scoped
// aggregates computed over exactly the listed items.
func (s *LedgerService) CardTab(ctx context.Context, p core.Period, cardName, personFilter string, onlyMine bool) (CardTabView, error) {
	items, err := s.store.ListTransactions(ctx)
	if err != nil {
		return CardTabView{}, fmt.Errorf("list transactions: %w", err)
	}

	filtered := core.CardMonthItems(core.MonthItems(items, p), cardName, personFilter, onlyMine)
	if filtered == nil {
		filtered = []core.Transaction{}
	}
	return CardTabView{
		Card:         cardName,
		Items:        filtered,
		Totals:       core.ComputeTotals(filtered),
		OwedByPerson: core.OwedByPerson(filtered),
	}, nil
}

// Cards lists every card name seen in the ledger merged with the defaults.
func (s *LedgerService) Cards(ctx context.Context) (directory, autocomplete []string, err error) {
	items, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.CardDirectory(items), core.CardAutocomplete(items), nil
}

func (s *LedgerService) groupMembers(ctx context.Context, groupID string) ([]core.Transaction, error) {
	items, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.GroupItems(items, groupID), nil
}

func (s *LedgerService) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, action); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish sync message",
			log.FieldTransaction, id,
			"action", action,
			log.FieldError, err)
	}
}
