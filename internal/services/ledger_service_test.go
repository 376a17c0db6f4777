package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/store/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

type recordingPublisher struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (p *recordingPublisher) PublishTransactionSync(_ context.Context, id, action string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, action+":"+id)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func expense(due string, cents int64) core.Transaction {
	return core.Transaction{Type: core.Expense, Amount: core.Money{Cents: cents}, DueDate: due}
}

func TestAddSavesAndPublishes(t *testing.T) {
	st := memory.New()
	pub := &recordingPublisher{}
	svc := NewLedgerService(st, pub, testLogger())

	id, err := svc.Add(context.Background(), expense("2024-03-10", 1500))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}
	if pub.count() != 1 {
		t.Errorf("published %d messages, want 1", pub.count())
	}
	if _, err := st.GetTransaction(context.Background(), id); err != nil {
		t.Errorf("saved transaction not found: %v", err)
	}
}

func TestAddSucceedsWhenPublishFails(t *testing.T) {
	st := memory.New()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewLedgerService(st, pub, testLogger())

	id, err := svc.Add(context.Background(), expense("2024-03-10", 1500))
	if err != nil {
		t.Fatalf("Add should not fail on publish error: %v", err)
	}
	if _, err := st.GetTransaction(context.Background(), id); err != nil {
		t.Errorf("saved transaction not found: %v", err)
	}
}

func TestAddWithoutPublisher(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil, testLogger())
	if _, err := svc.Add(context.Background(), expense("2024-03-10", 1500)); err != nil {
		t.Fatalf("Add without publisher: %v", err)
	}
}

func TestAddInstallmentPlan(t *testing.T) {
	st := memory.New()
	pub := &recordingPublisher{}
	svc := NewLedgerService(st, pub, testLogger())

	ids, err := svc.AddInstallmentPlan(context.Background(), core.InstallmentPlan{
		Amount: core.Money{Cents: 100000},
		Count:  3,
		Start:  core.Period{Year: 2024, Month: time.March},
		DueDay: 10,
		Shared: core.Transaction{Type: core.Expense, IsCardPurchase: true, CardName: "Nubank"},
	})
	if err != nil {
		t.Fatalf("AddInstallmentPlan: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("got %d ids, want 3", len(ids))
	}
	if pub.count() != 3 {
		t.Errorf("published %d messages, want 3", pub.count())
	}

	items, _ := st.ListTransactions(context.Background())
	var sum int64
	group := ""
	for _, tx := range items {
		if tx.Installment == nil {
			t.Fatalf("transaction %s missing installment link", tx.ID)
		}
		if group == "" {
			group = tx.Installment.GroupID
		} else if tx.Installment.GroupID != group {
			t.Error("siblings carry different group ids")
		}
		sum += tx.Amount.Cents
	}
	if sum != 100000 {
		t.Errorf("installments sum to %d cents, want 100000", sum)
	}
}

func TestAddInstallmentPlanRejectsTinyAmount(t *testing.T) {
	st := memory.New()
	pub := &recordingPublisher{}
	svc := NewLedgerService(st, pub, testLogger())

	// One cent cannot give both siblings an amount; the whole plan is
	// rejected before any record is written.
	_, err := svc.AddInstallmentPlan(context.Background(), core.InstallmentPlan{
		Amount: core.Money{Cents: 1},
		Count:  2,
		Start:  core.Period{Year: 2024, Month: time.March},
		DueDay: 10,
		Shared: core.Transaction{Type: core.Expense, IsCardPurchase: true, CardName: "Nubank"},
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	items, _ := st.ListTransactions(context.Background())
	if len(items) != 0 {
		t.Errorf("rejected plan persisted %d records, want 0", len(items))
	}
	if pub.count() != 0 {
		t.Errorf("rejected plan published %d messages, want 0", pub.count())
	}
}

func TestTogglePaid(t *testing.T) {
	st := memory.New()
	svc := NewLedgerService(st, nil, testLogger())
	ctx := context.Background()

	id, _ := svc.Add(ctx, expense("2024-03-10", 1500))

	tx, err := svc.TogglePaid(ctx, id)
	if err != nil {
		t.Fatalf("TogglePaid: %v", err)
	}
	if !tx.Paid {
		t.Error("expected paid after first toggle")
	}

	tx, err = svc.TogglePaid(ctx, id)
	if err != nil {
		t.Fatalf("TogglePaid: %v", err)
	}
	if tx.Paid {
		t.Error("expected open after second toggle")
	}
}

func TestMarkGroupPaidCountsOnlyChanges(t *testing.T) {
	st := memory.New()
	svc := NewLedgerService(st, nil, testLogger())
	ctx := context.Background()

	ids, _ := svc.AddInstallmentPlan(ctx, core.InstallmentPlan{
		Amount:    core.Money{Cents: 9000},
		Count:     3,
		Start:     core.Period{Year: 2024, Month: time.March},
		DueDay:    5,
		FirstPaid: true,
		Shared:    core.Transaction{Type: core.Expense, IsCardPurchase: true, CardName: "Inter"},
	})

	first, _ := st.GetTransaction(ctx, ids[0])
	groupID := first.Installment.GroupID

	updated, err := svc.MarkGroupPaid(ctx, groupID, true)
	if err != nil {
		t.Fatalf("MarkGroupPaid: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated %d members, want 2 (first was already paid)", updated)
	}

	updated, err = svc.MarkGroupPaid(ctx, groupID, false)
	if err != nil {
		t.Fatalf("MarkGroupPaid reopen: %v", err)
	}
	if updated != 3 {
		t.Errorf("reopened %d members, want 3", updated)
	}
}

func TestMarkGroupPaidUnknownGroup(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil, testLogger())
	if _, err := svc.MarkGroupPaid(context.Background(), "nope", true); err == nil {
		t.Fatal("expected error for unknown group")
	}
}

func TestDeleteGroup(t *testing.T) {
	st := memory.New()
	svc := NewLedgerService(st, nil, testLogger())
	ctx := context.Background()

	ids, _ := svc.AddInstallmentPlan(ctx, core.InstallmentPlan{
		Amount: core.Money{Cents: 9000},
		Count:  3,
		Start:  core.Period{Year: 2024, Month: time.March},
		DueDay: 5,
		Shared: core.Transaction{Type: core.Expense, IsCardPurchase: true, CardName: "Inter"},
	})
	keep, _ := svc.Add(ctx, expense("2024-03-15", 500))

	first, _ := st.GetTransaction(ctx, ids[0])
	deleted, err := svc.DeleteGroup(ctx, first.Installment.GroupID)
	if err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted %d members, want 3", deleted)
	}

	items, _ := st.ListTransactions(ctx)
	if len(items) != 1 || items[0].ID != keep {
		t.Errorf("expected only unrelated transaction to survive, got %d items", len(items))
	}
}

func TestMarkMonthInstallmentsPaid(t *testing.T) {
	st := memory.New()
	svc := NewLedgerService(st, nil, testLogger())
	ctx := context.Background()

	svc.AddInstallmentPlan(ctx, core.InstallmentPlan{
		Amount: core.Money{Cents: 6000},
		Count:  2,
		Start:  core.Period{Year: 2024, Month: time.March},
		DueDay: 5,
		Shared: core.Transaction{Type: core.Expense, IsCardPurchase: true, CardName: "C6"},
	})
	svc.Add(ctx, expense("2024-03-20", 700)) // plain expense, not an installment

	march := core.Period{Year: 2024, Month: time.March}
	updated, err := svc.MarkMonthInstallmentsPaid(ctx, march)
	if err != nil {
		t.Fatalf("MarkMonthInstallmentsPaid: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated %d, want 1 (only March installment)", updated)
	}

	// Second run finds nothing open.
	updated, _ = svc.MarkMonthInstallmentsPaid(ctx, march)
	if updated != 0 {
		t.Errorf("second run updated %d, want 0", updated)
	}
}

func TestCardTabScopedAggregates(t *testing.T) {
	st := memory.New()
	svc := NewLedgerService(st, nil, testLogger())
	ctx := context.Background()

	svc.Add(ctx, core.Transaction{Type: core.Expense, Amount: core.Money{Cents: 5000}, DueDate: "2024-03-10",
		IsCardPurchase: true, CardName: "Nubank", PersonName: "João"})
	svc.Add(ctx, core.Transaction{Type: core.Expense, Amount: core.Money{Cents: 3000}, DueDate: "2024-03-12",
		IsCardPurchase: true, CardName: "Nubank"})
	svc.Add(ctx, core.Transaction{Type: core.Expense, Amount: core.Money{Cents: 2000}, DueDate: "2024-03-15",
		IsCardPurchase: true, CardName: "Inter"})

	view, err := svc.CardTab(ctx, core.Period{Year: 2024, Month: time.March}, "Nubank", "", false)
	if err != nil {
		t.Fatalf("CardTab: %v", err)
	}
	if view.Card != "Nubank" {
		t.Errorf("card = %q, want Nubank", view.Card)
	}
	if len(view.Items) != 2 {
		t.Fatalf("got %d items, want 2 (other card excluded)", len(view.Items))
	}
	if view.Totals.Expense.Cents != 8000 {
		t.Errorf("card expense total = %d cents, want 8000", view.Totals.Expense.Cents)
	}
	if len(view.OwedByPerson) != 1 || view.OwedByPerson[0].Name != "João" || view.OwedByPerson[0].Amount.Cents != 5000 {
		t.Errorf("unexpected card-scoped debt rollup: %+v", view.OwedByPerson)
	}

	// Aggregates follow the filters.
	view, err = svc.CardTab(ctx, core.Period{Year: 2024, Month: time.March}, "Nubank", "", true)
	if err != nil {
		t.Fatalf("CardTab onlyMine: %v", err)
	}
	if len(view.Items) != 1 || view.Totals.Expense.Cents != 3000 {
		t.Errorf("onlyMine tab: %d items, %d cents, want 1 item at 3000", len(view.Items), view.Totals.Expense.Cents)
	}
	if len(view.OwedByPerson) != 0 {
		t.Errorf("onlyMine tab owes nobody, got %+v", view.OwedByPerson)
	}
}

func TestSnapshotAggregates(t *testing.T) {
	st := memory.New()
	svc := NewLedgerService(st, nil, testLogger())
	ctx := context.Background()

	svc.Add(ctx, core.Transaction{Type: core.Income, Amount: core.Money{Cents: 500000}, DueDate: "2024-03-01"})
	svc.Add(ctx, core.Transaction{Type: core.Expense, Amount: core.Money{Cents: 30000}, DueDate: "2024-03-10", Category: "Mercado"})
	svc.Add(ctx, core.Transaction{Type: core.Expense, Amount: core.Money{Cents: 10000}, DueDate: "2024-04-10"})

	snap, err := svc.Snapshot(ctx, core.Period{Year: 2024, Month: time.March}, false)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Items) != 2 {
		t.Errorf("got %d items, want 2", len(snap.Items))
	}
	if snap.Totals.Balance.Cents != 470000 {
		t.Errorf("balance = %d cents, want 470000", snap.Totals.Balance.Cents)
	}
	if len(snap.ByCategory) != 1 || snap.ByCategory[0].Name != "Mercado" {
		t.Errorf("unexpected category breakdown: %+v", snap.ByCategory)
	}
}
