package services

import (
	"context"
	"testing"

	"financas/internal/amqp"
	"financas/internal/core"
	sheetsmemory "financas/internal/sheets/memory"
	"financas/internal/store/memory"
)

func TestMirrorCreateThenDelete(t *testing.T) {
	st := memory.New()
	mirror := sheetsmemory.New()
	proc := NewMirrorProcessor(st, mirror, mirror, testLogger())
	ctx := context.Background()

	id, _ := st.CreateTransaction(ctx, core.Transaction{
		Type: core.Expense, Amount: core.Money{Cents: 4200}, DueDate: "2024-03-10",
	})

	if err := proc.Handle(ctx, amqp.NewTransactionSyncMessage(id, amqp.ActionCreate)); err != nil {
		t.Fatalf("Handle create: %v", err)
	}
	if got := len(mirror.Transactions()); got != 1 {
		t.Fatalf("mirror has %d rows, want 1", got)
	}

	if err := proc.Handle(ctx, amqp.NewTransactionSyncMessage(id, amqp.ActionDelete)); err != nil {
		t.Fatalf("Handle delete: %v", err)
	}
	if got := len(mirror.Transactions()); got != 0 {
		t.Errorf("mirror has %d rows after delete, want 0", got)
	}
}

func TestMirrorCreateIsUpsert(t *testing.T) {
	st := memory.New()
	mirror := sheetsmemory.New()
	proc := NewMirrorProcessor(st, mirror, mirror, testLogger())
	ctx := context.Background()

	id, _ := st.CreateTransaction(ctx, core.Transaction{
		Type: core.Expense, Amount: core.Money{Cents: 4200}, DueDate: "2024-03-10",
	})

	proc.Handle(ctx, amqp.NewTransactionSyncMessage(id, amqp.ActionCreate))
	st.SetTransactionPaid(ctx, id, true)
	if err := proc.Handle(ctx, amqp.NewTransactionSyncMessage(id, amqp.ActionCreate)); err != nil {
		t.Fatalf("Handle replay: %v", err)
	}

	rows := mirror.Transactions()
	if len(rows) != 1 {
		t.Fatalf("mirror has %d rows after replay, want 1", len(rows))
	}
	if !rows[0].Paid {
		t.Error("replayed row should carry the updated paid flag")
	}
}

func TestMirrorDropsMissingTransaction(t *testing.T) {
	mirror := sheetsmemory.New()
	proc := NewMirrorProcessor(memory.New(), mirror, mirror, testLogger())

	err := proc.Handle(context.Background(), amqp.NewTransactionSyncMessage("ghost", amqp.ActionCreate))
	if err != nil {
		t.Fatalf("missing transaction should be dropped, got %v", err)
	}
	if got := len(mirror.Transactions()); got != 0 {
		t.Errorf("mirror has %d rows, want 0", got)
	}
}

func TestMirrorRejectsUnknownAction(t *testing.T) {
	mirror := sheetsmemory.New()
	proc := NewMirrorProcessor(memory.New(), mirror, mirror, testLogger())

	msg := &amqp.TransactionSyncMessage{ID: "1", Action: "upsert"}
	if err := proc.Handle(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown action")
	}
}
