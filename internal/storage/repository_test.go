package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"financas/internal/core"
	"financas/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateTransaction(ctx, core.Transaction{
		Type:     core.Expense,
		Amount:   core.Money{Cents: 4700},
		Category: "Mercado",
		DueDate:  "2024-03-10",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	tx, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if tx.Amount.Cents != 4700 || tx.Category != "Mercado" || tx.Paid {
		t.Errorf("unexpected transaction: %+v", tx)
	}

	if err := repo.SetTransactionPaid(ctx, id, true); err != nil {
		t.Fatalf("SetTransactionPaid: %v", err)
	}
	tx, _ = repo.GetTransaction(ctx, id)
	if !tx.Paid {
		t.Error("expected paid after update")
	}

	if err := repo.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get after delete error = %v, want ErrNotFound", err)
	}
}

func TestTransactionValidationOnCreate(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.CreateTransaction(context.Background(), core.Transaction{
		Type:    core.Expense,
		Amount:  core.Money{Cents: 0},
		DueDate: "2024-03-10",
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("error = %v, want ErrInvalidAmount", err)
	}
}

func TestListTransactionsOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, due := range []string{"2024-03-20", "2024-03-05", "2024-03-05"} {
		if _, err := repo.CreateTransaction(ctx, core.Transaction{
			Type: core.Expense, Amount: core.Money{Cents: 100}, DueDate: due,
		}); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	items, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].DueDate != "2024-03-05" || items[2].DueDate != "2024-03-20" {
		t.Errorf("items not ordered by due date: %s, %s, %s",
			items[0].DueDate, items[1].DueDate, items[2].DueDate)
	}
	// Same due date keeps insertion order.
	if items[0].ID > items[1].ID {
		t.Error("ties should keep insertion order")
	}
}

func TestInstallmentRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateTransaction(ctx, core.Transaction{
		Type:           core.Expense,
		Amount:         core.Money{Cents: 33333},
		DueDate:        "2024-03-10",
		IsCardPurchase: true,
		CardName:       "Nubank",
		Installment:    &core.Installment{GroupID: "g1", Index: 1, Total: 3},
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	tx, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if tx.Installment == nil {
		t.Fatal("installment link lost in round trip")
	}
	if tx.Installment.GroupID != "g1" || tx.Installment.Index != 1 || tx.Installment.Total != 3 {
		t.Errorf("installment = %+v, want g1 1/3", tx.Installment)
	}
}

func TestRecurringAppliedGuard(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	applied, err := repo.RecurringApplied(ctx, "rec1", "2024-03-05")
	if err != nil {
		t.Fatalf("RecurringApplied: %v", err)
	}
	if applied {
		t.Error("expected not applied on empty ledger")
	}

	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		Type: core.Expense, Amount: core.Money{Cents: 100}, DueDate: "2024-03-05", RecurringID: "rec1",
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	applied, _ = repo.RecurringApplied(ctx, "rec1", "2024-03-05")
	if !applied {
		t.Error("expected applied after insert")
	}
	applied, _ = repo.RecurringApplied(ctx, "rec1", "2024-04-05")
	if applied {
		t.Error("different month should not count as applied")
	}
}

func TestPeopleAndRecurringCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pid, err := repo.CreatePerson(ctx, core.Person{Name: "Maria"})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	repo.CreatePerson(ctx, core.Person{Name: "João"})

	people, err := repo.ListPeople(ctx)
	if err != nil {
		t.Fatalf("ListPeople: %v", err)
	}
	if len(people) != 2 || people[0].Name != "João" {
		t.Errorf("people = %+v, want João first (name order)", people)
	}
	if err := repo.DeletePerson(ctx, pid); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}
	if err := repo.DeletePerson(ctx, pid); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double delete error = %v, want ErrNotFound", err)
	}

	rid, err := repo.CreateRecurring(ctx, core.RecurringTemplate{
		Name: "Aluguel", Type: core.Expense, Amount: core.Money{Cents: 150000}, DueDay: 5,
	})
	if err != nil {
		t.Fatalf("CreateRecurring: %v", err)
	}
	rt, err := repo.GetRecurring(ctx, rid)
	if err != nil {
		t.Fatalf("GetRecurring: %v", err)
	}
	if rt.Name != "Aluguel" || rt.Amount.Cents != 150000 || rt.DueDay != 5 {
		t.Errorf("unexpected recurring: %+v", rt)
	}
	if err := repo.DeleteRecurring(ctx, rid); err != nil {
		t.Fatalf("DeleteRecurring: %v", err)
	}
}
