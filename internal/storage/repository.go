// Package storage is the SQLite adapter behind the store ports. It keeps
// the whole ledger local; the sync worker mirrors writes elsewhere.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"financas/internal/core"
	"financas/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// runMigrations applies the embedded schema on its own connection, so the
// repository handle never sees a mid-migration schema.
func runMigrations(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("wrap migration connection: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("assemble migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const txColumns = `id, type, amount_cents, category, note, due_date, paid,
	installment_group_id, installment_index, installment_total,
	is_card_purchase, card_name, person_name, recurring_id, created_at`

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}

	var groupID string
	var index, total int
	if tx.Installment != nil {
		groupID = tx.Installment.GroupID
		index = tx.Installment.Index
		total = tx.Installment.Total
	}
	createdAt := tx.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (type, amount_cents, category, note, due_date, paid,
			installment_group_id, installment_index, installment_total,
			is_card_purchase, card_name, person_name, recurring_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(tx.Type), tx.Amount.Cents, tx.Category, tx.Note, tx.DueDate, tx.Paid,
		groupID, index, total,
		tx.IsCardPurchase, tx.CardName, tx.PersonName, tx.RecurringID, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved",
		"id", id,
		"type", tx.Type,
		"amount_cents", tx.Amount.Cents,
		"due_date", tx.DueDate)

	return strconv.FormatInt(id, 10), nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+txColumns+` FROM transactions ORDER BY due_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	return tx, err
}

func (r *SQLiteRepository) SetTransactionPaid(ctx context.Context, id string, paid bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET paid = ? WHERE id = ?`, paid, id)
	if err != nil {
		return fmt.Errorf("update paid: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) RecurringApplied(ctx context.Context, recurringID, dueDate string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM transactions WHERE recurring_id = ? AND due_date = ?`,
		recurringID, dueDate).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check recurring applied: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) CreatePerson(ctx context.Context, p core.Person) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO people (name, created_at) VALUES (?, ?)`, p.Name, createdAt)
	if err != nil {
		return "", fmt.Errorf("insert person: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (r *SQLiteRepository) ListPeople(ctx context.Context) ([]core.Person, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM people ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var out []core.Person
	for rows.Next() {
		var id int64
		var p core.Person
		if err := rows.Scan(&id, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		p.ID = strconv.FormatInt(id, 10)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeletePerson(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, rt core.RecurringTemplate) (string, error) {
	if err := rt.Validate(); err != nil {
		return "", err
	}
	createdAt := rt.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurrings (name, type, amount_cents, category, due_day,
			is_card_purchase, card_name, person_name, is_variable, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.Name, string(rt.Type), rt.Amount.Cents, rt.Category, rt.DueDay,
		rt.IsCardPurchase, rt.CardName, rt.PersonName, rt.IsVariable, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert recurring: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (r *SQLiteRepository) ListRecurrings(ctx context.Context) ([]core.RecurringTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, amount_cents, category, due_day,
			is_card_purchase, card_name, person_name, is_variable, created_at
		FROM recurrings ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list recurrings: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringTemplate
	for rows.Next() {
		rt, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetRecurring(ctx context.Context, id string) (core.RecurringTemplate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, type, amount_cents, category, due_day,
			is_card_purchase, card_name, person_name, is_variable, created_at
		FROM recurrings WHERE id = ?`, id)
	rt, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringTemplate{}, store.ErrNotFound
	}
	return rt, err
}

func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurrings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring: %w", err)
	}
	return requireAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var (
		id           int64
		typ          string
		groupID      string
		index, total int
		tx           core.Transaction
	)
	err := row.Scan(&id, &typ, &tx.Amount.Cents, &tx.Category, &tx.Note, &tx.DueDate, &tx.Paid,
		&groupID, &index, &total,
		&tx.IsCardPurchase, &tx.CardName, &tx.PersonName, &tx.RecurringID, &tx.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.ID = strconv.FormatInt(id, 10)
	tx.Type = core.TransactionType(typ)
	if groupID != "" {
		tx.Installment = &core.Installment{GroupID: groupID, Index: index, Total: total}
	}
	return tx, nil
}

func scanRecurring(row scanner) (core.RecurringTemplate, error) {
	var (
		id  int64
		typ string
		rt  core.RecurringTemplate
	)
	err := row.Scan(&id, &rt.Name, &typ, &rt.Amount.Cents, &rt.Category, &rt.DueDay,
		&rt.IsCardPurchase, &rt.CardName, &rt.PersonName, &rt.IsVariable, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.RecurringTemplate{}, err
		}
		return core.RecurringTemplate{}, fmt.Errorf("scan recurring: %w", err)
	}
	rt.ID = strconv.FormatInt(id, 10)
	rt.Type = core.TransactionType(typ)
	return rt, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
