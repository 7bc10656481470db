package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"spendlog/internal/core"
)

// SQLiteRepository is the durable implementation of the expense store and
// category registry. The position column preserves insertion order across
// deletes; the NOCASE collation on categories.name enforces the
// case-insensitive uniqueness rule at the schema level.
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

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListExpenses implements ports.ExpenseStore.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, categoryFilter string) ([]core.Expense, error) {
	query := `SELECT id, amount, category, expense_date, description
	          FROM expenses`
	var args []any
	if categoryFilter != "" && !strings.EqualFold(categoryFilter, core.FilterAll) {
		// NOCASE comparison mirrors the memory store's filter semantics.
		query += ` WHERE category = ? COLLATE NOCASE`
		args = append(args, categoryFilter)
	}
	query += ` ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Amount, &e.Category, &e.Date, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// CreateExpense implements ports.ExpenseStore.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = ""
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount, category, expense_date, description)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Amount, e.Category, e.Date, e.Description)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"category", e.Category,
		"amount", e.Amount,
		"date", e.Date)

	return e, nil
}

// UpdateExpense implements ports.ExpenseStore.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch) (core.Expense, error) {
	current, err := r.getExpense(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	updated, err := patch.Apply(current)
	if err != nil {
		return core.Expense{}, err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, category = ?, expense_date = ?, description = ?
		 WHERE id = ?`,
		updated.Amount, updated.Category, updated.Date, updated.Description, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	return updated, nil
}

// DeleteExpense implements ports.ExpenseStore.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) (core.Expense, error) {
	removed, err := r.getExpense(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return core.Expense{}, fmt.Errorf("delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return removed, nil
}

func (r *SQLiteRepository) getExpense(ctx context.Context, id string) (core.Expense, error) {
	var e core.Expense
	err := r.db.QueryRowContext(ctx,
		`SELECT id, amount, category, expense_date, description
		 FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.Amount, &e.Category, &e.Date, &e.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %q: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListCategories implements ports.CategoryRegistry.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// CreateCategory implements ports.CategoryRegistry.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string) (string, error) {
	trimmed, err := core.NormalizeCategoryName(name)
	if err != nil {
		return "", err
	}

	// The NOCASE collation on the column makes this comparison
	// case-insensitive.
	var existing string
	err = r.db.QueryRowContext(ctx,
		`SELECT name FROM categories WHERE name = ?`, trimmed).Scan(&existing)
	switch {
	case err == nil:
		return "", fmt.Errorf("category %q: %w", trimmed, core.ErrConflict)
	case !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("check category: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?)`, trimmed); err != nil {
		return "", fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category saved to SQLite", "name", trimmed)
	return trimmed, nil
}

// RecordExpenseEvent appends one mutation event to the journal table. Used
// by the journal worker consuming AMQP events.
func (r *SQLiteRepository) RecordExpenseEvent(ctx context.Context, expenseID, action string, occurredAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expense_events (expense_id, action, occurred_at) VALUES (?, ?, ?)`,
		expenseID, action, occurredAt.UTC())
	if err != nil {
		return fmt.Errorf("record expense event: %w", err)
	}
	return nil
}

// CountExpenseEvents returns the number of journaled events for an expense.
func (r *SQLiteRepository) CountExpenseEvents(ctx context.Context, expenseID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expense_events WHERE expense_id = ?`, expenseID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count expense events: %w", err)
	}
	return n, nil
}
