package ports

import (
	"context"

	"spendlog/internal/core"
)

// Ports implemented by the data backends and consumed by the service layer.
type (
	ExpenseStore interface {
		// ListExpenses returns expenses in insertion order. A non-empty
		// filter other than the "All" sentinel restricts the result to
		// case-insensitive category matches. Never errors on an empty
		// store.
		ListExpenses(ctx context.Context, categoryFilter string) ([]core.Expense, error)

		// CreateExpense validates e (ID ignored), assigns a fresh id and
		// appends the record.
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)

		// UpdateExpense applies the supplied patch fields to the expense
		// with the given id, keeping id and position unchanged.
		UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch) (core.Expense, error)

		// DeleteExpense removes and returns the expense with the given id.
		DeleteExpense(ctx context.Context, id string) (core.Expense, error)
	}

	CategoryRegistry interface {
		// ListCategories returns category names in insertion order,
		// unsorted.
		ListCategories(ctx context.Context) ([]string, error)

		// CreateCategory trims and appends a new category name, rejecting
		// case-insensitive duplicates.
		CreateCategory(ctx context.Context, name string) (string, error)
	}
)
