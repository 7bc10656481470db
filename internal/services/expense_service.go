package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	"spendlog/internal/ports"
)

// EventPublisher is the outbound port for expense mutation events.
// *amqp.Client satisfies it; a nil publisher disables event publishing.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, action string, e core.Expense) error
	Close() error
}

// ExpenseService fronts the configured backend, fanning out best-effort
// mutation events. Event publishing never fails a request: the store is the
// source of truth and the journal is eventually consistent.
type ExpenseService struct {
	store     ports.ExpenseStore
	registry  ports.CategoryRegistry
	publisher EventPublisher
	cleanup   func() error
}

func NewExpenseService(store ports.ExpenseStore, registry ports.CategoryRegistry, publisher EventPublisher, cleanup func() error) *ExpenseService {
	return &ExpenseService{
		store:     store,
		registry:  registry,
		publisher: publisher,
		cleanup:   cleanup,
	}
}

func (s *ExpenseService) ListExpenses(ctx context.Context, categoryFilter string) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, categoryFilter)
}

func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}
	s.publishEvent(ctx, amqp.ActionCreated, created)
	return created, nil
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch) (core.Expense, error) {
	updated, err := s.store.UpdateExpense(ctx, id, patch)
	if err != nil {
		return core.Expense{}, err
	}
	s.publishEvent(ctx, amqp.ActionUpdated, updated)
	return updated, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) (core.Expense, error) {
	removed, err := s.store.DeleteExpense(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}
	s.publishEvent(ctx, amqp.ActionDeleted, removed)
	return removed, nil
}

// Summarize recomputes the per-category breakdown from the full unfiltered
// collection on every call. There is no cached aggregate to invalidate.
func (s *ExpenseService) Summarize(ctx context.Context) (core.Summary, error) {
	expenses, err := s.store.ListExpenses(ctx, "")
	if err != nil {
		return core.Summary{}, fmt.Errorf("list expenses for summary: %w", err)
	}
	return core.Summarize(expenses), nil
}

func (s *ExpenseService) ListCategories(ctx context.Context) ([]string, error) {
	return s.registry.ListCategories(ctx)
}

func (s *ExpenseService) CreateCategory(ctx context.Context, name string) (string, error) {
	return s.registry.CreateCategory(ctx, name)
}

func (s *ExpenseService) publishEvent(ctx context.Context, action string, e core.Expense) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, action, e); err != nil {
		// The mutation already succeeded locally; don't fail the request.
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"action", action,
			"expense_id", e.ID,
			"error", err)
	}
}

// Close releases the backend and the publisher.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.cleanup != nil {
		if err := s.cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("backend: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
