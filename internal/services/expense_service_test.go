package services

import (
	"context"
	"errors"
	"testing"

	"spendlog/internal/core"
	"spendlog/internal/memory"
)

type recordingPublisher struct {
	events []string
	closed bool
	err    error
}

func (p *recordingPublisher) PublishExpenseEvent(_ context.Context, action string, e core.Expense) error {
	p.events = append(p.events, action+":"+e.ID)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func newTestService(pub EventPublisher) *ExpenseService {
	store := memory.New(memory.DefaultCategories())
	return NewExpenseService(store, store, pub, nil)
}

func TestServicePublishesEvents(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(pub)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, core.Expense{Amount: 20, Category: "Food", Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amount := 25.0
	if _, err := svc.UpdateExpense(ctx, created.ID, core.ExpensePatch{Amount: &amount}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.DeleteExpense(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{
		"created:" + created.ID,
		"updated:" + created.ID,
		"deleted:" + created.ID,
	}
	if len(pub.events) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), pub.events)
	}
	for i, w := range want {
		if pub.events[i] != w {
			t.Fatalf("event %d: got %q want %q", i, pub.events[i], w)
		}
	}
}

func TestServiceFailedMutationPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(pub)
	ctx := context.Background()

	if _, err := svc.CreateExpense(ctx, core.Expense{Amount: -1, Category: "Food", Date: "2024-01-01"}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.DeleteExpense(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events, got %v", pub.events)
	}
}

func TestServicePublishErrorDoesNotFailRequest(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(pub)

	created, err := svc.CreateExpense(context.Background(), core.Expense{Amount: 20, Category: "Food", Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("create should succeed despite publish failure: %v", err)
	}

	items, _ := svc.ListExpenses(context.Background(), "")
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("expense not stored: %v", items)
	}
}

func TestServiceSummarize(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	s, err := svc.Summarize(ctx)
	if err != nil || len(s.Categories) != 0 || s.GrandTotal != 0 {
		t.Fatalf("unexpected empty summary: %+v err=%v", s, err)
	}

	food, _ := svc.CreateExpense(ctx, core.Expense{Amount: 20, Category: "Food", Date: "2024-01-01"})
	if _, err := svc.CreateExpense(ctx, core.Expense{Amount: 30, Category: "Transport", Date: "2024-01-02"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Moving the Food expense to Transport collapses the summary to one row.
	category := "Transport"
	if _, err := svc.UpdateExpense(ctx, food.ID, core.ExpensePatch{Category: &category}); err != nil {
		t.Fatalf("update: %v", err)
	}

	s, err = svc.Summarize(ctx)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	totals := s.Totals()
	if len(totals) != 1 || totals["Transport"] != 50 {
		t.Fatalf("unexpected totals: %v", totals)
	}
	if s.GrandTotal != 50 {
		t.Fatalf("expected grand total 50, got %v", s.GrandTotal)
	}
}

func TestServiceClose(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		svc := newTestService(nil)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close should not return error with nil components: %v", err)
		}
	})

	t.Run("closes publisher", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := newTestService(pub)
		if err := svc.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
		if !pub.closed {
			t.Fatalf("publisher not closed")
		}
	})

	t.Run("reports cleanup error", func(t *testing.T) {
		store := memory.New(memory.DefaultCategories())
		svc := NewExpenseService(store, store, nil, func() error { return errors.New("boom") })
		if err := svc.Close(); err == nil {
			t.Fatalf("expected cleanup error")
		}
	})
}
