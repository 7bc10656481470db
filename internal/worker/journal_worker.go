package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendlog/internal/amqp"
)

// EventJournal is the persistence port for consumed expense events.
// *storage.SQLiteRepository satisfies it.
type EventJournal interface {
	RecordExpenseEvent(ctx context.Context, expenseID, action string, occurredAt time.Time) error
}

// JournalWorker consumes expense mutation events and appends them to the
// journal. It is a pure observer: it never mutates the expense store.
type JournalWorker struct {
	journal EventJournal
	client  *amqp.Client
}

func NewJournalWorker(journal EventJournal, client *amqp.Client) *JournalWorker {
	return &JournalWorker{
		journal: journal,
		client:  client,
	}
}

// HandleEvent processes a single expense event message.
func (w *JournalWorker) HandleEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	switch msg.Action {
	case amqp.ActionCreated, amqp.ActionUpdated, amqp.ActionDeleted:
	default:
		return fmt.Errorf("unknown event action %q", msg.Action)
	}
	if msg.ExpenseID == "" {
		return fmt.Errorf("event without expense id")
	}

	occurredAt := msg.Timestamp
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	if err := w.journal.RecordExpenseEvent(ctx, msg.ExpenseID, msg.Action, occurredAt); err != nil {
		return fmt.Errorf("journal expense event: %w", err)
	}

	slog.InfoContext(ctx, "Journaled expense event",
		"action", msg.Action,
		"expense_id", msg.ExpenseID,
		"category", msg.Category,
		"amount", msg.Amount)

	return nil
}

// Run consumes events until ctx is cancelled, reconnecting on transport
// failures.
func (w *JournalWorker) Run(ctx context.Context) error {
	return w.client.ConsumeForever(ctx, func(msg *amqp.ExpenseEventMessage) error {
		return w.HandleEvent(ctx, msg)
	})
}
