package amqp

import (
	"encoding/json"
	"time"

	"spendlog/internal/core"
)

// Actions carried by expense event messages.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEventMessage describes one expense mutation. The journal worker
// consumes these and appends them to the expense_events table.
type ExpenseEventMessage struct {
	Action    string    `json:"action"`
	ExpenseID string    `json:"expense_id"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(action string, e core.Expense) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Action:    action,
		ExpenseID: e.ID,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
