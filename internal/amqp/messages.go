package amqp

import (
	"encoding/json"
	"time"
)

// Action identifies what happened to an expense.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ExpenseEventMessage carries one expense mutation to the audit worker.
// It is self-contained so the worker never has to read the row back; the
// row may already be gone for deletes.
type ExpenseEventMessage struct {
	ExpenseID   int64     `json:"expense_id"`
	UserID      int64     `json:"user_id"`
	Action      Action    `json:"action"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseEventMessage creates an event stamped with the current time.
func NewExpenseEventMessage(action Action, expenseID, userID int64, title, category string, amountCents int64) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		ExpenseID:   expenseID,
		UserID:      userID,
		Action:      action,
		Title:       title,
		Category:    category,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON creates a message from JSON bytes.
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
