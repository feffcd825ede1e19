package amqp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpenseEventMessage(t *testing.T) {
	msg := NewExpenseEventMessage(ActionCreated, 42, 7, "Coffee", "Food", 450)

	assert.Equal(t, int64(42), msg.ExpenseID)
	assert.Equal(t, int64(7), msg.UserID)
	assert.Equal(t, ActionCreated, msg.Action)
	assert.Equal(t, "Coffee", msg.Title)
	assert.Equal(t, "Food", msg.Category)
	assert.Equal(t, int64(450), msg.AmountCents)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
}

func TestExpenseEventMessageJSON(t *testing.T) {
	msg := &ExpenseEventMessage{
		ExpenseID:   12345,
		UserID:      2,
		Action:      ActionDeleted,
		Title:       "Train",
		Category:    "Travel",
		AmountCents: 2000,
		Timestamp:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := msg.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"expense_id": 12345,
		"user_id": 2,
		"action": "deleted",
		"title": "Train",
		"category": "Travel",
		"amount_cents": 2000,
		"timestamp": "2026-01-01T12:00:00Z"
	}`, string(raw))

	parsed, err := ExpenseEventMessageFromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, msg, parsed)
}

func TestExpenseEventMessageFromInvalidJSON(t *testing.T) {
	_, err := ExpenseEventMessageFromJSON([]byte(`{"expense_id": "not_a_number"}`))
	assert.Error(t, err)
}
