// Package services orchestrates the domain operations: validation, owner
// scoping against the store, and best-effort event publishing.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendlog/internal/amqp"
	"spendlog/internal/auth"
	"spendlog/internal/core"
	"spendlog/internal/storage"
)

// EventPublisher publishes expense mutation events. The AMQP client
// satisfies it; tests substitute a fake.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error
}

// ExpenseService performs all expense operations for an explicit identity.
// Every storage call is scoped by the identity's user id.
type ExpenseService struct {
	storage   *storage.SQLiteRepository
	publisher EventPublisher
}

func NewExpenseService(storage *storage.SQLiteRepository, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
	}
}

// List returns all of the caller's expenses, newest first.
func (s *ExpenseService) List(ctx context.Context, id auth.Identity) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, id.UserID)
}

// Get returns one owned expense; foreign and missing ids are both
// core.ErrNotFound.
func (s *ExpenseService) Get(ctx context.Context, id auth.Identity, expenseID int64) (*core.Expense, error) {
	return s.storage.GetExpense(ctx, id.UserID, expenseID)
}

// Create validates and stores a new expense, then publishes a created event.
func (s *ExpenseService) Create(ctx context.Context, id auth.Identity, title, category string, amount core.Money) (*core.Expense, error) {
	e := core.Expense{
		UserID:   id.UserID,
		Title:    title,
		Category: category,
		Amount:   amount,
	}
	e.Normalize()
	if err := e.Validate(); err != nil {
		return nil, err
	}

	created, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.publish(ctx, amqp.ActionCreated, created)
	return created, nil
}

// Update overwrites the mutable fields of an owned expense.
func (s *ExpenseService) Update(ctx context.Context, id auth.Identity, expenseID int64, title, category string, amount core.Money) (*core.Expense, error) {
	e := core.Expense{
		ID:       expenseID,
		UserID:   id.UserID,
		Title:    title,
		Category: category,
		Amount:   amount,
	}
	e.Normalize()
	if err := e.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.storage.UpdateExpense(ctx, e)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, amqp.ActionUpdated, updated)
	return updated, nil
}

// Delete removes an owned expense and publishes a deleted event carrying
// the last known field values.
func (s *ExpenseService) Delete(ctx context.Context, id auth.Identity, expenseID int64) error {
	// Read first so the deleted event can carry the row's final state.
	e, err := s.storage.GetExpense(ctx, id.UserID, expenseID)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteExpense(ctx, id.UserID, expenseID); err != nil {
		return err
	}

	s.publish(ctx, amqp.ActionDeleted, e)
	return nil
}

// RecentWindow is the trailing slice of activity included in statistics.
const RecentWindow = 7 * 24 * time.Hour

// Statistics recomputes the caller's aggregates on every call: totals,
// per-category breakdown (largest sum first) and the trailing 7 days.
func (s *ExpenseService) Statistics(ctx context.Context, id auth.Identity) (*core.Statistics, error) {
	count, totalCents, err := s.storage.GetTotals(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("totals: %w", err)
	}

	categoryStats, err := s.storage.GetCategoryStats(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}

	recent, err := s.storage.GetExpensesSince(ctx, id.UserID, time.Now().Add(-RecentWindow))
	if err != nil {
		return nil, fmt.Errorf("recent expenses: %w", err)
	}

	return &core.Statistics{
		Summary:        core.NewSummary(count, totalCents),
		CategoryStats:  categoryStats,
		RecentExpenses: recent,
	}, nil
}

// publish sends the event best-effort: a broker failure is logged and the
// caller's request still succeeds.
func (s *ExpenseService) publish(ctx context.Context, action amqp.Action, e *core.Expense) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewExpenseEventMessage(action, e.ID, e.UserID, e.Title, e.Category, e.Amount.Cents)
	if err := s.publisher.PublishExpenseEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"expense_id", e.ID,
			"action", action,
			"error", err)
	}
}
