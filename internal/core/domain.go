package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// User is an account holder. The password hash never leaves the server.
	User struct {
		ID           int64     `json:"id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	// Expense is a single recorded spend, always owned by exactly one user.
	Expense struct {
		ID        int64     `json:"id"`
		UserID    int64     `json:"-"`
		Title     string    `json:"title"`
		Category  string    `json:"category"`
		Amount    Money     `json:"amount"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrEmptyCategory   = errors.New("category cannot be empty")
	ErrCategoryTooLong = errors.New("category too long (max 100 characters)")
	ErrNotFound        = errors.New("not found")
	ErrEmailTaken      = errors.New("user with this email already exists")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Normalize trims the mutable text fields in place.
func (e *Expense) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Category = strings.TrimSpace(e.Category)
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Category) > 100 {
		return ErrCategoryTooLong
	}
	return e.Amount.Validate()
}
