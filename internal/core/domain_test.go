package core

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseValidate(t *testing.T) {
	valid := Expense{Title: "Coffee", Category: "Food", Amount: Money{Cents: 450}}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name    string
		mutate  func(e *Expense)
		wantErr error
	}{
		{"empty title", func(e *Expense) { e.Title = "  " }, ErrEmptyTitle},
		{"empty category", func(e *Expense) { e.Category = "" }, ErrEmptyCategory},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{"title too long", func(e *Expense) { e.Title = strings.Repeat("x", 201) }, ErrTitleTooLong},
		{"category too long", func(e *Expense) { e.Category = strings.Repeat("x", 101) }, ErrCategoryTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := valid
			tc.mutate(&e)
			assert.ErrorIs(t, e.Validate(), tc.wantErr)
		})
	}
}

func TestExpenseNormalize(t *testing.T) {
	e := Expense{Title: "  Coffee ", Category: " Food  "}
	e.Normalize()
	assert.Equal(t, "Coffee", e.Title)
	assert.Equal(t, "Food", e.Category)
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := User{ID: 1, Username: "ada", Email: "ada@example.com", PasswordHash: "secret-hash"}
	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret-hash")
	assert.Contains(t, string(out), `"username":"ada"`)
}

func TestExpenseJSONHidesOwner(t *testing.T) {
	e := Expense{ID: 7, UserID: 3, Title: "Coffee", Category: "Food", Amount: Money{Cents: 450}}
	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "user")
	assert.Contains(t, string(out), `"amount":4.5`)
}
