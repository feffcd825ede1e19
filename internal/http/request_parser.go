// Package http provides the HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating JSON request
// bodies. Amounts arrive as JSON numbers (or numeric strings) and are kept
// as raw bytes until validation so missing and malformed cases can be told
// apart.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"spendlog/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var errInvalidBody = errors.New("invalid request body")

// registerRequest is the payload for POST /api/auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the payload for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// expenseRequest is the payload for expense create and update. Amount stays
// raw so an absent field is distinguishable from an unparseable one.
type expenseRequest struct {
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
}

// HasRequired reports whether title, category and amount are all present.
func (r *expenseRequest) HasRequired() bool {
	return strings.TrimSpace(r.Title) != "" &&
		strings.TrimSpace(r.Category) != "" &&
		len(r.Amount) > 0 && string(r.Amount) != "null"
}

// ParseAmount converts the raw amount into Money, accepting a JSON number
// or a quoted decimal string. Zero and negative amounts are rejected.
func (r *expenseRequest) ParseAmount() (core.Money, error) {
	var m core.Money
	if err := json.Unmarshal(r.Amount, &m); err != nil {
		return core.Money{}, core.ErrInvalidAmount
	}
	if err := m.Validate(); err != nil {
		return core.Money{}, err
	}
	return m, nil
}

// decodeJSON reads and unmarshals a request body into dst, rejecting
// oversized bodies and trailing garbage.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errInvalidBody
	}
	if dec.More() {
		return errInvalidBody
	}
	return nil
}
