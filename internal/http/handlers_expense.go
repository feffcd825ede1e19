package http

import (
	"errors"
	"log/slog"
	"net/http"

	"spendlog/internal/auth"
	"spendlog/internal/core"
)

// identity reads the authenticated identity placed by requireAuth. Routes
// behind the middleware always have one; the guard covers misconfiguration.
func identity(r *http.Request) (auth.Identity, bool) {
	return auth.IdentityFromContext(r.Context())
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		UnauthorizedError("Access token required").Write(w)
		return
	}

	expenses, err := s.expenses.List(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Error fetching expenses", "error", err, "user_id", id.UserID)
		InternalServerError("Internal server error while fetching expenses").Write(w)
		return
	}

	NewJSONResponse().Payload(map[string]any{
		"expenses": expenses,
		"count":    len(expenses),
	}).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		UnauthorizedError("Access token required").Write(w)
		return
	}
	expenseID, ok := pathID(r)
	if !ok {
		NotFoundError("Expense not found").Write(w)
		return
	}

	expense, err := s.expenses.Get(r.Context(), id, expenseID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("Expense not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Error fetching expense", "error", err, "user_id", id.UserID, "expense_id", expenseID)
		InternalServerError("Internal server error while fetching expense").Write(w)
		return
	}

	NewJSONResponse().Payload(map[string]any{"expense": expense}).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		UnauthorizedError("Access token required").Write(w)
		return
	}

	req, amount, ok := s.parseExpensePayload(w, r)
	if !ok {
		return
	}

	expense, err := s.expenses.Create(r.Context(), id, req.Title, req.Category, amount)
	if err != nil {
		s.writeExpenseError(w, r, err, "Error creating expense", "Internal server error while creating expense")
		return
	}

	NewJSONResponse().Status(http.StatusCreated).Payload(map[string]any{
		"message": "Expense created successfully",
		"expense": expense,
	}).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		UnauthorizedError("Access token required").Write(w)
		return
	}
	expenseID, ok := pathID(r)
	if !ok {
		NotFoundError("Expense not found").Write(w)
		return
	}

	req, amount, ok := s.parseExpensePayload(w, r)
	if !ok {
		return
	}

	expense, err := s.expenses.Update(r.Context(), id, expenseID, req.Title, req.Category, amount)
	if err != nil {
		s.writeExpenseError(w, r, err, "Error updating expense", "Internal server error while updating expense")
		return
	}

	NewJSONResponse().Payload(map[string]any{
		"message": "Expense updated successfully",
		"expense": expense,
	}).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		UnauthorizedError("Access token required").Write(w)
		return
	}
	expenseID, ok := pathID(r)
	if !ok {
		NotFoundError("Expense not found").Write(w)
		return
	}

	if err := s.expenses.Delete(r.Context(), id, expenseID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			NotFoundError("Expense not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Error deleting expense", "error", err, "user_id", id.UserID, "expense_id", expenseID)
		InternalServerError("Internal server error while deleting expense").Write(w)
		return
	}

	NewJSONResponse().Payload(map[string]any{
		"message": "Expense deleted successfully",
	}).Write(w)
}

func (s *Server) handleExpenseStats(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		UnauthorizedError("Access token required").Write(w)
		return
	}

	stats, err := s.expenses.Statistics(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Error fetching expense statistics", "error", err, "user_id", id.UserID)
		InternalServerError("Internal server error while fetching statistics").Write(w)
		return
	}

	NewJSONResponse().Payload(stats).Write(w)
}

// parseExpensePayload decodes and validates the shared create/update body.
// On failure it writes the error response and returns ok=false.
func (s *Server) parseExpensePayload(w http.ResponseWriter, r *http.Request) (expenseRequest, core.Money, bool) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError("Title, category, and amount are required").Write(w)
		return req, core.Money{}, false
	}
	if !req.HasRequired() {
		BadRequestError("Title, category, and amount are required").Write(w)
		return req, core.Money{}, false
	}

	amount, err := req.ParseAmount()
	if err != nil {
		BadRequestError("Amount must be a positive number").Write(w)
		return req, core.Money{}, false
	}
	return req, amount, true
}

// writeExpenseError maps service errors from create/update to wire responses.
func (s *Server) writeExpenseError(w http.ResponseWriter, r *http.Request, err error, logMsg, serverErrMsg string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		NotFoundError("Expense not found").Write(w)
	case errors.Is(err, core.ErrEmptyTitle):
		BadRequestError("Title cannot be empty").Write(w)
	case errors.Is(err, core.ErrEmptyCategory):
		BadRequestError("Category cannot be empty").Write(w)
	case errors.Is(err, core.ErrTitleTooLong), errors.Is(err, core.ErrCategoryTooLong):
		BadRequestError(err.Error()).Write(w)
	case errors.Is(err, core.ErrInvalidAmount):
		BadRequestError("Amount must be a positive number").Write(w)
	default:
		slog.ErrorContext(r.Context(), logMsg, "error", err)
		InternalServerError(serverErrMsg).Write(w)
	}
}
