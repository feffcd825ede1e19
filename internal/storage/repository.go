package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spendlog/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the single relational store behind the service. Every
// expense query carries the owner's user id in its predicate, so cross-user
// access is structurally impossible rather than separately authorized.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// One writer connection; also keeps the foreign_keys pragma in force
	// for every statement.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a new account. The email uniqueness check is
// case-insensitive; a duplicate yields core.ErrEmailTaken.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*core.User, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		username, email, passwordHash, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, core.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user insert id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", username)

	return &core.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// GetUserByEmail looks an account up case-insensitively.
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE email = ? COLLATE NOCASE",
		email,
	)
	return scanUser(row)
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?",
		id,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// CreateExpense inserts an expense with a server-assigned creation time.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (*core.Expense, error) {
	e.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (user_id, title, category, amount_cents, created_at) VALUES (?, ?, ?, ?, ?)",
		e.UserID, e.Title, e.Category, e.Amount.Cents, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("expense insert id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Expense created",
		"id", e.ID,
		"user_id", e.UserID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents)

	return &e, nil
}

// GetExpense returns the expense only when owned by ownerID; a missing row
// and a foreign row are both core.ErrNotFound.
func (r *SQLiteRepository) GetExpense(ctx context.Context, ownerID, id int64) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, category, amount_cents, created_at FROM expenses WHERE id = ? AND user_id = ?",
		id, ownerID,
	)
	var e core.Expense
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Category, &e.Amount.Cents, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	return &e, nil
}

// ListExpenses returns all of the owner's expenses, newest first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, ownerID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, title, category, amount_cents, created_at FROM expenses WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// UpdateExpense overwrites the mutable fields in a single conditional
// statement scoped by owner; zero affected rows means core.ErrNotFound.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (*core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET title = ?, category = ?, amount_cents = ? WHERE id = ? AND user_id = ?",
		e.Title, e.Category, e.Amount.Cents, e.ID, e.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update rows affected: %w", err)
	}
	if affected == 0 {
		return nil, core.ErrNotFound
	}

	return r.GetExpense(ctx, e.UserID, e.ID)
}

// DeleteExpense removes the expense in a single owner-scoped statement.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// GetTotals returns the owner's expense count and cents sum.
func (r *SQLiteRepository) GetTotals(ctx context.Context, ownerID int64) (count, totalCents int64, err error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(amount_cents), 0) FROM expenses WHERE user_id = ?",
		ownerID,
	)
	if err := row.Scan(&count, &totalCents); err != nil {
		return 0, 0, fmt.Errorf("scan totals: %w", err)
	}
	return count, totalCents, nil
}

// GetCategoryStats returns per-category count and sum, largest sum first.
func (r *SQLiteRepository) GetCategoryStats(ctx context.Context, ownerID int64) ([]core.CategoryStat, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT category, COUNT(*), SUM(amount_cents) FROM expenses WHERE user_id = ? GROUP BY category ORDER BY SUM(amount_cents) DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	defer rows.Close()

	stats := make([]core.CategoryStat, 0)
	for rows.Next() {
		var cs core.CategoryStat
		if err := rows.Scan(&cs.Category, &cs.Count, &cs.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		stats = append(stats, cs)
	}
	return stats, rows.Err()
}

// GetExpensesSince returns the owner's expenses created at or after the
// cutoff, newest first.
func (r *SQLiteRepository) GetExpensesSince(ctx context.Context, ownerID int64, since time.Time) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, title, category, amount_cents, created_at FROM expenses WHERE user_id = ? AND created_at >= ? ORDER BY created_at DESC, id DESC",
		ownerID, since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("expenses since: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// RecordEvent appends one row to the expense audit trail.
func (r *SQLiteRepository) RecordEvent(ctx context.Context, expenseID, userID int64, action, title, category string, amountCents int64, occurredAt time.Time) error {
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO expense_events (expense_id, user_id, action, title, category, amount_cents, occurred_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		expenseID, userID, action, title, category, amountCents, occurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert expense event: %w", err)
	}
	return nil
}

// CountEventsSince reports how many audit rows exist at or after the cutoff.
// The worker's catch-up sweep uses it to spot gaps after downtime.
func (r *SQLiteRepository) CountEventsSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expense_events WHERE occurred_at >= ?",
		since.UTC(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func collectExpenses(rows *sql.Rows) ([]core.Expense, error) {
	expenses := make([]core.Expense, 0)
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Category, &e.Amount.Cents, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite reports constraint failures in the error text;
	// matching on it avoids importing the driver's error types.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
