package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"spendlog/internal/core"
)

type RepositorySuite struct {
	suite.Suite
	repo *SQLiteRepository
	ctx  context.Context
}

func (s *RepositorySuite) SetupTest() {
	repo, err := NewSQLiteRepository(filepath.Join(s.T().TempDir(), "test.db"))
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RepositorySuite) TearDownTest() {
	s.Require().NoError(s.repo.Close())
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) mustCreateUser(username, email string) *core.User {
	u, err := s.repo.CreateUser(s.ctx, username, email, "hash")
	s.Require().NoError(err)
	return u
}

func (s *RepositorySuite) mustCreateExpense(userID int64, title, category string, cents int64) *core.Expense {
	e, err := s.repo.CreateExpense(s.ctx, core.Expense{
		UserID:   userID,
		Title:    title,
		Category: category,
		Amount:   core.Money{Cents: cents},
	})
	s.Require().NoError(err)
	return e
}

func (s *RepositorySuite) TestCreateAndGetUser() {
	u := s.mustCreateUser("ada", "ada@example.com")
	s.NotZero(u.ID)
	s.False(u.CreatedAt.IsZero())

	byEmail, err := s.repo.GetUserByEmail(s.ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)

	byID, err := s.repo.GetUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("ada", byID.Username)

	_, err = s.repo.GetUserByID(s.ctx, 9999)
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *RepositorySuite) TestDuplicateEmailCaseInsensitive() {
	s.mustCreateUser("ada", "ada@example.com")

	_, err := s.repo.CreateUser(s.ctx, "other", "ADA@Example.COM", "hash2")
	s.ErrorIs(err, core.ErrEmailTaken)

	// Lookup is case-insensitive too
	u, err := s.repo.GetUserByEmail(s.ctx, "Ada@Example.Com")
	s.Require().NoError(err)
	s.Equal("ada", u.Username)
}

func (s *RepositorySuite) TestExpenseCRUD() {
	u := s.mustCreateUser("ada", "ada@example.com")
	e := s.mustCreateExpense(u.ID, "Coffee", "Food", 450)
	s.NotZero(e.ID)
	s.False(e.CreatedAt.IsZero())

	got, err := s.repo.GetExpense(s.ctx, u.ID, e.ID)
	s.Require().NoError(err)
	s.Equal("Coffee", got.Title)
	s.Equal(int64(450), got.Amount.Cents)

	updated, err := s.repo.UpdateExpense(s.ctx, core.Expense{
		ID: e.ID, UserID: u.ID, Title: "Espresso", Category: "Food", Amount: core.Money{Cents: 300},
	})
	s.Require().NoError(err)
	s.Equal("Espresso", updated.Title)
	s.Equal(int64(300), updated.Amount.Cents)
	s.Equal(e.CreatedAt.Unix(), updated.CreatedAt.Unix(), "created_at is immutable")

	s.Require().NoError(s.repo.DeleteExpense(s.ctx, u.ID, e.ID))
	_, err = s.repo.GetExpense(s.ctx, u.ID, e.ID)
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *RepositorySuite) TestOwnerScoping() {
	ada := s.mustCreateUser("ada", "ada@example.com")
	bob := s.mustCreateUser("bob", "bob@example.com")
	e := s.mustCreateExpense(ada.ID, "Coffee", "Food", 450)

	// Another user's expense is indistinguishable from a missing one
	_, err := s.repo.GetExpense(s.ctx, bob.ID, e.ID)
	s.ErrorIs(err, core.ErrNotFound)

	_, err = s.repo.UpdateExpense(s.ctx, core.Expense{
		ID: e.ID, UserID: bob.ID, Title: "Hijack", Category: "X", Amount: core.Money{Cents: 1},
	})
	s.ErrorIs(err, core.ErrNotFound)

	s.ErrorIs(s.repo.DeleteExpense(s.ctx, bob.ID, e.ID), core.ErrNotFound)

	// The row is untouched
	got, err := s.repo.GetExpense(s.ctx, ada.ID, e.ID)
	s.Require().NoError(err)
	s.Equal("Coffee", got.Title)

	list, err := s.repo.ListExpenses(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *RepositorySuite) TestListNewestFirst() {
	u := s.mustCreateUser("ada", "ada@example.com")
	s.mustCreateExpense(u.ID, "First", "Food", 100)
	s.mustCreateExpense(u.ID, "Second", "Food", 200)
	s.mustCreateExpense(u.ID, "Third", "Food", 300)

	list, err := s.repo.ListExpenses(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("Third", list[0].Title)
	s.Equal("First", list[2].Title)
}

func (s *RepositorySuite) TestAggregates() {
	u := s.mustCreateUser("ada", "ada@example.com")
	s.mustCreateExpense(u.ID, "Lunch", "Food", 1000)
	s.mustCreateExpense(u.ID, "Snack", "Food", 500)
	s.mustCreateExpense(u.ID, "Train", "Travel", 2000)

	count, total, err := s.repo.GetTotals(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), count)
	s.Equal(int64(3500), total)

	stats, err := s.repo.GetCategoryStats(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(stats, 2)
	s.Equal("Travel", stats[0].Category)
	s.Equal(int64(2000), stats[0].Total.Cents)
	s.Equal("Food", stats[1].Category)
	s.Equal(int64(2), stats[1].Count)

	recent, err := s.repo.GetExpensesSince(s.ctx, u.ID, time.Now().UTC().Add(-7*24*time.Hour))
	s.Require().NoError(err)
	s.Len(recent, 3)

	none, err := s.repo.GetExpensesSince(s.ctx, u.ID, time.Now().UTC().Add(time.Hour))
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositorySuite) TestAggregatesEmpty() {
	u := s.mustCreateUser("ada", "ada@example.com")

	count, total, err := s.repo.GetTotals(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Zero(count)
	s.Zero(total)

	stats, err := s.repo.GetCategoryStats(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Empty(stats)
}

func (s *RepositorySuite) TestEventTrail() {
	now := time.Now().UTC()
	s.Require().NoError(s.repo.RecordEvent(s.ctx, 1, 2, "created", "Coffee", "Food", 450, now))
	s.Require().NoError(s.repo.RecordEvent(s.ctx, 1, 2, "deleted", "Coffee", "Food", 450, now))

	n, err := s.repo.CountEventsSince(s.ctx, now.Add(-time.Minute))
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	n, err = s.repo.CountEventsSince(s.ctx, now.Add(time.Minute))
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *RepositorySuite) TestDeleteUserCascades() {
	u := s.mustCreateUser("ada", "ada@example.com")
	s.mustCreateExpense(u.ID, "Coffee", "Food", 450)

	_, err := s.repo.db.ExecContext(s.ctx, "DELETE FROM users WHERE id = ?", u.ID)
	s.Require().NoError(err)

	list, err := s.repo.ListExpenses(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Empty(list)
}
