package database

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type DatabaseTestSuite struct {
	suite.Suite
	db *DB
}

func (s *DatabaseTestSuite) SetupTest() {
	db, err := NewMemory()
	require.NoError(s.T(), err)
	s.db = db
}

func (s *DatabaseTestSuite) TestCreateUserDuplicateUsername() {
	ctx := context.Background()

	user, err := s.db.CreateUser(ctx, "alice", "hash-1")
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), user.ID)

	_, err = s.db.CreateUser(ctx, "alice", "hash-2")
	assert.ErrorIs(s.T(), err, ErrDuplicateUsername)
}

func (s *DatabaseTestSuite) TestGetUserByUsername() {
	ctx := context.Background()

	_, err := s.db.CreateUser(ctx, "alice", "hash-1")
	require.NoError(s.T(), err)

	user, err := s.db.GetUserByUsername(ctx, "alice")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "hash-1", user.PasswordHash)

	_, err = s.db.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(s.T(), err, gorm.ErrRecordNotFound)
}

func (s *DatabaseTestSuite) insert(date, person, credit, debit, balance string) *LedgerEntry {
	entry := &LedgerEntry{
		EntryDate: date,
		Person:    person,
		Credit:    decimal.RequireFromString(credit),
		Debit:     decimal.RequireFromString(debit),
		AddedBy:   "alice",
		Balance:   decimal.RequireFromString(balance),
	}
	require.NoError(s.T(), s.db.InsertEntry(context.Background(), entry))
	return entry
}

func (s *DatabaseTestSuite) TestEntryIDsAreMonotonic() {
	first := s.insert("2024-01-01", "Alice", "500", "0", "500")
	second := s.insert("2024-01-02", "Bob", "0", "200", "300")
	assert.Greater(s.T(), second.ID, first.ID)
}

func (s *DatabaseTestSuite) TestListEntriesOrdersByDateDescending() {
	s.insert("2024-01-01", "old", "10", "0", "10")
	s.insert("2024-03-01", "new", "10", "0", "20")
	s.insert("2024-02-01", "mid", "10", "0", "30")

	entries, err := s.db.ListEntries(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 3)
	assert.Equal(s.T(), "new", entries[0].Person)
	assert.Equal(s.T(), "mid", entries[1].Person)
	assert.Equal(s.T(), "old", entries[2].Person)
}

func (s *DatabaseTestSuite) TestListEntriesBySequenceIgnoresDates() {
	s.insert("2024-03-01", "first", "10", "0", "10")
	s.insert("2024-01-01", "second", "10", "0", "20")

	entries, err := s.db.ListEntriesBySequence(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 2)
	assert.Equal(s.T(), "first", entries[0].Person)
	assert.Equal(s.T(), "second", entries[1].Person)
}

func (s *DatabaseTestSuite) TestLastEntry() {
	ctx := context.Background()

	last, err := s.db.LastEntry(ctx)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), last)

	// The last entry is picked by insertion order, not by date.
	s.insert("2024-03-01", "newest date", "10", "0", "10")
	s.insert("2024-01-01", "oldest date", "10", "0", "20")

	last, err = s.db.LastEntry(ctx)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), last)
	assert.Equal(s.T(), "oldest date", last.Person)
	assert.True(s.T(), last.Balance.Equal(decimal.NewFromInt(20)))
}

func (s *DatabaseTestSuite) TestSumCreditsDebits() {
	ctx := context.Background()

	credit, debit, err := s.db.SumCreditsDebits(ctx)
	require.NoError(s.T(), err)
	assert.True(s.T(), credit.IsZero())
	assert.True(s.T(), debit.IsZero())

	s.insert("2024-01-01", "Alice", "500.10", "0", "500.10")
	s.insert("2024-01-02", "Bob", "0", "200.05", "300.05")

	credit, debit, err = s.db.SumCreditsDebits(ctx)
	require.NoError(s.T(), err)
	assert.True(s.T(), credit.Equal(decimal.RequireFromString("500.10")))
	assert.True(s.T(), debit.Equal(decimal.RequireFromString("200.05")))
}

func (s *DatabaseTestSuite) TestDeleteEntryLeavesOtherRowsAlone() {
	ctx := context.Background()
	first := s.insert("2024-01-01", "Alice", "500", "0", "500")
	s.insert("2024-01-02", "Bob", "0", "200", "300")

	require.NoError(s.T(), s.db.DeleteEntry(ctx, first.ID))

	entries, err := s.db.ListEntriesBySequence(ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 1)
	assert.Equal(s.T(), "Bob", entries[0].Person)
	assert.True(s.T(), entries[0].Balance.Equal(decimal.NewFromInt(300)))

	// Deleting again is a no-op.
	require.NoError(s.T(), s.db.DeleteEntry(ctx, first.ID))
}

func TestDatabaseTestSuite(t *testing.T) {
	suite.Run(t, new(DatabaseTestSuite))
}
