package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite provides a test suite for row-level store operations
type StoreTestSuite struct {
	suite.Suite
	ctx context.Context
	db  *DB
	q   *Queries
}

// SetupTest runs before each test
func (suite *StoreTestSuite) SetupTest() {
	db, err := Open(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
	suite.q = db.Queries()
	suite.ctx = context.Background()
}

// TearDownTest runs after each test
func (suite *StoreTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *StoreTestSuite) TestCreateAndGetUser() {
	email := "alice@example.com"
	u, err := suite.q.CreateUser(suite.ctx, "Alice", &email)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Alice", u.Name)
	require.NotNil(suite.T(), u.Email)
	assert.Equal(suite.T(), email, *u.Email)

	got, err := suite.q.GetUser(suite.ctx, u.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), u.ID, got.ID)
}

func (suite *StoreTestSuite) TestGetUserNotFound() {
	_, err := suite.q.GetUser(suite.ctx, 9999)
	assert.ErrorIs(suite.T(), err, sql.ErrNoRows)
}

func (suite *StoreTestSuite) TestUserWithoutEmail() {
	u, err := suite.q.CreateUser(suite.ctx, "Bob", nil)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), u.Email)

	// A second user without an email must not trip the unique index
	_, err = suite.q.CreateUser(suite.ctx, "Carol", nil)
	assert.NoError(suite.T(), err)
}

func (suite *StoreTestSuite) TestDuplicateEmailRejectedByIndex() {
	email := "dup@example.com"
	_, err := suite.q.CreateUser(suite.ctx, "First", &email)
	require.NoError(suite.T(), err)

	_, err = suite.q.CreateUser(suite.ctx, "Second", &email)
	assert.Error(suite.T(), err, "unique index on email should reject the insert")
}

func (suite *StoreTestSuite) TestCreateAccountSeedsBalance() {
	u, err := suite.q.CreateUser(suite.ctx, "Alice", nil)
	require.NoError(suite.T(), err)

	opening := decimal.RequireFromString("100.50")
	a, err := suite.q.CreateAccount(suite.ctx, u.ID, "Checking", opening)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), a.Balance.Equal(opening), "balance %s", a.Balance)
	assert.True(suite.T(), a.OpeningBalance.Equal(opening))
}

func (suite *StoreTestSuite) TestAdjustAccountBalance() {
	u, err := suite.q.CreateUser(suite.ctx, "Alice", nil)
	require.NoError(suite.T(), err)
	a, err := suite.q.CreateAccount(suite.ctx, u.ID, "Checking", decimal.NewFromInt(100))
	require.NoError(suite.T(), err)

	err = suite.q.AdjustAccountBalance(suite.ctx, a.ID, decimal.RequireFromString("-20.25"))
	require.NoError(suite.T(), err)

	got, err := suite.q.GetAccount(suite.ctx, a.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), got.Balance.Equal(decimal.RequireFromString("79.75")), "balance %s", got.Balance)
}

func (suite *StoreTestSuite) TestListTransactionsOrder() {
	u, err := suite.q.CreateUser(suite.ctx, "Alice", nil)
	require.NoError(suite.T(), err)
	a, err := suite.q.CreateAccount(suite.ctx, u.ID, "Checking", decimal.Zero)
	require.NoError(suite.T(), err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// Two share a timestamp so the id tie-break is observable
	_, err = suite.q.CreateTransaction(suite.ctx, a.ID, decimal.NewFromInt(1), base, "first", "")
	require.NoError(suite.T(), err)
	_, err = suite.q.CreateTransaction(suite.ctx, a.ID, decimal.NewFromInt(2), base.Add(time.Hour), "newest", "")
	require.NoError(suite.T(), err)
	_, err = suite.q.CreateTransaction(suite.ctx, a.ID, decimal.NewFromInt(3), base, "second", "")
	require.NoError(suite.T(), err)

	txs, err := suite.q.ListTransactions(suite.ctx, a.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), txs, 3)
	assert.Equal(suite.T(), "newest", txs[0].Description)
	assert.Equal(suite.T(), "first", txs[1].Description, "tie broken by ascending id")
	assert.Equal(suite.T(), "second", txs[2].Description)
}

func (suite *StoreTestSuite) TestListRecentTransactionsLimit() {
	u, err := suite.q.CreateUser(suite.ctx, "Alice", nil)
	require.NoError(suite.T(), err)
	a, err := suite.q.CreateAccount(suite.ctx, u.ID, "Checking", decimal.Zero)
	require.NoError(suite.T(), err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err = suite.q.CreateTransaction(suite.ctx, a.ID, decimal.NewFromInt(int64(i)), base.Add(time.Duration(i)*time.Minute), "", "")
		require.NoError(suite.T(), err)
	}

	txs, err := suite.q.ListRecentTransactions(suite.ctx, a.ID, 2)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), txs, 2)
	assert.True(suite.T(), txs[0].Amount.Equal(decimal.NewFromInt(4)))
	assert.True(suite.T(), txs[1].Amount.Equal(decimal.NewFromInt(3)))
}

func (suite *StoreTestSuite) TestSumTransactionAmounts() {
	u, err := suite.q.CreateUser(suite.ctx, "Alice", nil)
	require.NoError(suite.T(), err)
	a, err := suite.q.CreateAccount(suite.ctx, u.ID, "Checking", decimal.Zero)
	require.NoError(suite.T(), err)

	now := time.Now().UTC()
	amounts := []string{"0.10", "0.20", "-0.30", "100"}
	for _, s := range amounts {
		_, err = suite.q.CreateTransaction(suite.ctx, a.ID, decimal.RequireFromString(s), now, "", "")
		require.NoError(suite.T(), err)
	}

	sum, err := suite.q.SumTransactionAmounts(suite.ctx, a.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), sum.Equal(decimal.NewFromInt(100)), "sum %s", sum)
}

func (suite *StoreTestSuite) TestDeleteAccountCascade() {
	u, err := suite.q.CreateUser(suite.ctx, "Alice", nil)
	require.NoError(suite.T(), err)
	a, err := suite.q.CreateAccount(suite.ctx, u.ID, "Checking", decimal.Zero)
	require.NoError(suite.T(), err)
	tx, err := suite.q.CreateTransaction(suite.ctx, a.ID, decimal.NewFromInt(5), time.Now().UTC(), "", "")
	require.NoError(suite.T(), err)

	err = suite.db.WithTx(suite.ctx, func(q *Queries) error {
		return q.DeleteAccountCascade(suite.ctx, a.ID)
	})
	require.NoError(suite.T(), err)

	_, err = suite.q.GetAccount(suite.ctx, a.ID)
	assert.ErrorIs(suite.T(), err, sql.ErrNoRows)
	_, err = suite.q.GetTransaction(suite.ctx, tx.ID)
	assert.ErrorIs(suite.T(), err, sql.ErrNoRows)
}

func (suite *StoreTestSuite) TestDeleteUserCascade() {
	u, err := suite.q.CreateUser(suite.ctx, "Alice", nil)
	require.NoError(suite.T(), err)
	a1, err := suite.q.CreateAccount(suite.ctx, u.ID, "Checking", decimal.Zero)
	require.NoError(suite.T(), err)
	a2, err := suite.q.CreateAccount(suite.ctx, u.ID, "Savings", decimal.Zero)
	require.NoError(suite.T(), err)
	tx, err := suite.q.CreateTransaction(suite.ctx, a1.ID, decimal.NewFromInt(5), time.Now().UTC(), "", "")
	require.NoError(suite.T(), err)

	err = suite.db.WithTx(suite.ctx, func(q *Queries) error {
		return q.DeleteUserCascade(suite.ctx, u.ID)
	})
	require.NoError(suite.T(), err)

	for _, lookup := range []func() error{
		func() error { _, err := suite.q.GetUser(suite.ctx, u.ID); return err },
		func() error { _, err := suite.q.GetAccount(suite.ctx, a1.ID); return err },
		func() error { _, err := suite.q.GetAccount(suite.ctx, a2.ID); return err },
		func() error { _, err := suite.q.GetTransaction(suite.ctx, tx.ID); return err },
	} {
		assert.ErrorIs(suite.T(), lookup(), sql.ErrNoRows)
	}
}

func (suite *StoreTestSuite) TestWithTxRollsBackOnError() {
	u, err := suite.q.CreateUser(suite.ctx, "Alice", nil)
	require.NoError(suite.T(), err)
	a, err := suite.q.CreateAccount(suite.ctx, u.ID, "Checking", decimal.NewFromInt(50))
	require.NoError(suite.T(), err)

	boom := assert.AnError
	err = suite.db.WithTx(suite.ctx, func(q *Queries) error {
		if _, err := q.CreateTransaction(suite.ctx, a.ID, decimal.NewFromInt(10), time.Now().UTC(), "", ""); err != nil {
			return err
		}
		if err := q.AdjustAccountBalance(suite.ctx, a.ID, decimal.NewFromInt(10)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(suite.T(), err, boom)

	// Neither the row nor the balance adjustment survived
	got, err := suite.q.GetAccount(suite.ctx, a.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), got.Balance.Equal(decimal.NewFromInt(50)), "balance %s", got.Balance)

	txs, err := suite.q.ListTransactions(suite.ctx, a.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), txs)
}

func (suite *StoreTestSuite) TestUpdateMissingRowsReportNoRows() {
	assert.ErrorIs(suite.T(), suite.q.RenameAccount(suite.ctx, 404, "x"), sql.ErrNoRows)
	assert.ErrorIs(suite.T(), suite.q.DeleteTransaction(suite.ctx, 404), sql.ErrNoRows)
	err := suite.db.WithTx(suite.ctx, func(q *Queries) error {
		return q.DeleteUserCascade(suite.ctx, 404)
	})
	assert.ErrorIs(suite.T(), err, sql.ErrNoRows)
}

// Test suite runner
func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
