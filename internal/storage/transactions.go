package storage

import (
	"context"
	"database/sql"
	"time"

	"budget-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// CreateTransaction inserts a new transaction row. Balance upkeep is
// the caller's job, via AdjustAccountBalance in the same transaction.
func (q *Queries) CreateTransaction(ctx context.Context, accountID int64, amount decimal.Decimal, timestamp time.Time, description, category string) (*models.Transaction, error) {
	result, err := q.db.ExecContext(ctx,
		"INSERT INTO transactions (account_id, amount, timestamp, description, category) VALUES (?, ?, ?, ?, ?)",
		accountID, amount, timestamp, description, category,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return q.GetTransaction(ctx, id)
}

// GetTransaction retrieves a transaction by id.
func (q *Queries) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT id, account_id, amount, timestamp, description, category FROM transactions WHERE id = ?",
		id,
	)

	var t models.Transaction
	if err := row.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Timestamp, &t.Description, &t.Category); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTransactions retrieves all transactions for an account, newest
// timestamp first, with insertion order as the stable tie-break.
func (q *Queries) ListTransactions(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	return q.listTransactions(ctx, accountID, -1)
}

// ListRecentTransactions retrieves the newest limit transactions for
// an account.
func (q *Queries) ListRecentTransactions(ctx context.Context, accountID int64, limit int) ([]models.Transaction, error) {
	return q.listTransactions(ctx, accountID, limit)
}

func (q *Queries) listTransactions(ctx context.Context, accountID int64, limit int) ([]models.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, account_id, amount, timestamp, description, category FROM transactions WHERE account_id = ? ORDER BY timestamp DESC, id ASC LIMIT ?",
		accountID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Timestamp, &t.Description, &t.Category); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// UpdateTransaction writes a transaction's mutable fields, including
// the owning account for cross-account moves.
func (q *Queries) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	result, err := q.db.ExecContext(ctx,
		"UPDATE transactions SET account_id = ?, amount = ?, timestamp = ?, description = ?, category = ? WHERE id = ?",
		t.AccountID, t.Amount, t.Timestamp, t.Description, t.Category, t.ID,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTransaction removes a transaction row.
func (q *Queries) DeleteTransaction(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SumTransactionAmounts recomputes the source-of-truth sum of an
// account's transaction amounts. Summation happens in Go because
// SQLite's SUM() works in floating point.
func (q *Queries) SumTransactionAmounts(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT amount FROM transactions WHERE account_id = ?",
		accountID,
	)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(amount)
	}
	return sum, rows.Err()
}
