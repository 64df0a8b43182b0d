package storage

import (
	"context"
	"database/sql"

	"budget-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// CreateAccount inserts a new account. The opening balance seeds both
// balance and opening_balance; it is the one balance write that does
// not go through AdjustAccountBalance.
func (q *Queries) CreateAccount(ctx context.Context, userID int64, name string, opening decimal.Decimal) (*models.Account, error) {
	result, err := q.db.ExecContext(ctx,
		"INSERT INTO accounts (user_id, name, balance, opening_balance) VALUES (?, ?, ?, ?)",
		userID, name, opening, opening,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return q.GetAccount(ctx, id)
}

// GetAccount retrieves an account by id.
func (q *Queries) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, balance, opening_balance FROM accounts WHERE id = ?",
		id,
	)

	var a models.Account
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.OpeningBalance); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAccounts retrieves all accounts owned by userID, ordered by id.
func (q *Queries) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, user_id, name, balance, opening_balance FROM accounts WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.OpeningBalance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// RenameAccount updates an account's name.
func (q *Queries) RenameAccount(ctx context.Context, id int64, name string) error {
	result, err := q.db.ExecContext(ctx,
		"UPDATE accounts SET name = ? WHERE id = ?",
		name, id,
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

// AdjustAccountBalance applies delta to an account's cached balance.
// It is the only balance write path after account creation. The read
// and the write happen on the caller's transaction handle, so inside
// WithTx no other writer can interleave between them.
func (q *Queries) AdjustAccountBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	row := q.db.QueryRowContext(ctx, "SELECT balance FROM accounts WHERE id = ?", id)

	var balance decimal.Decimal
	if err := row.Scan(&balance); err != nil {
		return err
	}

	_, err := q.db.ExecContext(ctx,
		"UPDATE accounts SET balance = ? WHERE id = ?",
		balance.Add(delta), id,
	)
	return err
}

// DeleteAccountCascade removes an account and all of its transactions,
// children first. Must run inside the caller's transaction.
func (q *Queries) DeleteAccountCascade(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE account_id = ?",
		id,
	); err != nil {
		return err
	}
	result, err := q.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
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
