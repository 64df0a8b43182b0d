package ledger

import (
	"context"
	"database/sql"
	"errors"

	"budget-tracker/internal/models"
	"budget-tracker/internal/storage"

	"github.com/shopspring/decimal"
)

// UserTotalBalance sums the balances of all accounts owned by a user.
// A user with no accounts has a total of zero.
func (s *Service) UserTotalBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetUser(ctx, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "user", ID: userID}
			}
			return &StoreError{Op: "get user", Err: err}
		}
		accounts, err := q.ListAccounts(ctx, userID)
		if err != nil {
			return &StoreError{Op: "list accounts", Err: err}
		}
		for _, a := range accounts {
			total = total.Add(a.Balance)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// SpendingByCategory groups an account's transactions by category and
// sums the amounts per group. Transactions without a category fall
// into the "Uncategorized" bucket. Credits and debits both contribute
// as-is, so the totals add up to the account's transaction sum.
func (s *Service) SpendingByCategory(ctx context.Context, accountID int64) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal)
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetAccount(ctx, accountID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "account", ID: accountID}
			}
			return &StoreError{Op: "get account", Err: err}
		}
		txs, err := q.ListTransactions(ctx, accountID)
		if err != nil {
			return &StoreError{Op: "list transactions", Err: err}
		}
		for _, t := range txs {
			cat := t.Category
			if cat == "" {
				cat = models.UncategorizedLabel
			}
			totals[cat] = totals[cat].Add(t.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}
