// Package ledger exposes the operation set of the budget tracker:
// CRUD over users, accounts and transactions, aggregate reports, and
// CSV export. Every mutating operation runs as one database
// transaction that updates the affected rows together with the owning
// account's cached balance, so the balance an outside reader observes
// always equals the account's opening balance plus the sum of its
// committed transaction amounts.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"budget-tracker/internal/models"
	"budget-tracker/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service is the access API over the entity store. All balance
// mutation flows through its methods; callers never write the balance
// column directly.
type Service struct {
	db  *storage.DB
	log zerolog.Logger
}

// NewService creates a Service on top of an open store.
func NewService(db *storage.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}

// UserUpdate carries the optional fields of an update-user call. Nil
// means leave unchanged.
type UserUpdate struct {
	Name  *string
	Email *string
}

// TransactionUpdate carries the optional fields of an
// update-transaction call. Nil means leave unchanged; a non-nil
// AccountID moves the transaction to another account.
type TransactionUpdate struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	AccountID   *int64
}

// VerifyResult reports an account's balance against the recomputed
// source of truth.
type VerifyResult struct {
	Account        *models.Account
	TransactionSum decimal.Decimal
	Expected       decimal.Decimal
	Drift          decimal.Decimal
	OK             bool
}

// ---------- Users ----------

// CreateUser adds a user. The email, when given, must not be in use.
func (s *Service) CreateUser(ctx context.Context, name string, email *string) (*models.User, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var user *models.User
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		if email != nil {
			if err := s.checkEmailFree(ctx, q, *email, 0); err != nil {
				return err
			}
		}
		u, err := q.CreateUser(ctx, name, email)
		if err != nil {
			return &StoreError{Op: "create user", Err: err}
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int64("user_id", user.ID).Str("name", user.Name).Msg("user created")
	return user, nil
}

// GetUser retrieves a user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.db.Queries().GetUser(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "user", ID: id}
	}
	if err != nil {
		return nil, &StoreError{Op: "get user", Err: err}
	}
	return u, nil
}

// ListUsers retrieves all users ordered by id.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.db.Queries().ListUsers(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list users", Err: err}
	}
	return users, nil
}

// UpdateUser applies the given fields to a user.
func (s *Service) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*models.User, error) {
	if upd.Name == nil && upd.Email == nil {
		return nil, &ValidationError{Field: "update", Reason: "no fields to update"}
	}
	if upd.Name != nil && *upd.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var user *models.User
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		u, err := q.GetUser(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "user", ID: id}
		}
		if err != nil {
			return &StoreError{Op: "get user", Err: err}
		}

		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Email != nil {
			if err := s.checkEmailFree(ctx, q, *upd.Email, id); err != nil {
				return err
			}
			u.Email = upd.Email
		}

		if err := q.UpdateUser(ctx, u); err != nil {
			return &StoreError{Op: "update user", Err: err}
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int64("user_id", id).Msg("user updated")
	return user, nil
}

// DeleteUser removes a user, all of its accounts, and all of their
// transactions in one transaction.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		err := q.DeleteUserCascade(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "user", ID: id}
		}
		if err != nil {
			return &StoreError{Op: "delete user", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *Service) checkEmailFree(ctx context.Context, q *storage.Queries, email string, selfID int64) error {
	existing, err := q.UserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return &StoreError{Op: "check email", Err: err}
	}
	if existing.ID != selfID {
		return &ConflictError{Entity: "user", Field: "email", Value: email}
	}
	return nil
}

// ---------- Accounts ----------

// CreateAccount adds an account for a user. The opening balance is a
// fixed offset with no backing transaction record; it seeds the cached
// balance once and is never reconciled against the transaction set.
func (s *Service) CreateAccount(ctx context.Context, userID int64, name string, opening decimal.Decimal) (*models.Account, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var account *models.Account
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetUser(ctx, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "user", ID: userID}
			}
			return &StoreError{Op: "get user", Err: err}
		}
		a, err := q.CreateAccount(ctx, userID, name, opening)
		if err != nil {
			return &StoreError{Op: "create account", Err: err}
		}
		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int64("account_id", account.ID).Int64("user_id", userID).Msg("account created")
	return account, nil
}

// GetAccount retrieves an account by id.
func (s *Service) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	a, err := s.db.Queries().GetAccount(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return nil, &StoreError{Op: "get account", Err: err}
	}
	return a, nil
}

// ListAccounts retrieves all accounts owned by a user.
func (s *Service) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	var accounts []models.Account
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetUser(ctx, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "user", ID: userID}
			}
			return &StoreError{Op: "get user", Err: err}
		}
		a, err := q.ListAccounts(ctx, userID)
		if err != nil {
			return &StoreError{Op: "list accounts", Err: err}
		}
		accounts = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount renames an account.
func (s *Service) UpdateAccount(ctx context.Context, id int64, name string) (*models.Account, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var account *models.Account
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		err := q.RenameAccount(ctx, id, name)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "account", ID: id}
		}
		if err != nil {
			return &StoreError{Op: "rename account", Err: err}
		}
		a, err := q.GetAccount(ctx, id)
		if err != nil {
			return &StoreError{Op: "get account", Err: err}
		}
		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int64("account_id", id).Msg("account renamed")
	return account, nil
}

// DeleteAccount removes an account and all of its transactions in one
// transaction.
func (s *Service) DeleteAccount(ctx context.Context, id int64) error {
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		err := q.DeleteAccountCascade(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "account", ID: id}
		}
		if err != nil {
			return &StoreError{Op: "delete account", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug().Int64("account_id", id).Msg("account deleted")
	return nil
}

// AccountSummary retrieves an account together with its newest limit
// transactions, read as one consistent snapshot.
func (s *Service) AccountSummary(ctx context.Context, id int64, limit int) (*models.Account, []models.Transaction, error) {
	var account *models.Account
	var txs []models.Transaction
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		a, err := q.GetAccount(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "account", ID: id}
		}
		if err != nil {
			return &StoreError{Op: "get account", Err: err}
		}
		t, err := q.ListRecentTransactions(ctx, id, limit)
		if err != nil {
			return &StoreError{Op: "list transactions", Err: err}
		}
		account, txs = a, t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return account, txs, nil
}

// VerifyAccount recomputes the sum of an account's transaction amounts
// and compares opening balance + sum against the cached balance.
func (s *Service) VerifyAccount(ctx context.Context, id int64) (*VerifyResult, error) {
	var res *VerifyResult
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		a, err := q.GetAccount(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "account", ID: id}
		}
		if err != nil {
			return &StoreError{Op: "get account", Err: err}
		}
		sum, err := q.SumTransactionAmounts(ctx, id)
		if err != nil {
			return &StoreError{Op: "sum transactions", Err: err}
		}
		expected := a.OpeningBalance.Add(sum)
		drift := a.Balance.Sub(expected)
		res = &VerifyResult{
			Account:        a,
			TransactionSum: sum,
			Expected:       expected,
			Drift:          drift,
			OK:             drift.IsZero(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ---------- Transactions ----------

// AddTransaction records a transaction against an account and adjusts
// the account balance by its amount, atomically. A zero timestamp
// defaults to the current time.
func (s *Service) AddTransaction(ctx context.Context, accountID int64, amount decimal.Decimal, description, category string, timestamp time.Time) (*models.Transaction, error) {
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	var tx *models.Transaction
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetAccount(ctx, accountID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "account", ID: accountID}
			}
			return &StoreError{Op: "get account", Err: err}
		}
		t, err := q.CreateTransaction(ctx, accountID, amount, timestamp, description, category)
		if err != nil {
			return &StoreError{Op: "create transaction", Err: err}
		}
		if err := q.AdjustAccountBalance(ctx, accountID, amount); err != nil {
			return &StoreError{Op: "adjust balance", Err: err}
		}
		tx = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Int64("transaction_id", tx.ID).
		Int64("account_id", accountID).
		Str("amount", amount.String()).
		Msg("transaction added")
	return tx, nil
}

// GetTransaction retrieves a transaction by id.
func (s *Service) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	t, err := s.db.Queries().GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "transaction", ID: id}
	}
	if err != nil {
		return nil, &StoreError{Op: "get transaction", Err: err}
	}
	return t, nil
}

// ListTransactions retrieves all transactions for an account, newest
// first.
func (s *Service) ListTransactions(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetAccount(ctx, accountID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "account", ID: accountID}
			}
			return &StoreError{Op: "get account", Err: err}
		}
		t, err := q.ListTransactions(ctx, accountID)
		if err != nil {
			return &StoreError{Op: "list transactions", Err: err}
		}
		txs = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// UpdateTransaction applies the given fields to a transaction and
// rebalances the affected account(s): an amount change moves the
// owning account's balance by the delta, and a move across accounts
// reverses the old amount on the source and applies the new amount on
// the destination, all in one transaction.
func (s *Service) UpdateTransaction(ctx context.Context, id int64, upd TransactionUpdate) (*models.Transaction, error) {
	if upd.Amount == nil && upd.Description == nil && upd.Category == nil && upd.AccountID == nil {
		return nil, &ValidationError{Field: "update", Reason: "no fields to update"}
	}

	var tx *models.Transaction
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		old, err := q.GetTransaction(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "transaction", ID: id}
		}
		if err != nil {
			return &StoreError{Op: "get transaction", Err: err}
		}

		updated := *old
		if upd.Amount != nil {
			updated.Amount = *upd.Amount
		}
		if upd.Description != nil {
			updated.Description = *upd.Description
		}
		if upd.Category != nil {
			updated.Category = *upd.Category
		}
		if upd.AccountID != nil {
			updated.AccountID = *upd.AccountID
		}

		if updated.AccountID != old.AccountID {
			if _, err := q.GetAccount(ctx, updated.AccountID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return &NotFoundError{Entity: "account", ID: updated.AccountID}
				}
				return &StoreError{Op: "get account", Err: err}
			}
			if err := q.AdjustAccountBalance(ctx, old.AccountID, old.Amount.Neg()); err != nil {
				return &StoreError{Op: "adjust balance", Err: err}
			}
			if err := q.AdjustAccountBalance(ctx, updated.AccountID, updated.Amount); err != nil {
				return &StoreError{Op: "adjust balance", Err: err}
			}
		} else if !updated.Amount.Equal(old.Amount) {
			delta := updated.Amount.Sub(old.Amount)
			if err := q.AdjustAccountBalance(ctx, old.AccountID, delta); err != nil {
				return &StoreError{Op: "adjust balance", Err: err}
			}
		}

		if err := q.UpdateTransaction(ctx, &updated); err != nil {
			return &StoreError{Op: "update transaction", Err: err}
		}
		tx = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int64("transaction_id", id).Msg("transaction updated")
	return tx, nil
}

// DeleteTransaction removes a transaction and reverses its effect on
// the owning account's balance, atomically.
func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	err := s.db.WithTx(ctx, func(q *storage.Queries) error {
		t, err := q.GetTransaction(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "transaction", ID: id}
		}
		if err != nil {
			return &StoreError{Op: "get transaction", Err: err}
		}
		if err := q.AdjustAccountBalance(ctx, t.AccountID, t.Amount.Neg()); err != nil {
			return &StoreError{Op: "adjust balance", Err: err}
		}
		if err := q.DeleteTransaction(ctx, id); err != nil {
			return &StoreError{Op: "delete transaction", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug().Int64("transaction_id", id).Msg("transaction deleted")
	return nil
}
