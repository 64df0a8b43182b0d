package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User owns zero or more accounts. Email is optional but unique when set.
type User struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

// Account belongs to a user and caches the sum of its transaction
// amounts in Balance. OpeningBalance is the value the account was
// created with; it is never backed by a transaction record, so
// Balance == OpeningBalance + sum of transaction amounts at all times.
type Account struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// Transaction is a single signed movement on an account. A positive
// amount credits the account, a negative amount debits it.
type Transaction struct {
	ID          int64           `json:"id"`
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
}

// UncategorizedLabel is the reporting bucket for transactions without
// a category. The stored value stays empty.
const UncategorizedLabel = "Uncategorized"
