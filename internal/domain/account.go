package domain

import "time"

// Account is a ledger entity with a fixed credit limit and a running balance.
// The population is provisioned up front; accounts are never created or
// deleted through the API.
type Account struct {
	ID          int64     `db:"id" json:"id"`
	CreditLimit int64     `db:"credit_limit" json:"credit_limit"`
	Balance     int64     `db:"balance" json:"balance"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// BalanceSnapshot is the result of a successfully applied transaction.
type BalanceSnapshot struct {
	Balance     int64 `json:"balance"`
	CreditLimit int64 `json:"credit_limit"`
}

// Statement is a consistent point-in-time view of an account: balance and
// credit limit plus the most recent transactions, newest first.
type Statement struct {
	Balance      int64
	CreditLimit  int64
	QueriedAt    time.Time
	Transactions []*Transaction
}
