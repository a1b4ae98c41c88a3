package domain

import "time"

// TransactionKind - direction of a balance change
type TransactionKind string

const (
	KindCredit TransactionKind = "credit"
	KindDebit  TransactionKind = "debit"
)

// Valid reports whether the kind is one of the two known values.
func (k TransactionKind) Valid() bool {
	return k == KindCredit || k == KindDebit
}

// Delta converts a positive magnitude into the signed balance change.
func (k TransactionKind) Delta(amount int64) int64 {
	if k == KindDebit {
		return -amount
	}
	return amount
}

// MaxDescriptionLen is the upper bound on description length, counted in
// characters. The bound is inclusive; the empty description is rejected.
const MaxDescriptionLen = 10

// Transaction is an immutable balance-change record owned by one account.
// It is inserted in the same database transaction as the balance update and
// never modified afterwards.
type Transaction struct {
	ID          int64           `db:"id" json:"-"`
	AccountID   int64           `db:"account_id" json:"-"`
	Amount      int64           `db:"amount" json:"amount"`
	Kind        TransactionKind `db:"kind" json:"kind"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
