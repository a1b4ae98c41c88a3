package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crebito/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DecisionFunc inspects the locked account state and either approves the
// update, returning the new balance and the transaction to append, or aborts
// by returning an error. Abort leaves the store untouched.
type DecisionFunc func(balance, creditLimit int64) (newBalance int64, rec *domain.Transaction, err error)

// AccountRepository is the durable Account Store. All per-account
// serialization happens here, via a row lock held for the duration of one
// database transaction; callers never take in-process locks.
type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// Exists reports whether the account is provisioned.
func (r *AccountRepository) Exists(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return false, storageErr("exists", err)
	}
	return exists, nil
}

// AtomicUpdate runs the read-check-write unit for one account: lock the row,
// let decide inspect balance and credit limit, then persist the new balance
// and the transaction record together. Commit makes both writes visible at
// once; any error before commit rolls back with zero observable change.
//
// Concurrent updates on the same account queue on the row lock; updates on
// different accounts do not contend.
func (r *AccountRepository) AtomicUpdate(ctx context.Context, accountID int64, decide DecisionFunc) (*domain.BalanceSnapshot, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, storageErr("begin", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance, creditLimit int64
	err = tx.QueryRow(ctx,
		`SELECT balance, credit_limit FROM accounts WHERE id = $1 FOR UPDATE`,
		accountID,
	).Scan(&balance, &creditLimit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr("lock account", err)
	}

	newBalance, rec, err := decide(balance, creditLimit)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = $1 WHERE id = $2`,
		newBalance, accountID,
	); err != nil {
		return nil, storageErr("update balance", err)
	}

	rec.AccountID = accountID
	err = tx.QueryRow(ctx,
		`INSERT INTO transactions (account_id, amount, kind, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		rec.AccountID, rec.Amount, rec.Kind, rec.Description,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, storageErr("insert transaction", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit", err)
	}

	return &domain.BalanceSnapshot{Balance: newBalance, CreditLimit: creditLimit}, nil
}

// AtomicRead returns a consistent snapshot of one account: balance, credit
// limit and the 10 most recent transactions, all read inside a single
// repeatable-read transaction so a concurrent update cannot show up in one
// half of the pair but not the other.
func (r *AccountRepository) AtomicRead(ctx context.Context, accountID int64) (*domain.Statement, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, storageErr("begin", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	st := &domain.Statement{QueriedAt: time.Now().UTC()}

	err = tx.QueryRow(ctx,
		`SELECT balance, credit_limit FROM accounts WHERE id = $1`,
		accountID,
	).Scan(&st.Balance, &st.CreditLimit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr("read account", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT id, account_id, amount, kind, description, created_at
		 FROM transactions
		 WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 10`,
		accountID,
	)
	if err != nil {
		return nil, storageErr("read transactions", err)
	}
	defer rows.Close()

	st.Transactions, err = scanTransactions(rows)
	if err != nil {
		return nil, storageErr("scan transactions", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit", err)
	}

	return st, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Kind, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &t)
	}

	return result, rows.Err()
}

// storageErr tags infrastructure failures so callers can tell an unreachable
// store apart from a missing account.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}
