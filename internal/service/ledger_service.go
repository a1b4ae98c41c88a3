package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"crebito/internal/domain"
	"crebito/internal/repository"
)

// AccountStore is the persistence contract the ledger depends on. The store
// owns atomicity and per-account serialization; the service owns validation
// and the limit rule.
type AccountStore interface {
	Exists(ctx context.Context, accountID int64) (bool, error)
	AtomicUpdate(ctx context.Context, accountID int64, decide repository.DecisionFunc) (*domain.BalanceSnapshot, error)
	AtomicRead(ctx context.Context, accountID int64) (*domain.Statement, error)
}

// LedgerService applies credit/debit transactions and reads statements.
type LedgerService struct {
	store AccountStore
}

func NewLedgerService(store AccountStore) *LedgerService {
	return &LedgerService{store: store}
}

// Apply validates and applies one transaction to an account. The balance
// check and both writes run as one atomic unit inside the store; a debit
// that would push the balance below -credit_limit aborts the whole unit
// with ErrLimitExceeded. Reaching exactly -credit_limit is allowed.
func (s *LedgerService) Apply(ctx context.Context, accountID int64, kind domain.TransactionKind, amount int64, description string) (*domain.BalanceSnapshot, error) {
	// Account existence is checked before input validation: an unknown
	// account wins over a malformed body.
	ok, err := s.store.Exists(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	if err := validateTransaction(kind, amount, description); err != nil {
		return nil, err
	}

	return s.store.AtomicUpdate(ctx, accountID, func(balance, creditLimit int64) (int64, *domain.Transaction, error) {
		candidate := balance + kind.Delta(amount)
		if kind == domain.KindDebit && candidate < -creditLimit {
			return 0, nil, domain.ErrLimitExceeded
		}
		return candidate, &domain.Transaction{
			Amount:      amount,
			Kind:        kind,
			Description: description,
		}, nil
	})
}

// Statement returns the account's balance and its 10 most recent
// transactions, newest first, as one consistent snapshot.
func (s *LedgerService) Statement(ctx context.Context, accountID int64) (*domain.Statement, error) {
	return s.store.AtomicRead(ctx, accountID)
}

func validateTransaction(kind domain.TransactionKind, amount int64, description string) error {
	if n := utf8.RuneCountInString(description); n == 0 || n > domain.MaxDescriptionLen {
		return invalid("description must be 1 to %d characters", domain.MaxDescriptionLen)
	}
	if !kind.Valid() {
		return invalid("kind must be %q or %q", domain.KindCredit, domain.KindDebit)
	}
	if amount <= 0 {
		return invalid("amount must be a positive integer")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidTransaction, fmt.Sprintf(format, args...))
}
