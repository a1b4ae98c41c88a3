package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"crebito/internal/domain"
	"crebito/internal/repository"
)

// fakeStore is an in-memory AccountStore. A single mutex stands in for the
// database row lock: every decision function runs against settled state.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[int64]*fakeAccount
	nextID   int64
}

type fakeAccount struct {
	balance     int64
	creditLimit int64
	txs         []*domain.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[int64]*fakeAccount)}
}

func (f *fakeStore) addAccount(id, balance, creditLimit int64) {
	f.accounts[id] = &fakeAccount{balance: balance, creditLimit: creditLimit}
}

func (f *fakeStore) Exists(_ context.Context, accountID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.accounts[accountID]
	return ok, nil
}

func (f *fakeStore) AtomicUpdate(_ context.Context, accountID int64, decide repository.DecisionFunc) (*domain.BalanceSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	newBalance, rec, err := decide(acc.balance, acc.creditLimit)
	if err != nil {
		return nil, err
	}

	acc.balance = newBalance
	f.nextID++
	rec.ID = f.nextID
	rec.AccountID = accountID
	rec.CreatedAt = time.Now()
	acc.txs = append(acc.txs, rec)

	return &domain.BalanceSnapshot{Balance: newBalance, CreditLimit: acc.creditLimit}, nil
}

func (f *fakeStore) AtomicRead(_ context.Context, accountID int64) (*domain.Statement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	st := &domain.Statement{
		Balance:     acc.balance,
		CreditLimit: acc.creditLimit,
		QueriedAt:   time.Now().UTC(),
	}
	for i := len(acc.txs) - 1; i >= 0 && len(st.Transactions) < 10; i-- {
		st.Transactions = append(st.Transactions, acc.txs[i])
	}
	return st, nil
}

func (f *fakeStore) txCount(accountID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accounts[accountID].txs)
}

func TestApplyValidation(t *testing.T) {
	tests := []struct {
		name        string
		accountID   int64
		kind        domain.TransactionKind
		amount      int64
		description string
		wantErr     error
	}{
		{"unknown account", 99, domain.KindCredit, 10, "x", domain.ErrAccountNotFound},
		{"unknown account wins over bad input", 99, "payment", 0, "", domain.ErrAccountNotFound},
		{"empty description", 1, domain.KindCredit, 10, "", domain.ErrInvalidTransaction},
		{"description too long", 1, domain.KindCredit, 10, "elevenchars", domain.ErrInvalidTransaction},
		{"description of exactly 10 chars", 1, domain.KindCredit, 10, "dimensions", nil},
		{"unknown kind", 1, "payment", 10, "x", domain.ErrInvalidTransaction},
		{"zero amount", 1, domain.KindDebit, 0, "x", domain.ErrInvalidTransaction},
		{"negative amount", 1, domain.KindDebit, -5, "x", domain.ErrInvalidTransaction},
		{"description checked before kind", 1, "payment", 10, "elevenchars", domain.ErrInvalidTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.addAccount(1, 0, 1000)
			svc := NewLedgerService(store)

			_, err := svc.Apply(context.Background(), tt.accountID, tt.kind, tt.amount, tt.description)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyRejectionLeavesNoTrace(t *testing.T) {
	store := newFakeStore()
	store.addAccount(1, 0, 100)
	svc := NewLedgerService(store)
	ctx := context.Background()

	if _, err := svc.Apply(ctx, 1, domain.KindDebit, 101, "rent"); !errors.Is(err, domain.ErrLimitExceeded) {
		t.Fatalf("got %v, want ErrLimitExceeded", err)
	}

	st, err := svc.Statement(ctx, 1)
	if err != nil {
		t.Fatalf("statement failed: %v", err)
	}
	if st.Balance != 0 {
		t.Errorf("balance changed to %d after rejected debit", st.Balance)
	}
	if got := store.txCount(1); got != 0 {
		t.Errorf("rejected debit recorded %d transactions", got)
	}
}

func TestApplyLimitBoundary(t *testing.T) {
	store := newFakeStore()
	store.addAccount(1, 0, 1000)
	svc := NewLedgerService(store)
	ctx := context.Background()

	snap, err := svc.Apply(ctx, 1, domain.KindDebit, 1000, "loja")
	if err != nil {
		t.Fatalf("debit to the exact limit should succeed: %v", err)
	}
	if snap.Balance != -1000 {
		t.Errorf("balance = %d, want -1000", snap.Balance)
	}
	if snap.CreditLimit != 1000 {
		t.Errorf("credit limit = %d, want 1000", snap.CreditLimit)
	}

	if _, err := svc.Apply(ctx, 1, domain.KindDebit, 1, "x"); !errors.Is(err, domain.ErrLimitExceeded) {
		t.Fatalf("debit past the limit: got %v, want ErrLimitExceeded", err)
	}

	st, _ := svc.Statement(ctx, 1)
	if st.Balance != -1000 {
		t.Errorf("balance = %d after rejected debit, want -1000", st.Balance)
	}

	snap, err = svc.Apply(ctx, 1, domain.KindCredit, 1500, "salario")
	if err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if snap.Balance != 500 {
		t.Errorf("balance = %d, want 500", snap.Balance)
	}
}

func TestApplyCreditNeverLimited(t *testing.T) {
	store := newFakeStore()
	store.addAccount(1, -1000, 1000)
	svc := NewLedgerService(store)

	snap, err := svc.Apply(context.Background(), 1, domain.KindCredit, 1, "topup")
	if err != nil {
		t.Fatalf("credit on a maxed-out account failed: %v", err)
	}
	if snap.Balance != -999 {
		t.Errorf("balance = %d, want -999", snap.Balance)
	}
}

func TestConcurrentDebitsSerialize(t *testing.T) {
	const (
		initialBalance = 50
		creditLimit    = 50
		attempts       = 200
	)

	store := newFakeStore()
	store.addAccount(1, initialBalance, creditLimit)
	svc := NewLedgerService(store)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Apply(context.Background(), 1, domain.KindDebit, 1, "unit")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrLimitExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	wantSuccesses := initialBalance + creditLimit
	if successes != wantSuccesses {
		t.Errorf("successes = %d, want %d", successes, wantSuccesses)
	}
	if rejected != attempts-wantSuccesses {
		t.Errorf("rejections = %d, want %d", rejected, attempts-wantSuccesses)
	}

	st, err := svc.Statement(context.Background(), 1)
	if err != nil {
		t.Fatalf("statement failed: %v", err)
	}
	if st.Balance != -creditLimit {
		t.Errorf("final balance = %d, want %d", st.Balance, -creditLimit)
	}
	if got := store.txCount(1); got != wantSuccesses {
		t.Errorf("recorded %d transactions, want %d", got, wantSuccesses)
	}
}

func TestStatementOrderingAndTruncation(t *testing.T) {
	store := newFakeStore()
	store.addAccount(1, 0, 1_000_000)
	svc := NewLedgerService(store)
	ctx := context.Background()

	// fewer than 10: all come back, newest first
	for i := 1; i <= 3; i++ {
		if _, err := svc.Apply(ctx, 1, domain.KindCredit, int64(i), fmt.Sprintf("tx-%d", i)); err != nil {
			t.Fatalf("apply %d failed: %v", i, err)
		}
	}

	st, err := svc.Statement(ctx, 1)
	if err != nil {
		t.Fatalf("statement failed: %v", err)
	}
	if len(st.Transactions) != 3 {
		t.Fatalf("got %d transactions, want 3", len(st.Transactions))
	}
	if st.Transactions[0].Description != "tx-3" || st.Transactions[2].Description != "tx-1" {
		t.Errorf("transactions not newest first: %q ... %q",
			st.Transactions[0].Description, st.Transactions[2].Description)
	}

	// more than 10: exactly the 10 most recent
	for i := 4; i <= 15; i++ {
		if _, err := svc.Apply(ctx, 1, domain.KindCredit, int64(i), fmt.Sprintf("tx-%d", i)); err != nil {
			t.Fatalf("apply %d failed: %v", i, err)
		}
	}

	st, err = svc.Statement(ctx, 1)
	if err != nil {
		t.Fatalf("statement failed: %v", err)
	}
	if len(st.Transactions) != 10 {
		t.Fatalf("got %d transactions, want 10", len(st.Transactions))
	}
	if st.Transactions[0].Description != "tx-15" || st.Transactions[9].Description != "tx-6" {
		t.Errorf("wrong window: %q ... %q",
			st.Transactions[0].Description, st.Transactions[9].Description)
	}
}

func TestStatementUnknownAccount(t *testing.T) {
	svc := NewLedgerService(newFakeStore())

	if _, err := svc.Statement(context.Background(), 42); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("got %v, want ErrAccountNotFound", err)
	}
}
