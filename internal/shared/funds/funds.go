package funds

import (
	"context"
	"errors"
	"sync"
)

// Ledger is the platform funds-transfer primitive: atomic debit/credit
// bookkeeping for principals and custody accounts. A Transfer either moves
// the full amount or leaves both balances untouched.
//
// The surrounding execution environment is expected to supply this primitive
// in production; this implementation backs local wiring and tests.
type Ledger struct {
	mu       sync.RWMutex
	balances map[string]uint64
}

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid funds amount")
	ErrInvalidAccount    = errors.New("invalid funds account")
)

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]uint64)}
}

// Mint credits an account out of thin air. Test and bootstrap seeding only.
func (l *Ledger) Mint(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
}

func (l *Ledger) Balance(_ context.Context, account string) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if account == "" {
		return 0, ErrInvalidAccount
	}
	return l.balances[account], nil
}

func (l *Ledger) Transfer(_ context.Context, from string, to string, amount uint64) error {
	if from == "" || to == "" {
		return ErrInvalidAccount
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return ErrInsufficientFunds
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}
