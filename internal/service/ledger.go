package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
	"github.com/josh-kwaku/reimbursement-ledger/internal/logging"
)

type accountStore interface {
	Load(ctx context.Context) ([]domain.Account, error)
	Save(ctx context.Context, accounts []domain.Account) error
}

// Ledger owns the account collection. Every operation runs lookup, mutation
// and persistence under one lock. A failed save rolls the in-memory change
// back.
type Ledger struct {
	mu    sync.Mutex
	store accountStore
	now   func() time.Time

	nextID  int64
	order   []*domain.Account
	byID    map[int64]*domain.Account
	byEmail map[string]*domain.Account
}

// NewLedger loads the collection from store once.
func NewLedger(ctx context.Context, store accountStore) (*Ledger, error) {
	accounts, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewLedger: %w", err)
	}

	l := &Ledger{
		store:   store,
		now:     time.Now,
		nextID:  1,
		byID:    make(map[int64]*domain.Account, len(accounts)),
		byEmail: make(map[string]*domain.Account, len(accounts)),
	}
	for i := range accounts {
		a := accounts[i]
		if a.Transactions == nil {
			a.Transactions = []domain.Transaction{}
		}
		l.insert(&a)
		if a.ID >= l.nextID {
			l.nextID = a.ID + 1
		}
	}

	logging.FromContext(ctx).Info("ledger loaded", "accounts", len(l.order), "next_id", l.nextID)
	return l, nil
}

// insert indexes a. On duplicate ids or emails the earlier account keeps
// the index entry.
func (l *Ledger) insert(a *domain.Account) {
	l.order = append(l.order, a)
	if _, ok := l.byID[a.ID]; !ok {
		l.byID[a.ID] = a
	}
	email := domain.NormalizeEmail(a.Email)
	if _, ok := l.byEmail[email]; !ok {
		l.byEmail[email] = a
	}
}

// removeLast undoes the most recent insert of a.
func (l *Ledger) removeLast(a *domain.Account) {
	l.order = l.order[:len(l.order)-1]
	if l.byID[a.ID] == a {
		delete(l.byID, a.ID)
	}
	email := domain.NormalizeEmail(a.Email)
	if l.byEmail[email] == a {
		delete(l.byEmail, email)
	}
}

func (l *Ledger) persist(ctx context.Context) error {
	snapshot := make([]domain.Account, len(l.order))
	for i, a := range l.order {
		snapshot[i] = *a
	}
	if err := l.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

// Len reports the number of accounts held.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}
