package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
	"github.com/josh-kwaku/reimbursement-ledger/internal/logging"
)

func (l *Ledger) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("FindByID: %w", domain.ErrNotFound)
	}
	return a.Clone(), nil
}

func (l *Ledger) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("FindByEmail: %w", domain.ErrNotFound)
	}
	return a.Clone(), nil
}

// CreateAccount registers a new account under the next free id. An email
// that is already registered, in any case or padding, is rejected with
// domain.ErrDuplicateEmail.
func (l *Ledger) CreateAccount(ctx context.Context, name, email string) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byEmail[email]; ok {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrDuplicateEmail)
	}

	account := &domain.Account{
		ID:           l.nextID,
		Name:         name,
		Email:        email,
		Balance:      decimal.Zero,
		Transactions: []domain.Transaction{},
	}

	l.insert(account)
	if err := l.persist(ctx); err != nil {
		l.removeLast(account)
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}
	l.nextID++

	log.Info("account created",
		"account_id", account.ID,
		"email", account.Email,
	)

	return account.Clone(), nil
}
