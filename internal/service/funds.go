package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
	"github.com/josh-kwaku/reimbursement-ledger/internal/logging"
)

// Deposit credits amount to the account. The amount is not checked: a
// negative deposit lowers the balance.
func (l *Ledger) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("Deposit: %w", domain.ErrNotFound)
	}

	before := account.Balance
	account.Balance = before.Add(amount)
	if err := l.persist(ctx); err != nil {
		account.Balance = before
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	log.Info("deposit applied",
		"account_id", accountID,
		"amount", amount.String(),
		"balance_before", before.String(),
		"balance_after", account.Balance.String(),
	)

	return account.Clone(), nil
}

// IssueCard assigns the account its card number. Calling it again is a
// no-op that still succeeds.
func (l *Ledger) IssueCard(ctx context.Context, accountID int64) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("IssueCard: %w", domain.ErrNotFound)
	}

	if account.HasCard() {
		return account.Clone(), nil
	}

	card := domain.CardNumberFor(account.ID)
	account.CardNumber = &card
	if err := l.persist(ctx); err != nil {
		account.CardNumber = nil
		return nil, fmt.Errorf("IssueCard: %w", err)
	}

	log.Info("card issued", "account_id", accountID)

	return account.Clone(), nil
}
