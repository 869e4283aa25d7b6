package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
	"github.com/josh-kwaku/reimbursement-ledger/internal/logging"
)

// SubmitTransaction decides an expense claim and records it in the
// account's history. Rules apply in order: unknown account (error, nothing
// recorded), category outside the allow-list (denied), amount above the
// balance (denied), otherwise approved and debited. Denials are outcomes,
// not errors.
func (l *Ledger) SubmitTransaction(ctx context.Context, accountID int64, amount decimal.Decimal, category string) (*domain.Decision, error) {
	log := logging.FromContext(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("SubmitTransaction: %w", domain.ErrNotFound)
	}

	txn := domain.Transaction{
		Type:   category,
		Amount: amount,
		Date:   l.now().UTC().Truncate(time.Minute),
	}

	var reason domain.DenialReason
	switch {
	case !domain.IsAllowedCategory(category):
		txn.Status = domain.TransactionStatusDenied
		reason = domain.DenialReasonCategoryNotAllowed
	case amount.GreaterThan(account.Balance):
		txn.Status = domain.TransactionStatusDenied
		reason = domain.DenialReasonInsufficientFunds
	default:
		txn.Status = domain.TransactionStatusApproved
	}

	prevLen := len(account.Transactions)
	prevBalance := account.Balance

	account.Transactions = append(account.Transactions, txn)
	if txn.Status == domain.TransactionStatusApproved {
		account.Balance = prevBalance.Sub(amount)
	}

	if err := l.persist(ctx); err != nil {
		account.Transactions = account.Transactions[:prevLen]
		account.Balance = prevBalance
		return nil, fmt.Errorf("SubmitTransaction: %w", err)
	}

	log.Info("transaction recorded",
		"account_id", accountID,
		"type", category,
		"amount", amount.String(),
		"status", txn.Status,
		"reason", reason,
	)

	return &domain.Decision{
		Status:      txn.Status,
		Reason:      reason,
		Transaction: txn,
		Balance:     account.Balance,
	}, nil
}
