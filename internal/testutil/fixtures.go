package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
)

// FixedTime is the clock value fixtures and tests stamp transactions with.
var FixedTime = time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)

func SampleAccounts() []domain.Account {
	card := domain.CardNumberFor(1)
	return []domain.Account{
		{
			ID:         1,
			Name:       "Alice",
			Email:      "alice@x.com",
			Balance:    decimal.NewFromInt(60),
			CardNumber: &card,
			Transactions: []domain.Transaction{
				{Type: "doctor", Amount: decimal.NewFromInt(40), Status: domain.TransactionStatusApproved, Date: FixedTime},
				{Type: "Haircut ", Amount: decimal.NewFromInt(10), Status: domain.TransactionStatusDenied, Date: FixedTime},
			},
		},
		{
			ID:           2,
			Name:         "Bob",
			Email:        "bob@x.com",
			Balance:      decimal.RequireFromString("12.5"),
			Transactions: []domain.Transaction{},
		},
	}
}

func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
