package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
)

// accountRecord is the on-disk shape of an account. Amounts are written as
// plain JSON numbers carrying the exact decimal value.
type accountRecord struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Balance      json.Number         `json:"balance"`
	CardNumber   *string             `json:"card_number"`
	Transactions []transactionRecord `json:"transactions"`
}

type transactionRecord struct {
	Type   string      `json:"type"`
	Amount json.Number `json:"amount"`
	Status string      `json:"status"`
	Date   string      `json:"date"`
}

func toRecords(accounts []domain.Account) []accountRecord {
	out := make([]accountRecord, len(accounts))
	for i, a := range accounts {
		txns := make([]transactionRecord, len(a.Transactions))
		for j, t := range a.Transactions {
			txns[j] = transactionRecord{
				Type:   t.Type,
				Amount: json.Number(t.Amount.String()),
				Status: string(t.Status),
				Date:   t.DateText(),
			}
		}
		out[i] = accountRecord{
			ID:           a.ID,
			Name:         a.Name,
			Email:        a.Email,
			Balance:      json.Number(a.Balance.String()),
			CardNumber:   a.CardNumber,
			Transactions: txns,
		}
	}
	return out
}

// fromRecords converts every record it is given. Fields it cannot interpret
// are kept as close to the stored text as the domain allows and reported in
// the returned problems; no record is dropped.
func fromRecords(records []accountRecord) ([]domain.Account, []error) {
	var problems []error
	out := make([]domain.Account, len(records))
	for i, r := range records {
		balance, err := parseAmount(r.Balance)
		if err != nil {
			problems = append(problems, fmt.Errorf("account %d: balance: %w", r.ID, err))
		}

		txns := make([]domain.Transaction, len(r.Transactions))
		for j, t := range r.Transactions {
			txn := domain.Transaction{
				Type:   t.Type,
				Status: domain.TransactionStatus(t.Status),
			}

			if txn.Amount, err = parseAmount(t.Amount); err != nil {
				problems = append(problems, fmt.Errorf("account %d transaction %d: amount: %w", r.ID, j, err))
			}

			date, err := time.Parse(domain.DateLayout, t.Date)
			if err != nil {
				txn.RawDate = t.Date
				problems = append(problems, fmt.Errorf("account %d transaction %d: date %q kept as text", r.ID, j, t.Date))
			} else {
				txn.Date = date
			}

			if !txn.Status.IsValid() {
				problems = append(problems, fmt.Errorf("account %d transaction %d: unknown status %q", r.ID, j, t.Status))
			}
			txns[j] = txn
		}

		out[i] = domain.Account{
			ID:           r.ID,
			Name:         r.Name,
			Email:        r.Email,
			Balance:      balance,
			CardNumber:   r.CardNumber,
			Transactions: txns,
		}
	}
	return out, problems
}

// parseAmount reads a stored amount. An absent or null amount is zero.
func parseAmount(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
