package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const cardPrefix = "4000-0000-0000-"

type Account struct {
	ID           int64
	Name         string
	Email        string
	Balance      decimal.Decimal
	CardNumber   *string
	Transactions []Transaction
}

// CardNumberFor derives the debit card number issued to an account.
func CardNumberFor(id int64) string {
	return fmt.Sprintf("%s%04d", cardPrefix, id)
}

// Clone returns a copy that shares no mutable state with a.
func (a *Account) Clone() *Account {
	cp := *a
	if a.CardNumber != nil {
		card := *a.CardNumber
		cp.CardNumber = &card
	}
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return &cp
}

func (a *Account) HasCard() bool {
	return a.CardNumber != nil && *a.CardNumber != ""
}
