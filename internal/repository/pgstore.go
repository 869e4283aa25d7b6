package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// PostgresStore persists the account collection in two tables. Save
// replaces their full contents in one SQL transaction, so readers never see
// a half-written collection.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, balance, card_number FROM accounts ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("Load: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	index := make(map[int64]int)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("Load: scan account: %w", err)
		}
		index[a.ID] = len(accounts)
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Load: accounts rows: %w", err)
	}

	txRows, err := s.db.QueryContext(ctx,
		`SELECT account_id, type, amount, status, created_at
		FROM transactions ORDER BY account_id, seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("Load: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer txRows.Close()

	for txRows.Next() {
		var (
			accountID int64
			t         domain.Transaction
		)
		if err := txRows.Scan(&accountID, &t.Type, &t.Amount, &t.Status, &t.Date); err != nil {
			return nil, fmt.Errorf("Load: scan transaction: %w", err)
		}
		t.Date = t.Date.UTC()
		i, ok := index[accountID]
		if !ok {
			continue
		}
		accounts[i].Transactions = append(accounts[i].Transactions, t)
	}
	if err := txRows.Err(); err != nil {
		return nil, fmt.Errorf("Load: transaction rows: %w", err)
	}

	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *PostgresStore) Save(ctx context.Context, accounts []domain.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Save: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("Save: clear transactions: %w: %w", domain.ErrStorageUnavailable, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("Save: clear accounts: %w: %w", domain.ErrStorageUnavailable, err)
	}

	for _, a := range accounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (id, name, email, balance, card_number)
			VALUES ($1, $2, $3, $4, $5)`,
			a.ID, a.Name, a.Email, a.Balance, a.CardNumber,
		); err != nil {
			return fmt.Errorf("Save: insert account %d: %w: %w", a.ID, domain.ErrStorageUnavailable, err)
		}

		for seq, t := range a.Transactions {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO transactions (account_id, seq, type, amount, status, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				a.ID, seq, t.Type, t.Amount, string(t.Status), t.Date.UTC(),
			); err != nil {
				return fmt.Errorf("Save: insert transaction %d/%d: %w: %w", a.ID, seq, domain.ErrStorageUnavailable, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Save: commit: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("Ping: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	if err := s.Scan(&a.ID, &a.Name, &a.Email, &a.Balance, &a.CardNumber); err != nil {
		return nil, err
	}
	a.Transactions = []domain.Transaction{}
	return &a, nil
}
