package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/josh-kwaku/reimbursement-ledger/internal/config"
	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
	"github.com/josh-kwaku/reimbursement-ledger/internal/repository"
)

type accountStore interface {
	Load(ctx context.Context) ([]domain.Account, error)
	Save(ctx context.Context, accounts []domain.Account) error
	Ping(ctx context.Context) error
}

// openStore returns the configured backend and a func releasing whatever it holds.
func openStore(ctx context.Context, cfg *config.Config) (accountStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		db, err := connectDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("openStore: %w", err)
		}
		return repository.NewPostgresStore(db), func() { db.Close() }, nil
	default:
		return repository.NewFileStore(cfg.DataFile), func() {}, nil
	}
}

func connectDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var err error
	for i := range 30 {
		var db *sql.DB
		if db, err = repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool); err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}
