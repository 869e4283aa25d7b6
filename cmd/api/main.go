package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josh-kwaku/reimbursement-ledger/api"
	"github.com/josh-kwaku/reimbursement-ledger/internal/config"
	"github.com/josh-kwaku/reimbursement-ledger/internal/handler"
	"github.com/josh-kwaku/reimbursement-ledger/internal/logging"
	"github.com/josh-kwaku/reimbursement-ledger/internal/middleware"
	"github.com/josh-kwaku/reimbursement-ledger/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("reimbursement-ledger", cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open account store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ledger, err := service.NewLedger(ctx, store)
	if err != nil {
		slog.Error("failed to load accounts", "error", err)
		os.Exit(1)
	}
	slog.Info("accounts loaded", "backend", cfg.StoreBackend, "count", ledger.Len())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux,
		handler.NewAccountHandler(ledger),
		handler.NewHealthHandler(store),
		api.Spec,
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.Recovery(middleware.Tracing(middleware.Logging(mux))),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutS)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
