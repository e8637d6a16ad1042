package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lytikz/lytikz/internal/config"
	"github.com/lytikz/lytikz/internal/httpserver"
	"github.com/lytikz/lytikz/internal/store"
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 10 * time.Second

// main boots the service: config → store → schema → HTTP server, then
// waits for SIGINT/SIGTERM and drains.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}

	st, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Error("store connect", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Bootstrap the documents table so a fresh database just works.
	if err := st.EnsureSchema(); err != nil {
		logger.Error("schema", "error", err)
		os.Exit(1)
	}

	router := httpserver.NewRouter(cfg, st, logger)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("server started", "port", cfg.Port)

	<-ctx.Done()
	stop()

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("server stopped")
}
