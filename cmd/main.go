package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhil/teamhub/internal/config"
	"github.com/nikhil/teamhub/internal/database"
	"github.com/nikhil/teamhub/internal/identity"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/mailer"
	"github.com/nikhil/teamhub/internal/server"
	"github.com/nikhil/teamhub/internal/store"
	"github.com/nikhil/teamhub/internal/store/memstore"
	"github.com/nikhil/teamhub/internal/store/mysqlstore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("teamhub", cfg.Environment)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, db, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(cfg, s, verifier, newMailer(cfg, log), log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	srv.Start(hubCtx)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Environment, "store", cfg.StoreDriver, "auth", cfg.Auth.Provider)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown; stopping
	// the hub closes them.
	stopHub()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed, forcing close", "error", err)
		return httpServer.Close()
	}

	log.Info("Server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.Store, *sql.DB, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn("Using in-memory store, data is lost on restart")
		return memstore.New(), nil, nil
	}

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return mysqlstore.New(db), db, nil
}

func newVerifier(ctx context.Context, cfg *config.Config) (identity.Verifier, error) {
	if cfg.Auth.Provider == config.AuthJWT {
		return identity.NewJWTVerifier(cfg.Auth.JWTSecret)
	}
	return identity.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCredentials)
}

func newMailer(cfg *config.Config, log *logger.Logger) mailer.Mailer {
	if cfg.Mail.SendGridAPIKey == "" {
		return mailer.LogMailer{Log: log.Named("mailer")}
	}
	m, err := mailer.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.From, log.Named("mailer"))
	if err != nil {
		log.Warn("SendGrid disabled, falling back to log mailer", "error", err)
		return mailer.LogMailer{Log: log.Named("mailer")}
	}
	return m
}
