package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"calcpad/internal/calculator"
	"calcpad/internal/config"
	"calcpad/internal/observability"
	"calcpad/internal/server"

	"go.uber.org/zap"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics and log export
	shutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		observability.Logger.Fatal("telemetry setup failed", zap.Error(err))
	}
	defer shutdown(context.Background())

	// Sessions
	store := calculator.NewStore(calculator.StoreOptions{
		MaxSessions: cfg.SessionMax,
		TTL:         cfg.SessionTTL,
	})
	if cfg.SessionTTL > 0 {
		go store.Run(ctx, cfg.SweepInterval, func(removed int) {
			calculator.SessionsExpired(ctx, removed)
			if removed > 0 {
				observability.Logger.Debug("expired calculator sessions", zap.Int("removed", removed))
			}
		})
	}

	// Router
	router := server.NewRouter(store)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.HTTPAddr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(ctx, srv, cfg)
}

func waitForShutdown(ctx context.Context, srv *http.Server, cfg *config.Config) {

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
	}
	observability.Logger.Info("server stopped")
}
