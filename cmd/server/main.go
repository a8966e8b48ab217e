package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lodgeroll/membership/internal/api"
	"github.com/lodgeroll/membership/internal/core/service"
	"github.com/lodgeroll/membership/internal/infrastructure/db"
	mongostore "github.com/lodgeroll/membership/internal/infrastructure/db/mongo"
	redisstore "github.com/lodgeroll/membership/internal/infrastructure/db/redis"
	"github.com/lodgeroll/membership/internal/infrastructure/queue"
	"github.com/lodgeroll/membership/internal/pkg/config"
	"github.com/lodgeroll/membership/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "lodge-membership",
		Version: version,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := db.Open(ctx, db.Options{
		Backend: db.Backend(cfg.StoreBackend),
		Mongo: mongostore.Config{
			URI:              cfg.Mongo.URI,
			Database:         cfg.Mongo.Database,
			AppName:          cfg.Mongo.AppName,
			ConnectTimeout:   cfg.Mongo.ConnectTimeout,
			OperationTimeout: cfg.Mongo.OperationTimeout,
		},
		Redis: redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		},
	}, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open document store")
	}

	directory := service.NewDirectoryService(store, log)
	events := service.NewEventCatalog(store, log)
	ledger := service.NewAttendanceLedger(store, log)
	auth := service.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL, log)
	refresher := service.NewRefresher(directory, events, ledger, log)

	if _, err := service.SeedAdmin(ctx, directory, auth, service.AdminSeed{
		Email:       cfg.Admin.Email,
		Password:    cfg.Admin.Password,
		DisplayName: cfg.Admin.DisplayName,
	}, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed system admin")
	}

	dispatcher := queue.NewDispatcher(cfg.DispatchWorkers, ledger, log)
	dispatcher.Start(ctx)

	// A failed warm-up is not fatal; handlers serve whatever loaded and
	// POST /v1/refresh retries.
	if err := refresher.Refresh(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("initial refresh incomplete")
	}

	e := api.NewRouter(api.Deps{
		Store:      store,
		Backend:    cfg.StoreBackend,
		Directory:  directory,
		Events:     events,
		Ledger:     ledger,
		Auth:       auth,
		Refresher:  refresher,
		Dispatcher: dispatcher,
		JWTSecret:  cfg.JWTSecret,
		Log:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	cancel()
	dispatcher.Wait()
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close")
	}
	log.Info().Msg("stopped")
}
