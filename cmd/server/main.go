package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	httpapi "scoring-api/internal/api/http"
	"scoring-api/internal/api/method"
	"scoring-api/internal/auth"
	"scoring-api/internal/config"
	"scoring-api/internal/logger"
	"scoring-api/internal/metrics"
	"scoring-api/internal/repository"
	"scoring-api/internal/repository/memory"
	"scoring-api/internal/repository/redis"
	"scoring-api/internal/server"
	"scoring-api/internal/service/scoring"
)

const defaultConfigFile = "config.yml"

func main() {
	// .env необязателен
	_ = godotenv.Load()

	configFile := pflag.StringP("config", "c", defaultConfigFile, "path to config file")
	port := pflag.IntP("port", "p", 0, "port to listen on (overrides config)")
	logFile := pflag.StringP("log", "l", "", "log file (overrides config, stdout if empty)")
	pflag.Parse()

	appConfig, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Error initializing config: %v", err)
	}
	if *port != 0 {
		appConfig.Server.Port = *port
	}
	if *logFile != "" {
		appConfig.Logger.File = *logFile
	}
	if err := config.Validate(appConfig); err != nil {
		log.Fatalf("Error validating config: %v", err)
	}

	zlog, closeLog, err := logger.New(logger.Config{Level: appConfig.Logger.Level, File: appConfig.Logger.File})
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer closeLog()

	if err := run(appConfig, zlog); err != nil {
		zlog.Error("scoring api stopped with error", zap.Error(err))
		closeLog()
		os.Exit(1)
	}
	zlog.Info("scoring api stopped")
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	// Инициализация компонентов (DI): Store → Service → Dispatcher → Router
	store := newStore(cfg.Store, zlog)
	defer func() {
		if err := store.Close(); err != nil {
			zlog.Warn("failed to close store", zap.Error(err))
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Store.ConnectTimeout)
	if err := store.Ping(pingCtx); err != nil {
		// Скоринг работает и без кэша, интересы вернут 500 до восстановления хранилища
		zlog.Warn("store is unavailable at startup", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	cancel()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	authenticator := auth.New(cfg.Auth.Salt, cfg.Auth.AdminSalt)
	scoringSvc := scoring.NewScoringService(store, m, zlog)
	dispatcher := method.NewDispatcher(authenticator, scoringSvc, m, zlog)
	handler := httpapi.NewHandler(dispatcher, cfg.Server.MaxBodyBytes, zlog)
	router := httpapi.NewRouter(handler, cfg.Gateway, m, zlog)

	var metricsHandler http.Handler
	if m != nil {
		metricsHandler = m.Handler()
	}
	srv, err := server.NewServer(cfg, router, metricsHandler, zlog)
	if err != nil {
		return err
	}

	// Канал для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := srv.Start()
	zlog.Info("scoring api started",
		zap.String("addr", srv.Addr().String()),
		zap.String("store", cfg.Store.Driver),
		zap.Bool("metrics", cfg.Metrics.Enabled))

	select {
	case err := <-errChan:
		_ = srv.Shutdown()
		return err
	case sig := <-sigChan:
		zlog.Info("received signal, shutting down", zap.String("signal", sig.String()))
	}

	return srv.Shutdown()
}

func newStore(cfg *config.ConfigStore, zlog *zap.Logger) repository.Store {
	switch cfg.Driver {
	case "memory":
		zlog.Info("using in-memory store")
		return memory.NewRepository()
	default:
		zlog.Info("using redis store", zap.String("addr", cfg.Addr))
		return redis.NewRepository(redis.Config{
			Addr:             cfg.Addr,
			Password:         cfg.Password,
			DB:               cfg.DB,
			SocketTimeout:    cfg.SocketTimeout,
			ConnectTimeout:   cfg.ConnectTimeout,
			MaxRetryAttempts: cfg.MaxRetryAttempts,
			RetryBackoff:     cfg.RetryBackoff,
		}, zlog)
	}
}
