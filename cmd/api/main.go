package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"robo-advisor/internal/api"
	"robo-advisor/internal/api/handlers"
	"robo-advisor/internal/backtest"
	"robo-advisor/internal/catalog"
	"robo-advisor/internal/config"
	"robo-advisor/internal/data"
	"robo-advisor/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	os.Exit(serve(os.Args[1:]))
}

// serve runs the server until it stops and returns the process exit code.
// Returning instead of exiting lets the deferred logger sync run.
func serve(args []string) int {
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	cfgPath := fs.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config (optional)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	cache, closeCache, err := newCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	yahoo := data.NewYahooClient(data.YahooOptions{
		BaseURL:           cfg.MarketData.BaseURL,
		Timeout:           cfg.MarketData.Timeout,
		RequestsPerSecond: cfg.MarketData.RequestsPerSecond,
		Burst:             cfg.MarketData.Burst,
	}, log)
	rf := cfg.Simulation.RiskFree(backtest.DefaultRiskFreePct)
	sim := backtest.NewSimulator(data.NewHistory(yahoo, cache, log), backtest.SimulatorOptions{RiskFreePct: &rf}, log)

	// Set up Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Catalog:     cat,
		Simulator:   sim,
		Simulation:  cfg.Simulation,
		Store:       handlers.NewResultStore(handlers.DefaultStoreSize),
		CORSOrigins: cfg.Server.CORSOrigins,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Server.Env),
			zap.String("cache", cfg.Cache.Backend),
			zap.String("market_data", cfg.MarketData.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (data.Cache, func(), error) {
	if cfg.Cache.Backend != config.CacheRedis {
		return data.NewMemoryCache(cfg.Cache.TTL), func() {}, nil
	}
	rc, err := data.NewRedisCache(ctx, data.RedisOptions{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		TTL:      cfg.Cache.TTL,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return rc, func() { _ = rc.Close() }, nil
}
