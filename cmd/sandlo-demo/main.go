// File: cmd/sandlo-demo/main.go

// sandlo-demo hosts a sandlodb store end to end: validated configuration
// with hot reload, both maintenance drivers, a synthetic workload and the
// diagnostics endpoints. Run it, then poke /v1/stats or /metrics while the
// sweeps work.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	sandlodb "github.com/AndreaPrestia/sandlo-db"
	"github.com/AndreaPrestia/sandlo-db/maintenance"
	"github.com/AndreaPrestia/sandlo-db/sandlohttp"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file (optional)")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	opts, err := sandlodb.NewOptionsBuilder().
		WithEntityTTLMinutes(cfg.Store.EntityTTLMinutes).
		WithMaxMemoryAllocationBytes(cfg.Store.MaxMemoryAllocationBytes).
		Build()
	if err != nil {
		logger.Error("invalid store options", "error", err)
		os.Exit(1)
	}
	db := sandlodb.New(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := maintenance.NewRunner(db,
		time.Duration(cfg.Maintenance.TTLIntervalSeconds)*time.Second,
		time.Duration(cfg.Maintenance.MemoryIntervalSeconds)*time.Second,
		logger)
	go func() {
		if err := runner.Run(ctx); err != nil {
			logger.Error("maintenance stopped", "error", err)
		}
	}()

	if *configPath != "" {
		go func() {
			err := watchConfig(ctx, *configPath, logger, func(next *Config) {
				runner.SetTTLInterval(time.Duration(next.Maintenance.TTLIntervalSeconds) * time.Second)
				runner.SetMemoryInterval(time.Duration(next.Maintenance.MemoryIntervalSeconds) * time.Second)
			})
			if err != nil {
				logger.Error("config watch stopped", "error", err)
			}
		}()
	}

	if cfg.Workload.Enabled {
		go runWorkload(ctx, db, time.Duration(cfg.Workload.IntervalMS)*time.Millisecond, logger)
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: sandlohttp.Handler(db)}
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr,
			"ttl_minutes", cfg.Store.EntityTTLMinutes,
			"max_bytes", cfg.Store.MaxMemoryAllocationBytes)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}

	st := db.Stats()
	logger.Info("final store state", "entities", st.Entities, "bytes", st.Bytes, "evictions", st.Evictions)
}
