package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"risclens_backend/internal/archive"
	"risclens_backend/internal/audit"
	"risclens_backend/internal/events"
	"risclens_backend/internal/intel"
	"risclens_backend/internal/scheduler"
	"risclens_backend/platform/config"
	"risclens_backend/platform/db"
	"risclens_backend/platform/logger"
	"risclens_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	auditor := audit.NewLogger(cfg, audit.NewRepository(pool), log)

	var archiver intel.Archiver
	if cfg.IsMinIOEnabled() {
		store, err := archive.NewSnapshotStore(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize snapshot store", "error", err)
			panic("failed to initialize snapshot store: " + err.Error())
		}
		archiver = store
	}

	// The worker runs extractions through the same module wiring as the API;
	// no enqueuer is needed on this side.
	intelModule := intel.NewModule(pool, eventBus, val, cfg, archiver, nil, auditor, log)

	worker, err := scheduler.NewWorker(cfg, intelModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("scheduler worker stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
