package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"phone_extraction_backend/internal/extraction"
	"phone_extraction_backend/internal/ingest"
	"phone_extraction_backend/internal/lookup"
	"phone_extraction_backend/internal/numbers"
	"phone_extraction_backend/internal/numbers/repository"
	"phone_extraction_backend/internal/owners"
	"phone_extraction_backend/internal/scheduler"
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/db"
	"phone_extraction_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting extraction worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	var repo *repository.Repository
	if cfg.IsDatabaseEnabled() {
		if err := db.RunMigrations(ctx, cfg); err != nil {
			log.Error("failed to run migrations", "error", err)
			panic("failed to run migrations: " + err.Error())
		}

		pool, err = db.NewPool(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			panic("failed to connect to database: " + err.Error())
		}
		defer pool.Close()
		repo = numbers.NewModule(pool).Repository()
	}

	defaultOwner := uuid.Nil
	if cfg.DefaultOwnerID != "" {
		defaultOwner, err = uuid.Parse(cfg.DefaultOwnerID)
		if err != nil {
			log.Error("invalid DEFAULT_OWNER_ID", "error", err)
			os.Exit(1)
		}
	}

	var store owners.Store
	if repo != nil {
		store = repo
	}

	lookupModule := lookup.NewModule(cfg, log)
	extractionModule := extraction.NewModule(cfg, lookupModule.Client(), log)
	resolver := owners.New(store, defaultOwner, log)
	ingestSvc := ingest.New(cfg, extractionModule.Service(), resolver, repo, log)

	worker, err := scheduler.NewWorker(cfg, ingestSvc, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	log.Info("worker ready", "queue", cfg.AsynqQueueName, "concurrency", cfg.AsynqConcurrency)
	worker.Run(ctx)
}
