package main

import (
	"context"
	"flag"
	"fmt"
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
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/db"
	"phone_extraction_backend/platform/logger"
	"phone_extraction_backend/platform/validator"
)

func main() {
	dataDir := flag.String("data-dir", "", "root directory of scraped sites (overrides DATA_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting extractor", "env", cfg.Env)

	val := validator.New()
	if err := val.Struct(cfg); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

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
	} else {
		log.Warn("database disabled, results will not be persisted")
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

	root := cfg.DataDir
	if *dataDir != "" {
		root = *dataDir
	}

	summary, err := ingestSvc.Run(ctx, root)
	if err != nil {
		log.Error("ingest run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %d sites (%d failed), found %d numbers\n",
		summary.SitesProcessed, summary.SitesFailed, summary.NumbersFound)
	if summary.SitesFailed > 0 {
		os.Exit(1)
	}
}
