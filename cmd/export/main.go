package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"phone_extraction_backend/internal/numbers"
	"phone_extraction_backend/internal/report"
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/db"
	"phone_extraction_backend/platform/logger"
)

func main() {
	format := flag.String("format", "all", "report format: json, summary, xlsx, or all")
	ownerFlag := flag.String("owner", "", "limit the report to one owner UUID")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	if !cfg.IsDatabaseEnabled() {
		log.Error("DATABASE_URL is required for exports")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	svc := report.New(cfg, numbers.NewModule(pool).Repository(), log)

	var owner *uuid.UUID
	if *ownerFlag != "" {
		id, err := uuid.Parse(*ownerFlag)
		if err != nil {
			log.Error("invalid owner id", "owner", *ownerFlag, "error", err)
			os.Exit(1)
		}
		owner = &id
	}

	wantJSON := *format == "json" || *format == "all"
	wantSummary := *format == "summary" || *format == "all"
	wantXLSX := *format == "xlsx" || *format == "all"
	if !wantJSON && !wantSummary && !wantXLSX {
		log.Error("unknown format", "format", *format)
		os.Exit(1)
	}

	if wantJSON || wantSummary {
		stats, err := svc.Statistics(ctx, owner)
		if err != nil {
			log.Error("failed to aggregate statistics", "error", err)
			os.Exit(1)
		}

		if wantJSON {
			path, err := svc.WriteJSON(stats)
			if err != nil {
				log.Error("failed to write json report", "error", err)
				os.Exit(1)
			}
			fmt.Println("wrote", path)
		}
		if wantSummary {
			path, err := svc.WriteSummary(stats)
			if err != nil {
				log.Error("failed to write summary", "error", err)
				os.Exit(1)
			}
			fmt.Println("wrote", path)
		}
	}

	if wantXLSX {
		path, err := svc.ExportXLSX(ctx, owner)
		if err != nil {
			log.Error("failed to write xlsx export", "error", err)
			os.Exit(1)
		}
		fmt.Println("wrote", path)
	}
}
