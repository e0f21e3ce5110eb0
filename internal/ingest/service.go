// Package ingest walks scraped site directories and runs extraction over
// their text dumps.
package ingest

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"phone_extraction_backend/internal/extraction/domain"
	"phone_extraction_backend/internal/extraction/service"
	"phone_extraction_backend/internal/numbers/repository"
	"phone_extraction_backend/internal/owners"
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/logger"
	"phone_extraction_backend/platform/textnorm"
)

const textFileName = "text.txt"

// SiteResult summarizes one processed site directory.
type SiteResult struct {
	SiteDir   string
	SiteURL   string
	OwnerID   uuid.UUID
	OwnerTier owners.Tier
	Numbers   []domain.ValidatedNumber
	Err       error
}

// RunSummary aggregates a whole ingest pass.
type RunSummary struct {
	SitesProcessed int
	SitesFailed    int
	NumbersFound   int
	Sites          []SiteResult
}

type Service struct {
	extractor *service.Service
	resolver  *owners.Resolver
	repo      *repository.Repository
	workers   int
	log       *logger.Logger
}

// New creates the ingest service. repo may be nil when persistence is
// disabled; results are still returned in the summary.
func New(cfg config.IngestConfig, extractor *service.Service, resolver *owners.Resolver, repo *repository.Repository, log *logger.Logger) *Service {
	workers := cfg.GetIngestWorkers()
	if workers <= 0 {
		workers = 4
	}
	return &Service{
		extractor: extractor,
		resolver:  resolver,
		repo:      repo,
		workers:   workers,
		log:       log,
	}
}

// Run walks root for site text dumps and extracts numbers from each. A
// failing site is recorded and skipped; only walk errors abort the run.
func (s *Service) Run(ctx context.Context, root string) (RunSummary, error) {
	siteDirs, err := discoverSites(root)
	if err != nil {
		return RunSummary{}, err
	}

	runStarted := time.Now()

	var mu sync.Mutex
	results := make([]SiteResult, 0, len(siteDirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, dir := range siteDirs {
		g.Go(func() error {
			result := s.processSite(ctx, dir, runStarted)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{Sites: results}
	for _, r := range results {
		if r.Err != nil {
			summary.SitesFailed++
			continue
		}
		summary.SitesProcessed++
		summary.NumbersFound += len(r.Numbers)
	}

	s.log.Info("ingest run finished",
		"root", root,
		"sites_processed", summary.SitesProcessed,
		"sites_failed", summary.SitesFailed,
		"numbers_found", summary.NumbersFound,
	)
	return summary, nil
}

// ProcessSite extracts and persists numbers for one site directory, outside
// of a full walk. Queued jobs use this entrypoint.
func (s *Service) ProcessSite(ctx context.Context, siteDir string) (SiteResult, error) {
	result := s.processSite(ctx, siteDir, time.Now())
	return result, result.Err
}

// discoverSites finds every directory under root containing a text dump.
func discoverSites(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == textFileName {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

func (s *Service) processSite(ctx context.Context, siteDir string, runStarted time.Time) SiteResult {
	result := SiteResult{SiteDir: siteDir}

	result.SiteURL = owners.SiteURL(siteDir)
	if result.SiteURL == "" {
		result.SiteURL = "https://" + filepath.Base(siteDir)
	}

	ownerID, tier, err := s.resolver.Resolve(ctx, siteDir, result.SiteURL)
	if err != nil {
		result.Err = err
		s.log.Error("owner resolution failed", "dir", siteDir, "error", err)
		return result
	}
	result.OwnerID = ownerID
	result.OwnerTier = tier

	raw, err := os.ReadFile(filepath.Join(siteDir, textFileName))
	if err != nil {
		result.Err = err
		s.log.Error("unreadable site text", "dir", siteDir, "error", err)
		return result
	}

	text := textnorm.Clean(raw)
	result.Numbers = s.extractor.Extract(ctx, text)

	s.log.Info("site extracted",
		"dir", siteDir,
		"owner_id", ownerID.String(),
		"owner_tier", string(tier),
		"numbers", len(result.Numbers),
	)

	if s.repo != nil {
		if err := s.persist(ctx, result, runStarted); err != nil {
			result.Err = err
			s.log.DatabaseError("persist site numbers", err)
		}
	}
	return result
}

func (s *Service) persist(ctx context.Context, result SiteResult, runStarted time.Time) error {
	logID, err := s.repo.CreateScrapingLog(ctx, &result.OwnerID, result.SiteURL, "completed", nil)
	if err != nil {
		return err
	}

	for _, num := range result.Numbers {
		_, err := s.repo.InsertRaw(ctx, repository.InsertRawParams{
			OwnerID:            &result.OwnerID,
			LogID:              &logID,
			PhoneNumber:        num.E164,
			RegionCode:         num.Region,
			PriorityRegion:     num.PriorityRegion,
			URL:                &result.SiteURL,
			SourcePage:         &result.SiteDir,
			TextOffset:         num.Offset,
			ScrapeRunTimestamp: &runStarted,
			ConfidenceScore:    num.Confidence,
		})
		if err != nil {
			return err
		}

		_, err = s.repo.UpsertCleaned(ctx, repository.UpsertCleanedParams{
			OwnerID:         result.OwnerID,
			PhoneNumber:     num.E164,
			RegionCode:      num.Region,
			PriorityRegion:  num.PriorityRegion,
			Source:          result.SiteURL,
			PhoneStatus:     phoneStatus(num.Lookup),
			ConfidenceScore: num.Confidence,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func phoneStatus(lookup domain.LookupResult) string {
	switch lookup.Status {
	case domain.LookupSuccessful:
		if lookup.Valid != nil && *lookup.Valid {
			return "validated"
		}
		return "rejected"
	case domain.LookupFailed:
		return "validation_failed"
	default:
		return "pending_validation"
	}
}
