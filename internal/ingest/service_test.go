package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"phone_extraction_backend/internal/extraction/service"
	"phone_extraction_backend/internal/owners"
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/logger"
)

func testConfig(ownerID string) *config.Config {
	return &config.Config{
		DefaultRegion:           "DE",
		PriorityRegions:         []string{"DE", "AT", "CH"},
		SequentialExemptRegions: []string{"DE", "AT", "CH", "GB"},
		MinSequentialRun:        5,
		MinRepeatRun:            5,
		MinNationalDigits:       7,
		PlaceholderBlacklist:    config.DefaultPlaceholderBlacklist(),
		IngestWorkers:           2,
		DefaultOwnerID:          ownerID,
	}
}

func writeSite(t *testing.T, root, site, text string) string {
	t.Helper()
	dir := filepath.Join(root, "pages", site)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "text.txt"), []byte(text), 0o644); err != nil {
		t.Fatalf("write text: %v", err)
	}
	return dir
}

func newTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()
	log := logger.New("test")
	extractor := service.New(cfg, nil, log)
	resolver := owners.New(nil, mustOwner(t, cfg.DefaultOwnerID), log)
	return New(cfg, extractor, resolver, nil, log)
}

func mustOwner(t *testing.T, raw string) uuid.UUID {
	t.Helper()
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		t.Fatalf("parse owner id: %v", err)
	}
	return id
}

func TestRunExtractsFromSiteTree(t *testing.T) {
	owner := uuid.New()
	root := t.TempDir()
	writeSite(t, root, "example.co.uk", "Call us on +44 20 7946 0958 or write to info@example.co.uk")
	writeSite(t, root, "empty.example", "No contact details on this page.")

	svc := newTestService(t, testConfig(owner.String()))

	summary, err := svc.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.SitesProcessed != 2 || summary.SitesFailed != 0 {
		t.Fatalf("expected 2 processed sites, got %+v", summary)
	}
	if summary.NumbersFound != 1 {
		t.Fatalf("expected 1 number across the tree, got %d", summary.NumbersFound)
	}

	for _, site := range summary.Sites {
		if site.OwnerID != owner || site.OwnerTier != owners.TierDefault {
			t.Fatalf("expected default owner for %s, got %s via %q", site.SiteDir, site.OwnerID, site.OwnerTier)
		}
		if filepath.Base(site.SiteDir) == "example.co.uk" {
			if len(site.Numbers) != 1 || site.Numbers[0].E164 != "+442079460958" {
				t.Fatalf("unexpected numbers for example.co.uk: %+v", site.Numbers)
			}
		}
	}
}

func TestRunUsesMetadataOwnerAndURL(t *testing.T) {
	metaOwner := uuid.New()
	root := t.TempDir()
	dir := writeSite(t, root, "example.de", "Rufen Sie an: 030 123456")
	meta := `{"owner_id": "` + metaOwner.String() + `", "url": "https://www.example.de/kontakt"}`
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(meta), 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}

	svc := newTestService(t, testConfig(""))

	summary, err := svc.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Sites) != 1 {
		t.Fatalf("expected 1 site, got %d", len(summary.Sites))
	}

	site := summary.Sites[0]
	if site.Err != nil {
		t.Fatalf("unexpected site error: %v", site.Err)
	}
	if site.OwnerID != metaOwner || site.OwnerTier != owners.TierMetadata {
		t.Fatalf("expected metadata owner, got %s via %q", site.OwnerID, site.OwnerTier)
	}
	if site.SiteURL != "https://www.example.de/kontakt" {
		t.Fatalf("expected metadata URL, got %q", site.SiteURL)
	}
}

func TestRunRecordsUnresolvableSites(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, "example.com", "Tel: +44 20 7946 0958")

	svc := newTestService(t, testConfig(""))

	summary, err := svc.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.SitesFailed != 1 || summary.SitesProcessed != 0 {
		t.Fatalf("expected the site to fail owner resolution, got %+v", summary)
	}
}

func TestRunEmptyRoot(t *testing.T) {
	svc := newTestService(t, testConfig(uuid.NewString()))

	summary, err := svc.Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.SitesProcessed != 0 || summary.NumbersFound != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, "example.co.uk", "Tel: +44 20 7946 0958")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(t, testConfig(uuid.NewString()))

	// A canceled context must not hang the run.
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Run(ctx, root)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return under a canceled context")
	}
}
