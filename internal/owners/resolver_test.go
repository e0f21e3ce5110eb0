package owners

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"phone_extraction_backend/internal/numbers/repository"
	"phone_extraction_backend/platform/logger"
)

type fakeStore struct {
	byPage map[string]uuid.UUID
	byLog  map[string]uuid.UUID
}

func (f *fakeStore) FindOwnerByPageURL(_ context.Context, url string) (uuid.UUID, error) {
	if id, ok := f.byPage[url]; ok {
		return id, nil
	}
	return uuid.Nil, repository.ErrNotFound
}

func (f *fakeStore) FindOwnerByLogURL(_ context.Context, url string) (uuid.UUID, error) {
	if id, ok := f.byLog[url]; ok {
		return id, nil
	}
	return uuid.Nil, repository.ErrNotFound
}

func TestResolveDatabaseWinsOverMetadata(t *testing.T) {
	dbOwner := uuid.New()
	metaOwner := uuid.New()

	dir := t.TempDir()
	writeMetadata(t, dir, metaOwner.String(), "https://example.com")

	store := &fakeStore{byPage: map[string]uuid.UUID{"https://example.com": dbOwner}}
	r := New(store, uuid.Nil, logger.New("test"))

	id, tier, err := r.Resolve(context.Background(), dir, "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tier != TierDatabase {
		t.Fatalf("expected tier %q, got %q", TierDatabase, tier)
	}
	if id != dbOwner {
		t.Fatalf("expected database owner %s, got %s", dbOwner, id)
	}
}

func TestResolveFallsBackToLogURL(t *testing.T) {
	logOwner := uuid.New()
	store := &fakeStore{byLog: map[string]uuid.UUID{"https://example.com": logOwner}}
	r := New(store, uuid.Nil, logger.New("test"))

	id, tier, err := r.Resolve(context.Background(), t.TempDir(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tier != TierDatabase || id != logOwner {
		t.Fatalf("expected log owner %s via database tier, got %s via %q", logOwner, id, tier)
	}
}

func TestResolveFromMetadata(t *testing.T) {
	metaOwner := uuid.New()
	dir := t.TempDir()
	writeMetadata(t, dir, metaOwner.String(), "https://example.com")

	r := New(nil, uuid.Nil, logger.New("test"))

	id, tier, err := r.Resolve(context.Background(), dir, "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tier != TierMetadata || id != metaOwner {
		t.Fatalf("expected metadata owner %s, got %s via %q", metaOwner, id, tier)
	}
}

func TestResolveFromPathSegment(t *testing.T) {
	pathOwner := uuid.New()
	dir := filepath.Join(t.TempDir(), pathOwner.String(), "pages", "example.com")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	r := New(nil, uuid.Nil, logger.New("test"))

	id, tier, err := r.Resolve(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tier != TierPath || id != pathOwner {
		t.Fatalf("expected path owner %s, got %s via %q", pathOwner, id, tier)
	}
}

func TestResolveDefaultOwner(t *testing.T) {
	defaultOwner := uuid.New()
	r := New(nil, defaultOwner, logger.New("test"))

	id, tier, err := r.Resolve(context.Background(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tier != TierDefault || id != defaultOwner {
		t.Fatalf("expected default owner %s, got %s via %q", defaultOwner, id, tier)
	}
}

func TestResolveNothingConfigured(t *testing.T) {
	r := New(nil, uuid.Nil, logger.New("test"))

	if _, _, err := r.Resolve(context.Background(), t.TempDir(), ""); err == nil {
		t.Fatal("expected an error when no strategy can resolve an owner")
	}
}

func TestResolveIgnoresMalformedMetadata(t *testing.T) {
	defaultOwner := uuid.New()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}

	r := New(nil, defaultOwner, logger.New("test"))

	id, tier, err := r.Resolve(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tier != TierDefault || id != defaultOwner {
		t.Fatalf("malformed metadata should fall through, got %s via %q", id, tier)
	}
}

func writeMetadata(t *testing.T, dir, ownerID, url string) {
	t.Helper()
	content := `{"owner_id": "` + ownerID + `", "url": "` + url + `"}`
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
}
