// Package owners resolves which owner a scraped site belongs to.
package owners

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"phone_extraction_backend/internal/numbers/repository"
	"phone_extraction_backend/platform/logger"
)

// Tier records which resolution strategy produced the owner.
type Tier string

const (
	TierDatabase Tier = "database"
	TierMetadata Tier = "metadata"
	TierPath     Tier = "path"
	TierDefault  Tier = "default"
)

// Store is the subset of the numbers repository the resolver needs.
type Store interface {
	FindOwnerByPageURL(ctx context.Context, url string) (uuid.UUID, error)
	FindOwnerByLogURL(ctx context.Context, url string) (uuid.UUID, error)
}

type Resolver struct {
	store     Store
	defaultID uuid.UUID
	log       *logger.Logger
}

// New creates a resolver. store may be nil when the database is disabled;
// defaultID may be uuid.Nil when no fallback owner is configured.
func New(store Store, defaultID uuid.UUID, log *logger.Logger) *Resolver {
	return &Resolver{store: store, defaultID: defaultID, log: log}
}

// siteMetadata is the optional metadata.json dropped next to a scraped site.
type siteMetadata struct {
	OwnerID string `json:"owner_id"`
	URL     string `json:"url"`
}

// Resolve finds the owner for a scraped site directory. Strategies run in
// order of trust: database lookup by URL, the site's metadata.json, a UUID
// embedded in the directory path, then the configured default.
func (r *Resolver) Resolve(ctx context.Context, siteDir, siteURL string) (uuid.UUID, Tier, error) {
	if r.store != nil && siteURL != "" {
		if id, err := r.store.FindOwnerByPageURL(ctx, siteURL); err == nil {
			return id, TierDatabase, nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, "", err
		}
		if id, err := r.store.FindOwnerByLogURL(ctx, siteURL); err == nil {
			return id, TierDatabase, nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, "", err
		}
	}

	if id, ok := r.fromMetadata(siteDir); ok {
		return id, TierMetadata, nil
	}

	if id, ok := ownerFromPath(siteDir); ok {
		return id, TierPath, nil
	}

	if r.defaultID != uuid.Nil {
		return r.defaultID, TierDefault, nil
	}

	return uuid.Nil, "", errors.New("no owner could be resolved for " + siteDir)
}

func (r *Resolver) fromMetadata(siteDir string) (uuid.UUID, bool) {
	data, err := os.ReadFile(filepath.Join(siteDir, "metadata.json"))
	if err != nil {
		return uuid.Nil, false
	}

	var meta siteMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		r.log.Warn("unreadable site metadata", "dir", siteDir, "error", err)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(meta.OwnerID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ownerFromPath scans path segments for an embedded owner UUID, innermost
// segment first.
func ownerFromPath(siteDir string) (uuid.UUID, bool) {
	segments := strings.Split(filepath.ToSlash(siteDir), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if id, err := uuid.Parse(segments[i]); err == nil && id != uuid.Nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

// SiteURL reads the canonical URL for a site directory from its metadata, if
// present. Missing metadata is not an error; the directory name stands in.
func SiteURL(siteDir string) string {
	data, err := os.ReadFile(filepath.Join(siteDir, "metadata.json"))
	if err != nil {
		return ""
	}
	var meta siteMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return ""
	}
	return meta.URL
}
