// Package repository persists raw and cleaned phone numbers.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type RawNumber struct {
	RawPhoneID         uuid.UUID
	OwnerID            *uuid.UUID
	PageID             *uuid.UUID
	LogID              *uuid.UUID
	PhoneNumber        string
	RegionCode         string
	PriorityRegion     bool
	URL                *string
	SourcePage         *string
	TextOffset         int
	ScrapeRunTimestamp *time.Time
	Notes              *string
	ConfidenceScore    float64
	ExtractedAt        time.Time
}

type InsertRawParams struct {
	OwnerID            *uuid.UUID
	PageID             *uuid.UUID
	LogID              *uuid.UUID
	PhoneNumber        string
	RegionCode         string
	PriorityRegion     bool
	URL                *string
	SourcePage         *string
	TextOffset         int
	ScrapeRunTimestamp *time.Time
	Notes              *string
	ConfidenceScore    float64
}

// InsertRaw records every extracted occurrence, duplicates included. The raw
// table is the audit trail; deduplication happens in the cleaned table.
func (r *Repository) InsertRaw(ctx context.Context, params InsertRawParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO raw_phone_numbers (
			owner_id, page_id, log_id, phone_number, region_code, priority_region,
			url, source_page, text_offset, scrape_run_timestamp, notes, confidence_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING raw_phone_id
	`,
		params.OwnerID, params.PageID, params.LogID, params.PhoneNumber, params.RegionCode, params.PriorityRegion,
		params.URL, params.SourcePage, params.TextOffset, params.ScrapeRunTimestamp, params.Notes, params.ConfidenceScore,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

type CleanedNumber struct {
	CleanedPhoneID  uuid.UUID
	OwnerID         uuid.UUID
	PhoneNumber     string
	RegionCode      string
	PriorityRegion  bool
	Sources         []string
	OccurrenceCount int
	PhoneStatus     string
	ConfidenceScore float64
	LastValidated   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type UpsertCleanedParams struct {
	OwnerID         uuid.UUID
	PhoneNumber     string
	RegionCode      string
	PriorityRegion  bool
	Source          string
	PhoneStatus     string
	ConfidenceScore float64
}

// UpsertCleaned inserts an E.164 number or folds a repeat sighting into the
// existing row: the source list grows only with unseen sources, the occurrence
// count always increments, and the confidence score keeps its maximum.
func (r *Repository) UpsertCleaned(ctx context.Context, params UpsertCleanedParams) (CleanedNumber, error) {
	var item CleanedNumber
	err := r.pool.QueryRow(ctx, `
		INSERT INTO cleaned_phone_numbers (
			owner_id, phone_number, region_code, priority_region, sources, phone_status, confidence_score
		) VALUES ($1, $2, $3, $4, ARRAY[$5], $6, $7)
		ON CONFLICT ON CONSTRAINT cleaned_phone_numbers_owner_number_key DO UPDATE SET
			sources = CASE
				WHEN $5 = ANY(cleaned_phone_numbers.sources) THEN cleaned_phone_numbers.sources
				ELSE array_append(cleaned_phone_numbers.sources, $5)
			END,
			occurrence_count = cleaned_phone_numbers.occurrence_count + 1,
			confidence_score = GREATEST(cleaned_phone_numbers.confidence_score, EXCLUDED.confidence_score),
			updated_at = NOW()
		RETURNING cleaned_phone_id, owner_id, phone_number, region_code, priority_region,
			sources, occurrence_count, phone_status, confidence_score, last_validated, created_at, updated_at
	`,
		params.OwnerID, params.PhoneNumber, params.RegionCode, params.PriorityRegion,
		params.Source, params.PhoneStatus, params.ConfidenceScore,
	).Scan(
		&item.CleanedPhoneID, &item.OwnerID, &item.PhoneNumber, &item.RegionCode, &item.PriorityRegion,
		&item.Sources, &item.OccurrenceCount, &item.PhoneStatus, &item.ConfidenceScore,
		&item.LastValidated, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return CleanedNumber{}, err
	}
	return item, nil
}

// ListCleanedByOwner returns an owner's deduplicated numbers, priority regions
// first, then by occurrence count.
func (r *Repository) ListCleanedByOwner(ctx context.Context, ownerID uuid.UUID) ([]CleanedNumber, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cleaned_phone_id, owner_id, phone_number, region_code, priority_region,
			sources, occurrence_count, phone_status, confidence_score, last_validated, created_at, updated_at
		FROM cleaned_phone_numbers
		WHERE owner_id = $1
		ORDER BY priority_region DESC, occurrence_count DESC, phone_number ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCleaned(rows)
}

// ListAllCleaned returns every deduplicated number, for reporting.
func (r *Repository) ListAllCleaned(ctx context.Context) ([]CleanedNumber, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cleaned_phone_id, owner_id, phone_number, region_code, priority_region,
			sources, occurrence_count, phone_status, confidence_score, last_validated, created_at, updated_at
		FROM cleaned_phone_numbers
		ORDER BY owner_id ASC, priority_region DESC, occurrence_count DESC, phone_number ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCleaned(rows)
}

func scanCleaned(rows pgx.Rows) ([]CleanedNumber, error) {
	items := make([]CleanedNumber, 0)
	for rows.Next() {
		var item CleanedNumber
		if err := rows.Scan(
			&item.CleanedPhoneID, &item.OwnerID, &item.PhoneNumber, &item.RegionCode, &item.PriorityRegion,
			&item.Sources, &item.OccurrenceCount, &item.PhoneStatus, &item.ConfidenceScore,
			&item.LastValidated, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

// FindOwnerByPageURL resolves an owner through the scraped_pages table.
func (r *Repository) FindOwnerByPageURL(ctx context.Context, url string) (uuid.UUID, error) {
	var ownerID *uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT owner_id FROM scraped_pages WHERE url = $1 ORDER BY created_at DESC LIMIT 1
	`, url).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	if ownerID == nil {
		return uuid.Nil, ErrNotFound
	}
	return *ownerID, nil
}

// FindOwnerByLogURL resolves an owner through the scraping_logs table.
func (r *Repository) FindOwnerByLogURL(ctx context.Context, url string) (uuid.UUID, error) {
	var ownerID *uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT owner_id FROM scraping_logs WHERE url_scraped = $1 ORDER BY created_at DESC LIMIT 1
	`, url).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	if ownerID == nil {
		return uuid.Nil, ErrNotFound
	}
	return *ownerID, nil
}

// CreateScrapingLog records an extraction run against a source URL.
func (r *Repository) CreateScrapingLog(ctx context.Context, ownerID *uuid.UUID, url, status string, errorMessage *string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO scraping_logs (owner_id, url_scraped, status, error_message)
		VALUES ($1, $2, $3, $4)
		RETURNING log_id
	`, ownerID, url, status, errorMessage).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
