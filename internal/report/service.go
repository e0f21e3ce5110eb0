// Package report aggregates extraction results into statistics and export
// artifacts.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/xuri/excelize/v2"

	"phone_extraction_backend/internal/numbers/repository"
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/logger"
)

// Stats summarizes a set of deduplicated numbers.
type Stats struct {
	GeneratedAt      time.Time      `json:"generated_at"`
	TotalNumbers     int            `json:"total_numbers"`
	TotalOccurrences int            `json:"total_occurrences"`
	PriorityNumbers  int            `json:"priority_numbers"`
	UniqueOwners     int            `json:"unique_owners"`
	ByRegion         map[string]int `json:"by_region"`
	ByCountryCode    map[string]int `json:"by_country_code"`
	ByStatus         map[string]int `json:"by_status"`
}

type Service struct {
	repo       *repository.Repository
	reportsDir string
	log        *logger.Logger
}

func New(cfg config.ReportConfig, repo *repository.Repository, log *logger.Logger) *Service {
	dir := cfg.GetReportsDir()
	if dir == "" {
		dir = "data/reports"
	}
	return &Service{repo: repo, reportsDir: dir, log: log}
}

// Statistics aggregates cleaned numbers, scoped to one owner when given.
func (s *Service) Statistics(ctx context.Context, owner *uuid.UUID) (Stats, error) {
	items, err := s.listNumbers(ctx, owner)
	if err != nil {
		return Stats{}, err
	}
	return Aggregate(items), nil
}

func (s *Service) listNumbers(ctx context.Context, owner *uuid.UUID) ([]repository.CleanedNumber, error) {
	if owner != nil {
		return s.repo.ListCleanedByOwner(ctx, *owner)
	}
	return s.repo.ListAllCleaned(ctx)
}

// Aggregate computes statistics over cleaned numbers without touching storage.
func Aggregate(items []repository.CleanedNumber) Stats {
	stats := Stats{
		GeneratedAt:   time.Now().UTC(),
		ByRegion:      make(map[string]int),
		ByCountryCode: make(map[string]int),
		ByStatus:      make(map[string]int),
	}

	owners := make(map[string]struct{})
	for _, item := range items {
		stats.TotalNumbers++
		stats.TotalOccurrences += item.OccurrenceCount
		if item.PriorityRegion {
			stats.PriorityNumbers++
		}
		owners[item.OwnerID.String()] = struct{}{}
		stats.ByRegion[item.RegionCode]++
		stats.ByStatus[item.PhoneStatus]++
		stats.ByCountryCode[countryCodeOf(item.PhoneNumber)]++
	}
	stats.UniqueOwners = len(owners)
	return stats
}

func countryCodeOf(e164 string) string {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return "unknown"
	}
	return fmt.Sprintf("+%d", num.GetCountryCode())
}

// WriteJSON writes the statistics as a timestamped JSON report and returns
// its path.
func (s *Service) WriteJSON(stats Stats) (string, error) {
	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.reportsDir, fmt.Sprintf("phone_stats_%s.json", stats.GeneratedAt.Format("20060102_150405")))
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	s.log.Info("statistics report written", "path", path, "numbers", stats.TotalNumbers)
	return path, nil
}

// WriteSummary writes a human-readable text summary and returns its path.
func (s *Service) WriteSummary(stats Stats) (string, error) {
	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Phone extraction summary (%s)\n", stats.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Unique numbers:    %d\n", stats.TotalNumbers)
	fmt.Fprintf(&b, "Total occurrences: %d\n", stats.TotalOccurrences)
	fmt.Fprintf(&b, "Priority numbers:  %d\n", stats.PriorityNumbers)
	fmt.Fprintf(&b, "Owners:            %d\n", stats.UniqueOwners)

	b.WriteString("\nBy region:\n")
	for _, line := range sortedCounts(stats.ByRegion) {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\nBy country code:\n")
	for _, line := range sortedCounts(stats.ByCountryCode) {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\nBy status:\n")
	for _, line := range sortedCounts(stats.ByStatus) {
		b.WriteString("  " + line + "\n")
	}

	path := filepath.Join(s.reportsDir, fmt.Sprintf("phone_stats_%s.txt", stats.GeneratedAt.Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// sortedCounts renders a count map as "key: n" lines, highest count first,
// ties broken alphabetically so output is stable.
func sortedCounts(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return lines
}

// ExportXLSX writes cleaned numbers into a workbook and returns its path,
// scoped to one owner when given.
func (s *Service) ExportXLSX(ctx context.Context, owner *uuid.UUID) (string, error) {
	items, err := s.listNumbers(ctx, owner)
	if err != nil {
		return "", err
	}

	data, err := BuildWorkbook(items)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.reportsDir, fmt.Sprintf("phone_numbers_%s.xlsx", time.Now().UTC().Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	s.log.Info("xlsx export written", "path", path, "rows", len(items))
	return path, nil
}

// BuildWorkbook renders cleaned numbers as XLSX bytes.
func BuildWorkbook(items []repository.CleanedNumber) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Phone Numbers"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{
		"Owner ID",
		"Phone Number",
		"Region",
		"Priority",
		"Occurrences",
		"Status",
		"Confidence",
		"Sources",
		"Last Validated",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, item := range items {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, item.OwnerID.String())
		write(2, item.PhoneNumber)
		write(3, item.RegionCode)
		write(4, item.PriorityRegion)
		write(5, item.OccurrenceCount)
		write(6, item.PhoneStatus)
		write(7, item.ConfidenceScore)
		write(8, strings.Join(item.Sources, ", "))
		if item.LastValidated != nil {
			write(9, item.LastValidated.Format("2006-01-02 15:04:05"))
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "B", 20)
	_ = f.SetColWidth(sheet, "C", "F", 12)
	_ = f.SetColWidth(sheet, "H", "H", 60)
	_ = f.SetColWidth(sheet, "I", "I", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
