// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// ExtractionConfig provides settings for the extraction pipeline. Thresholds
// live here so callers can run multiple pipelines with different knobs; the
// validator never reads ambient process state.
type ExtractionConfig interface {
	GetDefaultRegion() string
	GetPriorityRegions() []string
	GetSequentialExemptRegions() []string
	GetMinSequentialRun() int
	GetMinRepeatRun() int
	GetMinNationalDigits() int
	GetPlaceholderBlacklist() []string
	GetUseLookup() bool
}

// LookupConfig provides settings for the Twilio Lookup API client.
type LookupConfig interface {
	GetTwilioAccountSID() string
	GetTwilioAuthToken() string
	GetLookupTimeout() time.Duration
	GetLookupRatePerSecond() float64
	IsLookupConfigured() bool
}

// IngestConfig provides settings for the batch ingest runner.
type IngestConfig interface {
	GetDataDir() string
	GetIngestWorkers() int
	GetDefaultOwnerID() string
}

// SchedulerConfig provides settings for queued extraction jobs.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// ReportConfig provides settings for report generation.
type ReportConfig interface {
	GetReportsDir() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                     string
	DatabaseURL             string
	DefaultRegion           string `validate:"len=2"`
	PriorityRegions         []string
	SequentialExemptRegions []string
	MinSequentialRun        int `validate:"gte=2"`
	MinRepeatRun            int `validate:"gte=2"`
	MinNationalDigits       int `validate:"gte=1"`
	PlaceholderBlacklist    []string
	UseLookup               bool
	TwilioAccountSID        string
	TwilioAuthToken         string
	LookupTimeout           time.Duration
	LookupRatePerSecond     float64
	DataDir                 string
	IngestWorkers           int `validate:"gte=1"`
	DefaultOwnerID          string
	RedisURL                string
	RedisTLSInsecure        bool
	AsynqQueueName          string
	AsynqConcurrency        int
	ReportsDir              string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string  { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool { return c.DatabaseURL != "" }

// ExtractionConfig implementation
func (c *Config) GetDefaultRegion() string             { return c.DefaultRegion }
func (c *Config) GetPriorityRegions() []string         { return c.PriorityRegions }
func (c *Config) GetSequentialExemptRegions() []string { return c.SequentialExemptRegions }
func (c *Config) GetMinSequentialRun() int             { return c.MinSequentialRun }
func (c *Config) GetMinRepeatRun() int                 { return c.MinRepeatRun }
func (c *Config) GetMinNationalDigits() int            { return c.MinNationalDigits }
func (c *Config) GetPlaceholderBlacklist() []string    { return c.PlaceholderBlacklist }
func (c *Config) GetUseLookup() bool                   { return c.UseLookup }

// LookupConfig implementation
func (c *Config) GetTwilioAccountSID() string        { return c.TwilioAccountSID }
func (c *Config) GetTwilioAuthToken() string         { return c.TwilioAuthToken }
func (c *Config) GetLookupTimeout() time.Duration    { return c.LookupTimeout }
func (c *Config) GetLookupRatePerSecond() float64    { return c.LookupRatePerSecond }
func (c *Config) IsLookupConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

// IngestConfig implementation
func (c *Config) GetDataDir() string        { return c.DataDir }
func (c *Config) GetIngestWorkers() int     { return c.IngestWorkers }
func (c *Config) GetDefaultOwnerID() string { return c.DefaultOwnerID }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// ReportConfig implementation
func (c *Config) GetReportsDir() string { return c.ReportsDir }

// DefaultPlaceholderBlacklist lists exact digit strings that never represent a
// reachable number: all-zero and all-one fillers plus ascending-decimal shapes
// (with and without trunk prefix) commonly used as drama or placeholder ranges.
func DefaultPlaceholderBlacklist() []string {
	return []string{
		"0000000000",
		"00000000000",
		"000000000000",
		"1111111111",
		"11111111111",
		"0123456789",
		"01234567890",
		"1234567890",
		"12345678901",
		"123456789",
	}
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "development"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		DefaultRegion:           strings.ToUpper(getEnv("DEFAULT_REGION", "DE")),
		PriorityRegions:         splitCSV(getEnv("PRIORITY_REGIONS", "DE,AT,CH")),
		SequentialExemptRegions: splitCSV(getEnv("SEQUENTIAL_EXEMPT_REGIONS", "DE,AT,CH,GB")),
		MinSequentialRun:        mustInt(getEnv("MIN_SEQUENTIAL_RUN", "5")),
		MinRepeatRun:            mustInt(getEnv("MIN_REPEAT_RUN", "5")),
		MinNationalDigits:       mustInt(getEnv("MIN_NATIONAL_DIGITS", "7")),
		UseLookup:               strings.EqualFold(getEnv("USE_LOOKUP", "false"), "true"),
		TwilioAccountSID:        getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:         getEnv("TWILIO_AUTH_TOKEN", ""),
		LookupTimeout:           mustDuration(getEnv("LOOKUP_TIMEOUT", "10s")),
		LookupRatePerSecond:     mustFloat(getEnv("LOOKUP_RATE_PER_SECOND", "5")),
		DataDir:                 getEnv("DATA_DIR", "data/scraping"),
		IngestWorkers:           mustInt(getEnv("INGEST_WORKERS", "4")),
		DefaultOwnerID:          getEnv("DEFAULT_OWNER_ID", ""),
		RedisURL:                getEnv("REDIS_URL", ""),
		RedisTLSInsecure:        strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:          getEnv("ASYNQ_QUEUE", "extraction"),
		AsynqConcurrency:        mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		ReportsDir:              getEnv("REPORTS_DIR", "data/reports"),
	}

	if blacklist := getEnv("PLACEHOLDER_BLACKLIST", ""); blacklist != "" {
		cfg.PlaceholderBlacklist = splitCSV(blacklist)
	} else {
		cfg.PlaceholderBlacklist = DefaultPlaceholderBlacklist()
	}

	upper(cfg.PriorityRegions)
	upper(cfg.SequentialExemptRegions)

	if cfg.UseLookup && !cfg.IsLookupConfigured() {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required when USE_LOOKUP is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func upper(values []string) {
	for i, v := range values {
		values[i] = strings.ToUpper(v)
	}
}
