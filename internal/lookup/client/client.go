// Package client provides the HTTP client for Twilio Lookup V2 number
// enrichment.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"phone_extraction_backend/internal/extraction/domain"
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/logger"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL     = "https://lookups.twilio.com/v2/PhoneNumbers"
	defaultHTTPTimeout = 10 * time.Second
	lookupFields       = "line_type_intelligence,carrier_info"
)

// Client calls the Twilio Lookup V2 API. It implements ports.NumberLookup and
// never returns an error: every failure mode maps to a populated LookupResult.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	accountSID string
	authToken  string
	log        *logger.Logger
}

// New creates a lookup client. When no credentials are configured the client
// reports skipped results and performs no network calls.
func New(cfg config.LookupConfig, log *logger.Logger) *Client {
	timeout := cfg.GetLookupTimeout()
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	perSecond := cfg.GetLookupRatePerSecond()
	if perSecond <= 0 {
		perSecond = 5
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		baseURL:    defaultBaseURL,
		accountSID: cfg.GetTwilioAccountSID(),
		authToken:  cfg.GetTwilioAuthToken(),
		log:        log,
	}
}

// lookupResponse mirrors the Lookup V2 payload fields the pipeline consumes.
type lookupResponse struct {
	Valid                bool           `json:"valid"`
	PhoneNumber          string         `json:"phone_number"`
	CountryCode          string         `json:"country_code"`
	LineTypeIntelligence map[string]any `json:"line_type_intelligence"`
	CarrierInfo          map[string]any `json:"carrier_info"`
}

// Lookup fetches carrier and line-type metadata for an E.164 number.
func (c *Client) Lookup(ctx context.Context, e164 string) domain.LookupResult {
	if c.accountSID == "" || c.authToken == "" {
		return domain.LookupResult{
			Status:       domain.LookupSkipped,
			Valid:        domain.BoolPtr(true),
			ErrorMessage: domain.StringPtr("lookup skipped: client not configured"),
		}
	}

	// A remote rejection of malformed input is a definite answer, unlike a
	// transport failure.
	if !strings.HasPrefix(e164, "+") {
		return domain.LookupResult{
			Status:       domain.LookupFailed,
			Valid:        domain.BoolPtr(false),
			ErrorMessage: domain.StringPtr("invalid format: number must be E.164"),
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return failedResult(fmt.Sprintf("lookup canceled: %v", err))
	}

	reqURL := fmt.Sprintf("%s/%s?Fields=%s", c.baseURL, url.PathEscape(e164), lookupFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return failedResult(fmt.Sprintf("build request: %v", err))
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("twilio lookup request failed", "error", err)
		return failedResult(fmt.Sprintf("twilio request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("twilio lookup request error", "status", resp.StatusCode)
		return failedResult(fmt.Sprintf("twilio api error: status %d", resp.StatusCode))
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("twilio lookup decode failed", "error", err)
		return failedResult(fmt.Sprintf("decode response: %v", err))
	}

	result := domain.LookupResult{
		Status: domain.LookupSuccessful,
		Valid:  domain.BoolPtr(payload.Valid),
	}
	if numberType, ok := payload.LineTypeIntelligence["type"].(string); ok && numberType != "" {
		result.NumberType = domain.StringPtr(numberType)
	}
	if carrier, ok := payload.CarrierInfo["name"].(string); ok && carrier != "" {
		result.CarrierName = domain.StringPtr(carrier)
	}
	return result
}

// failedResult marks an ambiguous remote failure. Valid stays nil: an API
// error says nothing about the number's actual validity.
func failedResult(message string) domain.LookupResult {
	return domain.LookupResult{
		Status:       domain.LookupFailed,
		ErrorMessage: domain.StringPtr(message),
	}
}
