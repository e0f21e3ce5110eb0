// Package domain holds the core types flowing through the extraction pipeline.
package domain

// LookupStatus describes the outcome of an external number lookup.
type LookupStatus string

const (
	// LookupNotAttempted means lookup was disabled for this run.
	LookupNotAttempted LookupStatus = "not_attempted"
	// LookupSkipped means lookup was requested but no client is configured.
	LookupSkipped LookupStatus = "skipped"
	// LookupSuccessful means the remote service answered.
	LookupSuccessful LookupStatus = "successful"
	// LookupFailed means the call failed; it says nothing about the number.
	LookupFailed LookupStatus = "failed"
)

// LookupResult carries carrier/line-type metadata from an external lookup.
// Valid is nil whenever Status is LookupFailed due to an ambiguous remote
// failure: an API error is not evidence that the number is invalid.
type LookupResult struct {
	Status       LookupStatus
	Valid        *bool
	NumberType   *string
	CarrierName  *string
	ErrorMessage *string
}

// Candidate is an unvalidated substring suspected of being a phone number.
// Candidates are created per extraction call and never persisted.
type Candidate struct {
	Raw     string
	Offset  int
	Pattern string
}

// ValidatedNumber is one accepted, canonicalized, classified number.
// E164 always begins with '+' followed by digits only, and uniquely
// identifies the number within one extraction run.
type ValidatedNumber struct {
	Raw            string
	E164           string
	Region         string
	PriorityRegion bool
	Offset         int
	Confidence     float64
	Lookup         LookupResult
}

// RegionUnknown is the region value used when the numbering plan cannot
// associate a territory with the number.
const RegionUnknown = "Unknown"

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
