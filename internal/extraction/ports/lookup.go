// Package ports declares the external collaborator interfaces consumed by the
// extraction pipeline. Implementations are injected by the composition root so
// tests can substitute doubles.
package ports

import (
	"context"

	"phone_extraction_backend/internal/extraction/domain"
)

// NumberLookup enriches an accepted number with carrier and line-type metadata
// from a remote service. Implementations never return an error: every failure
// mode maps to a populated LookupResult, with Valid left nil on ambiguous
// remote failure. Implementations must return in bounded time; timeout and
// retry policy belong to the adapter, not the pipeline.
type NumberLookup interface {
	Lookup(ctx context.Context, e164 string) domain.LookupResult
}
