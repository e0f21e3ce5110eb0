// Package service orchestrates the extraction pipeline: matcher → validator →
// classifier → deduplication → optional external lookup.
package service

import (
	"context"
	"sort"

	"phone_extraction_backend/internal/extraction/classifier"
	"phone_extraction_backend/internal/extraction/domain"
	"phone_extraction_backend/internal/extraction/matcher"
	"phone_extraction_backend/internal/extraction/ports"
	"phone_extraction_backend/internal/extraction/validator"
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/logger"
)

// Service runs the full pipeline for one text at a time. A Service holds no
// mutable state across calls; concurrent Extract calls on separate inputs are
// independent and deduplication is scoped to a single call.
type Service struct {
	matcher    *matcher.Matcher
	validator  *validator.Validator
	classifier *classifier.Classifier
	lookup     ports.NumberLookup
	useLookup  bool
	log        *logger.Logger
}

// New creates a pipeline service. The lookup port may be nil; a nil port with
// lookup enabled yields skipped results rather than an error, mirroring the
// no-credentials case.
func New(cfg config.ExtractionConfig, lookup ports.NumberLookup, log *logger.Logger) *Service {
	vcfg := validator.Config{
		DefaultRegion:           cfg.GetDefaultRegion(),
		MinNationalDigits:       cfg.GetMinNationalDigits(),
		MinRepeatRun:            cfg.GetMinRepeatRun(),
		MinSequentialRun:        cfg.GetMinSequentialRun(),
		PlaceholderBlacklist:    cfg.GetPlaceholderBlacklist(),
		SequentialExemptRegions: cfg.GetSequentialExemptRegions(),
	}

	return &Service{
		matcher:    matcher.New(log),
		validator:  validator.New(vcfg),
		classifier: classifier.New(cfg.GetPriorityRegions()),
		lookup:     lookup,
		useLookup:  cfg.GetUseLookup(),
		log:        log,
	}
}

// Extract finds, validates, classifies, and deduplicates the phone numbers in
// text. The result holds exactly one entry per unique E.164 value, sorted
// ascending by the offset of the number's first appearance.
func (s *Service) Extract(ctx context.Context, text string) []domain.ValidatedNumber {
	candidates := s.matcher.Scan(text)

	seen := make(map[string]struct{}, len(candidates))
	results := make([]domain.ValidatedNumber, 0, len(candidates))

	// Candidates arrive in offset order, so first-seen wins the dedup
	// tie-break by construction.
	for _, candidate := range candidates {
		num, err := s.validator.Validate(candidate.Raw, nil)
		if err != nil {
			s.log.CandidateRejected(candidate.Raw, err.Error())
			continue
		}

		cls, err := s.classifier.Classify(num)
		if err != nil {
			s.log.ClassificationDropped(candidate.Raw, err)
			continue
		}

		if _, dup := seen[cls.E164]; dup {
			continue
		}
		seen[cls.E164] = struct{}{}

		results = append(results, domain.ValidatedNumber{
			Raw:            candidate.Raw,
			E164:           cls.E164,
			Region:         cls.Region,
			PriorityRegion: cls.PriorityRegion,
			Offset:         candidate.Offset,
			Confidence:     confidence(candidate, cls),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Offset < results[j].Offset
	})

	for i := range results {
		results[i].Lookup = s.enrich(ctx, results[i].E164)
	}

	return results
}

// confidence scores an accepted number from its local evidence. Numbers
// written with an explicit country prefix leave less room for default-region
// guessing, and a resolved region beats an unknown one.
func confidence(candidate domain.Candidate, cls classifier.Classification) float64 {
	score := 0.5
	if candidate.Pattern == matcher.PatternInternational {
		score += 0.3
	}
	if cls.Region != domain.RegionUnknown {
		score += 0.1
	}
	if cls.PriorityRegion {
		score += 0.1
	}
	return score
}

// enrich resolves the lookup result for one accepted number. With lookup
// disabled no network call happens and the number is marked valid, since the
// local layers already accepted it.
func (s *Service) enrich(ctx context.Context, e164 string) domain.LookupResult {
	if !s.useLookup {
		return domain.LookupResult{
			Status: domain.LookupNotAttempted,
			Valid:  domain.BoolPtr(true),
		}
	}

	if s.lookup == nil {
		return domain.LookupResult{
			Status:       domain.LookupSkipped,
			Valid:        domain.BoolPtr(true),
			ErrorMessage: domain.StringPtr("lookup client not configured"),
		}
	}

	result := s.lookup.Lookup(ctx, e164)
	if result.ErrorMessage != nil {
		s.log.LookupEvent(e164, string(result.Status), *result.ErrorMessage)
	} else {
		s.log.LookupEvent(e164, string(result.Status), "")
	}
	return result
}
