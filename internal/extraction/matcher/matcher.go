// Package matcher scans cleaned text for substrings that look like phone
// numbers, yielding raw candidates with their byte offsets.
package matcher

import (
	"regexp"
	"sort"

	"phone_extraction_backend/internal/extraction/domain"
	"phone_extraction_backend/platform/logger"
)

// PatternInternational marks candidates carrying an explicit +/00 prefix.
const PatternInternational = "international"

// PatternNational marks candidates in national form with a trunk 0, which need
// the default region hint to disambiguate.
const PatternNational = "national"

// Patterns are tried in order of specificity; a later match whose span
// intersects an earlier one is dropped so no two candidates are partial
// substrings of the same logical number.
var scanPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{
		// +49 (0) 74 24 - 9 40 40, 0049 123 4567890, +14155552671, ...
		name: PatternInternational,
		re:   regexp.MustCompile(`(?:\+|00)\d{1,3}[\s./-]{0,3}(?:\(0\)[\s./-]{0,3})?(?:\d[\s./-]{0,3}){5,12}\d`),
	},
	{
		// 089/9876543, (030) 1234567, 0170 1234567, ...
		name: PatternNational,
		re:   regexp.MustCompile(`\(?0\d{1,4}\)?[\s./-]{0,3}(?:\d[\s./-]{0,3}){4,10}\d`),
	},
}

// Matcher finds phone number candidates in free-form text.
type Matcher struct {
	log *logger.Logger
}

// New creates a Matcher.
func New(log *logger.Logger) *Matcher {
	return &Matcher{log: log}
}

// Scan returns all candidates found in text, ordered by offset. Scanning is
// best effort: an unexpected failure on malformed input yields the candidates
// collected so far instead of propagating to the caller.
func (m *Matcher) Scan(text string) (candidates []domain.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("matcher scan recovered", "panic", r)
		}
	}()

	if text == "" {
		return nil
	}

	type span struct{ start, end int }
	var kept []span

	overlaps := func(start, end int) bool {
		for _, s := range kept {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}

	for _, p := range scanPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			if overlaps(loc[0], loc[1]) {
				continue
			}
			kept = append(kept, span{loc[0], loc[1]})
			candidates = append(candidates, domain.Candidate{
				Raw:     text[loc[0]:loc[1]],
				Offset:  loc[0],
				Pattern: p.name,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Offset < candidates[j].Offset
	})
	return candidates
}
