// Package classifier converts accepted candidates to their canonical E.164
// form, derives the ISO region, and flags priority regions.
package classifier

import (
	"strings"

	"phone_extraction_backend/platform/apperr"

	"github.com/nyaruka/phonenumbers"
)

// Classification is the canonical identity of an accepted number.
type Classification struct {
	E164           string
	Region         string
	PriorityRegion bool
}

// RegionUnknown is used when the numbering plan cannot place the number.
const RegionUnknown = "Unknown"

// Classifier canonicalizes numbers and applies the priority-region policy.
type Classifier struct {
	priority map[string]struct{}
}

// New creates a Classifier for the given priority region set.
func New(priorityRegions []string) *Classifier {
	c := &Classifier{priority: make(map[string]struct{}, len(priorityRegions))}
	for _, region := range priorityRegions {
		c.priority[strings.ToUpper(region)] = struct{}{}
	}
	return c
}

// Classify returns the canonical form for a parsed, validated number. An
// E.164 form that does not start with '+' means the numbering-plan library
// could not canonicalize an edge case that slipped past validation; callers
// drop that single candidate rather than failing the run.
func (c *Classifier) Classify(num *phonenumbers.PhoneNumber) (Classification, error) {
	e164 := phonenumbers.Format(num, phonenumbers.E164)
	if !strings.HasPrefix(e164, "+") || len(e164) < 2 {
		return Classification{}, apperr.Classification("no canonical form")
	}

	region := phonenumbers.GetRegionCodeForNumber(num)
	if region == "" || region == "ZZ" {
		region = RegionUnknown
	}

	_, priority := c.priority[region]
	return Classification{
		E164:           e164,
		Region:         region,
		PriorityRegion: priority,
	}, nil
}
