// Package validator applies the layered acceptance policy to phone number
// candidates. Layers run in order and short-circuit on the first rejection,
// so rejection logging stays deterministic and later layers never see input
// an earlier layer already refused.
package validator

import (
	"strings"

	"phone_extraction_backend/platform/apperr"
	"phone_extraction_backend/platform/config"

	"github.com/nyaruka/phonenumbers"
)

// Config holds the thresholds for the layered policy. The validator reads no
// ambient process state; callers can run several validators with different
// thresholds concurrently without interference.
type Config struct {
	// DefaultRegion disambiguates candidates without an international prefix.
	DefaultRegion string `validate:"len=2"`
	// MinNationalDigits is the minimum length of the national significant
	// number; anything shorter is a short-code-like false positive.
	MinNationalDigits int `validate:"gte=1"`
	// MinRepeatRun rejects numbers whose national digits contain this many
	// identical consecutive digits.
	MinRepeatRun int `validate:"gte=2"`
	// MinSequentialRun rejects numbers whose national digits contain a run of
	// this many digits ascending or descending by exactly 1.
	MinSequentialRun int `validate:"gte=2"`
	// PlaceholderBlacklist lists exact digit strings that are always rejected.
	PlaceholderBlacklist []string
	// SequentialExemptRegions skips the sequential check for regions whose
	// numbering plans assign legitimately sequential-looking ranges.
	SequentialExemptRegions []string
}

// DefaultConfig returns the standard policy for the given default region.
func DefaultConfig(defaultRegion string) Config {
	return Config{
		DefaultRegion:           defaultRegion,
		MinNationalDigits:       7,
		MinRepeatRun:            5,
		MinSequentialRun:        5,
		PlaceholderBlacklist:    config.DefaultPlaceholderBlacklist(),
		SequentialExemptRegions: []string{"DE", "AT", "CH", "GB"},
	}
}

// Validator decides accept/reject for a single candidate.
type Validator struct {
	cfg       Config
	blacklist map[string]struct{}
	exempt    map[string]struct{}
}

// New creates a Validator from an explicit config.
func New(cfg Config) *Validator {
	v := &Validator{
		cfg:       cfg,
		blacklist: make(map[string]struct{}, len(cfg.PlaceholderBlacklist)),
		exempt:    make(map[string]struct{}, len(cfg.SequentialExemptRegions)),
	}
	for _, entry := range cfg.PlaceholderBlacklist {
		v.blacklist[entry] = struct{}{}
	}
	for _, region := range cfg.SequentialExemptRegions {
		v.exempt[strings.ToUpper(region)] = struct{}{}
	}
	return v
}

// Validate applies the layered policy to raw. A pre-parsed representation may
// be passed to skip re-parsing; when nil, raw is parsed with the configured
// default region. On acceptance the parsed number is returned for reuse by the
// classifier; on rejection the error names the failing layer.
func (v *Validator) Validate(raw string, parsed *phonenumbers.PhoneNumber) (*phonenumbers.PhoneNumber, error) {
	// Layer 1: parse.
	num := parsed
	if num == nil {
		var err error
		num, err = phonenumbers.Parse(raw, v.cfg.DefaultRegion)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindParse, "unparseable candidate", err)
		}
	}

	// Layer 2: numbering-plan possibility and validity, both required.
	if !phonenumbers.IsPossibleNumber(num) || !phonenumbers.IsValidNumber(num) {
		return nil, apperr.Validation("not a valid number for its region")
	}

	// Layer 3: minimum significant length.
	nsn := phonenumbers.GetNationalSignificantNumber(num)
	if len(nsn) < v.cfg.MinNationalDigits {
		return nil, apperr.Validation("national number too short")
	}

	nationalDigits := digitsOf(phonenumbers.Format(num, phonenumbers.NATIONAL))
	e164Digits := digitsOf(phonenumbers.Format(num, phonenumbers.E164))

	// Layer 4: placeholder blacklist, exact match only.
	if _, ok := v.blacklist[nationalDigits]; ok {
		return nil, apperr.Validation("placeholder number")
	}
	if _, ok := v.blacklist[e164Digits]; ok {
		return nil, apperr.Validation("placeholder number")
	}

	// Layer 5: repeating digit runs.
	if longestRepeatRun(nationalDigits) >= v.cfg.MinRepeatRun {
		return nil, apperr.Validation("repeating digit run")
	}

	// Layer 6: sequential digit runs, unless the region is exempt.
	region := phonenumbers.GetRegionCodeForNumber(num)
	if _, exempt := v.exempt[region]; !exempt {
		if longestSequentialRun(nationalDigits) >= v.cfg.MinSequentialRun {
			return nil, apperr.Validation("sequential digit run")
		}
	}

	return num, nil
}

func digitsOf(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// longestRepeatRun returns the length of the longest run of one digit.
func longestRepeatRun(digits string) int {
	longest, run := 0, 0
	for i := 0; i < len(digits); i++ {
		if i > 0 && digits[i] == digits[i-1] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// longestSequentialRun returns the length of the longest run stepping by
// exactly +1 or -1 per position. Repeated digits never count as sequential.
func longestSequentialRun(digits string) int {
	if digits == "" {
		return 0
	}
	longest := 1
	ascending, descending := 1, 1
	for i := 1; i < len(digits); i++ {
		switch int(digits[i]) - int(digits[i-1]) {
		case 1:
			ascending++
			descending = 1
		case -1:
			descending++
			ascending = 1
		default:
			ascending, descending = 1, 1
		}
		if ascending > longest {
			longest = ascending
		}
		if descending > longest {
			longest = descending
		}
	}
	return longest
}
