package validator

import (
	"testing"

	"phone_extraction_backend/platform/apperr"
)

func TestValidateAcceptsRealNumbers(t *testing.T) {
	v := New(DefaultConfig("DE"))

	for _, raw := range []string{
		"+49 30 123456",
		"030 123456",
		"+44 20 7946 0958",
		"+49 (0) 30 9876543",
	} {
		if _, err := v.Validate(raw, nil); err != nil {
			t.Errorf("Validate(%q) rejected: %v", raw, err)
		}
	}
}

func TestValidateRejectsUnparseable(t *testing.T) {
	v := New(DefaultConfig("DE"))

	_, err := v.Validate("not a number", nil)
	if err == nil {
		t.Fatal("expected a rejection")
	}
	if apperr.GetKind(err) != apperr.KindParse {
		t.Fatalf("expected parse kind, got %v", apperr.GetKind(err))
	}
}

func TestValidateRejectsImpossibleNumbers(t *testing.T) {
	v := New(DefaultConfig("DE"))

	// Parses fine, but no numbering plan assigns it.
	if _, err := v.Validate("+49 12 34", nil); err == nil {
		t.Fatal("expected a rejection for an unassigned number")
	}
}

func TestValidateMinimumNationalLength(t *testing.T) {
	cfg := DefaultConfig("GB")
	cfg.MinNationalDigits = 11
	v := New(cfg)

	_, err := v.Validate("+44 20 7946 0958", nil)
	if err == nil {
		t.Fatal("expected a rejection below the minimum national length")
	}
	if err.Error() != "national number too short" {
		t.Fatalf("unexpected rejection: %v", err)
	}
}

func TestValidateRejectsPlaceholders(t *testing.T) {
	v := New(DefaultConfig("DE"))

	// 01234 567890 is numbering-plan valid for GB but its national digit
	// string is a classic ascending placeholder.
	_, err := v.Validate("+441234567890", nil)
	if err == nil {
		t.Fatal("expected a placeholder rejection")
	}
	if err.Error() != "placeholder number" {
		t.Fatalf("unexpected rejection: %v", err)
	}
}

func TestValidateRejectsRepeatingRuns(t *testing.T) {
	v := New(DefaultConfig("DE"))

	_, err := v.Validate("+49 171 7777777", nil)
	if err == nil {
		t.Fatal("expected a repeating-run rejection")
	}
	if err.Error() != "repeating digit run" {
		t.Fatalf("unexpected rejection: %v", err)
	}
}

func TestValidateRejectsSequentialRuns(t *testing.T) {
	v := New(DefaultConfig("DE"))

	// US numbers carry no exemption; 345-6789 is a seven digit ascent.
	_, err := v.Validate("+1 212 345 6789", nil)
	if err == nil {
		t.Fatal("expected a sequential-run rejection")
	}
	if err.Error() != "sequential digit run" {
		t.Fatalf("unexpected rejection: %v", err)
	}
}

func TestValidateSequentialExemptRegions(t *testing.T) {
	v := New(DefaultConfig("DE"))

	// German and British plans assign genuinely sequential-looking ranges;
	// these must survive the sequential layer.
	for _, raw := range []string{
		"+49 30 9876543",
		"+44 20 7123 4567",
	} {
		if _, err := v.Validate(raw, nil); err != nil {
			t.Errorf("Validate(%q) rejected: %v", raw, err)
		}
	}
}

func TestValidateSequentialExemptionIsConfigurable(t *testing.T) {
	cfg := DefaultConfig("DE")
	cfg.SequentialExemptRegions = nil
	v := New(cfg)

	if _, err := v.Validate("+49 30 9876543", nil); err == nil {
		t.Fatal("expected a sequential-run rejection without the exemption")
	}
}

func TestLongestRepeatRun(t *testing.T) {
	cases := []struct {
		digits string
		want   int
	}{
		{"", 0},
		{"1", 1},
		{"121212", 1},
		{"112233", 2},
		{"777777", 6},
		{"123555554", 5},
	}
	for _, tc := range cases {
		if got := longestRepeatRun(tc.digits); got != tc.want {
			t.Errorf("longestRepeatRun(%q) = %d, want %d", tc.digits, got, tc.want)
		}
	}
}

func TestLongestSequentialRun(t *testing.T) {
	cases := []struct {
		digits string
		want   int
	}{
		{"", 0},
		{"5", 1},
		{"13579", 1},
		{"12345", 5},
		{"98765", 5},
		{"1234554321", 5},
		{"11111", 1},
		{"321234", 4},
	}
	for _, tc := range cases {
		if got := longestSequentialRun(tc.digits); got != tc.want {
			t.Errorf("longestSequentialRun(%q) = %d, want %d", tc.digits, got, tc.want)
		}
	}
}
