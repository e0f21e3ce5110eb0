package classifier

import (
	"testing"

	"github.com/nyaruka/phonenumbers"
)

func mustParse(t *testing.T, raw, region string) *phonenumbers.PhoneNumber {
	t.Helper()
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return num
}

func TestClassifyPriorityRegion(t *testing.T) {
	c := New([]string{"DE", "AT", "CH"})

	cls, err := c.Classify(mustParse(t, "030 123456", "DE"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.E164 != "+4930123456" {
		t.Fatalf("expected canonical +4930123456, got %q", cls.E164)
	}
	if cls.Region != "DE" {
		t.Fatalf("expected region DE, got %q", cls.Region)
	}
	if !cls.PriorityRegion {
		t.Fatal("expected DE to be a priority region")
	}
}

func TestClassifyNonPriorityRegion(t *testing.T) {
	c := New([]string{"DE", "AT", "CH"})

	cls, err := c.Classify(mustParse(t, "+44 20 7946 0958", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Region != "GB" || cls.PriorityRegion {
		t.Fatalf("expected non-priority GB, got %+v", cls)
	}
}

func TestClassifyIsCaseInsensitiveOnPriorityConfig(t *testing.T) {
	c := New([]string{"de"})

	cls, err := c.Classify(mustParse(t, "+4930123456", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cls.PriorityRegion {
		t.Fatal("priority regions must match regardless of config casing")
	}
}
