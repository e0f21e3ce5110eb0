package textnorm

import "testing"

func TestCleanStringStripsMarkupAndWhitespace(t *testing.T) {
	in := "<p>Call us:</p>\n\t+49 30   123456  "
	got := CleanString(in)
	want := "Call us: +49 30 123456"
	if got != want {
		t.Fatalf("CleanString(%q) = %q, want %q", in, got, want)
	}
}

func TestCleanStringNormalizesFullWidthDigits(t *testing.T) {
	got := CleanString("Tel: ＋４９ ３０ １２３４５６")
	want := "Tel: +49 30 123456"
	if got != want {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestCleanStringDecodesEncodedTags(t *testing.T) {
	got := CleanString("&lt;b&gt;030 123456&lt;/b&gt;")
	if got != "030 123456" {
		t.Fatalf("encoded tags not stripped: %q", got)
	}
}

func TestCleanStringIdempotent(t *testing.T) {
	inputs := []string{
		"<div>+49   30\n123456</div>",
		"plain text",
		"",
	}
	for _, in := range inputs {
		once := CleanString(in)
		if twice := CleanString(once); twice != once {
			t.Errorf("CleanString not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestCleanHandlesInvalidUTF8(t *testing.T) {
	raw := append([]byte("Tel: 030 123456 "), 0xff, 0xfe)
	got := Clean(raw)
	if got == "" {
		t.Fatal("expected text to survive invalid bytes")
	}
	if want := "Tel: 030 123456"; len(got) < len(want) {
		t.Fatalf("cleaned text lost content: %q", got)
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML(`<a href="tel:+4930123456">+49 30 123456</a>`)
	if got != "+49 30 123456" {
		t.Fatalf("StripHTML = %q", got)
	}
}
