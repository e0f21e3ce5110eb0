// Package textnorm turns raw scraped bytes into clean unicode text suitable
// for phone number scanning. Decoding is best effort and never fails: when the
// charset cannot be determined the input is treated as UTF-8 with replacement.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// multiSpaceRegex collapses runs of whitespace
	multiSpaceRegex = regexp.MustCompile(`[ \t]+`)
)

// Clean decodes raw bytes and normalizes the result in one step.
func Clean(raw []byte) string {
	return CleanString(Decode(raw))
}

// Decode converts raw bytes to a UTF-8 string using detected charset,
// falling back to UTF-8 with replacement runes.
func Decode(raw []byte) string {
	enc, _, _ := charset.DetermineEncoding(raw, "")
	if enc != nil {
		if decoded, err := enc.NewDecoder().Bytes(raw); err == nil {
			return string(decoded)
		}
	}
	return strings.ToValidUTF8(string(raw), "�")
}

// CleanString normalizes already-decoded text: NFKC unicode normalization,
// HTML tag stripping, whitespace collapsing, and control character removal.
// Idempotent; calling it on its own output returns the same string.
func CleanString(s string) string {
	s = norm.NFKC.String(s)
	s = StripHTML(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' {
			b.WriteRune(' ')
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	s = multiSpaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripHTML removes all HTML tags from a string, making it safe for text-only
// scanning. Common entities are decoded and the result re-stripped to catch
// encoded tags.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}
