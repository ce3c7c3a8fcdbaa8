// Package security vets free-text search input before it reaches a LIKE
// clause. Product and user searches both funnel through here.
package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// MaxSearchQueryLength caps accepted search input.
const MaxSearchQueryLength = 100

var (
	// ErrQueryTooLong rejects input over MaxSearchQueryLength bytes.
	ErrQueryTooLong = errors.New("search query too long")
	// ErrQueryInvalid rejects input matching an injection pattern or
	// carrying characters outside the allowed set.
	ErrQueryInvalid = errors.New("search query contains invalid characters")
)

// Punctuation legal in searches beyond letters, digits, and spaces. Covers
// SKUs (KB-MECH-87), emails, and literal wildcard lookups; '%' and '_' are
// escaped by SanitizeSearchString before matching.
const allowedPunct = " -_.@+#*%"

// denylist catches injection probes that survive the character whitelist.
var denylist = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(union|select|insert|update|delete|drop|create|alter|exec|execute)`),
	regexp.MustCompile(`(?i)(or|and)\s+\d+\s*=\s*\d+`),
	regexp.MustCompile(`(?i)(or|and)\s+['"].*['"]\s*=\s*['"].*['"]`),
	regexp.MustCompile(`(--|#|/\*|\*/)`),
	regexp.MustCompile(`(?i)(waitfor|delay|benchmark|sleep)`),
	regexp.MustCompile(`(?i)(<script|</script|javascript:|vbscript:|onload=|onerror=)`),
}

// ValidateSearchQuery returns the trimmed query if it is safe to match
// against, or an error describing why it was rejected.
func ValidateSearchQuery(query string) (string, error) {
	if query == "" {
		return "", nil
	}
	if len(query) > MaxSearchQueryLength {
		return "", ErrQueryTooLong
	}

	query = strings.TrimSpace(query)

	for _, pattern := range denylist {
		if pattern.MatchString(query) {
			return "", ErrQueryInvalid
		}
	}
	for _, r := range query {
		if !isValidSearchChar(r) {
			return "", ErrQueryInvalid
		}
	}

	return query, nil
}

func isValidSearchChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || strings.ContainsRune(allowedPunct, r)
}

// SanitizeSearchString escapes LIKE wildcards and the escape character so a
// vetted query matches literally. Repositories pair it with ESCAPE '\'.
func SanitizeSearchString(query string) string {
	if query == "" {
		return ""
	}

	// Escape the escape character first so wildcard escapes survive.
	query = strings.ReplaceAll(query, `\`, `\\`)
	query = strings.ReplaceAll(query, "%", `\%`)
	query = strings.ReplaceAll(query, "_", `\_`)

	return query
}
