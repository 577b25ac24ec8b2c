package parse

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonSlugRe  = regexp.MustCompile(`[^a-z0-9]+`)
	edgeDashRe = regexp.MustCompile(`^-+|-+$`)
)

// Blank reports whether s is empty after trimming.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// OptionalText trims s and maps a blank value to nil.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Email trims and lower-cases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Code normalizes a group or hotel code. Blank yields "".
func Code(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Platform normalizes a device platform tag, e.g. " ios " -> "IOS".
func Platform(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Slug lower-cases s and joins its alphanumeric runs with dashes.
// "Grand Hôtel Paris!" -> "grand-h-tel-paris".
func Slug(s string) string {
	slug := nonSlugRe.ReplaceAllString(strings.ToLower(s), "-")
	return edgeDashRe.ReplaceAllString(slug, "")
}

// CodeCandidate builds the n-th generated code for base, e.g. "acme-007".
func CodeCandidate(base string, n int) string {
	return fmt.Sprintf("%s-%03d", base, n)
}
