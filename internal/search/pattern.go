package search

import (
	"regexp"
	"strings"
)

// ExactPattern matches a whole field equal to s.
func ExactPattern(s string) string {
	return "^" + regexp.QuoteMeta(s) + "$"
}

// ContainsPattern matches a field containing s anywhere.
func ContainsPattern(s string) string {
	return regexp.QuoteMeta(s)
}

// PrefixPattern matches a field starting with s.
func PrefixPattern(s string) string {
	return "^" + regexp.QuoteMeta(s)
}

// HasPrefixFold is a case-insensitive strings.HasPrefix.
func HasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}
