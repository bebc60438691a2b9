// Package normalize provides text normalization for indexing and lookups.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fold canonicalizes text for case-insensitive matching. Unicode is
// NFKC-normalized first so visually identical Korean jamo sequences and
// full-width variants compare equal.
func Fold(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	return strings.ToLower(s)
}

// Email normalizes an email address for unique-index lookups.
func Email(s string) string {
	return Fold(s)
}
