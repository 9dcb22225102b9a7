package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims and converts to NFC so that Vietnamese typed with
// composed or decomposed diacritics compares equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NullIfEmpty normalizes s and returns nil when nothing is left.
func NullIfEmpty(s string) *string {
	v := NormalizeText(s)
	if v == "" {
		return nil
	}
	return &v
}
