package domain

import "strings"

// A city/country pair as entered by a user, before coordinate resolution.
type Location struct {
	City    string
	Country string
}

// Key returns the normalized cache key for this location.
// Whitespace is collapsed and casing removed so "Venlo, Netherlands" and
// " venlo , NETHERLANDS " share one cache slot.
func (l Location) Key() string {
	return normalizePart(l.City) + "|" + normalizePart(l.Country)
}

// IsZero reports whether either component is missing.
func (l Location) IsZero() bool {
	return normalizePart(l.City) == "" || normalizePart(l.Country) == ""
}

func normalizePart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
