// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// Dedupe removes repeated values while keeping the position of the first
// occurrence of each one.
//
// Example:
//
//	Dedupe([]string{"+", "-", "+"})
//	// Returns: []string{"+", "-"}
func Dedupe[T comparable](values []T) []T {
	if len(values) == 0 {
		return values
	}

	seen := make(map[T]struct{}, len(values))
	result := make([]T, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

// DedupeLower trims and lowercases each element, drops empties and keeps the
// first occurrence of each remaining value. Order is preserved.
//
// Example:
//
//	DedupeLower([]string{"  Hossain ", "1984", "hossain", ""})
//	// Returns: []string{"hossain", "1984"}
func DedupeLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	normalized := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		normalized = append(normalized, v)
	}

	return Dedupe(normalized)
}
