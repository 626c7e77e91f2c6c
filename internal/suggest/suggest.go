// SPDX-License-Identifier: MPL-2.0

// Package suggest finds likely intended names for a mistyped one.
package suggest

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	// DefaultLimit is the number of close matches For returns at most.
	DefaultLimit = 3
	// DefaultCutoff is the minimum similarity ratio For accepts.
	DefaultCutoff = 0.4
)

type match struct {
	name  string
	ratio float64
}

// Ratio returns the similarity of a and b in [0, 1], derived from their Levenshtein
// distance relative to the longer string. Identical strings score 1.
func Ratio(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(longest)
}

// CloseMatches returns up to limit options whose Ratio to query is at least cutoff,
// best first. Ties keep the order of options.
func CloseMatches(query string, options []string, limit int, cutoff float64) []string {
	var matches []match
	for _, opt := range options {
		if r := Ratio(query, opt); r >= cutoff {
			matches = append(matches, match{name: opt, ratio: r})
		}
	}
	slices.SortStableFunc(matches, func(a, b match) int {
		return cmp.Compare(b.ratio, a.ratio)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// Prefixed returns the options that start with query. An empty query matches nothing.
func Prefixed(query string, options []string) []string {
	if query == "" {
		return nil
	}
	var out []string
	for _, opt := range options {
		if strings.HasPrefix(opt, query) {
			out = append(out, opt)
		}
	}
	return out
}

// For returns the close matches of query followed by every option sharing it as a
// prefix, without duplicates.
func For(query string, options []string) []string {
	out := CloseMatches(query, options, DefaultLimit, DefaultCutoff)
	for _, opt := range Prefixed(query, options) {
		if !slices.Contains(out, opt) {
			out = append(out, opt)
		}
	}
	return out
}
