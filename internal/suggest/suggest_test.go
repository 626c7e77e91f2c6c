// SPDX-License-Identifier: MPL-2.0

package suggest

import (
	"math"
	"slices"
	"testing"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abc", "abd", 1 - 1.0/3},
		{"abc", "", 0},
		{"kitten", "sitting", 1 - 3.0/7},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()

			if got := Ratio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFor(t *testing.T) {
	t.Parallel()

	options := []string{"deploy", "deployment_tools", "docs", "system", "test"}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "typo", query: "deplyo", want: []string{"deploy"}},
		{name: "prefix match added", query: "deploy", want: []string{"deploy", "deployment_tools"}},
		{name: "short prefix", query: "d", want: []string{"deploy", "deployment_tools", "docs"}},
		{name: "nothing close", query: "zzzzzzzz", want: nil},
		{name: "empty query", query: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := For(tt.query, options)
			if !slices.Equal(got, tt.want) {
				t.Errorf("For(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestCloseMatchesLimit(t *testing.T) {
	t.Parallel()

	got := CloseMatches("aaaa", []string{"aaab", "aaac", "aaad", "aaae"}, 2, 0.5)
	if !slices.Equal(got, []string{"aaab", "aaac"}) {
		t.Errorf("CloseMatches() = %v", got)
	}
}
