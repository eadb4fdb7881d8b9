package fuzzy

import (
	"strings"
)

// LevenshteinDistance calculates the edit distance between two strings
// This measures how many single-character edits (insertions, deletions, or substitutions)
// are required to change one string into another
func LevenshteinDistance(s1, s2 string) int {
	s1 = normalizeString(s1)
	s2 = normalizeString(s2)

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Two rolling rows instead of the full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// Closest returns the candidate nearest to query, if any is within maxDistance.
// Ties go to the earlier candidate.
func Closest(query string, candidates []string, maxDistance int) (string, bool) {
	best := ""
	bestDist := maxDistance + 1
	for _, c := range candidates {
		if d := LevenshteinDistance(query, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist <= maxDistance
}

// Threshold scales typo tolerance with query length
func Threshold(query string) int {
	switch n := len(query); {
	case n <= 3:
		return 1
	case n >= 8:
		return 3
	default:
		return 2
	}
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalizeString lowercases and collapses whitespace
func normalizeString(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}
