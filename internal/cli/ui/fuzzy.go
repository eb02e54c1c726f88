package ui

import (
	"sort"
	"strings"
)

const (
	// maxDistance is the maximum edit distance to consider for fuzzy matching
	maxDistance = 3
	// maxSuggestions is the maximum number of suggestions to return
	maxSuggestions = 3
)

// suggestion represents a fuzzy match result with its edit distance
type suggestion struct {
	value    string
	distance int
}

// FindSimilar finds directive names similar to the target using
// Levenshtein distance, closest first. Used to answer "did you mean"
// for unknown directive names.
//
// Example:
//
//	candidates := []string{"Reasoning", "Tone", "Concise"}
//	FindSimilar("Reasonin", candidates)
//	// Returns: ["Reasoning"]
func FindSimilar(target string, candidates []string) []string {
	var suggestions []suggestion

	for _, candidate := range candidates {
		dist := levenshtein(strings.ToLower(target), strings.ToLower(candidate))
		if dist <= maxDistance {
			suggestions = append(suggestions, suggestion{value: candidate, distance: dist})
		}
	}

	// Sort by distance (closest first)
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].distance < suggestions[j].distance
	})

	result := make([]string, 0, maxSuggestions)
	for i := 0; i < len(suggestions) && i < maxSuggestions; i++ {
		result = append(result, suggestions[i].value)
	}
	return result
}

// levenshtein computes the edit distance between two strings
func levenshtein(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = minOf(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

// minOf returns the minimum of three integers
func minOf(a, b, c int) int {
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
