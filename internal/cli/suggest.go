package cli

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"quid/internal/model"
)

// SuggestCategory returns the category name closest to input, or ""
// when nothing is within plausible typo distance. Matching is
// case-insensitive, so an exact name in the wrong case still suggests.
func SuggestCategory(input string, categories []model.Category) string {
	target := strings.ToUpper(strings.TrimSpace(input))
	if target == "" {
		return ""
	}

	best := ""
	bestDist := -1
	for _, c := range categories {
		dist := levenshtein.ComputeDistance(target, strings.ToUpper(c.Name))
		if bestDist == -1 || dist < bestDist {
			best, bestDist = c.Name, dist
		}
	}
	if best == "" {
		return ""
	}

	// Category names are short, so allow up to half the name to differ
	maxLen := len(target)
	if len(best) > maxLen {
		maxLen = len(best)
	}
	if float64(bestDist)/float64(maxLen) > 0.5 {
		return ""
	}
	return best
}
