package catalog

import "github.com/agnivade/levenshtein"

// SimilarityRatio scores how close two normalized strings are on a 0-100
// scale. 100 means equal. The measure is symmetric: edit distance scaled by
// the longer input's length.
func SimilarityRatio(a, b string) int {
	if a == b {
		return 100
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 100
	}
	distance := levenshtein.ComputeDistance(a, b)
	if distance >= longest {
		return 0
	}
	return int(float64(longest-distance) / float64(longest) * 100)
}
