// Package correspond implements the Correspondence Resolver (C3): matching old-site
// URLs to their new-site counterparts via direct match, the redirect map, or
// similarity-scored suggestion, plus pattern-rename detection.
package correspond

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

var dmp = diffmatchpatch.New()

// Similarity returns a Levenshtein-based similarity score in [0, 1] between a and b.
// Two empty strings are considered identical (score 1.0).
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	diffs := dmp.DiffMain(a, b, false)
	dist := dmp.DiffLevenshtein(diffs)
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1.0
	}
	return float64(longer-dist) / float64(longer)
}
