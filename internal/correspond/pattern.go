package correspond

import (
	"strings"

	"github.com/raysh454/siteshift/internal/model"
)

// patternSimilarityThreshold is the minimum prefix-similarity score for two path
// prefixes to be reported as a candidate rename pattern.
const patternSimilarityThreshold = 0.6

// DetectPatterns groups missing old URLs and new-only URLs by their first path
// segment and reports prefix pairs that look like a bulk rename (e.g. /blog/* ->
// /blogs/*) rather than unrelated one-off content changes. Only prefixes whose
// string similarity exceeds patternSimilarityThreshold are paired, so a rename to
// an unrelated word (/blog -> /articles) is not reported.
func DetectPatterns(missing []model.MissingEntry, newOnly []model.NewOnlyEntry) []model.PatternChange {
	oldPrefixCounts := make(map[string]int)
	for _, m := range missing {
		oldPrefixCounts[firstSegment(m.OldURL)]++
	}
	newPrefixCounts := make(map[string]int)
	for _, n := range newOnly {
		newPrefixCounts[firstSegment(n.NewURL)]++
	}

	var out []model.PatternChange
	for oldPrefix, oldCount := range oldPrefixCounts {
		if oldPrefix == "" {
			continue
		}
		var bestPrefix string
		var bestScore float64
		for newPrefix := range newPrefixCounts {
			if newPrefix == "" || newPrefix == oldPrefix {
				continue
			}
			score := Similarity(oldPrefix, newPrefix)
			if score > bestScore {
				bestScore = score
				bestPrefix = newPrefix
			}
		}
		if bestPrefix != "" && bestScore > patternSimilarityThreshold {
			out = append(out, model.PatternChange{
				OldPattern: oldPrefix,
				NewPattern: bestPrefix,
				OldCount:   oldCount,
				NewCount:   newPrefixCounts[bestPrefix],
				Confidence: bestScore,
			})
		}
	}
	return out
}

func firstSegment(rawURL string) string {
	path := pathOf(rawURL)
	path = strings.Trim(path, "/")
	if path == "" {
		return ""
	}
	parts := strings.SplitN(path, "/", 2)
	return "/" + parts[0]
}
