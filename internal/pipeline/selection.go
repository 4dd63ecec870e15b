package pipeline

import (
	"net/url"
	"sort"

	"github.com/raysh454/siteshift/internal/model"
)

// SelectPerformancePairs implements the URL selection heuristic for a
// performance/mobile budget of N: root-path pairs first, then analytics-ranked pairs
// (by clicks+impressions descending, deduplicated), then the remaining matched or
// redirected pairs in iteration order, truncated to budget.
func SelectPerformancePairs(matched, redirected []model.MatchedEntry, analytics []model.AnalyticsEntry, budget int) []model.MatchedEntry {
	if budget <= 0 {
		return nil
	}

	all := make([]model.MatchedEntry, 0, len(matched)+len(redirected))
	all = append(all, matched...)
	all = append(all, redirected...)

	analyticsScore := make(map[string]float64, len(analytics))
	for _, a := range analytics {
		analyticsScore[a.URL] = a.Clicks + a.Impressions
	}

	var rootPairs []model.MatchedEntry
	rootSeen := make(map[string]bool)
	for _, pair := range all {
		if pathOf(pair.OldURL) == "/" || pathOf(pair.NewURL) == "/" {
			rootPairs = append(rootPairs, pair)
			rootSeen[pair.OldURL] = true
		}
	}

	var analyticsCandidates []model.MatchedEntry
	for _, pair := range all {
		if rootSeen[pair.OldURL] {
			continue
		}
		if _, ok := analyticsScore[pair.OldURL]; ok {
			analyticsCandidates = append(analyticsCandidates, pair)
		}
	}
	sort.SliceStable(analyticsCandidates, func(i, j int) bool {
		return analyticsScore[analyticsCandidates[i].OldURL] > analyticsScore[analyticsCandidates[j].OldURL]
	})
	analyticsSeen := make(map[string]bool)
	var analyticsPairs []model.MatchedEntry
	for _, p := range analyticsCandidates {
		if analyticsSeen[p.OldURL] {
			continue
		}
		analyticsSeen[p.OldURL] = true
		analyticsPairs = append(analyticsPairs, p)
	}

	var remaining []model.MatchedEntry
	for _, pair := range all {
		if rootSeen[pair.OldURL] || analyticsSeen[pair.OldURL] {
			continue
		}
		remaining = append(remaining, pair)
	}

	ordered := make([]model.MatchedEntry, 0, len(rootPairs)+len(analyticsPairs)+len(remaining))
	ordered = append(ordered, rootPairs...)
	ordered = append(ordered, analyticsPairs...)
	ordered = append(ordered, remaining...)

	if len(ordered) > budget {
		ordered = ordered[:budget]
	}
	return ordered
}

// SelectMobilePairs takes the first min(mobileBudget, len(perfList)) entries of the
// already-ordered performance selection.
func SelectMobilePairs(perfList []model.MatchedEntry, mobileBudget int) []model.MatchedEntry {
	n := mobileBudget
	if n > len(perfList) {
		n = len(perfList)
	}
	if n < 0 {
		n = 0
	}
	return perfList[:n]
}

func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}
