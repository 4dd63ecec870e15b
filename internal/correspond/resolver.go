package correspond

import (
	"math"
	"net/url"
	"sort"

	"github.com/raysh454/siteshift/internal/model"
	"github.com/raysh454/siteshift/internal/urlnorm"
)

// suggestionThreshold is the minimum path-only similarity score at which a missing
// old URL is annotated with a best-guess new-site suggestion.
const suggestionThreshold = 0.5

// Resolve classifies every old-site URL and every new-site URL into matched,
// redirected, missing, and new-only sets, matching on host-independent path+query
// equality (a migration changes host by definition) and the supplied redirect map
// for explicit renames.
func Resolve(oldURLs, newURLs []string, redirects model.RedirectMap) model.CorrespondenceReport {
	newByPath := make(map[string]string, len(newURLs))
	for _, u := range newURLs {
		newByPath[urlnorm.PathKey(u)] = u
	}
	matchedNew := make(map[string]bool, len(newURLs))

	var matched []model.MatchedEntry
	var redirected []model.MatchedEntry
	var missing []model.MissingEntry

	for _, oldURL := range oldURLs {
		key := urlnorm.PathKey(oldURL)

		if newURL, ok := newByPath[key]; ok {
			matched = append(matched, model.MatchedEntry{OldURL: oldURL, NewURL: newURL, MatchType: model.MatchDirect})
			matchedNew[newURL] = true
			continue
		}

		if target, ok := redirects[oldURL]; ok {
			redirected = append(redirected, model.MatchedEntry{OldURL: oldURL, NewURL: target, MatchType: model.MatchMapped})
			if actual, ok := newByPath[urlnorm.PathKey(target)]; ok {
				matchedNew[actual] = true
			}
			continue
		}

		suggestion := bestSuggestion(oldURL, newURLs)
		missing = append(missing, model.MissingEntry{OldURL: oldURL, Suggestion: suggestion})
	}

	var newOnly []model.NewOnlyEntry
	for _, u := range newURLs {
		if !matchedNew[u] {
			newOnly = append(newOnly, model.NewOnlyEntry{NewURL: u, Type: model.NewOnlyType})
		}
	}

	summary := model.CorrespondenceSummary{
		MatchedCount:    len(matched),
		RedirectedCount: len(redirected),
		MissingCount:    len(missing),
		NewOnlyCount:    len(newOnly),
	}
	total := len(oldURLs)
	if total > 0 {
		resolved := len(matched) + len(redirected)
		summary.MatchRate = math.Round(float64(resolved)/float64(total)*100) / 100
	}

	return model.CorrespondenceReport{
		Matched:   matched,
		Redirected: redirected,
		Missing:   missing,
		NewOnly:   newOnly,
		Summary:   summary,
	}
}

// bestSuggestion finds the new URL whose path most resembles oldURL's path, returning
// nil if no candidate clears suggestionThreshold (path-only comparison,
// not full-URL, since scheme/host differ by construction across a migration).
func bestSuggestion(oldURL string, newURLs []string) *string {
	oldPath := pathOf(oldURL)

	type candidate struct {
		url   string
		score float64
	}
	var candidates []candidate
	for _, newURL := range newURLs {
		score := Similarity(oldPath, pathOf(newURL))
		if score > suggestionThreshold {
			candidates = append(candidates, candidate{url: newURL, score: score})
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	best := candidates[0].url
	return &best
}

func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}
