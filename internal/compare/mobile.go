package compare

import "github.com/raysh454/siteshift/internal/model"

// Mobile compares an old and new MobileTestResult for the same logical page.
// Fewer overallIssues on the new side is an improvement.
func Mobile(oldURL, newURL string, old, new_ *model.MobileTestResult) model.MobileComparisonPair {
	pair := model.MobileComparisonPair{OldURL: oldURL, NewURL: newURL, Old: old, New: new_}

	var oldIssues, newIssues []string
	if old != nil {
		oldIssues = old.OverallIssues
	}
	if new_ != nil {
		newIssues = new_.OverallIssues
	}

	switch {
	case len(newIssues) < len(oldIssues):
		pair.Classification = model.PerfImproved
	case len(newIssues) > len(oldIssues):
		pair.Classification = model.PerfRegressed
	default:
		pair.Classification = model.PerfUnchanged
	}

	pair.CommonIssues = intersect(oldIssues, newIssues)
	return pair
}

func intersect(a, b []string) []string {
	inA := make(map[string]bool, len(a))
	for _, s := range a {
		inA[s] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, s := range b {
		if inA[s] && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
