// Package compare implements the Comparison Engine (C6): SEO metadata diffing,
// direction-aware performance-metric deltas, and mobile-issue-count comparison.
package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/raysh454/siteshift/internal/correspond"
	"github.com/raysh454/siteshift/internal/model"
)

const (
	titleWeight       = 30.0
	descriptionWeight = 25.0
	h1Weight          = 25.0
	canonicalWeight   = 20.0

	matchThreshold              = 0.8
	significantlyChangedBelow   = 0.5
	partiallyChangedBelow       = 0.8
	titleLengthDeltaThreshold   = 20
	descLengthDeltaThreshold    = 30
	perfectMatchScore           = 95.0
)

// SEO compares an old and new page's on-page metadata and produces a weighted diff.
func SEO(oldURL, newURL string, oldPage, newPage *model.PageContent) model.SEOComparison {
	c := model.SEOComparison{OldURL: oldURL, NewURL: newURL, Issues: []string{}}

	var oldTitle, newTitle, oldDesc, newDesc string
	var oldCanonical, newCanonical string
	var oldH1s, newH1s []string
	if oldPage != nil {
		oldTitle, oldDesc, oldCanonical = oldPage.Title, oldPage.Description, oldPage.CanonicalURL
		oldH1s = oldPage.Headings.H1Text
	}
	if newPage != nil {
		newTitle, newDesc, newCanonical = newPage.Title, newPage.Description, newPage.CanonicalURL
		newH1s = newPage.Headings.H1Text
	}

	c.Title = compareTextField(oldTitle, newTitle, "title", titleLengthDeltaThreshold, &c.Issues)
	c.Description = compareTextField(oldDesc, newDesc, "description", descLengthDeltaThreshold, &c.Issues)
	c.H1 = compareH1(oldH1s, newH1s, &c.Issues)
	c.Canonical = compareCanonical(oldCanonical, newCanonical, &c.Issues)

	score := c.Title.Similarity*titleWeight + c.Description.Similarity*descriptionWeight
	score += h1Score(oldH1s, newH1s, c.H1)
	if c.Canonical.Match {
		score += canonicalWeight
	}
	c.MatchScore = math.Round(score*100) / 100
	c.Severity = severityFor(c.MatchScore)

	return c
}

func compareTextField(old, new_, label string, lengthDeltaThreshold int, issues *[]string) model.FieldComparison {
	if old == "" || new_ == "" {
		*issues = append(*issues, "Old/New page missing "+label)
		return model.FieldComparison{Match: false, Similarity: 0}
	}

	sim := correspond.Similarity(strings.ToLower(old), strings.ToLower(new_))
	if abs(len(old)-len(new_)) > lengthDeltaThreshold {
		*issues = append(*issues, label+" length differs significantly")
	}
	switch {
	case sim < significantlyChangedBelow:
		*issues = append(*issues, label+" significantly changed")
	case sim < partiallyChangedBelow:
		*issues = append(*issues, label+" partially changed")
	}
	return model.FieldComparison{Match: sim >= matchThreshold, Similarity: sim}
}

func compareH1(oldH1s, newH1s []string, issues *[]string) model.FieldComparison {
	if len(oldH1s) == 0 {
		*issues = append(*issues, "Missing H1 tag (old)")
	} else if len(oldH1s) > 1 {
		*issues = append(*issues, fmt.Sprintf("Multiple H1 tags found (%d, old)", len(oldH1s)))
	}
	if len(newH1s) == 0 {
		*issues = append(*issues, "Missing H1 tag (new)")
	} else if len(newH1s) > 1 {
		*issues = append(*issues, fmt.Sprintf("Multiple H1 tags found (%d, new)", len(newH1s)))
	}

	if len(oldH1s) == 0 || len(newH1s) == 0 {
		return model.FieldComparison{Match: false, Similarity: 0}
	}

	sim := correspond.Similarity(strings.ToLower(oldH1s[0]), strings.ToLower(newH1s[0]))
	return model.FieldComparison{Match: sim >= matchThreshold, Similarity: sim}
}

func h1Score(oldH1s, newH1s []string, h1 model.FieldComparison) float64 {
	oldValid := len(oldH1s) > 0
	newValid := len(newH1s) > 0
	switch {
	case oldValid && newValid:
		return h1.Similarity * h1Weight
	case oldValid || newValid:
		return 12.5
	default:
		return 0
	}
}

func compareCanonical(old, new_ string, issues *[]string) model.FieldComparison {
	if old == "" || new_ == "" {
		*issues = append(*issues, "missing canonical")
		return model.FieldComparison{Match: false}
	}
	match := strings.TrimSuffix(old, "/") == strings.TrimSuffix(new_, "/")
	return model.FieldComparison{Match: match}
}

func severityFor(score float64) model.Severity {
	switch {
	case score >= 90:
		return model.SeverityNone
	case score >= 75:
		return model.SeverityMinor
	case score >= 50:
		return model.SeverityModerate
	default:
		return model.SeverityMajor
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// SummarizeSEO aggregates a batch of SEOComparison results.
func SummarizeSEO(comparisons []model.SEOComparison) model.SEOSummary {
	summary := model.SEOSummary{Count: len(comparisons), BySeverity: map[model.Severity]int{}}
	if len(comparisons) == 0 {
		return summary
	}
	var total float64
	for _, c := range comparisons {
		total += c.MatchScore
		summary.BySeverity[c.Severity]++
		if c.MatchScore >= perfectMatchScore {
			summary.PerfectMatches++
		}
	}
	summary.AverageScore = math.Round(total/float64(len(comparisons))*100) / 100
	return summary
}
