package model

// Severity is the coarse SEO-match bucket derived from the weighted score.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

// FieldComparison is the per-field match/similarity result for one SEO field.
type FieldComparison struct {
	Match      bool    `json:"match"`
	Similarity float64 `json:"similarity"`
}

// SEOComparison is the per-pair SEO diff between an old and new page.
type SEOComparison struct {
	OldURL      string          `json:"oldUrl"`
	NewURL      string          `json:"newUrl"`
	Title       FieldComparison `json:"title"`
	Description FieldComparison `json:"description"`
	H1          FieldComparison `json:"h1"`
	Canonical   FieldComparison `json:"canonical"`
	MatchScore  float64         `json:"matchScore"`
	Severity    Severity        `json:"severity"`
	Issues      []string        `json:"issues"`
}

// SEOSummary aggregates a batch of SEOComparison results.
type SEOSummary struct {
	Count            int     `json:"count"`
	AverageScore     float64 `json:"averageScore"`
	PerfectMatches   int     `json:"perfectMatches"`
	BySeverity       map[Severity]int `json:"bySeverity"`
}
