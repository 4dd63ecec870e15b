package model

import "time"

// ProjectStatus tracks the lifecycle of a migration audit.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectProcessing ProjectStatus = "processing"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectFailed     ProjectStatus = "failed"
)

// StageTag identifies one step of the pipeline. Exactly one is active at a time.
type StageTag string

const (
	StageParsingSitemaps    StageTag = "parsing_sitemaps"
	StageParsingAnalytics   StageTag = "parsing_analytics"
	StageParsingRedirects   StageTag = "parsing_redirects"
	StageComparingURLs      StageTag = "comparing_urls"
	StageCheckingOldURLs    StageTag = "checking_old_urls"
	StageCheckingNewURLs    StageTag = "checking_new_urls"
	StageValidatingSEO      StageTag = "validating_seo"
	StageFinalizing         StageTag = "finalizing"
	StageTestingPerformance StageTag = "testing_performance"
	StageTestingMobile      StageTag = "testing_mobile"
	StageCompleted          StageTag = "completed"
	StageFailed             StageTag = "failed"
)

// stagePercent is the fixed percentage associated with each stage tag.
var stagePercent = map[StageTag]int{
	StageParsingSitemaps:    10,
	StageParsingAnalytics:   25,
	StageParsingRedirects:   35,
	StageComparingURLs:      50,
	StageCheckingOldURLs:    60,
	StageCheckingNewURLs:    75,
	StageValidatingSEO:      85,
	StageFinalizing:         90,
	StageTestingPerformance: 92,
	StageTestingMobile:      96,
	StageCompleted:          100,
}

// PercentFor returns the fixed progress percentage for a stage tag, or -1 if unknown.
func PercentFor(stage StageTag) int {
	if p, ok := stagePercent[stage]; ok {
		return p
	}
	return -1
}

// ProgressRecord is the mutable progress projection of a Project.
type ProgressRecord struct {
	Stage       StageTag   `json:"stage"`
	Percentage  int        `json:"percentage"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// InputFiles bundles the optional uploaded input handles for a Project.
// A zero-value field ("") means the input was not provided (InputMissing, not an error).
type InputFiles struct {
	OldSitemap       string `json:"old_sitemap,omitempty"`
	NewSitemap       string `json:"new_sitemap,omitempty"`
	// OldURLList/NewURLList are a plain-URL-list fallback used when a
	// sitemap is not available for one or both sides.
	OldURLList       string `json:"old_url_list,omitempty"`
	NewURLList       string `json:"new_url_list,omitempty"`
	AnalyticsExport  string `json:"analytics_export,omitempty"`
	RedirectMapInput string `json:"redirect_map,omitempty"`
}

// Project is the top-level, stateful record the pipeline controller drives.
// All fields other than Status, Progress and Results are fixed at creation.
type Project struct {
	ID         string     `json:"id"`
	OldBaseURL string     `json:"old_base_url"`
	NewBaseURL string     `json:"new_base_url"`
	Inputs     InputFiles `json:"inputs"`

	Status   ProjectStatus  `json:"status"`
	Progress ProgressRecord `json:"progress"`
	Results  ResultsRecord  `json:"results"`

	CreatedAt time.Time `json:"created_at"`
}

// IsComplete implements the invariant status=completed iff progress.stage=completed && percentage=100.
func (p *Project) IsComplete() bool {
	return p.Status == ProjectCompleted && p.Progress.Stage == StageCompleted && p.Progress.Percentage == 100
}

// ResultsRecord aggregates the per-stage outputs the controller publishes.
// Fields are optional: a stage that has not run yet leaves its field nil.
type ResultsRecord struct {
	Correspondence  *CorrespondenceReport  `json:"correspondence,omitempty"`
	PatternAnalysis []PatternChange        `json:"pattern_analysis,omitempty"`
	OldURLProbes    []ProbeResult          `json:"old_url_probes,omitempty"`
	NewURLProbes    []ProbeResult          `json:"new_url_probes,omitempty"`
	OldCategories   *ProbeCategorization   `json:"old_categories,omitempty"`
	NewCategories   *ProbeCategorization   `json:"new_categories,omitempty"`
	BrokenLinks     []ProbeResult          `json:"broken_links,omitempty"`
	RedirectReport  *RedirectAnalysis      `json:"redirect_analysis,omitempty"`
	SEOComparisons  []SEOComparison        `json:"seo_comparisons,omitempty"`
	SEOSummary      *SEOSummary            `json:"seo_summary,omitempty"`
	PerfComparisons []PerfComparison       `json:"perf_comparisons,omitempty"`
	PerfSummary     *PerfSummary           `json:"perf_summary,omitempty"`
	MobileResults   []MobileComparisonPair `json:"mobile_results,omitempty"`
}
