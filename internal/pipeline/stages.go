package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/raysh454/siteshift/internal/compare"
	"github.com/raysh454/siteshift/internal/correspond"
	"github.com/raysh454/siteshift/internal/inputs"
	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
	"github.com/raysh454/siteshift/internal/probe"
)

// runState carries the working data a Run call threads between stages. None of it is
// persisted directly; only what each stage folds into project.Results survives a
// checkpoint (the raw URL lists have no home in the Project record and never
// need to outlive a single Run call).
type runState struct {
	oldURLs   []string
	newURLs   []string
	analytics []model.AnalyticsEntry
	redirects model.RedirectMap

	perfSelection []model.MatchedEntry
}

func (c *Controller) stageParsingSitemaps(ctx context.Context, project *model.Project, st *runState) error {
	old, err := c.readURLSet(ctx, project.Inputs.OldSitemap, project.Inputs.OldURLList)
	if err != nil {
		return err
	}
	new_, err := c.readURLSet(ctx, project.Inputs.NewSitemap, project.Inputs.NewURLList)
	if err != nil {
		return err
	}
	st.oldURLs = old
	st.newURLs = new_
	return nil
}

// readURLSet parses a sitemap handle if present, falling back to a plain URL list.
// Both absent is InputMissing: not an error, just an empty set.
func (c *Controller) readURLSet(ctx context.Context, sitemapHandle, urlListHandle string) ([]string, error) {
	switch {
	case sitemapHandle != "":
		entries, err := c.sitemapParser.Parse(ctx, sitemapHandle)
		if err != nil {
			return nil, err
		}
		return dedupeStrings(inputs.URLs(entries)), nil
	case urlListHandle != "":
		urls, err := c.urlListParser.Parse(ctx, urlListHandle)
		if err != nil {
			return nil, err
		}
		return urls, nil
	default:
		return nil, nil
	}
}

func (c *Controller) stageParsingAnalytics(ctx context.Context, project *model.Project, st *runState) error {
	if project.Inputs.AnalyticsExport == "" {
		return nil
	}
	entries, err := c.analyticsParser.Parse(ctx, project.Inputs.AnalyticsExport)
	if err != nil {
		return err
	}
	st.analytics = entries

	seen := make(map[string]bool, len(st.oldURLs))
	for _, u := range st.oldURLs {
		seen[u] = true
	}
	for _, e := range entries {
		if !seen[e.URL] {
			seen[e.URL] = true
			st.oldURLs = append(st.oldURLs, e.URL)
		}
	}
	return nil
}

func (c *Controller) stageParsingRedirects(ctx context.Context, project *model.Project, st *runState) error {
	if project.Inputs.RedirectMapInput == "" {
		st.redirects = model.RedirectMap{}
		return nil
	}
	redirects, err := c.redirectParser.Parse(ctx, project.Inputs.RedirectMapInput)
	if err != nil {
		return err
	}
	st.redirects = redirects
	return nil
}

func (c *Controller) stageComparingURLs(ctx context.Context, project *model.Project, st *runState) error {
	report := correspond.Resolve(st.oldURLs, st.newURLs, st.redirects)
	patterns := correspond.DetectPatterns(report.Missing, report.NewOnly)
	project.Results.Correspondence = &report
	project.Results.PatternAnalysis = patterns
	return nil
}

func (c *Controller) stageCheckingOldURLs(ctx context.Context, project *model.Project, st *runState) error {
	urls := truncate(st.oldURLs, c.cfg.StatusCheckBudget)
	results := c.oldExecutor.ProbeAll(ctx, urls, nil)
	categorization := probe.Categorize(results)
	project.Results.OldURLProbes = results
	project.Results.OldCategories = &categorization
	return nil
}

func (c *Controller) stageCheckingNewURLs(ctx context.Context, project *model.Project, st *runState) error {
	urls := truncate(st.newURLs, c.cfg.StatusCheckBudget)
	results := c.newExecutor.ProbeAll(ctx, urls, nil)
	categorization := probe.Categorize(results)
	project.Results.NewURLProbes = results
	project.Results.NewCategories = &categorization
	return nil
}

func (c *Controller) stageValidatingSEO(ctx context.Context, project *model.Project, st *runState) error {
	if project.Results.Correspondence == nil {
		return fmt.Errorf("pipeline: validating_seo ran before comparing_urls")
	}
	pairs := append([]model.MatchedEntry{}, project.Results.Correspondence.Matched...)
	pairs = append(pairs, project.Results.Correspondence.Redirected...)
	if len(pairs) > c.cfg.SEOValidationBudget {
		pairs = pairs[:c.cfg.SEOValidationBudget]
	}

	comparisons := make([]model.SEOComparison, 0, len(pairs))
	for i, pair := range pairs {
		if i > 0 {
			sleep(ctx, time.Duration(c.cfg.SEOFetchDelayMs)*time.Millisecond)
		}
		oldContent := c.fetchContent(ctx, c.oldExecutor, pair.OldURL)
		newContent := c.fetchContent(ctx, c.newExecutor, pair.NewURL)
		comparisons = append(comparisons, compare.SEO(pair.OldURL, pair.NewURL, oldContent, newContent))
	}

	summary := compare.SummarizeSEO(comparisons)
	project.Results.SEOComparisons = comparisons
	project.Results.SEOSummary = &summary
	return nil
}

// fetchContent probes a single URL for its rendered content, logging and returning nil
// on failure — a RenderFailure/TransportFailure here never aborts the SEO validation stage.
func (c *Controller) fetchContent(ctx context.Context, executor *probe.Executor, url string) *model.PageContent {
	results := executor.ProbeAll(ctx, []string{url}, nil)
	if len(results) == 0 || results[0].Content == nil {
		c.logger.Warn("no page content extracted for SEO validation",
			interfaces.Field{Key: "url", Value: url})
		return nil
	}
	return results[0].Content
}

func (c *Controller) stageFinalizing(ctx context.Context, project *model.Project, st *runState) error {
	all := append([]model.ProbeResult{}, project.Results.OldURLProbes...)
	all = append(all, project.Results.NewURLProbes...)

	broken := probe.BrokenLinks(all)
	brokenResults := make([]model.ProbeResult, 0, len(broken))
	brokenSet := make(map[string]bool, len(broken))
	for _, u := range broken {
		brokenSet[u] = true
	}
	for _, r := range all {
		if brokenSet[r.URL] {
			brokenResults = append(brokenResults, r)
		}
	}
	redirectAnalysis := probe.AnalyzeRedirects(all)

	project.Results.BrokenLinks = brokenResults
	project.Results.RedirectReport = &redirectAnalysis

	if project.Results.Correspondence != nil {
		st.perfSelection = selectionPairs(project.Results.Correspondence, st.analytics, c.cfg.PerformanceBudget)
	}
	return nil
}

func (c *Controller) stageTestingPerformance(ctx context.Context, project *model.Project, st *runState) error {
	if len(st.perfSelection) == 0 {
		return nil
	}

	comparisons := make([]model.PerfComparison, 0, len(st.perfSelection))
	for i, pair := range st.perfSelection {
		if i > 0 {
			sleep(ctx, time.Duration(c.cfg.PerfConfig.DelayMs)*time.Millisecond)
		}
		oldMetrics, err := c.auditor.MeasurePerformance(ctx, pair.OldURL)
		if err != nil {
			c.logger.Warn("performance audit failed for old URL, skipping pair",
				interfaces.Field{Key: "url", Value: pair.OldURL}, interfaces.Field{Key: "error", Value: err.Error()})
			continue
		}
		newMetrics, err := c.auditor.MeasurePerformance(ctx, pair.NewURL)
		if err != nil {
			c.logger.Warn("performance audit failed for new URL, skipping pair",
				interfaces.Field{Key: "url", Value: pair.NewURL}, interfaces.Field{Key: "error", Value: err.Error()})
			continue
		}
		comparisons = append(comparisons, compare.Perf(pair.OldURL, pair.NewURL, oldMetrics, newMetrics))
	}

	summary := compare.SummarizePerf(comparisons)
	project.Results.PerfComparisons = comparisons
	project.Results.PerfSummary = &summary
	return nil
}

func (c *Controller) stageTestingMobile(ctx context.Context, project *model.Project, st *runState) error {
	mobilePairs := selectMobile(st.perfSelection, c.cfg.MobileBudget)
	if len(mobilePairs) == 0 {
		return nil
	}

	results := make([]model.MobileComparisonPair, 0, len(mobilePairs))
	for _, pair := range mobilePairs {
		oldDir := screenshotSideDir(c.cfg.ScreenshotDir, project.ID, "old")
		newDir := screenshotSideDir(c.cfg.ScreenshotDir, project.ID, "new")
		oldResult := c.auditor.AuditMobile(ctx, pair.OldURL, oldDir)
		newResult := c.auditor.AuditMobile(ctx, pair.NewURL, newDir)
		results = append(results, compare.Mobile(pair.OldURL, pair.NewURL, &oldResult, &newResult))
	}

	project.Results.MobileResults = results
	return nil
}

// screenshotSideDir builds <screenshotDir>/<projectId>/<side>/ layout.
func screenshotSideDir(baseDir, projectID, side string) string {
	return filepath.Join(baseDir, projectID, side)
}

func truncate(urls []string, n int) []string {
	if n < 0 || n > len(urls) {
		return urls
	}
	return urls[:n]
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func selectionPairs(report *model.CorrespondenceReport, analytics []model.AnalyticsEntry, budget int) []model.MatchedEntry {
	return SelectPerformancePairs(report.Matched, report.Redirected, analytics, budget)
}

func selectMobile(perfList []model.MatchedEntry, budget int) []model.MatchedEntry {
	return SelectMobilePairs(perfList, budget)
}

// sleep is a context-aware delay; it returns early if ctx is canceled.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
