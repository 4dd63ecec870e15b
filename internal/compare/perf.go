package compare

import (
	"math"
	"net/url"

	"github.com/raysh454/siteshift/internal/model"
)

// lowerIsBetter lists the metrics whose improvement direction is inverted: a smaller
// value is an improvement.
var lowerIsBetter = map[string]bool{
	"lcp": true, "cls": true, "inp": true, "fcp": true,
	"ttfb": true, "tti": true, "tbt": true, "speedIndex": true,
}

// Perf compares an old and new PerfMetrics sample for the same logical page.
func Perf(oldURL, newURL string, old, new_ model.PerfMetrics) model.PerfComparison {
	c := model.PerfComparison{
		OldURL:   oldURL,
		NewURL:   newURL,
		OldScore: old.PerformanceScore,
		NewScore: new_.PerformanceScore,
		Metrics:  map[string]model.MetricDelta{},
	}
	c.ScoreDelta = c.NewScore - c.OldScore
	c.Improved = c.ScoreDelta > 0

	metrics := map[string][2]float64{
		"lcp":        {old.LCP, new_.LCP},
		"cls":        {old.CLS, new_.CLS},
		"inp":        {old.INP, new_.INP},
		"fcp":        {old.FCP, new_.FCP},
		"ttfb":       {old.TTFB, new_.TTFB},
		"tti":        {old.TTI, new_.TTI},
		"tbt":        {old.TBT, new_.TBT},
		"speedIndex": {old.SpeedIndex, new_.SpeedIndex},
	}
	for name, vals := range metrics {
		c.Metrics[name] = metricDelta(name, vals[0], vals[1])
	}
	return c
}

func metricDelta(name string, oldValue, newValue float64) model.MetricDelta {
	pct := improvementPct(name, oldValue, newValue)
	return model.MetricDelta{
		OldValue:       oldValue,
		NewValue:       newValue,
		ImprovementPct: math.Round(pct*100) / 100,
		Label:          labelFor(pct),
	}
}

func improvementPct(name string, oldValue, newValue float64) float64 {
	if oldValue == 0 {
		return 0
	}
	pct := (oldValue - newValue) / oldValue * 100
	if !lowerIsBetter[name] {
		pct = -pct
	}
	return pct
}

func labelFor(pct float64) model.ImprovementLabel {
	switch {
	case pct >= 10:
		return model.ImprovementSignificant
	case pct >= 5:
		return model.ImprovementModerate
	case pct > -5:
		return model.ImprovementMinimal
	case pct > -10:
		return model.RegressionModerate
	default:
		return model.RegressionSignificant
	}
}

// PathAndQuery reduces a URL to the host/scheme-independent key used to pair old and
// new performance/mobile results.
func PathAndQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.RawQuery == "" {
		return u.Path
	}
	return u.Path + "?" + u.RawQuery
}

// SummarizePerf aggregates a batch of PerfComparison results into a batch
// classification by scoreDelta, plus per-vital improved counts and percentages.
func SummarizePerf(comparisons []model.PerfComparison) model.PerfSummary {
	summary := model.PerfSummary{
		Count:                len(comparisons),
		Classification:       map[model.PerfClassification]int{},
		VitalImprovedCounts:  map[string]int{},
		VitalImprovedPercent: map[string]float64{},
	}
	if len(comparisons) == 0 {
		return summary
	}

	var totalOld, totalNew, totalDelta float64
	vitalKeys := []string{"lcp", "cls", "inp"}
	for _, c := range comparisons {
		totalOld += float64(c.OldScore)
		totalNew += float64(c.NewScore)
		totalDelta += float64(c.ScoreDelta)

		switch {
		case c.ScoreDelta > 5:
			summary.Classification[model.PerfImproved]++
		case c.ScoreDelta < -5:
			summary.Classification[model.PerfRegressed]++
		default:
			summary.Classification[model.PerfUnchanged]++
		}

		for _, key := range vitalKeys {
			if delta, ok := c.Metrics[key]; ok && delta.ImprovementPct > 0 {
				summary.VitalImprovedCounts[key]++
			}
		}
	}

	n := float64(len(comparisons))
	summary.AverageOldScore = math.Round(totalOld/n*100) / 100
	summary.AverageNewScore = math.Round(totalNew/n*100) / 100
	summary.AverageScoreDelta = math.Round(totalDelta/n*100) / 100
	for _, key := range vitalKeys {
		summary.VitalImprovedPercent[key] = math.Round(float64(summary.VitalImprovedCounts[key])/n*10000) / 100
	}
	return summary
}
