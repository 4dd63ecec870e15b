// Package headless drives a controlled headless browser for the two audits that need
// real rendering: Core Web Vitals performance measurement and per-viewport
// mobile-responsiveness layout checks.
package headless

import "github.com/raysh454/siteshift/internal/model"

// assessVital buckets a single metric value into good/needs-improvement/poor against
// the given thresholds.
func assessVital(value float64, good, needsImprovement float64) model.VitalRating {
	switch {
	case value <= good:
		return model.VitalGood
	case value <= needsImprovement:
		return model.VitalNeedsImprovement
	default:
		return model.VitalPoor
	}
}

// Assess derives the independent per-metric rating for a PerfMetrics sample. FID has
// no first-class field on PerfMetrics (it is superseded by INP in modern Core Web
// Vitals); it is left unrated (empty string) unless a caller supplies it separately.
func Assess(m model.PerfMetrics) model.VitalAssessment {
	return model.VitalAssessment{
		LCP: assessVital(m.LCP, 2500, 4000),
		INP: assessVital(m.INP, 200, 500),
		CLS: assessVital(m.CLS, 0.10, 0.25),
	}
}
