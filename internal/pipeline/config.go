// Package pipeline implements the Pipeline Controller (C7): the strictly sequential
// stage graph that drives a single migration-audit Project from its inputs to a
// completed comparison report, checkpointing to the document store after every stage.
package pipeline

import (
	"github.com/raysh454/siteshift/internal/headless"
	"github.com/raysh454/siteshift/internal/probe"
)

// Config bundles every tunable of the stage graph. StatusCheckBudget is
// configurable per an explicit design decision (see DESIGN.md); the
// remaining budgets have fixed defaults tuned for a typical migration audit.
type Config struct {
	StatusCheckBudget   int
	SEOValidationBudget int
	SEOFetchDelayMs     int
	PerformanceBudget   int
	MobileBudget        int
	ScreenshotDir       string

	ProbeConfig probe.Config
	PerfConfig  headless.PerfConfig
}

func DefaultConfig() Config {
	return Config{
		StatusCheckBudget:   100,
		SEOValidationBudget: 20,
		SEOFetchDelayMs:     500,
		PerformanceBudget:   10,
		MobileBudget:        5,
		ScreenshotDir:       "screenshots",
		ProbeConfig:         probe.DefaultConfig(),
		PerfConfig:          headless.DefaultPerfConfig(),
	}
}
