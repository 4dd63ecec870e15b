package headless

import (
	"testing"

	"github.com/raysh454/siteshift/internal/model"
)

func TestAssess_Thresholds(t *testing.T) {
	cases := []struct {
		name string
		m    model.PerfMetrics
		want model.VitalAssessment
	}{
		{"all good", model.PerfMetrics{LCP: 1000, INP: 100, CLS: 0.05},
			model.VitalAssessment{LCP: model.VitalGood, INP: model.VitalGood, CLS: model.VitalGood}},
		{"all needs improvement", model.PerfMetrics{LCP: 3000, INP: 300, CLS: 0.2},
			model.VitalAssessment{LCP: model.VitalNeedsImprovement, INP: model.VitalNeedsImprovement, CLS: model.VitalNeedsImprovement}},
		{"all poor", model.PerfMetrics{LCP: 5000, INP: 600, CLS: 0.3},
			model.VitalAssessment{LCP: model.VitalPoor, INP: model.VitalPoor, CLS: model.VitalPoor}},
		{"boundary values are good", model.PerfMetrics{LCP: 2500, INP: 200, CLS: 0.10},
			model.VitalAssessment{LCP: model.VitalGood, INP: model.VitalGood, CLS: model.VitalGood}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Assess(c.m)
			if got != c.want {
				t.Errorf("Assess(%+v) = %+v, want %+v", c.m, got, c.want)
			}
		})
	}
}

func TestScoreFromVitals_GoodScoresHigherThanPoor(t *testing.T) {
	good := scoreFromVitals(model.PerfMetrics{LCP: 1000, INP: 100, CLS: 0.05})
	poor := scoreFromVitals(model.PerfMetrics{LCP: 6000, INP: 700, CLS: 0.4})
	if good <= poor {
		t.Fatalf("expected good metrics to score higher: good=%d poor=%d", good, poor)
	}
	if good < 0 || good > 100 || poor < 0 || poor > 100 {
		t.Errorf("scores out of [0,100] range: good=%d poor=%d", good, poor)
	}
}
