package headless

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

// waitNetworkIdle returns a channel that closes once no more than maxInFlight
// requests have been outstanding for idleAfter, mirroring the quiescence contract
// the plain-HTTP-vs-headless backends share.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration, maxInFlight int32) chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	fire := func() {
		once.Do(func() { close(idleChan) })
	}

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) <= maxInFlight {
				fire()
			}
		})
	}

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&activeReqs, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if n := atomic.AddInt32(&activeReqs, -1); n <= maxInFlight {
				startTimer()
			}
		}
	})

	startTimer()
	return idleChan
}

// vitalsCollectorScript is injected before every navigation. It buffers the Web
// Vitals PerformanceObserver entries the page produces so they can be read back once
// the network has gone quiet, since LCP/CLS/INP are only final once the page is
// interactive and idle.
const vitalsCollectorScript = `
window.__vitals = { lcp: 0, cls: 0, inp: 0 };
try {
  new PerformanceObserver((list) => {
    const entries = list.getEntries();
    const last = entries[entries.length - 1];
    if (last) window.__vitals.lcp = last.renderTime || last.loadTime || 0;
  }).observe({ type: 'largest-contentful-paint', buffered: true });
} catch (e) {}
try {
  new PerformanceObserver((list) => {
    for (const entry of list.getEntries()) {
      if (!entry.hadRecentInput) window.__vitals.cls += entry.value;
    }
  }).observe({ type: 'layout-shift', buffered: true });
} catch (e) {}
try {
  new PerformanceObserver((list) => {
    for (const entry of list.getEntries()) {
      const duration = entry.processingEnd - entry.startTime;
      if (duration > window.__vitals.inp) window.__vitals.inp = duration;
    }
  }).observe({ type: 'event', buffered: true, durationThreshold: 40 });
} catch (e) {}
`

// vitalsReadoutScript combines the buffered PerformanceObserver output with the
// Navigation and Resource Timing APIs into a single PerfMetrics-shaped object.
const vitalsReadoutScript = `
(() => {
  const nav = performance.getEntriesByType('navigation')[0] || {};
  const paint = performance.getEntriesByType('paint');
  const fcpEntry = paint.find(p => p.name === 'first-contentful-paint');
  const resources = performance.getEntriesByType('resource');
  let totalBytes = 0;
  for (const r of resources) totalBytes += (r.transferSize || 0);
  return {
    lcp: window.__vitals ? window.__vitals.lcp : 0,
    cls: window.__vitals ? window.__vitals.cls : 0,
    inp: window.__vitals ? window.__vitals.inp : 0,
    fcp: fcpEntry ? fcpEntry.startTime : 0,
    ttfb: nav.responseStart || 0,
    tti: nav.domInteractive || 0,
    speedIndex: nav.loadEventEnd || 0,
    totalBytes: totalBytes,
    requestCount: resources.length + 1,
  };
})()
`

type vitalsReadout struct {
	LCP          float64 `json:"lcp"`
	CLS          float64 `json:"cls"`
	INP          float64 `json:"inp"`
	FCP          float64 `json:"fcp"`
	TTFB         float64 `json:"ttfb"`
	TTI          float64 `json:"tti"`
	SpeedIndex   float64 `json:"speedIndex"`
	TotalBytes   int64   `json:"totalBytes"`
	RequestCount int     `json:"requestCount"`
}

// PerfConfig controls the performance auditor's pacing and per-navigation budget.
type PerfConfig struct {
	DelayMs        int
	NavCapMs       int
	NetworkIdleMs  int
}

func DefaultPerfConfig() PerfConfig {
	return PerfConfig{DelayMs: 2000, NavCapMs: 30000, NetworkIdleMs: 500}
}

// Auditor drives one shared headless browser instance across a sequence of
// performance and mobile audits. Navigations are always serial: one browser
// can only render one page at a time without cross-navigation interference.
type Auditor struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	perfCfg     PerfConfig
	logger      interfaces.Logger
}

func NewAuditor(perfCfg PerfConfig, logger interfaces.Logger) *Auditor {
	opts := append([]chromedp.ExecAllocatorOption{},
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Auditor{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		perfCfg:     perfCfg,
		logger:      logger.With(interfaces.Field{Key: "component", Value: "headless_auditor"}),
	}
}

// Close tears down the shared browser instance. Callers must run this on every
// exit path, success or failure.
func (a *Auditor) Close() error {
	a.allocCancel()
	return nil
}

// MeasurePerformance navigates to url in a fresh tab, waits for network quiescence
// (capped at NavCapMs), and returns Core Web Vitals plus ancillary timings.
func (a *Auditor) MeasurePerformance(ctx context.Context, url string) (model.PerfMetrics, error) {
	tabCtx, tabCancel := chromedp.NewContext(a.allocCtx)
	defer tabCancel()

	navCap := time.Duration(a.perfCfg.NavCapMs) * time.Millisecond
	if navCap <= 0 {
		navCap = 30 * time.Second
	}
	navCtx, navCancel := context.WithTimeout(tabCtx, navCap)
	defer navCancel()

	idleAfter := time.Duration(a.perfCfg.NetworkIdleMs) * time.Millisecond
	if idleAfter <= 0 {
		idleAfter = 500 * time.Millisecond
	}
	idleChan := waitNetworkIdle(navCtx, idleAfter, 2)

	if err := chromedp.Run(navCtx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(vitalsCollectorScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(url),
	); err != nil {
		return model.PerfMetrics{}, err
	}

	select {
	case <-idleChan:
	case <-navCtx.Done():
	}

	var raw string
	if err := chromedp.Run(navCtx, chromedp.Evaluate(
		"JSON.stringify("+vitalsReadoutScript+")", &raw,
	)); err != nil {
		return model.PerfMetrics{}, err
	}

	var readout vitalsReadout
	if err := json.Unmarshal([]byte(raw), &readout); err != nil {
		return model.PerfMetrics{}, err
	}

	metrics := model.PerfMetrics{
		LCP:          readout.LCP,
		CLS:          readout.CLS,
		INP:          readout.INP,
		FCP:          readout.FCP,
		TTFB:         readout.TTFB,
		TTI:          readout.TTI,
		SpeedIndex:   readout.SpeedIndex,
		TotalBytes:   readout.TotalBytes,
		RequestCount: readout.RequestCount,
	}
	metrics.PerformanceScore = scoreFromVitals(metrics)
	return metrics, nil
}

// scoreFromVitals derives a coarse 0-100 composite score from the vital ratings,
// weighting LCP heaviest since it dominates perceived load speed.
func scoreFromVitals(m model.PerfMetrics) int {
	weights := map[model.VitalRating]int{model.VitalGood: 100, model.VitalNeedsImprovement: 60, model.VitalPoor: 20}
	assessment := Assess(m)
	total := weights[assessment.LCP]*5 + weights[assessment.INP]*3 + weights[assessment.CLS]*2
	return total / 10
}

// PerfProgressFunc reports serial performance-audit progress.
type PerfProgressFunc func(done, total int)

// MeasureAll runs MeasurePerformance across urls in order, sleeping DelayMs between
// navigations to avoid thermal/CPU contention on the shared browser.
func (a *Auditor) MeasureAll(ctx context.Context, urls []string, progress PerfProgressFunc) map[string]model.PerfMetrics {
	out := make(map[string]model.PerfMetrics, len(urls))
	for i, url := range urls {
		if i > 0 && a.perfCfg.DelayMs > 0 {
			select {
			case <-time.After(time.Duration(a.perfCfg.DelayMs) * time.Millisecond):
			case <-ctx.Done():
				return out
			}
		}
		metrics, err := a.MeasurePerformance(ctx, url)
		if err != nil {
			a.logger.Warn("performance audit failed",
				interfaces.Field{Key: "url", Value: url},
				interfaces.Field{Key: "error", Value: err.Error()})
		} else {
			out[url] = metrics
		}
		if progress != nil {
			progress(i+1, len(urls))
		}
	}
	return out
}
