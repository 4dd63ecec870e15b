// Package probe implements the Probe Executor (C4): a bounded-concurrency HTTP
// fetcher that turns a list of URLs into ProbeResult records, with linear-backoff
// retry on transient failures and static content extraction on success.
package probe

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raysh454/siteshift/internal/content"
	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

// Config controls the executor's concurrency, pacing, and retry behavior.
type Config struct {
	Concurrency      int
	DispatchDelayMs  int
	MaxRetries       int
	RetryBaseDelayMs int
}

// DefaultConfig returns the executor's default pacing: 5 concurrent probes, a 50ms
// stagger between dispatches, and up to 2 retries with a 500ms linear backoff.
func DefaultConfig() Config {
	return Config{Concurrency: 5, DispatchDelayMs: 50, MaxRetries: 2, RetryBaseDelayMs: 500}
}

// ProgressFunc is invoked, serially, after each URL completes (success or exhausted
// retries), reporting how many of the total have finished.
type ProgressFunc func(done, total int)

// Executor drives concurrent probing of a URL set through a single WebClient.
type Executor struct {
	client interfaces.WebClient
	logger interfaces.Logger
	cfg    Config
}

func NewExecutor(client interfaces.WebClient, logger interfaces.Logger, cfg Config) *Executor {
	return &Executor{client: client, logger: logger.With(interfaces.Field{Key: "component", Value: "probe_executor"}), cfg: cfg}
}

// ProbeAll fetches every URL in urls, respecting the executor's concurrency cap, and
// returns one ProbeResult per URL in the same order as the input.
func (e *Executor) ProbeAll(ctx context.Context, urls []string, progress ProgressFunc) []model.ProbeResult {
	results := make([]model.ProbeResult, len(urls))
	total := len(urls)

	var progressMu sync.Mutex
	done := 0
	reportDone := func() {
		if progress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		done++
		progress(done, total)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for i, url := range urls {
		i, url := i, url
		if e.cfg.DispatchDelayMs > 0 && i > 0 {
			select {
			case <-time.After(time.Duration(e.cfg.DispatchDelayMs) * time.Millisecond):
			case <-gctx.Done():
			}
		}
		g.Go(func() error {
			results[i] = e.probeWithRetry(gctx, url)
			reportDone()
			return nil
		})
	}
	// errgroup only ever returns non-nil if a goroutine returns an error, which this
	// executor never does: individual probe failures are captured in ProbeResult.Error.
	_ = g.Wait()

	return results
}

// probeWithRetry fetches url, retrying on network failure (status 0) or server errors
// (5xx) with linear backoff. 4xx and successful responses are never retried.
func (e *Executor) probeWithRetry(ctx context.Context, url string) model.ProbeResult {
	attempts := e.cfg.MaxRetries + 1
	var last model.ProbeResult
	for attempt := 1; attempt <= attempts; attempt++ {
		last = e.probeOnce(ctx, url)
		if !shouldRetry(last) {
			return last
		}
		if attempt == attempts {
			break
		}
		backoff := time.Duration(e.cfg.RetryBaseDelayMs*attempt) * time.Millisecond
		e.logger.Warn("retrying probe",
			interfaces.Field{Key: "url", Value: url},
			interfaces.Field{Key: "attempt", Value: attempt},
			interfaces.Field{Key: "backoffMs", Value: backoff.Milliseconds()})
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return last
		}
	}
	return last
}

func shouldRetry(r model.ProbeResult) bool {
	return r.StatusCode == 0 || r.StatusCode >= 500
}

func (e *Executor) probeOnce(ctx context.Context, url string) model.ProbeResult {
	resp, err := e.client.Get(ctx, url)
	result := model.ProbeResult{URL: url, Timestamp: time.Now()}
	if err != nil {
		result.Error = err.Error()
		if resp != nil {
			result.StatusCode = resp.StatusCode
			result.ResponseTimeMs = resp.ResponseTime.Milliseconds()
		}
		return result
	}

	result.StatusCode = resp.StatusCode
	result.StatusText = resp.StatusText
	result.ResponseTimeMs = resp.ResponseTime.Milliseconds()
	result.FinalURL = resp.FinalURL
	result.IsRedirect = len(resp.RedirectChain) > 0
	result.RedirectChain = resp.RedirectChain
	result.ContentType = resp.Headers.Get("Content-Type")
	if cl := resp.Headers.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			result.ContentLength = n
		}
	} else {
		result.ContentLength = int64(len(resp.Body))
	}
	result.Server = resp.Headers.Get("Server")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && len(resp.Body) > 0 {
		if pc, err := content.Extract(resp.FinalURL, resp.Body); err == nil {
			result.Content = pc
		}
	}

	return result
}
