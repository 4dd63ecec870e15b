package probe

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

type scriptedClient struct {
	responses map[string][]scriptedResponse
	calls     map[string]*int32
}

type scriptedResponse struct {
	status int
	err    error
}

func newScriptedClient() *scriptedClient {
	return &scriptedClient{responses: map[string][]scriptedResponse{}, calls: map[string]*int32{}}
}

func (c *scriptedClient) script(url string, responses ...scriptedResponse) {
	c.responses[url] = responses
	var n int32
	c.calls[url] = &n
}

func (c *scriptedClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	return c.Get(ctx, req.URL)
}

func (c *scriptedClient) Get(ctx context.Context, url string) (*model.Response, error) {
	seq := c.responses[url]
	idx := atomic.AddInt32(c.calls[url], 1) - 1
	if int(idx) >= len(seq) {
		idx = int32(len(seq) - 1)
	}
	r := seq[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &model.Response{
		StatusCode: r.status,
		Headers:    http.Header{},
		FinalURL:   url,
	}, nil
}

func (c *scriptedClient) Close() error { return nil }

func testLogger() interfaces.Logger { return interfaces.NewTestLogger(false) }

func TestExecutor_SuccessNoRetry(t *testing.T) {
	client := newScriptedClient()
	client.script("https://example.com/ok", scriptedResponse{status: 200})
	e := NewExecutor(client, testLogger(), Config{Concurrency: 2, MaxRetries: 2, RetryBaseDelayMs: 1})

	results := e.ProbeAll(context.Background(), []string{"https://example.com/ok"}, nil)
	if len(results) != 1 || results[0].StatusCode != 200 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if *client.calls["https://example.com/ok"] != 1 {
		t.Errorf("expected exactly 1 call, got %d", *client.calls["https://example.com/ok"])
	}
}

func TestExecutor_RetriesOn5xxThenSucceeds(t *testing.T) {
	client := newScriptedClient()
	client.script("https://example.com/flaky",
		scriptedResponse{status: 503},
		scriptedResponse{status: 200},
	)
	e := NewExecutor(client, testLogger(), Config{Concurrency: 1, MaxRetries: 2, RetryBaseDelayMs: 1})

	results := e.ProbeAll(context.Background(), []string{"https://example.com/flaky"}, nil)
	if results[0].StatusCode != 200 {
		t.Fatalf("expected eventual success, got %+v", results[0])
	}
	if *client.calls["https://example.com/flaky"] != 2 {
		t.Errorf("expected 2 calls, got %d", *client.calls["https://example.com/flaky"])
	}
}

func TestExecutor_NoRetryOn4xx(t *testing.T) {
	client := newScriptedClient()
	client.script("https://example.com/missing", scriptedResponse{status: 404})
	e := NewExecutor(client, testLogger(), Config{Concurrency: 1, MaxRetries: 3, RetryBaseDelayMs: 1})

	results := e.ProbeAll(context.Background(), []string{"https://example.com/missing"}, nil)
	if results[0].StatusCode != 404 {
		t.Fatalf("unexpected status: %+v", results[0])
	}
	if *client.calls["https://example.com/missing"] != 1 {
		t.Errorf("4xx should not be retried, got %d calls", *client.calls["https://example.com/missing"])
	}
}

func TestExecutor_ExhaustsRetriesOnPersistentFailure(t *testing.T) {
	client := newScriptedClient()
	client.script("https://example.com/down",
		scriptedResponse{status: 500},
		scriptedResponse{status: 500},
		scriptedResponse{status: 500},
	)
	e := NewExecutor(client, testLogger(), Config{Concurrency: 1, MaxRetries: 2, RetryBaseDelayMs: 1})

	results := e.ProbeAll(context.Background(), []string{"https://example.com/down"}, nil)
	if results[0].StatusCode != 500 {
		t.Fatalf("expected final status 500, got %+v", results[0])
	}
	if *client.calls["https://example.com/down"] != 3 {
		t.Errorf("expected 3 total attempts (1 + 2 retries), got %d", *client.calls["https://example.com/down"])
	}
}

func TestExecutor_ProgressCallbackReportsAllCompletions(t *testing.T) {
	client := newScriptedClient()
	client.script("https://example.com/a", scriptedResponse{status: 200})
	client.script("https://example.com/b", scriptedResponse{status: 200})
	e := NewExecutor(client, testLogger(), Config{Concurrency: 2, MaxRetries: 0})

	var lastDone, lastTotal int
	var mu int32
	e.ProbeAll(context.Background(), []string{"https://example.com/a", "https://example.com/b"}, func(done, total int) {
		atomic.AddInt32(&mu, 1)
		lastDone, lastTotal = done, total
	})
	if lastTotal != 2 {
		t.Errorf("expected total 2, got %d", lastTotal)
	}
	if lastDone != 2 {
		t.Errorf("expected final done 2, got %d", lastDone)
	}
	if atomic.LoadInt32(&mu) != 2 {
		t.Errorf("expected 2 progress calls, got %d", mu)
	}
}

func TestCategorize_PartitionsByStatusClass(t *testing.T) {
	results := []model.ProbeResult{
		{URL: "a", StatusCode: 200, ResponseTimeMs: 100},
		{URL: "b", StatusCode: 301, ResponseTimeMs: 50},
		{URL: "c", StatusCode: 404, ResponseTimeMs: 30},
		{URL: "d", StatusCode: 503, ResponseTimeMs: 20},
		{URL: "e", StatusCode: 0, Error: "timeout"},
	}
	cat := Categorize(results)
	if len(cat.OK) != 1 || len(cat.Redirects) != 1 || len(cat.ClientErrors) != 1 ||
		len(cat.ServerErrors) != 1 || len(cat.NetworkErrors) != 1 {
		t.Fatalf("unexpected categorization: %+v", cat)
	}
	if cat.AverageResponseMs != 50 {
		t.Errorf("AverageResponseMs = %f, want 50 (avg of the 4 timed results)", cat.AverageResponseMs)
	}
}

func TestBrokenLinks_OnlyClientErrorStatuses(t *testing.T) {
	results := []model.ProbeResult{
		{URL: "ok", StatusCode: 200},
		{URL: "missing", StatusCode: 404},
		{URL: "broken", StatusCode: 500},
	}
	broken := BrokenLinks(results)
	if len(broken) != 1 || broken[0] != "missing" {
		t.Fatalf("expected only the 4xx entry, got %v", broken)
	}
}

func TestAnalyzeRedirects_FlagsLongChains(t *testing.T) {
	results := []model.ProbeResult{
		{URL: "short", StatusCode: 200, IsRedirect: true, RedirectChain: []model.RedirectHop{
			{URL: "short-hop", StatusCode: 301, Index: 0},
		}},
		{URL: "long", StatusCode: 200, IsRedirect: true, RedirectChain: []model.RedirectHop{
			{URL: "long-hop-1", StatusCode: 301, Index: 0},
			{URL: "long-hop-2", StatusCode: 302, Index: 1},
			{URL: "long-hop-3", StatusCode: 301, Index: 2},
		}},
	}
	analysis := AnalyzeRedirects(results)
	if analysis.CountsByCode[301] != 3 {
		t.Errorf("expected 3 301 hops counted, got %d", analysis.CountsByCode[301])
	}
	if analysis.CountsByCode[302] != 1 {
		t.Errorf("expected 1 302 hop counted, got %d", analysis.CountsByCode[302])
	}
	if len(analysis.LongChains) != 1 || analysis.LongChains[0].URL != "long" {
		t.Fatalf("expected 'long' to be flagged, got %+v", analysis.LongChains)
	}
}
