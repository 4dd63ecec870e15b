package webclient

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

// ChromeDPClient drives a controlled headless browser: launch flags disable sandboxing,
// GPU, and shared-memory constraints so the process runs in restricted containers.
// One allocator is shared across navigations; each Do call gets its own tab
// context so calls can run one at a time without tearing the browser down.
type ChromeDPClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	idleAfter   time.Duration
	navCap      time.Duration
	logger      interfaces.Logger
}

// NewChromeDPClient launches (but does not yet navigate) a headless browser instance.
func NewChromeDPClient(cfg Config, logger interfaces.Logger) (*ChromeDPClient, error) {
	opts := append([]chromedp.ExecAllocatorOption{},
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	idleAfter := 500 * time.Millisecond
	if cfg.HeadlessIdleMs > 0 {
		idleAfter = time.Duration(cfg.HeadlessIdleMs) * time.Millisecond
	}
	navCap := 30 * time.Second
	if cfg.HeadlessNavCapMs > 0 {
		navCap = time.Duration(cfg.HeadlessNavCapMs) * time.Millisecond
	}

	return &ChromeDPClient{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		idleAfter:   idleAfter,
		navCap:      navCap,
		logger:      logger.With(interfaces.Field{Key: "backend", Value: "chromedp"}),
	}, nil
}

// waitNetworkIdle returns a channel that closes once no more than 2 requests have been
// in flight for idleAfter.
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

	// Start the timer immediately in case the page never issues a subresource request.
	startTimer()

	return idleChan
}

// Do navigates to req.URL, waits for network quiescence (capped at navCap), and
// returns the rendered document's outer HTML as the response body.
func (c *ChromeDPClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("chromedp: nil request")
	}

	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx)
	defer tabCancel()

	navCtx, navCancel := context.WithTimeout(tabCtx, c.navCap)
	defer navCancel()

	idleChan := waitNetworkIdle(navCtx, c.idleAfter, 2)

	start := time.Now()

	var statusCode int64
	chromedp.ListenTarget(navCtx, func(ev any) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			statusCode = e.Response.Status
		}
	})

	if err := chromedp.Run(navCtx, chromedp.Navigate(req.URL)); err != nil {
		c.logger.Warn("headless navigation failed",
			interfaces.Field{Key: "url", Value: req.URL},
			interfaces.Field{Key: "error", Value: err.Error()})
		return &model.Response{Request: req, StatusCode: 0, FetchedAt: time.Now(), ResponseTime: time.Since(start)}, err
	}

	select {
	case <-idleChan:
	case <-navCtx.Done():
	}

	var html string
	var finalURL string
	if err := chromedp.Run(navCtx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	); err != nil {
		return &model.Response{Request: req, StatusCode: 0, FetchedAt: time.Now(), ResponseTime: time.Since(start)}, err
	}

	elapsed := time.Since(start)

	return &model.Response{
		Request:      req,
		StatusCode:   int(statusCode),
		Body:         []byte(html),
		FinalURL:     finalURL,
		FetchedAt:    time.Now(),
		ResponseTime: elapsed,
	}, nil
}

func (c *ChromeDPClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return c.Do(ctx, &model.Request{Method: "GET", URL: url})
}

// Close tears down the shared allocator context. Callers must call it on every exit path.
func (c *ChromeDPClient) Close() error {
	c.allocCancel()
	return nil
}
