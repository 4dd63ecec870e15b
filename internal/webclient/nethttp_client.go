package webclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

// chainRecorder is an http.RoundTripper that records every response it sees, so the
// caller can reconstruct the full redirect chain (including intermediate status codes)
// after http.Client has finished following redirects.
type chainRecorder struct {
	next http.RoundTripper

	mu   sync.Mutex
	hops []model.RedirectHop
}

func (r *chainRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err == nil && resp != nil {
		r.mu.Lock()
		r.hops = append(r.hops, model.RedirectHop{
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Index:      len(r.hops),
		})
		r.mu.Unlock()
	}
	return resp, err
}

// NetHTTPClient is the plain-HTTP backed implementation of interfaces.WebClient.
type NetHTTPClient struct {
	transport       http.RoundTripper
	timeout         time.Duration
	followRedirects bool
	logger          interfaces.Logger
}

// NewNetHTTPClient constructs a NetHTTPClient. When cfg.FollowRedirects is false the
// first response is returned as-is (the caller infers redirect status from StatusCode).
func NewNetHTTPClient(cfg Config, logger interfaces.Logger) *NetHTTPClient {
	comp := logger.With(interfaces.Field{Key: "backend", Value: "nethttp"})
	return &NetHTTPClient{
		transport:       http.DefaultTransport,
		timeout:         cfg.timeout(),
		followRedirects: cfg.FollowRedirects,
		logger:          comp,
	}
}

func (c *NetHTTPClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nethttp: nil request")
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	c.logger.Debug("sending http request",
		interfaces.Field{Key: "method", Value: method},
		interfaces.Field{Key: "url", Value: req.URL})

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(nil))
	if err != nil {
		return nil, fmt.Errorf("nethttp: build request: %w", err)
	}
	if req.Headers != nil {
		for k, vs := range req.Headers {
			for _, v := range vs {
				httpReq.Header.Add(k, v)
			}
		}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", UserAgent)
	}

	recorder := &chainRecorder{next: c.transport}
	client := &http.Client{
		Transport: recorder,
		Timeout:   c.timeout,
	}
	if c.followRedirects {
		client.CheckRedirect = func(r *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirectHops {
				return fmt.Errorf("stopped after %d redirects", MaxRedirectHops)
			}
			return nil
		}
	} else {
		client.CheckRedirect = func(r *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn("http request failed",
			interfaces.Field{Key: "url", Value: req.URL},
			interfaces.Field{Key: "error", Value: err.Error()})
		return &model.Response{
			Request:      req,
			StatusCode:   0,
			Headers:      http.Header{},
			FetchedAt:    time.Now(),
			ResponseTime: elapsed,
		}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nethttp: read body: %w", err)
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	chain := recorder.hops
	// The final (non-redirect) hop isn't a redirect itself; only report chain entries
	// that precede a genuine redirect.
	var redirectChain []model.RedirectHop
	if len(chain) > 1 {
		redirectChain = chain[:len(chain)-1]
	}

	return &model.Response{
		Request:       req,
		StatusCode:    resp.StatusCode,
		StatusText:    resp.Status,
		Headers:       resp.Header,
		Body:          body,
		FinalURL:      finalURL,
		RedirectChain: redirectChain,
		FetchedAt:     time.Now(),
		ResponseTime:  elapsed,
	}, nil
}

func (c *NetHTTPClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return c.Do(ctx, &model.Request{Method: http.MethodGet, URL: url})
}

func (c *NetHTTPClient) Close() error {
	if t, ok := c.transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	return nil
}
