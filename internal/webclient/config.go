package webclient

import "time"

// Backend selects which WebClient implementation New constructs.
type Backend string

const (
	BackendNetHTTP  Backend = "nethttp"
	BackendChromeDP Backend = "chromedp"
)

// UserAgent is the fixed browser-like identifier the audit bot sends on every request.
const UserAgent = "Mozilla/5.0 (compatible; SiteShiftAuditBot/1.0; +https://example.invalid/bot)"

// MaxRedirectHops bounds how many hops FollowRedirects will chase before giving up.
const MaxRedirectHops = 10

// Config configures a WebClient backend.
type Config struct {
	Backend          Backend
	TimeoutMs        int
	FollowRedirects  bool
	HeadlessIdleMs   int // network-quiescence window for the chromedp backend
	HeadlessNavCapMs int // hard navigation cap for the chromedp backend, default 30s
}

// DefaultConfig returns sane development defaults.
func DefaultConfig() Config {
	return Config{
		Backend:          BackendNetHTTP,
		TimeoutMs:        10000,
		FollowRedirects:  true,
		HeadlessIdleMs:   500,
		HeadlessNavCapMs: 30000,
	}
}

func (c Config) timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
