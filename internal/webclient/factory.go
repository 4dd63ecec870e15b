package webclient

import (
	"fmt"

	"github.com/raysh454/siteshift/internal/interfaces"
)

// New constructs the configured WebClient backend.
func New(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error) {
	switch cfg.Backend {
	case "", BackendNetHTTP:
		return NewNetHTTPClient(cfg, logger), nil
	case BackendChromeDP:
		return NewChromeDPClient(cfg, logger)
	default:
		return nil, fmt.Errorf("webclient: unknown backend %q", cfg.Backend)
	}
}
