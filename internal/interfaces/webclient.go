package interfaces

import (
	"context"

	"github.com/raysh454/siteshift/internal/model"
)

// WebClient abstracts the transport used to fetch a URL, so probes and audits can
// run against either a plain HTTP backend or a headless-browser backend.
type WebClient interface {
	Do(ctx context.Context, req *model.Request) (*model.Response, error)

	// Get is a convenience method for simple GET requests.
	Get(ctx context.Context, url string) (*model.Response, error)

	Close() error
}

