package inputs

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/raysh454/siteshift/internal/interfaces"
)

// LocalFileReader implements interfaces.FileReader for a CLI-style deployment: a
// handle that looks like an http(s) URL is fetched over the network, everything else
// is treated as a local filesystem path.
type LocalFileReader struct {
	client interfaces.WebClient
}

// NewLocalFileReader builds a FileReader; client may be nil if the caller never
// intends to pass URL handles.
func NewLocalFileReader(client interfaces.WebClient) *LocalFileReader {
	return &LocalFileReader{client: client}
}

func (r *LocalFileReader) ReadFile(ctx context.Context, handle string) ([]byte, error) {
	if strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://") {
		if r.client == nil {
			return nil, fmt.Errorf("inputs: no web client configured to fetch %s", handle)
		}
		resp, err := r.client.Get(ctx, handle)
		if err != nil {
			return nil, fmt.Errorf("inputs: fetch %s: %w", handle, err)
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("inputs: fetch %s: status %d", handle, resp.StatusCode)
		}
		return resp.Body, nil
	}

	data, err := os.ReadFile(handle)
	if err != nil {
		return nil, fmt.Errorf("inputs: read local file %s: %w", handle, err)
	}
	return data, nil
}

var _ interfaces.FileReader = (*LocalFileReader)(nil)
