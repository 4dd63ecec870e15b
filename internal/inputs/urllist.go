package inputs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strings"

	"github.com/raysh454/siteshift/internal/interfaces"
)

// URLListParser extracts absolute http(s) URLs from an arbitrary CSV, one per row,
// used when a caller supplies a plain export that isn't a recognized sitemap or
// analytics format. The first cell in a row that parses as an absolute http(s) URL
// is taken as that row's URL; rows with none are skipped.
type URLListParser struct {
	reader interfaces.FileReader
	logger interfaces.Logger
}

func NewURLListParser(reader interfaces.FileReader, logger interfaces.Logger) *URLListParser {
	return &URLListParser{reader: reader, logger: logger.With(interfaces.Field{Key: "component", Value: "urllist_parser"})}
}

func (p *URLListParser) Parse(ctx context.Context, handle string) ([]string, error) {
	data, err := p.reader.ReadFile(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("inputs: read url list %s: %w", handle, err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("inputs: parse url list csv %s: %w", handle, err)
	}

	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if !looksLikeAbsoluteHTTPURL(cell) {
				continue
			}
			if seen[cell] {
				break
			}
			seen[cell] = true
			out = append(out, cell)
			break
		}
	}
	return out, nil
}

func looksLikeAbsoluteHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
