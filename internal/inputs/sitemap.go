// Package inputs implements the Input Readers (C1): sitemap, analytics-export,
// redirect-map, and plain-URL-list parsing into normalized records.
package inputs

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

// maxSitemapDepth caps sitemap-index recursion to guard against adversarial
// self-referencing indices.
const maxSitemapDepth = 4

// ErrInvalidFormat is returned when a sitemap document has neither a <urlset> nor a
// <sitemapindex> root element.
var ErrInvalidFormat = fmt.Errorf("inputs: invalid sitemap format")

type xmlURLSet struct {
	XMLName xml.Name  `xml:"urlset"`
	URLs    []xmlEntry `xml:"url"`
}

type xmlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type xmlSitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	Sitemaps []xmlIndexItem `xml:"sitemap"`
}

type xmlIndexItem struct {
	Loc string `xml:"loc"`
}

// probeRoot sniffs which of the two root elements a sitemap document declares.
type probeRoot struct {
	XMLName xml.Name
}

// SitemapParser parses local or remote sitemap.org XML documents, including recursive
// sitemap indices.
type SitemapParser struct {
	reader interfaces.FileReader
	logger interfaces.Logger
}

func NewSitemapParser(reader interfaces.FileReader, logger interfaces.Logger) *SitemapParser {
	return &SitemapParser{reader: reader, logger: logger.With(interfaces.Field{Key: "component", Value: "sitemap_parser"})}
}

// Parse accepts a local path or URL (resolved by the FileReader) and returns the
// deduplicated set of SitemapEntry records reachable from it.
func (p *SitemapParser) Parse(ctx context.Context, handle string) ([]model.SitemapEntry, error) {
	visited := map[string]bool{}
	entries, err := p.parseRecursive(ctx, handle, visited, 0)
	if err != nil {
		return nil, err
	}
	return dedupeEntries(entries), nil
}

func (p *SitemapParser) parseRecursive(ctx context.Context, handle string, visited map[string]bool, depth int) ([]model.SitemapEntry, error) {
	if visited[handle] {
		p.logger.Warn("skipping already-visited sitemap", interfaces.Field{Key: "handle", Value: handle})
		return nil, nil
	}
	if depth > maxSitemapDepth {
		p.logger.Warn("sitemap recursion depth cap reached", interfaces.Field{Key: "handle", Value: handle}, interfaces.Field{Key: "depth", Value: depth})
		return nil, nil
	}
	visited[handle] = true

	data, err := p.reader.ReadFile(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("inputs: read sitemap %s: %w", handle, err)
	}

	var root probeRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, handle, err)
	}

	switch root.XMLName.Local {
	case "urlset":
		var set xmlURLSet
		if err := xml.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, handle, err)
		}
		out := make([]model.SitemapEntry, 0, len(set.URLs))
		for _, e := range set.URLs {
			loc := strings.TrimSpace(e.Loc)
			if loc == "" {
				p.logger.Warn("skipping sitemap entry with empty loc", interfaces.Field{Key: "handle", Value: handle})
				continue
			}
			entry := model.SitemapEntry{URL: loc, LastMod: e.LastMod, ChangeFreq: e.ChangeFreq}
			if e.Priority != "" {
				pr := e.Priority
				entry.Priority = &pr
			}
			out = append(out, entry)
		}
		return out, nil

	case "sitemapindex":
		var idx xmlSitemapIndex
		if err := xml.Unmarshal(data, &idx); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, handle, err)
		}
		var out []model.SitemapEntry
		for _, s := range idx.Sitemaps {
			loc := strings.TrimSpace(s.Loc)
			if loc == "" {
				continue
			}
			nested, err := p.parseRecursive(ctx, loc, visited, depth+1)
			if err != nil {
				// A nested sitemap fetch failure is per-entry: logged and skipped,
				// not surfaced as a root-level parse failure.
				p.logger.Error("failed to fetch nested sitemap, skipping",
					interfaces.Field{Key: "handle", Value: loc},
					interfaces.Field{Key: "error", Value: err.Error()})
				continue
			}
			out = append(out, nested...)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %s: unknown root element %q", ErrInvalidFormat, handle, root.XMLName.Local)
	}
}

// dedupeEntries removes duplicate URLs across nested sitemaps, first occurrence wins.
func dedupeEntries(entries []model.SitemapEntry) []model.SitemapEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]model.SitemapEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.URL] {
			continue
		}
		seen[e.URL] = true
		out = append(out, e)
	}
	return out
}

// URLs extracts the bare URL strings from a slice of SitemapEntry, preserving order.
func URLs(entries []model.SitemapEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.URL
	}
	return out
}
