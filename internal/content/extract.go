// Package content extracts on-page SEO signals (title, meta description, canonical,
// Open Graph tags, heading structure, structured data, link counts) from a fetched
// document's HTML. The probe executor calls it on the body returned by either
// WebClient backend (plain HTTP or headless-rendered).
package content

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raysh454/siteshift/internal/model"
)

// Extract parses body as HTML and derives PageContent relative to pageURL, which is
// used to classify links as internal or external.
func Extract(pageURL string, body []byte) (*model.PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	pc := &model.PageContent{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		OGTags:      map[string]string{},
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		pc.Description = strings.TrimSpace(desc)
	}
	if canonical, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		pc.CanonicalURL = strings.TrimSpace(canonical)
	}

	doc.Find(`meta[property^="og:"]`).Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		val, _ := s.Attr("content")
		if prop != "" {
			pc.OGTags[prop] = val
		}
	})

	pc.Headings.H1Count = doc.Find("h1").Length()
	pc.Headings.H2Count = doc.Find("h2").Length()
	pc.Headings.H3Count = doc.Find("h3").Length()
	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		pc.Headings.H1Text = append(pc.Headings.H1Text, strings.TrimSpace(s.Text()))
	})

	pc.StructuredData = doc.Find(`script[type="application/ld+json"]`).Length() > 0

	base, _ := url.Parse(pageURL)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		if isInternalLink(base, href) {
			pc.InternalLinkCount++
		} else {
			pc.ExternalLinkCount++
		}
	})

	return pc, nil
}

func isInternalLink(base *url.URL, href string) bool {
	if base == nil {
		return true
	}
	target, err := url.Parse(href)
	if err != nil {
		return true
	}
	if target.Host == "" {
		return true
	}
	return strings.EqualFold(target.Hostname(), base.Hostname())
}
