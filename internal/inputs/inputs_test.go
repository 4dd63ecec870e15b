package inputs

import (
	"context"
	"errors"
	"testing"

	"github.com/raysh454/siteshift/internal/interfaces"
)

type fakeFileReader struct {
	files map[string]string
}

func (f *fakeFileReader) ReadFile(ctx context.Context, handle string) ([]byte, error) {
	data, ok := f.files[handle]
	if !ok {
		return nil, errors.New("fakeFileReader: no such file " + handle)
	}
	return []byte(data), nil
}

func testLogger() interfaces.Logger {
	return interfaces.NewTestLogger(false)
}

func TestSitemapParser_FlatURLSet(t *testing.T) {
	fr := &fakeFileReader{files: map[string]string{
		"sitemap.xml": `<?xml version="1.0"?>
<urlset><url><loc>https://example.com/a</loc><lastmod>2024-01-01</lastmod></url>
<url><loc>https://example.com/b</loc></url></urlset>`,
	}}
	p := NewSitemapParser(fr, testLogger())
	entries, err := p.Parse(context.Background(), "sitemap.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].URL != "https://example.com/a" || entries[0].LastMod != "2024-01-01" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestSitemapParser_RecursiveIndex(t *testing.T) {
	fr := &fakeFileReader{files: map[string]string{
		"index.xml": `<sitemapindex><sitemap><loc>a.xml</loc></sitemap><sitemap><loc>b.xml</loc></sitemap></sitemapindex>`,
		"a.xml":     `<urlset><url><loc>https://example.com/a</loc></url></urlset>`,
		"b.xml":     `<urlset><url><loc>https://example.com/b</loc></url></urlset>`,
	}}
	p := NewSitemapParser(fr, testLogger())
	entries, err := p.Parse(context.Background(), "index.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}

func TestSitemapParser_CyclicIndexDoesNotHang(t *testing.T) {
	fr := &fakeFileReader{files: map[string]string{
		"a.xml": `<sitemapindex><sitemap><loc>b.xml</loc></sitemap></sitemapindex>`,
		"b.xml": `<sitemapindex><sitemap><loc>a.xml</loc></sitemap></sitemapindex>`,
	}}
	p := NewSitemapParser(fr, testLogger())
	entries, err := p.Parse(context.Background(), "a.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries from a purely cyclic index, got %d", len(entries))
	}
}

func TestSitemapParser_InvalidRootElement(t *testing.T) {
	fr := &fakeFileReader{files: map[string]string{
		"bad.xml": `<somethingelse></somethingelse>`,
	}}
	p := NewSitemapParser(fr, testLogger())
	_, err := p.Parse(context.Background(), "bad.xml")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestAnalyticsParser_TolerantColumns(t *testing.T) {
	fr := &fakeFileReader{files: map[string]string{
		"a.csv": "Page,Clicks,Impressions,CTR,Avg. Position\n" +
			"https://example.com/a,10,100,10.0%,3.5\n" +
			"https://example.com/a,999,999,99%,99\n" +
			"https://example.com/b,5,50,10.0%,4.5\n",
	}}
	p := NewAnalyticsParser(fr, testLogger())
	entries, err := p.Parse(context.Background(), "a.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (dedup by first occurrence)", len(entries))
	}
	if entries[0].Clicks != 10 || entries[0].Position != 3.5 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestRedirectMapParser_LastWriteWins(t *testing.T) {
	fr := &fakeFileReader{files: map[string]string{
		"r.csv": "Source,Target\n/old,/new1\n/old,/new2\n",
	}}
	p := NewRedirectMapParser(fr, testLogger())
	m, err := p.Parse(context.Background(), "r.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["/old"] != "/new2" {
		t.Fatalf("got %q, want last-write-wins /new2", m["/old"])
	}
}

func TestURLListParser_ExtractsFirstAbsoluteURLPerRow(t *testing.T) {
	fr := &fakeFileReader{files: map[string]string{
		"u.csv": "notaurl,https://example.com/a,extra\nhttps://example.com/b\nrelative/path\n",
	}}
	p := NewURLListParser(fr, testLogger())
	urls, err := p.Parse(context.Background(), "u.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://example.com/a" || urls[1] != "https://example.com/b" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}
