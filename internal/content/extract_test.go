package content

import "testing"

const sampleHTML = `<!DOCTYPE html>
<html><head>
<title>  Example Page  </title>
<meta name="description" content="An example page.">
<link rel="canonical" href="https://example.com/page">
<meta property="og:title" content="Example OG Title">
<script type="application/ld+json">{}</script>
</head>
<body>
<h1>Main Heading</h1>
<h2>Sub A</h2>
<h2>Sub B</h2>
<a href="/internal-page">Internal</a>
<a href="https://example.com/other">Same host</a>
<a href="https://external.com/page">External</a>
<a href="#section">Anchor</a>
</body></html>`

func TestExtract_BasicFields(t *testing.T) {
	pc, err := Extract("https://example.com/page", []byte(sampleHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.Title != "Example Page" {
		t.Errorf("Title = %q", pc.Title)
	}
	if pc.Description != "An example page." {
		t.Errorf("Description = %q", pc.Description)
	}
	if pc.CanonicalURL != "https://example.com/page" {
		t.Errorf("CanonicalURL = %q", pc.CanonicalURL)
	}
	if pc.OGTags["og:title"] != "Example OG Title" {
		t.Errorf("OGTags[og:title] = %q", pc.OGTags["og:title"])
	}
	if !pc.StructuredData {
		t.Errorf("expected StructuredData true")
	}
}

func TestExtract_Headings(t *testing.T) {
	pc, err := Extract("https://example.com/page", []byte(sampleHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.Headings.H1Count != 1 || pc.Headings.H2Count != 2 {
		t.Errorf("unexpected heading counts: %+v", pc.Headings)
	}
	if len(pc.Headings.H1Text) != 1 || pc.Headings.H1Text[0] != "Main Heading" {
		t.Errorf("unexpected H1Text: %v", pc.Headings.H1Text)
	}
}

func TestExtract_LinkClassification(t *testing.T) {
	pc, err := Extract("https://example.com/page", []byte(sampleHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.InternalLinkCount != 2 {
		t.Errorf("InternalLinkCount = %d, want 2", pc.InternalLinkCount)
	}
	if pc.ExternalLinkCount != 1 {
		t.Errorf("ExternalLinkCount = %d, want 1", pc.ExternalLinkCount)
	}
}
