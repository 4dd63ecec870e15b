package model

// Headings summarizes heading-tag usage extracted from a rendered page.
type Headings struct {
	H1Count int      `json:"h1Count"`
	H2Count int      `json:"h2Count"`
	H3Count int      `json:"h3Count"`
	H1Text  []string `json:"h1Text"`
}

// PageContent is the SEO-relevant content extracted from a single fetched page.
type PageContent struct {
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	CanonicalURL       string            `json:"canonicalUrl"`
	OGTags             map[string]string `json:"ogTags,omitempty"`
	Headings           Headings          `json:"headings"`
	StructuredData     bool              `json:"structuredData"`
	InternalLinkCount  int               `json:"internalLinkCount"`
	ExternalLinkCount  int               `json:"externalLinkCount"`
}
