package correspond

import (
	"testing"

	"github.com/raysh454/siteshift/internal/model"
)

func TestSimilarity_Identical(t *testing.T) {
	if s := Similarity("/blog/post-1", "/blog/post-1"); s != 1.0 {
		t.Fatalf("identical strings should score 1.0, got %f", s)
	}
}

func TestSimilarity_EmptyBoth(t *testing.T) {
	if s := Similarity("", ""); s != 1.0 {
		t.Fatalf("two empty strings should score 1.0, got %f", s)
	}
}

func TestSimilarity_Unrelated(t *testing.T) {
	if s := Similarity("/blog/post-1", "/contact"); s > 0.5 {
		t.Fatalf("unrelated paths should score low, got %f", s)
	}
}

func TestResolve_DirectMatch(t *testing.T) {
	report := Resolve(
		[]string{"https://old.example.com/about"},
		[]string{"https://new.example.com/about"},
		nil,
	)
	if len(report.Matched) != 1 {
		t.Fatalf("expected 1 direct match, got %d", len(report.Matched))
	}
	if report.Matched[0].MatchType != model.MatchDirect {
		t.Errorf("expected direct match type, got %v", report.Matched[0].MatchType)
	}
	if report.Summary.MatchRate != 1.0 {
		t.Errorf("expected matchRate 1.0, got %f", report.Summary.MatchRate)
	}
}

func TestResolve_RedirectedMatch(t *testing.T) {
	redirects := model.RedirectMap{"https://old.example.com/legacy": "https://new.example.com/modern"}
	report := Resolve(
		[]string{"https://old.example.com/legacy"},
		[]string{"https://new.example.com/modern"},
		redirects,
	)
	if len(report.Redirected) != 1 {
		t.Fatalf("expected 1 redirected match, got %d", len(report.Redirected))
	}
	if len(report.Matched) != 0 {
		t.Errorf("redirected match should not also be counted as a direct match")
	}
}

func TestResolve_MissingWithSuggestion(t *testing.T) {
	report := Resolve(
		[]string{"https://old.example.com/products/widget"},
		[]string{"https://new.example.com/products/widget-v2"},
		nil,
	)
	if len(report.Missing) != 1 {
		t.Fatalf("expected 1 missing entry, got %d", len(report.Missing))
	}
	if report.Missing[0].Suggestion == nil {
		t.Fatalf("expected a suggestion for a similar path")
	}
}

func TestResolve_MissingNoSuggestionBelowThreshold(t *testing.T) {
	report := Resolve(
		[]string{"https://old.example.com/x"},
		[]string{"https://new.example.com/completely-different-page-zzz"},
		nil,
	)
	if len(report.Missing) != 1 {
		t.Fatalf("expected 1 missing entry, got %d", len(report.Missing))
	}
	if report.Missing[0].Suggestion != nil {
		t.Errorf("did not expect a suggestion below threshold, got %q", *report.Missing[0].Suggestion)
	}
}

func TestResolve_NewOnly(t *testing.T) {
	report := Resolve(
		[]string{},
		[]string{"https://new.example.com/brand-new"},
		nil,
	)
	if len(report.NewOnly) != 1 || report.NewOnly[0].Type != model.NewOnlyType {
		t.Fatalf("expected 1 new-only entry with type %q, got %+v", model.NewOnlyType, report.NewOnly)
	}
}

func TestResolve_EmptyOldURLsMatchRateZeroNotNaN(t *testing.T) {
	report := Resolve(nil, []string{"https://new.example.com/a"}, nil)
	if report.Summary.MatchRate != 0 {
		t.Fatalf("expected matchRate 0 for empty old set, got %f", report.Summary.MatchRate)
	}
}

func TestDetectPatterns_BlogToBlogsRename(t *testing.T) {
	missing := []model.MissingEntry{
		{OldURL: "https://old.example.com/blog/post-1"},
		{OldURL: "https://old.example.com/blog/post-2"},
	}
	newOnly := []model.NewOnlyEntry{
		{NewURL: "https://new.example.com/blogs/post-1-new", Type: model.NewOnlyType},
	}
	patterns := DetectPatterns(missing, newOnly)
	if len(patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d: %+v", len(patterns), patterns)
	}
	if patterns[0].OldPattern != "/blog" {
		t.Errorf("unexpected old pattern %q", patterns[0].OldPattern)
	}
	if patterns[0].NewPattern != "/blogs" {
		t.Errorf("unexpected new pattern %q", patterns[0].NewPattern)
	}
}

func TestDetectPatterns_SamePrefixIsNotARename(t *testing.T) {
	missing := []model.MissingEntry{
		{OldURL: "https://old.example.com/blog/post-1"},
	}
	newOnly := []model.NewOnlyEntry{
		{NewURL: "https://new.example.com/blog/post-1-new", Type: model.NewOnlyType},
	}
	patterns := DetectPatterns(missing, newOnly)
	if len(patterns) != 0 {
		t.Fatalf("expected no pattern when prefixes match, got %+v", patterns)
	}
}
