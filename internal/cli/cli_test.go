package cli

import "testing"

func TestParseArgs_RequiresOldAndNew(t *testing.T) {
	if _, err := ParseArgs([]string{"-new", "https://new.example.com"}); err == nil {
		t.Error("expected error when -old is missing")
	}
	if _, err := ParseArgs([]string{"-old", "https://old.example.com"}); err == nil {
		t.Error("expected error when -new is missing")
	}
}

func TestParseArgs_Defaults(t *testing.T) {
	args, err := ParseArgs([]string{"-old", "https://old.example.com", "-new", "https://new.example.com"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.DBPath != "siteshift.db" {
		t.Errorf("expected default db path, got %q", args.DBPath)
	}
	if args.ScreenshotDir != "screenshots" {
		t.Errorf("expected default screenshot dir, got %q", args.ScreenshotDir)
	}
	if args.HeadlessOld || args.HeadlessNew {
		t.Error("expected headless flags to default false")
	}
}

func TestParseArgs_ParsesAllInputFlags(t *testing.T) {
	args, err := ParseArgs([]string{
		"-old", "https://old.example.com",
		"-new", "https://new.example.com",
		"-old-sitemap", "old-sitemap.xml",
		"-new-sitemap", "new-sitemap.xml",
		"-analytics", "analytics.csv",
		"-redirects", "redirects.csv",
		"-concurrency", "8",
		"-headless-new",
	})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.OldSitemap != "old-sitemap.xml" || args.NewSitemap != "new-sitemap.xml" {
		t.Errorf("sitemap flags did not parse: %+v", args)
	}
	if args.AnalyticsExport != "analytics.csv" || args.RedirectMap != "redirects.csv" {
		t.Errorf("analytics/redirect flags did not parse: %+v", args)
	}
	if args.Concurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", args.Concurrency)
	}
	if !args.HeadlessNew || args.HeadlessOld {
		t.Errorf("expected only headless-new set: %+v", args)
	}
}
