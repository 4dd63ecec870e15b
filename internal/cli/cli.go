// Package cli parses the command-line flags for a single audit run.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// AuditArgs are the command-line arguments that configure a single migration-audit
// run. Keep this small — add fields as modules need them.
type AuditArgs struct {
	OldBaseURL string
	NewBaseURL string

	OldSitemap string
	NewSitemap string

	OldURLList string
	NewURLList string

	AnalyticsExport string
	RedirectMap     string

	DBPath        string
	ScreenshotDir string
	NotifyWebhook string

	Concurrency int

	HeadlessOld bool
	HeadlessNew bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns AuditArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*AuditArgs, error) {
	fs := flag.NewFlagSet("siteshift", flag.ContinueOnError)
	var (
		oldBaseURL = fs.String("old", "", "Base URL of the old site being replaced (required)")
		newBaseURL = fs.String("new", "", "Base URL of the new site replacing it (required)")

		oldSitemap = fs.String("old-sitemap", "", "Path or URL to the old site's sitemap.xml")
		newSitemap = fs.String("new-sitemap", "", "Path or URL to the new site's sitemap.xml")

		oldURLList = fs.String("old-url-list", "", "Path to a plain URL list, used when -old-sitemap is not available")
		newURLList = fs.String("new-url-list", "", "Path to a plain URL list, used when -new-sitemap is not available")

		analyticsExport = fs.String("analytics", "", "Path to a search-analytics CSV export")
		redirectMap     = fs.String("redirects", "", "Path to an old-URL,new-URL redirect map CSV")

		dbPath        = fs.String("db", "siteshift.db", "Path to the SQLite project store")
		screenshotDir = fs.String("screenshots", "screenshots", "Directory to write mobile-audit screenshots under")
		notifyWebhook = fs.String("notify-webhook", "", "URL to POST a completion/failure notification to (empty disables notifications)")

		concurrency = fs.Int("concurrency", 0, "Probe concurrency override for this run (0=use default)")

		headlessOld = fs.Bool("headless-old", false, "Fetch the old site through the headless browser backend instead of plain HTTP")
		headlessNew = fs.Bool("headless-new", false, "Fetch the new site through the headless browser backend instead of plain HTTP")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests.
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if strings.TrimSpace(*oldBaseURL) == "" {
		return nil, fmt.Errorf("missing required -old argument")
	}
	if strings.TrimSpace(*newBaseURL) == "" {
		return nil, fmt.Errorf("missing required -new argument")
	}

	return &AuditArgs{
		OldBaseURL:      *oldBaseURL,
		NewBaseURL:      *newBaseURL,
		OldSitemap:      *oldSitemap,
		NewSitemap:      *newSitemap,
		OldURLList:      *oldURLList,
		NewURLList:      *newURLList,
		AnalyticsExport: *analyticsExport,
		RedirectMap:     *redirectMap,
		DBPath:          *dbPath,
		ScreenshotDir:   *screenshotDir,
		NotifyWebhook:   *notifyWebhook,
		Concurrency:     *concurrency,
		HeadlessOld:     *headlessOld,
		HeadlessNew:     *headlessNew,
		RawArgs:         args,
	}, nil
}
