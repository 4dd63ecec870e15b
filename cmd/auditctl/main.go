// Command auditctl runs a single site-migration audit end to end: it parses inputs,
// probes both sites, audits performance and mobile responsiveness on a bounded
// sample, and checkpoints the resulting Project record to a SQLite store.
// Usage: go run ./cmd/auditctl -old https://old.example.com -new https://new.example.com [flags]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/raysh454/siteshift/internal/cli"
	"github.com/raysh454/siteshift/internal/headless"
	"github.com/raysh454/siteshift/internal/inputs"
	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/logging"
	"github.com/raysh454/siteshift/internal/model"
	"github.com/raysh454/siteshift/internal/notify"
	"github.com/raysh454/siteshift/internal/pipeline"
	"github.com/raysh454/siteshift/internal/store"
	"github.com/raysh454/siteshift/internal/webclient"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "siteshift:", err)
		os.Exit(2)
	}

	logger := logging.NewStdoutLogger("auditctl")

	if err := run(context.Background(), args, logger); err != nil {
		logger.Error("audit run failed", interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, args *cli.AuditArgs, logger interfaces.Logger) error {
	oldClient, err := newBackend(args.HeadlessOld, logger)
	if err != nil {
		return fmt.Errorf("build old-site client: %w", err)
	}
	defer oldClient.Close()

	newClient, err := newBackend(args.HeadlessNew, logger)
	if err != nil {
		return fmt.Errorf("build new-site client: %w", err)
	}
	defer newClient.Close()

	// Prefer fetching remote input handles (a sitemap or CSV hosted at a URL) through
	// the old site's client; local paths never touch it.
	reader := inputs.NewLocalFileReader(oldClient)

	db, err := store.Open(args.DBPath, logger)
	if err != nil {
		return fmt.Errorf("open project store: %w", err)
	}
	defer db.Close()

	auditor := headless.NewAuditor(headless.DefaultPerfConfig(), logger)
	defer auditor.Close()

	cfg := pipeline.DefaultConfig()
	cfg.ScreenshotDir = args.ScreenshotDir
	if args.Concurrency > 0 {
		cfg.ProbeConfig.Concurrency = args.Concurrency
	}

	var notifier interfaces.Notifier
	if args.NotifyWebhook != "" {
		notifier = notify.NewWebhookNotifier(args.NotifyWebhook)
	}

	controller := pipeline.NewController(db, notifier, reader, oldClient, newClient, auditor, cfg, logger)

	project := &model.Project{
		ID:         uuid.New().String(),
		OldBaseURL: args.OldBaseURL,
		NewBaseURL: args.NewBaseURL,
		Status:     model.ProjectPending,
		Inputs: model.InputFiles{
			OldSitemap:       args.OldSitemap,
			NewSitemap:       args.NewSitemap,
			OldURLList:       args.OldURLList,
			NewURLList:       args.NewURLList,
			AnalyticsExport:  args.AnalyticsExport,
			RedirectMapInput: args.RedirectMap,
		},
	}

	if err := db.Save(ctx, project); err != nil {
		return fmt.Errorf("persist initial project: %w", err)
	}

	logger.Info("starting migration audit",
		interfaces.Field{Key: "project_id", Value: project.ID},
		interfaces.Field{Key: "old", Value: args.OldBaseURL},
		interfaces.Field{Key: "new", Value: args.NewBaseURL})

	if err := controller.Run(ctx, project); err != nil {
		return fmt.Errorf("run audit %s: %w", project.ID, err)
	}

	logger.Info("audit completed",
		interfaces.Field{Key: "project_id", Value: project.ID},
		interfaces.Field{Key: "match_rate", Value: project.Results.Correspondence.Summary.MatchRate})
	return nil
}

func newBackend(headlessMode bool, logger interfaces.Logger) (interfaces.WebClient, error) {
	cfg := webclient.DefaultConfig()
	if headlessMode {
		cfg.Backend = webclient.BackendChromeDP
	}
	return webclient.New(cfg, logger)
}
