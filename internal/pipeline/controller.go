package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/raysh454/siteshift/internal/headless"
	"github.com/raysh454/siteshift/internal/inputs"
	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
	"github.com/raysh454/siteshift/internal/probe"
)

// Controller drives one Project through the stage graph: strictly
// sequential across stages, checkpointing the full Project to the document store
// after every stage, never mid-batch.
type Controller struct {
	store    interfaces.DocumentStore
	notifier interfaces.Notifier

	sitemapParser   *inputs.SitemapParser
	analyticsParser *inputs.AnalyticsParser
	redirectParser  *inputs.RedirectMapParser
	urlListParser   *inputs.URLListParser

	oldExecutor *probe.Executor
	newExecutor *probe.Executor
	auditor     *headless.Auditor

	cfg    Config
	logger interfaces.Logger
}

// NewController wires a Controller from its collaborators. oldClient and newClient may
// be the same WebClient when old and new sites can share a transport configuration.
// notifier may be nil, in which case completion/failure announcements are skipped.
func NewController(store interfaces.DocumentStore, notifier interfaces.Notifier, reader interfaces.FileReader, oldClient, newClient interfaces.WebClient, auditor *headless.Auditor, cfg Config, logger interfaces.Logger) *Controller {
	logger = logger.With(interfaces.Field{Key: "component", Value: "pipeline_controller"})
	return &Controller{
		store:           store,
		notifier:        notifier,
		sitemapParser:   inputs.NewSitemapParser(reader, logger),
		analyticsParser: inputs.NewAnalyticsParser(reader, logger),
		redirectParser:  inputs.NewRedirectMapParser(reader, logger),
		urlListParser:   inputs.NewURLListParser(reader, logger),
		oldExecutor:     probe.NewExecutor(oldClient, logger, cfg.ProbeConfig),
		newExecutor:     probe.NewExecutor(newClient, logger, cfg.ProbeConfig),
		auditor:         auditor,
		cfg:             cfg,
		logger:          logger,
	}
}

type stageFunc func(ctx context.Context, project *model.Project, st *runState) error

type stageStep struct {
	tag model.StageTag
	run stageFunc
}

func (c *Controller) stages() []stageStep {
	return []stageStep{
		{model.StageParsingSitemaps, c.stageParsingSitemaps},
		{model.StageParsingAnalytics, c.stageParsingAnalytics},
		{model.StageParsingRedirects, c.stageParsingRedirects},
		{model.StageComparingURLs, c.stageComparingURLs},
		{model.StageCheckingOldURLs, c.stageCheckingOldURLs},
		{model.StageCheckingNewURLs, c.stageCheckingNewURLs},
		{model.StageValidatingSEO, c.stageValidatingSEO},
		{model.StageFinalizing, c.stageFinalizing},
		{model.StageTestingPerformance, c.stageTestingPerformance},
		{model.StageTestingMobile, c.stageTestingMobile},
	}
}

// Run drives project through every stage in order. On success, project.Status becomes
// completed with progress at 100%. On any stage error, project.Status becomes failed,
// the last completed percentage is preserved, and no further stages run; the returned
// stage error is also what's stamped onto project.Progress.Error. An error from a
// checkpoint Save is returned as-is and does not mark the project failed.
func (c *Controller) Run(ctx context.Context, project *model.Project) error {
	return c.RunWithProgress(ctx, project, nil)
}

// RunWithProgress is Run plus a hook invoked after every successful stage checkpoint,
// letting a Runner mirror stage-by-stage progress onto a Job's event stream without
// the Controller holding any per-job state itself.
func (c *Controller) RunWithProgress(ctx context.Context, project *model.Project, onCheckpoint func(model.StageTag, int)) error {
	project.Status = model.ProjectProcessing
	if project.Progress.StartedAt.IsZero() {
		project.Progress.StartedAt = time.Now().UTC()
	}

	st := &runState{}

	for _, step := range c.stages() {
		if err := step.run(ctx, project, st); err != nil {
			stageErr := newStageError(step.tag, err)
			c.failProject(ctx, project, stageErr)
			return stageErr
		}

		project.Progress.Stage = step.tag
		project.Progress.Percentage = model.PercentFor(step.tag)
		if err := c.store.Save(ctx, project); err != nil {
			return fmt.Errorf("pipeline: checkpoint after stage %s: %w", step.tag, err)
		}
		if onCheckpoint != nil {
			onCheckpoint(step.tag, project.Progress.Percentage)
		}
	}

	now := time.Now().UTC()
	project.Status = model.ProjectCompleted
	project.Progress.Stage = model.StageCompleted
	project.Progress.Percentage = model.PercentFor(model.StageCompleted)
	project.Progress.CompletedAt = &now

	if err := c.store.Save(ctx, project); err != nil {
		return fmt.Errorf("pipeline: checkpoint at completion: %w", err)
	}
	if onCheckpoint != nil {
		onCheckpoint(model.StageCompleted, 100)
	}
	c.notifyCompleted(ctx, project)
	return nil
}

// notifyCompleted and notifyFailed are best-effort: delivery failures are logged, never
// propagated, and a nil notifier is a silent no-op.
func (c *Controller) notifyCompleted(ctx context.Context, project *model.Project) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.NotifyCompleted(ctx, project); err != nil {
		c.logger.Warn("pipeline: completion notification failed",
			interfaces.Field{Key: "project_id", Value: project.ID},
			interfaces.Field{Key: "error", Value: err.Error()})
	}
}

func (c *Controller) notifyFailed(ctx context.Context, project *model.Project, reason string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.NotifyFailed(ctx, project, reason); err != nil {
		c.logger.Warn("pipeline: failure notification failed",
			interfaces.Field{Key: "project_id", Value: project.ID},
			interfaces.Field{Key: "error", Value: err.Error()})
	}
}

// failProject stamps the terminal failure state onto project and best-effort persists
// it. It deliberately preserves project.Progress.Percentage at whatever the last
// successful stage left it at.
func (c *Controller) failProject(ctx context.Context, project *model.Project, stageErr *StageError) {
	project.Status = model.ProjectFailed
	project.Progress.Stage = model.StageFailed
	project.Progress.Error = stageErr.Error()

	if err := c.store.Save(ctx, project); err != nil {
		c.logger.Error("pipeline: failed to checkpoint failure state",
			interfaces.Field{Key: "project_id", Value: project.ID},
			interfaces.Field{Key: "error", Value: err.Error()})
	}
	c.notifyFailed(ctx, project, stageErr.Error())
}
