package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
)

// JobEventType distinguishes the kind of update carried on a Job's event channel.
type JobEventType string

const (
	JobEventStatus JobEventType = "status"
	JobEventStage  JobEventType = "stage"
	JobEventResult JobEventType = "result"
)

// JobStatus tracks the lifecycle of one asynchronous audit run.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// JobEvent is one update emitted on a Job's Events channel as the audit progresses.
type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	Stage      model.StageTag `json:"stage,omitempty"`
	Percentage int            `json:"percentage,omitempty"`
}

// Job tracks one Controller.Run invocation, driven asynchronously by a Runner.
type Job struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Events chan JobEvent `json:"-"`
}

// Runner wraps a Controller so callers can kick off an audit and poll or stream its
// progress instead of blocking on Run. It uses a non-blocking job/event pattern: a
// mutex-guarded job map, buffered per-job event channel, and best-effort delivery
// (a full buffer drops the event rather than block the audit).
type Runner struct {
	controller *Controller
	logger     interfaces.Logger

	jobsMu sync.Mutex
	jobs   map[string]*Job
}

// NewRunner wraps controller for asynchronous, event-observable execution.
func NewRunner(controller *Controller, logger interfaces.Logger) *Runner {
	return &Runner{
		controller: controller,
		logger:     logger.With(interfaces.Field{Key: "component", Value: "pipeline_runner"}),
		jobs:       make(map[string]*Job),
	}
}

// Start launches project through the controller in a background goroutine and returns
// immediately with a job ID. project must already be persisted; the controller
// checkpoints it as stages complete.
func (r *Runner) Start(ctx context.Context, project *model.Project) string {
	jobID := uuid.New().String()
	job := &Job{
		ID:        jobID,
		ProjectID: project.ID,
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, 32),
	}

	r.setJob(job)
	r.emit(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobPending})

	go r.run(ctx, jobID, project)

	return jobID
}

func (r *Runner) run(ctx context.Context, jobID string, project *model.Project) {
	defer r.closeJob(jobID)

	r.updateJob(jobID, func(j *Job) { j.Status = JobRunning })
	r.emit(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobRunning})

	err := r.controller.RunWithProgress(ctx, project, func(stage model.StageTag, pct int) {
		r.emit(jobID, JobEvent{JobID: jobID, Type: JobEventStage, Stage: stage, Percentage: pct})
	})

	if err != nil {
		r.updateJob(jobID, func(j *Job) {
			j.Status = JobFailed
			j.Error = err.Error()
		})
		r.emit(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobFailed, Error: err.Error()})
		return
	}

	r.updateJob(jobID, func(j *Job) { j.Status = JobDone })
	r.emit(jobID, JobEvent{JobID: jobID, Type: JobEventResult, Status: JobDone})
}

// GetJob returns the tracked Job, or nil if jobID is unknown.
func (r *Runner) GetJob(jobID string) *Job {
	r.jobsMu.Lock()
	defer r.jobsMu.Unlock()
	return r.jobs[jobID]
}

func (r *Runner) setJob(job *Job) {
	r.jobsMu.Lock()
	defer r.jobsMu.Unlock()
	r.jobs[job.ID] = job
}

func (r *Runner) updateJob(jobID string, mutate func(*Job)) {
	r.jobsMu.Lock()
	defer r.jobsMu.Unlock()
	if j, ok := r.jobs[jobID]; ok {
		mutate(j)
	}
}

func (r *Runner) closeJob(jobID string) {
	r.jobsMu.Lock()
	j, ok := r.jobs[jobID]
	if ok {
		j.EndedAt = time.Now().UTC()
	}
	r.jobsMu.Unlock()

	if ok && j.Events != nil {
		close(j.Events)
	}
}

func (r *Runner) emit(jobID string, ev JobEvent) {
	r.jobsMu.Lock()
	job, ok := r.jobs[jobID]
	r.jobsMu.Unlock()
	if !ok || job.Events == nil {
		return
	}
	select {
	case job.Events <- ev:
	default:
		r.logger.Warn("dropping job event, subscriber too slow", interfaces.Field{Key: "job_id", Value: jobID})
	}
}

