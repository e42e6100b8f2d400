// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// HandlerFunc is the signature every worker package's Handle method has.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// WorkerOptions configures one job worker subscription.
type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
}

// Worker is an open job worker subscription.
type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// Job outcomes recorded per task type.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusThrown    = "error_thrown"
	StatusNoCommand = "no_command"
)

// outcomeClient remembers which terminal command the handler issued.
type outcomeClient struct {
	worker.JobClient
	status string
}

func (c *outcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.status = StatusCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.status = StatusFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.status = StatusThrown
	return c.JobClient.NewThrowErrorCommand()
}

// Instrument wraps handler so every job is timed in Prometheus and counted and
// timed in OpenTelemetry by outcome.
func Instrument(taskType string, handler HandlerFunc, obs *observability.Observability) HandlerFunc {
	return func(c worker.JobClient, job entities.Job) {
		start := time.Now()
		oc := &outcomeClient{JobClient: c, status: StatusNoCommand}
		handler(oc, job)
		elapsed := time.Since(start)

		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if obs != nil {
			ctx := context.Background()
			obs.RecordJobProcessed(ctx, taskType, oc.status)
			obs.RecordJobDuration(ctx, taskType, elapsed, oc.status)
		}
	}
}

// NewWorker opens an instrumented job worker for opts.TaskType.
func NewWorker(client zbc.Client, opts WorkerOptions, handler HandlerFunc, obs *observability.Observability, log logger.Logger) *Worker {
	log = log.WithFields(map[string]interface{}{"taskType": opts.TaskType})

	step := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(worker.JobHandler(Instrument(opts.TaskType, handler, obs))).
		MaxJobsActive(opts.MaxJobsActive)

	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}

	w := &Worker{worker: step.Open(), logger: log, taskType: opts.TaskType}
	log.Info("worker started", map[string]interface{}{"maxJobsActive": opts.MaxJobsActive})
	return w
}

// Close stops polling and waits for in-flight jobs.
func (w *Worker) Close() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
