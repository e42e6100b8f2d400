package executesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/common/validation"
	"recruit-workers/internal/history"
	"recruit-workers/internal/identity"
	"recruit-workers/internal/models"
)

const (
	TaskType = "execute-search"
)

var tracer = otel.Tracer("recruit-workers/execute-search")

type IdentityResolver interface {
	Require(ctx context.Context, userID string) (identity.Identity, error)
}

type Handler struct {
	config   *Config
	identity IdentityResolver
	history  history.Dispatcher
	backend  Backend
	logger   logger.Logger
	failures *apperrors.ErrorHandler
}

func NewHandler(config *Config, resolver IdentityResolver, recorder history.Dispatcher, backend Backend, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		identity: resolver,
		history:  recorder,
		backend:  backend,
		logger:   log,
		failures: apperrors.NewErrorHandler(log).WithMaxRetries(config.MaxRetries),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidInputError("input cannot be nil")
	}

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return &Output{Results: []models.SearchResult{}, Skipped: true}, nil
	}

	ctx, span := tracer.Start(ctx, TaskType)
	defer span.End()

	id, err := h.identity.Require(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	filters, err := validation.ParseFilters(input.Filters)
	if err != nil {
		return nil, err
	}

	// Dispatched once, before the search, independent of its outcome.
	dispatched := h.history.Record(id.Profile.ID, query, filters)

	target := models.TargetFor(id.Profile.Role)
	span.SetAttributes(
		attribute.String("target", string(target)),
		attribute.String("backend", h.backend.Name()),
	)

	results, err := h.backend.Search(ctx, target, query, filters, h.config.limit(input.Limit))
	if err != nil {
		metrics.SearchesExecuted.WithLabelValues(string(target), h.backend.Name(), "error").Inc()
		h.logger.Error("search failed, returning no results", map[string]interface{}{
			"userId": id.Profile.ID,
			"target": target,
			"error":  err.Error(),
		})
		results = []models.SearchResult{}
	} else {
		metrics.SearchesExecuted.WithLabelValues(string(target), h.backend.Name(), "ok").Inc()
	}

	return &Output{
		Results:           results,
		ResultCount:       len(results),
		Target:            target,
		HistoryDispatched: dispatched,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	h.failures.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
