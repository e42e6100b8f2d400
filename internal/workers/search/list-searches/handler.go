package listsearches

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/identity"
	"recruit-workers/internal/models"
	"recruit-workers/internal/workers/data-access/query-postgresql/queries"
)

const (
	TaskType = "list-searches"
)

type IdentityResolver interface {
	Resolve(ctx context.Context, userID string) (identity.Identity, error)
}

type Handler struct {
	config   *Config
	db       *sql.DB
	identity IdentityResolver
	logger   logger.Logger
	failures *apperrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, resolver IdentityResolver, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		db:       db,
		identity: resolver,
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

	var queryType models.QueryType
	switch input.Kind {
	case KindHistory:
		queryType = models.QueryTypeSearchHistory
	case KindSaved:
		queryType = models.QueryTypeSavedSearches
	default:
		return nil, apperrors.NewInvalidQueryTypeError(input.Kind)
	}

	output := emptyOutput(input.Kind)

	id, err := h.identity.Resolve(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !id.IsLoaded() {
		return output, nil
	}

	limit := h.config.limit(input.Limit)

	data, count, _, err := queries.Execute(ctx, h.db, queryType, map[string]interface{}{
		"userId": id.Profile.ID,
		"limit":  limit,
	})
	if err != nil {
		h.logger.Error("failed to list searches, returning empty list", map[string]interface{}{
			"userId": id.Profile.ID,
			"kind":   input.Kind,
			"error":  err.Error(),
		})
		return output, nil
	}

	switch v := data.(type) {
	case []models.SearchHistoryEntry:
		output.History = v
	case []models.SavedSearch:
		output.Saved = v
	}
	output.Count = count
	return output, nil
}

func emptyOutput(kind string) *Output {
	out := &Output{Kind: kind}
	if kind == KindHistory {
		out.History = []models.SearchHistoryEntry{}
	} else {
		out.Saved = []models.SavedSearch{}
	}
	return out
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
