package savesearch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/common/validation"
	"recruit-workers/internal/identity"
	"recruit-workers/internal/models"
	"recruit-workers/internal/workers/data-access/query-postgresql/queries"
)

const (
	TaskType = "save-search"
)

type IdentityResolver interface {
	Require(ctx context.Context, userID string) (identity.Identity, error)
}

type Handler struct {
	config   *Config
	db       *sql.DB
	identity IdentityResolver
	notifier AlertNotifier
	logger   logger.Logger
	failures *apperrors.ErrorHandler
}

// NewHandler accepts a nil notifier when alerts are not configured.
func NewHandler(config *Config, db *sql.DB, resolver IdentityResolver, notifier AlertNotifier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		db:       db,
		identity: resolver,
		notifier: notifier,
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

	name := strings.TrimSpace(input.Name)
	query := strings.TrimSpace(input.Query)
	if name == "" || query == "" {
		return &Output{Saved: false}, nil
	}

	id, err := h.identity.Require(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	filters, err := validation.ParseFilters(input.Filters)
	if err != nil {
		return nil, err
	}

	saved := models.SavedSearch{
		ID:             uuid.NewString(),
		UserID:         id.Profile.ID,
		Name:           name,
		Query:          query,
		Filters:        filters,
		AlertFrequency: normalizeFrequency(input.AlertFrequency),
		CreatedAt:      time.Now().UTC(),
	}

	if err := queries.InsertSavedSearch(ctx, h.db, saved); err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	output := &Output{Saved: true, SavedSearchID: saved.ID}

	if saved.AlertFrequency != nil && h.notifier != nil {
		if err := h.notifier.AlertSubscribed(ctx, saved, id.Profile); err != nil {
			h.logger.Warn("failed to announce saved search alert", map[string]interface{}{
				"savedSearchId": saved.ID,
				"error":         err.Error(),
			})
		} else {
			output.AlertNotified = true
		}
	}

	return output, nil
}

func normalizeFrequency(freq *string) *string {
	if freq == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*freq)
	if trimmed == "" {
		return nil
	}
	return &trimmed
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
