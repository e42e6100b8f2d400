// internal/workers/data-access/query-postgresql/handler.go
package querypostgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/models"
	"recruit-workers/internal/workers/data-access/query-postgresql/queries"
)

const (
	TaskType = "query-postgresql"
)

type Handler struct {
	config   *Config
	db       *sql.DB
	logger   logger.Logger
	failures *apperrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		db:       db,
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

	queryType := models.QueryType(input.QueryType)
	if _, exists := queries.Registry[queryType]; !exists {
		return nil, apperrors.NewInvalidQueryTypeError(input.QueryType)
	}

	data, rowCount, execTime, err := queries.Execute(ctx, h.db, queryType, Params(input))
	if err != nil {
		if errors.Is(err, queries.ErrMissingParam) {
			return nil, apperrors.NewInvalidInputError(err.Error())
		}
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewQueryTimeoutError(input.QueryType)
		}
		return nil, apperrors.NewQueryExecutionFailedError(input.QueryType, err)
	}

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: execTime,
	}, nil
}

// Params converts a job input into registry parameters.
func Params(input *Input) map[string]interface{} {
	params := make(map[string]interface{})
	if input.UserID != "" {
		params["userId"] = input.UserID
	}
	if input.CompanyID != "" {
		params["companyId"] = input.CompanyID
	}
	if input.Query != "" {
		params["query"] = input.Query
	}
	if input.Filters != nil {
		params["filters"] = *input.Filters
	}
	if input.Limit > 0 {
		params["limit"] = input.Limit
	}
	return params
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
