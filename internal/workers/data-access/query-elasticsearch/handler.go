package queryelasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/models"
	"recruit-workers/internal/workers/data-access/query-elasticsearch/queries"
)

const (
	TaskType = "query-elasticsearch"
)

type Handler struct {
	config   *Config
	client   *elasticsearch.Client
	logger   logger.Logger
	failures *apperrors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		client:   client,
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
	if input.Query == "" {
		return nil, apperrors.NewInvalidInputError("query is required")
	}

	index := h.config.IndexFor(input.Target)
	if index == "" {
		return nil, apperrors.NewInvalidQueryTypeError(input.Target)
	}

	sq := queries.SearchQuery{
		Index:  index,
		Target: models.SearchTarget(input.Target),
		Text:   input.Query,
		From:   input.Pagination.From,
		Size:   input.Pagination.Size,
	}
	if input.Filters != nil {
		sq.Filters = *input.Filters
	}

	result, err := queries.Execute(ctx, h.client, sq)
	if err != nil {
		switch {
		case ctx.Err() == context.DeadlineExceeded:
			return nil, apperrors.NewTimeoutError("elasticsearch", err)
		case errors.Is(err, queries.ErrIndexNotFound):
			return nil, apperrors.NewIndexNotFoundError(index)
		case errors.Is(err, queries.ErrTransport):
			return nil, apperrors.NewSearchConnectionFailedError(err)
		default:
			return nil, apperrors.NewSearchQueryFailedError(index, err)
		}
	}

	return &Output{
		Results:   result.Results,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
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
