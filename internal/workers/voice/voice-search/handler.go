package voicesearch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/identity"
	"recruit-workers/internal/voice"
	executesearch "recruit-workers/internal/workers/search/execute-search"
)

const (
	TaskType = "voice-search"
)

type IdentityResolver interface {
	Require(ctx context.Context, userID string) (identity.Identity, error)
}

// Searcher runs the transcript through the regular search path.
type Searcher interface {
	Execute(ctx context.Context, input *executesearch.Input) (*executesearch.Output, error)
}

type Handler struct {
	config   *Config
	identity IdentityResolver
	sessions *voice.Sessions
	search   Searcher
	logger   logger.Logger
	failures *apperrors.ErrorHandler
}

func NewHandler(config *Config, resolver IdentityResolver, sessions *voice.Sessions, search Searcher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		identity: resolver,
		sessions: sessions,
		search:   search,
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

	// no audio leaves the service for callers without a profile
	if _, err := h.identity.Require(ctx, input.UserID); err != nil {
		return nil, err
	}

	transcript, err := h.sessions.Listen(ctx, input.UserID, voice.Request{
		AudioURL: input.AudioURL,
		Language: input.Language,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("voice transcript received", map[string]interface{}{
		"userId": input.UserID,
		"length": len(transcript),
	})

	result, err := h.search.Execute(ctx, &executesearch.Input{
		UserID:  input.UserID,
		Query:   transcript,
		Filters: input.Filters,
		Limit:   input.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &Output{Transcript: transcript, Search: result}, nil
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
