package composedashboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/identity"
	"recruit-workers/internal/models"
	"recruit-workers/internal/workers/data-access/query-postgresql/queries"
)

const (
	TaskType = "compose-dashboard"
)

var tracer = otel.Tracer("recruit-workers/compose-dashboard")

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

	ctx, span := tracer.Start(ctx, TaskType)
	defer span.End()

	id, err := h.identity.Resolve(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !id.IsLoaded() {
		metrics.DashboardViews.WithLabelValues("", string(models.ViewStateLoading)).Inc()
		return &Output{View: LoadingView()}, nil
	}

	profile := id.Profile
	span.SetAttributes(attribute.String("role", string(profile.Role)))

	stats := h.aggregate(ctx, profile)
	view := BuildView(profile, stats)

	metrics.DashboardViews.WithLabelValues(string(profile.Role), string(view.State)).Inc()
	return &Output{View: view}, nil
}

// aggregate runs the three dashboard reads concurrently and joins them.
// Any failure yields the default stats; partial results are discarded.
func (h *Handler) aggregate(ctx context.Context, profile *models.Profile) models.DashboardStats {
	var (
		jobs         []models.Job
		applications []models.Application
		candidates   []models.Candidate
	)

	companyID := profile.CompanyIDOrEmpty()
	scoped := map[string]interface{}{"companyId": companyID}

	p := pool.New().
		WithMaxGoroutines(h.maxReads()).
		WithContext(ctx).
		WithCancelOnError()

	if companyID != "" {
		p.Go(func(ctx context.Context) error {
			data, _, _, err := queries.JobsByCompany(ctx, h.db, scoped)
			if err != nil {
				return fmt.Errorf("jobs: %w", err)
			}
			jobs = data.([]models.Job)
			return nil
		})
		p.Go(func(ctx context.Context) error {
			data, _, _, err := queries.ApplicationsByCompany(ctx, h.db, scoped)
			if err != nil {
				return fmt.Errorf("applications: %w", err)
			}
			applications = data.([]models.Application)
			return nil
		})
	}
	p.Go(func(ctx context.Context) error {
		data, _, _, err := queries.Candidates(ctx, h.db, nil)
		if err != nil {
			return fmt.Errorf("candidates: %w", err)
		}
		candidates = data.([]models.Candidate)
		return nil
	})

	if err := p.Wait(); err != nil {
		metrics.DashboardReadFailures.WithLabelValues(string(profile.Role)).Inc()
		h.logger.Error("dashboard aggregation failed, using defaults", map[string]interface{}{
			"userId": profile.ID,
			"error":  err.Error(),
		})
		return models.DefaultDashboardStats()
	}

	return ComputeStats(jobs, applications, candidates)
}

func (h *Handler) maxReads() int {
	if h.config.MaxConcurrentReads > 0 {
		return h.config.MaxConcurrentReads
	}
	return 3
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
