// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recruit-workers/internal/api"
	"recruit-workers/internal/common/auth"
	awsclients "recruit-workers/internal/common/aws"
	"recruit-workers/internal/common/camunda"
	"recruit-workers/internal/common/config"
	"recruit-workers/internal/common/database"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/observability"
	"recruit-workers/internal/history"
	"recruit-workers/internal/identity"
	"recruit-workers/internal/voice"

	cd "recruit-workers/internal/workers/dashboard/compose-dashboard"
	qe "recruit-workers/internal/workers/data-access/query-elasticsearch"
	qp "recruit-workers/internal/workers/data-access/query-postgresql"
	"recruit-workers/internal/workers/data-access/query-postgresql/queries"
	xs "recruit-workers/internal/workers/search/execute-search"
	ls "recruit-workers/internal/workers/search/list-searches"
	ss "recruit-workers/internal/workers/search/save-search"
	vs "recruit-workers/internal/workers/voice/voice-search"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("searchBackend", cfg.Search.Backend),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()
	if cfg.Tracing.Enabled {
		if err := obs.EnableTracing(cfg.App.Name, cfg.Tracing.JaegerEndpoint); err != nil {
			zapLog.Warn("tracing disabled", zap.Error(err))
		}
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	if cfg.Search.Backend == config.BackendElasticsearch || cfg.Database.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	checks := map[string]func(context.Context) error{
		"postgres": pg.Ping,
		"redis":    redis.Ping,
	}
	if esClient != nil {
		checks["elasticsearch"] = esClient.Ping
	}

	// --- Shared services ---
	resolver := identity.NewResolver(pg.DB, redis, time.Duration(cfg.Database.Redis.ProfileTTL)*time.Second, log)

	recorder := history.NewRecorder(pg.DB, cfg.History, log)

	var backend xs.Backend = xs.NewPostgresBackend(pg.DB)
	if cfg.Search.Backend == config.BackendElasticsearch {
		backend = xs.NewElasticsearchBackend(esClient.Client,
			cfg.Database.Elasticsearch.JobsIndex, cfg.Database.Elasticsearch.CandidateIndex)
	}

	sessions := voice.NewSessions(voice.NewRecognizer(cfg.Voice))
	if !cfg.Voice.Enabled {
		zapLog.Info("voice recognition disabled")
	}

	notifier := buildAlertNotifier(ctx, cfg, log, zapLog)

	// --- Handlers ---
	workerTimeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}
	workerRetries := func(taskType string) int {
		return config.GetWorkerConfig(cfg, taskType).MaxRetries
	}

	queryPostgres := qp.NewHandler(&qp.Config{
		Timeout:    workerTimeout(qp.TaskType),
		MaxRetries: workerRetries(qp.TaskType),
	}, pg.DB, log)

	var queryElastic *qe.Handler
	if esClient != nil {
		queryElastic = qe.NewHandler(&qe.Config{
			Timeout:         workerTimeout(qe.TaskType),
			MaxRetries:      workerRetries(qe.TaskType),
			JobsIndex:       cfg.Database.Elasticsearch.JobsIndex,
			CandidatesIndex: cfg.Database.Elasticsearch.CandidateIndex,
		}, esClient.Client, log)
	}

	dashboard := cd.NewHandler(&cd.Config{
		Timeout:            workerTimeout(cd.TaskType),
		MaxRetries:         workerRetries(cd.TaskType),
		MaxConcurrentReads: 3,
	}, pg.DB, resolver, log)

	search := xs.NewHandler(&xs.Config{
		Timeout:      workerTimeout(xs.TaskType),
		MaxRetries:   workerRetries(xs.TaskType),
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
	}, resolver, recorder, backend, log)

	save := ss.NewHandler(&ss.Config{
		Timeout:    workerTimeout(ss.TaskType),
		MaxRetries: workerRetries(ss.TaskType),
	}, pg.DB, resolver, notifier, log)

	list := ls.NewHandler(&ls.Config{
		Timeout:      workerTimeout(ls.TaskType),
		MaxRetries:   workerRetries(ls.TaskType),
		HistoryLimit: cfg.Search.HistoryLimit,
		MaxLimit:     queries.MaxHistoryLimit,
	}, pg.DB, resolver, log)

	voiceSearch := vs.NewHandler(&vs.Config{
		Timeout:    workerTimeout(vs.TaskType),
		MaxRetries: workerRetries(vs.TaskType),
	}, resolver, sessions, search, log)

	// --- Zeebe workers ---
	var workers []*camunda.Worker
	var zeebe *camunda.Client
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
			RetryConfig: &camunda.RetryConfig{
				MaxRetries: 10,
				BaseDelay:  2 * time.Second,
				MaxDelay:   30 * time.Second,
			},
		})
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		checks["zeebe"] = zeebe.HealthCheck
		zapLog.Info("Zeebe client connected successfully")

		handlers := map[string]camunda.HandlerFunc{
			qp.TaskType: queryPostgres.Handle,
			cd.TaskType: dashboard.Handle,
			xs.TaskType: search.Handle,
			ss.TaskType: save.Handle,
			ls.TaskType: list.Handle,
			vs.TaskType: voiceSearch.Handle,
		}
		if queryElastic != nil {
			handlers[qe.TaskType] = queryElastic.Handle
		}

		for taskType, handle := range handlers {
			wcfg := config.GetWorkerConfig(cfg, taskType)
			if !wcfg.Enabled {
				zapLog.Info("worker disabled", zap.String("taskType", taskType))
				continue
			}
			workers = append(workers, camunda.NewWorker(zeebe.GetClient(), camunda.WorkerOptions{
				TaskType:      taskType,
				MaxJobsActive: wcfg.MaxJobsActive,
				Timeout:       config.GetDuration(wcfg.Timeout),
			}, handle, obs, log))
		}
		zapLog.Info("All workers registered", zap.Int("count", len(workers)))
	}

	// --- HTTP API ---
	deps := api.Deps{
		Dashboard: dashboard,
		Search:    search,
		Voice:     voiceSearch,
		Save:      save,
		List:      list,
		Profiles:  resolver,
		Checks:    checks,
	}
	if cfg.Auth.KeycloakEnabled() {
		deps.Sessions = auth.NewKeycloakClient(
			cfg.Auth.Keycloak.URL,
			cfg.Auth.Keycloak.Realm,
			cfg.Auth.Keycloak.ClientID,
			cfg.Auth.Keycloak.ClientSecret,
		)
	} else {
		zapLog.Warn("keycloak not configured, trusting X-User-ID header")
	}

	server := api.NewServer(cfg.Server, deps, log)
	go func() {
		if err := server.Start(); err != nil {
			zapLog.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		w.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("HTTP server shutdown", zap.Error(err))
	}

	recorder.Close()

	zapLog.Info("Worker manager stopped")
}

// buildAlertNotifier returns nil unless SNS or SES is enabled.
func buildAlertNotifier(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) ss.AlertNotifier {
	awsCfg := cfg.Integrations.AWS

	var snsService awsclients.SNSService
	if awsCfg.SNS.Enabled {
		client, err := awsclients.NewSNSClient(ctx, awsCfg.Region)
		if err != nil {
			zapLog.Warn("SNS client unavailable, search alerts will not be published", zap.Error(err))
		} else {
			snsService = client
		}
	}

	var sesService awsclients.SESService
	if awsCfg.SES.Enabled {
		client, err := awsclients.NewSESClient(ctx, awsCfg.Region)
		if err != nil {
			zapLog.Warn("SES client unavailable, alert confirmations will not be emailed", zap.Error(err))
		} else {
			sesService = client
		}
	}

	if snsService == nil && sesService == nil {
		return nil
	}
	return ss.NewAWSAlertNotifier(snsService, sesService, awsCfg.SNS.TopicARN, awsCfg.SES.FromEmail, log)
}
