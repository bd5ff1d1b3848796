// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lending-workers/internal/common/bureau"
	"lending-workers/internal/common/camunda"
	"lending-workers/internal/common/config"
	"lending-workers/internal/common/database"
	"lending-workers/internal/common/documentai"
	"lending-workers/internal/common/kyc"
	"lending-workers/internal/common/logger"
	"lending-workers/internal/common/observability"
	"lending-workers/internal/common/storage"
	"lending-workers/internal/common/vault"

	// Underwriting workers (6)
	acs "lending-workers/internal/workers/underwriting/adjust-credit-score"
	cs "lending-workers/internal/workers/underwriting/compose-scorecard"
	da "lending-workers/internal/workers/underwriting/decide-application"
	df "lending-workers/internal/workers/underwriting/detect-fraud"
	ro "lending-workers/internal/workers/underwriting/run-orchestration"
	vad "lending-workers/internal/workers/underwriting/validate-applicant-data"

	// Portfolio workers (2)
	ar "lending-workers/internal/workers/portfolio/aggregate-risk"
	sra "lending-workers/internal/workers/portfolio/send-risk-alert"

	// Servicing workers (1)
	sdr "lending-workers/internal/workers/servicing/score-draw-request"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Camunda client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

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

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init PII vault and external service clients ---
	piiVault, err := vault.New(cfg.Vault.Secret)
	if err != nil {
		zapLog.Fatal("vault initialization failed", zap.Error(err))
	}

	kycClient := kyc.NewClient(cfg.APIs.KYC)
	bureauClient := bureau.NewClient(cfg.APIs.CreditBureau)
	docaiClient := documentai.NewClient(cfg.APIs.DocumentAI)

	s3Store, err := storage.NewS3Store(ctx,
		cfg.Integrations.AWS.Region,
		cfg.Integrations.AWS.S3.Bucket,
		cfg.Integrations.AWS.S3.PublicBaseURL,
	)
	if err != nil {
		zapLog.Fatal("s3 store initialization failed", zap.Error(err))
	}

	zapLog.Info("All external service clients initialized")

	var workers []*camunda.CamundaWorker
	register := func(taskType string, handler camunda.JobHandler) {
		wcfg := cfg.Workers[taskType]
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		workers = append(workers, camunda.NewWorker(
			zeebeClient, taskType, wcfg.MaxJobsActive,
			time.Duration(wcfg.Timeout)*time.Millisecond,
			handler, zapLog,
		))
	}

	// --- 1. Underwriting: pure scoring workers ---
	register(vad.TaskType, vad.NewHandler(vad.LoadConfig(), log))
	register(acs.TaskType, acs.NewHandler(acs.LoadConfig(), log))
	register(df.TaskType, df.NewHandler(df.LoadConfig(), log))
	register(cs.TaskType, cs.NewHandler(cs.LoadConfig(), log))

	// --- 2. Underwriting: decision and orchestration pipelines ---
	daCfg := da.LoadConfig()
	if cfg.Database.Elasticsearch.AuditIndex != "" {
		daCfg.AuditIndex = cfg.Database.Elasticsearch.AuditIndex
	}
	register(da.TaskType, da.NewHandler(
		daCfg, pg.DB, piiVault,
		kycClient, bureauClient, s3Store, esClient,
		cfg.Features, obs, log,
	))

	register(ro.TaskType, ro.NewHandler(
		ro.LoadConfig(), docaiClient, ro.NewRepository(pg.DB), s3Store, piiVault, log,
	))

	// --- 3. Portfolio workers ---
	register(ar.TaskType, ar.NewHandler(
		ar.LoadConfig(), ar.NewRepository(pg.DB), redisClient.Client,
		cfg.Alerts, cfg.Features, log,
	))

	sraCfg := sra.LoadConfig()
	sraCfg.AWSRegion = cfg.Integrations.AWS.Region
	sraCfg.FromEmail = cfg.Integrations.AWS.SES.FromEmail
	sraCfg.EmailEnabled = cfg.Integrations.AWS.SES.Enabled
	sraCfg.SMSEnabled = cfg.Integrations.AWS.SNS.Enabled
	sraHandler, err := sra.NewHandler(sraCfg, cfg.Alerts, cfg.Features, obs, log)
	if err != nil {
		zapLog.Fatal("failed to create send-risk-alert handler", zap.Error(err))
	}
	register(sra.TaskType, sraHandler)

	// --- 4. Servicing workers ---
	register(sdr.TaskType, sdr.NewHandler(sdr.LoadConfig(), pg.DB, redisClient.Client, log))

	zapLog.Info("All workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())

		addr := fmt.Sprintf(":%d", cfg.App.MetricsPort)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
