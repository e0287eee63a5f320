package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wms-platform/tarima-dispatch/internal/activities"
	"github.com/wms-platform/tarima-dispatch/internal/infrastructure/inventoryapi"
	"github.com/wms-platform/tarima-dispatch/internal/workflows"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/metrics"
	"github.com/wms-platform/tarima-dispatch/pkg/temporal"
)

const serviceName = "tarima-dispatch-worker"

func main() {
	_ = godotenv.Load()

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting tarima-dispatch worker")

	config := loadConfig()

	ctx := context.Background()
	temporalClient, err := temporal.NewClient(ctx, config.Temporal)
	if err != nil {
		logger.WithError(err).Error("Failed to create Temporal client")
		os.Exit(1)
	}
	defer temporalClient.Close()
	logger.Info("Connected to Temporal", "hostPort", config.Temporal.HostPort, "namespace", config.Temporal.Namespace)

	// the worker has no scrape endpoint; metrics only feed the breaker hooks
	m := metrics.New(metrics.DefaultConfig(serviceName))

	inventoryConfig := inventoryapi.DefaultConfig(config.InventoryAPIURL)
	inventoryConfig.Timeout = config.InventoryAPITimeout
	inventory := inventoryapi.NewClient(inventoryConfig, m, logger)

	releaseActivities := activities.NewReleaseActivities(inventory, logger)

	w := temporalClient.NewWorker(temporal.DefaultWorkerOptions(temporal.TaskQueues.ReleaseRetry))

	w.RegisterWorkflow(workflows.ReleaseRetryWorkflow)
	logger.Info("Registered workflows", "workflows", []string{temporal.WorkflowNames.ReleaseRetry})

	w.RegisterActivity(releaseActivities)
	logger.Info("Registered activities", "activities", []string{
		temporal.ActivityNames.FetchNextReleaseSequence,
		temporal.ActivityNames.CreateRelease,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(nil)
	}()
	logger.Info("Worker started", "taskQueue", temporal.TaskQueues.ReleaseRetry)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down worker...")
		w.Stop()
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Error("Worker failed")
			os.Exit(1)
		}
	}

	logger.Info("Worker stopped")
}

// Config holds worker configuration
type Config struct {
	Temporal            *temporal.Config
	InventoryAPIURL     string
	InventoryAPITimeout time.Duration
}

func loadConfig() *Config {
	timeout := inventoryapi.DefaultTimeout
	if value, err := time.ParseDuration(os.Getenv("INVENTORY_API_TIMEOUT")); err == nil && value > 0 {
		timeout = value
	}

	return &Config{
		Temporal: &temporal.Config{
			HostPort:  getEnv("TEMPORAL_HOST", "localhost:7233"),
			Namespace: getEnv("TEMPORAL_NAMESPACE", "default"),
			Identity:  serviceName,
		},
		InventoryAPIURL:     getEnv("INVENTORY_API_URL", "http://localhost:8081"),
		InventoryAPITimeout: timeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
