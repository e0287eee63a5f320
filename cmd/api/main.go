package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/wms-platform/tarima-dispatch/docs"
	"github.com/wms-platform/tarima-dispatch/internal/api"
	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/internal/infrastructure/durable"
	"github.com/wms-platform/tarima-dispatch/internal/infrastructure/eventbus"
	"github.com/wms-platform/tarima-dispatch/internal/infrastructure/inventoryapi"
	"github.com/wms-platform/tarima-dispatch/internal/infrastructure/spreadsheet"
	"github.com/wms-platform/tarima-dispatch/pkg/cloudevents"
	"github.com/wms-platform/tarima-dispatch/pkg/contracts/openapi"
	apperrors "github.com/wms-platform/tarima-dispatch/pkg/errors"
	"github.com/wms-platform/tarima-dispatch/pkg/kafka"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/metrics"
	"github.com/wms-platform/tarima-dispatch/pkg/resilience"
	"github.com/wms-platform/tarima-dispatch/pkg/temporal"
	"github.com/wms-platform/tarima-dispatch/pkg/tracing"
)

const serviceName = "tarima-dispatch"

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(context.Background(), loadConfig(), signalCh); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config *Config, signalCh <-chan os.Signal) error {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.ParseLevel(config.LogLevel)
	logConfig.Environment = config.Environment
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting tarima-dispatch API")

	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = config.OTLPEndpoint
	tracingConfig.Environment = config.Environment
	tracingConfig.Enabled = config.TracingEnabled

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))

	defaults, err := loadReleaseDefaults(config.ReleaseDefaultsFile, config.ReleaseDefaults)
	if err != nil {
		return err
	}

	inventoryConfig := inventoryapi.DefaultConfig(config.InventoryAPIURL)
	inventoryConfig.Timeout = config.InventoryAPITimeout
	inventory := inventoryapi.NewClient(inventoryConfig, m, logger)
	logger.Info("Inventory service client configured", "baseUrl", config.InventoryAPIURL)

	session := application.NewSession(application.SessionConfig{
		WeightLimitKg:  config.WeightLimitKg,
		AutoClearDelay: config.AutoClearDelay,
	}, m, logger)
	fetcher := application.NewInventoryFetcher(inventory, session, logger)
	creator := application.NewReleaseCreator(inventory, defaults, logger)

	var publisher application.EventPublisher
	if len(config.KafkaBrokers) > 0 {
		kafkaConfig := kafka.DefaultConfig()
		kafkaConfig.Brokers = config.KafkaBrokers
		kafkaConfig.ClientID = serviceName
		producer := kafka.NewInstrumentedProducer(kafka.NewProducer(kafkaConfig), m, logger)
		defer func() {
			_ = producer.Close()
		}()

		publisher = eventbus.NewEventPublisher(producer, cloudevents.NewEventFactory(cloudevents.SourceDispatch), kafka.Topics.TarimaEvents)
		logger.Info("Kafka event publishing enabled", "brokers", config.KafkaBrokers, "topic", kafka.Topics.TarimaEvents)
	} else {
		logger.Info("Kafka event publishing disabled")
	}

	submission := application.NewSubmissionWorkflow(session, inventory, creator, fetcher, publisher, application.SubmissionConfig{
		SuccessDelay: config.SubmissionSuccessDelay,
		ErrorDelay:   config.SubmissionErrorDelay,
	}, m, logger)

	if config.Temporal != nil {
		temporalClient, err := temporal.NewClient(ctx, config.Temporal)
		if err != nil {
			logger.WithError(err).Warn("Durable release retry disabled: Temporal unavailable")
		} else {
			defer temporalClient.Close()
			submission.WithDurableRetrier(durable.NewReleaseRetrier(temporalClient, defaults, logger))
			logger.Info("Connected to Temporal", "hostPort", config.Temporal.HostPort, "namespace", config.Temporal.Namespace)
		}
	}

	contract, err := openapi.NewValidatorFromBytes(docs.OpenAPI)
	if err != nil {
		return fmt.Errorf("failed to load API contract: %w", err)
	}

	router := api.NewRouter(api.RouterConfig{
		ServiceName: serviceName,
		Logger:      logger,
		Metrics:     m,
		Contract:    contract,
		Ready: func() error {
			if status := inventory.BreakerStatus(); status.State == "open" {
				return fmt.Errorf("inventory service circuit breaker is open")
			}
			return nil
		},
	}, api.Services{
		Session:    session,
		Fetcher:    fetcher,
		Submission: submission,
		Orders:     application.NewOrderImportService(session, spreadsheet.NewReader(), logger),
		Releases:   application.NewReleaseService(inventory, logger),
		Exports:    application.NewExportService(inventory, session, spreadsheet.NewExporter(), logger),
	})

	// initial load; the operator can refresh later
	retry := resilience.DefaultRetryConfig()
	retry.RetryableErrors = retryableFetchError
	if _, err := resilience.RetryWithResult(ctx, retry, func() (*application.InventoryViewDTO, error) {
		return fetcher.Refresh(ctx)
	}); err != nil {
		logger.WithError(err).Warn("Initial inventory fetch failed")
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 4 * config.InventoryAPITimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	select {
	case <-signalCh:
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
	return nil
}

// Config holds application configuration
type Config struct {
	ServerAddr             string
	LogLevel               string
	Environment            string
	InventoryAPIURL        string
	InventoryAPITimeout    time.Duration
	WeightLimitKg          float64
	ReleaseDefaults        domain.ReleaseDefaults
	ReleaseDefaultsFile    string
	SubmissionSuccessDelay time.Duration
	SubmissionErrorDelay   time.Duration
	AutoClearDelay         time.Duration
	KafkaBrokers           []string
	// Temporal is nil when TEMPORAL_HOST is unset
	Temporal               *temporal.Config
	OTLPEndpoint           string
	TracingEnabled         bool
}

func loadConfig() *Config {
	defaults := domain.DefaultReleaseDefaults()
	defaults.CompanyID = getEnvInt("RELEASE_COMPANY_ID", defaults.CompanyID)
	defaults.SalesCSRNames = getEnv("RELEASE_SALES_CSR", defaults.SalesCSRNames)
	delays := application.DefaultSubmissionConfig()
	session := application.DefaultSessionConfig()

	config := &Config{
		ServerAddr:             getEnv("SERVER_ADDR", ":8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		InventoryAPIURL:        getEnv("INVENTORY_API_URL", "http://localhost:8081"),
		InventoryAPITimeout:    getEnvDuration("INVENTORY_API_TIMEOUT", inventoryapi.DefaultTimeout),
		WeightLimitKg:          getEnvFloat("WEIGHT_LIMIT_KG", session.WeightLimitKg),
		ReleaseDefaults:        defaults,
		ReleaseDefaultsFile:    getEnv("RELEASE_DEFAULTS_FILE", ""),
		SubmissionSuccessDelay: getEnvDuration("SUBMISSION_SUCCESS_DELAY", delays.SuccessDelay),
		SubmissionErrorDelay:   getEnvDuration("SUBMISSION_ERROR_DELAY", delays.ErrorDelay),
		AutoClearDelay:         getEnvDuration("AUTO_CLEAR_DELAY", session.AutoClearDelay),
		KafkaBrokers:           kafka.ParseBrokers(getEnv("KAFKA_BROKERS", "")),
		OTLPEndpoint:           getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled:         getEnv("TRACING_ENABLED", "false") == "true",
	}

	if host := getEnv("TEMPORAL_HOST", ""); host != "" {
		config.Temporal = &temporal.Config{
			HostPort:  host,
			Namespace: getEnv("TEMPORAL_NAMESPACE", "default"),
			Identity:  serviceName + "-api",
		}
	}
	return config
}

// loadReleaseDefaults overlays the YAML file at path on base. An empty path returns base.
func loadReleaseDefaults(path string, base domain.ReleaseDefaults) (domain.ReleaseDefaults, error) {
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read release defaults: %w", err)
	}

	defaults := base
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return base, fmt.Errorf("failed to parse release defaults %s: %w", path, err)
	}
	return defaults, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

// retryableFetchError reports whether a failed inventory fetch is worth another
// attempt: transport failures and 5xx answers, but never an open breaker.
func retryableFetchError(err error) bool {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return false
	}
	var remote *inventoryapi.RemoteError
	if errors.As(err, &remote) {
		return !remote.IsClientError()
	}
	appErr, ok := apperrors.AsAppError(err)
	return ok && appErr.Code == apperrors.CodeServiceUnavailable
}
