package inventoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/metrics"
	"github.com/wms-platform/tarima-dispatch/pkg/resilience"
	"github.com/wms-platform/tarima-dispatch/pkg/tracing"
)

const (
	// DefaultTimeout bounds a single remote call
	DefaultTimeout = 30 * time.Second

	breakerName = "inventory-service"
	tracerName  = "tarima-dispatch/inventoryapi"
)

// Config holds the inventory service client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	Breaker *resilience.CircuitBreakerConfig
}

// DefaultConfig returns a configuration for the service at baseURL
func DefaultConfig(baseURL string) *Config {
	breaker := resilience.DefaultCircuitBreakerConfig(breakerName)
	return &Config{
		BaseURL: baseURL,
		Timeout: DefaultTimeout,
		Breaker: breaker,
	}
}

// Client talks to the remote inventory and release service
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	tracer     trace.Tracer
	metrics    *metrics.Metrics
	logger     *logging.Logger
}

// NewClient creates a client. metrics may be nil.
func NewClient(config *Config, m *metrics.Metrics, logger *logging.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	breakerConfig := config.Breaker
	if breakerConfig == nil {
		breakerConfig = resilience.DefaultCircuitBreakerConfig(breakerName)
	}
	cbConfig := *breakerConfig
	cbConfig.IsSuccessful = countsAsSuccess
	userHook := breakerConfig.OnStateChange
	cbConfig.OnStateChange = func(name string, from, to gobreaker.State) {
		m.SetCircuitBreakerState(name, int(to))
		if to == gobreaker.StateOpen {
			m.RecordCircuitBreakerTrip(name)
		}
		if userHook != nil {
			userHook(name, from, to)
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    resilience.NewCircuitBreaker(&cbConfig, logger.Logger),
		tracer:     otel.Tracer(tracerName),
		metrics:    m,
		logger:     logger.WithComponent("inventoryapi"),
	}
}

// BreakerStatus reports the circuit breaker state for readiness checks
func (c *Client) BreakerStatus() resilience.CircuitBreakerStatus {
	return c.breaker.Status()
}

// FetchInventory returns every pallet known to the service
func (c *Client) FetchInventory(ctx context.Context) ([]domain.Pallet, error) {
	var pallets []domain.Pallet
	if err := c.doRequest(ctx, OpFetchInventory, http.MethodGet, EndpointPallets, nil, &pallets); err != nil {
		return nil, err
	}
	if pallets == nil {
		pallets = []domain.Pallet{}
	}
	return pallets, nil
}

// MarkAssigned flags the pallets as assigned to a delivery
func (c *Client) MarkAssigned(ctx context.Context, ids []int64) error {
	body := assignRequest{RFIDIDs: ids, AssignedToDelivery: true}
	return c.doRequest(ctx, OpMarkAssigned, http.MethodPut, EndpointAssign, body, nil)
}

// FetchNextReleaseSequence returns the next release sequence number
func (c *Client) FetchNextReleaseSequence(ctx context.Context) (int, error) {
	var resp sequenceResponse
	if err := c.doRequest(ctx, OpNextSequence, http.MethodGet, EndpointNextSequence, nil, &resp); err != nil {
		return 0, err
	}
	return resp.NextSequence, nil
}

// CreateRelease submits a release and returns its reference
func (c *Client) CreateRelease(ctx context.Context, payload *domain.ReleasePayload) (*domain.ReleaseRef, error) {
	var ref domain.ReleaseRef
	if err := c.doRequest(ctx, OpCreateRelease, http.MethodPost, EndpointReleases, payload, &ref); err != nil {
		return nil, err
	}
	if ref.Name == "" {
		ref.Name = payload.Name
	}
	return &ref, nil
}

// ListReleases returns the releases known to the service
func (c *Client) ListReleases(ctx context.Context) ([]domain.Release, error) {
	var releases []domain.Release
	if err := c.doRequest(ctx, OpListReleases, http.MethodGet, EndpointReleases, nil, &releases); err != nil {
		return nil, err
	}
	if releases == nil {
		releases = []domain.Release{}
	}
	return releases, nil
}

// GetRelease returns one release
func (c *Client) GetRelease(ctx context.Context, id int64) (*domain.Release, error) {
	var release domain.Release
	if err := c.doRequest(ctx, OpGetRelease, http.MethodGet, fmt.Sprintf(endpointReleaseFormat, id), nil, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// UpdateRelease replaces the editable fields of a release
func (c *Client) UpdateRelease(ctx context.Context, id int64, update domain.ReleaseUpdate) (*domain.Release, error) {
	var release domain.Release
	if err := c.doRequest(ctx, OpUpdateRelease, http.MethodPut, fmt.Sprintf(endpointReleaseFormat, id), update, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// doRequest performs a JSON request through the circuit breaker
func (c *Client) doRequest(ctx context.Context, operation, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	ctx, span := c.tracer.Start(ctx, "inventory."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.RemoteCallAttributes(operation, method, url)...),
	)
	defer span.End()

	start := time.Now()
	status := 0

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var bodyReader io.Reader
		if body != nil {
			jsonBody, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request body: %w", err)
			}
			bodyReader = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		tracing.InjectHTTPHeaders(ctx, req.Header)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		status = resp.StatusCode

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode >= 400 {
			return newRemoteError(operation, path, resp.StatusCode, respBody)
		}

		if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}
		return nil
	})

	duration := time.Since(start)
	c.metrics.RecordRemoteCall(operation, callOutcome(err), duration)
	c.logger.RemoteCall(ctx, operation, path, status, duration, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func callOutcome(err error) string {
	var remoteErr *RemoteError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &remoteErr):
		return "rejected"
	default:
		return "error"
	}
}
