package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/pkg/errors"
)

func TestSubmissionHandlers_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockSubmissionService{
			runFn: func(ctx context.Context, cmd application.SubmitCommand) (*application.SubmissionResult, error) {
				assert.Equal(t, "Morning load", cmd.Description)
				assert.Equal(t, "maria", cmd.CreatedBy)
				return &application.SubmissionResult{
					ProcessedIDs: []int64{1, 2},
					ReleaseName:  "LOAD_2024-05-17_3",
					LineItems:    1,
				}, nil
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/submissions", `{"description":"Morning load","createdBy":"maria"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"releaseName":"LOAD_2024-05-17_3"`)
	})

	t.Run("empty body uses operator fallback", func(t *testing.T) {
		service := &mockSubmissionService{
			runFn: func(ctx context.Context, cmd application.SubmitCommand) (*application.SubmissionResult, error) {
				assert.Equal(t, defaultOperator, cmd.CreatedBy)
				return &application.SubmissionResult{NoOp: true}, nil
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/submissions", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"noOp":true`)
	})

	t.Run("chunked body is bound", func(t *testing.T) {
		service := &mockSubmissionService{
			runFn: func(ctx context.Context, cmd application.SubmitCommand) (*application.SubmissionResult, error) {
				assert.Equal(t, "Night load", cmd.Description)
				assert.Equal(t, "keep dry", cmd.Notes)
				return &application.SubmissionResult{ProcessedIDs: []int64{4}}, nil
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/submissions",
			io.NopCloser(strings.NewReader(`{"description":"Night load","notes":"keep dry"}`)))
		req.ContentLength = -1
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("empty chunked body uses operator fallback", func(t *testing.T) {
		service := &mockSubmissionService{
			runFn: func(ctx context.Context, cmd application.SubmitCommand) (*application.SubmissionResult, error) {
				assert.Equal(t, defaultOperator, cmd.CreatedBy)
				return &application.SubmissionResult{NoOp: true}, nil
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/submissions", io.NopCloser(strings.NewReader("")))
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("release pending is critical", func(t *testing.T) {
		service := &mockSubmissionService{
			runFn: func(ctx context.Context, cmd application.SubmitCommand) (*application.SubmissionResult, error) {
				return nil, &application.ReleasePendingError{
					ProcessedIDs: []int64{1, 2, 3},
					Cause:        errors.ErrServiceUnavailable("inventory service"),
				}
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/submissions", `{}`)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), errors.CodeReleasePending)
		assert.Contains(t, rec.Body.String(), `"severity":"critical"`)
		assert.Contains(t, rec.Body.String(), `"processedPallets":"3"`)
	})

	t.Run("already running", func(t *testing.T) {
		service := &mockSubmissionService{
			runFn: func(ctx context.Context, cmd application.SubmitCommand) (*application.SubmissionResult, error) {
				return nil, errors.ErrSubmissionInProgress()
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/submissions", `{}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("description too long", func(t *testing.T) {
		router := newTestRouter(NewSubmissionHandlers(&mockSubmissionService{}, testLogger()))
		long := make([]byte, 501)
		for i := range long {
			long[i] = 'a'
		}

		rec := performRequest(router, http.MethodPost, "/api/v1/submissions", `{"description":"`+string(long)+`"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmissionHandlers_State(t *testing.T) {
	service := &mockSubmissionService{
		snapshotFn: func() *application.SubmissionSnapshot {
			return &application.SubmissionSnapshot{State: string(application.StateCreatingRelease), Busy: true}
		},
	}
	router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

	rec := performRequest(router, http.MethodGet, "/api/v1/submissions/state", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"creating-release"`)
	assert.Contains(t, rec.Body.String(), `"busy":true`)
}

func TestSubmissionHandlers_PendingRelease(t *testing.T) {
	t.Run("retry", func(t *testing.T) {
		service := &mockSubmissionService{
			retryFn: func(ctx context.Context) (*application.SubmissionResult, error) {
				return &application.SubmissionResult{ProcessedIDs: []int64{4}, ReleaseName: "LOAD_2024-05-17_1"}, nil
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/submissions/pending/retry", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"processedIds":[4]`)
	})

	t.Run("retry without pending release", func(t *testing.T) {
		service := &mockSubmissionService{
			retryFn: func(ctx context.Context) (*application.SubmissionResult, error) {
				return nil, errors.ErrNotFound("pending release")
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/submissions/pending/retry", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("durable", func(t *testing.T) {
		service := &mockSubmissionService{
			durableFn: func(ctx context.Context, operator string) (string, error) {
				assert.Equal(t, defaultOperator, operator)
				return "run-123", nil
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/submissions/pending/durable", "")

		require.Equal(t, http.StatusAccepted, rec.Code)
		assert.Contains(t, rec.Body.String(), `"runId":"run-123"`)
	})

	t.Run("durable unavailable", func(t *testing.T) {
		service := &mockSubmissionService{
			durableFn: func(ctx context.Context, operator string) (string, error) {
				return "", errors.ErrServiceUnavailable("durable release retry")
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/submissions/pending/durable", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("discard", func(t *testing.T) {
		service := &mockSubmissionService{
			discardFn: func(ctx context.Context, operator string) (*application.PendingReleaseDTO, error) {
				return &application.PendingReleaseDTO{PalletIDs: []int64{8, 9}}, nil
			},
		}
		router := newTestRouter(NewSubmissionHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodDelete, "/api/v1/submissions/pending", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"palletIds":[8,9]`)
	})
}
