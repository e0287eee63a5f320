package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/errors"
)

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/import/xlsx", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestOrderHandlers_ImportText(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockOrderService{
			importTextFn: func(ctx context.Context, cmd application.ImportOrdersCommand) (*application.OrderImportDTO, error) {
				assert.Equal(t, "PO-1\tITEM-1", cmd.Text)
				return &application.OrderImportDTO{
					Pairs:   []domain.OrderKey{{PONumber: "PO-1", ItemNumber: "ITEM-1"}},
					Matched: 4,
				}, nil
			},
		}
		router := newTestRouter(NewOrderHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/orders/import", `{"text":"PO-1\tITEM-1"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"matchedPallets":4`)
	})

	t.Run("blank text", func(t *testing.T) {
		router := newTestRouter(NewOrderHandlers(&mockOrderService{}, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/orders/import", `{"text":"   "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"text":"not_blank"`)
	})

	t.Run("no pairs parsed", func(t *testing.T) {
		service := &mockOrderService{
			importTextFn: func(ctx context.Context, cmd application.ImportOrdersCommand) (*application.OrderImportDTO, error) {
				return nil, errors.ErrValidation("no PO/item pairs found")
			},
		}
		router := newTestRouter(NewOrderHandlers(service, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/orders/import", `{"text":"header only"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderHandlers_ImportWorkbook(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockOrderService{
			importWorkbookFn: func(ctx context.Context, r io.Reader, operator string) (*application.OrderImportDTO, error) {
				data, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, "workbook-bytes", string(data))
				return &application.OrderImportDTO{Matched: 2}, nil
			},
		}
		router := newTestRouter(NewOrderHandlers(service, testLogger()))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, uploadRequest(t, "orders.XLSX", []byte("workbook-bytes")))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"matchedPallets":2`)
	})

	t.Run("wrong extension", func(t *testing.T) {
		router := newTestRouter(NewOrderHandlers(&mockOrderService{}, testLogger()))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, uploadRequest(t, "orders.csv", []byte("a,b")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		router := newTestRouter(NewOrderHandlers(&mockOrderService{}, testLogger()))

		rec := performRequest(router, http.MethodPost, "/api/v1/orders/import/xlsx", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderHandlers_ClearFilter(t *testing.T) {
	service := &mockOrderService{
		clearFilterFn: func(ctx context.Context, operator string) *application.InventoryViewDTO {
			return &application.InventoryViewDTO{Tab: "available", Total: 10, Visible: 10}
		},
	}
	router := newTestRouter(NewOrderHandlers(service, testLogger()))

	rec := performRequest(router, http.MethodDelete, "/api/v1/orders/filter", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "orderFilter")
}
