package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/middleware"
)

type mockSession struct {
	inventoryViewFn    func() *application.InventoryViewDTO
	inventoryViewForFn func(tab domain.InventoryTab) *application.InventoryViewDTO
	setTabFn           func(tab domain.InventoryTab) *application.InventoryViewDTO
	toggleFn           func(id int64) (*application.ToggleResultDTO, error)
	removeFn           func(id int64) *application.SelectionDTO
	clearFn            func() *application.SelectionDTO
	selectionFn        func() *application.SelectionDTO
}

func (m *mockSession) InventoryView() *application.InventoryViewDTO {
	if m.inventoryViewFn == nil {
		panic("InventoryView not implemented")
	}
	return m.inventoryViewFn()
}

func (m *mockSession) InventoryViewFor(tab domain.InventoryTab) *application.InventoryViewDTO {
	if m.inventoryViewForFn == nil {
		panic("InventoryViewFor not implemented")
	}
	return m.inventoryViewForFn(tab)
}

func (m *mockSession) SetTab(tab domain.InventoryTab) *application.InventoryViewDTO {
	if m.setTabFn == nil {
		panic("SetTab not implemented")
	}
	return m.setTabFn(tab)
}

func (m *mockSession) Toggle(id int64) (*application.ToggleResultDTO, error) {
	if m.toggleFn == nil {
		panic("Toggle not implemented")
	}
	return m.toggleFn(id)
}

func (m *mockSession) Remove(id int64) *application.SelectionDTO {
	if m.removeFn == nil {
		panic("Remove not implemented")
	}
	return m.removeFn(id)
}

func (m *mockSession) ClearSelection() *application.SelectionDTO {
	if m.clearFn == nil {
		panic("ClearSelection not implemented")
	}
	return m.clearFn()
}

func (m *mockSession) Selection() *application.SelectionDTO {
	if m.selectionFn == nil {
		panic("Selection not implemented")
	}
	return m.selectionFn()
}

type mockRefresher struct {
	refreshFn func(ctx context.Context) (*application.InventoryViewDTO, error)
}

func (m *mockRefresher) Refresh(ctx context.Context) (*application.InventoryViewDTO, error) {
	if m.refreshFn == nil {
		panic("Refresh not implemented")
	}
	return m.refreshFn(ctx)
}

type mockSubmissionService struct {
	runFn      func(ctx context.Context, cmd application.SubmitCommand) (*application.SubmissionResult, error)
	snapshotFn func() *application.SubmissionSnapshot
	retryFn    func(ctx context.Context) (*application.SubmissionResult, error)
	durableFn  func(ctx context.Context, operator string) (string, error)
	discardFn  func(ctx context.Context, operator string) (*application.PendingReleaseDTO, error)
}

func (m *mockSubmissionService) Run(ctx context.Context, cmd application.SubmitCommand) (*application.SubmissionResult, error) {
	if m.runFn == nil {
		panic("Run not implemented")
	}
	return m.runFn(ctx, cmd)
}

func (m *mockSubmissionService) Snapshot() *application.SubmissionSnapshot {
	if m.snapshotFn == nil {
		panic("Snapshot not implemented")
	}
	return m.snapshotFn()
}

func (m *mockSubmissionService) RetryRelease(ctx context.Context) (*application.SubmissionResult, error) {
	if m.retryFn == nil {
		panic("RetryRelease not implemented")
	}
	return m.retryFn(ctx)
}

func (m *mockSubmissionService) StartDurableRetry(ctx context.Context, operator string) (string, error) {
	if m.durableFn == nil {
		panic("StartDurableRetry not implemented")
	}
	return m.durableFn(ctx, operator)
}

func (m *mockSubmissionService) DiscardPendingRelease(ctx context.Context, operator string) (*application.PendingReleaseDTO, error) {
	if m.discardFn == nil {
		panic("DiscardPendingRelease not implemented")
	}
	return m.discardFn(ctx, operator)
}

type mockOrderService struct {
	importTextFn     func(ctx context.Context, cmd application.ImportOrdersCommand) (*application.OrderImportDTO, error)
	importWorkbookFn func(ctx context.Context, r io.Reader, operator string) (*application.OrderImportDTO, error)
	clearFilterFn    func(ctx context.Context, operator string) *application.InventoryViewDTO
}

func (m *mockOrderService) ImportText(ctx context.Context, cmd application.ImportOrdersCommand) (*application.OrderImportDTO, error) {
	if m.importTextFn == nil {
		panic("ImportText not implemented")
	}
	return m.importTextFn(ctx, cmd)
}

func (m *mockOrderService) ImportWorkbook(ctx context.Context, r io.Reader, operator string) (*application.OrderImportDTO, error) {
	if m.importWorkbookFn == nil {
		panic("ImportWorkbook not implemented")
	}
	return m.importWorkbookFn(ctx, r, operator)
}

func (m *mockOrderService) ClearFilter(ctx context.Context, operator string) *application.InventoryViewDTO {
	if m.clearFilterFn == nil {
		panic("ClearFilter not implemented")
	}
	return m.clearFilterFn(ctx, operator)
}

type mockReleaseService struct {
	listFn   func(ctx context.Context) ([]application.ReleaseSummaryDTO, error)
	getFn    func(ctx context.Context, query application.GetReleaseQuery) (*application.ReleaseDTO, error)
	updateFn func(ctx context.Context, cmd application.UpdateReleaseCommand) (*application.ReleaseDTO, error)
}

func (m *mockReleaseService) ListReleases(ctx context.Context) ([]application.ReleaseSummaryDTO, error) {
	if m.listFn == nil {
		panic("ListReleases not implemented")
	}
	return m.listFn(ctx)
}

func (m *mockReleaseService) GetRelease(ctx context.Context, query application.GetReleaseQuery) (*application.ReleaseDTO, error) {
	if m.getFn == nil {
		panic("GetRelease not implemented")
	}
	return m.getFn(ctx, query)
}

func (m *mockReleaseService) UpdateRelease(ctx context.Context, cmd application.UpdateReleaseCommand) (*application.ReleaseDTO, error) {
	if m.updateFn == nil {
		panic("UpdateRelease not implemented")
	}
	return m.updateFn(ctx, cmd)
}

type mockExportService struct {
	releaseFn   func(ctx context.Context, query application.GetReleaseQuery) (*application.ExportFile, error)
	selectionFn func(ctx context.Context) (*application.ExportFile, error)
}

func (m *mockExportService) ExportRelease(ctx context.Context, query application.GetReleaseQuery) (*application.ExportFile, error) {
	if m.releaseFn == nil {
		panic("ExportRelease not implemented")
	}
	return m.releaseFn(ctx, query)
}

func (m *mockExportService) ExportSelection(ctx context.Context) (*application.ExportFile, error) {
	if m.selectionFn == nil {
		panic("ExportSelection not implemented")
	}
	return m.selectionFn(ctx)
}

type routeRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("test")
	cfg.Output = io.Discard
	return logging.New(cfg)
}

func newTestRouter(handlers ...routeRegistrar) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()
	router := gin.New()
	api := router.Group("/api/v1")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
	return router
}

func performRequest(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
