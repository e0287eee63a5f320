package application

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
)

// mockGateway is an in-memory remote service. Unset fn fields fall back to
// behaviour backed by the inventory slice.
type mockGateway struct {
	mu        sync.Mutex
	inventory []domain.Pallet

	fetchFn    func(context.Context) ([]domain.Pallet, error)
	markFn     func(context.Context, []int64) error
	sequenceFn func(context.Context) (int, error)
	createFn   func(context.Context, *domain.ReleasePayload) (*domain.ReleaseRef, error)

	fetchCalls int
	markCalls  [][]int64
	created    []*domain.ReleasePayload
}

func (m *mockGateway) FetchInventory(ctx context.Context) ([]domain.Pallet, error) {
	m.mu.Lock()
	m.fetchCalls++
	fn := m.fetchFn
	inv := append([]domain.Pallet(nil), m.inventory...)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return inv, nil
}

func (m *mockGateway) MarkAssigned(ctx context.Context, ids []int64) error {
	m.mu.Lock()
	m.markCalls = append(m.markCalls, append([]int64(nil), ids...))
	fn := m.markFn
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, ids); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for i := range m.inventory {
		if set[m.inventory[i].RFIDID] {
			m.inventory[i].AssignedToDelivery = true
		}
	}
	return nil
}

func (m *mockGateway) FetchNextReleaseSequence(ctx context.Context) (int, error) {
	if m.sequenceFn != nil {
		return m.sequenceFn(ctx)
	}
	return 1, nil
}

func (m *mockGateway) CreateRelease(ctx context.Context, payload *domain.ReleasePayload) (*domain.ReleaseRef, error) {
	m.mu.Lock()
	m.created = append(m.created, payload)
	fn := m.createFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, payload)
	}
	return &domain.ReleaseRef{ID: 100, Name: payload.Name}, nil
}

func (m *mockGateway) markCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.markCalls)
}

func (m *mockGateway) createCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created)
}

func (m *mockGateway) fetchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

type mockPublisher struct {
	mu      sync.Mutex
	events  []domain.DomainEvent
	err     error
	release chan struct{}
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

func (m *mockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.EventType()
	}
	return out
}

type mockCatalog struct {
	listFn   func(context.Context) ([]domain.Release, error)
	getFn    func(context.Context, int64) (*domain.Release, error)
	updateFn func(context.Context, int64, domain.ReleaseUpdate) (*domain.Release, error)
}

func (m *mockCatalog) ListReleases(ctx context.Context) ([]domain.Release, error) {
	if m.listFn == nil {
		panic("ListReleases not implemented")
	}
	return m.listFn(ctx)
}

func (m *mockCatalog) GetRelease(ctx context.Context, id int64) (*domain.Release, error) {
	if m.getFn == nil {
		panic("GetRelease not implemented")
	}
	return m.getFn(ctx, id)
}

func (m *mockCatalog) UpdateRelease(ctx context.Context, id int64, update domain.ReleaseUpdate) (*domain.Release, error) {
	if m.updateFn == nil {
		panic("UpdateRelease not implemented")
	}
	return m.updateFn(ctx, id, update)
}

type mockRetrier struct {
	startFn func(context.Context, PendingRelease) (string, error)
}

func (m *mockRetrier) StartReleaseRetry(ctx context.Context, pending PendingRelease) (string, error) {
	return m.startFn(ctx, pending)
}

type mockSheetReader struct {
	rows [][]string
	err  error
}

func (m *mockSheetReader) ReadRows(io.Reader) ([][]string, error) {
	return m.rows, m.err
}

type mockExporter struct {
	releases   []*domain.Release
	selections [][]domain.Pallet
}

func (m *mockExporter) ExportRelease(release *domain.Release) ([]byte, error) {
	m.releases = append(m.releases, release)
	return []byte("release"), nil
}

func (m *mockExporter) ExportSelection(pallets []domain.Pallet, _ domain.SelectionStats) ([]byte, error) {
	m.selections = append(m.selections, pallets)
	return []byte("selection"), nil
}

// fakeRemoteError mimics a non-success response from the remote service
type fakeRemoteError struct {
	status int
	body   string
}

func (e *fakeRemoteError) Error() string {
	return fmt.Sprintf("remote returned %d: %s", e.status, e.body)
}

func (e *fakeRemoteError) RemoteStatus() int  { return e.status }
func (e *fakeRemoteError) RemoteBody() string { return e.body }

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("tarima-dispatch-test")
	cfg.Level = logging.LogLevel("error")
	return logging.New(cfg)
}

func testPallet(id int64, po, item string, gross float64) domain.Pallet {
	return domain.Pallet{
		RFIDID:        id,
		PONumber:      po,
		ItemNumber:    item,
		SAPOrder:      "SAP-" + po,
		ProductKey:    "PK-" + item,
		ProductName:   "Product " + item,
		Lot:           fmt.Sprintf("LOT-%d", id),
		UnitOfMeasure: "CJ",
		Cases:         10,
		UnitsPerCase:  6,
		GrossWeight:   gross,
		NetWeight:     gross - 5,
	}
}

func newTestSession(delay time.Duration) *Session {
	return NewSession(SessionConfig{WeightLimitKg: domain.DefaultWeightLimitKg, AutoClearDelay: delay}, nil, testLogger())
}

func loadSession(s *Session, pallets ...domain.Pallet) error {
	s.beginFetch()
	return s.completeFetch(pallets, nil)
}
