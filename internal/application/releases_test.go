package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/errors"
)

func sampleRelease() *domain.Release {
	return &domain.Release{
		ID:        7,
		Name:      "LOAD_2024-05-17_3",
		CreatedBy: "op",
		CreatedAt: fixedNow,
		ShipmentItems: []domain.ShipmentLineItem{
			{PONumber: "A", CustomerItemNumber: "X", Pallets: 2, GrossWeight: 300, NetWeight: 280},
			{PONumber: "B", CustomerItemNumber: "Y", Pallets: 1, GrossWeight: 50, NetWeight: 45},
		},
	}
}

func TestReleaseService_ListAndGet(t *testing.T) {
	catalog := &mockCatalog{
		listFn: func(context.Context) ([]domain.Release, error) {
			return []domain.Release{*sampleRelease()}, nil
		},
		getFn: func(_ context.Context, id int64) (*domain.Release, error) {
			if id == 7 {
				return sampleRelease(), nil
			}
			return nil, &fakeRemoteError{status: 404, body: "not found"}
		},
	}
	svc := NewReleaseService(catalog, testLogger())

	summaries, err := svc.ListReleases(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries[0].Totals.Pallets)
	assert.Equal(t, 350.0, summaries[0].Totals.GrossWeight)

	release, err := svc.GetRelease(context.Background(), GetReleaseQuery{ReleaseID: 7})
	require.NoError(t, err)
	assert.Equal(t, "LOAD_2024-05-17_3", release.Name)
	assert.Equal(t, 2, release.Totals.LineItems)

	_, err = svc.GetRelease(context.Background(), GetReleaseQuery{ReleaseID: 8})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)
}

func TestReleaseService_UpdateRelease(t *testing.T) {
	var received domain.ReleaseUpdate
	catalog := &mockCatalog{
		updateFn: func(_ context.Context, id int64, update domain.ReleaseUpdate) (*domain.Release, error) {
			received = update
			r := sampleRelease()
			r.Notes = update.Notes
			return r, nil
		},
	}
	svc := NewReleaseService(catalog, testLogger())

	t.Run("valid edit", func(t *testing.T) {
		release, err := svc.UpdateRelease(context.Background(), UpdateReleaseCommand{
			ReleaseID: 7,
			Update:    domain.ReleaseUpdate{Notes: "gate 2"},
			Operator:  "op",
		})
		require.NoError(t, err)
		assert.Equal(t, "gate 2", release.Notes)
		assert.Equal(t, "gate 2", received.Notes)
	})

	t.Run("invalid line item", func(t *testing.T) {
		_, err := svc.UpdateRelease(context.Background(), UpdateReleaseCommand{
			ReleaseID: 7,
			Update: domain.ReleaseUpdate{ShipmentItems: []domain.ShipmentLineItem{
				{PONumber: "A", Pallets: 1, GrossWeight: -1},
			}},
		})
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeValidationError, appErr.Code)
	})

	t.Run("remote rejection", func(t *testing.T) {
		catalog.updateFn = func(context.Context, int64, domain.ReleaseUpdate) (*domain.Release, error) {
			return nil, &fakeRemoteError{status: 409, body: "release locked"}
		}
		_, err := svc.UpdateRelease(context.Background(), UpdateReleaseCommand{ReleaseID: 7})
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeRemoteRejected, appErr.Code)
		assert.Equal(t, "release locked", appErr.Details["remoteBody"])
	})
}

func TestExportService(t *testing.T) {
	session := newTestSession(time.Hour)
	require.NoError(t, loadSession(session, testPallet(1, "A", "X", 10)))
	exporter := &mockExporter{}
	catalog := &mockCatalog{getFn: func(context.Context, int64) (*domain.Release, error) {
		return sampleRelease(), nil
	}}
	svc := NewExportService(catalog, session, exporter, testLogger())
	svc.clock = func() time.Time { return fixedNow }

	file, err := svc.ExportRelease(context.Background(), GetReleaseQuery{ReleaseID: 7})
	require.NoError(t, err)
	assert.Equal(t, "LOAD_2024-05-17_3.xlsx", file.Filename)
	assert.Equal(t, xlsxContentType, file.ContentType)

	_, err = svc.ExportSelection(context.Background())
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)

	_, err = session.Toggle(1)
	require.NoError(t, err)
	file, err = svc.ExportSelection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "selection_2024-05-17_143000.xlsx", file.Filename)
	require.Len(t, exporter.selections, 1)
	assert.Len(t, exporter.selections[0], 1)
}

func TestInventoryFetcher_Refresh(t *testing.T) {
	gateway := &mockGateway{inventory: []domain.Pallet{testPallet(1, "A", "X", 10)}}
	session := newTestSession(time.Hour)
	fetcher := NewInventoryFetcher(gateway, session, testLogger())

	view, err := fetcher.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, view.Total)
	assert.NotNil(t, view.FetchState.FetchedAt)

	gateway.fetchFn = func(context.Context) ([]domain.Pallet, error) {
		return nil, &fakeRemoteError{status: 503, body: "down"}
	}
	_, err = fetcher.Refresh(context.Background())
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeRemoteRejected, appErr.Code)
	assert.Equal(t, 1, session.InventoryView().Total, "previous snapshot is kept")
	assert.NotEmpty(t, session.FetchState().Error)

	gateway.fetchFn = func(context.Context) ([]domain.Pallet, error) {
		return []domain.Pallet{testPallet(1, "A", "X", 1), testPallet(1, "A", "X", 1)}, nil
	}
	_, err = fetcher.Refresh(context.Background())
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeRemoteRejected, appErr.Code)
}
