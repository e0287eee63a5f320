package application

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/tarima-dispatch/pkg/errors"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/tracing"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReleaseService handles release browsing and editing
type ReleaseService struct {
	catalog ReleaseCatalog
	logger  *logging.Logger
}

// NewReleaseService creates a new ReleaseService
func NewReleaseService(catalog ReleaseCatalog, logger *logging.Logger) *ReleaseService {
	return &ReleaseService{
		catalog: catalog,
		logger:  logger.WithComponent("releases"),
	}
}

// ListReleases returns release summaries
func (s *ReleaseService) ListReleases(ctx context.Context) ([]ReleaseSummaryDTO, error) {
	releases, err := s.catalog.ListReleases(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to list releases")
		return nil, remoteRejection("release listing failed", err)
	}

	summaries := make([]ReleaseSummaryDTO, 0, len(releases))
	for _, r := range releases {
		summaries = append(summaries, ToReleaseSummaryDTO(r))
	}
	return summaries, nil
}

// GetRelease retrieves a release by ID
func (s *ReleaseService) GetRelease(ctx context.Context, query GetReleaseQuery) (*ReleaseDTO, error) {
	release, err := s.catalog.GetRelease(ctx, query.ReleaseID)
	if err != nil {
		return nil, s.catalogError(ctx, "get", query.ReleaseID, err)
	}
	return ToReleaseDTO(release), nil
}

// UpdateRelease edits description, notes and line items of a release
func (s *ReleaseService) UpdateRelease(ctx context.Context, cmd UpdateReleaseCommand) (*ReleaseDTO, error) {
	if err := cmd.Update.Validate(); err != nil {
		return nil, errors.ErrValidation(err.Error()).Wrap(err)
	}

	release, err := s.catalog.UpdateRelease(ctx, cmd.ReleaseID, cmd.Update)
	if err != nil {
		return nil, s.catalogError(ctx, "update", cmd.ReleaseID, err)
	}

	s.logger.Audit(ctx, "update", "release", strconv.FormatInt(cmd.ReleaseID, 10), cmd.Operator, map[string]any{
		"lineItems": len(cmd.Update.ShipmentItems),
	})
	return ToReleaseDTO(release), nil
}

func (s *ReleaseService) catalogError(ctx context.Context, op string, id int64, err error) error {
	if remoteStatus(err) == http.StatusNotFound {
		return errors.ErrNotFoundWithID("release", strconv.FormatInt(id, 10))
	}
	s.logger.WithContext(ctx).WithError(err).Error("Release "+op+" failed", "releaseId", id)
	return remoteRejection(fmt.Sprintf("release %s failed", op), err)
}

// ExportService renders releases and the current selection as workbooks
type ExportService struct {
	catalog  ReleaseCatalog
	session  *Session
	exporter WorkbookExporter
	clock    func() time.Time
	tracer   trace.Tracer
	logger   *logging.Logger
}

// NewExportService creates a new ExportService
func NewExportService(catalog ReleaseCatalog, session *Session, exporter WorkbookExporter, logger *logging.Logger) *ExportService {
	return &ExportService{
		catalog:  catalog,
		session:  session,
		exporter: exporter,
		clock:    time.Now,
		tracer:   otel.Tracer("tarima-dispatch/export"),
		logger:   logger.WithComponent("export"),
	}
}

// ExportRelease renders one release with its line items and totals
func (s *ExportService) ExportRelease(ctx context.Context, query GetReleaseQuery) (*ExportFile, error) {
	release, err := s.catalog.GetRelease(ctx, query.ReleaseID)
	if err != nil {
		if remoteStatus(err) == http.StatusNotFound {
			return nil, errors.ErrNotFoundWithID("release", strconv.FormatInt(query.ReleaseID, 10))
		}
		return nil, remoteRejection("release lookup failed", err)
	}

	content, err := tracing.TracedOperation(ctx, s.tracer, "export.release", func(context.Context) ([]byte, error) {
		return s.exporter.ExportRelease(release)
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to export release", "releaseId", query.ReleaseID)
		return nil, fmt.Errorf("failed to export release: %w", err)
	}

	name := release.Name
	if name == "" {
		name = "release_" + strconv.FormatInt(release.ID, 10)
	}
	return &ExportFile{Filename: name + ".xlsx", ContentType: xlsxContentType, Content: content}, nil
}

// ExportSelection renders the current selection with a totals row
func (s *ExportService) ExportSelection(ctx context.Context) (*ExportFile, error) {
	pallets, stats := s.session.SelectionSnapshot()
	if len(pallets) == 0 {
		return nil, errors.ErrValidation("the selection is empty")
	}

	content, err := tracing.TracedOperation(ctx, s.tracer, "export.selection", func(context.Context) ([]byte, error) {
		return s.exporter.ExportSelection(pallets, stats)
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to export selection")
		return nil, fmt.Errorf("failed to export selection: %w", err)
	}

	filename := fmt.Sprintf("selection_%s.xlsx", s.clock().UTC().Format("2006-01-02_150405"))
	return &ExportFile{Filename: filename, ContentType: xlsxContentType, Content: content}, nil
}
