package application

import (
	"context"
	"io"
	"strconv"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/errors"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
)

// OrderImportService turns imported PO/item pairs into the session's order filter
type OrderImportService struct {
	session *Session
	reader  OrderSheetReader
	logger  *logging.Logger
}

// NewOrderImportService creates a new OrderImportService. reader may be nil when workbook upload is not offered.
func NewOrderImportService(session *Session, reader OrderSheetReader, logger *logging.Logger) *OrderImportService {
	return &OrderImportService{
		session: session,
		reader:  reader,
		logger:  logger.WithComponent("order-import"),
	}
}

// ImportText parses pasted spreadsheet text and applies it as the order filter
func (s *OrderImportService) ImportText(ctx context.Context, cmd ImportOrdersCommand) (*OrderImportDTO, error) {
	return s.apply(ctx, domain.ParseOrderPairs(cmd.Text), cmd.Operator, "text")
}

// ImportWorkbook reads the first sheet of an uploaded workbook and applies it as the order filter
func (s *OrderImportService) ImportWorkbook(ctx context.Context, r io.Reader, operator string) (*OrderImportDTO, error) {
	if s.reader == nil {
		return nil, errors.ErrServiceUnavailable("workbook import")
	}

	rows, err := s.reader.ReadRows(r)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to read order workbook")
		return nil, errors.ErrValidation("could not read the workbook: " + err.Error()).Wrap(err)
	}
	return s.apply(ctx, domain.ParseOrderRows(rows), operator, "workbook")
}

// ClearFilter removes the order filter
func (s *OrderImportService) ClearFilter(ctx context.Context, operator string) *InventoryViewDTO {
	s.logger.Audit(ctx, "clear", "order-filter", "", operator, nil)
	return s.session.ClearOrderFilter()
}

func (s *OrderImportService) apply(ctx context.Context, parsed domain.OrderImport, operator, source string) (*OrderImportDTO, error) {
	if len(parsed.Pairs) == 0 {
		return nil, errors.ErrValidation("no PO/item pairs found").
			WithDetail("rejectedLines", strconv.Itoa(len(parsed.Rejected)))
	}

	view := s.session.SetOrderFilter(parsed.Pairs)

	dto := &OrderImportDTO{
		Pairs:     parsed.Pairs,
		Rejected:  parsed.Rejected,
		Matched:   view.Visible,
		Unmatched: []domain.OrderKey{},
	}
	if view.OrderFilter != nil && view.OrderFilter.Unmatched != nil {
		dto.Unmatched = view.OrderFilter.Unmatched
	}

	s.logger.Audit(ctx, "import", "order-filter", source, operator, map[string]any{
		"pairs":     len(parsed.Pairs),
		"rejected":  len(parsed.Rejected),
		"matched":   dto.Matched,
		"unmatched": len(dto.Unmatched),
	})
	return dto, nil
}
