package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/tracing"
)

// EventFactory creates CloudEvents for dispatch domain events
type EventFactory struct {
	source string
	now    func() time.Time
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source, now: time.Now}
}

// CreateEvent creates a new event. The correlation ID and W3C trace
// parent are taken from ctx when present.
func (f *EventFactory) CreateEvent(ctx context.Context, eventType, subject string, data interface{}) *WMSCloudEvent {
	event := &WMSCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            f.now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}

	if correlationID, ok := ctx.Value(logging.CorrelationIDKey).(string); ok {
		event.CorrelationID = correlationID
	}

	carrier := tracing.MapCarrier{}
	tracing.InjectTraceContext(ctx, carrier)
	event.TraceParent = carrier.Get("traceparent")

	return event
}

// CreatePalletsAssignedEvent creates a PalletsAssigned event
func (f *EventFactory) CreatePalletsAssignedEvent(ctx context.Context, data PalletsAssignedData) *WMSCloudEvent {
	return f.CreateEvent(ctx, PalletsAssigned, "pallets", data)
}

// CreateReleaseCreatedEvent creates a ReleaseCreated event
func (f *EventFactory) CreateReleaseCreatedEvent(ctx context.Context, data ReleaseCreatedData) *WMSCloudEvent {
	return f.CreateEvent(ctx, ReleaseCreated, "release/"+data.Name, data)
}

// CreateReleaseFailedEvent creates a ReleaseFailed event
func (f *EventFactory) CreateReleaseFailedEvent(ctx context.Context, data ReleaseFailedData) *WMSCloudEvent {
	return f.CreateEvent(ctx, ReleaseFailed, "release/"+data.Name, data)
}
