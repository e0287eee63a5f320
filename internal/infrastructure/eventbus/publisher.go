package eventbus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/cloudevents"
	"github.com/wms-platform/tarima-dispatch/pkg/kafka"
)

// EventPublisher publishes domain events to Kafka as CloudEvents
type EventPublisher struct {
	producer     *kafka.InstrumentedProducer
	eventFactory *cloudevents.EventFactory
	topic        string
}

// NewEventPublisher creates a new Kafka-based event publisher
func NewEventPublisher(
	producer *kafka.InstrumentedProducer,
	eventFactory *cloudevents.EventFactory,
	topic string,
) *EventPublisher {
	return &EventPublisher{
		producer:     producer,
		eventFactory: eventFactory,
		topic:        topic,
	}
}

// Publish publishes a single domain event
func (p *EventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	ce := p.toCloudEvent(ctx, event)
	if !event.OccurredAt().IsZero() {
		ce.Time = event.OccurredAt().UTC()
	}

	if err := p.producer.PublishEvent(ctx, p.topic, ce); err != nil {
		return fmt.Errorf("failed to publish event to kafka: %w", err)
	}
	return nil
}

func (p *EventPublisher) toCloudEvent(ctx context.Context, event domain.DomainEvent) *cloudevents.WMSCloudEvent {
	switch e := event.(type) {
	case *domain.PalletsAssignedEvent:
		return p.eventFactory.CreatePalletsAssignedEvent(ctx, cloudevents.PalletsAssignedData{
			PalletIDs:     e.PalletIDs,
			GrossWeightKg: e.GrossWeightKg,
			AssignedBy:    e.AssignedBy,
		})
	case *domain.ReleaseCreatedEvent:
		return p.eventFactory.CreateReleaseCreatedEvent(ctx, cloudevents.ReleaseCreatedData{
			ReleaseID:     strconv.FormatInt(e.ReleaseID, 10),
			Name:          e.Name,
			LineItems:     e.LineItems,
			Pallets:       e.Pallets,
			GrossWeightKg: e.GrossWeightKg,
			CreatedBy:     e.CreatedBy,
		})
	case *domain.ReleaseFailedEvent:
		return p.eventFactory.CreateReleaseFailedEvent(ctx, cloudevents.ReleaseFailedData{
			Name:       e.Name,
			PalletIDs:  e.PalletIDs,
			StatusCode: e.StatusCode,
			Reason:     e.Reason,
		})
	default:
		return p.eventFactory.CreateEvent(ctx, event.EventType(), "tarima", event)
	}
}

// GetTopic returns the topic this publisher publishes to
func (p *EventPublisher) GetTopic() string {
	return p.topic
}

// Close flushes and closes the underlying producer
func (p *EventPublisher) Close() error {
	return p.producer.Close()
}
