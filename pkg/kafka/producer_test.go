package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/tarima-dispatch/pkg/cloudevents"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/metrics"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestBuildMessage_Headers(t *testing.T) {
	factory := cloudevents.NewEventFactory(cloudevents.SourceDispatch)
	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-1")
	event := factory.CreatePalletsAssignedEvent(ctx, cloudevents.PalletsAssignedData{PalletIDs: []int64{4, 5}})

	msg, err := BuildMessage(event)
	require.NoError(t, err)

	assert.Equal(t, "pallets", string(msg.Key))
	assert.Equal(t, cloudevents.PalletsAssigned, headerValue(msg, "ce-type"))
	assert.Equal(t, "corr-1", headerValue(msg, "ce-wmscorrelationid"))
	assert.Empty(t, headerValue(msg, "ce-wmsworkflowid"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, event.ID, body["id"])
}

func TestInstrumentedProducer_PublishEvent(t *testing.T) {
	writer := &recordingWriter{}
	m := metrics.New(metrics.DefaultConfig("tarima-test"))
	producer := NewInstrumentedProducer(NewProducerWithWriter(DefaultConfig(), writer), m, nil)

	event := cloudevents.NewEventFactory(cloudevents.SourceDispatch).
		CreateReleaseCreatedEvent(context.Background(), cloudevents.ReleaseCreatedData{Name: "LOAD_2024-01-01_1"})

	require.NoError(t, producer.PublishEvent(context.Background(), Topics.TarimaEvents, event))
	require.Len(t, writer.messages, 1)

	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)
}

func TestInstrumentedProducer_PublishError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	producer := NewInstrumentedProducer(NewProducerWithWriter(DefaultConfig(), writer), nil, nil)

	event := cloudevents.NewEventFactory(cloudevents.SourceDispatch).
		CreateReleaseFailedEvent(context.Background(), cloudevents.ReleaseFailedData{Name: "LOAD_2024-01-01_1"})

	err := producer.PublishEvent(context.Background(), Topics.TarimaEvents, event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), Topics.TarimaEvents)
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092"))
	assert.Nil(t, ParseBrokers(""))
}
