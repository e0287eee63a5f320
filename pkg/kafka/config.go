package kafka

import (
	"strings"
	"time"
)

// Config holds Kafka producer configuration
type Config struct {
	Brokers      []string
	ClientID     string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int // 0: no ack, 1: leader ack, -1: all replicas ack
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:      []string{"localhost:9092"},
		ClientID:     "tarima-dispatch",
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1,
		WriteTimeout: 10 * time.Second,
	}
}

// ParseBrokers splits a comma-separated KAFKA_BROKERS value
func ParseBrokers(value string) []string {
	var brokers []string
	for _, b := range strings.Split(value, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Topics contains the Kafka topics this service publishes to
var Topics = struct {
	TarimaEvents string
}{
	TarimaEvents: "wms.tarima.events",
}
