package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"gatepass/pkg/logger"
)

// Publisher emits domain events after their transaction commits. Emission is
// best effort: callers log publish failures but never roll back on them.
type Publisher interface {
	RegistrationConfirmed(ctx context.Context, evt RegistrationConfirmedEvent) error
	TicketCheckedIn(ctx context.Context, evt TicketCheckedInEvent) error
	SeatsReleased(ctx context.Context, evt SeatsReleasedEvent) error
	Close() error
}

// ProducerConfig carries the Kafka producer settings.
type ProducerConfig struct {
	Brokers     []string
	EventsTopic string
	RetryMax    int
	Timeout     time.Duration
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaPublisher builds a synchronous idempotent producer. Acks from all
// in-sync replicas, hash partitioning on the envelope ID.
func NewKafkaPublisher(cfg ProducerConfig, log *logger.Logger) (Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = cfg.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaPublisher{
		producer: producer,
		topic:    cfg.EventsTopic,
		log:      log,
	}, nil
}

func (p *kafkaPublisher) RegistrationConfirmed(ctx context.Context, evt RegistrationConfirmedEvent) error {
	return p.publish(EventRegistrationConfirmed, evt)
}

func (p *kafkaPublisher) TicketCheckedIn(ctx context.Context, evt TicketCheckedInEvent) error {
	return p.publish(EventTicketCheckedIn, evt)
}

func (p *kafkaPublisher) SeatsReleased(ctx context.Context, evt SeatsReleasedEvent) error {
	return p.publish(EventSeatsReleased, evt)
}

func (p *kafkaPublisher) publish(eventType EventType, payload interface{}) error {
	envelope, err := newEnvelope(eventType, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(envelope.ID.String()),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("created_at"), Value: []byte(envelope.CreatedAt.Format(time.RFC3339))},
		},
		Timestamp: envelope.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send %s event: %w", eventType, err)
	}

	p.log.WithFields(map[string]interface{}{
		"topic":     p.topic,
		"type":      string(eventType),
		"partition": partition,
		"offset":    offset,
	}).Debug("domain event published")

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// noopPublisher drops every event. Used when Kafka is disabled.
type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) RegistrationConfirmed(context.Context, RegistrationConfirmedEvent) error {
	return nil
}
func (noopPublisher) TicketCheckedIn(context.Context, TicketCheckedInEvent) error { return nil }
func (noopPublisher) SeatsReleased(context.Context, SeatsReleasedEvent) error     { return nil }
func (noopPublisher) Close() error                                                { return nil }
