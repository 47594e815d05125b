package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"gatepass/pkg/logger"
)

// Consumer drains the domain-event topic and fans events out to handlers.
// Today the only handler is the attendee notifier; the consumer group keeps
// the door open for more without touching the producers.
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

// ConsumerConfig carries the Kafka consumer-group settings.
type ConsumerConfig struct {
	Brokers []string
	GroupID string
	Topics  []string
}

// Handler reacts to a single decoded domain event.
type Handler interface {
	HandleRegistrationConfirmed(ctx context.Context, evt RegistrationConfirmedEvent) error
	HandleTicketCheckedIn(ctx context.Context, evt TicketCheckedInEvent) error
}

type kafkaConsumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler Handler
	log     *logger.Logger
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewKafkaConsumer(cfg ConsumerConfig, handler Handler, log *logger.Logger) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer group: %w", err)
	}

	return &kafkaConsumer{
		group:   group,
		topics:  cfg.Topics,
		handler: handler,
		log:     log,
		done:    make(chan struct{}),
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			c.log.WithError(err).Error("kafka consumer error")
		}
	}()

	go func() {
		defer close(c.done)
		for {
			// Consume returns on every rebalance; loop until cancelled.
			if err := c.group.Consume(ctx, c.topics, &groupHandler{handler: c.handler, log: c.log}); err != nil {
				c.log.WithError(err).Error("kafka consume session failed")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	return nil
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	<-c.done
	return c.group.Close()
}

type groupHandler struct {
	handler Handler
	log     *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := h.dispatch(session.Context(), message.Value); err != nil {
			// Bad messages are logged and skipped; replaying them would
			// wedge the partition.
			h.log.WithError(err).WithFields(map[string]interface{}{
				"topic":     message.Topic,
				"partition": message.Partition,
				"offset":    message.Offset,
			}).Error("failed to handle domain event")
		}
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *groupHandler) dispatch(ctx context.Context, raw []byte) error {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode envelope: %w", err)
	}

	switch envelope.Type {
	case EventRegistrationConfirmed:
		var evt RegistrationConfirmedEvent
		if err := json.Unmarshal(envelope.Payload, &evt); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", envelope.Type, err)
		}
		return h.handler.HandleRegistrationConfirmed(ctx, evt)

	case EventTicketCheckedIn:
		var evt TicketCheckedInEvent
		if err := json.Unmarshal(envelope.Payload, &evt); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", envelope.Type, err)
		}
		return h.handler.HandleTicketCheckedIn(ctx, evt)

	case EventSeatsReleased:
		// Operational signal only; nothing to notify.
		return nil

	default:
		h.log.WithFields(map[string]interface{}{"type": string(envelope.Type)}).Warn("unknown domain event type")
		return nil
	}
}
