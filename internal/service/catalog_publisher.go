package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/metrics"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/kafka"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/retry"
	"go.uber.org/zap"
)

const (
	defaultCatalogTopic = "catalog-events"
	deadLetterSuffix    = ".dlq"
)

// messageProducer is the part of kafka.Producer the publisher needs
type messageProducer interface {
	Produce(ctx context.Context, msg *kafka.Message) error
	Close()
}

// CatalogPublisherConfig contains configuration for the catalog publisher
type CatalogPublisherConfig struct {
	Brokers     []string
	Topic       string
	ClientID    string
	ServiceName string
	Retry       *retry.Config
}

// KafkaCatalogPublisher implements CatalogPublisher using Kafka. Messages that
// still fail after retries go to the "<topic>.dlq" topic.
type KafkaCatalogPublisher struct {
	producer    messageProducer
	topic       string
	serviceName string
	retrier     *retry.Retrier
	log         *logger.Logger
}

// NewKafkaCatalogPublisher creates a new Kafka catalog publisher
func NewKafkaCatalogPublisher(ctx context.Context, cfg *CatalogPublisherConfig, log *logger.Logger) (*KafkaCatalogPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("catalog publisher config is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, kafka.ErrNoBrokers
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "marketplace-api-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return newCatalogPublisher(producer, cfg, log), nil
}

func newCatalogPublisher(producer messageProducer, cfg *CatalogPublisherConfig, log *logger.Logger) *KafkaCatalogPublisher {
	topic := cfg.Topic
	if topic == "" {
		topic = defaultCatalogTopic
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "marketplace-api"
	}
	if log == nil {
		log = logger.Nop()
	}

	retrier := retry.New(cfg.Retry).OnRetry(func(attempt int, err error, wait time.Duration) {
		log.Warn("retrying catalog event publish",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})

	return &KafkaCatalogPublisher{
		producer:    producer,
		topic:       topic,
		serviceName: serviceName,
		retrier:     retrier,
		log:         log,
	}
}

// PublishEventSaved publishes an event.saved message
func (p *KafkaCatalogPublisher) PublishEventSaved(ctx context.Context, event *domain.Event, batches int) error {
	return p.publish(ctx, domain.CatalogEventSaved, event, batches)
}

// PublishStatusChanged publishes an event.status_changed message
func (p *KafkaCatalogPublisher) PublishStatusChanged(ctx context.Context, event *domain.Event) error {
	return p.publish(ctx, domain.CatalogEventStatusChanged, event, 0)
}

// Close closes the catalog publisher
func (p *KafkaCatalogPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

func (p *KafkaCatalogPublisher) publish(ctx context.Context, eventType domain.CatalogEventType, event *domain.Event, batches int) error {
	eventID := uuid.New().String()
	payload := domain.NewCatalogEvent(eventID, eventType, event, batches)

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog event: %w", err)
	}

	msg := &kafka.Message{
		Topic: p.topic,
		Key:   []byte(payload.Key()),
		Value: value,
		Headers: map[string]string{
			"event_type":   string(eventType),
			"event_id":     eventID,
			"source":       p.serviceName,
			"content_type": "application/json",
		},
	}

	result := p.retrier.Do(ctx, func(ctx context.Context) error {
		return p.producer.Produce(ctx, msg)
	})
	if result.Err == nil {
		return nil
	}

	dlq := &kafka.Message{
		Topic:   p.topic + deadLetterSuffix,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: map[string]string{"original_topic": p.topic, "error": result.Err.Error(), "attempts": fmt.Sprint(result.Attempts)},
	}
	for k, v := range msg.Headers {
		dlq.Headers[k] = v
	}
	dlqErr := p.producer.Produce(ctx, dlq)
	metrics.RecordCatalogPublishFailed(ctx, string(eventType), dlqErr == nil)

	if dlqErr != nil {
		p.log.Error("catalog event dropped",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(eventType)),
			zap.Error(dlqErr),
		)
	}
	return fmt.Errorf("failed to publish %s event: %w", eventType, result.Err)
}

// NoOpCatalogPublisher is used when Kafka is not configured
type NoOpCatalogPublisher struct{}

// NewNoOpCatalogPublisher creates a publisher that discards every message
func NewNoOpCatalogPublisher() *NoOpCatalogPublisher {
	return &NoOpCatalogPublisher{}
}

func (p *NoOpCatalogPublisher) PublishEventSaved(ctx context.Context, event *domain.Event, batches int) error {
	return nil
}

func (p *NoOpCatalogPublisher) PublishStatusChanged(ctx context.Context, event *domain.Event) error {
	return nil
}

func (p *NoOpCatalogPublisher) Close() error {
	return nil
}
