package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() *retry.Config {
	return &retry.Config{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1}
}

func TestCatalogPublisher_PublishEventSaved(t *testing.T) {
	producer := newMockProducer()
	p := newCatalogPublisher(producer, &CatalogPublisherConfig{Retry: fastRetry()}, nil)

	err := p.PublishEventSaved(context.Background(), &domain.Event{ID: "e1", ManagerID: "m1", IsPaid: true}, 2)
	require.NoError(t, err)
	require.Len(t, producer.messages, 1)

	msg := producer.messages[0]
	assert.Equal(t, defaultCatalogTopic, msg.Topic)
	assert.Equal(t, "e1", string(msg.Key))
	assert.Equal(t, string(domain.CatalogEventSaved), msg.Headers["event_type"])

	var payload domain.CatalogEvent
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "m1", payload.ManagerID)
	assert.Equal(t, 2, payload.Batches)
}

func TestCatalogPublisher_RetriesTransientFailures(t *testing.T) {
	producer := newMockProducer()
	producer.failures[defaultCatalogTopic] = 2
	p := newCatalogPublisher(producer, &CatalogPublisherConfig{Retry: fastRetry()}, nil)

	err := p.PublishStatusChanged(context.Background(), &domain.Event{ID: "e1"})
	require.NoError(t, err)
	assert.Equal(t, 3, producer.calls[defaultCatalogTopic])
	assert.Zero(t, producer.calls[defaultCatalogTopic+deadLetterSuffix])
}

func TestCatalogPublisher_DeadLetters(t *testing.T) {
	producer := newMockProducer()
	producer.failures[defaultCatalogTopic] = 10
	p := newCatalogPublisher(producer, &CatalogPublisherConfig{Retry: fastRetry()}, nil)

	err := p.PublishEventSaved(context.Background(), &domain.Event{ID: "e1"}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, retry.ErrExhausted)

	require.Len(t, producer.messages, 1)
	dlq := producer.messages[0]
	assert.Equal(t, defaultCatalogTopic+deadLetterSuffix, dlq.Topic)
	assert.Equal(t, defaultCatalogTopic, dlq.Headers["original_topic"])
	assert.Equal(t, "3", dlq.Headers["attempts"])
}

func TestNoOpCatalogPublisher(t *testing.T) {
	p := NewNoOpCatalogPublisher()
	assert.NoError(t, p.PublishEventSaved(context.Background(), &domain.Event{}, 0))
	assert.NoError(t, p.PublishStatusChanged(context.Background(), &domain.Event{}))
	assert.NoError(t, p.Close())
}
