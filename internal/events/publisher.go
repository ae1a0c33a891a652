// Package events publishes match lifecycle events to Kafka so downstream
// systems (CRM sync, enrichment audits) can react to completed matches.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"companymatch/internal/match/models"
	"companymatch/internal/platform/config"
)

// Publisher produces match-completed events to a Kafka topic. Publishing is
// fire-and-forget: delivery failures are logged, never surfaced to the match
// path.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// matchCompletedEvent is the wire format for one finished match.
type matchCompletedEvent struct {
	Input      models.InputRecord `json:"input"`
	BestMatch  *models.ScoredHit  `json:"bestMatch"`
	MatchCount int                `json:"matchCount"`
	MatchedAt  time.Time          `json:"matchedAt"`
}

// New connects a producer to the configured brokers. Returns nil when no
// brokers are configured (events disabled).
func New(cfg config.Kafka, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &Publisher{client: client, topic: cfg.Topic, logger: logger}, nil
}

// MatchCompleted publishes one finished match asynchronously.
func (p *Publisher) MatchCompleted(ctx context.Context, input models.InputRecord, best *models.ScoredHit, matchCount int) {
	if p == nil {
		return
	}

	payload, err := json.Marshal(matchCompletedEvent{
		Input:      input,
		BestMatch:  best,
		MatchCount: matchCount,
		MatchedAt:  time.Now().UTC(),
	})
	if err != nil {
		p.logger.WarnContext(ctx, "failed to encode match event", "error", err)
		return
	}

	record := &kgo.Record{Topic: p.topic, Value: payload}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("failed to publish match event", "topic", p.topic, "error", err)
		}
	})
}

// Close flushes and shuts down the producer.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	_ = p.client.Flush(context.Background())
	p.client.Close()
}
