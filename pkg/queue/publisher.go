package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishRequestReviewed(ctx context.Context, event RequestReviewedEvent) error
	Close() error
}

type amqpPublisher struct {
	url  string
	log  *zap.Logger
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher returns a publisher for url. An empty url yields a publisher
// that drops events.
func NewPublisher(url string, log *zap.Logger) Publisher {
	log = log.With(zap.String("component", "publisher"))
	if url == "" {
		return &noopPublisher{log: log}
	}
	return &amqpPublisher{url: url, log: log}
}

// channel returns an open channel, redialing when the previous one died.
func (p *amqpPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("dial broker: %w", err)
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(RequestReviewedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	p.ch = ch
	return ch, nil
}

func (p *amqpPublisher) PublishRequestReviewed(ctx context.Context, event RequestReviewedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		p.log.Warn("RabbitMQ unavailable", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	// default exchange, routing key = queue name
	if err := ch.PublishWithContext(ctx, "", RequestReviewedQueue, false, false, pub); err != nil {
		p.log.Warn("Failed to publish event", zap.Error(err), zap.String("request_id", event.RequestID))
		return fmt.Errorf("publish: %w", err)
	}

	p.log.Debug("Event published",
		zap.String("queue", RequestReviewedQueue),
		zap.String("request_id", event.RequestID))
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct {
	log *zap.Logger
}

func (p *noopPublisher) PublishRequestReviewed(_ context.Context, event RequestReviewedEvent) error {
	p.log.Debug("RabbitMQ disabled, event dropped", zap.String("request_id", event.RequestID))
	return nil
}

func (p *noopPublisher) Close() error { return nil }
