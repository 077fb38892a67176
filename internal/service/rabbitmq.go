package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/shortsboard/shorts-analytics/internal/config"
	"github.com/shortsboard/shorts-analytics/internal/service/statsync"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

// SyncRunEventType is the event_type of every published run event.
const SyncRunEventType = "shorts.sync.completed"

const confirmTimeout = 5 * time.Second

// SyncRunEvent is the message body announcing a finished sync run.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type SyncRunEvent struct {
	EventID    uuid.UUID         `json:"event_id"`
	EventType  string            `json:"event_type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Summary    *statsync.Summary `json:"summary"`
}

// SyncRunPublisher publishes sync run summaries to a RabbitMQ topic
// exchange and waits for the broker to confirm each message.
type SyncRunPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	confirms chan amqp.Confirmation
	config   *config.RabbitMQConfig
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewSyncRunPublisher connects and declares the exchange and queue.
func NewSyncRunPublisher(cfg *config.RabbitMQConfig) (*SyncRunPublisher, error) {
	p := &SyncRunPublisher{
		config: cfg,
		logger: logger.L(),
	}

	if err := p.connect(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *SyncRunPublisher) connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	url := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		p.config.User, p.config.Password, p.config.Host, p.config.Port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := p.declare(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.channel = ch
	p.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	p.logger.Info("Connected to RabbitMQ",
		zap.String("exchange", p.config.Exchange),
		zap.String("queue", p.config.Queue))

	return nil
}

// declare enables confirms and sets up a durable topic exchange with one
// bound queue. Run events are small and infrequent, so the queue keeps a
// week of them.
func (p *SyncRunPublisher) declare(ch *amqp.Channel) error {
	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if err := ch.ExchangeDeclare(p.config.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(p.config.Queue, true, false, false, false, amqp.Table{
		"x-message-ttl": int64(7 * 24 * time.Hour / time.Millisecond),
		"x-max-length":  int64(10000),
	}); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(p.config.Queue, p.config.RoutingKey, p.config.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}

// PublishSyncRun publishes summary as a persistent JSON message. Publishes
// are serialized so each confirmation matches its message.
func (p *SyncRunPublisher) PublishSyncRun(ctx context.Context, summary *statsync.Summary) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return fmt.Errorf("channel is not initialized")
	}

	event := SyncRunEvent{
		EventID:    uuid.New(),
		EventType:  SyncRunEventType,
		OccurredAt: time.Now().UTC(),
		Summary:    summary,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal sync run event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.config.Exchange,
		p.config.RoutingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			MessageId:    event.EventID.String(),
			Type:         SyncRunEventType,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirm, ok := <-p.confirms:
		if !ok {
			return fmt.Errorf("channel closed before publish confirmation")
		}
		if !confirm.Ack {
			return fmt.Errorf("message was not acknowledged by broker")
		}
	case <-time.After(confirmTimeout):
		return fmt.Errorf("timeout waiting for publish confirmation")
	case <-ctx.Done():
		return ctx.Err()
	}

	p.logger.Debug("Published sync run event",
		zap.String("eventId", event.EventID.String()),
		zap.String("channelId", summary.ChannelID),
		zap.String("routingKey", p.config.RoutingKey))

	return nil
}

func (p *SyncRunPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing publisher: %v", errs)
	}

	p.logger.Info("RabbitMQ publisher closed")
	return nil
}

func (p *SyncRunPublisher) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.conn != nil && !p.conn.IsClosed() && p.channel != nil
}
