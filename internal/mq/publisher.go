package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shaiso/latency/internal/domain"
)

// MessageTypeBreach задаёт тип сообщения о превышении порога.
const MessageTypeBreach = "latency.breach"

// Message описывает конверт публикуемого сообщения.
type Message struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// BreachPayload описывает регион с превышениями порога.
type BreachPayload struct {
	Region      string  `json:"region"`
	ThresholdMs float64 `json:"threshold_ms"`
	Breaches    int     `json:"breaches"`
	AvgLatency  float64 `json:"avg_latency"`
	P95Latency  float64 `json:"p95_latency"`
	AvgUptime   float64 `json:"avg_uptime"`
	RequestID   string  `json:"request_id,omitempty"`
}

// channelPublisher покрывает метод amqp.Channel, нужный Publisher.
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует breach события.
type Publisher struct {
	withChannel func(ctx context.Context, fn func(ch channelPublisher) error) error
	logger      *slog.Logger
	now         func() time.Time
}

// NewPublisher создаёт Publisher поверх Connection.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		withChannel: func(ctx context.Context, fn func(ch channelPublisher) error) error {
			return conn.WithChannel(ctx, func(ch *amqp.Channel) error { return fn(ch) })
		},
		logger: logger,
		now:    time.Now,
	}
}

// NewMessage заворачивает payload в Message с новым ID.
func (p *Publisher) NewMessage(msgType string, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: p.now().UTC(),
	}
}

// Publish отправляет сообщение в exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey string, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.withChannel(ctx, func(ch channelPublisher) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),
			routingKey,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Type:         msg.Type,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// NotifyBreaches публикует по сообщению на каждый регион с breaches > 0.
// Порядок сообщений совпадает с порядком regions.
func (p *Publisher) NotifyBreaches(ctx context.Context, requestID string, thresholdMs float64, regions []string, summaries map[string]domain.RegionSummary) error {
	for _, region := range regions {
		s, ok := summaries[region]
		if !ok || s.Breaches == 0 {
			continue
		}

		msg := p.NewMessage(MessageTypeBreach, BreachPayload{
			Region:      region,
			ThresholdMs: thresholdMs,
			Breaches:    s.Breaches,
			AvgLatency:  s.AvgLatency,
			P95Latency:  s.P95Latency,
			AvgUptime:   s.AvgUptime,
			RequestID:   requestID,
		})
		if err := p.Publish(ctx, ExchangeEvents, BreachRoutingKey(region), msg); err != nil {
			return err
		}
	}
	return nil
}
