package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"giftcard-store/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 3 * time.Second

// RabbitPublisher publishes JSON envelopes to the topic exchange.
type RabbitPublisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger zerolog.Logger
	now    func() time.Time
}

// DialRabbit connects to url and declares the events exchange.
func DialRabbit(url string, logger zerolog.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare %s: %w", EventsExchange, err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, logger: logger, now: time.Now}, nil
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

func (p *RabbitPublisher) PublishOrderPaid(ctx context.Context, o domain.Order) error {
	env := NewOrderPaid(o, p.now())
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPaid: %w", err)
	}
	if err := p.publishJSON(ctx, OrderPaidRoutingKey, env.EventID, body); err != nil {
		return fmt.Errorf("publish %s: %w", OrderPaidRoutingKey, err)
	}
	p.logger.Debug().Str("order_id", o.ID).Str("event_id", env.EventID).Msg("events: order paid published")
	return nil
}

func (p *RabbitPublisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    p.now().UTC(),
			Body:         body,
		},
	)
}

func (p *RabbitPublisher) Close() error {
	chErr := p.ch.Close()
	if err := p.conn.Close(); err != nil {
		return err
	}
	return chErr
}
