package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	exchangeKindTopic  = "topic"
	routingKeyPrefix   = "notification."
	contentTypeJSON    = "application/json"
	DefaultExchange    = "bookcircle.notifications"
	messageTypePayload = "bookcircle.notification.v1"
)

var (
	ErrPublishFailed    = errors.New("publishing the notification failed")
	ErrNilChannel       = errors.New("amqp channel must not be nil")
	ErrEmptyExchangeArg = errors.New("exchange name must not be empty")
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Payload is the JSON body of a published notification.
type Payload struct {
	RecipientID string    `json:"recipient_id"`
	Topic       string    `json:"topic"`
	ItemID      string    `json:"item_id,omitempty"`
	ItemTitle   string    `json:"item_title,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// AMQPPublisher publishes notifications to a topic exchange, routed by "notification.<topic>".
type AMQPPublisher struct {
	channel  Channel
	conn     *amqp.Connection
	exchange string
}

// DialAMQPPublisher connects to the broker and declares a durable topic exchange.
func DialAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		return nil, ErrEmptyExchangeArg
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err = ch.ExchangeDeclare(exchange, exchangeKindTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	publisher, err := NewAMQPPublisher(ch, exchange)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	publisher.conn = conn

	return publisher, nil
}

// NewAMQPPublisher publishes through an already opened channel.
func NewAMQPPublisher(channel Channel, exchange string) (*AMQPPublisher, error) {
	if channel == nil {
		return nil, ErrNilChannel
	}

	if exchange == "" {
		return nil, ErrEmptyExchangeArg
	}

	return &AMQPPublisher{channel: channel, exchange: exchange}, nil
}

// Notify publishes the notification as a persistent JSON message.
func (p *AMQPPublisher) Notify(ctx context.Context, notification core.Notification) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(PayloadOf(notification))
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(notification.Topic), false, false, amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    notification.OccurredAt,
		Type:         messageTypePayload,
		Body:         body,
	})
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	return nil
}

// Close closes the channel and, when the publisher dialed it, the connection.
func (p *AMQPPublisher) Close() error {
	err := p.channel.Close()

	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}

	return err
}

// RoutingKey is the routing key of a topic.
func RoutingKey(topic core.NotificationTopic) string {
	return routingKeyPrefix + string(topic)
}

// PayloadOf converts a notification into its wire form.
func PayloadOf(n core.Notification) Payload {
	return Payload{
		RecipientID: n.RecipientID,
		Topic:       string(n.Topic),
		ItemID:      n.ItemID,
		ItemTitle:   n.ItemTitle,
		ActorID:     n.ActorID,
		OccurredAt:  n.OccurredAt.UTC(),
	}
}
