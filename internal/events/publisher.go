package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	RoutingKeyRecorded  = "measurement.recorded"
	RoutingKeyConfirmed = "measurement.confirmed"
)

// MeasurementEvent is published whenever a reading is recorded or confirmed.
// Downstream consumers (billing, notifications) key off the routing key.
type MeasurementEvent struct {
	MeasureID    string    `json:"measure_id"`
	CustomerCode string    `json:"customer_code"`
	MeasureType  string    `json:"measure_type"`
	Value        float64   `json:"value"`
	Datetime     time.Time `json:"measure_datetime"`
	Confirmed    bool      `json:"confirmed"`
}

// Publisher sends measurement events to a durable topic exchange
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher connects to RabbitMQ and declares the events exchange
func NewPublisher(url, exchange string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish sends a measurement event with the given routing key
func (p *Publisher) Publish(ctx context.Context, event MeasurementEvent, routingKey string) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published measurement event",
		zap.String("routing_key", routingKey),
		zap.String("measure_id", event.MeasureID),
		zap.String("customer_code", event.CustomerCode),
	)

	return nil
}

// Close closes the channel and connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
