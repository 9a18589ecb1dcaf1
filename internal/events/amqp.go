package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"fintrack/internal/logger"
)

// channel is the subset of *amqp091.Channel the mirror needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Mirror republishes ledger events to a RabbitMQ topic exchange using the
// event name as routing key. It is best-effort: broker failures are logged
// and never fail the ledger operation that raised the event.
type Mirror struct {
	conn     *amqp091.Connection
	ch       channel
	exchange string
	log      *zap.SugaredLogger
}

// DialMirror connects to url and declares a durable topic exchange.
func DialMirror(url, exchange string) (*Mirror, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	m := newMirror(ch, exchange)
	m.conn = conn
	return m, nil
}

func newMirror(ch channel, exchange string) *Mirror {
	return &Mirror{ch: ch, exchange: exchange, log: logger.Named("amqp")}
}

// Handle is a Handler suitable for Bus.Subscribe.
func (m *Mirror) Handle(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		m.log.Errorw("failed to marshal event", "event", e.Name, "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = m.ch.PublishWithContext(
		ctx,
		m.exchange,     // exchange
		string(e.Name), // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		m.log.Errorw("failed to publish event",
			"event", e.Name,
			"transaction_id", e.TransactionID,
			"exchange", m.exchange,
			"error", err,
		)
		return nil
	}

	m.log.Debugw("published event", "event", e.Name, "transaction_id", e.TransactionID)
	return nil
}

// Close closes the broker connection.
func (m *Mirror) Close() error {
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
