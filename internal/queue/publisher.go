package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher sends change events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev ChangedEvent) error
}

// NopPublisher drops every event. It is used when the queue is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ChangedEvent) error { return nil }

// AMQPPublisher publishes persistent JSON messages to a durable queue on the
// default exchange. The connection is dialled lazily and redialled after the
// broker drops it.
type AMQPPublisher struct {
	url   string
	queue string
	log   zerolog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher returns a publisher for queue on the broker at url. No
// connection is made until the first Publish.
func NewAMQPPublisher(url, queue string, log zerolog.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue, log: log}
}

// Publish marshals ev and sends it. On a channel error the cached connection
// is discarded so the next call redials.
func (p *AMQPPublisher) Publish(ctx context.Context, ev ChangedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.reset()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close shuts the channel and connection if open.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	p.ch, p.conn = nil, nil
	return err
}

// channel returns the cached channel, dialling and declaring the queue when
// needed. Callers hold p.mu.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declare(ch, p.queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.log.Info().Str("queue", p.queue).Msg("publisher connected")
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// declare makes sure the durable queue exists.
func declare(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return nil
}
