package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// StartConsumer reads change events from queue and logs each one. It
// reconnects with exponential backoff until ctx is cancelled, then returns
// ctx.Err().
func StartConsumer(ctx context.Context, url, queue string, log zerolog.Logger) error {
	log = log.With().Str("component", "consumer").Str("queue", queue).Logger()
	backoff := minBackoff
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("dial broker failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = minBackoff

		err = consume(ctx, conn, queue, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consume(ctx context.Context, conn *amqp.Connection, queue string, log zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("set qos failed")
	}
	if err := declare(ch, queue); err != nil {
		return err
	}
	msgs, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	log.Info().Msg("consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(log, d.Body); err != nil {
				log.Error().Err(err).Msg("drop malformed event")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handleMessage decodes one event and writes it to log.
func handleMessage(log zerolog.Logger, body []byte) error {
	var ev ChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Entity == "" || ev.Action == "" {
		return errors.New("event without entity or action")
	}
	e := log.Info().
		Str("event_id", ev.ID).
		Str("entity", string(ev.Entity)).
		Int64("entity_id", ev.EntityID).
		Str("action", string(ev.Action)).
		Time("occurred_at", ev.OccurredAt)
	if ev.RelatedID != 0 {
		e = e.Int64("related_id", ev.RelatedID)
	}
	if ev.Subject != "" {
		e = e.Str("subject", ev.Subject)
	}
	e.Msg("catalog changed")
	return nil
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// sleep waits for d or ctx; it reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
