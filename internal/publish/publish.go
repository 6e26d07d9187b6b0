// Package publish forwards completed run records to a message broker.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/history"
	"github.com/streadway/amqp"
)

// MessageType tags every published message.
const MessageType = "attacksim.run"

// Sink receives completed run records.
type Sink interface {
	Publish(ctx context.Context, r history.Record) error
	Close() error
}

// Discard is a Sink that drops every record.
type Discard struct{}

// Publish does nothing.
func (Discard) Publish(context.Context, history.Record) error { return nil }

// Close does nothing.
func (Discard) Close() error { return nil }

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes records as persistent JSON messages to a durable
// queue on the default exchange. A failed publish reopens the channel once
// and retries.
type AMQPPublisher struct {
	queue string
	open  func() (channel, error)

	mu   sync.Mutex
	conn *amqp.Connection
	ch   channel
}

// DialAMQP connects to url and declares queue.
func DialAMQP(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	p := &AMQPPublisher{
		queue: queue,
		conn:  conn,
		open: func() (channel, error) {
			ch, err := openChannel(conn, queue)
			if err != nil {
				return nil, err
			}
			return ch, nil
		},
	}
	ch, err := p.open()
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.ch = ch
	return p, nil
}

// openChannel opens a channel on conn and declares queue as durable.
func openChannel(conn *amqp.Connection, queue string) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return ch, nil
}

// Publish sends r to the queue.
func (p *AMQPPublisher) Publish(ctx context.Context, r history.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", r.ID, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    r.ID,
		Timestamp:    r.StartedAt,
		Type:         MessageType,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return fmt.Errorf("publisher is closed")
	}

	err = p.ch.Publish("", p.queue, false, false, msg)
	if err == nil {
		return nil
	}

	// The channel is unusable after a broker-side error.
	p.ch.Close()
	ch, openErr := p.open()
	if openErr != nil {
		p.ch = nil
		return fmt.Errorf("failed to publish record %s: %w (reopen: %v)", r.ID, err, openErr)
	}
	p.ch = ch
	if err := p.ch.Publish("", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish record %s: %w", r.ID, err)
	}
	return nil
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.ch != nil {
		firstErr = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.conn = nil
	}
	return firstErr
}
