package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/streadway/amqp"
)

// AMQPChannel is the subset of *amqp.Channel the client uses.
type AMQPChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPClient publishes queue messages to a durable RabbitMQ queue.
type AMQPClient struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel AMQPChannel
	queue   string
}

// NewAMQPClient dials url and declares queueName.
func NewAMQPClient(url, queueName string) (*AMQPClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("AMQP_URL is required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	client, err := NewAMQPClientWith(ch, queueName)
	if err != nil {
		conn.Close()
		return nil, err
	}
	client.conn = conn
	return client, nil
}

// NewAMQPClientWith declares queueName on an existing channel.
func NewAMQPClientWith(ch AMQPChannel, queueName string) (*AMQPClient, error) {
	if _, err := DeclareAMQPQueue(ch, queueName); err != nil {
		return nil, err
	}
	return &AMQPClient{channel: ch, queue: queueName}, nil
}

// DeclareAMQPQueue declares the durable export queue.
func DeclareAMQPQueue(ch interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}, queueName string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("amqp declare queue %s: %w", queueName, err)
	}
	return q, nil
}

// Send publishes msg as a persistent JSON message.
func (a *AMQPClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode amqp message: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	err = a.channel.Publish("", a.queue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		CorrelationId: msg.RequestID,
		MessageId:     msg.ExportID,
		Body:          payload,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Close closes the channel and connection.
func (a *AMQPClient) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.channel.Close()
	if a.conn != nil {
		if cerr := a.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

var _ Client = (*AMQPClient)(nil)
