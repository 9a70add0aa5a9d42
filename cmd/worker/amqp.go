package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"matchrate-backend/internal/queue"
	"matchrate-backend/internal/shared/config"
	"matchrate-backend/internal/shared/metrics"
	"matchrate-backend/internal/shared/telemetry"
	"matchrate-backend/internal/workerproc"
)

// acker is the subset of amqp.Delivery used to settle a message.
type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func runAMQP(ctx context.Context, cfg config.Config, processor workerproc.Processor, concurrency int, shutdownTimeout time.Duration) error {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	if _, err := queue.DeclareAMQPQueue(ch, cfg.AMQPQueue); err != nil {
		return err
	}
	if err := ch.Qos(concurrency, 0, false); err != nil {
		return fmt.Errorf("amqp qos: %w", err)
	}
	deliveries, err := ch.Consume(cfg.AMQPQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume: %w", err)
	}

	telemetry.Info("worker.started", map[string]any{
		"backend":     "amqp",
		"queue":       cfg.AMQPQueue,
		"concurrency": concurrency,
	})

	var wg sync.WaitGroup
	err = consume(ctx, deliveries, processor, concurrency, &wg)
	waitForInflight(&wg, shutdownTimeout)
	return err
}

// consume hands deliveries to at most concurrency handlers. It returns when
// ctx is done or the delivery channel closes; a delivery still waiting for a
// free slot at shutdown is requeued.
func consume(ctx context.Context, deliveries <-chan amqp.Delivery, processor workerproc.Processor, concurrency int, wg *sync.WaitGroup) error {
	sem := make(chan struct{}, concurrency)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("amqp delivery channel closed")
			}
			select {
			case <-ctx.Done():
				if err := d.Nack(false, true); err != nil {
					telemetry.Error("worker.export.nack_failed", map[string]any{"error": err.Error()})
				}
				return nil
			case sem <- struct{}{}:
			}
			metrics.IncWorkerMessagesReceived()
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				handleDelivery(ctx, processor, d.Body, d.MessageId, d)
			}(d)
		}
	}
}

// handleDelivery acks processed or unrecoverable messages and requeues the rest.
func handleDelivery(ctx context.Context, processor workerproc.Processor, body []byte, messageID string, ack acker) {
	fields := map[string]any{"amqp_message_id": messageID}
	err := process(ctx, processor, string(body), fields)
	if err != nil && !workerproc.ShouldDelete(err) {
		if nerr := ack.Nack(false, true); nerr != nil {
			telemetry.Error("worker.export.nack_failed", map[string]any{"error": nerr.Error()})
		}
		return
	}
	if aerr := ack.Ack(false); aerr != nil {
		telemetry.Error("worker.export.ack_failed", map[string]any{"error": aerr.Error()})
		return
	}
	if err != nil {
		metrics.IncWorkerMessagesDropped()
	}
}
