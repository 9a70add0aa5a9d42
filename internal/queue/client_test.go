package queue

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/streadway/amqp"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSClientSend(t *testing.T) {
	fake := &fakeSQS{}
	client := NewSQSClientWith(fake, "https://sqs.example/queue")

	if err := client.Send(context.Background(), Message{ExportID: "e1", Version: 1}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("expected one send, got %d", len(fake.inputs))
	}
	if aws.ToString(fake.inputs[0].QueueUrl) != "https://sqs.example/queue" {
		t.Fatalf("unexpected queue url")
	}
	got, err := DecodeMessage([]byte(aws.ToString(fake.inputs[0].MessageBody)))
	if err != nil || got.ExportID != "e1" {
		t.Fatalf("unexpected body %q", aws.ToString(fake.inputs[0].MessageBody))
	}
}

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	closed    bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, nil
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPClientSend(t *testing.T) {
	ch := &fakeChannel{}
	client, err := NewAMQPClientWith(ch, "matchrate.exports")
	if err != nil {
		t.Fatalf("NewAMQPClientWith: %v", err)
	}
	if len(ch.declared) != 1 || ch.declared[0] != "matchrate.exports" {
		t.Fatalf("expected durable queue declared, got %v", ch.declared)
	}

	if err := client.Send(context.Background(), Message{ExportID: "e2", RequestID: "r2", Version: 1}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(ch.published) != 1 || ch.keys[0] != "matchrate.exports" {
		t.Fatalf("expected publish to queue, got %v", ch.keys)
	}
	pub := ch.published[0]
	if pub.DeliveryMode != amqp.Persistent || pub.CorrelationId != "r2" || pub.MessageId != "e2" {
		t.Fatalf("unexpected publishing %+v", pub)
	}

	if err := client.Close(); err != nil || !ch.closed {
		t.Fatalf("expected channel closed")
	}
}
