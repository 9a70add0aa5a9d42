package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

type stubProcessor struct {
	fail map[string]error
}

func (s stubProcessor) Process(ctx context.Context, exportID string) error {
	return s.fail[exportID]
}

func TestHandleBatchReportsOnlyRetryableFailures(t *testing.T) {
	proc := stubProcessor{fail: map[string]error{"e2": errors.New("timeout")}}
	event := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m1", Body: `{"exportId":"e1"}`},
		{MessageId: "m2", Body: `{"exportId":"e2"}`},
		{MessageId: "m3", Body: `{bad`},
	}}

	resp := handleBatch(context.Background(), proc, event)
	if len(resp.BatchItemFailures) != 1 || resp.BatchItemFailures[0].ItemIdentifier != "m2" {
		t.Fatalf("unexpected failures %+v", resp.BatchItemFailures)
	}
}
