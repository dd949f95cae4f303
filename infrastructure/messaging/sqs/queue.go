package sqs

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	apperrors "catalog-backend/pkg/errors"
)

// BroadcastQueue implements ports.BroadcastQueue on SQS. The ws-broadcast
// Lambda consumes this queue and fans the event out to connected clients.
type BroadcastQueue struct {
	client   *sqs.Client
	queueURL string
	logger   *zap.Logger
}

// NewBroadcastQueue creates an SQS-backed broadcast queue.
func NewBroadcastQueue(client *sqs.Client, queueURL string, logger *zap.Logger) *BroadcastQueue {
	return &BroadcastQueue{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
	}
}

// Enqueue pushes one event onto the broadcast queue.
func (q *BroadcastQueue) Enqueue(ctx context.Context, event ports.RecordEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return apperrors.NewExternalError("sqs", err)
	}
	if _, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	}); err != nil {
		return apperrors.NewExternalError("sqs", err)
	}
	q.logger.Debug("broadcast enqueued",
		zap.String("type", event.Type),
		zap.String("recordID", event.RecordID),
	)
	return nil
}
