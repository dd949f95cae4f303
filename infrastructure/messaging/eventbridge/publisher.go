package eventbridge

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	apperrors "catalog-backend/pkg/errors"
)

const eventSource = "catalog-backend"

// Publisher implements ports.EventPublisher on EventBridge.
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates an EventBridge publisher.
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish puts one lifecycle event onto the bus.
func (p *Publisher) Publish(ctx context.Context, event ports.RecordEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return apperrors.NewExternalError("eventbridge", err)
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(event.Type),
				Detail:       aws.String(string(detail)),
			},
		},
	})
	if err != nil {
		return apperrors.NewExternalError("eventbridge", err)
	}
	if out.FailedEntryCount > 0 {
		p.logger.Warn("eventbridge rejected event",
			zap.String("type", event.Type),
			zap.String("recordID", event.RecordID),
		)
	}

	p.logger.Debug("lifecycle event published",
		zap.String("type", event.Type),
		zap.String("kind", event.Kind),
		zap.String("recordID", event.RecordID),
	)
	return nil
}
