// Websocket broadcast worker. Consumes catalog lifecycle events from the
// broadcast queue and fans them out to every connected client.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/infrastructure/config"
	dynamostore "catalog-backend/infrastructure/persistence/dynamodb"
)

const (
	sendAttempts = 3
	sendDelay    = 500 * time.Millisecond
)

var (
	logger *zap.Logger
	awsCfg aws.Config
	store  ports.ConnectionStore
)

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		logger.Fatal("failed to load aws config", zap.Error(err))
	}
	store = dynamostore.NewConnectionRepository(
		dynamodb.NewFromConfig(awsCfg),
		cfg.ConnectionsTable,
		cfg.UserIndexName,
		logger,
	)
}

func managementClient(endpoint string) *apigatewaymanagementapi.Client {
	return apigatewaymanagementapi.NewFromConfig(awsCfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s", endpoint))
	})
}

// sendWithRetry posts one message to one connection. Throttles and transient
// faults get a fixed-delay retry; a gone connection is cleaned up immediately
// and never retried.
func sendWithRetry(ctx context.Context, client *apigatewaymanagementapi.Client, connectionID string, payload []byte) error {
	var lastErr error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		_, err := client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})
		if err == nil {
			return nil
		}

		var gone *apigwtypes.GoneException
		if errors.As(err, &gone) {
			logger.Info("connection gone, removing",
				zap.String("connectionID", connectionID),
			)
			if err := store.Delete(ctx, connectionID); err != nil {
				logger.Warn("failed to remove stale connection",
					zap.String("connectionID", connectionID),
					zap.Error(err),
				)
			}
			return nil
		}

		lastErr = err
		logger.Warn("post to connection failed",
			zap.String("connectionID", connectionID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < sendAttempts {
			time.Sleep(sendDelay)
		}
	}
	return fmt.Errorf("send to %s failed after %d attempts: %w", connectionID, sendAttempts, lastErr)
}

func broadcast(ctx context.Context, event ports.RecordEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal broadcast payload: %w", err)
	}

	conns, err := store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list connections: %w", err)
	}
	if len(conns) == 0 {
		logger.Debug("no active connections, dropping broadcast",
			zap.String("type", event.Type),
		)
		return nil
	}

	clients := make(map[string]*apigatewaymanagementapi.Client)
	sent, failed := 0, 0
	for _, conn := range conns {
		client, ok := clients[conn.Endpoint]
		if !ok {
			client = managementClient(conn.Endpoint)
			clients[conn.Endpoint] = client
		}
		if err := sendWithRetry(ctx, client, conn.ConnectionID, payload); err != nil {
			logger.Error("broadcast delivery failed", zap.Error(err))
			failed++
		} else {
			sent++
		}
	}

	logger.Info("broadcast complete",
		zap.String("type", event.Type),
		zap.String("recordID", event.RecordID),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	if failed > 0 && sent == 0 {
		return fmt.Errorf("all %d deliveries failed", failed)
	}
	return nil
}

func decodeEvent(body []byte) (ports.RecordEvent, error) {
	// The queue carries RecordEvent JSON directly; EventBridge-routed
	// messages wrap it in a CloudWatch event envelope.
	var event ports.RecordEvent
	if err := json.Unmarshal(body, &event); err == nil && event.Type != "" {
		return event, nil
	}
	var wrapped events.CloudWatchEvent
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Detail) > 0 {
		if err := json.Unmarshal(wrapped.Detail, &event); err == nil && event.Type != "" {
			return event, nil
		}
	}
	return ports.RecordEvent{}, errors.New("unrecognized broadcast message")
}

func handler(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, record := range sqsEvent.Records {
		event, err := decodeEvent([]byte(record.Body))
		if err != nil {
			logger.Warn("skipping unreadable message",
				zap.String("messageID", record.MessageId),
				zap.Error(err),
			)
			continue
		}
		if err := broadcast(ctx, event); err != nil {
			// Returning the error would requeue the whole batch; log and
			// move on, delivery is best-effort.
			logger.Error("broadcast failed",
				zap.String("messageID", record.MessageId),
				zap.Error(err),
			)
		}
	}
	return nil
}

func main() {
	lambda.Start(handler)
}
