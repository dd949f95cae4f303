// Websocket $connect/$disconnect handler. Connects are authenticated with
// the same JWT the REST surface uses, passed as a query parameter because
// browsers cannot set headers on websocket upgrades.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/infrastructure/config"
	dynamostore "catalog-backend/infrastructure/persistence/dynamodb"
	"catalog-backend/pkg/auth"
)

var (
	logger    *zap.Logger
	validator *auth.Validator
	store     ports.ConnectionStore
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

	validator, err = auth.NewValidator(auth.Config{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
	if err != nil {
		logger.Fatal("failed to create token validator", zap.Error(err))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
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

func handler(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.RequestContext.RouteKey {
	case "$connect":
		return handleConnect(ctx, req)
	case "$disconnect":
		return handleDisconnect(ctx, req)
	default:
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
	}
}

func handleConnect(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	token := req.QueryStringParameters["token"]
	if token == "" {
		token = req.Headers["Authorization"]
	}
	claims, err := validator.Parse(token)
	if err != nil {
		logger.Warn("websocket connect rejected",
			zap.String("connectionID", req.RequestContext.ConnectionID),
			zap.Error(err),
		)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusUnauthorized,
			Body:       `{"errorMessage":"unauthorized"}`,
		}, nil
	}

	username := claims.Username
	if username == "" {
		username = claims.Email
	}
	conn := ports.Connection{
		ConnectionID: req.RequestContext.ConnectionID,
		UserID:       username,
		Endpoint:     fmt.Sprintf("%s/%s", req.RequestContext.DomainName, req.RequestContext.Stage),
		ConnectedAt:  time.Now().UTC(),
	}
	if err := store.Put(ctx, conn); err != nil {
		logger.Error("failed to store connection", zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"errorMessage":"internal server error"}`,
		}, nil
	}

	logger.Info("websocket connected",
		zap.String("connectionID", conn.ConnectionID),
		zap.String("userID", conn.UserID),
	)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func handleDisconnect(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := store.Delete(ctx, req.RequestContext.ConnectionID); err != nil {
		logger.Warn("failed to remove connection",
			zap.String("connectionID", req.RequestContext.ConnectionID),
			zap.Error(err),
		)
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func main() {
	lambda.Start(handler)
}
