package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	apperrors "catalog-backend/pkg/errors"
)

// connectionTTL expires abandoned websocket connections server-side.
const connectionTTL = 24 * time.Hour

// ConnectionRepository implements ports.ConnectionStore on DynamoDB.
// Layout: PK = CONNECTION#<id>, SK = METADATA; a GSI keyed by
// GSI1PK = USER#<userID> serves per-user fanout.
type ConnectionRepository struct {
	client    *dynamodb.Client
	tableName string
	userIndex string
	logger    *zap.Logger
}

// NewConnectionRepository creates a connection repository.
func NewConnectionRepository(client *dynamodb.Client, tableName, userIndex string, logger *zap.Logger) *ConnectionRepository {
	return &ConnectionRepository{
		client:    client,
		tableName: tableName,
		userIndex: userIndex,
		logger:    logger,
	}
}

type connectionItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI1PK       string `dynamodbav:"GSI1PK"`
	GSI1SK       string `dynamodbav:"GSI1SK"`
	ConnectionID string `dynamodbav:"ConnectionID"`
	UserID       string `dynamodbav:"UserID"`
	Endpoint     string `dynamodbav:"Endpoint"`
	ConnectedAt  string `dynamodbav:"ConnectedAt"`
	TTL          int64  `dynamodbav:"TTL"`
}

// Put stores a websocket connection.
func (r *ConnectionRepository) Put(ctx context.Context, conn ports.Connection) error {
	if conn.TTL == 0 {
		conn.TTL = time.Now().Add(connectionTTL).Unix()
	}
	item := connectionItem{
		PK:           fmt.Sprintf("CONNECTION#%s", conn.ConnectionID),
		SK:           "METADATA",
		GSI1PK:       fmt.Sprintf("USER#%s", conn.UserID),
		GSI1SK:       fmt.Sprintf("CONNECTION#%s", conn.ConnectionID),
		ConnectionID: conn.ConnectionID,
		UserID:       conn.UserID,
		Endpoint:     conn.Endpoint,
		ConnectedAt:  conn.ConnectedAt.Format(time.RFC3339),
		TTL:          conn.TTL,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.NewDatabaseError("marshal connection", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return apperrors.NewDatabaseError("store connection", err)
	}
	r.logger.Debug("connection stored",
		zap.String("connectionID", conn.ConnectionID),
		zap.String("userID", conn.UserID),
	)
	return nil
}

// Delete removes a websocket connection.
func (r *ConnectionRepository) Delete(ctx context.Context, connectionID string) error {
	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CONNECTION#%s", connectionID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}); err != nil {
		return apperrors.NewDatabaseError("delete connection", err)
	}
	return nil
}

// ListAll returns every active connection, for broadcast fanout.
func (r *ConnectionRepository) ListAll(ctx context.Context) ([]ports.Connection, error) {
	var conns []ports.Connection
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan connections", err)
		}
		for _, raw := range page.Items {
			var item connectionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("skipping unreadable connection item", zap.Error(err))
				continue
			}
			conns = append(conns, itemToConnection(item))
		}
	}
	return conns, nil
}

// ListByUser returns the active connections of a single user.
func (r *ConnectionRepository) ListByUser(ctx context.Context, userID string) ([]ports.Connection, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("USER#%s", userID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("build connection query", err)
	}
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.userIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("query user connections", err)
	}
	conns := make([]ports.Connection, 0, len(out.Items))
	for _, raw := range out.Items {
		var item connectionItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("skipping unreadable connection item", zap.Error(err))
			continue
		}
		conns = append(conns, itemToConnection(item))
	}
	return conns, nil
}

func itemToConnection(item connectionItem) ports.Connection {
	connectedAt, _ := time.Parse(time.RFC3339, item.ConnectedAt)
	return ports.Connection{
		ConnectionID: item.ConnectionID,
		UserID:       item.UserID,
		Endpoint:     item.Endpoint,
		ConnectedAt:  connectedAt,
		TTL:          item.TTL,
	}
}
