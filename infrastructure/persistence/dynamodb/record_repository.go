package dynamodb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
)

// RecordRepository implements ports.RecordStore for one resource kind on a
// single shared table.
//
// Layout: PK = KIND#<kind>, SK = RECORD#<id>. GSI1 serves name lookups with
// GSI1PK = KIND#<kind>#NAME#<name>, GSI1SK = METADATA. Name uniqueness is a
// best-effort point lookup before create; the index enforces nothing.
type RecordRepository[F any] struct {
	client    *dynamodb.Client
	tableName string
	nameIndex string
	kind      catalog.Kind
	logger    *zap.Logger
}

// NewRecordRepository creates a record repository for a resource kind.
func NewRecordRepository[F any](client *dynamodb.Client, tableName, nameIndex string, kind catalog.Kind, logger *zap.Logger) *RecordRepository[F] {
	return &RecordRepository[F]{
		client:    client,
		tableName: tableName,
		nameIndex: nameIndex,
		kind:      kind,
		logger:    logger,
	}
}

// recordItem is the DynamoDB item structure for a catalog record.
type recordItem[F any] struct {
	PK           string                 `dynamodbav:"PK"`
	SK           string                 `dynamodbav:"SK"`
	GSI1PK       string                 `dynamodbav:"GSI1PK"`
	GSI1SK       string                 `dynamodbav:"GSI1SK"`
	EntityType   string                 `dynamodbav:"EntityType"`
	RecordID     string                 `dynamodbav:"RecordID"`
	Kind         string                 `dynamodbav:"Kind"`
	Name         string                 `dynamodbav:"Name"`
	Status       string                 `dynamodbav:"Status"`
	RequestedBy  string                 `dynamodbav:"RequestedBy,omitempty"`
	ActivityLogs []string               `dynamodbav:"ActivityLogs"`
	ForApproval  *catalog.StagedEdit[F] `dynamodbav:"ForApprovalVersion,omitempty"`
	Fields       F                      `dynamodbav:"Fields"`
	Version      int                    `dynamodbav:"Version"`
	CreatedAt    string                 `dynamodbav:"CreatedAt"`
	UpdatedAt    string                 `dynamodbav:"UpdatedAt"`
}

func (r *RecordRepository[F]) partitionKey() string {
	return fmt.Sprintf("KIND#%s", r.kind)
}

func (r *RecordRepository[F]) sortKey(id string) string {
	return fmt.Sprintf("RECORD#%s", id)
}

func (r *RecordRepository[F]) nameKey(name string) string {
	return fmt.Sprintf("KIND#%s#NAME#%s", r.kind, name)
}

func (r *RecordRepository[F]) toItem(rec *catalog.Record[F]) recordItem[F] {
	return recordItem[F]{
		PK:           r.partitionKey(),
		SK:           r.sortKey(rec.ID),
		GSI1PK:       r.nameKey(rec.Name),
		GSI1SK:       "METADATA",
		EntityType:   "CATALOG_RECORD",
		RecordID:     rec.ID,
		Kind:         rec.Kind.String(),
		Name:         rec.Name,
		Status:       rec.Status.String(),
		RequestedBy:  rec.RequestedBy,
		ActivityLogs: rec.ActivityLogs,
		ForApproval:  rec.ForApproval,
		Fields:       rec.Fields,
		Version:      rec.Version,
		CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    rec.UpdatedAt.Format(time.RFC3339),
	}
}

func (r *RecordRepository[F]) fromItem(item recordItem[F]) (*catalog.Record[F], error) {
	status, err := catalog.ParseStatus(item.Status)
	if err != nil {
		return nil, fmt.Errorf("corrupt record %s: %w", item.RecordID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt record %s: %w", item.RecordID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt record %s: %w", item.RecordID, err)
	}
	return &catalog.Record[F]{
		ID:           item.RecordID,
		Kind:         catalog.Kind(item.Kind),
		Name:         item.Name,
		Status:       status,
		RequestedBy:  item.RequestedBy,
		ActivityLogs: item.ActivityLogs,
		ForApproval:  item.ForApproval,
		Fields:       item.Fields,
		Version:      item.Version,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// FindByID retrieves a record, returning (nil, nil) when absent.
func (r *RecordRepository[F]) FindByID(ctx context.Context, id string) (*catalog.Record[F], error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: r.partitionKey()},
			"SK": &types.AttributeValueMemberS{Value: r.sortKey(id)},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("get record", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var item recordItem[F]
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, apperrors.NewDatabaseError("unmarshal record", err)
	}
	return r.fromItem(item)
}

// FindByName retrieves a record by its unique name via GSI1, returning
// (nil, nil) when absent.
func (r *RecordRepository[F]) FindByName(ctx context.Context, name string) (*catalog.Record[F], error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(r.nameKey(name))).
		And(expression.Key("GSI1SK").Equal(expression.Value("METADATA")))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("build name query", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.nameIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("query record by name", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var item recordItem[F]
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return nil, apperrors.NewDatabaseError("unmarshal record", err)
	}
	return r.fromItem(item)
}

// Create persists a new record. The condition guards against an id
// collision, not against duplicate names.
func (r *RecordRepository[F]) Create(ctx context.Context, rec *catalog.Record[F]) error {
	av, err := attributevalue.MarshalMap(r.toItem(rec))
	if err != nil {
		return apperrors.NewDatabaseError("marshal record", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return apperrors.NewConflictError("record already exists: " + rec.ID)
		}
		return apperrors.NewDatabaseError("create record", err)
	}

	r.logger.Debug("record created",
		zap.String("kind", rec.Kind.String()),
		zap.String("recordID", rec.ID),
		zap.String("status", rec.Status.String()),
	)
	return nil
}

// Update writes a record back, conditional on the version the caller read.
// A concurrent writer trips the condition and surfaces as a conflict so the
// caller can re-read and retry instead of silently clobbering.
func (r *RecordRepository[F]) Update(ctx context.Context, rec *catalog.Record[F]) error {
	expectedVersion := rec.Version
	rec.Version++

	av, err := attributevalue.MarshalMap(r.toItem(rec))
	if err != nil {
		rec.Version = expectedVersion
		return apperrors.NewDatabaseError("marshal record", err)
	}

	cond := expression.Name("Version").Equal(expression.Value(expectedVersion))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		rec.Version = expectedVersion
		return apperrors.NewDatabaseError("build update condition", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		rec.Version = expectedVersion
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return apperrors.NewConflictError("record was modified concurrently, retry with the latest version")
		}
		return apperrors.NewDatabaseError("update record", err)
	}

	r.logger.Debug("record updated",
		zap.String("kind", rec.Kind.String()),
		zap.String("recordID", rec.ID),
		zap.String("status", rec.Status.String()),
		zap.Int("version", rec.Version),
	)
	return nil
}

// Delete removes a record, conditional on its version.
func (r *RecordRepository[F]) Delete(ctx context.Context, rec *catalog.Record[F]) error {
	cond := expression.Name("Version").Equal(expression.Value(rec.Version))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return apperrors.NewDatabaseError("build delete condition", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: r.partitionKey()},
			"SK": &types.AttributeValueMemberS{Value: r.sortKey(rec.ID)},
		},
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return apperrors.NewConflictError("record was modified concurrently, retry with the latest version")
		}
		return apperrors.NewDatabaseError("delete record", err)
	}

	r.logger.Debug("record deleted",
		zap.String("kind", rec.Kind.String()),
		zap.String("recordID", rec.ID),
	)
	return nil
}

// Paginate lists records of this kind, optionally filtered by status, with
// an opaque cursor for continuation.
func (r *RecordRepository[F]) Paginate(ctx context.Context, req ports.PageRequest) (*ports.Page[F], error) {
	keyCond := expression.Key("PK").Equal(expression.Value(r.partitionKey())).
		And(expression.Key("SK").BeginsWith("RECORD#"))
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if req.Status != "" {
		builder = builder.WithFilter(expression.Name("Status").Equal(expression.Value(req.Status.String())))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("build page query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(req.Limit),
		ScanIndexForward:          aws.Bool(req.Direction != ports.DirectionPrev),
	}

	if req.Cursor != "" {
		startKey, err := decodeCursor(req.Cursor)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid cursorPointer")
		}
		input.ExclusiveStartKey = startKey
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, apperrors.NewDatabaseError("paginate records", err)
	}

	page := &ports.Page[F]{Records: make([]catalog.Record[F], 0, len(out.Items))}
	for _, raw := range out.Items {
		var item recordItem[F]
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("skipping unreadable record item", zap.Error(err))
			continue
		}
		rec, err := r.fromItem(item)
		if err != nil {
			r.logger.Warn("skipping corrupt record item", zap.Error(err))
			continue
		}
		page.Records = append(page.Records, *rec)
	}

	if out.LastEvaluatedKey != nil {
		page.Cursor, err = encodeCursor(out.LastEvaluatedKey)
		if err != nil {
			return nil, apperrors.NewDatabaseError("encode cursor", err)
		}
	}

	return page, nil
}

// The cursor is the base64 of the JSON-encoded LastEvaluatedKey. All key
// attributes in this table are strings.
func encodeCursor(key map[string]types.AttributeValue) (string, error) {
	flat := make(map[string]string, len(key))
	for name, attr := range key {
		s, ok := attr.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("unexpected key attribute type for %s", name)
		}
		flat[name] = s.Value
	}
	raw, err := json.Marshal(flat)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, err
	}
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	key := make(map[string]types.AttributeValue, len(flat))
	for name, value := range flat {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key, nil
}
