// Environment bootstrap. Creates the DynamoDB tables and Cognito groups the
// backend expects; safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"catalog-backend/domain/catalog"
	"catalog-backend/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Fatal("failed to load aws config", zap.Error(err))
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	if err := ensureRecordsTable(ctx, dynamoClient, cfg, logger); err != nil {
		logger.Fatal("records table setup failed", zap.Error(err))
	}
	if err := ensureConnectionsTable(ctx, dynamoClient, cfg, logger); err != nil {
		logger.Fatal("connections table setup failed", zap.Error(err))
	}

	if cfg.CognitoUserPoolID != "" {
		cognitoClient := cognitoidentityprovider.NewFromConfig(awsCfg)
		if err := ensureGroups(ctx, cognitoClient, cfg, logger); err != nil {
			logger.Fatal("cognito group setup failed", zap.Error(err))
		}
	} else {
		logger.Warn("COGNITO_USER_POOL_ID not set, skipping group setup")
	}

	logger.Info("environment setup complete")
}

func tableExists(ctx context.Context, client *dynamodb.Client, name string) (bool, error) {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err != nil {
		var notFound *dynamotypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func ensureRecordsTable(ctx context.Context, client *dynamodb.Client, cfg *config.Config, logger *zap.Logger) error {
	exists, err := tableExists(ctx, client, cfg.RecordsTable)
	if err != nil {
		return err
	}
	if exists {
		logger.Info("records table exists", zap.String("table", cfg.RecordsTable))
		return nil
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(cfg.RecordsTable),
		BillingMode: dynamotypes.BillingModePayPerRequest,
		AttributeDefinitions: []dynamotypes.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: dynamotypes.ScalarAttributeTypeS},
			{AttributeName: aws.String("SK"), AttributeType: dynamotypes.ScalarAttributeTypeS},
			{AttributeName: aws.String("GSI1PK"), AttributeType: dynamotypes.ScalarAttributeTypeS},
			{AttributeName: aws.String("GSI1SK"), AttributeType: dynamotypes.ScalarAttributeTypeS},
		},
		KeySchema: []dynamotypes.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: dynamotypes.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: dynamotypes.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []dynamotypes.GlobalSecondaryIndex{
			{
				IndexName: aws.String(cfg.NameIndexName),
				KeySchema: []dynamotypes.KeySchemaElement{
					{AttributeName: aws.String("GSI1PK"), KeyType: dynamotypes.KeyTypeHash},
					{AttributeName: aws.String("GSI1SK"), KeyType: dynamotypes.KeyTypeRange},
				},
				Projection: &dynamotypes.Projection{ProjectionType: dynamotypes.ProjectionTypeAll},
			},
		},
	})
	if err != nil {
		return err
	}
	logger.Info("records table created", zap.String("table", cfg.RecordsTable))
	return nil
}

func ensureConnectionsTable(ctx context.Context, client *dynamodb.Client, cfg *config.Config, logger *zap.Logger) error {
	exists, err := tableExists(ctx, client, cfg.ConnectionsTable)
	if err != nil {
		return err
	}
	if exists {
		logger.Info("connections table exists", zap.String("table", cfg.ConnectionsTable))
		return nil
	}

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(cfg.ConnectionsTable),
		BillingMode: dynamotypes.BillingModePayPerRequest,
		AttributeDefinitions: []dynamotypes.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: dynamotypes.ScalarAttributeTypeS},
			{AttributeName: aws.String("SK"), AttributeType: dynamotypes.ScalarAttributeTypeS},
			{AttributeName: aws.String("GSI1PK"), AttributeType: dynamotypes.ScalarAttributeTypeS},
			{AttributeName: aws.String("GSI1SK"), AttributeType: dynamotypes.ScalarAttributeTypeS},
		},
		KeySchema: []dynamotypes.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: dynamotypes.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: dynamotypes.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []dynamotypes.GlobalSecondaryIndex{
			{
				IndexName: aws.String(cfg.UserIndexName),
				KeySchema: []dynamotypes.KeySchemaElement{
					{AttributeName: aws.String("GSI1PK"), KeyType: dynamotypes.KeyTypeHash},
					{AttributeName: aws.String("GSI1SK"), KeyType: dynamotypes.KeyTypeRange},
				},
				Projection: &dynamotypes.Projection{ProjectionType: dynamotypes.ProjectionTypeAll},
			},
		},
	})
	if err != nil {
		return err
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(cfg.ConnectionsTable),
	}, 2*time.Minute); err != nil {
		return err
	}
	// Abandoned connections expire via the TTL attribute the repository sets.
	_, err = client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(cfg.ConnectionsTable),
		TimeToLiveSpecification: &dynamotypes.TimeToLiveSpecification{
			AttributeName: aws.String("TTL"),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		return err
	}
	logger.Info("connections table created", zap.String("table", cfg.ConnectionsTable))
	return nil
}

func ensureGroups(ctx context.Context, client *cognitoidentityprovider.Client, cfg *config.Config, logger *zap.Logger) error {
	groups := []string{catalog.RoleSuperAdmin, catalog.RoleAdmin, catalog.RoleUser}
	for _, group := range groups {
		_, err := client.GetGroup(ctx, &cognitoidentityprovider.GetGroupInput{
			UserPoolId: aws.String(cfg.CognitoUserPoolID),
			GroupName:  aws.String(group),
		})
		if err == nil {
			logger.Info("group exists", zap.String("group", group))
			continue
		}
		var notFound *cognitotypes.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return err
		}

		_, err = client.CreateGroup(ctx, &cognitoidentityprovider.CreateGroupInput{
			UserPoolId:  aws.String(cfg.CognitoUserPoolID),
			GroupName:   aws.String(group),
			Description: aws.String("catalog backend role group"),
		})
		if err != nil {
			return err
		}
		logger.Info("group created", zap.String("group", group))
	}
	return nil
}
