package di

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awscognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awssesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/application/services"
	"catalog-backend/domain/catalog"
	"catalog-backend/infrastructure/config"
	"catalog-backend/infrastructure/email"
	"catalog-backend/infrastructure/identity"
	"catalog-backend/infrastructure/messaging/eventbridge"
	"catalog-backend/infrastructure/messaging/sqs"
	"catalog-backend/infrastructure/persistence/dynamodb"
	"catalog-backend/interfaces/http/rest"
	"catalog-backend/interfaces/http/rest/handlers"
	"catalog-backend/interfaces/http/rest/middleware"
	"catalog-backend/pkg/auth"
	"catalog-backend/pkg/observability"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig loads the shared AWS configuration.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client.
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client.
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideSQSClient creates an SQS client.
func ProvideSQSClient(awsCfg aws.Config) *awssqs.Client {
	return awssqs.NewFromConfig(awsCfg)
}

// ProvideSESClient creates an SES client.
func ProvideSESClient(awsCfg aws.Config) *awssesv2.Client {
	return awssesv2.NewFromConfig(awsCfg)
}

// ProvideCognitoClient creates a Cognito client.
func ProvideCognitoClient(awsCfg aws.Config) *awscognito.Client {
	return awscognito.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client.
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideEventPublisher creates the lifecycle event publisher.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideBroadcastQueue creates the websocket broadcast queue. Nil when no
// queue is configured; the service skips broadcasting.
func ProvideBroadcastQueue(client *awssqs.Client, cfg *config.Config, logger *zap.Logger) ports.BroadcastQueue {
	if cfg.BroadcastQueueURL == "" {
		return nil
	}
	return sqs.NewBroadcastQueue(client, cfg.BroadcastQueueURL, logger)
}

// ProvideEmailSender creates the approval notification sender.
func ProvideEmailSender(client *awssesv2.Client, cfg *config.Config, logger *zap.Logger) ports.EmailSender {
	return email.NewSESSender(client, cfg.SenderAddress, cfg.ApproverAddress, logger)
}

// ProvideIdentityProvider creates the Cognito-backed identity provider.
func ProvideIdentityProvider(client *awscognito.Client, cfg *config.Config, logger *zap.Logger) ports.IdentityProvider {
	return identity.NewCognitoProvider(client, cfg.CognitoUserPoolID, cfg.CognitoClientID, logger)
}

// ProvideMetrics creates the workflow metrics sink. Nil disables counting.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	namespace := fmt.Sprintf("Catalog/%s", cfg.Environment)
	return observability.NewMetrics(client, namespace, logger)
}

// ProvideTracer creates the X-Ray tracer. Nil disables tracing.
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("catalog-backend")
}

// ProvideConnectionStore creates the websocket connection store.
func ProvideConnectionStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ConnectionStore {
	return dynamodb.NewConnectionRepository(client, cfg.ConnectionsTable, cfg.UserIndexName, logger)
}

// ProvideActorResolver picks the actor resolver: JWT validation normally,
// the configured static actor when auth bypass is enabled.
func ProvideActorResolver(cfg *config.Config, logger *zap.Logger) (middleware.ActorResolver, error) {
	if cfg.AuthBypass && !cfg.IsProduction() {
		roles := strings.Split(cfg.AuthBypassRoles, ",")
		for i := range roles {
			roles[i] = strings.TrimSpace(roles[i])
		}
		logger.Warn("auth bypass enabled, all requests act as configured user",
			zap.String("username", cfg.AuthBypassUsername),
			zap.Strings("roles", roles),
		)
		return middleware.NewStaticResolver(cfg.AuthBypassUsername, roles), nil
	}

	validator, err := auth.NewValidator(auth.Config{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
	if err != nil {
		return nil, err
	}
	return middleware.NewJWTResolver(validator), nil
}

func provideService[F any](
	kind catalog.Kind,
	client *awsdynamodb.Client,
	cfg *config.Config,
	events ports.EventPublisher,
	queue ports.BroadcastQueue,
	mailer ports.EmailSender,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.CatalogService[F] {
	store := dynamodb.NewRecordRepository[F](client, cfg.RecordsTable, cfg.NameIndexName, kind, logger)
	return services.NewCatalogService[F](kind, store, events, queue, mailer, metrics, tracer, logger)
}

// ProvideProductService creates the product service.
func ProvideProductService(
	client *awsdynamodb.Client,
	cfg *config.Config,
	events ports.EventPublisher,
	queue ports.BroadcastQueue,
	mailer ports.EmailSender,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.CatalogService[catalog.ProductFields] {
	return provideService[catalog.ProductFields](catalog.KindProduct, client, cfg, events, queue, mailer, metrics, tracer, logger)
}

// ProvideCategoryService creates the product category service.
func ProvideCategoryService(
	client *awsdynamodb.Client,
	cfg *config.Config,
	events ports.EventPublisher,
	queue ports.BroadcastQueue,
	mailer ports.EmailSender,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.CatalogService[catalog.CategoryFields] {
	return provideService[catalog.CategoryFields](catalog.KindProductCategory, client, cfg, events, queue, mailer, metrics, tracer, logger)
}

// ProvidePriceTypeService creates the price type service.
func ProvidePriceTypeService(
	client *awsdynamodb.Client,
	cfg *config.Config,
	events ports.EventPublisher,
	queue ports.BroadcastQueue,
	mailer ports.EmailSender,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.CatalogService[catalog.PriceTypeFields] {
	return provideService[catalog.PriceTypeFields](catalog.KindProductPriceType, client, cfg, events, queue, mailer, metrics, tracer, logger)
}

// ProvideUnitService creates the product unit service.
func ProvideUnitService(
	client *awsdynamodb.Client,
	cfg *config.Config,
	events ports.EventPublisher,
	queue ports.BroadcastQueue,
	mailer ports.EmailSender,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.CatalogService[catalog.UnitFields] {
	return provideService[catalog.UnitFields](catalog.KindProductUnit, client, cfg, events, queue, mailer, metrics, tracer, logger)
}

// ProvideDealService creates the product deal service.
func ProvideDealService(
	client *awsdynamodb.Client,
	cfg *config.Config,
	events ports.EventPublisher,
	queue ports.BroadcastQueue,
	mailer ports.EmailSender,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.CatalogService[catalog.DealFields] {
	return provideService[catalog.DealFields](catalog.KindProductDeal, client, cfg, events, queue, mailer, metrics, tracer, logger)
}

// ProvideAuthService creates the auth service.
func ProvideAuthService(provider ports.IdentityProvider, logger *zap.Logger) *services.AuthService {
	return services.NewAuthService(provider, logger)
}

// ProvideProductHandler creates the product handler.
func ProvideProductHandler(service *services.CatalogService[catalog.ProductFields], logger *zap.Logger) *handlers.CatalogHandler[catalog.ProductFields] {
	return handlers.NewCatalogHandler(service, logger)
}

// ProvideCategoryHandler creates the product category handler.
func ProvideCategoryHandler(service *services.CatalogService[catalog.CategoryFields], logger *zap.Logger) *handlers.CatalogHandler[catalog.CategoryFields] {
	return handlers.NewCatalogHandler(service, logger)
}

// ProvidePriceTypeHandler creates the price type handler.
func ProvidePriceTypeHandler(service *services.CatalogService[catalog.PriceTypeFields], logger *zap.Logger) *handlers.CatalogHandler[catalog.PriceTypeFields] {
	return handlers.NewCatalogHandler(service, logger)
}

// ProvideUnitHandler creates the product unit handler.
func ProvideUnitHandler(service *services.CatalogService[catalog.UnitFields], logger *zap.Logger) *handlers.CatalogHandler[catalog.UnitFields] {
	return handlers.NewCatalogHandler(service, logger)
}

// ProvideDealHandler creates the product deal handler.
func ProvideDealHandler(service *services.CatalogService[catalog.DealFields], logger *zap.Logger) *handlers.CatalogHandler[catalog.DealFields] {
	return handlers.NewCatalogHandler(service, logger)
}

// ProvideAuthHandler creates the auth handler.
func ProvideAuthHandler(service *services.AuthService, logger *zap.Logger) *handlers.AuthHandler {
	return handlers.NewAuthHandler(service, logger)
}

// ProvideRouter assembles the HTTP router.
func ProvideRouter(
	products *handlers.CatalogHandler[catalog.ProductFields],
	categories *handlers.CatalogHandler[catalog.CategoryFields],
	priceTypes *handlers.CatalogHandler[catalog.PriceTypeFields],
	units *handlers.CatalogHandler[catalog.UnitFields],
	deals *handlers.CatalogHandler[catalog.DealFields],
	authHandler *handlers.AuthHandler,
	resolver middleware.ActorResolver,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(products, categories, priceTypes, units, deals, authHandler, resolver, cfg.EnableCORS, logger)
}
