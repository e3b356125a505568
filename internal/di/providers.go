package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dashboard-backend/internal/application/ports"
	"dashboard-backend/internal/application/services"
	"dashboard-backend/internal/config"
	"dashboard-backend/internal/domain/shared"
	"dashboard-backend/internal/infrastructure/identity/cognito"
	"dashboard-backend/internal/infrastructure/messaging/eventbridge"
	"dashboard-backend/internal/infrastructure/observability"
	"dashboard-backend/internal/infrastructure/persistence/dynamodb"
	"dashboard-backend/internal/infrastructure/persistence/memory"
	"dashboard-backend/internal/infrastructure/storage/s3"
	"dashboard-backend/internal/interfaces/http/handlers"
	"dashboard-backend/internal/interfaces/http/middleware"
	"dashboard-backend/internal/interfaces/http/rest"
	"dashboard-backend/pkg/auth"
)

// ProvideAWSConfig loads the SDK configuration. A configured endpoint points
// every client at a local emulator.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(loadCtx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.AWS.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
	}
	if cfg.Observability.EnableXRay {
		observability.InstrumentAWS(&awsCfg)
	}
	return awsCfg, nil
}

func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		timeout := 15 * time.Second
		if cfg.IsDevelopment() {
			timeout = 30 * time.Second
		}
		o.HTTPClient = &http.Client{Timeout: timeout}
	})
}

func ProvideS3Client(awsCfg aws.Config, cfg *config.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		// Emulators serve buckets by path rather than by virtual host.
		o.UsePathStyle = cfg.AWS.Endpoint != ""
	})
}

func ProvideCognitoClient(awsCfg aws.Config) *cip.Client {
	return cip.NewFromConfig(awsCfg)
}

func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg, func(o *awseventbridge.Options) {
		o.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	})
}

func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

func ProvideClock() shared.Clock {
	return shared.SystemClock
}

// ProvideRepositories selects the storage driver. With DynamoDB, a missing
// bucket or user pool falls back to process memory for that store so a
// development stack can run against a local table alone.
func ProvideRepositories(
	cfg *config.Config,
	clock shared.Clock,
	ddb *awsdynamodb.Client,
	s3Client *awss3.Client,
	cognitoClient *cip.Client,
	logger *zap.Logger,
) *Repositories {
	if cfg.Storage.Driver == config.DriverMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore(clock)
		return &Repositories{
			Dashboards: store.Dashboards(),
			Widgets:    store.Widgets(),
			TopicAreas: store.TopicAreas(),
			Datasets:   store.Datasets(),
			Settings:   store.Settings(),
			Users:      store.Users(),
			Objects:    store.Objects(),
		}
	}

	table := dynamodb.TableConfig{TableName: cfg.AWS.TableName, TypeIndexName: dynamodb.DefaultTypeIndex}
	opt := dynamodb.WithClock(clock)
	repos := &Repositories{
		Dashboards: dynamodb.NewDashboardRepository(ddb, table, logger, opt),
		Widgets:    dynamodb.NewWidgetRepository(ddb, table, logger, opt),
		TopicAreas: dynamodb.NewTopicAreaRepository(ddb, table, logger, opt),
		Datasets:   dynamodb.NewDatasetRepository(ddb, table, logger, opt),
		Settings:   dynamodb.NewSettingsRepository(ddb, table, logger, opt),
	}

	var fallback *memory.Store
	if cfg.AWS.DatasetsBucket != "" {
		repos.Objects = s3.NewObjectStore(s3Client, cfg.AWS.DatasetsBucket, logger)
	} else {
		logger.Warn("No datasets bucket configured, dataset files are kept in memory")
		fallback = memory.NewStore(clock)
		repos.Objects = fallback.Objects()
	}
	if cfg.AWS.UserPoolID != "" {
		repos.Users = cognito.NewUserRepository(cognitoClient, cfg.AWS.UserPoolID, logger)
	} else {
		logger.Warn("No user pool configured, users are kept in memory")
		if fallback == nil {
			fallback = memory.NewStore(clock)
		}
		repos.Users = fallback.Users()
	}
	return repos
}

func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.AWS.EventBusName == "" {
		return ports.NopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.AWS.EventBusName, logger)
}

func ProvidePrometheusMetrics(cfg *config.Config) *observability.Metrics {
	return observability.NewMetrics(cfg.Observability.MetricsNamespace)
}

// ProvideMetricsRecorder sends business metrics to CloudWatch on Lambda,
// where nothing scrapes /metrics, and to Prometheus otherwise.
func ProvideMetricsRecorder(
	cfg *config.Config,
	runtime Runtime,
	prom *observability.Metrics,
	client *awscloudwatch.Client,
	logger *zap.Logger,
) ports.MetricsRecorder {
	switch {
	case runtime == RuntimeLambda && cfg.Observability.CloudWatchNamespace != "":
		return observability.NewCloudWatchMetrics(client, cfg.Observability.CloudWatchNamespace, string(cfg.Environment), logger)
	case runtime == RuntimeServer && cfg.Observability.EnableMetrics:
		return prom
	default:
		return ports.NopMetrics{}
	}
}

func ProvideDatasetService(repos *Repositories, logger *zap.Logger, clock shared.Clock, cfg *config.Config) *services.DatasetService {
	return services.NewDatasetService(repos.Datasets, repos.Objects, logger, clock, cfg.Storage.MaxUploadSize)
}

func ProvideHealthHandler(cfg *config.Config) *handlers.HealthHandler {
	return handlers.NewHealthHandler(cfg.Version)
}

// ProvideAuthenticator verifies bearer tokens only when a key is configured;
// otherwise callers must come through the API Gateway authorizer.
func ProvideAuthenticator(cfg *config.Config, logger *zap.Logger) (*middleware.Authenticator, error) {
	var validator middleware.TokenValidator
	if cfg.AuthKeyConfigured() {
		v, err := auth.NewJWTValidator(auth.Config{
			SigningMethod: cfg.Auth.SigningMethod,
			PublicKey:     cfg.Auth.PublicKey,
			SecretKey:     cfg.Auth.SecretKey,
			Issuer:        cfg.Auth.Issuer,
			Audience:      cfg.Auth.Audience,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT validator: %w", err)
		}
		validator = v
	}
	return middleware.NewAuthenticator(validator, logger), nil
}

func ProvideInstrumentation(cfg *config.Config, runtime Runtime, prom *observability.Metrics) rest.Instrumentation {
	var observe rest.Instrumentation
	if runtime == RuntimeServer && cfg.Observability.EnableMetrics {
		observe.Recorder = prom
		observe.MetricsHandler = prom.Handler()
	}
	if runtime == RuntimeServer && cfg.Observability.EnableTracing {
		observe.Tracing = observability.TracingMiddleware(cfg.ServiceName)
	}
	return observe
}

func ProvideRouterOptions(cfg *config.Config) rest.Options {
	return rest.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		CircuitBreaker: middleware.DefaultCircuitBreakerConfig(cfg.ServiceName),
	}
}

func ProvideMux(router *rest.Router) *chi.Mux {
	return router.Setup()
}
