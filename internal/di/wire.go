//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"dashboard-backend/internal/application/services"
	"dashboard-backend/internal/config"
	"dashboard-backend/internal/interfaces/http/handlers"
	"dashboard-backend/internal/interfaces/http/rest"
	"dashboard-backend/pkg/validation"
)

var InfrastructureProviders = wire.NewSet(
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideS3Client,
	ProvideCognitoClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideClock,
	ProvideRepositories,
	wire.FieldsOf(new(*Repositories), "Dashboards", "Widgets", "TopicAreas", "Datasets", "Settings", "Users", "Objects"),
	ProvideEventPublisher,
	ProvidePrometheusMetrics,
	ProvideMetricsRecorder,
)

var ApplicationProviders = wire.NewSet(
	validation.New,
	services.NewDashboardService,
	services.NewWidgetService,
	services.NewTopicAreaService,
	ProvideDatasetService,
	services.NewSettingsService,
	services.NewUserService,
	services.NewPublicService,
)

var InterfaceProviders = wire.NewSet(
	handlers.NewDashboardHandler,
	handlers.NewWidgetHandler,
	handlers.NewTopicAreaHandler,
	handlers.NewDatasetHandler,
	handlers.NewSettingsHandler,
	handlers.NewUserHandler,
	handlers.NewPublicHandler,
	ProvideHealthHandler,
	wire.Struct(new(rest.Handlers), "*"),
	ProvideAuthenticator,
	ProvideInstrumentation,
	ProvideRouterOptions,
	rest.NewRouter,
	ProvideMux,
)

var SuperSet = wire.NewSet(
	InfrastructureProviders,
	ApplicationProviders,
	InterfaceProviders,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger, runtime Runtime) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
