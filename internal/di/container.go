// Package di wires the application together with Google Wire. wire.go holds
// the injector definition and wire_gen.go the generated code.
package di

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dashboard-backend/internal/application/ports"
	"dashboard-backend/internal/config"
	"dashboard-backend/internal/infrastructure/observability"
	"dashboard-backend/internal/repository"
)

// Runtime is the process hosting the router.
type Runtime string

const (
	// RuntimeServer is the long-running HTTP server of cmd/api.
	RuntimeServer Runtime = "server"
	// RuntimeLambda is the API Gateway proxy of cmd/lambda.
	RuntimeLambda Runtime = "lambda"
)

// Repositories is the storage driver selected by STORAGE_DRIVER.
type Repositories struct {
	Dashboards repository.DashboardRepository
	Widgets    repository.WidgetRepository
	TopicAreas repository.TopicAreaRepository
	Datasets   repository.DatasetRepository
	Settings   repository.SettingsRepository
	Users      repository.UserRepository
	Objects    ports.ObjectStore
}

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Repositories *Repositories
	Metrics      *observability.Metrics
	Router       *chi.Mux
}
