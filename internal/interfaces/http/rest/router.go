// Package rest assembles the chi router: global middleware, the public
// routes and the authenticated admin routes.
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"dashboard-backend/internal/domain/user"
	"dashboard-backend/internal/interfaces/http/handlers"
	"dashboard-backend/internal/interfaces/http/middleware"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
	Dashboards *handlers.DashboardHandler
	Widgets    *handlers.WidgetHandler
	TopicAreas *handlers.TopicAreaHandler
	Datasets   *handlers.DatasetHandler
	Settings   *handlers.SettingsHandler
	Users      *handlers.UserHandler
	Public     *handlers.PublicHandler
	Health     *handlers.HealthHandler
}

// Instrumentation is optional: a nil Recorder or Tracing is skipped, a nil
// MetricsHandler leaves /metrics unmounted.
type Instrumentation struct {
	Recorder       middleware.HTTPRecorder
	MetricsHandler http.Handler
	Tracing        func(http.Handler) http.Handler
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	CircuitBreaker middleware.CircuitBreakerConfig
}

// Router creates and configures the HTTP router
type Router struct {
	handlers      Handlers
	authenticator *middleware.Authenticator
	observe       Instrumentation
	opts          Options
	logger        *zap.Logger
}

func NewRouter(h Handlers, authenticator *middleware.Authenticator, observe Instrumentation, opts Options, logger *zap.Logger) *Router {
	return &Router{
		handlers:      h,
		authenticator: authenticator,
		observe:       observe,
		opts:          opts,
		logger:        logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Recovery(rt.logger))
	router.Use(middleware.Logging(rt.logger))
	if rt.observe.Tracing != nil {
		router.Use(rt.observe.Tracing)
	}
	if rt.observe.Recorder != nil {
		router.Use(middleware.Metrics(rt.observe.Recorder))
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if rt.opts.RequestTimeout > 0 {
		router.Use(middleware.Timeout(rt.opts.RequestTimeout, rt.logger))
	}

	router.Get("/health", rt.handlers.Health.Health)
	if rt.observe.MetricsHandler != nil {
		router.Handle("/metrics", rt.observe.MetricsHandler)
	}

	rt.publicRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(rt.authenticator.Authenticate)
		r.Use(middleware.CircuitBreaker(rt.opts.CircuitBreaker, rt.logger))
		rt.adminRoutes(r)
	})

	return router
}

func (rt *Router) publicRoutes(r chi.Router) {
	public := rt.handlers.Public
	r.Get("/public-settings", rt.handlers.Settings.GetPublicSettings)
	r.Route("/public/dashboard", func(r chi.Router) {
		r.Get("/", public.ListDashboards)
		r.Get("/{id}", public.GetDashboard)
		r.Get("/{id}/widget/{widgetId}/data", public.GetWidgetData)
	})
}

func (rt *Router) adminRoutes(r chi.Router) {
	dashboards := rt.handlers.Dashboards
	widgets := rt.handlers.Widgets

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", dashboards.ListDashboards)
		r.Post("/", dashboards.CreateDashboard)

		// {id} is a topic area id on GET /dashboard/{id}/{dashboardId}.
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", dashboards.GetDashboard)
			r.Put("/", dashboards.UpdateDashboard)
			r.Delete("/", dashboards.DeleteDashboard)
			r.Get("/{dashboardId}", dashboards.GetDashboardInTopicArea)

			r.Put("/overview", dashboards.UpdateOverview)
			r.Put("/publishpending", dashboards.PublishPending)
			r.Put("/publish", dashboards.Publish)
			r.Put("/archive", dashboards.Archive)
			r.Put("/draft", dashboards.MoveToDraft)

			r.Post("/widget", widgets.CreateWidget)
			r.Route("/widget/{widgetId}", func(r chi.Router) {
				r.Get("/", widgets.GetWidget)
				r.Put("/", widgets.UpdateWidget)
				r.Delete("/", widgets.DeleteWidget)
				r.Put("/move", widgets.MoveWidget)
			})
			r.Put("/widgetorder", widgets.SetWidgetOrder)
		})
	})

	topicAreas := rt.handlers.TopicAreas
	r.Route("/topicarea", func(r chi.Router) {
		r.Get("/", topicAreas.ListTopicAreas)
		r.Post("/", topicAreas.CreateTopicArea)
		r.Get("/{id}", topicAreas.GetTopicArea)
		r.Put("/{id}", topicAreas.RenameTopicArea)
		r.Delete("/{id}", topicAreas.DeleteTopicArea)
		r.Get("/{id}/dashboards", topicAreas.ListDashboards)
	})

	datasets := rt.handlers.Datasets
	r.Route("/dataset", func(r chi.Router) {
		r.Get("/", datasets.ListDatasets)
		r.Post("/", datasets.UploadDataset)
		r.Get("/{id}", datasets.GetDataset)
		r.Delete("/{id}", datasets.DeleteDataset)
	})

	settings := rt.handlers.Settings
	r.Get("/settings", settings.GetSettings)
	r.With(middleware.RequireRole(string(user.RoleAdmin))).Put("/settings", settings.UpdateSettings)

	users := rt.handlers.Users
	r.Route("/user", func(r chi.Router) {
		r.Use(middleware.RequireRole(string(user.RoleAdmin)))
		r.Get("/", users.ListUsers)
		r.Post("/", users.InviteUsers)
		r.Delete("/", users.RemoveUsers)
		r.Post("/invite", users.ResendInvite)
		r.Put("/role", users.ChangeRole)
	})
}
