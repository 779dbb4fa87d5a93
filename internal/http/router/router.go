package router

import (
	"net/http"

	"github.com/digitaltreasurer/treasurer-api/internal/auth"
	"github.com/digitaltreasurer/treasurer-api/internal/config"
	"github.com/digitaltreasurer/treasurer-api/internal/http/handler"
	"github.com/digitaltreasurer/treasurer-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/digitaltreasurer/treasurer-api/docs" // swagger docs
)

// Handlers groups the HTTP handlers the router mounts
type Handlers struct {
	Auth         *handler.AuthHandler
	Group        *handler.GroupHandler
	Contribution *handler.ContributionHandler
	Public       *handler.PublicHandler
	View         *handler.ViewHandler
	Settings     *handler.SettingsHandler
	Health       *handler.HealthHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	authMiddleware *auth.Middleware
	groupScope     *middleware.GroupScopeMiddleware
	rateLimiter    *middleware.RateLimiter
	registry       *prometheus.Registry
	handlers       Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	registry *prometheus.Registry,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		authMiddleware: authMiddleware,
		groupScope:     middleware.NewGroupScopeMiddleware("name", logger),
		rateLimiter:    rateLimiter,
		registry:       registry,
		handlers:       handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	h := rt.handlers
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	if rt.registry != nil {
		r.Use(middleware.NewMetrics(rt.registry).Handler)
	}
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	r.Get("/health", h.Health.Live)
	r.Get("/health/db", h.Health.Database)
	r.Get("/health/ready", h.Health.Ready)

	if rt.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	}

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.rateLimiter.LimitLogin)
			r.Post("/auth/register", h.Auth.Register)
			r.Post("/auth/login", h.Auth.Login)
		})

		r.Get("/options", h.Settings.Options)

		r.With(rt.authMiddleware.OptionalAuthenticate).Get("/view", h.View.Resolve)

		r.Route("/public/groups", func(r chi.Router) {
			r.Get("/", h.Public.Groups)
			r.Route("/{name}", func(r chi.Router) {
				r.Use(rt.groupScope.Scope)
				r.Get("/", h.Public.Summary)
				r.Get("/search", h.Public.Search)
			})
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", h.Group.List)
				r.Post("/", h.Group.Create)

				r.Route("/{name}", func(r chi.Router) {
					r.Use(rt.groupScope.Scope)
					r.Get("/", h.Group.Get)
					r.Put("/", h.Group.Update)
					r.Delete("/", h.Group.Delete)
					r.Get("/link", h.Group.Link)

					r.Get("/contributions", h.Contribution.List)
					r.Post("/contributions", h.Contribution.Record)
					r.Post("/contributions/import", h.Contribution.Import)
					r.Get("/logistics", h.Contribution.ListLogistics)
					r.Post("/logistics", h.Contribution.MarkFirewood)
					r.Get("/events", h.Contribution.Events)
					r.Post("/report", h.Contribution.Report)
					r.Get("/export.csv", h.Contribution.ExportCSV)
				})
			})

			r.Get("/settings/flat-rate", h.Settings.GetFlatRate)
			r.Put("/settings/flat-rate", h.Settings.UpdateFlatRate)
			r.Post("/tools/mpesa/parse", h.Settings.ParseSMS)
		})
	})

	return r
}
