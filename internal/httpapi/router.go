// Package httpapi serves the scheduler as a JSON REST API.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"hospital-scheduler-api/internal/account"
	"hospital-scheduler-api/internal/metrics"
	"hospital-scheduler-api/internal/middleware"
	"hospital-scheduler-api/internal/pb"
	"hospital-scheduler-api/internal/scheduler"
)

type Config struct {
	Accounts  *account.Service
	Scheduler *scheduler.Service
	Secret    string
	Logger    *zap.Logger
	Metrics   *metrics.Collector
	// Limiter throttles the auth routes; nil disables throttling.
	Limiter *middleware.RateLimiter
	// Health reports backing store reachability for /healthz.
	Health func(context.Context) error
	// GRPCWeb, when set, is mounted under the gRPC service path.
	GRPCWeb http.Handler
}

type api struct {
	accounts  *account.Service
	scheduler *scheduler.Service
	log       *zap.Logger
}

func New(cfg Config) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	a := &api{accounts: cfg.Accounts, scheduler: cfg.Scheduler, log: log}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log, cfg.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				log.Warn("health check failed", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}
	if cfg.GRPCWeb != nil {
		r.Handle("/"+pb.ServiceName+"/*", cfg.GRPCWeb)
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(public chi.Router) {
			if cfg.Limiter != nil {
				public.Use(middleware.HTTPRateLimit(cfg.Limiter))
			}
			public.Post("/auth/register", a.register)
			public.Post("/auth/login", a.login)
			public.Post("/auth/refresh", a.refresh)
		})

		r.Group(func(authed chi.Router) {
			authed.Use(middleware.HTTPAuth(cfg.Secret))
			authed.Post("/auth/logout", a.logout)

			authed.Get("/appointments", a.listAppointments)
			authed.Post("/appointments", a.createAppointment)
			authed.Get("/appointments/{id}", a.getAppointment)
			authed.Put("/appointments/{id}", a.updateAppointment)
			authed.Delete("/appointments/{id}", a.deleteAppointment)

			authed.Get("/doctors/{userID}/appointments", a.listByDoctor)
			authed.Get("/patients/{userID}/appointments", a.listByPatient)
		})
	})
	return r
}
