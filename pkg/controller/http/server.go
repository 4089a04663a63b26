package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/usecase"
	"github.com/vanerisk/vane/pkg/utils/logging"
)

type Server struct {
	router   *chi.Mux
	uc       *usecase.UseCases
	authUC   AuthUseCase
	billing  interfaces.BillingService
	registry *prometheus.Registry
	metrics  *metrics
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithBilling enables the billing webhook endpoint
func WithBilling(svc interfaces.BillingService) Options {
	return func(s *Server) {
		s.billing = svc
	}
}

// WithRegistry sets the Prometheus registry exposed on /metrics
func WithRegistry(registry *prometheus.Registry) Options {
	return func(s *Server) {
		s.registry = registry
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.authUC == nil {
		s.authUC = uc.Auth
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m, err := newMetrics(s.registry)
	if err != nil {
		return nil, err
	}
	s.metrics = m

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)
	r.Use(sessionMiddleware(s.authUC))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", s.metrics.handler(s.registry))

	r.Route("/auth", func(r chi.Router) {
		r.Get("/callback", authCallbackHandler(s.authUC))
		r.Post("/sign-out", signOutHandler(s.authUC))
	})
	r.Get("/sign-in", signInHandler)
	r.Get("/pricing", pricingHandler(uc))

	r.Route("/risks", func(r chi.Router) {
		r.Use(requirePageSession)
		r.Get("/", dashboardHandler(uc))
		r.Post("/watches", addWatchHandler(uc))
		r.Delete("/watches/{id}", removeWatchHandler(uc))
		r.Get("/compare", compareHandler(uc))
		r.Get("/theme/{theme_id}", themeHandler(uc))
		r.Get("/{id}", companyDetailHandler(uc))
	})

	r.Route("/settings", func(r chi.Router) {
		r.Use(requirePageSession)
		r.Get("/", settingsHandler(uc))
		r.Post("/delete-account", deleteAccountHandler(uc, s.authUC))
	})

	r.Route("/api", func(r chi.Router) {
		// Signature verification replaces the session check
		if s.billing != nil {
			r.Post("/stripe/webhook", webhookHandler(uc, s.billing, s.metrics))
		}

		r.Group(func(r chi.Router) {
			r.Use(requireAPISession)
			r.Post("/create-checkout-session", checkoutHandler(uc))
			r.Post("/create-portal-session", portalHandler(uc))
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
