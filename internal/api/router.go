package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"shade-seat-service/internal/api/handlers"
	"shade-seat-service/internal/platform/metrics"
	"shade-seat-service/internal/ports"
	"shade-seat-service/internal/services"
)

type Deps struct {
	Lookup         ports.PlaceLookup
	Router         ports.RouteProvider
	Location       *time.Location
	Suggest        services.SuggestOptions
	SuggestDelay   time.Duration
	AllowedOrigins []string

	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Now      func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	recHandler := &handlers.RecommendationHandler{
		Geocoder: d.Lookup,
		Router:   d.Router,
		Location: d.Location,
		Metrics:  d.Metrics,
		Now:      d.Now,
	}
	sugHandler := &handlers.SuggestionHandler{Suggester: d.Lookup, Options: d.Suggest}
	stream := &handlers.SuggestionStream{
		Suggester:      d.Lookup,
		Options:        d.Suggest,
		Delay:          d.SuggestDelay,
		AllowedOrigins: d.AllowedOrigins,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger, d.Metrics))
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/recommendations", recHandler.Create)
		r.Post("/bearing", handlers.Bearing)
		r.Get("/suggestions", sugHandler.List)
	})
	r.Method(http.MethodGet, "/ws/suggestions", stream)

	return r
}
