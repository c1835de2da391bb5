package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"calcd/internal/calculator"
	"calcd/internal/handlers"
	"calcd/internal/observability"
)

// NewRouter assembles the HTTP surface: observability middleware, the
// health and metrics endpoints, and the calculator session API.
func NewRouter(api *calculator.API) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	api.RegisterRoutes(r)

	return r
}
