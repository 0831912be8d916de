package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"calcpad/internal/calculator"
	"calcpad/internal/handlers"
	"calcpad/internal/observability"
)

func NewRouter(store *calculator.Store) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, store)

	return r
}
