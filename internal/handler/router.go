package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Health   *HealthHandler
	Provider *ProviderHandler
	Order    *OrderHandler
	Metrics  http.Handler
}

// NewRouter wires the middleware chain and every route
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery stays inside logging and metrics; a panic is logged and counted as a 500
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(MetricsMiddleware)
	r.Use(RecoveryMiddleware(logger))
	r.Use(CORSMiddleware)

	r.Get("/health", h.Health.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/providers", func(r chi.Router) {
		r.Get("/", h.Provider.ListProviders)
		r.Get("/{id}", h.Provider.GetProvider)
		r.Get("/{id}/orders", h.Order.ListProviderOrders)
		r.Post("/{id}/orders", h.Order.SubmitOrder)
	})

	r.Patch("/orders/{id}/status", h.Order.UpdateOrderStatus)
	r.Get("/dashboard", h.Order.Dashboard)

	return r
}
