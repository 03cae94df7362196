package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Raymond9734/print-connect-backend/internal/queue"
)

// HealthChecker reports whether a dependency is reachable; *db.DB satisfies it
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db          HealthChecker
	queueClient queue.Client
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler. db and queueClient may be
// nil when the API runs on the in-memory store without a queue.
func NewHealthHandler(db HealthChecker, queueClient queue.Client, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:          db,
		queueClient: queueClient,
		logger:      logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string            `json:"status"`
	Services    map[string]string `json:"services"`
	QueueLength *int64            `json:"queue_length,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:   "healthy",
		Services: make(map[string]string),
	}

	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			h.logger.Error("database health check failed", slog.String("error", err.Error()))
			response.Status = "unhealthy"
			response.Services["database"] = "unhealthy"
		} else {
			response.Services["database"] = "healthy"
		}
	} else {
		response.Services["database"] = "not_configured"
	}

	if h.queueClient != nil {
		if err := h.queueClient.Health(ctx); err != nil {
			h.logger.Error("queue health check failed", slog.String("error", err.Error()))
			response.Status = "unhealthy"
			response.Services["queue"] = "unhealthy"
		} else {
			response.Services["queue"] = "healthy"
			if length, err := h.queueClient.Length(ctx); err == nil {
				response.QueueLength = &length
			}
		}
	} else {
		response.Services["queue"] = "not_configured"
	}

	if response.Status == "healthy" {
		respondSuccess(w, response)
	} else {
		respondJSON(w, http.StatusServiceUnavailable, response)
	}
}
