package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/service"
)

// ProviderHandler handles provider directory HTTP requests
type ProviderHandler struct {
	catalogService service.CatalogService
	logger         *slog.Logger
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(catalogService service.CatalogService, logger *slog.Logger) *ProviderHandler {
	return &ProviderHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListProviders handles GET /providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProviderFilter(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	providers, err := h.catalogService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, providers)
}

// GetProvider handles GET /providers/{id}
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, codeInvalidID, "Invalid provider ID")
		return
	}

	provider, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, provider)
}

func parseProviderFilter(r *http.Request) (models.ProviderFilter, error) {
	query := r.URL.Query()
	filter := models.ProviderFilter{
		Material: models.Material(query.Get("material")),
		SortBy:   query.Get("sort"),
	}

	if v := query.Get("business"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, models.ErrInvalidInput("business must be true or false")
		}
		filter.BusinessOnly = b
	}
	if v := query.Get("max_distance"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || d < 0 {
			return filter, models.ErrInvalidInput("max_distance must be a non-negative number")
		}
		filter.MaxDistance = d
	}
	if v := query.Get("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil || rating < 0 || rating > 5 {
			return filter, models.ErrInvalidInput("min_rating must be between 0 and 5")
		}
		filter.MinRating = rating
	}

	return filter, nil
}
