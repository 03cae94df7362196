package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/repository"
)

// CatalogService handles provider listing and detail
type CatalogService interface {
	List(ctx context.Context, filter models.ProviderFilter) ([]*models.Provider, error)
	Get(ctx context.Context, id int64) (*models.Provider, error)
}

type catalogService struct {
	api          API
	providerRepo repository.ProviderRepository
	logger       *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(api API, providerRepo repository.ProviderRepository, logger *slog.Logger) CatalogService {
	return &catalogService{
		api:          api,
		providerRepo: providerRepo,
		logger:       logger,
	}
}

// List fetches providers through the API and applies the filter and sort order
func (s *catalogService) List(ctx context.Context, filter models.ProviderFilter) ([]*models.Provider, error) {
	if !models.IsValidProviderSort(filter.SortBy) {
		return nil, models.ErrInvalidInput(fmt.Sprintf("invalid sort: %s (must be 'distance', 'rating' or 'name')", filter.SortBy))
	}
	if filter.Material != "" && !models.IsValidMaterial(filter.Material) {
		return nil, models.ErrInvalidInput(fmt.Sprintf("invalid material: %s", filter.Material))
	}

	providers, err := s.api.FetchProviders(ctx)
	if err != nil {
		s.logger.Error("failed to fetch providers", slog.String("error", err.Error()))
		return nil, err
	}

	filtered := make([]*models.Provider, 0, len(providers))
	for _, p := range providers {
		if p.Matches(filter) {
			filtered = append(filtered, p)
		}
	}

	sortProviders(filtered, filter.SortBy)

	return filtered, nil
}

// Get retrieves a provider's detail
func (s *catalogService) Get(ctx context.Context, id int64) (*models.Provider, error) {
	return s.providerRepo.GetByID(ctx, id)
}

func sortProviders(providers []*models.Provider, sortBy string) {
	switch sortBy {
	case models.ProviderSortRating:
		slices.SortStableFunc(providers, func(a, b *models.Provider) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case models.ProviderSortName:
		slices.SortStableFunc(providers, func(a, b *models.Provider) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	default:
		slices.SortStableFunc(providers, func(a, b *models.Provider) int {
			return cmp.Compare(a.Distance, b.Distance)
		})
	}
}
