package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/repository"
)

// maxIDAttempts bounds the retries when a random order id is already taken
const maxIDAttempts = 5

// API is the backend surface the front-end talks to
type API interface {
	FetchProviders(ctx context.Context) ([]*models.Provider, error)
	SubmitOrder(ctx context.Context, payload *models.NewOrderPayload, user *models.User) (*models.Order, error)
}

// APIOptions tunes the mock API. Zero values fall back to defaults,
// except the delays: a zero delay means no wait.
type APIOptions struct {
	FetchDelay  time.Duration
	SubmitDelay time.Duration
	NewID       func() int64
	Now         func() time.Time
}

type mockAPI struct {
	providerRepo repository.ProviderRepository
	orderRepo    repository.OrderRepository
	opts         APIOptions
	logger       *slog.Logger
}

// NewMockAPI creates an API backed by the repositories with artificial latency
func NewMockAPI(
	providerRepo repository.ProviderRepository,
	orderRepo repository.OrderRepository,
	opts APIOptions,
	logger *slog.Logger,
) API {
	if opts.NewID == nil {
		opts.NewID = randomOrderID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &mockAPI{
		providerRepo: providerRepo,
		orderRepo:    orderRepo,
		opts:         opts,
		logger:       logger,
	}
}

// randomOrderID mirrors the id range the front-end has always used
func randomOrderID() int64 {
	return rand.Int64N(10000) + 10
}

// FetchProviders returns a copy of every provider after the fetch delay
func (a *mockAPI) FetchProviders(ctx context.Context) ([]*models.Provider, error) {
	a.logger.Debug("fetching providers")

	if err := wait(ctx, a.opts.FetchDelay); err != nil {
		return nil, err
	}

	providers, err := a.providerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch providers: %w", err)
	}

	a.logger.Debug("providers fetched", slog.Int("count", len(providers)))

	return providers, nil
}

// SubmitOrder records a new pending order at the head of the provider's list
func (a *mockAPI) SubmitOrder(ctx context.Context, payload *models.NewOrderPayload, user *models.User) (*models.Order, error) {
	if payload == nil || user == nil {
		return nil, models.ErrInvalidInput("payload and user are required")
	}

	a.logger.Debug("submitting order",
		slog.Int64("provider_id", payload.ProviderID),
		slog.Int64("user_id", user.ID),
	)

	if err := wait(ctx, a.opts.SubmitDelay); err != nil {
		return nil, err
	}

	provider, err := a.providerRepo.GetByID(ctx, payload.ProviderID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotFoundWithMsg("Provider not found")
	}
	if err != nil {
		return nil, err
	}

	if err := validatePayload(payload, provider); err != nil {
		return nil, err
	}

	order := &models.Order{
		ProviderID:      provider.ID,
		CustomerName:    user.Name,
		FileName:        payload.FileName,
		IdeaDescription: payload.IdeaDescription,
		Material:        payload.Material,
		Quantity:        payload.Quantity,
		Notes:           payload.Notes,
		Status:          models.OrderStatusPending,
		Date:            a.opts.Now().UTC().Format(models.OrderDateLayout),
	}

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		order.ID = a.opts.NewID()

		err = a.orderRepo.Create(ctx, order)
		if err == nil {
			a.logger.Info("order submitted",
				slog.Int64("order_id", order.ID),
				slog.Int64("provider_id", order.ProviderID),
				slog.String("customer", order.CustomerName),
			)
			return order, nil
		}
		if !errors.Is(err, models.ErrAlreadyExists) {
			return nil, err
		}

		a.logger.Warn("order id collision, retrying",
			slog.Int64("order_id", order.ID),
			slog.Int("attempt", attempt),
		)
	}

	return nil, models.ErrConflictWithMsg("could not allocate a unique order id")
}

// validatePayload enforces the order invariants the form also checks
func validatePayload(payload *models.NewOrderPayload, provider *models.Provider) error {
	hasFile := payload.FileName != nil && *payload.FileName != ""
	hasIdea := payload.IdeaDescription != nil && *payload.IdeaDescription != ""
	if hasFile == hasIdea {
		return models.ErrInvalidInput("exactly one of file_name and idea_description is required")
	}
	if payload.Quantity < 1 {
		return models.ErrInvalidInput("quantity must be at least 1")
	}
	if !provider.AcceptsQuantity(payload.Quantity) {
		return models.ErrInvalidInput(MsgQuantityLimited)
	}
	if !models.IsValidMaterial(payload.Material) {
		return models.ErrInvalidInput(fmt.Sprintf("invalid material: %s", payload.Material))
	}
	if len(provider.Materials) > 0 && !provider.Offers(payload.Material) {
		return models.ErrInvalidInput(MsgMaterialNotOffered)
	}
	return nil
}

// wait blocks for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
