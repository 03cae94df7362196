package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Raymond9734/print-connect-backend/internal/metrics"
	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/queue"
	"github.com/Raymond9734/print-connect-backend/internal/repository"
)

// OrderService handles order submission and order lifecycle
type OrderService interface {
	SubmitForm(ctx context.Context, form *OrderForm, user *models.User) (*models.Order, error)
	Submit(ctx context.Context, providerID int64, req *SubmitOrderRequest, user *models.User) (*models.Order, error)
	ListForProvider(ctx context.Context, providerID int64, filter models.OrderFilter) (*OrderListResult, error)
	Dashboard(ctx context.Context, user *models.User) (*DashboardResult, error)
	UpdateStatus(ctx context.Context, orderID int64, req *UpdateOrderStatusRequest, user *models.User) (*models.Order, error)
}

type orderService struct {
	api          API
	providerRepo repository.ProviderRepository
	orderRepo    repository.OrderRepository
	queueClient  queue.Client
	logger       *slog.Logger
}

// NewOrderService creates a new order service. queueClient may be nil,
// in which case no notifications are published.
func NewOrderService(
	api API,
	providerRepo repository.ProviderRepository,
	orderRepo repository.OrderRepository,
	queueClient queue.Client,
	logger *slog.Logger,
) OrderService {
	return &orderService{
		api:          api,
		providerRepo: providerRepo,
		orderRepo:    orderRepo,
		queueClient:  queueClient,
		logger:       logger,
	}
}

// SubmitForm validates the form and sends it through the API. A validation
// failure never reaches the API. On success the form is closed.
func (s *orderService) SubmitForm(ctx context.Context, form *OrderForm, user *models.User) (*models.Order, error) {
	payload, err := form.Validate(user)
	if err != nil {
		metrics.OrdersSubmitted.WithLabelValues("invalid").Inc()
		return nil, err
	}

	form.submitting = true
	form.err = ""
	defer func() { form.submitting = false }()

	order, err := s.api.SubmitOrder(ctx, payload, user)
	if err != nil {
		form.err = MsgSubmitFailed
		metrics.OrdersSubmitted.WithLabelValues("failed").Inc()
		s.logger.Error("failed to submit order",
			slog.Int64("provider_id", payload.ProviderID),
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	form.Close()
	metrics.OrdersSubmitted.WithLabelValues("accepted").Inc()

	s.publish(ctx, &models.OrderJob{
		Event:      models.OrderEventSubmitted,
		OrderID:    order.ID,
		ProviderID: order.ProviderID,
		Status:     order.Status,
	})

	return order, nil
}

// Submit fills an order form from the request and submits it
func (s *orderService) Submit(ctx context.Context, providerID int64, req *SubmitOrderRequest, user *models.User) (*models.Order, error) {
	if user == nil {
		return nil, models.ErrUnauthorized("a user is required to place an order")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotFoundWithMsg("Provider not found")
	}
	if err != nil {
		return nil, err
	}

	form := NewOrderForm(provider)
	form.SetHasFile(req.WantsFile())
	form.SetFile(req.FileName)
	form.SetIdea(req.IdeaDescription)
	if req.Material != "" {
		form.SetMaterial(req.Material)
	}
	form.SetNotes(req.Notes)

	// Over HTTP there is no inline reset to show, so the limit is an error
	if !form.SetQuantity(req.Quantity) {
		metrics.OrdersSubmitted.WithLabelValues("invalid").Inc()
		return nil, models.ErrInvalidInput(form.Error())
	}

	return s.SubmitForm(ctx, form, user)
}

// ListForProvider retrieves a provider's received orders with pagination
func (s *orderService) ListForProvider(ctx context.Context, providerID int64, filter models.OrderFilter) (*OrderListResult, error) {
	if filter.Status != "" && !models.IsValidOrderStatus(filter.Status) {
		return nil, models.ErrInvalidInput(fmt.Sprintf("invalid status: %s", filter.Status))
	}

	orders, totalCount, err := s.orderRepo.ListByProvider(ctx, providerID, filter)
	if err != nil {
		return nil, err
	}

	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	return &OrderListResult{
		Data:       orders,
		Pagination: models.NewPaginationResult(filter.Page, filter.PageSize, totalCount),
	}, nil
}

// Dashboard builds the dashboard for the user
func (s *orderService) Dashboard(ctx context.Context, user *models.User) (*DashboardResult, error) {
	if user == nil {
		return nil, models.ErrUnauthorized("a user is required to view the dashboard")
	}

	if user.IsProvider() {
		provider, err := s.providerRepo.GetByID(ctx, *user.ProviderID)
		if err != nil {
			return nil, err
		}
		return &DashboardResult{
			User:     user,
			Provider: provider,
			Orders:   provider.Orders,
		}, nil
	}

	orders, err := s.orderRepo.ListByCustomer(ctx, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer orders: %w", err)
	}

	return &DashboardResult{
		User:   user,
		Orders: orders,
	}, nil
}

// UpdateStatus moves an order along its lifecycle on behalf of its provider
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, req *UpdateOrderStatusRequest, user *models.User) (*models.Order, error) {
	if user == nil {
		return nil, models.ErrUnauthorized("a user is required to update orders")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !user.Owns(order.ProviderID) {
		return nil, models.ErrForbidden("only the receiving provider can update this order")
	}

	if !order.CanTransitionTo(req.Status) {
		return nil, models.ErrConflictWithMsg(
			fmt.Sprintf("order with status '%s' cannot move to '%s'", order.Status, req.Status),
		)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status, req.Status); err != nil {
		s.logger.Error("failed to update order status",
			slog.Int64("order_id", orderID),
			slog.String("status", req.Status),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	previous := order.Status
	order.Status = req.Status
	metrics.OrderStatusChanges.WithLabelValues(order.Status).Inc()

	s.logger.Info("order status updated",
		slog.Int64("order_id", orderID),
		slog.String("from", previous),
		slog.String("to", order.Status),
	)

	s.publish(ctx, &models.OrderJob{
		Event:      models.OrderEventStatusChanged,
		OrderID:    order.ID,
		ProviderID: order.ProviderID,
		Status:     order.Status,
	})

	return order, nil
}

// publish queues a notification; failures are logged, not returned
func (s *orderService) publish(ctx context.Context, job *models.OrderJob) {
	if s.queueClient == nil {
		return
	}

	if err := s.queueClient.Publish(ctx, job); err != nil {
		s.logger.Error("failed to queue order notification",
			slog.String("event", job.Event),
			slog.Int64("order_id", job.OrderID),
			slog.String("error", err.Error()),
		)
	}
}
